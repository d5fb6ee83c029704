package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/mogaika/vrm_browser/lookat"
)

// The viewer pushes gaze target positions over this socket and every
// connected client receives the solver state computed for the newest
// target. One target is shared by all clients; stale states are simply
// overwritten by the next broadcast.

type targetUpdate struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type gazeBroadcast struct {
	Target [3]float32   `json:"target"`
	State  lookat.State `json:"state"`
}

type targetClient struct {
	conn *websocket.Conn
	send chan []byte
}

var (
	targetLock    sync.Mutex
	targetClients map[*targetClient]bool
	targetQueue   chan mgl32.Vec3
	lastBroadcast []byte
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
}

func startTargetBroadcast(initial mgl32.Vec3) {
	targetClients = make(map[*targetClient]bool)
	targetQueue = make(chan mgl32.Vec3, 16)
	go func() {
		for target := range targetQueue {
			state := ServerAvatar.Gaze(target)
			data, err := json.Marshal(&gazeBroadcast{
				Target: target,
				State:  state,
			})
			if err != nil {
				log.Printf("[web] target broadcast marshal error: %v", err)
				continue
			}
			targetLock.Lock()
			lastBroadcast = data
			for c := range targetClients {
				select {
				case c.send <- data:
				default:
					// slow client, it will resync on the next target
				}
			}
			targetLock.Unlock()
		}
	}()
	targetQueue <- initial
}

func registerTargetClient(c *targetClient) {
	targetLock.Lock()
	defer targetLock.Unlock()
	targetClients[c] = true
	if lastBroadcast != nil {
		c.send <- lastBroadcast
	}
}

func unregisterTargetClient(c *targetClient) {
	targetLock.Lock()
	defer targetLock.Unlock()
	if _, ok := targetClients[c]; ok {
		delete(targetClients, c)
		close(c.send)
	}
}

func (c *targetClient) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterTargetClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[web] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[web] ws write ping error: %v", err)
				return
			}
		}
	}
}

func (c *targetClient) readPump() {
	defer func() {
		unregisterTargetClient(c)
		c.conn.Close()
	}()
	for {
		var update targetUpdate
		if err := c.conn.ReadJSON(&update); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[web] ws read error: %v", err)
			}
			return
		}
		targetQueue <- mgl32.Vec3{update.X, update.Y, update.Z}
	}
}

func HandlerWsTarget(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	c := &targetClient{conn: conn, send: make(chan []byte, 32)}
	go c.writePump()
	registerTargetClient(c)
	c.readPump()
}
