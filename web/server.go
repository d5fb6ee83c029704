package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/vrm_browser/avatar"
)

// ServerAvatar is the avatar every handler serves. Set once before the
// server starts, read-only afterwards.
var ServerAvatar *avatar.Avatar

// StartServer serves the avatar inspection endpoints, the gaze target
// websocket and the static viewer files. Blocks until the listener fails.
func StartServer(addr string, av *avatar.Avatar, webPath string, target mgl32.Vec3) error {
	ServerAvatar = av
	startTargetBroadcast(target)

	r := mux.NewRouter()
	r.HandleFunc("/json/avatar", HandlerAjaxAvatar)
	r.HandleFunc("/json/avatar/bones", HandlerAjaxBones)
	r.HandleFunc("/json/avatar/lookat", HandlerAjaxLookAt)
	r.HandleFunc("/json/avatar/warnings", HandlerAjaxWarnings)
	r.HandleFunc("/json/gaze", HandlerAjaxGaze)
	r.HandleFunc("/dump/avatar/bones", HandlerDumpBones)
	r.HandleFunc("/ws/target", HandlerWsTarget)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
