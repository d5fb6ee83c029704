package web

import (
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/utils"
	"github.com/mogaika/vrm_browser/vrm"
	"github.com/mogaika/vrm_browser/webutils"
)

type ajaxAvatar struct {
	Name        string   `json:"name"`
	SpecVersion string   `json:"specVersion"`
	Meta        vrm.Meta `json:"meta"`
	NodeCount   int      `json:"nodeCount"`
	BoneCount   int      `json:"boneCount"`
	LookAtMode  string   `json:"lookAtMode"`
	Warnings    int      `json:"warnings"`
}

func HandlerAjaxAvatar(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, &ajaxAvatar{
		Name:        ServerAvatar.Name,
		SpecVersion: ServerAvatar.SpecVersion,
		Meta:        ServerAvatar.Meta,
		NodeCount:   ServerAvatar.Skeleton().NodeCount(),
		BoneCount:   len(ServerAvatar.Humanoid.Bones()),
		LookAtMode:  ServerAvatar.LookAt.Mode.String(),
		Warnings:    len(ServerAvatar.Warnings),
	})
}

type ajaxBone struct {
	Bone             vrm.Bone   `json:"bone"`
	Node             int        `json:"node"`
	NodeName         string     `json:"nodeName"`
	RestEulerDegrees mgl32.Vec3 `json:"restEulerDegrees"`
}

func ajaxBones() []ajaxBone {
	humanoid := ServerAvatar.Humanoid
	bones := humanoid.Bones()
	out := make([]ajaxBone, 0, len(bones))
	for _, bone := range bones {
		node, _ := humanoid.NodeOf(bone)
		rest, _ := humanoid.RestRotation(bone)
		out = append(out, ajaxBone{
			Bone:             bone,
			Node:             node,
			NodeName:         ServerAvatar.NodeName(node),
			RestEulerDegrees: utils.QuatToEulerDegrees(rest),
		})
	}
	return out
}

func HandlerAjaxBones(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ajaxBones())
}

func HandlerDumpBones(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJsonFile(w, ajaxBones(), ServerAvatar.Name+"_bones")
}

func HandlerAjaxLookAt(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ServerAvatar.LookAt)
}

func HandlerAjaxWarnings(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ServerAvatar.Warnings)
}

// HandlerAjaxGaze evaluates the solver once for ?x=&y=&z= (world space)
// and returns the resulting state. Debug surface for the curve tuning UI.
func HandlerAjaxGaze(w http.ResponseWriter, r *http.Request) {
	target, err := parseTargetQuery(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, ServerAvatar.Gaze(target))
}

func parseTargetQuery(r *http.Request) (mgl32.Vec3, error) {
	var target mgl32.Vec3
	for i, key := range []string{"x", "y", "z"} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return target, errors.Errorf("query parameter %q is missing", key)
		}
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return target, errors.Wrapf(err, "query parameter %q is not a number", key)
		}
		target[i] = float32(v)
	}
	return target, nil
}
