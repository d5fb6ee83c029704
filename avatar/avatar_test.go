package avatar_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/vrm_browser/avatar"
	"github.com/mogaika/vrm_browser/humanoid"
	"github.com/mogaika/vrm_browser/vrm"
)

const testExtension = `{
	"specVersion": "1.0",
	"meta": {"name": "TestIdol", "authors": ["nobody"]},
	"humanoid": {"humanBones": [
		{"bone": "hips", "node": 1},
		{"bone": "spine", "node": 2},
		{"bone": "neck", "node": 3},
		{"bone": "head", "node": 4},
		{"bone": "leftEye", "node": 5},
		{"bone": "rightEye", "node": 6}
	]},
	"lookAt": {
		"type": "bone",
		"offsetFromHeadBone": [0, 0, 0],
		"rangeMapHorizontalInner": {"inputMaxValue": 90, "outputScale": 90},
		"rangeMapHorizontalOuter": {"inputMaxValue": 90, "outputScale": 90},
		"rangeMapVerticalUp": {"inputMaxValue": 90, "outputScale": 90},
		"rangeMapVerticalDown": {"inputMaxValue": 90, "outputScale": 90}
	}
}`

func testDocument(ext string) *gltf.Document {
	return &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "Root", Children: []uint32{1}},
			{Name: "Hips", Children: []uint32{2}, Translation: [3]float32{0, 0.9, 0}},
			{Name: "Spine", Children: []uint32{3}, Translation: [3]float32{0, 0.3, 0}},
			{Name: "Neck", Children: []uint32{4}, Translation: [3]float32{0, 0.3, 0}},
			{Name: "Head", Children: []uint32{5, 6}, Translation: [3]float32{0, 0.1, 0}},
			{Name: "LeftEye", Translation: [3]float32{0.03, 0.05, 0.1}},
			{Name: "RightEye", Translation: [3]float32{-0.03, 0.05, 0.1}},
		},
		Extensions: gltf.Extensions{
			vrm.ExtensionName: json.RawMessage(ext),
		},
	}
}

func TestFromDocument(t *testing.T) {
	a, err := avatar.FromDocument(testDocument(testExtension))
	if err != nil {
		t.Fatal(err)
	}

	if a.Meta.Name != "TestIdol" || a.SpecVersion != "1.0" {
		t.Errorf("meta %+v version %q", a.Meta, a.SpecVersion)
	}
	if node, ok := a.Humanoid.NodeOf(vrm.BoneHead); !ok || node != 4 {
		t.Errorf("head node %v/%v, want 4", node, ok)
	}
	if name := a.NodeName(4); name != "Head" {
		t.Errorf("node 4 name %q", name)
	}

	// world transforms accumulate down the chain
	head := a.HeadTransform()
	if y := head.Translation.Y(); math.Abs(float64(y-1.6)) > 1e-5 {
		t.Errorf("head world height %v, want 1.6", y)
	}
}

func TestGaze(t *testing.T) {
	a, err := avatar.FromDocument(testDocument(testExtension))
	if err != nil {
		t.Fatal(err)
	}

	// straight ahead of the face: neutral
	st := a.Gaze(mgl32.Vec3{0, 1.6, 5})
	if math.Abs(float64(st.Yaw)) > 1e-3 || math.Abs(float64(st.Pitch)) > 1e-3 {
		t.Errorf("yaw/pitch = %v/%v, want 0/0", st.Yaw, st.Pitch)
	}

	// to the character's left at eye height
	st = a.Gaze(mgl32.Vec3{5, 1.6, 5})
	if math.Abs(float64(st.Yaw-45)) > 1e-3 {
		t.Errorf("yaw %v, want 45", st.Yaw)
	}
}

func TestFromDocumentMissingExtension(t *testing.T) {
	doc := testDocument(testExtension)
	doc.Extensions = nil
	if _, err := avatar.FromDocument(doc); err == nil {
		t.Fatal("document without the extension must fail")
	}
}

func TestFromDocumentMissingHips(t *testing.T) {
	const ext = `{"humanoid": {"humanBones": [
		{"bone": "head", "node": 4},
		{"bone": "tail", "node": 2}
	]}}`

	_, err := avatar.FromDocument(testDocument(ext))
	lerr, ok := err.(*avatar.LoadError)
	if !ok {
		t.Fatalf("error %v, want LoadError", err)
	}
	if lerr.Err != humanoid.ErrMissingRequiredBone {
		t.Errorf("cause %v, want ErrMissingRequiredBone", lerr.Err)
	}
	// warnings gathered before the failure ride along with it
	found := false
	for _, w := range lerr.Warnings {
		if w.Code == vrm.WarningUnknownBoneName {
			found = true
		}
	}
	if !found {
		t.Errorf("decode warnings lost on fatal error: %v", lerr.Warnings)
	}
}

func TestSkeletonParents(t *testing.T) {
	a, err := avatar.FromDocument(testDocument(testExtension))
	if err != nil {
		t.Fatal(err)
	}
	skel := a.Skeleton()

	if parent, ok := skel.ParentOf(4); !ok || parent != 3 {
		t.Errorf("parent of head node = %v/%v, want 3", parent, ok)
	}
	if _, ok := skel.ParentOf(0); ok {
		t.Error("root must have no parent")
	}
	if children := skel.ChildrenOf(4); len(children) != 2 {
		t.Errorf("head children %v, want both eyes", children)
	}
}
