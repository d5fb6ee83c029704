package humanoid_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/vrm_browser/humanoid"
	"github.com/mogaika/vrm_browser/vrm"
)

type fakeSkeleton struct {
	parents   []int // -1 for roots
	rotations map[int]mgl32.Quat
}

func (s *fakeSkeleton) NodeCount() int { return len(s.parents) }

func (s *fakeSkeleton) ParentOf(node int) (int, bool) {
	p := s.parents[node]
	return p, p >= 0
}

func (s *fakeSkeleton) ChildrenOf(node int) []int {
	var children []int
	for i, p := range s.parents {
		if p == node {
			children = append(children, i)
		}
	}
	return children
}

func (s *fakeSkeleton) WorldTransform(node int) humanoid.Transform {
	t := humanoid.IdentityTransform()
	if q, ok := s.rotations[node]; ok {
		t.Rotation = q
	}
	return t
}

// 0 root, 1 hips, 2 spine, 3 chest, 4 neck, 5 head, 6/7 eyes, 8 stray
// child of the root
func testSkeleton() *fakeSkeleton {
	return &fakeSkeleton{parents: []int{-1, 0, 1, 2, 3, 4, 5, 5, 0}}
}

func countWarnings(warnings []vrm.Warning, code string) int {
	n := 0
	for _, w := range warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}

func TestResolve(t *testing.T) {
	bones := map[vrm.Bone]int{
		vrm.BoneHips:     1,
		vrm.BoneSpine:    2,
		vrm.BoneChest:    3,
		vrm.BoneNeck:     4,
		vrm.BoneHead:     5,
		vrm.BoneLeftEye:  6,
		vrm.BoneRightEye: 7,
	}

	r, warnings, err := humanoid.Resolve(bones, testSkeleton())
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Bones(); len(got) != len(bones) {
		t.Errorf("resolved bones %v, want exactly the supplied %d", got, len(bones))
	}
	for bone, want := range bones {
		if node, ok := r.NodeOf(bone); !ok || node != want {
			t.Errorf("NodeOf(%v) = %v/%v, want %v", bone, node, ok, want)
		}
	}
	if _, ok := r.NodeOf(vrm.BoneJaw); ok {
		t.Error("jaw was never mapped")
	}
	if countWarnings(warnings, vrm.WarningBoneOutsideExpectedChain) != 0 {
		t.Errorf("clean skeleton produced topology warnings: %v", warnings)
	}
}

func TestResolveMissingHips(t *testing.T) {
	_, _, err := humanoid.Resolve(map[vrm.Bone]int{vrm.BoneHead: 5}, testSkeleton())
	if err != humanoid.ErrMissingRequiredBone {
		t.Fatalf("error %v, want ErrMissingRequiredBone", err)
	}
}

func TestResolveNodeOutOfRange(t *testing.T) {
	_, _, err := humanoid.Resolve(map[vrm.Bone]int{vrm.BoneHips: 99}, testSkeleton())
	if err == nil {
		t.Fatal("out of range node must fail resolve")
	}
}

func TestResolveTopologyWarning(t *testing.T) {
	// neck bound to the stray node: head's parent chain cannot pass
	// through it
	bones := map[vrm.Bone]int{
		vrm.BoneHips: 1,
		vrm.BoneNeck: 8,
		vrm.BoneHead: 5,
	}

	r, warnings, err := humanoid.Resolve(bones, testSkeleton())
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("topology mismatch must not abort resolve")
	}
	found := false
	for _, w := range warnings {
		if w.Code == vrm.WarningBoneOutsideExpectedChain && strings.Contains(w.Message, `"head"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("no topology warning for head: %v", warnings)
	}
}

func TestResolveSharedNodeWarning(t *testing.T) {
	bones := map[vrm.Bone]int{
		vrm.BoneHips:  1,
		vrm.BoneSpine: 1,
	}
	_, warnings, err := humanoid.Resolve(bones, testSkeleton())
	if err != nil {
		t.Fatal(err)
	}
	if countWarnings(warnings, vrm.WarningNodeSharedByBones) != 1 {
		t.Errorf("warnings %v", warnings)
	}
}

func TestResolveRequiredBoneAdvisory(t *testing.T) {
	_, warnings, err := humanoid.Resolve(map[vrm.Bone]int{vrm.BoneHips: 1}, testSkeleton())
	if err != nil {
		t.Fatal(err)
	}
	// everything from the required list except hips
	if n := countWarnings(warnings, vrm.WarningRequiredBoneUnmapped); n != len(vrm.RequiredBones)-1 {
		t.Errorf("%d advisory warnings, want %d", n, len(vrm.RequiredBones)-1)
	}
}

func TestResolveRestPoseCapture(t *testing.T) {
	skel := testSkeleton()
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	skel.rotations = map[int]mgl32.Quat{5: want}

	r, _, err := humanoid.Resolve(map[vrm.Bone]int{vrm.BoneHips: 1, vrm.BoneHead: 5}, skel)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := r.RestRotation(vrm.BoneHead)
	if !ok || math.Abs(float64(got.Dot(want))) < 0.99999 {
		t.Errorf("rest rotation %v/%v, want %v", got, ok, want)
	}
	if hips, ok := r.RestRotation(vrm.BoneHips); !ok || hips.W != 1 {
		t.Errorf("hips rest rotation %v, want identity", hips)
	}
}

func TestResolveIdempotent(t *testing.T) {
	bones := map[vrm.Bone]int{
		vrm.BoneHips: 1,
		vrm.BoneNeck: 4,
		vrm.BoneHead: 5,
	}
	skel := testSkeleton()

	r1, w1, err1 := humanoid.Resolve(bones, skel)
	r2, w2, err2 := humanoid.Resolve(bones, skel)
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Error("two resolves over the same inputs differ")
	}
	if !reflect.DeepEqual(w1, w2) {
		t.Errorf("warnings differ: %v vs %v", w1, w2)
	}
}
