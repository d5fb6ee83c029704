package humanoid

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/vrm"
)

// ErrMissingRequiredBone aborts resolution: a humanoid without hips
// cannot be retargeted at all.
var ErrMissingRequiredBone = errors.Errorf("required bone %q is not mapped", vrm.BoneHips)

// boneParents is the canonical ancestor table: for each bone, the bone
// its node is expected to sit under. Optional intermediates (chest,
// upperChest, neck, shoulders) are part of the chain; when one of them is
// unmapped the check climbs to the next mapped ancestor.
var boneParents = map[vrm.Bone]vrm.Bone{
	vrm.BoneSpine:      vrm.BoneHips,
	vrm.BoneChest:      vrm.BoneSpine,
	vrm.BoneUpperChest: vrm.BoneChest,
	vrm.BoneNeck:       vrm.BoneUpperChest,
	vrm.BoneHead:       vrm.BoneNeck,
	vrm.BoneLeftEye:    vrm.BoneHead,
	vrm.BoneRightEye:   vrm.BoneHead,
	vrm.BoneJaw:        vrm.BoneHead,

	vrm.BoneLeftUpperLeg:  vrm.BoneHips,
	vrm.BoneLeftLowerLeg:  vrm.BoneLeftUpperLeg,
	vrm.BoneLeftFoot:      vrm.BoneLeftLowerLeg,
	vrm.BoneLeftToes:      vrm.BoneLeftFoot,
	vrm.BoneRightUpperLeg: vrm.BoneHips,
	vrm.BoneRightLowerLeg: vrm.BoneRightUpperLeg,
	vrm.BoneRightFoot:     vrm.BoneRightLowerLeg,
	vrm.BoneRightToes:     vrm.BoneRightFoot,

	vrm.BoneLeftShoulder:  vrm.BoneUpperChest,
	vrm.BoneLeftUpperArm:  vrm.BoneLeftShoulder,
	vrm.BoneLeftLowerArm:  vrm.BoneLeftUpperArm,
	vrm.BoneLeftHand:      vrm.BoneLeftLowerArm,
	vrm.BoneRightShoulder: vrm.BoneUpperChest,
	vrm.BoneRightUpperArm: vrm.BoneRightShoulder,
	vrm.BoneRightLowerArm: vrm.BoneRightUpperArm,
	vrm.BoneRightHand:     vrm.BoneRightLowerArm,

	vrm.BoneLeftThumbMetacarpal:    vrm.BoneLeftHand,
	vrm.BoneLeftThumbProximal:      vrm.BoneLeftThumbMetacarpal,
	vrm.BoneLeftThumbDistal:        vrm.BoneLeftThumbProximal,
	vrm.BoneLeftIndexProximal:      vrm.BoneLeftHand,
	vrm.BoneLeftIndexIntermediate:  vrm.BoneLeftIndexProximal,
	vrm.BoneLeftIndexDistal:        vrm.BoneLeftIndexIntermediate,
	vrm.BoneLeftMiddleProximal:     vrm.BoneLeftHand,
	vrm.BoneLeftMiddleIntermediate: vrm.BoneLeftMiddleProximal,
	vrm.BoneLeftMiddleDistal:       vrm.BoneLeftMiddleIntermediate,
	vrm.BoneLeftRingProximal:       vrm.BoneLeftHand,
	vrm.BoneLeftRingIntermediate:   vrm.BoneLeftRingProximal,
	vrm.BoneLeftRingDistal:         vrm.BoneLeftRingIntermediate,
	vrm.BoneLeftLittleProximal:     vrm.BoneLeftHand,
	vrm.BoneLeftLittleIntermediate: vrm.BoneLeftLittleProximal,
	vrm.BoneLeftLittleDistal:       vrm.BoneLeftLittleIntermediate,

	vrm.BoneRightThumbMetacarpal:    vrm.BoneRightHand,
	vrm.BoneRightThumbProximal:      vrm.BoneRightThumbMetacarpal,
	vrm.BoneRightThumbDistal:        vrm.BoneRightThumbProximal,
	vrm.BoneRightIndexProximal:      vrm.BoneRightHand,
	vrm.BoneRightIndexIntermediate:  vrm.BoneRightIndexProximal,
	vrm.BoneRightIndexDistal:        vrm.BoneRightIndexIntermediate,
	vrm.BoneRightMiddleProximal:     vrm.BoneRightHand,
	vrm.BoneRightMiddleIntermediate: vrm.BoneRightMiddleProximal,
	vrm.BoneRightMiddleDistal:       vrm.BoneRightMiddleIntermediate,
	vrm.BoneRightRingProximal:       vrm.BoneRightHand,
	vrm.BoneRightRingIntermediate:   vrm.BoneRightRingProximal,
	vrm.BoneRightRingDistal:         vrm.BoneRightRingIntermediate,
	vrm.BoneRightLittleProximal:     vrm.BoneRightHand,
	vrm.BoneRightLittleIntermediate: vrm.BoneRightLittleProximal,
	vrm.BoneRightLittleDistal:       vrm.BoneRightLittleIntermediate,
}

// Resolved is the validated bone binding plus the rest-pose rotation
// cache. It is immutable after Resolve returns: the frame loop only ever
// reads it, so it needs no locking and can be shared freely.
//
// Construction here is the only point where bone-to-node bindings are
// trusted; nothing downstream re-validates node indices.
type Resolved struct {
	nodes map[vrm.Bone]int
	rest  map[vrm.Bone]mgl32.Quat
}

// NodeOf returns the node index bound to bone.
func (r *Resolved) NodeOf(bone vrm.Bone) (int, bool) {
	node, ok := r.nodes[bone]
	return node, ok
}

// RestRotation returns the world rotation the bone's node had at resolve
// time. It is the zero-reference the solver's rotation deltas compose
// with.
func (r *Resolved) RestRotation(bone vrm.Bone) (mgl32.Quat, bool) {
	q, ok := r.rest[bone]
	return q, ok
}

// Bones returns the mapped bones sorted by name.
func (r *Resolved) Bones() []vrm.Bone {
	bones := make([]vrm.Bone, 0, len(r.nodes))
	for bone := range r.nodes {
		bones = append(bones, bone)
	}
	sort.Slice(bones, func(i, j int) bool { return bones[i] < bones[j] })
	return bones
}

// Resolve binds the decoded bone map against an actual skeleton.
//
// Only a missing hips mapping is fatal. Topology deviations from the
// canonical ancestor table are collected as warnings instead of aborting:
// real-world assets routinely insert non-standard intermediate nodes, and
// rejecting them would cost far more users than it protects. Node indices
// are re-checked against the graph even though the decoder already did,
// as a guard against manually constructed bone maps.
//
// Resolve only reads its inputs and fills a freshly allocated Resolved,
// so an abandoned resolution leaves no partial state behind, and running
// it twice over the same inputs yields identical values.
func Resolve(bones map[vrm.Bone]int, skel Skeleton) (*Resolved, []vrm.Warning, error) {
	warnings := make([]vrm.Warning, 0, 4)

	if _, ok := bones[vrm.BoneHips]; !ok {
		return nil, warnings, ErrMissingRequiredBone
	}

	ordered := make([]vrm.Bone, 0, len(bones))
	for bone := range bones {
		ordered = append(ordered, bone)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	r := &Resolved{
		nodes: make(map[vrm.Bone]int, len(bones)),
		rest:  make(map[vrm.Bone]mgl32.Quat, len(bones)),
	}

	owners := make(map[int]vrm.Bone, len(bones))
	for _, bone := range ordered {
		node := bones[bone]
		if node < 0 || node >= skel.NodeCount() {
			return nil, warnings, errors.Errorf(
				"bone %q mapped to node %d outside of skeleton with %d nodes",
				bone, node, skel.NodeCount())
		}
		if owner, taken := owners[node]; taken {
			warnings = append(warnings, vrm.Warningf(vrm.WarningNodeSharedByBones,
				"bones %q and %q are both mapped to node %d", owner, bone, node))
		} else {
			owners[node] = bone
		}
		r.nodes[bone] = node
		r.rest[bone] = skel.WorldTransform(node).Rotation
	}

	for _, bone := range ordered {
		if w, bad := checkAncestry(bone, r.nodes, skel); bad {
			warnings = append(warnings, w)
		}
	}

	for _, bone := range vrm.RequiredBones {
		if _, ok := r.nodes[bone]; !ok {
			warnings = append(warnings, vrm.Warningf(vrm.WarningRequiredBoneUnmapped,
				"bone %q is required by the VRM humanoid spec but is not mapped", bone))
		}
	}

	return r, warnings, nil
}

// checkAncestry verifies topological plausibility of one binding: the
// node of the nearest mapped canonical ancestor must appear somewhere on
// the node's parent chain. Extra intermediate nodes between them are
// fine.
func checkAncestry(bone vrm.Bone, nodes map[vrm.Bone]int, skel Skeleton) (vrm.Warning, bool) {
	ancestor := boneParents[bone]
	for ancestor != "" {
		if _, ok := nodes[ancestor]; ok {
			break
		}
		ancestor = boneParents[ancestor]
	}
	if ancestor == "" {
		return vrm.Warning{}, false
	}

	want := nodes[ancestor]
	for node := nodes[bone]; ; {
		parent, ok := skel.ParentOf(node)
		if !ok {
			break
		}
		if parent == want {
			return vrm.Warning{}, false
		}
		node = parent
	}
	return vrm.Warningf(vrm.WarningBoneOutsideExpectedChain,
		"bone %q (node %d) is not a descendant of %q (node %d)",
		bone, nodes[bone], ancestor, want), true
}
