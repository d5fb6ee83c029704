package vrm

// Bone is a canonical humanoid bone name as defined by the VRM humanoid
// specification. The set is closed: anything outside of it in a model
// file is a producer error, not a new bone.
type Bone string

const (
	BoneHips       Bone = "hips"
	BoneSpine      Bone = "spine"
	BoneChest      Bone = "chest"
	BoneUpperChest Bone = "upperChest"
	BoneNeck       Bone = "neck"
	BoneHead       Bone = "head"
	BoneLeftEye    Bone = "leftEye"
	BoneRightEye   Bone = "rightEye"
	BoneJaw        Bone = "jaw"

	BoneLeftUpperLeg  Bone = "leftUpperLeg"
	BoneLeftLowerLeg  Bone = "leftLowerLeg"
	BoneLeftFoot      Bone = "leftFoot"
	BoneLeftToes      Bone = "leftToes"
	BoneRightUpperLeg Bone = "rightUpperLeg"
	BoneRightLowerLeg Bone = "rightLowerLeg"
	BoneRightFoot     Bone = "rightFoot"
	BoneRightToes     Bone = "rightToes"

	BoneLeftShoulder  Bone = "leftShoulder"
	BoneLeftUpperArm  Bone = "leftUpperArm"
	BoneLeftLowerArm  Bone = "leftLowerArm"
	BoneLeftHand      Bone = "leftHand"
	BoneRightShoulder Bone = "rightShoulder"
	BoneRightUpperArm Bone = "rightUpperArm"
	BoneRightLowerArm Bone = "rightLowerArm"
	BoneRightHand     Bone = "rightHand"

	BoneLeftThumbMetacarpal    Bone = "leftThumbMetacarpal"
	BoneLeftThumbProximal      Bone = "leftThumbProximal"
	BoneLeftThumbDistal        Bone = "leftThumbDistal"
	BoneLeftIndexProximal      Bone = "leftIndexProximal"
	BoneLeftIndexIntermediate  Bone = "leftIndexIntermediate"
	BoneLeftIndexDistal        Bone = "leftIndexDistal"
	BoneLeftMiddleProximal     Bone = "leftMiddleProximal"
	BoneLeftMiddleIntermediate Bone = "leftMiddleIntermediate"
	BoneLeftMiddleDistal       Bone = "leftMiddleDistal"
	BoneLeftRingProximal       Bone = "leftRingProximal"
	BoneLeftRingIntermediate   Bone = "leftRingIntermediate"
	BoneLeftRingDistal         Bone = "leftRingDistal"
	BoneLeftLittleProximal     Bone = "leftLittleProximal"
	BoneLeftLittleIntermediate Bone = "leftLittleIntermediate"
	BoneLeftLittleDistal       Bone = "leftLittleDistal"

	BoneRightThumbMetacarpal    Bone = "rightThumbMetacarpal"
	BoneRightThumbProximal      Bone = "rightThumbProximal"
	BoneRightThumbDistal        Bone = "rightThumbDistal"
	BoneRightIndexProximal      Bone = "rightIndexProximal"
	BoneRightIndexIntermediate  Bone = "rightIndexIntermediate"
	BoneRightIndexDistal        Bone = "rightIndexDistal"
	BoneRightMiddleProximal     Bone = "rightMiddleProximal"
	BoneRightMiddleIntermediate Bone = "rightMiddleIntermediate"
	BoneRightMiddleDistal       Bone = "rightMiddleDistal"
	BoneRightRingProximal       Bone = "rightRingProximal"
	BoneRightRingIntermediate   Bone = "rightRingIntermediate"
	BoneRightRingDistal         Bone = "rightRingDistal"
	BoneRightLittleProximal     Bone = "rightLittleProximal"
	BoneRightLittleIntermediate Bone = "rightLittleIntermediate"
	BoneRightLittleDistal       Bone = "rightLittleDistal"
)

// AllBones lists every canonical bone, grouped torso/legs/arms/fingers.
var AllBones = []Bone{
	BoneHips, BoneSpine, BoneChest, BoneUpperChest, BoneNeck, BoneHead,
	BoneLeftEye, BoneRightEye, BoneJaw,

	BoneLeftUpperLeg, BoneLeftLowerLeg, BoneLeftFoot, BoneLeftToes,
	BoneRightUpperLeg, BoneRightLowerLeg, BoneRightFoot, BoneRightToes,

	BoneLeftShoulder, BoneLeftUpperArm, BoneLeftLowerArm, BoneLeftHand,
	BoneRightShoulder, BoneRightUpperArm, BoneRightLowerArm, BoneRightHand,

	BoneLeftThumbMetacarpal, BoneLeftThumbProximal, BoneLeftThumbDistal,
	BoneLeftIndexProximal, BoneLeftIndexIntermediate, BoneLeftIndexDistal,
	BoneLeftMiddleProximal, BoneLeftMiddleIntermediate, BoneLeftMiddleDistal,
	BoneLeftRingProximal, BoneLeftRingIntermediate, BoneLeftRingDistal,
	BoneLeftLittleProximal, BoneLeftLittleIntermediate, BoneLeftLittleDistal,

	BoneRightThumbMetacarpal, BoneRightThumbProximal, BoneRightThumbDistal,
	BoneRightIndexProximal, BoneRightIndexIntermediate, BoneRightIndexDistal,
	BoneRightMiddleProximal, BoneRightMiddleIntermediate, BoneRightMiddleDistal,
	BoneRightRingProximal, BoneRightRingIntermediate, BoneRightRingDistal,
	BoneRightLittleProximal, BoneRightLittleIntermediate, BoneRightLittleDistal,
}

// RequiredBones are the bones the VRM humanoid spec marks as required.
// Only hips is hard-required by the resolver, the rest produce advisory
// warnings when absent.
var RequiredBones = []Bone{
	BoneHips, BoneSpine, BoneHead,
	BoneLeftUpperLeg, BoneLeftLowerLeg, BoneLeftFoot,
	BoneRightUpperLeg, BoneRightLowerLeg, BoneRightFoot,
	BoneLeftUpperArm, BoneLeftLowerArm, BoneLeftHand,
	BoneRightUpperArm, BoneRightLowerArm, BoneRightHand,
}

var canonicalBones = func() map[Bone]struct{} {
	m := make(map[Bone]struct{}, len(AllBones))
	for _, b := range AllBones {
		m[b] = struct{}{}
	}
	return m
}()

// Canonical reports whether b belongs to the closed canonical set.
func (b Bone) Canonical() bool {
	_, ok := canonicalBones[b]
	return ok
}
