package lookat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the transient per-frame solver result. The caller creates and
// discards one per frame, nothing here is persisted between calls.
//
// In bone mode LeftEye/RightEye are local rotation *deltas*: the scene
// binding composes them with the cached rest-pose rotation instead of
// writing absolute transforms, so error never compounds across frames.
// In expression mode the four weights are set instead, at most one
// horizontal and one vertical non-zero.
type State struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`

	LeftEye  mgl32.Quat `json:"leftEye"`
	RightEye mgl32.Quat `json:"rightEye"`

	LookLeft  float32 `json:"lookLeft"`
	LookRight float32 `json:"lookRight"`
	LookUp    float32 `json:"lookUp"`
	LookDown  float32 `json:"lookDown"`
}

// targetEpsilon guards atan2 against a target sitting exactly on the eye
// reference point.
const targetEpsilon = 1e-5

// Compute solves one frame of gaze for the given head world transform and
// target world position. Pure and total: every input maps to a defined
// State, degenerate ones to the identity/zero state.
//
// Sign convention (the scene binding relies on this): in head-local space
// +Z is the facing direction, +X the character's left, +Y up. Yaw is
// positive when the target is to the character's left, pitch positive
// when it is above; both in degrees.
func Compute(headPos mgl32.Vec3, headRot mgl32.Quat, target mgl32.Vec3, cfg Config) State {
	st := State{LeftEye: mgl32.QuatIdent(), RightEye: mgl32.QuatIdent()}

	eyeRef := headPos.Add(headRot.Rotate(cfg.OffsetFromHead))
	local := headRot.Inverse().Rotate(target.Sub(eyeRef))
	if local.Len() < targetEpsilon {
		return st
	}

	x, y, z := float64(local.X()), float64(local.Y()), float64(local.Z())
	st.Yaw = degrees(math.Atan2(x, z))
	st.Pitch = degrees(math.Atan2(y, math.Hypot(x, z)))

	switch cfg.Mode {
	case ModeExpression:
		if st.Yaw >= 0 {
			st.LookLeft = cfg.HorizontalOuter.Map(st.Yaw)
		} else {
			st.LookRight = cfg.HorizontalOuter.Map(-st.Yaw)
		}
		if st.Pitch >= 0 {
			st.LookUp = cfg.VerticalUp.Map(st.Pitch)
		} else {
			st.LookDown = cfg.VerticalDown.Map(-st.Pitch)
		}
	default:
		st.LeftEye = eyeDelta(&cfg, st.Yaw, st.Pitch, true)
		st.RightEye = eyeDelta(&cfg, st.Yaw, st.Pitch, false)
	}

	return st
}

// eyeDelta maps the shared yaw/pitch onto one eye. Which horizontal curve
// applies depends on the side relative to that eye's nose: the left eye
// moving left (yaw > 0) swings away from the nose, so it reads the outer
// curve while the right eye reads the inner one, and mirrored for
// yaw < 0.
func eyeDelta(cfg *Config, yaw, pitch float32, left bool) mgl32.Quat {
	horizontal := cfg.HorizontalInner
	if (yaw >= 0) == left {
		horizontal = cfg.HorizontalOuter
	}
	appliedYaw := copySign(horizontal.Map(absf(yaw)), yaw)

	vertical := cfg.VerticalDown
	if pitch >= 0 {
		vertical = cfg.VerticalUp
	}
	appliedPitch := copySign(vertical.Map(absf(pitch)), pitch)

	// Rotating forward (+Z) around +Y by a positive angle points it
	// toward +X, the character's left; around +X by a negative angle
	// points it up.
	qYaw := mgl32.QuatRotate(mgl32.DegToRad(appliedYaw), mgl32.Vec3{0, 1, 0})
	qPitch := mgl32.QuatRotate(mgl32.DegToRad(-appliedPitch), mgl32.Vec3{1, 0, 0})
	return qYaw.Mul(qPitch)
}

func degrees(rad float64) float32 {
	return float32(rad * 180 / math.Pi)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func copySign(magnitude, sign float32) float32 {
	if sign < 0 {
		return -magnitude
	}
	return magnitude
}
