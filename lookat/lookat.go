package lookat

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects how solver output drives the eyes of an avatar:
// either rotating dedicated eye bones or driving the four
// gaze blend shapes (lookLeft/lookRight/lookUp/lookDown).
type Mode int

const (
	ModeBone Mode = iota
	ModeExpression
)

func (m Mode) String() string {
	switch m {
	case ModeBone:
		return "bone"
	case ModeExpression:
		return "expression"
	}
	return "unknown"
}

// RangeMap is a monotonic piecewise-linear curve from an input angle in
// degrees [0, InputMaxDegrees] to an output magnitude [0, OutputScale].
// In bone mode the output is degrees of eye rotation, in expression mode
// a normalized blend weight.
type RangeMap struct {
	InputMaxDegrees float32 `json:"inputMaxDegrees"`
	OutputScale     float32 `json:"outputScale"`
}

// Map clamps deg into the curve domain and interpolates. Inputs past
// InputMaxDegrees saturate at OutputScale, they never wrap or
// extrapolate. A degenerate curve (InputMaxDegrees <= 0) maps everything
// to zero.
func (m RangeMap) Map(deg float32) float32 {
	if m.InputMaxDegrees <= 0 || deg <= 0 {
		return 0
	}
	if deg >= m.InputMaxDegrees {
		return m.OutputScale
	}
	return m.OutputScale * deg / m.InputMaxDegrees
}

var (
	DefaultBoneRangeMap       = RangeMap{InputMaxDegrees: 90, OutputScale: 10}
	DefaultExpressionRangeMap = RangeMap{InputMaxDegrees: 90, OutputScale: 1}

	// DefaultOffsetFromHead places the eye reference point slightly above
	// the head bone origin, between the eyes of a typical model.
	DefaultOffsetFromHead = mgl32.Vec3{0, 0.06, 0}
)

// Config is the decoded lookAt block of a model. The horizontal curves
// differ per side of the nose: "inner" is toward it, "outer" away from
// it, which is what makes both eyes converge on near targets.
type Config struct {
	Mode            Mode       `json:"mode"`
	OffsetFromHead  mgl32.Vec3 `json:"offsetFromHead"`
	HorizontalInner RangeMap   `json:"horizontalInner"`
	HorizontalOuter RangeMap   `json:"horizontalOuter"`
	VerticalUp      RangeMap   `json:"verticalUp"`
	VerticalDown    RangeMap   `json:"verticalDown"`
}

// DefaultConfig returns the configuration assumed when a model carries no
// lookAt block at all.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeBone,
		OffsetFromHead:  DefaultOffsetFromHead,
		HorizontalInner: DefaultBoneRangeMap,
		HorizontalOuter: DefaultBoneRangeMap,
		VerticalUp:      DefaultBoneRangeMap,
		VerticalDown:    DefaultBoneRangeMap,
	}
}
