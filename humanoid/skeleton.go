package humanoid

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed world transform of a skeleton node.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a neutral transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Skeleton is the read-only node hierarchy the resolver binds against.
// The model loader owns the actual graph; the resolver only ever reads
// it. Node indices are dense in [0, NodeCount).
type Skeleton interface {
	NodeCount() int
	// ParentOf returns the parent node index, or false for a root.
	ParentOf(node int) (int, bool)
	// ChildrenOf returns the ordered child node indices.
	ChildrenOf(node int) []int
	// WorldTransform returns the node's current world transform.
	WorldTransform(node int) Transform
}
