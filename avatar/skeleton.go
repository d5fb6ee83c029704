package avatar

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/vrm_browser/humanoid"
)

var identityMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// documentSkeleton adapts a parsed glTF document to the resolver's
// Skeleton interface. Parent links and world transforms are computed once
// at construction; the document is never mutated.
type documentSkeleton struct {
	doc     *gltf.Document
	parents []int
	world   []humanoid.Transform
}

func newDocumentSkeleton(doc *gltf.Document) *documentSkeleton {
	s := &documentSkeleton{
		doc:     doc,
		parents: make([]int, len(doc.Nodes)),
		world:   make([]humanoid.Transform, len(doc.Nodes)),
	}

	for i := range s.parents {
		s.parents[i] = -1
	}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			if int(child) < len(s.parents) {
				s.parents[child] = i
			}
		}
	}

	visited := make([]bool, len(doc.Nodes))
	var walk func(node int, parent humanoid.Transform)
	walk = func(node int, parent humanoid.Transform) {
		if visited[node] {
			// node listed as a child twice, keep the first placement
			return
		}
		visited[node] = true
		s.world[node] = composeTransform(parent, nodeLocalTransform(doc.Nodes[node]))
		for _, child := range doc.Nodes[node].Children {
			if int(child) < len(doc.Nodes) {
				walk(int(child), s.world[node])
			}
		}
	}
	for i := range doc.Nodes {
		if s.parents[i] == -1 {
			walk(i, humanoid.IdentityTransform())
		}
	}

	return s
}

func (s *documentSkeleton) NodeCount() int {
	return len(s.doc.Nodes)
}

func (s *documentSkeleton) ParentOf(node int) (int, bool) {
	if node < 0 || node >= len(s.parents) || s.parents[node] < 0 {
		return 0, false
	}
	return s.parents[node], true
}

func (s *documentSkeleton) ChildrenOf(node int) []int {
	if node < 0 || node >= len(s.doc.Nodes) {
		return nil
	}
	children := make([]int, len(s.doc.Nodes[node].Children))
	for i, child := range s.doc.Nodes[node].Children {
		children[i] = int(child)
	}
	return children
}

func (s *documentSkeleton) WorldTransform(node int) humanoid.Transform {
	if node < 0 || node >= len(s.world) {
		return humanoid.IdentityTransform()
	}
	return s.world[node]
}

// NodeName returns the node name, or empty string for unnamed nodes.
func (s *documentSkeleton) NodeName(node int) string {
	if node < 0 || node >= len(s.doc.Nodes) {
		return ""
	}
	return s.doc.Nodes[node].Name
}

// nodeLocalTransform reads the node TRS. Zero-valued rotation/scale are
// treated as the glTF defaults so that both decoded documents and
// hand-built ones behave the same. A matrix-form node wins over TRS when
// it is actually set.
func nodeLocalTransform(n *gltf.Node) humanoid.Transform {
	tr := humanoid.IdentityTransform()
	tr.Translation = mgl32.Vec3(n.Translation)
	if n.Rotation != ([4]float32{}) {
		tr.Rotation = mgl32.Quat{
			W: n.Rotation[3],
			V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]},
		}.Normalize()
	}
	if n.Scale != ([3]float32{}) {
		tr.Scale = mgl32.Vec3(n.Scale)
	}
	if n.Matrix != ([16]float32{}) && n.Matrix != identityMatrix {
		tr = decomposeMatrix(mgl32.Mat4(n.Matrix))
	}
	return tr
}

func decomposeMatrix(m mgl32.Mat4) humanoid.Transform {
	tr := humanoid.Transform{
		Translation: m.Col(3).Vec3(),
		Scale: mgl32.Vec3{
			m.Col(0).Vec3().Len(),
			m.Col(1).Vec3().Len(),
			m.Col(2).Vec3().Len(),
		},
	}

	rot := mgl32.Ident4()
	for col := 0; col < 3; col++ {
		scale := tr.Scale[col]
		if scale == 0 {
			scale = 1
		}
		rot.SetCol(col, m.Col(col).Mul(1/scale))
	}
	tr.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	return tr
}

// composeTransform applies a parent world transform to a child local one.
// Shear from non-uniform parent scale is ignored, scales multiply
// componentwise.
func composeTransform(parent, local humanoid.Transform) humanoid.Transform {
	scaled := mgl32.Vec3{
		local.Translation.X() * parent.Scale.X(),
		local.Translation.Y() * parent.Scale.Y(),
		local.Translation.Z() * parent.Scale.Z(),
	}
	return humanoid.Transform{
		Translation: parent.Translation.Add(parent.Rotation.Rotate(scaled)),
		Rotation:    parent.Rotation.Mul(local.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			parent.Scale.X() * local.Scale.X(),
			parent.Scale.Y() * local.Scale.Y(),
			parent.Scale.Z() * local.Scale.Z(),
		},
	}
}
