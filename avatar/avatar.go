package avatar

import (
	"encoding/json"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/vrm_browser/humanoid"
	"github.com/mogaika/vrm_browser/lookat"
	"github.com/mogaika/vrm_browser/vrm"
)

// Avatar is the loaded-avatar record: the parsed container plus the
// decoded and resolved VRM state. Immutable after load; the frame loop
// only reads it. Dropping the value is all it takes to unload.
type Avatar struct {
	Name        string
	SpecVersion string
	Meta        vrm.Meta
	Doc         *gltf.Document
	Humanoid    *humanoid.Resolved
	LookAt      lookat.Config
	Warnings    []vrm.Warning

	skeleton *documentSkeleton
}

// LoadError is a fatal load failure carrying the warnings gathered before
// the failure, so a single load attempt yields one complete diagnostic
// instead of a cascade.
type LoadError struct {
	Warnings []vrm.Warning
	Err      error
}

func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Cause implements the pkg/errors causer interface.
func (e *LoadError) Cause() error { return e.Err }

// LoadFromFile reads and binds a .vrm (or .glb/.gltf with the VRM
// extension) model file.
func LoadFromFile(path string) (*Avatar, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open model %q", path)
	}
	a, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	a.Name = filepath.Base(path)
	return a, nil
}

// FromDocument binds an already-parsed document. Decode and Resolve run
// over owned inputs into a freshly allocated Avatar, so a cancelled load
// leaves nothing behind.
func FromDocument(doc *gltf.Document) (*Avatar, error) {
	raw, err := extensionBlock(doc)
	if err != nil {
		return nil, err
	}

	md, warnings, err := vrm.Decode(raw, len(doc.Nodes))
	if err != nil {
		return nil, &LoadError{Warnings: warnings, Err: err}
	}

	skeleton := newDocumentSkeleton(doc)
	resolved, resolveWarnings, err := humanoid.Resolve(md.Bones, skeleton)
	warnings = append(warnings, resolveWarnings...)
	if err != nil {
		return nil, &LoadError{Warnings: warnings, Err: err}
	}

	return &Avatar{
		SpecVersion: md.SpecVersion,
		Meta:        md.Meta,
		Doc:         doc,
		Humanoid:    resolved,
		LookAt:      md.LookAt,
		Warnings:    warnings,
		skeleton:    skeleton,
	}, nil
}

func extensionBlock(doc *gltf.Document) ([]byte, error) {
	ext, ok := doc.Extensions[vrm.ExtensionName]
	if !ok {
		return nil, errors.Errorf("document does not carry the %v extension", vrm.ExtensionName)
	}
	switch v := ext.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		// a registered extension handler already replaced the raw block
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to re-marshal %v block", vrm.ExtensionName)
		}
		return data, nil
	}
}

// Skeleton exposes the node hierarchy the avatar was resolved against.
func (a *Avatar) Skeleton() humanoid.Skeleton {
	return a.skeleton
}

// NodeName returns the name of a skeleton node.
func (a *Avatar) NodeName(node int) string {
	return a.skeleton.NodeName(node)
}

// HeadTransform returns the current world transform of the head bone
// node, falling back to hips and then to identity for models that lack a
// head mapping.
func (a *Avatar) HeadTransform() humanoid.Transform {
	for _, bone := range []vrm.Bone{vrm.BoneHead, vrm.BoneHips} {
		if node, ok := a.Humanoid.NodeOf(bone); ok {
			return a.skeleton.WorldTransform(node)
		}
	}
	return humanoid.IdentityTransform()
}

// Gaze runs the look-at solver for a world-space target against the
// avatar's head transform and look-at configuration.
func (a *Avatar) Gaze(target mgl32.Vec3) lookat.State {
	head := a.HeadTransform()
	return lookat.Compute(head.Translation, head.Rotation, target, a.LookAt)
}
