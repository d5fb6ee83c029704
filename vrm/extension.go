package vrm

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/lookat"
)

// ExtensionName is the glTF extension key the VRM metadata block lives
// under.
const ExtensionName = "VRMC_vrm"

// Meta is the model meta block. Fields we do not consume (license flags,
// references, thumbnails) are dropped on decode.
type Meta struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Authors    []string `json:"authors"`
	LicenseURL string   `json:"licenseUrl"`
}

// Metadata is the decoded extension block: everything the humanoid
// resolver and the look-at solver need, fully typed, with no string
// keyed lookups left for the per-frame path.
type Metadata struct {
	SpecVersion string
	Meta        Meta
	Bones       map[Bone]int
	LookAt      lookat.Config
}

// MissingFieldError aborts a load: a field the extension requires is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

// NodeIndexError aborts a load: a bone is mapped to a node that cannot
// exist in the document.
type NodeIndexError struct {
	Bone      Bone
	Node      int
	NodeCount int
}

func (e *NodeIndexError) Error() string {
	return fmt.Sprintf("bone %q mapped to node %d, document only has %d nodes",
		e.Bone, e.Node, e.NodeCount)
}

// Raw wire shapes. humanBones is an ordered list of pairs rather than an
// object keyed by bone name, so duplicate entries survive parsing and can
// be reported instead of silently collapsing.
type rawHumanBone struct {
	Bone string `json:"bone"`
	Node *int   `json:"node"`
}

type rawHumanoid struct {
	HumanBones []rawHumanBone `json:"humanBones"`
}

type rawRangeMap struct {
	InputMaxValue *float32 `json:"inputMaxValue"`
	OutputScale   *float32 `json:"outputScale"`
}

type rawLookAt struct {
	Type               string       `json:"type"`
	OffsetFromHeadBone *[3]float32  `json:"offsetFromHeadBone"`
	HorizontalInner    *rawRangeMap `json:"rangeMapHorizontalInner"`
	HorizontalOuter    *rawRangeMap `json:"rangeMapHorizontalOuter"`
	VerticalUp         *rawRangeMap `json:"rangeMapVerticalUp"`
	VerticalDown       *rawRangeMap `json:"rangeMapVerticalDown"`
}

type rawExtension struct {
	SpecVersion string       `json:"specVersion"`
	Meta        Meta         `json:"meta"`
	Humanoid    *rawHumanoid `json:"humanoid"`
	LookAt      *rawLookAt   `json:"lookAt"`
}

// Decode turns the raw extension block into typed Metadata. nodeCount is
// the node count of the document the block was found in; bone mappings
// outside of it are fatal.
//
// Unrecognized top-level fields are ignored for forward compatibility.
// Unknown bone names and duplicate bone mappings are downgraded to
// warnings (first mapping wins), both are known producer bugs that should
// not cost the user the whole avatar. Warnings gathered before a fatal
// error are still returned with it.
func Decode(raw []byte, nodeCount int) (*Metadata, []Warning, error) {
	var ext rawExtension
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to unmarshal %v block", ExtensionName)
	}

	warnings := make([]Warning, 0, 4)

	if ext.Humanoid == nil || len(ext.Humanoid.HumanBones) == 0 {
		return nil, warnings, &MissingFieldError{Field: "humanoid.humanBones"}
	}

	bones := make(map[Bone]int, len(ext.Humanoid.HumanBones))
	for i, entry := range ext.Humanoid.HumanBones {
		bone := Bone(entry.Bone)
		if !bone.Canonical() {
			warnings = append(warnings, Warningf(WarningUnknownBoneName,
				"humanBones[%d]: %q is not a canonical humanoid bone", i, entry.Bone))
			continue
		}
		if entry.Node == nil {
			return nil, warnings, &MissingFieldError{
				Field: fmt.Sprintf("humanoid.humanBones[%d].node", i)}
		}
		if *entry.Node < 0 || *entry.Node >= nodeCount {
			return nil, warnings, &NodeIndexError{
				Bone: bone, Node: *entry.Node, NodeCount: nodeCount}
		}
		if first, ok := bones[bone]; ok {
			warnings = append(warnings, Warningf(WarningDuplicateBoneMapping,
				"humanBones[%d]: bone %q mapped twice, keeping first mapping to node %d",
				i, bone, first))
			continue
		}
		bones[bone] = *entry.Node
	}

	cfg, lookAtWarnings := decodeLookAt(ext.LookAt)
	warnings = append(warnings, lookAtWarnings...)

	return &Metadata{
		SpecVersion: ext.SpecVersion,
		Meta:        ext.Meta,
		Bones:       bones,
		LookAt:      cfg,
	}, warnings, nil
}

func decodeLookAt(raw *rawLookAt) (lookat.Config, []Warning) {
	cfg := lookat.DefaultConfig()
	if raw == nil {
		return cfg, nil
	}

	var warnings []Warning
	defaultMap := lookat.DefaultBoneRangeMap
	switch raw.Type {
	case "bone", "":
	case "expression":
		cfg.Mode = lookat.ModeExpression
		defaultMap = lookat.DefaultExpressionRangeMap
	default:
		warnings = append(warnings, Warningf(WarningUnknownLookAtType,
			"lookAt type %q is not supported, falling back to bone mode", raw.Type))
	}

	if raw.OffsetFromHeadBone != nil {
		cfg.OffsetFromHead = mgl32.Vec3(*raw.OffsetFromHeadBone)
	}
	cfg.HorizontalInner = decodeRangeMap(raw.HorizontalInner, defaultMap)
	cfg.HorizontalOuter = decodeRangeMap(raw.HorizontalOuter, defaultMap)
	cfg.VerticalUp = decodeRangeMap(raw.VerticalUp, defaultMap)
	cfg.VerticalDown = decodeRangeMap(raw.VerticalDown, defaultMap)

	return cfg, warnings
}

func decodeRangeMap(raw *rawRangeMap, def lookat.RangeMap) lookat.RangeMap {
	m := def
	if raw == nil {
		return m
	}
	if raw.InputMaxValue != nil {
		m.InputMaxDegrees = *raw.InputMaxValue
	}
	if raw.OutputScale != nil {
		m.OutputScale = *raw.OutputScale
	}
	return m
}
