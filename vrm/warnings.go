package vrm

import "fmt"

// Warning ids. Kept stable so tooling on top of the loader can match on
// them instead of on message text.
const (
	WarningUnknownBoneName          = "UnknownBoneName"
	WarningDuplicateBoneMapping     = "DuplicateBoneMapping"
	WarningUnknownLookAtType        = "UnknownLookAtType"
	WarningNodeSharedByBones        = "NodeSharedByBones"
	WarningBoneOutsideExpectedChain = "BoneOutsideExpectedChain"
	WarningRequiredBoneUnmapped     = "RequiredBoneUnmapped"
)

// Warning is a non-fatal load diagnostic. Warnings never abort a load,
// they are collected and handed to the caller alongside the result (or
// alongside the fatal error, so one load attempt yields one complete
// diagnostic).
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Warningf(code string, format string, args ...interface{}) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}
