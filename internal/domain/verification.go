package domain

// RiskLevel is ordered green < yellow < red.
type RiskLevel string

const (
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskRed    RiskLevel = "red"
)

// Rank returns the position of the level in the risk ordering.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskGreen:
		return 0
	case RiskYellow:
		return 1
	case RiskRed:
		return 2
	default:
		return -1
	}
}

// Check names, in aggregation order.
const (
	CheckContentHash      = "content_hash"
	CheckTimestamps       = "timestamps"
	CheckFaceContinuity   = "face_continuity"
	CheckVideoMetrics     = "video_metrics"
	CheckDeviceInfo       = "device_info"
	CheckSessionIntegrity = "session_integrity"
)

// VerificationResult holds one outcome per signal check. It is produced
// once per submission and persisted for audit.
type VerificationResult struct {
	ContentHashValid      bool `json:"content_hash_valid"`
	TimestampConsistent   bool `json:"timestamp_consistent"`
	FaceContinuityValid   bool `json:"face_continuity_valid"`
	VideoMetricsValid     bool `json:"video_metrics_valid"`
	DeviceInfoConsistent  bool `json:"device_info_consistent"`
	SessionIntegrityValid bool `json:"session_integrity_valid"`
}

// AllPassed reports whether every check passed.
func (v VerificationResult) AllPassed() bool {
	return v.ContentHashValid && v.TimestampConsistent && v.FaceContinuityValid &&
		v.VideoMetricsValid && v.DeviceInfoConsistent && v.SessionIntegrityValid
}

// CheckResult is the typed outcome of a single check. Reason explains a
// failure and is diagnostic only.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// Assessment is the aggregated risk classification.
type Assessment struct {
	Level  RiskLevel `json:"risk_level"`
	Points int       `json:"risk_points"`
	Flags  []string  `json:"risk_flags"`
}
