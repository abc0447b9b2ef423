package integrity

import (
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// Flags, in the order they are appended.
const (
	FlagContentHash      = "Content hash mismatch"
	FlagTimestamps       = "Timestamp inconsistencies"
	FlagFaceContinuity   = "Face continuity issues"
	FlagVideoMetrics     = "Video metrics mismatch"
	FlagDeviceInfo       = "Device info suspicious"
	FlagSessionIntegrity = "Session data invalid"
	FlagPerfectForm      = "Unrealistically perfect form"
	FlagFastReps         = "Unusually fast rep time"
)

// Aggregator turns check outcomes into a risk classification.
type Aggregator struct {
	settings Settings
}

func NewAggregator(settings Settings) *Aggregator {
	return &Aggregator{settings: settings}
}

// Assess accumulates points for every failed check and triggered
// heuristic, then classifies the total.
func (a *Aggregator) Assess(result domain.VerificationResult, b *domain.IntegrityBundle) domain.Assessment {
	w := a.settings.Weights
	out := domain.Assessment{Flags: []string{}}

	add := func(failed bool, points int, flag string) {
		if failed {
			out.Points += points
			out.Flags = append(out.Flags, flag)
		}
	}

	add(!result.ContentHashValid, w.ContentHash, FlagContentHash)
	add(!result.TimestampConsistent, w.Timestamps, FlagTimestamps)
	add(!result.FaceContinuityValid, w.FaceContinuity, FlagFaceContinuity)
	add(!result.VideoMetricsValid, w.VideoMetrics, FlagVideoMetrics)
	add(!result.DeviceInfoConsistent, w.DeviceInfo, FlagDeviceInfo)
	add(!result.SessionIntegrityValid, w.SessionIntegrity, FlagSessionIntegrity)

	as := b.AssessmentData
	add(as.FormScore > a.settings.PerfectFormThreshold && as.Consistency > a.settings.PerfectFormThreshold,
		w.PerfectForm, FlagPerfectForm)
	add(as.AverageRepTimeMs < a.settings.FastRepTimeMs, w.FastReps, FlagFastReps)

	out.Level = a.Classify(out.Points)
	return out
}

// Classify maps risk points to a level.
func (a *Aggregator) Classify(points int) domain.RiskLevel {
	switch {
	case points >= a.settings.RedThreshold:
		return domain.RiskRed
	case points >= a.settings.YellowThreshold:
		return domain.RiskYellow
	default:
		return domain.RiskGreen
	}
}
