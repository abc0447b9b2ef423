package integrity

import (
	"errors"
	"time"
)

// Weights are the risk points contributed by each failed check or
// triggered heuristic.
type Weights struct {
	ContentHash      int `json:"content_hash" yaml:"content_hash"`
	Timestamps       int `json:"timestamps" yaml:"timestamps"`
	FaceContinuity   int `json:"face_continuity" yaml:"face_continuity"`
	VideoMetrics     int `json:"video_metrics" yaml:"video_metrics"`
	DeviceInfo       int `json:"device_info" yaml:"device_info"`
	SessionIntegrity int `json:"session_integrity" yaml:"session_integrity"`
	PerfectForm      int `json:"perfect_form" yaml:"perfect_form"`
	FastReps         int `json:"fast_reps" yaml:"fast_reps"`
}

// Settings holds every tunable of the engine. The zero value is not
// usable; start from DefaultSettings.
type Settings struct {
	SessionPrefix string

	// Snapshots may drift SnapshotDriftFactor x MaxTimestampDrift from the device timestamp.
	MaxTimestampDrift   time.Duration
	SnapshotDriftFactor int

	MinFaceSnapshots      int
	MinFaceConfidence     float64
	MaxLowConfidenceRatio float64
	MaxFaceGap            time.Duration

	// MaxDurationDrift is in seconds; the claim must differ by strictly less.
	MaxDurationDrift float64

	MaxDeviceClockSkew time.Duration

	MaxReps int

	// CheckTimeout bounds each check; a timeout counts as a failure.
	CheckTimeout time.Duration

	PerfectFormThreshold float64
	FastRepTimeMs        int64

	Weights         Weights
	RedThreshold    int
	YellowThreshold int
}

// DefaultSettings returns the compatibility defaults.
func DefaultSettings() Settings {
	return Settings{
		SessionPrefix:         "ts_",
		MaxTimestampDrift:     5 * time.Second,
		SnapshotDriftFactor:   10,
		MinFaceSnapshots:      2,
		MinFaceConfidence:     0.7,
		MaxLowConfidenceRatio: 0.3,
		MaxFaceGap:            30 * time.Second,
		MaxDurationDrift:      2,
		MaxDeviceClockSkew:    time.Hour,
		MaxReps:               200,
		CheckTimeout:          30 * time.Second,
		PerfectFormThreshold:  98,
		FastRepTimeMs:         1000,
		Weights: Weights{
			ContentHash:      3,
			Timestamps:       2,
			FaceContinuity:   2,
			VideoMetrics:     2,
			DeviceInfo:       1,
			SessionIntegrity: 3,
			PerfectForm:      1,
			FastReps:         1,
		},
		RedThreshold:    5,
		YellowThreshold: 2,
	}
}

// Validate rejects settings that would make the classification meaningless.
func (s Settings) Validate() error {
	switch {
	case s.YellowThreshold <= 0:
		return errors.New("yellow threshold must be positive")
	case s.RedThreshold <= s.YellowThreshold:
		return errors.New("red threshold must be greater than yellow threshold")
	case s.MinFaceSnapshots < 1:
		return errors.New("min face snapshots must be at least 1")
	case s.MinFaceConfidence < 0 || s.MinFaceConfidence > 1:
		return errors.New("min face confidence must be between 0 and 1")
	case s.MaxLowConfidenceRatio < 0 || s.MaxLowConfidenceRatio > 1:
		return errors.New("max low confidence ratio must be between 0 and 1")
	case s.CheckTimeout <= 0:
		return errors.New("check timeout must be positive")
	}

	w := s.Weights
	for _, v := range []int{w.ContentHash, w.Timestamps, w.FaceContinuity, w.VideoMetrics, w.DeviceInfo, w.SessionIntegrity, w.PerfectForm, w.FastReps} {
		if v < 0 {
			return errors.New("weights must not be negative")
		}
	}
	return nil
}
