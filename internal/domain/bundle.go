package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Gender of the athlete; used to select a benchmark cohort.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender validates a raw gender value.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", ErrInvalidGender
	}
}

type ProfileData struct {
	Age      int    `json:"age" validate:"gte=10,lte=100"`
	Gender   Gender `json:"gender" validate:"required,oneof=male female"`
	HeightCm int    `json:"height" validate:"gte=100,lte=250"`
	WeightKg int    `json:"weight" validate:"gte=30,lte=200"`
}

// DeviceInfo is used only for plausibility checks, never for authorization.
type DeviceInfo struct {
	UserAgent        string `json:"user_agent"`
	Platform         string `json:"platform"`
	Timestamp        int64  `json:"timestamp"` // epoch ms, client clock
	Timezone         string `json:"timezone"`
	ScreenResolution string `json:"screen_resolution"`
}

type FaceSnapshot struct {
	Timestamp  int64   `json:"timestamp"`  // epoch ms
	ImageData  string  `json:"image_data"` // base64
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// VideoMetrics is what the client claims about its recording. It is
// cross-checked against the decoded video and never trusted directly.
type VideoMetrics struct {
	Duration   float64 `json:"duration" validate:"gte=0"` // seconds
	FPS        float64 `json:"fps" validate:"gte=0"`
	Resolution string  `json:"resolution" validate:"required"` // "WxH"
	FileSize   int64   `json:"file_size" validate:"gte=0"`
}

type AssessmentData struct {
	TotalReps        int     `json:"total_reps" validate:"gte=0"`
	AverageDepth     float64 `json:"average_depth" validate:"gte=0,lte=100"`
	FormScore        float64 `json:"form_score" validate:"gte=0,lte=100"`
	AverageRepTimeMs int64   `json:"average_rep_time"`
	Consistency      float64 `json:"consistency" validate:"gte=0,lte=100"`
	Timestamps       []int64 `json:"timestamps"`
}

// IntegrityBundle is the complete client-submitted claim about one
// assessment session.
type IntegrityBundle struct {
	SessionID      string         `json:"session_id" validate:"required"`
	ProfileData    ProfileData    `json:"profile_data"`
	DeviceInfo     DeviceInfo     `json:"device_info"`
	FaceSnapshots  []FaceSnapshot `json:"face_snapshots" validate:"dive"`
	VideoMetrics   VideoMetrics   `json:"video_metrics"`
	AssessmentData AssessmentData `json:"assessment_data"`
	ContentHash    string         `json:"content_hash" validate:"required,hexadecimal"`
	Version        string         `json:"version"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate enforces the structural field constraints. Semantic checks
// (hash, timestamps, faces, ...) belong to the integrity engine.
func (b *IntegrityBundle) Validate() error {
	if err := validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return ErrValidationFailed.WithError(fmt.Errorf("invalid fields: %s", strings.Join(fields, ", ")))
		}
		return ErrValidationFailed.WithError(err)
	}
	return nil
}
