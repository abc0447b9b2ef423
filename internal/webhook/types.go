package webhook

import (
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

const EventReviewRequired = "review.required"

type EventPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ReviewRequired is the data of a review.required event.
type ReviewRequired struct {
	SubmissionID string           `json:"submission_id"`
	SessionID    string           `json:"session_id"`
	RiskScore    domain.RiskLevel `json:"risk_score"`
	RiskPoints   int              `json:"risk_points"`
	RiskFlags    []string         `json:"risk_flags"`
	VideoURL     string           `json:"video_url"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewReviewRequired builds the reviewer notification for a submission.
func NewReviewRequired(s *domain.Submission, now time.Time) EventPayload {
	flags := s.RiskFlags
	if flags == nil {
		flags = []string{}
	}
	return EventPayload{
		Type: EventReviewRequired,
		Data: ReviewRequired{
			SubmissionID: s.ID,
			SessionID:    s.SessionID,
			RiskScore:    s.RiskScore,
			RiskPoints:   s.RiskPoints,
			RiskFlags:    flags,
			VideoURL:     s.VideoURL,
			CreatedAt:    s.CreatedAt,
		},
		Timestamp: now.UTC(),
	}
}
