package domain

import (
	"fmt"
	"time"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
	StatusFlagged  SubmissionStatus = "flagged"
)

// ParseSubmissionStatus validates a raw status filter value.
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	switch st := SubmissionStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusFlagged:
		return st, nil
	default:
		return "", ErrValidationFailed.WithError(fmt.Errorf("unknown status %q", s))
	}
}

// Submission is one verified assessment upload awaiting (or past) review.
type Submission struct {
	ID                 string             `json:"id"`
	SessionID          string             `json:"session_id"`
	ProfileData        ProfileData        `json:"profile_data"`
	AssessmentData     AssessmentData     `json:"assessment_data"`
	VideoURL           string             `json:"video_url"`
	RiskScore          RiskLevel          `json:"risk_score"`
	RiskPoints         int                `json:"risk_points"`
	RiskFlags          []string           `json:"risk_flags"`
	Status             SubmissionStatus   `json:"status"`
	VerificationResult VerificationResult `json:"verification_result"`
	CheckDetails       []CheckResult      `json:"check_details,omitempty"`
	Benchmark          *BenchmarkResult   `json:"benchmark,omitempty"`
	CompositeScore     float64            `json:"composite_score"`
	IntegrityBundle    *IntegrityBundle   `json:"-"`
	CreatedAt          time.Time          `json:"created_at"`
	ReviewedAt         *time.Time         `json:"reviewed_at,omitempty"`
	ReviewerNotes      *string            `json:"reviewer_notes,omitempty"`
}

// NewSubmissionID derives the public submission id from the creation time
// and the tail of the client session id.
func NewSubmissionID(now time.Time, sessionID string) string {
	tail := sessionID
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return fmt.Sprintf("sub_%d_%s", now.Unix(), tail)
}

// ReviewDecision is a human state transition on a submission. Pending and
// flagged submissions accept a decision; approved and rejected are final.
type ReviewDecision struct {
	Decision SubmissionStatus `json:"decision"`
	Notes    *string          `json:"notes,omitempty"`
}

func (d ReviewDecision) Validate() error {
	switch d.Decision {
	case StatusApproved, StatusRejected, StatusFlagged:
		return nil
	default:
		return ErrInvalidDecision
	}
}

// Final reports whether no further decision may be recorded.
func (s SubmissionStatus) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// SubmissionFilter selects submissions for the review queue. An empty
// Status matches every status.
type SubmissionFilter struct {
	Status SubmissionStatus
	Limit  int
	Offset int
}

// SubmissionStatusView is the lightweight polling representation.
type SubmissionStatusView struct {
	SubmissionID string           `json:"submission_id"`
	Status       SubmissionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	ReviewedAt   *time.Time       `json:"reviewed_at"`
}

// AdminStats summarises the review queue.
type AdminStats struct {
	PendingReviews     int     `json:"pending_reviews"`
	Approved           int     `json:"approved"`
	Rejected           int     `json:"rejected"`
	FlaggedSubmissions int     `json:"flagged_submissions"`
	TotalAssessments   int     `json:"total_assessments"`
	ApprovalRate       float64 `json:"approval_rate"`
}
