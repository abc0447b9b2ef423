package domain

import (
	"time"

	"github.com/google/uuid"
)

// Age bands shared by benchmarking and leaderboard partitioning.
const (
	AgeBand13To15 = "13-15"
	AgeBand16To18 = "16-18"
	AgeBand19To25 = "19-25"
	AgeBand26To35 = "26-35"
	AgeBand36Plus = "36+"
)

// AgeBand maps an age to its coarse bucket. Benchmark lookups and
// leaderboard entries must both go through this function.
func AgeBand(age int) string {
	switch {
	case age <= 15:
		return AgeBand13To15
	case age <= 18:
		return AgeBand16To18
	case age <= 25:
		return AgeBand19To25
	case age <= 35:
		return AgeBand26To35
	default:
		return AgeBand36Plus
	}
}

// ValidAgeBand reports whether s is one of the known bands.
func ValidAgeBand(s string) bool {
	switch s {
	case AgeBand13To15, AgeBand16To18, AgeBand19To25, AgeBand26To35, AgeBand36Plus:
		return true
	}
	return false
}

type LeaderboardEntry struct {
	ID             uuid.UUID `json:"-"`
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	AgeBand        string    `json:"age_band"`
	Gender         Gender    `json:"gender"`
	TotalReps      int       `json:"total_reps"`
	FormScore      float64   `json:"form_score"`
	SubmissionDate time.Time `json:"submission_date"`
	SubmissionID   string    `json:"-"`
}

// AnonymousUserID derives the public leaderboard identity for a submission.
func AnonymousUserID(submissionID string) string {
	tail := submissionID
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "user_" + tail
}

type LeaderboardFilter struct {
	AgeBand string
	Gender  Gender
	Limit   int
}

// BenchmarkResult grades a rep count against its age/gender cohort.
type BenchmarkResult struct {
	Grade          string `json:"grade"`
	Percentile     int    `json:"percentile"`
	Category       string `json:"category"`
	Recommendation string `json:"recommendation"`
}
