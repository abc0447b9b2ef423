package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// CreateSubmissionResponse represents the response for an accepted submission
type CreateSubmissionResponse struct {
	Success      bool   `json:"success" example:"true"`
	SubmissionID string `json:"submission_id" example:"sub_1700000060_123xyz"`
	Message      string `json:"message" example:"Submission created successfully"`
	UploadURL    string `json:"upload_url" example:"https://storage.googleapis.com/talent-spark-dev-videos/submissions/sub_1700000060_123xyz/video.webm"`
}

// VerificationResult mirrors the per-check booleans stored with a submission
type VerificationResult struct {
	ContentHashValid      bool `json:"content_hash_valid" example:"true"`
	FaceContinuityValid   bool `json:"face_continuity_valid" example:"true"`
	VideoMetricsValid     bool `json:"video_metrics_valid" example:"true"`
	DeviceInfoConsistent  bool `json:"device_info_consistent" example:"true"`
	SessionIntegrityValid bool `json:"session_integrity_valid" example:"true"`
	TimestampConsistent   bool `json:"timestamp_consistent" example:"true"`
}

// BenchmarkResult represents a cohort comparison
type BenchmarkResult struct {
	Grade          string `json:"grade" example:"B+"`
	Percentile     int    `json:"percentile" example:"78"`
	Category       string `json:"category" example:"Good"`
	Recommendation string `json:"recommendation" example:"Great job! Work on consistency to reach excellent level."`
}

// SubmissionDetail represents a stored submission as shown to reviewers
type SubmissionDetail struct {
	ID                 string             `json:"id" example:"sub_1700000060_123xyz"`
	SessionID          string             `json:"session_id" example:"ts_1700000000000_abc123xyz"`
	VideoURL           string             `json:"video_url" example:"memory://submissions/sub_1700000060_123xyz/video.webm"`
	RiskScore          string             `json:"risk_score" example:"yellow"`
	RiskPoints         int                `json:"risk_points" example:"2"`
	RiskFlags          []string           `json:"risk_flags" example:"Suspicious rep pattern"`
	Status             string             `json:"status" example:"pending"`
	VerificationResult VerificationResult `json:"verification_result"`
	Benchmark          BenchmarkResult    `json:"benchmark"`
	CompositeScore     float64            `json:"composite_score" example:"71.5"`
	CreatedAt          string             `json:"created_at" example:"2026-01-01T00:00:00Z"`
	ReviewedAt         string             `json:"reviewed_at,omitempty" example:"2026-01-01T01:00:00Z"`
	ReviewerNotes      string             `json:"reviewer_notes,omitempty" example:"Form looks clean"`
}

// SubmissionStatusResponse represents the polling view of a submission
type SubmissionStatusResponse struct {
	SubmissionID string `json:"submission_id" example:"sub_1700000060_123xyz"`
	Status       string `json:"status" example:"approved"`
	CreatedAt    string `json:"created_at" example:"2026-01-01T00:00:00Z"`
	ReviewedAt   string `json:"reviewed_at" example:"2026-01-01T01:00:00Z"`
}

// DecisionRequest represents a reviewer decision
type DecisionRequest struct {
	Decision string `json:"decision" example:"approved"`
	Notes    string `json:"notes,omitempty" example:"Form looks clean"`
}

// DecisionResponse represents the response for a recorded decision
type DecisionResponse struct {
	Success      bool   `json:"success" example:"true"`
	SubmissionID string `json:"submission_id" example:"sub_1700000060_123xyz"`
	Decision     string `json:"decision" example:"approved"`
	Message      string `json:"message" example:"Decision recorded successfully"`
}

// LeaderboardEntry represents one ranked, anonymised result
type LeaderboardEntry struct {
	Rank           int     `json:"rank" example:"1"`
	UserID         string  `json:"user_id" example:"user_0_123xyz"`
	AgeBand        string  `json:"age_band" example:"19-25"`
	Gender         string  `json:"gender" example:"female"`
	TotalReps      int     `json:"total_reps" example:"42"`
	FormScore      float64 `json:"form_score" example:"88.5"`
	SubmissionDate string  `json:"submission_date" example:"2026-01-01T00:00:00Z"`
}

// AdminStats represents the review queue summary
type AdminStats struct {
	PendingReviews     int     `json:"pending_reviews" example:"12"`
	Approved           int     `json:"approved" example:"30"`
	Rejected           int     `json:"rejected" example:"5"`
	FlaggedSubmissions int     `json:"flagged_submissions" example:"4"`
	TotalAssessments   int     `json:"total_assessments" example:"47"`
	ApprovalRate       float64 `json:"approval_rate" example:"63.8"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

var internalError = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")

// NewSwagger creates and configures the Swagger documentation
func NewSwagger(host string) *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "TalentSpark Assessment API",
		Version:     "v1.0.0",
		Description: "Integrity verification, risk scoring and review workflow for recorded fitness assessments",
		Host:        host,
		Path:        "/api",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /api/submissions - Create Submission
		endpoint.New(
			endpoint.POST,
			"/submissions",
			endpoint.WithTags("Submissions"),
			endpoint.WithSummary("Submit an assessment"),
			endpoint.WithDescription("Multipart form with a `video` file (video/webm or video/mp4) and an `integrity_bundle` JSON string. The bundle is verified, risk scored and queued for review."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateSubmissionResponse{}, "200", "Submission created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_BUNDLE", Message: "Invalid integrity bundle format"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_VIDEO", Message: "Video file is missing or empty"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "SUBMISSION_EXISTS", Message: "Submission already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VIDEO_TOO_LARGE", Message: "Video file too large"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNSUPPORTED_VIDEO_TYPE", Message: "Invalid video format"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				internalError,
			}),
		),

		// GET /api/submissions - List Submissions
		endpoint.New(
			endpoint.GET,
			"/submissions",
			endpoint.WithTags("Submissions"),
			endpoint.WithSummary("List submissions"),
			endpoint.WithDescription("Review queue, newest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("pending, approved, rejected or flagged")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (1-500, default: 50)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Rows to skip (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]SubmissionDetail{}, "200", "Submissions retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		// GET /api/submissions/:id - Get Submission
		endpoint.New(
			endpoint.GET,
			"/submissions/{id}",
			endpoint.WithTags("Submissions"),
			endpoint.WithSummary("Get a submission"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Submission identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SubmissionDetail{}, "200", "Submission retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SUBMISSION_NOT_FOUND", Message: "Submission not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		// GET /api/submissions/:id/status - Submission Status
		endpoint.New(
			endpoint.GET,
			"/submissions/{id}/status",
			endpoint.WithTags("Submissions"),
			endpoint.WithSummary("Poll submission status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Submission identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SubmissionStatusResponse{}, "200", "Status retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SUBMISSION_NOT_FOUND", Message: "Submission not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		// POST /api/submissions/:id/decision - Record Decision
		endpoint.New(
			endpoint.POST,
			"/submissions/{id}/decision",
			endpoint.WithTags("Review"),
			endpoint.WithSummary("Record a review decision"),
			endpoint.WithDescription("Pending and flagged submissions accept approved, rejected or flagged. Approval publishes an anonymised leaderboard entry."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Submission identifier")),
			),
			endpoint.WithBody(DecisionRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DecisionResponse{}, "200", "Decision recorded successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_DECISION", Message: "Decision must be approved, rejected or flagged"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "SUBMISSION_NOT_FOUND", Message: "Submission not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ALREADY_REVIEWED", Message: "Submission has already been reviewed"}, "409", "Conflict"),
				internalError,
			}),
		),

		// GET /api/leaderboard - Leaderboard
		endpoint.New(
			endpoint.GET,
			"/leaderboard",
			endpoint.WithTags("Leaderboard"),
			endpoint.WithSummary("Get the leaderboard"),
			endpoint.WithDescription("Approved results ranked by reps, then form score"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("age_band", parameter.Query, parameter.WithDescription("13-15, 16-18, 19-25, 26-35 or 36+")),
				parameter.StrParam("gender", parameter.Query, parameter.WithDescription("male or female")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum entries (1-1000, default: 100)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]LeaderboardEntry{}, "200", "Leaderboard retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_GENDER", Message: "Gender must be male or female"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		// GET /api/benchmark/:age/:gender/:reps - Benchmark
		endpoint.New(
			endpoint.GET,
			"/benchmark/{age}/{gender}/{reps}",
			endpoint.WithTags("Benchmark"),
			endpoint.WithSummary("Compare a rep count with its cohort"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("age", parameter.Path, parameter.WithDescription("Athlete age in years")),
				parameter.StrParam("gender", parameter.Path, parameter.WithDescription("male or female")),
				parameter.IntParam("reps", parameter.Path, parameter.WithDescription("Completed repetitions")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(BenchmarkResult{}, "200", "Benchmark computed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_GENDER", Message: "Gender must be male or female"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// GET /api/admin/stats - Admin Stats
		endpoint.New(
			endpoint.GET,
			"/admin/stats",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Review queue statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AdminStats{}, "200", "Statistics retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				internalError,
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
