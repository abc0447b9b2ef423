package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so that errors derived via WithError still compare
// equal to the predefined sentinel they came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Submission errors
	ErrSubmissionNotFound = &AppError{
		Code:       "SUBMISSION_NOT_FOUND",
		Message:    "Submission not found",
		StatusCode: 404,
	}

	ErrSubmissionExists = &AppError{
		Code:       "SUBMISSION_EXISTS",
		Message:    "Submission already exists",
		StatusCode: 409,
	}

	ErrInvalidBundle = &AppError{
		Code:       "INVALID_BUNDLE",
		Message:    "Invalid integrity bundle format",
		StatusCode: 400,
	}

	ErrInvalidVideo = &AppError{
		Code:       "INVALID_VIDEO",
		Message:    "Video file is missing or empty",
		StatusCode: 400,
	}

	ErrVideoTooLarge = &AppError{
		Code:       "VIDEO_TOO_LARGE",
		Message:    "Video file too large",
		StatusCode: 400,
	}

	ErrUnsupportedVideoType = &AppError{
		Code:       "UNSUPPORTED_VIDEO_TYPE",
		Message:    "Invalid video format",
		StatusCode: 400,
	}

	// Review errors
	ErrInvalidDecision = &AppError{
		Code:       "INVALID_DECISION",
		Message:    "Decision must be approved, rejected or flagged",
		StatusCode: 422,
	}

	ErrAlreadyReviewed = &AppError{
		Code:       "ALREADY_REVIEWED",
		Message:    "Submission has already been reviewed",
		StatusCode: 409,
	}

	ErrInvalidGender = &AppError{
		Code:       "INVALID_GENDER",
		Message:    "Gender must be male or female",
		StatusCode: 422,
	}
)
