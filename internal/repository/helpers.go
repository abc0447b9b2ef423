package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, uniqueViolation) ||
		strings.Contains(errMsg, "duplicate key")
}

// jsonb marshals v for a JSONB column
func jsonb(field string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", field, err)
	}
	return b, nil
}

// fromJSONB decodes a JSONB column; NULL leaves v untouched
func fromJSONB(field string, data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}
	return nil
}
