package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

func TestBenchmarkHandler_Compare(t *testing.T) {
	calc := benchmark.NewCalculator(nil)
	app := newTestApp()
	app.Get("/api/benchmark/:age/:gender/:reps", NewBenchmarkHandler(calc).Compare)

	t.Run("grades against cohort", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/benchmark/20/male/40", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result domain.BenchmarkResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, calc.Compare(40, 20, domain.GenderMale), result)
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"non numeric age", "/api/benchmark/old/male/40", 422},
		{"non numeric reps", "/api/benchmark/20/male/many", 422},
		{"negative reps", "/api/benchmark/20/male/-1", 422},
		{"unknown gender", "/api/benchmark/20/other/40", domain.ErrInvalidGender.StatusCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
