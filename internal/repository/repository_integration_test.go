//go:build integration

package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/database"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

func setupIntegrationTest(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "talentspark_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/talentspark_test?sslmode=disable", host, port.Port())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.MigrateUp(ctx, connStr, "talentspark_test", logger))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestIntegration_ReviewLifecycle(t *testing.T) {
	pool := setupIntegrationTest(t)
	ctx := context.Background()

	submissions := NewSubmissionRepository(pool)
	leaderboard := NewLeaderboardRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	first := testSubmission(base.Add(-time.Minute))
	first.ID = "sub_1_first"
	first.IntegrityBundle = &domain.IntegrityBundle{SessionID: first.SessionID, Version: "1.0"}
	second := testSubmission(base)
	second.ID = "sub_2_second"
	second.RiskScore = domain.RiskRed
	second.Benchmark = nil

	require.NoError(t, submissions.Create(ctx, first))
	require.NoError(t, submissions.Create(ctx, second))

	t.Run("duplicate id is rejected", func(t *testing.T) {
		dup := testSubmission(base)
		dup.ID = first.ID
		err := submissions.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrSubmissionExists)
	})

	t.Run("get round trips json columns", func(t *testing.T) {
		got, err := submissions.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ProfileData, got.ProfileData)
		assert.Equal(t, first.AssessmentData, got.AssessmentData)
		assert.Equal(t, first.Benchmark, got.Benchmark)
		require.NotNil(t, got.IntegrityBundle)
		assert.Equal(t, first.SessionID, got.IntegrityBundle.SessionID)

		got, err = submissions.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Benchmark)
	})

	t.Run("list is newest first", func(t *testing.T) {
		got, err := submissions.List(ctx, domain.SubmissionFilter{Status: domain.StatusPending})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 2)
		assert.False(t, got[0].CreatedAt.Before(got[1].CreatedAt))
	})

	t.Run("decision is recorded once", func(t *testing.T) {
		flagged, err := submissions.RecordDecision(ctx, first.ID, domain.ReviewDecision{Decision: domain.StatusFlagged}, base)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFlagged, flagged.Status)

		approved, err := submissions.RecordDecision(ctx, first.ID, domain.ReviewDecision{Decision: domain.StatusApproved}, base)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, approved.Status)
		require.NotNil(t, approved.ReviewedAt)

		_, err = submissions.RecordDecision(ctx, first.ID, domain.ReviewDecision{Decision: domain.StatusRejected}, base)
		assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

		_, err = submissions.RecordDecision(ctx, "sub_missing", domain.ReviewDecision{Decision: domain.StatusRejected}, base)
		assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	})

	t.Run("counts", func(t *testing.T) {
		byStatus, err := submissions.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, byStatus[domain.StatusApproved])
		assert.Equal(t, 1, byStatus[domain.StatusPending])

		red, err := submissions.CountByRisk(ctx, domain.RiskRed)
		require.NoError(t, err)
		assert.Equal(t, 1, red)
	})

	t.Run("leaderboard ranks approved entries", func(t *testing.T) {
		entry := &domain.LeaderboardEntry{
			SubmissionID: first.ID,
			UserID:       domain.AnonymousUserID(first.ID),
			AgeBand:      domain.AgeBand(first.ProfileData.Age),
			Gender:       first.ProfileData.Gender,
			TotalReps:    first.AssessmentData.TotalReps,
			FormScore:    first.AssessmentData.FormScore,
		}
		require.NoError(t, leaderboard.Add(ctx, entry))
		// Re-adding the same submission is a no-op
		require.NoError(t, leaderboard.Add(ctx, &domain.LeaderboardEntry{
			SubmissionID: first.ID, UserID: "user_dup", AgeBand: entry.AgeBand, Gender: entry.Gender,
		}))

		got, err := leaderboard.List(ctx, domain.LeaderboardFilter{AgeBand: entry.AgeBand, Gender: entry.Gender})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Rank)
		assert.Equal(t, entry.UserID, got[0].UserID)

		got, err = leaderboard.List(ctx, domain.LeaderboardFilter{Gender: domain.GenderFemale})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
