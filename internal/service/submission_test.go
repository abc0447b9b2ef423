package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/audit"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
	providermock "github.com/saturnino-fabrica-de-software/talentspark/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/storage"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/webhook"
)

const testDeviceTs int64 = 1700000000000

var testNow = time.UnixMilli(testDeviceTs + 60_000)

func testVideo() []byte {
	return []byte(strings.Repeat("v", 2048))
}

// testBundle passes every integrity check against testVideo and testNow.
func testBundle() *domain.IntegrityBundle {
	snapshots := make([]domain.FaceSnapshot, 0, 4)
	for i := 0; i < 4; i++ {
		snapshots = append(snapshots, domain.FaceSnapshot{
			Timestamp:  testDeviceTs + int64(i)*10_000,
			Confidence: 0.95,
		})
	}
	b := &domain.IntegrityBundle{
		SessionID:   "ts_1700000000000_abc123xyz",
		ProfileData: domain.ProfileData{Age: 20, Gender: domain.GenderMale, HeightCm: 180, WeightKg: 75},
		DeviceInfo: domain.DeviceInfo{
			UserAgent: "Mozilla/5.0",
			Platform:  "MacIntel",
			Timestamp: testDeviceTs,
		},
		FaceSnapshots: snapshots,
		VideoMetrics:  domain.VideoMetrics{Duration: 30, FPS: 30, Resolution: "1280x720", FileSize: 2048},
		AssessmentData: domain.AssessmentData{
			TotalReps: 36, AverageDepth: 60, FormScore: 80, AverageRepTimeMs: 2400, Consistency: 70,
		},
		Version: "1.0",
	}
	b.ContentHash = integrity.ContentHash(b, 2048)
	return b
}

type submissionFixture struct {
	svc      *SubmissionService
	repo     *MockSubmissionRepository
	store    *storage.MemoryStore
	notifier *recordingNotifier
	audit    *recordingAudit
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	engine, err := integrity.NewEngine(integrity.DefaultSettings(), providermock.NewDefault(),
		integrity.WithClock(func() time.Time { return testNow }),
		integrity.WithLogger(testLogger()),
	)
	require.NoError(t, err)

	f := &submissionFixture{
		repo:     &MockSubmissionRepository{},
		store:    storage.NewMemoryStore(),
		notifier: &recordingNotifier{accept: true},
		audit:    &recordingAudit{},
	}
	f.svc = NewSubmissionService(f.repo, engine, f.store, benchmark.NewCalculator(nil), UploadLimits{
		MaxVideoSize: 4096,
		TypeAllowed: func(ct string) bool {
			return ct == "video/webm" || ct == "video/mp4"
		},
	}, testLogger()).
		WithAudit(f.audit).
		WithNotifier(f.notifier).
		WithClock(func() time.Time { return testNow })
	return f
}

func TestSubmissionService_Create_Green(t *testing.T) {
	f := newSubmissionFixture(t)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)

	sub, err := f.svc.Create(context.Background(), testBundle(), testVideo(), "video/webm")
	require.NoError(t, err)

	assert.Equal(t, "sub_1700000060_123xyz", sub.ID)
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Equal(t, domain.RiskGreen, sub.RiskScore)
	assert.Equal(t, 0, sub.RiskPoints)
	assert.Empty(t, sub.RiskFlags)
	assert.True(t, sub.VerificationResult.AllPassed())
	assert.Len(t, sub.CheckDetails, 6)
	assert.Equal(t, "memory://submissions/sub_1700000060_123xyz/video.webm", sub.VideoURL)

	want := benchmark.NewCalculator(nil).Compare(36, 20, domain.GenderMale)
	require.NotNil(t, sub.Benchmark)
	assert.Equal(t, want, *sub.Benchmark)
	assert.Equal(t, benchmark.Composite(sub.AssessmentData), sub.CompositeScore)

	stored, ct, err := f.store.Get("submissions/sub_1700000060_123xyz/video.webm")
	require.NoError(t, err)
	assert.Equal(t, testVideo(), stored)
	assert.Equal(t, "video/webm", ct)

	assert.Empty(t, f.notifier.events, "green submissions do not notify reviewers")
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, audit.EventSubmissionVerified, f.audit.events[0].EventType)
	assert.Equal(t, "green", f.audit.events[0].RiskScore)

	f.repo.AssertExpectations(t)
}

func TestSubmissionService_Create_RedNotifiesReviewers(t *testing.T) {
	f := newSubmissionFixture(t)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)

	b := testBundle()
	b.SessionID = "xx_1700000000000_abc123xyz"
	b.ContentHash = strings.Repeat("0", 64)

	sub, err := f.svc.Create(context.Background(), b, testVideo(), "video/mp4")
	require.NoError(t, err)

	assert.Equal(t, domain.RiskRed, sub.RiskScore)
	assert.Equal(t, 6, sub.RiskPoints)
	assert.Equal(t, []string{integrity.FlagContentHash, integrity.FlagSessionIntegrity}, sub.RiskFlags)
	assert.True(t, strings.HasSuffix(sub.VideoURL, "video.mp4"))

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, webhook.EventReviewRequired, event.Type)
	data, ok := event.Data.(webhook.ReviewRequired)
	require.True(t, ok)
	assert.Equal(t, sub.ID, data.SubmissionID)
	assert.Equal(t, 6, data.RiskPoints)
}

func TestSubmissionService_Create_NotifierDropDoesNotFail(t *testing.T) {
	f := newSubmissionFixture(t)
	f.notifier.accept = false
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	b := testBundle()
	b.ContentHash = strings.Repeat("0", 64)
	b.SessionID = "xx_1"

	sub, err := f.svc.Create(context.Background(), b, testVideo(), "video/webm")
	require.NoError(t, err)
	assert.Equal(t, domain.RiskRed, sub.RiskScore)
	assert.Len(t, f.notifier.events, 1)
}

func TestSubmissionService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		bundle   func() *domain.IntegrityBundle
		video    []byte
		mimeType string
		wantErr  error
	}{
		{
			name:     "nil bundle",
			bundle:   func() *domain.IntegrityBundle { return nil },
			video:    testVideo(),
			mimeType: "video/webm",
			wantErr:  domain.ErrInvalidBundle,
		},
		{
			name: "invalid bundle",
			bundle: func() *domain.IntegrityBundle {
				b := testBundle()
				b.ProfileData.Age = 5
				return b
			},
			video:    testVideo(),
			mimeType: "video/webm",
			wantErr:  domain.ErrValidationFailed,
		},
		{
			name:     "empty video",
			bundle:   testBundle,
			video:    nil,
			mimeType: "video/webm",
			wantErr:  domain.ErrInvalidVideo,
		},
		{
			name:     "video too large",
			bundle:   testBundle,
			video:    make([]byte, 4097),
			mimeType: "video/webm",
			wantErr:  domain.ErrVideoTooLarge,
		},
		{
			name:     "unsupported type",
			bundle:   testBundle,
			video:    testVideo(),
			mimeType: "video/avi",
			wantErr:  domain.ErrUnsupportedVideoType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t)

			_, err := f.svc.Create(context.Background(), tt.bundle(), tt.video, tt.mimeType)
			assert.ErrorIs(t, err, tt.wantErr)

			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, f.audit.events)
		})
	}
}

func TestSubmissionService_Create_RepositoryError(t *testing.T) {
	f := newSubmissionFixture(t)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrSubmissionExists)

	_, err := f.svc.Create(context.Background(), testBundle(), testVideo(), "video/webm")
	assert.ErrorIs(t, err, domain.ErrSubmissionExists)
	assert.Empty(t, f.audit.events)
}

func TestSubmissionService_Create_IDCollisionKeepsFirstVideo(t *testing.T) {
	f := newSubmissionFixture(t)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := f.svc.Create(context.Background(), testBundle(), testVideo(), "video/webm")
	require.NoError(t, err)

	// Same second and same session tail yield the same submission ID.
	other := testBundle()
	other.SessionID = "ts_1700000000999_zz0123xyz"
	other.ContentHash = integrity.ContentHash(other, 2048)
	otherVideo := []byte(strings.Repeat("X", 2048))

	_, err = f.svc.Create(context.Background(), other, otherVideo, "video/webm")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubmissionExists)
	assert.ErrorIs(t, err, storage.ErrObjectExists)

	stored, _, err := f.store.Get(storage.VideoKey(first.ID, "video/webm"))
	require.NoError(t, err)
	assert.Equal(t, testVideo(), stored)

	f.repo.AssertNumberOfCalls(t, "Create", 1)
	assert.Len(t, f.audit.events, 1)
}

func TestSubmissionService_Create_UploadError(t *testing.T) {
	f := newSubmissionFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Create(ctx, testBundle(), testVideo(), "video/webm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload video")
	assert.True(t, errors.Is(err, context.Canceled))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmissionService_Status(t *testing.T) {
	f := newSubmissionFixture(t)
	reviewed := testNow.Add(time.Hour)
	f.repo.On("GetByID", mock.Anything, "sub_1").Return(&domain.Submission{
		ID:         "sub_1",
		Status:     domain.StatusApproved,
		CreatedAt:  testNow,
		ReviewedAt: &reviewed,
	}, nil)
	f.repo.On("GetByID", mock.Anything, "sub_missing").Return(nil, domain.ErrSubmissionNotFound)

	view, err := f.svc.Status(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", view.SubmissionID)
	assert.Equal(t, domain.StatusApproved, view.Status)
	assert.Equal(t, &reviewed, view.ReviewedAt)

	_, err = f.svc.Status(context.Background(), "sub_missing")
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
}

func TestSubmissionService_List(t *testing.T) {
	f := newSubmissionFixture(t)
	filter := domain.SubmissionFilter{Status: domain.StatusPending, Limit: 10}
	f.repo.On("List", mock.Anything, filter).Return([]domain.Submission{{ID: "sub_1"}}, nil)

	got, err := f.svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sub_1", got[0].ID)
}
