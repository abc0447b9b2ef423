package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestBundle() *IntegrityBundle {
	return &IntegrityBundle{
		SessionID:   "ts_1700000000000_abc123xyz",
		ProfileData: ProfileData{Age: 20, Gender: GenderMale, HeightCm: 180, WeightKg: 75},
		DeviceInfo:  DeviceInfo{UserAgent: "Mozilla/5.0", Platform: "MacIntel", Timestamp: 1700000000000},
		FaceSnapshots: []FaceSnapshot{
			{Timestamp: 1700000000000, Confidence: 0.9},
			{Timestamp: 1700000010000, Confidence: 0.8},
		},
		VideoMetrics:   VideoMetrics{Duration: 30, FPS: 30, Resolution: "1280x720", FileSize: 2048},
		AssessmentData: AssessmentData{TotalReps: 25, AverageDepth: 60, FormScore: 80, AverageRepTimeMs: 2400, Consistency: 70},
		ContentHash:    "ecd5e5f45834d3cf0555eee21ae84967d6c7a17c1ab4c6c9cf27aeb0564fc33a",
		Version:        "1.0",
	}
}

func TestIntegrityBundle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *IntegrityBundle)
		wantErr bool
	}{
		{name: "valid", mutate: func(*IntegrityBundle) {}},
		{name: "age too low", mutate: func(b *IntegrityBundle) { b.ProfileData.Age = 9 }, wantErr: true},
		{name: "age too high", mutate: func(b *IntegrityBundle) { b.ProfileData.Age = 101 }, wantErr: true},
		{name: "unknown gender", mutate: func(b *IntegrityBundle) { b.ProfileData.Gender = "other" }, wantErr: true},
		{name: "height out of range", mutate: func(b *IntegrityBundle) { b.ProfileData.HeightCm = 99 }, wantErr: true},
		{name: "weight out of range", mutate: func(b *IntegrityBundle) { b.ProfileData.WeightKg = 201 }, wantErr: true},
		{name: "snapshot confidence above one", mutate: func(b *IntegrityBundle) { b.FaceSnapshots[1].Confidence = 1.5 }, wantErr: true},
		{name: "missing session id", mutate: func(b *IntegrityBundle) { b.SessionID = "" }, wantErr: true},
		{name: "non hex content hash", mutate: func(b *IntegrityBundle) { b.ContentHash = "zz" }, wantErr: true},
		{name: "missing resolution", mutate: func(b *IntegrityBundle) { b.VideoMetrics.Resolution = "" }, wantErr: true},
		{name: "negative reps", mutate: func(b *IntegrityBundle) { b.AssessmentData.TotalReps = -1 }, wantErr: true},
		{name: "form score above 100", mutate: func(b *IntegrityBundle) { b.AssessmentData.FormScore = 100.1 }, wantErr: true},
		{name: "session prefix is not structural", mutate: func(b *IntegrityBundle) { b.SessionID = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validTestBundle()
			tt.mutate(b)
			err := b.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidationFailed))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender(" Female ")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	_, err = ParseGender("x")
	assert.ErrorIs(t, err, ErrInvalidGender)
}

func TestNewSubmissionID(t *testing.T) {
	now := time.Unix(1700000123, 0)
	assert.Equal(t, "sub_1700000123_123xyz", NewSubmissionID(now, "ts_1700000000000_abc123xyz"))
	assert.Equal(t, "sub_1700000123_ts_1", NewSubmissionID(now, "ts_1"))
}

func TestReviewDecision_Validate(t *testing.T) {
	assert.NoError(t, ReviewDecision{Decision: StatusApproved}.Validate())
	assert.NoError(t, ReviewDecision{Decision: StatusRejected}.Validate())
	assert.NoError(t, ReviewDecision{Decision: StatusFlagged}.Validate())
	assert.ErrorIs(t, ReviewDecision{Decision: StatusPending}.Validate(), ErrInvalidDecision)
	assert.ErrorIs(t, ReviewDecision{Decision: "maybe"}.Validate(), ErrInvalidDecision)
}

func TestSubmissionStatus_Final(t *testing.T) {
	assert.False(t, StatusPending.Final())
	assert.False(t, StatusFlagged.Final())
	assert.True(t, StatusApproved.Final())
	assert.True(t, StatusRejected.Final())
}

func TestParseSubmissionStatus(t *testing.T) {
	s, err := ParseSubmissionStatus("flagged")
	require.NoError(t, err)
	assert.Equal(t, StatusFlagged, s)

	_, err = ParseSubmissionStatus("done")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAgeBand(t *testing.T) {
	tests := map[int]string{
		10: AgeBand13To15, 15: AgeBand13To15,
		16: AgeBand16To18, 18: AgeBand16To18,
		19: AgeBand19To25, 25: AgeBand19To25,
		26: AgeBand26To35, 35: AgeBand26To35,
		36: AgeBand36Plus, 100: AgeBand36Plus,
	}
	for age, want := range tests {
		got := AgeBand(age)
		assert.Equal(t, want, got, "age %d", age)
		assert.True(t, ValidAgeBand(got))
	}
	assert.False(t, ValidAgeBand("40-50"))
}

func TestAnonymousUserID(t *testing.T) {
	assert.Equal(t, "user_0_123xyz", AnonymousUserID("sub_1700000000_123xyz"))
	assert.Equal(t, "user_sub_1", AnonymousUserID("sub_1"))
}

func TestRiskLevel_Rank(t *testing.T) {
	assert.Less(t, RiskGreen.Rank(), RiskYellow.Rank())
	assert.Less(t, RiskYellow.Rank(), RiskRed.Rank())
	assert.Equal(t, -1, RiskLevel("blue").Rank())
}
