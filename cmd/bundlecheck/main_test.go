package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
)

const (
	testDeviceTs  int64 = 1700000000000
	testVideoSize       = 2048
)

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
			Timezone:  "UTC",
		},
		FaceSnapshots: snapshots,
		VideoMetrics: domain.VideoMetrics{
			Duration:   30,
			FPS:        30,
			Resolution: "1280x720",
			FileSize:   testVideoSize,
		},
		AssessmentData: domain.AssessmentData{
			TotalReps:        25,
			AverageDepth:     60,
			FormScore:        80,
			AverageRepTimeMs: 2400,
			Consistency:      70,
			Timestamps:       []int64{testDeviceTs + 1000, testDeviceTs + 3400, testDeviceTs + 5800},
		},
		Version: "1.0",
	}
	b.ContentHash = integrity.ContentHash(b, testVideoSize)
	return b
}

func writeFixtures(t *testing.T, b *domain.IntegrityBundle) (bundlePath, videoPath string) {
	t.Helper()
	dir := t.TempDir()

	data, err := json.Marshal(b)
	require.NoError(t, err)
	bundlePath = filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(bundlePath, data, 0o600))

	videoPath = filepath.Join(dir, "recording.webm")
	require.NoError(t, os.WriteFile(videoPath, bytes.Repeat([]byte{0x1a}, testVideoSize), 0o600))
	return bundlePath, videoPath
}

func resetFlags() {
	hashVideoPath, hashVideoSize, hashPayload = "", -1, false
	verifyProbe, verifyFFprobePath, verifyMimeType = "ffprobe", "ffprobe", ""
	verifyAt, verifyBenchmarkFile = "", ""
	verifyStrict, verifyVerbose = false, false
	benchmarkFile = ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	t.Run("match with video file", func(t *testing.T) {
		bundlePath, videoPath := writeFixtures(t, testBundle())

		out, err := execute(t, "hash", bundlePath, "--video", videoPath)
		require.NoError(t, err)
		assert.Contains(t, out, "computed: "+testBundle().ContentHash)
		assert.Contains(t, out, "match")
	})

	t.Run("wrong size mismatches", func(t *testing.T) {
		bundlePath, _ := writeFixtures(t, testBundle())

		_, err := execute(t, "hash", bundlePath, "--video-size", "2049")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
	})

	t.Run("prints canonical payload", func(t *testing.T) {
		bundlePath, _ := writeFixtures(t, testBundle())

		out, err := execute(t, "hash", bundlePath, "--video-size", "2048", "--payload")
		require.NoError(t, err)
		assert.Contains(t, out, `"sessionId": "ts_1700000000000_abc123xyz"`)
		assert.Contains(t, out, `"videoSize": 2048}`)
	})

	t.Run("requires a size", func(t *testing.T) {
		bundlePath, _ := writeFixtures(t, testBundle())

		_, err := execute(t, "hash", bundlePath)
		require.Error(t, err)
	})

	t.Run("malformed bundle", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bundle.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := execute(t, "hash", path, "--video-size", "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode bundle")
	})
}

func TestVerifyCommand(t *testing.T) {
	at := time.UnixMilli(testDeviceTs + 60_000).UTC().Format(time.RFC3339)

	t.Run("clean bundle is green", func(t *testing.T) {
		bundlePath, videoPath := writeFixtures(t, testBundle())

		out, err := execute(t, "verify", bundlePath, videoPath, "--probe", "mock", "--at", at, "--strict")
		require.NoError(t, err)

		var got struct {
			Result     domain.VerificationResult `json:"verification_result"`
			Assessment domain.Assessment         `json:"assessment"`
			Benchmark  domain.BenchmarkResult    `json:"benchmark"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.True(t, got.Result.AllPassed())
		assert.Equal(t, domain.RiskGreen, got.Assessment.Level)
		assert.NotEmpty(t, got.Benchmark.Grade)
	})

	t.Run("tampered bundle fails strict", func(t *testing.T) {
		b := testBundle()
		b.AssessmentData.TotalReps = 99
		bundlePath, videoPath := writeFixtures(t, b)

		out, err := execute(t, "verify", bundlePath, videoPath, "--probe", "mock", "--at", at, "--strict")
		require.Error(t, err)
		assert.Contains(t, out, `"content_hash_valid": false`)
	})

	t.Run("unknown probe", func(t *testing.T) {
		bundlePath, videoPath := writeFixtures(t, testBundle())

		_, err := execute(t, "verify", bundlePath, videoPath, "--probe", "opencv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown probe")
	})

	t.Run("invalid at", func(t *testing.T) {
		bundlePath, videoPath := writeFixtures(t, testBundle())

		_, err := execute(t, "verify", bundlePath, videoPath, "--probe", "mock", "--at", "yesterday")
		require.Error(t, err)
	})
}

func TestBenchmarkCommand(t *testing.T) {
	out, err := execute(t, "benchmark", "40", "22", "Male")
	require.NoError(t, err)

	var got domain.BenchmarkResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.Grade)
	assert.LessOrEqual(t, got.Percentile, 100)

	_, err = execute(t, "benchmark", "40", "22", "other")
	assert.ErrorIs(t, err, domain.ErrInvalidGender)

	_, err = execute(t, "benchmark", "-1", "22", "male")
	assert.Error(t, err)
}
