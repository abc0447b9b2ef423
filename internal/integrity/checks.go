package integrity

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// input is the immutable view every check reads from.
type input struct {
	bundle   *domain.IntegrityBundle
	video    []byte
	mimeType string
}

type checkFunc func(ctx context.Context, in input) domain.CheckResult

func pass(name string) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: true}
}

func fail(name, format string, args ...any) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: false, Reason: fmt.Sprintf(format, args...)}
}

func (v *Verifier) checkContentHash(_ context.Context, in input) domain.CheckResult {
	if !HashMatches(in.bundle, int64(len(in.video))) {
		return fail(domain.CheckContentHash, "recomputed hash does not match declared content_hash")
	}
	return pass(domain.CheckContentHash)
}

func (v *Verifier) checkTimestamps(_ context.Context, in input) domain.CheckResult {
	deviceTs := in.bundle.DeviceInfo.Timestamp
	maxDrift := v.settings.MaxTimestampDrift.Milliseconds() * int64(v.settings.SnapshotDriftFactor)

	for i, snap := range in.bundle.FaceSnapshots {
		if absInt64(snap.Timestamp-deviceTs) > maxDrift {
			return fail(domain.CheckTimestamps, "snapshot %d drifts %dms from device timestamp (max %dms)",
				i, absInt64(snap.Timestamp-deviceTs), maxDrift)
		}
	}

	reps := in.bundle.AssessmentData.Timestamps
	for i := 1; i < len(reps); i++ {
		if reps[i] <= reps[i-1] {
			return fail(domain.CheckTimestamps, "rep timestamp %d (%d) not after %d", i, reps[i], reps[i-1])
		}
	}
	return pass(domain.CheckTimestamps)
}

func (v *Verifier) checkFaceContinuity(ctx context.Context, in input) domain.CheckResult {
	snapshots := in.bundle.FaceSnapshots
	n := len(snapshots)
	if n < v.settings.MinFaceSnapshots {
		return fail(domain.CheckFaceContinuity, "%d snapshots, need at least %d", n, v.settings.MinFaceSnapshots)
	}

	low := 0
	for i, snap := range snapshots {
		lowConfidence := snap.Confidence < v.settings.MinFaceConfidence

		img, err := decodeImage(snap.ImageData)
		if err != nil {
			return fail(domain.CheckFaceContinuity, "snapshot %d: %v", i, err)
		}
		if v.detector != nil && len(img) > 0 && !lowConfidence {
			faces, err := v.detector.DetectFaces(ctx, img)
			if err != nil {
				return fail(domain.CheckFaceContinuity, "snapshot %d: detect faces: %v", i, err)
			}
			lowConfidence = len(faces) == 0
		}

		if lowConfidence {
			low++
		}
	}
	if float64(low) > float64(n)*v.settings.MaxLowConfidenceRatio {
		return fail(domain.CheckFaceContinuity, "%d of %d snapshots below confidence %.2f", low, n, v.settings.MinFaceConfidence)
	}

	sorted := make([]domain.FaceSnapshot, n)
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	maxGap := v.settings.MaxFaceGap.Milliseconds()
	for i := 1; i < n; i++ {
		if gap := sorted[i].Timestamp - sorted[i-1].Timestamp; gap > maxGap {
			return fail(domain.CheckFaceContinuity, "face unobserved for %dms (max %dms)", gap, maxGap)
		}
	}
	return pass(domain.CheckFaceContinuity)
}

func (v *Verifier) checkVideoMetrics(ctx context.Context, in input) domain.CheckResult {
	if v.probe == nil {
		return fail(domain.CheckVideoMetrics, "no video probe configured")
	}

	info, err := v.probe.Probe(ctx, in.video, in.mimeType)
	if err != nil {
		return fail(domain.CheckVideoMetrics, "decode video: %v", err)
	}

	claimed := in.bundle.VideoMetrics
	if diff := math.Abs(info.Duration() - claimed.Duration); !(diff < v.settings.MaxDurationDrift) {
		return fail(domain.CheckVideoMetrics, "duration %.3fs vs claimed %.3fs", info.Duration(), claimed.Duration)
	}
	if res := info.Resolution(); res != claimed.Resolution {
		return fail(domain.CheckVideoMetrics, "resolution %s vs claimed %s", res, claimed.Resolution)
	}
	if size := int64(len(in.video)); size != claimed.FileSize {
		return fail(domain.CheckVideoMetrics, "file size %d vs claimed %d", size, claimed.FileSize)
	}
	return pass(domain.CheckVideoMetrics)
}

func (v *Verifier) checkDeviceInfo(_ context.Context, in input) domain.CheckResult {
	d := in.bundle.DeviceInfo
	if d.UserAgent == "" || d.Platform == "" {
		return fail(domain.CheckDeviceInfo, "user agent and platform are required")
	}

	nowMs := v.now().UnixMilli()
	skew := v.settings.MaxDeviceClockSkew.Milliseconds()
	if diff := absInt64(nowMs - d.Timestamp); diff > skew {
		return fail(domain.CheckDeviceInfo, "device clock off by %dms (max %dms)", diff, skew)
	}
	return pass(domain.CheckDeviceInfo)
}

func (v *Verifier) checkSessionIntegrity(_ context.Context, in input) domain.CheckResult {
	b := in.bundle
	if !strings.HasPrefix(b.SessionID, v.settings.SessionPrefix) {
		return fail(domain.CheckSessionIntegrity, "session id lacks prefix %q", v.settings.SessionPrefix)
	}

	a := b.AssessmentData
	switch {
	case a.TotalReps < 0 || a.TotalReps > v.settings.MaxReps:
		return fail(domain.CheckSessionIntegrity, "total_reps %d out of range [0,%d]", a.TotalReps, v.settings.MaxReps)
	case !inPercentRange(a.AverageDepth):
		return fail(domain.CheckSessionIntegrity, "average_depth %v out of range [0,100]", a.AverageDepth)
	case !inPercentRange(a.FormScore):
		return fail(domain.CheckSessionIntegrity, "form_score %v out of range [0,100]", a.FormScore)
	}
	return pass(domain.CheckSessionIntegrity)
}

// decodeImage accepts raw base64 or a data URL. An empty payload is allowed.
func decodeImage(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "data:") {
		_, payload, ok := strings.Cut(data, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data url")
		}
		data = payload
	}
	img, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return img, nil
}

func inPercentRange(f float64) bool {
	return f >= 0 && f <= 100
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
