package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Detector implements provider.FaceDetector on a self-hosted DeepFace API
type Detector struct {
	client        *Client
	minConfidence float64
}

var _ provider.FaceDetector = (*Detector)(nil)

func NewDetector(config Config) *Detector {
	return &Detector{
		client:        NewClient(config),
		minConfidence: config.MinConfidence,
	}
}

func (d *Detector) Ping(ctx context.Context) error {
	return d.client.Ping(ctx)
}

// DetectFaces returns the regions DeepFace is confident contain a face.
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}

	resp, err := d.client.Represent(ctx, base64.StdEncoding.EncodeToString(image))
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		confidence := estimateConfidence(result)
		if confidence < d.minConfidence {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(result.FacialArea.X),
				Y:      float64(result.FacialArea.Y),
				Width:  float64(result.FacialArea.W),
				Height: float64(result.FacialArea.H),
			},
			Confidence: confidence,
		})
	}

	return faces, nil
}

// estimateConfidence prefers the reported detector score; older releases
// report none, so larger faces are trusted more.
func estimateConfidence(r RepresentResult) float64 {
	if r.FaceConfidence != nil {
		return math.Max(0, math.Min(1, *r.FaceConfidence))
	}

	faceArea := float64(r.FacialArea.W * r.FacialArea.H)
	if faceArea < minFaceArea {
		return 0.5
	}
	// Scale from 0.7 to 0.99 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}
