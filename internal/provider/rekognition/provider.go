package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Detector implements provider.FaceDetector using AWS Rekognition
type Detector struct {
	api    detectFacesAPI
	config Config
}

// Ensure Detector implements provider.FaceDetector interface at compile time
var _ provider.FaceDetector = (*Detector)(nil)

// NewDetector creates a Rekognition-backed face detector
func NewDetector(ctx context.Context, cfg Config) (*Detector, error) {
	api, err := newAPI(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Detector{api: api, config: cfg}, nil
}

// validateImage checks image size constraints before calling Rekognition
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces in an image using AWS Rekognition DetectFaces API
// Returns an empty slice if no faces are detected (not an error)
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := d.api.DetectFaces(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.Confidence == nil || detail.BoundingBox == nil {
			continue
		}
		// Rekognition reports confidence as a percentage
		confidence := float64(*detail.Confidence) / 100
		if confidence < d.config.MinConfidence {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			BoundingBox: boundingBox(detail.BoundingBox),
			Confidence:  confidence,
		})
	}

	return faces, nil
}

func boundingBox(b *types.BoundingBox) provider.BoundingBox {
	var out provider.BoundingBox
	if b.Left != nil {
		out.X = float64(*b.Left)
	}
	if b.Top != nil {
		out.Y = float64(*b.Top)
	}
	if b.Width != nil {
		out.Width = float64(*b.Width)
	}
	if b.Height != nil {
		out.Height = float64(*b.Height)
	}
	return out
}

func mapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
		case errCodeInvalidImageFormat, errCodeImageTooLarge, errCodeInvalidParameter:
			return fmt.Errorf("detect faces: %w: %s", ErrInvalidImage, apiErr.ErrorMessage())
		case errCodeThroughput, errCodeThrottling:
			return fmt.Errorf("detect faces: %w", ErrThrottled)
		}
	}
	return fmt.Errorf("detect faces: %w", err)
}
