package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnreadableVideo is returned when a probe cannot decode the container.
var ErrUnreadableVideo = errors.New("unreadable video")

// VideoProbe decodes a raw video and reports what it actually contains
type VideoProbe interface {
	Probe(ctx context.Context, video []byte, mimeType string) (*VideoInfo, error)
}

// FaceDetector finds faces in a still image
type FaceDetector interface {
	// DetectFaces returns an empty slice if no faces are detected (not an error)
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// VideoInfo is the decoded ground truth for a video
type VideoInfo struct {
	FrameCount int     `json:"frame_count"`
	FPS        float64 `json:"fps"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Duration is frame_count / fps, or 0 when fps is unknown.
func (v VideoInfo) Duration() float64 {
	if v.FPS <= 0 {
		return 0
	}
	return float64(v.FrameCount) / v.FPS
}

// Resolution formats the frame size as "WxH".
func (v VideoInfo) Resolution() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"` // 0.0 - 1.0
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
