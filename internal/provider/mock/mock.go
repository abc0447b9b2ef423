package mock

import (
	"context"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
)

// minImageSize is the smallest payload treated as containing a face
const minImageSize = 100

// Provider implementa provider.VideoProbe e provider.FaceDetector para testes e desenvolvimento
type Provider struct {
	info provider.VideoInfo
}

var (
	_ provider.VideoProbe   = (*Provider)(nil)
	_ provider.FaceDetector = (*Provider)(nil)
)

// New cria um Provider que reporta sempre o VideoInfo informado
func New(info provider.VideoInfo) *Provider {
	return &Provider{info: info}
}

// NewDefault reports a 30s 720p recording at 30fps
func NewDefault() *Provider {
	return New(provider.VideoInfo{
		FrameCount: 900,
		FPS:        30,
		Width:      1280,
		Height:     720,
	})
}

// Probe simula a decodificação do vídeo
func (p *Provider) Probe(ctx context.Context, video []byte, mimeType string) (*provider.VideoInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(video) == 0 {
		return nil, provider.ErrUnreadableVideo
	}
	info := p.info
	return &info, nil
}

// DetectFaces simula detecção: imagens muito pequenas não contêm face
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(image) < minImageSize {
		return []provider.DetectedFace{}, nil
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      0.1,
				Y:      0.1,
				Width:  0.8,
				Height: 0.8,
			},
			Confidence: 0.99,
		},
	}, nil
}
