package main

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/config"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider/ffprobe"
	providermock "github.com/saturnino-fabrica-de-software/talentspark/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider/rekognition"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/storage"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func newVideoStore(ctx context.Context, cfg *config.Config) (storage.VideoStore, func(), error) {
	if cfg.StorageProvider == config.StorageMemory {
		return storage.NewMemoryStore(), func() {}, nil
	}

	gcs, err := storage.NewGCSStore(ctx, storage.GCSConfig{
		Bucket:     cfg.GCSBucket,
		PublicRead: cfg.GCSPublicRead,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create video store: %w", err)
	}
	return gcs, func() { _ = gcs.Close() }, nil
}

func newVideoProbe(cfg *config.Config) (provider.VideoProbe, error) {
	if cfg.VideoProbe == config.ProbeMock {
		return providermock.NewDefault(), nil
	}

	probe := ffprobe.New(cfg.FFprobePath)
	if err := probe.AssertReady(); err != nil {
		return nil, err
	}
	return probe, nil
}

// newFaceDetector returns nil when snapshot re-detection is disabled.
func newFaceDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch cfg.FaceDetector {
	case config.DetectorRekognition:
		rcfg := rekognition.DefaultConfig()
		rcfg.Region = cfg.AWSRegion
		d, err := rekognition.NewDetector(ctx, rcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create face detector: %w", err)
		}
		return d, nil
	case config.DetectorDeepFace:
		dcfg := deepface.DefaultConfig()
		dcfg.BaseURL = cfg.DeepFaceURL
		return deepface.NewDetector(dcfg), nil
	default:
		return nil, nil
	}
}

func newCalculator(cfg *config.Config) (*benchmark.Calculator, error) {
	if cfg.BenchmarkFile == "" {
		return benchmark.NewCalculator(nil), nil
	}
	table, err := benchmark.LoadTable(cfg.BenchmarkFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark table: %w", err)
	}
	return benchmark.NewCalculator(table), nil
}
