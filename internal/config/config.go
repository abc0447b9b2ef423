package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
)

const (
	StorageGCS    = "gcs"
	StorageMemory = "memory"

	ProbeFFprobe = "ffprobe"
	ProbeMock    = "mock"

	DetectorNone        = "none"
	DetectorRekognition = "rekognition"
	DetectorDeepFace    = "deepface"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8000"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Database
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"talentspark"`
	AutoMigrate  bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// Storage
	StorageProvider string `envconfig:"STORAGE_PROVIDER" default:"gcs"`
	GCSBucket       string `envconfig:"GCS_BUCKET" default:"talent-spark-dev-videos"`
	GCSPublicRead   bool   `envconfig:"GCS_PUBLIC_READ" default:"true"`

	// Providers
	VideoProbe   string `envconfig:"VIDEO_PROBE" default:"ffprobe"`
	FFprobePath  string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
	FaceDetector string `envconfig:"FACE_DETECTOR" default:"none"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Uploads
	MaxVideoSize      int64    `envconfig:"MAX_VIDEO_SIZE" default:"104857600"`
	AllowedVideoTypes []string `envconfig:"ALLOWED_VIDEO_TYPES" default:"video/webm,video/mp4"`

	// Integrity
	SessionPrefix       string        `envconfig:"SESSION_PREFIX" default:"ts_"`
	MaxFaceGap          time.Duration `envconfig:"MAX_FACE_GAP" default:"30s"`
	MinFaceConfidence   float64       `envconfig:"MIN_FACE_CONFIDENCE" default:"0.7"`
	MaxTimestampDrift   time.Duration `envconfig:"MAX_TIMESTAMP_DRIFT" default:"5s"`
	MaxDeviceClockSkew  time.Duration `envconfig:"MAX_DEVICE_CLOCK_SKEW" default:"1h"`
	CheckTimeout        time.Duration `envconfig:"CHECK_TIMEOUT" default:"30s"`
	RiskRedThreshold    int           `envconfig:"RISK_RED_THRESHOLD" default:"5"`
	RiskYellowThreshold int           `envconfig:"RISK_YELLOW_THRESHOLD" default:"2"`

	// Benchmarks; empty uses the built-in table
	BenchmarkFile string `envconfig:"BENCHMARK_FILE"`

	// Review notifications
	ReviewWebhookURL    string `envconfig:"REVIEW_WEBHOOK_URL"`
	ReviewWebhookSecret string `envconfig:"REVIEW_WEBHOOK_SECRET"`

	// Requests per minute per IP on POST /api/submissions
	SubmissionRateLimit int `envconfig:"SUBMISSION_RATE_LIMIT" default:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageProvider {
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_PROVIDER=gcs")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}

	if c.VideoProbe != ProbeFFprobe && c.VideoProbe != ProbeMock {
		return fmt.Errorf("unknown VIDEO_PROBE %q", c.VideoProbe)
	}
	switch c.FaceDetector {
	case DetectorNone, DetectorRekognition, DetectorDeepFace:
	default:
		return fmt.Errorf("unknown FACE_DETECTOR %q", c.FaceDetector)
	}
	if c.MaxVideoSize <= 0 {
		return fmt.Errorf("MAX_VIDEO_SIZE must be positive")
	}
	if len(c.AllowedVideoTypes) == 0 {
		return fmt.Errorf("ALLOWED_VIDEO_TYPES must not be empty")
	}
	if c.ReviewWebhookURL != "" && c.ReviewWebhookSecret == "" {
		return fmt.Errorf("REVIEW_WEBHOOK_SECRET is required when REVIEW_WEBHOOK_URL is set")
	}

	if err := c.IntegritySettings().Validate(); err != nil {
		return err
	}
	return nil
}

// IntegritySettings applies the configured tunables over the engine defaults.
func (c *Config) IntegritySettings() integrity.Settings {
	s := integrity.DefaultSettings()
	s.SessionPrefix = c.SessionPrefix
	s.MaxFaceGap = c.MaxFaceGap
	s.MinFaceConfidence = c.MinFaceConfidence
	s.MaxTimestampDrift = c.MaxTimestampDrift
	s.MaxDeviceClockSkew = c.MaxDeviceClockSkew
	s.CheckTimeout = c.CheckTimeout
	s.RedThreshold = c.RiskRedThreshold
	s.YellowThreshold = c.RiskYellowThreshold
	return s
}

// VideoTypeAllowed reports whether contentType (parameters ignored) is accepted.
func (c *Config) VideoTypeAllowed(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, t := range c.AllowedVideoTypes {
		if strings.EqualFold(strings.TrimSpace(t), mediaType) {
			return true
		}
	}
	return false
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
