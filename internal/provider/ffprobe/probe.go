// Package ffprobe implements provider.VideoProbe on top of the ffprobe binary.
//
// REQUIRED BINARY in the API runtime: ffprobe (ffmpeg package).
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/storage"
)

const defaultTimeout = 30 * time.Second

// runFunc executes a binary and returns its stdout
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Probe decodes videos by shelling out to ffprobe
type Probe struct {
	binPath string
	workDir string
	timeout time.Duration
	run     runFunc
}

var _ provider.VideoProbe = (*Probe)(nil)

// Option configures a Probe
type Option func(*Probe)

// WithWorkDir sets the directory used for temporary video files
func WithWorkDir(dir string) Option {
	return func(p *Probe) {
		p.workDir = dir
	}
}

// WithTimeout bounds a single ffprobe invocation
func WithTimeout(d time.Duration) Option {
	return func(p *Probe) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a Probe that invokes binPath (usually "ffprobe")
func New(binPath string, opts ...Option) *Probe {
	if binPath == "" {
		binPath = "ffprobe"
	}
	p := &Probe{
		binPath: binPath,
		workDir: os.TempDir(),
		timeout: defaultTimeout,
		run:     execRun,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AssertReady checks that the binary is reachable
func (p *Probe) AssertReady() error {
	if _, err := exec.LookPath(p.binPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", p.binPath, err)
	}
	return nil
}

// Probe writes the video to a temp file and reads its first video stream
func (p *Probe) Probe(ctx context.Context, video []byte, mimeType string) (*provider.VideoInfo, error) {
	if len(video) == 0 {
		return nil, provider.ErrUnreadableVideo
	}

	path, cleanup, err := p.writeTemp(video, mimeType)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, p.binPath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames,nb_read_packets",
		"-of", "json",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	return parseOutput(out)
}

func (p *Probe) writeTemp(video []byte, mimeType string) (string, func(), error) {
	f, err := os.CreateTemp(p.workDir, "verify_*"+storage.Extension(mimeType))
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.Write(video); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

type probeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
	} `json:"streams"`
}

func parseOutput(out []byte) (*provider.VideoInfo, error) {
	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(po.Streams) == 0 {
		return nil, fmt.Errorf("no video stream: %w", provider.ErrUnreadableVideo)
	}

	s := po.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d: %w", s.Width, s.Height, provider.ErrUnreadableVideo)
	}

	fps := parseRate(s.AvgFrameRate)
	if fps <= 0 {
		fps = parseRate(s.RFrameRate)
	}

	frames, err := strconv.Atoi(s.NbFrames)
	if err != nil || frames <= 0 {
		frames, err = strconv.Atoi(s.NbReadPackets)
		if err != nil {
			return nil, fmt.Errorf("frame count unavailable: %w", provider.ErrUnreadableVideo)
		}
	}

	return &provider.VideoInfo{
		FrameCount: frames,
		FPS:        fps,
		Width:      s.Width,
		Height:     s.Height,
	}, nil
}

// parseRate turns "30000/1001" or "30" into frames per second; 0 if unknown
func parseRate(s string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w; stderr=%s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
