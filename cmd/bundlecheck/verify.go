package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider/ffprobe"
	providermock "github.com/saturnino-fabrica-de-software/talentspark/internal/provider/mock"
)

var (
	verifyProbe         string
	verifyFFprobePath   string
	verifyMimeType      string
	verifyAt            string
	verifyBenchmarkFile string
	verifyStrict        bool
	verifyVerbose       bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <bundle.json> <video>",
	Short: "Run the integrity checks against a local recording",
	Long: `Run the six integrity checks against a local recording and print the
verification result, risk classification and benchmark grade as JSON.

Face continuity is judged on the snapshot confidences in the bundle;
no external detector is called.

Use --at to evaluate the bundle as of the time it was submitted, since
the device clock check compares against the current time otherwise.

Exit Codes:
  0 = Evaluated (with --strict: every check passed)
  1 = Error, or a failed check with --strict`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyProbe, "probe", "ffprobe", "Video probe: ffprobe or mock")
	verifyCmd.Flags().StringVar(&verifyFFprobePath, "ffprobe-path", "ffprobe", "Path to the ffprobe binary")
	verifyCmd.Flags().StringVar(&verifyMimeType, "mime-type", "", "Recording MIME type (default derived from the file extension)")
	verifyCmd.Flags().StringVar(&verifyAt, "at", "", "Evaluate as of this RFC3339 time")
	verifyCmd.Flags().StringVar(&verifyBenchmarkFile, "benchmark-file", "", "YAML benchmark table (default built-in)")
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "Exit non-zero unless every check passed")
	verifyCmd.Flags().BoolVarP(&verifyVerbose, "verbose", "v", false, "Log check execution to stderr")

	rootCmd.AddCommand(verifyCmd)
}

type verifyOutput struct {
	integrity.Outcome
	Benchmark domain.BenchmarkResult `json:"benchmark"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	b, err := readBundle(args[0])
	if err != nil {
		return err
	}
	video, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}

	probe, err := verifyVideoProbe()
	if err != nil {
		return err
	}

	opts := []integrity.VerifierOption{integrity.WithLogger(verifyLogger(cmd.ErrOrStderr()))}
	if verifyAt != "" {
		at, err := time.Parse(time.RFC3339, verifyAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		opts = append(opts, integrity.WithClock(func() time.Time { return at }))
	}

	engine, err := integrity.NewEngine(integrity.DefaultSettings(), probe, opts...)
	if err != nil {
		return err
	}

	table, err := benchmark.LoadTable(verifyBenchmarkFile)
	if err != nil {
		return err
	}

	mimeType := verifyMimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(args[1]))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	outcome := engine.Evaluate(ctx, b, video, mimeType)
	out := verifyOutput{
		Outcome:   outcome,
		Benchmark: benchmark.NewCalculator(table).CompareProfile(b.AssessmentData.TotalReps, b.ProfileData),
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if verifyStrict && !outcome.Result.AllPassed() {
		return fmt.Errorf("verification failed: risk %s (%d points)", outcome.Assessment.Level, outcome.Assessment.Points)
	}
	return nil
}

func verifyVideoProbe() (provider.VideoProbe, error) {
	switch verifyProbe {
	case "mock":
		return providermock.NewDefault(), nil
	case "ffprobe":
		p := ffprobe.New(verifyFFprobePath)
		if err := p.AssertReady(); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown probe %q (must be ffprobe or mock)", verifyProbe)
	}
}

func verifyLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verifyVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
