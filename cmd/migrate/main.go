package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/config"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/database"
)

const usage = `usage: migrate [-version N] <up|down|version|force>

Applies the embedded submissions and leaderboard migrations to DATABASE_URL.
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	target := flag.Int("version", -1, "Target version (force only)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	if err := run(action, *target); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(action string, target int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel).With("component", "migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// golang-migrate needs a database/sql handle; closing the migrator closes it
	db, err := database.OpenSQL(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	migrator, err := database.NewMigrator(db, cfg.DatabaseName)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch action {
	case "up":
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "force":
		if target < 0 {
			return fmt.Errorf("-version is required for force")
		}
		if err := migrator.Force(target); err != nil {
			return fmt.Errorf("force migration failed: %w", err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown action %q (use up, down, version or force)", action)
	}

	current, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	level := slog.LevelInfo
	if dirty {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "schema version",
		slog.String("action", action),
		slog.String("database", cfg.DatabaseName),
		slog.Uint64("version", uint64(current)),
		slog.Bool("dirty", dirty),
	)

	return nil
}
