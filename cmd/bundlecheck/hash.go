package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
)

var (
	hashVideoPath string
	hashVideoSize int64
	hashPayload   bool
)

var hashCmd = &cobra.Command{
	Use:   "hash <bundle.json>",
	Short: "Recompute the content hash of a bundle",
	Long: `Recompute the content hash of a bundle and compare it with the
hash the client claimed.

The video byte length is part of the hashed payload. Pass either the
recording with --video or its size with --video-size.

Exit Codes:
  0 = Hash matches
  1 = Hash mismatch or error`,
	Args: cobra.ExactArgs(1),
	RunE: runHash,
}

func init() {
	hashCmd.Flags().StringVar(&hashVideoPath, "video", "", "Path to the recording")
	hashCmd.Flags().Int64Var(&hashVideoSize, "video-size", -1, "Recording size in bytes")
	hashCmd.Flags().BoolVar(&hashPayload, "payload", false, "Print the canonical payload that is hashed")

	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	b, err := readBundle(args[0])
	if err != nil {
		return err
	}

	if hashVideoPath != "" && hashVideoSize >= 0 {
		return fmt.Errorf("--video and --video-size are mutually exclusive")
	}

	size := hashVideoSize
	if hashVideoPath != "" {
		info, err := os.Stat(hashVideoPath)
		if err != nil {
			return fmt.Errorf("stat video: %w", err)
		}
		size = info.Size()
	}
	if size < 0 {
		return fmt.Errorf("one of --video or --video-size is required")
	}

	out := cmd.OutOrStdout()
	if hashPayload {
		fmt.Fprintln(out, integrity.CanonicalPayload(b, size))
	}

	computed := integrity.ContentHash(b, size)
	fmt.Fprintf(out, "computed: %s\n", computed)
	fmt.Fprintf(out, "claimed:  %s\n", b.ContentHash)

	if !integrity.HashMatches(b, size) {
		return fmt.Errorf("content hash mismatch")
	}
	fmt.Fprintln(out, "match")
	return nil
}
