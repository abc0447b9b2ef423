package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

var benchmarkFile string

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <reps> <age> <gender>",
	Short: "Grade a rep count against the cohort benchmarks",
	Long: `Grade a rep count against the benchmark table for an age and gender.

Use --benchmark-file to check a YAML table before deploying it.`,
	Args: cobra.ExactArgs(3),
	RunE: runBenchmark,
}

func init() {
	benchmarkCmd.Flags().StringVar(&benchmarkFile, "benchmark-file", "", "YAML benchmark table (default built-in)")

	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	reps, err := strconv.Atoi(args[0])
	if err != nil || reps < 0 {
		return fmt.Errorf("invalid reps %q", args[0])
	}
	age, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid age %q", args[1])
	}
	gender, err := domain.ParseGender(args[2])
	if err != nil {
		return err
	}

	table, err := benchmark.LoadTable(benchmarkFile)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), benchmark.NewCalculator(table).Compare(reps, age, gender))
}
