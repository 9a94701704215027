package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thomasaiwilcox/strictswift/internal/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline [path]",
	Short: "Record current violations as the baseline",
	Long:  `Runs a full analysis and writes the fingerprints of every violation to the baseline file. Subsequent check runs suppress those violations, so only new ones are reported.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBaseline,
}

func init() {
	baselineCmd.Flags().String("out", "", "baseline file to write (default: the configured baseline path)")
}

func runBaseline(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := loadConfig(cmd, absRoot)
	if err != nil {
		return err
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.Baseline
	}
	if out == "" {
		out = ".strictswift/baseline.msgpack"
	}

	eng := newEngine(cfg)
	result, err := eng.Run(cmd.Context(), absRoot)
	if err != nil {
		return err
	}

	path := filepath.Join(absRoot, out)
	if err := baseline.Write(path, result.Violations); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Recorded %d violations in %s\n", len(result.Violations), path)
	return nil
}
