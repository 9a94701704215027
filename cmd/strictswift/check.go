package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thomasaiwilcox/strictswift/internal/baseline"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze a Swift project and report violations",
	Long:  `Parses the Swift sources under the given path (default: current directory), builds the cross-file symbol reference graph, runs all enabled rules, and prints the violations.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (console|json), overrides the config")
	checkCmd.Flags().Bool("no-baseline", false, "ignore the configured baseline file")
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	eng := newEngine(cfg)
	result, err := eng.Run(cmd.Context(), absRoot)
	if err != nil {
		return err
	}

	noBaseline, err := cmd.Flags().GetBool("no-baseline")
	if err != nil {
		return err
	}
	if cfg.Baseline != "" && !noBaseline {
		known, err := baseline.Load(filepath.Join(absRoot, cfg.Baseline))
		if err != nil {
			return err
		}
		result.Violations = baseline.Filter(result.Violations, known)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.Output.Format
	}
	reporter, err := report.ForFormat(format)
	if err != nil {
		return err
	}
	if err := reporter.Report(os.Stdout, result); err != nil {
		return err
	}

	for _, v := range result.Violations {
		if v.Severity == lint.SeverityError {
			os.Exit(1)
		}
	}
	return nil
}
