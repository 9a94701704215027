package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomasaiwilcox/strictswift/internal/config"
	"github.com/thomasaiwilcox/strictswift/internal/engine"
	"github.com/thomasaiwilcox/strictswift/internal/frontend/swift"
	"github.com/thomasaiwilcox/strictswift/internal/rules/pattern"
	"github.com/thomasaiwilcox/strictswift/internal/rules/structure"
)

var rootCmd = &cobra.Command{
	Use:   "strictswift",
	Short: "Strict Swift linter",
	Long:  `strictswift analyzes Swift projects for style, idiomatic, and structural problems, including cross-file dependency cycles.`,
}

func main() {
	// Log output goes to stderr, never stdout (serve uses stdout for JSON-RPC).
	log.SetOutput(os.Stderr)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("config", "", "path to the config file (default: "+config.DefaultFileName+" in the analyzed directory)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file for a run: an explicit --config path,
// or the default file under root, or built-in defaults when neither exists.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return config.Load(path)
	}

	cfg, err := config.LoadFrom(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		return config.Default(), nil
	}
	return cfg, nil
}

// newEngine builds an engine with every frontend and rule registered.
func newEngine(cfg *config.Config) *engine.Engine {
	eng := engine.New(cfg)

	eng.RegisterFrontend(swift.New())

	eng.Register(pattern.NewForceTryRule())
	eng.Register(pattern.NewForceCastRule())
	eng.Register(pattern.NewForceUnwrapRule())
	eng.Register(pattern.NewPrintStatementRule())
	eng.Register(pattern.NewTodoCommentRule())
	eng.Register(pattern.NewLineLengthRule())
	eng.Register(pattern.NewFileLengthRule())
	eng.Register(pattern.NewTypeNameRule())
	eng.Register(structure.NewCycleRule())
	eng.Register(structure.NewAfferentCouplingRule())
	eng.Register(structure.NewEfferentCouplingRule())

	return eng
}
