package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thomasaiwilcox/strictswift/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an MCP server on stdio",
	Long:  `Starts an MCP server on the stdio transport so editor agents can run analyses and read violations. Log output goes to stderr; stdout carries JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	absRoot, err := filepath.Abs(cwd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, absRoot)
	if err != nil {
		return err
	}

	srv, err := server.New(newEngine(cfg), cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return srv.Run(cmd.Context())
}
