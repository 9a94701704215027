// Package server exposes the linter over MCP so editor agents can run
// analyses and inspect violations without shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thomasaiwilcox/strictswift/internal/config"
	"github.com/thomasaiwilcox/strictswift/internal/engine"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
)

// Server wraps the MCP server and connects it to the lint engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config

	mu   sync.Mutex
	last *engine.Result
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config) (*Server, error) {
	s := &Server{
		eng: eng,
		cfg: cfg,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "strictswift",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) setResult(r *engine.Result) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

func (s *Server) result() *engine.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// registerResources adds MCP resources for the last analysis.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "lint://violations",
		Name:        "Lint Violations",
		Description: "All violations from the most recent analysis, as JSON",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		result := s.result()
		if result == nil {
			return nil, fmt.Errorf("no analysis available (run run_lint first)")
		}
		data, err := json.MarshalIndent(result.Violations, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding violations: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})
}

// runLintArgs are the arguments for the run_lint tool.
type runLintArgs struct {
	Path string `json:"path,omitempty" jsonschema:"Path to the Swift project to analyze. Defaults to the current directory."`
	Rule string `json:"rule,omitempty" jsonschema:"Restrict output to a single rule ID"`
}

// listRulesArgs are the arguments for the list_rules tool.
type listRulesArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category: style, idiomatic, structure, or performance"`
}

// registerTools adds MCP tools for running the linter and inspecting rules.
func (s *Server) registerTools() {
	// Tool: run_lint
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "run_lint",
		Description: "Analyze a Swift project. Parses source files, builds the symbol reference graph, runs all enabled rules, and returns a violation summary.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args runLintArgs) (*mcp.CallToolResult, any, error) {
		path := args.Path
		if path == "" {
			path = "."
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid path: %v", err)), nil, nil
		}

		result, err := s.eng.Run(ctx, absPath)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil, nil
		}
		s.setResult(result)

		violations := result.Violations
		if args.Rule != "" {
			var filtered []lint.Violation
			for _, v := range violations {
				if v.RuleID == args.Rule {
					filtered = append(filtered, v)
				}
			}
			violations = filtered
		}

		byRule := make(map[string]int)
		for _, v := range violations {
			byRule[v.RuleID]++
		}
		ruleIDs := make([]string, 0, len(byRule))
		for id := range byRule {
			ruleIDs = append(ruleIDs, id)
		}
		sort.Strings(ruleIDs)

		summary := fmt.Sprintf(
			"Analysis complete.\n\n- Path: %s\n- Files: %d\n- Symbols: %d\n- References: %d\n- Violations: %d\n- Duration: %s\n",
			result.Root,
			result.FileCount,
			result.Symbols,
			result.Edges,
			len(violations),
			result.Duration,
		)
		for _, id := range ruleIDs {
			summary += fmt.Sprintf("  - %s: %d\n", id, byRule[id])
		}
		summary += "\nUse the lint://violations resource to read the full violation list."

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: summary},
			},
		}, nil, nil
	})

	// Tool: list_rules
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the registered lint rules with their category, default severity, and enablement.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listRulesArgs) (*mcp.CallToolResult, any, error) {
		rules := s.eng.Rules().All()
		if args.Category != "" {
			rules = s.eng.Rules().ByCategory(lint.Category(args.Category))
		}
		if len(rules) == 0 {
			return errorResult("No rules match."), nil, nil
		}

		type ruleInfo struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Category string `json:"category"`
			Severity string `json:"default_severity"`
			Enabled  bool   `json:"enabled_by_default"`
		}
		infos := make([]ruleInfo, 0, len(rules))
		for _, r := range rules {
			infos = append(infos, ruleInfo{
				ID:       r.ID(),
				Name:     r.Name(),
				Category: string(r.Category()),
				Severity: string(r.DefaultSeverity()),
				Enabled:  r.EnabledByDefault(),
			})
		}

		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal rules: %v", err)), nil, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(data)},
			},
		}, nil, nil
	})
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
