package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.EnhancedRules {
		t.Error("enhanced rules should be on by default")
	}
	if cfg.MaxJobs != 4 {
		t.Errorf("MaxJobs = %d, want 4", cfg.MaxJobs)
	}
	if cfg.Output.Format != "console" {
		t.Errorf("Output.Format = %q, want console", cfg.Output.Format)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := `
enhanced_rules: false
max_jobs: 2
baseline: .strictswift/baseline.msgpack
ignore:
  - Generated/**
output:
  format: json
rules:
  line_length:
    severity: error
    params:
      max_length: 100
  force_unwrap:
    enabled: false
  print_statement:
    exclude:
      - "Sources/CLI/**"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.EnhancedRules {
		t.Error("enhanced_rules should be false")
	}
	if cfg.MaxJobs != 2 {
		t.Errorf("MaxJobs = %d, want 2", cfg.MaxJobs)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if cfg.Baseline != ".strictswift/baseline.msgpack" {
		t.Errorf("Baseline = %q", cfg.Baseline)
	}

	rc := cfg.For("line_length", "Sources/App.swift")
	if got := rc.Severity("warning"); got != "error" {
		t.Errorf("severity override = %q, want error", got)
	}
	if got := rc.Int("max_length", 120); got != 100 {
		t.Errorf("max_length = %d, want 100", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("max_jobs: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.MaxJobs != 7 {
		t.Errorf("MaxJobs = %d, want 7", cfg.MaxJobs)
	}
}

func TestRuleConfigEnabled(t *testing.T) {
	off := false
	on := true
	cfg := Default()
	cfg.Rules = map[string]RuleSettings{
		"off_rule":  {Enabled: &off},
		"on_rule":   {Enabled: &on},
		"silent":    {},
		"path_rule": {Include: []string{"Sources/**"}},
	}

	tests := []struct {
		name        string
		ruleID      string
		path        string
		ruleDefault bool
		want        bool
	}{
		{"explicit off beats default on", "off_rule", "a.swift", true, false},
		{"explicit on beats default off", "on_rule", "a.swift", false, true},
		{"silent config falls back to rule default", "silent", "a.swift", true, true},
		{"unconfigured falls back to rule default", "unknown", "a.swift", false, false},
		{"include matched", "path_rule", "Sources/App.swift", true, true},
		{"include not matched disables", "path_rule", "Tests/AppTests.swift", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := cfg.For(tt.ruleID, tt.path)
			if got := rc.Enabled(tt.ruleDefault); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.ruleDefault, got, tt.want)
			}
		})
	}
}

func TestRuleConfigExclude(t *testing.T) {
	cfg := Default()
	cfg.Rules = map[string]RuleSettings{
		"rule": {Exclude: []string{"**/*.generated.swift"}},
	}

	if cfg.For("rule", "Sources/Models.generated.swift").Enabled(true) {
		t.Error("excluded path should disable the rule")
	}
	if !cfg.For("rule", "Sources/Models.swift").Enabled(true) {
		t.Error("non-excluded path should leave the rule enabled")
	}
}

func TestRuleConfigParams(t *testing.T) {
	cfg := Default()
	cfg.Rules = map[string]RuleSettings{
		"rule": {Params: map[string]any{
			"limit":  10,
			"ratio":  0.8,
			"label":  "strict",
			"strnum": "25",
		}},
	}
	rc := cfg.For("rule", "a.swift")

	if got := rc.Int("limit", 1); got != 10 {
		t.Errorf("Int(limit) = %d", got)
	}
	if got := rc.Int("strnum", 1); got != 25 {
		t.Errorf("Int(strnum) = %d", got)
	}
	if got := rc.Int("missing", 42); got != 42 {
		t.Errorf("Int(missing) = %d, want 42", got)
	}
	if got := rc.Float("ratio", 0); got != 0.8 {
		t.Errorf("Float(ratio) = %v", got)
	}
	if got := rc.String("label", ""); got != "strict" {
		t.Errorf("String(label) = %q", got)
	}
}

func TestIsIgnored(t *testing.T) {
	cfg := Default()
	cfg.Ignore = append(cfg.Ignore, "Sources/**/*.pb.swift")

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{".build/checkouts/dep.swift", false, true},
		{".build", true, true},
		{"Pods/Alamofire/Source.swift", false, true},
		{"Sources/App/Models.generated.swift", false, true},
		{"Sources/App/api.pb.swift", false, true},
		{"Sources/App/Models.swift", false, false},
		{"DerivedData", true, true},
	}
	for _, tt := range tests {
		if got := cfg.IsIgnored(tt.path, tt.isDir); got != tt.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, path string
		want          bool
	}{
		{"Pods/**", "Pods", true},
		{"Pods/**", "Pods/A/b.swift", true},
		{"Pods/**", "MyPods/b.swift", false},
		{"**/*.generated.swift", "deep/dir/x.generated.swift", true},
		{"**/*.generated.swift", "x.generated.swift", true},
		{"Sources/**/*.swift", "Sources/App/Main.swift", true},
		{"Sources/**/*.swift", "Tests/App/Main.swift", false},
		{"*.swift", "Main.swift", true},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}
