// Package config loads the .strictswift.yaml configuration: global knobs,
// ignore globs, and per-rule enablement, severity overrides, named
// parameters, and path applicability. The configuration is loaded once
// and immutable for the run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the target root.
const DefaultFileName = ".strictswift.yaml"

// Config represents the .strictswift.yaml configuration.
type Config struct {
	// EnhancedRules gates the cross-file structure rules that read the
	// reference graph.
	EnhancedRules bool `yaml:"enhanced_rules"`
	// MaxJobs bounds sweep parallelism. Zero or negative means "use the
	// number of CPUs".
	MaxJobs  int                     `yaml:"max_jobs"`
	Ignore   []string                `yaml:"ignore"`
	Baseline string                  `yaml:"baseline"`
	Output   OutputConfig            `yaml:"output"`
	Rules    map[string]RuleSettings `yaml:"rules"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Format string `yaml:"format"` // "console" or "json"
}

// RuleSettings is the raw per-rule configuration block.
type RuleSettings struct {
	Enabled  *bool          `yaml:"enabled"`
	Severity string         `yaml:"severity"`
	Params   map[string]any `yaml:"params"`
	Include  []string       `yaml:"include"`
	Exclude  []string       `yaml:"exclude"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		EnhancedRules: true,
		MaxJobs:       4,
		Ignore: []string{
			".build/**",
			".git/**",
			"Pods/**",
			"Carthage/**",
			"DerivedData/**",
			"**/*.generated.swift",
			".strictswift/**",
		},
		Output: OutputConfig{Format: "console"},
	}
}

// Load reads a configuration file from the given path. Missing fields
// are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = "console"
	}

	return cfg, nil
}

// LoadFrom looks for the default config file under the given directory.
func LoadFrom(dir string) (*Config, error) {
	return Load(filepath.Join(dir, DefaultFileName))
}

// RuleConfig is the resolved view of one rule's configuration for one
// file path.
type RuleConfig struct {
	settings    RuleSettings
	configured  bool
	pathAllowed bool
}

// For resolves the configuration for (ruleID, path). The path is matched
// against the rule's include/exclude globs; a file outside the rule's
// applicability is reported as disabled regardless of the enable flag.
func (c *Config) For(ruleID, path string) RuleConfig {
	settings, ok := c.Rules[ruleID]
	rc := RuleConfig{settings: settings, configured: ok, pathAllowed: true}
	if !ok {
		return rc
	}
	if len(settings.Include) > 0 && !matchesAny(settings.Include, path) {
		rc.pathAllowed = false
	}
	if matchesAny(settings.Exclude, path) {
		rc.pathAllowed = false
	}
	return rc
}

// Enabled resolves the enable flag, falling back to the rule's own
// default when the configuration is silent.
func (rc RuleConfig) Enabled(ruleDefault bool) bool {
	if !rc.pathAllowed {
		return false
	}
	if rc.configured && rc.settings.Enabled != nil {
		return *rc.settings.Enabled
	}
	return ruleDefault
}

// Severity resolves the severity: the configured override is always the
// final authority; the rule's intrinsic default is only a fallback.
func (rc RuleConfig) Severity(ruleDefault string) string {
	if rc.configured && rc.settings.Severity != "" {
		return rc.settings.Severity
	}
	return ruleDefault
}

// Int returns the named numeric parameter, or def when absent or not
// convertible.
func (rc RuleConfig) Int(name string, def int) int {
	v, ok := rc.settings.Params[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

// Float returns the named float parameter, or def.
func (rc RuleConfig) Float(name string, def float64) float64 {
	v, ok := rc.settings.Params[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return parsed
		}
	}
	return def
}

// String returns the named string parameter, or def.
func (rc RuleConfig) String(name, def string) string {
	v, ok := rc.settings.Params[name]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// IsIgnored checks whether a path matches any global ignore pattern.
func (c *Config) IsIgnored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range c.Ignore {
		if matchPattern(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchesAny reports whether the path matches at least one glob.
func matchesAny(patterns []string, path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range patterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern matches a single glob against a slash-separated path,
// handling the "dir/**" and "**/suffix" forms filepath.Match does not.
func matchPattern(pattern, path string) bool {
	// Directory-prefix patterns: "Pods/**" matches the dir and anything under it.
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// "**/x" patterns: match the suffix against the basename and the full path.
	if strings.HasPrefix(pattern, "**/") {
		sub := strings.TrimPrefix(pattern, "**/")
		if matched, err := filepath.Match(sub, filepath.Base(path)); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(sub, path); err == nil && matched {
			return true
		}
	}

	// Embedded "/**/" segment: "Sources/**/*.swift".
	if i := strings.Index(pattern, "/**/"); i >= 0 {
		prefix, suffix := pattern[:i], pattern[i+len("/**/"):]
		if strings.HasPrefix(path, prefix+"/") {
			rest := path[len(prefix)+1:]
			if matched, err := filepath.Match(suffix, filepath.Base(rest)); err == nil && matched {
				return true
			}
		}
	}

	return false
}
