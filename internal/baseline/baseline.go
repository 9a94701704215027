// Package baseline records the fingerprints of known violations so
// existing debt can be frozen while new violations still fail the run.
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
)

// File is the persisted baseline: a set of violation fingerprints.
type File struct {
	Version      int      `msgpack:"version"`
	Fingerprints []string `msgpack:"fingerprints"`
}

const currentVersion = 1

// Fingerprint derives a stable identity for a violation: rule, file,
// line, and message. Column is deliberately excluded so cosmetic
// reformatting within a line does not invalidate the baseline.
func Fingerprint(v lint.Violation) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d|%s", v.RuleID, v.Location.File, v.Location.Line, v.Message))
	return hex.EncodeToString(h[:])
}

// Write persists the fingerprints of the given violations.
func Write(path string, violations []lint.Violation) error {
	set := make(map[string]struct{}, len(violations))
	for _, v := range violations {
		set[Fingerprint(v)] = struct{}{}
	}
	fingerprints := make([]string, 0, len(set))
	for fp := range set {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	data, err := msgpack.Marshal(File{Version: currentVersion, Fingerprints: fingerprints})
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating baseline dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

// Load reads a baseline file into a fingerprint set. A missing file is
// not an error: it means no baseline, so nothing is suppressed.
func Load(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading baseline %s: %w", path, err)
	}

	var f File
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding baseline %s: %w", path, err)
	}
	if f.Version != currentVersion {
		return nil, fmt.Errorf("baseline %s has unsupported version %d", path, f.Version)
	}

	set := make(map[string]struct{}, len(f.Fingerprints))
	for _, fp := range f.Fingerprints {
		set[fp] = struct{}{}
	}
	return set, nil
}

// Filter drops violations whose fingerprint is present in the baseline.
func Filter(violations []lint.Violation, known map[string]struct{}) []lint.Violation {
	if len(known) == 0 {
		return violations
	}
	var out []lint.Violation
	for _, v := range violations {
		if _, suppressed := known[Fingerprint(v)]; suppressed {
			continue
		}
		out = append(out, v)
	}
	return out
}
