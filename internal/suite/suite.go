// Package suite runs a batch of fixtures described by a YAML manifest
// against one schema and query.
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hanpama/gqlfixture/internal/fixture"
)

// Manifest is the on-disk suite description. Relative paths resolve against
// the manifest's directory.
type Manifest struct {
	Schema    string   `yaml:"schema"`
	Query     string   `yaml:"query"`
	Operation string   `yaml:"operation"`
	Fixtures  []string `yaml:"fixtures"`

	// StructuralOnly skips the type phase for every fixture.
	StructuralOnly bool `yaml:"structuralOnly"`
}

// Suite is a loaded manifest ready to run.
type Suite struct {
	manifest  Manifest
	dir       string
	queryText string
	validator *fixture.Validator
	fixtures  []string
}

// FixtureResult pairs one fixture path with its validation outcome.
type FixtureResult struct {
	Fixture string          `json:"fixture"`
	Result  *fixture.Result `json:"result,omitempty"`
	// Err records a fatal failure for this fixture: unreadable file, broken
	// JSON. Other fixtures still run.
	Err string `json:"error,omitempty"`
}

// Load reads the manifest, builds the schema, and expands fixture globs.
// Fixture paths are deduplicated and sorted so runs are deterministic.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Schema == "" || m.Query == "" {
		return nil, fmt.Errorf("manifest %s must set both schema and query", path)
	}
	dir := filepath.Dir(path)

	sdl, err := os.ReadFile(resolve(dir, m.Schema))
	if err != nil {
		return nil, err
	}
	v, err := fixture.NewFromSDL(m.Schema, string(sdl))
	if err != nil {
		return nil, fmt.Errorf("build schema %s: %w", m.Schema, err)
	}
	queryText, err := os.ReadFile(resolve(dir, m.Query))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range m.Fixtures {
		matches, err := filepath.Glob(resolve(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if matches == nil {
			return nil, fmt.Errorf("pattern %q matched no fixtures", pattern)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("manifest %s lists no fixtures", path)
	}

	return &Suite{
		manifest:  m,
		dir:       dir,
		queryText: string(queryText),
		validator: v,
		fixtures:  paths,
	}, nil
}

// Fixtures returns the expanded fixture paths in run order.
func (s *Suite) Fixtures() []string { return append([]string(nil), s.fixtures...) }

// Run validates every fixture independently. A fixture that cannot be read
// or decoded is reported in its FixtureResult and does not stop the run.
func (s *Suite) Run(ctx context.Context) []FixtureResult {
	out := make([]FixtureResult, 0, len(s.fixtures))
	for _, path := range s.fixtures {
		fr := FixtureResult{Fixture: path}
		res, err := s.validator.ValidateFile(ctx, s.queryText, path, fixture.Options{
			OperationName:  s.manifest.Operation,
			StructuralOnly: s.manifest.StructuralOnly,
		})
		if err != nil {
			fr.Err = err.Error()
		} else {
			fr.Result = res
		}
		out = append(out, fr)
	}
	return out
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
