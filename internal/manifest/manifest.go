// Package manifest loads run manifests: YAML files that pair a program
// source with one or more named tape inputs and expectations, so a batch of
// runs can be declared once and replayed.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ribbon-lang/ribbon/internal/runner"
)

// Manifest describes a program and the runs to execute against it.
type Manifest struct {
	Name    string `yaml:"name,omitempty"`
	Program string `yaml:"program"` // path to the source file, relative to the manifest
	Runs    []Run  `yaml:"runs"`
}

// Run is one tape input plus how to run it and what to expect.
type Run struct {
	Name     string `yaml:"name,omitempty"`
	Tape     string `yaml:"tape"`
	Engine   string `yaml:"engine,omitempty"`    // "tree" (default) or "machine"
	MaxSteps int    `yaml:"max_steps,omitempty"` // 0 means the default budget
	Expect   string `yaml:"expect,omitempty"`    // "accept", "reject" or "halt"
}

// Load reads and checks a manifest file. Program paths are resolved
// relative to the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Program == "" {
		return nil, fmt.Errorf("%s: manifest has no program", path)
	}
	if !filepath.IsAbs(m.Program) {
		m.Program = filepath.Join(filepath.Dir(path), m.Program)
	}
	if len(m.Runs) == 0 {
		return nil, fmt.Errorf("%s: manifest has no runs", path)
	}
	for i, r := range m.Runs {
		if err := checkRun(r); err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", path, i+1, err)
		}
	}
	return &m, nil
}

func checkRun(r Run) error {
	switch runner.Engine(r.Engine) {
	case "", runner.EngineTree, runner.EngineMachine:
	default:
		return fmt.Errorf("unknown engine %q", r.Engine)
	}
	switch r.Expect {
	case "", "accept", "reject", "halt":
	default:
		return fmt.Errorf("unknown expectation %q", r.Expect)
	}
	if r.MaxSteps < 0 {
		return fmt.Errorf("negative max_steps %d", r.MaxSteps)
	}
	return nil
}
