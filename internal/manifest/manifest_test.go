package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "runs.yaml", `name: flipper
program: flip.ribbon
runs:
  - name: all a
    tape: aaa
    expect: accept
  - name: compiled
    tape: "a a"
    engine: machine
    max_steps: 500
    expect: accept
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "flipper" {
		t.Errorf("name = %q, want flipper", m.Name)
	}
	if want := filepath.Join(dir, "flip.ribbon"); m.Program != want {
		t.Errorf("program = %q, want %q", m.Program, want)
	}
	if len(m.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(m.Runs))
	}
	if m.Runs[1].Engine != "machine" || m.Runs[1].MaxSteps != 500 {
		t.Errorf("second run = %+v", m.Runs[1])
	}
	if m.Runs[1].Tape != "a a" {
		t.Errorf("second tape = %q, want %q", m.Runs[1].Tape, "a a")
	}
}

func TestLoadAbsoluteProgramPath(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere", "prog.ribbon")
	path := write(t, dir, "runs.yaml", "program: "+abs+"\nruns:\n  - tape: a\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Program != abs {
		t.Errorf("program = %q, want %q", m.Program, abs)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no program",
			content: "runs:\n  - tape: a\n",
			want:    "no program",
		},
		{
			name:    "no runs",
			content: "program: p.ribbon\n",
			want:    "no runs",
		},
		{
			name:    "bad engine",
			content: "program: p.ribbon\nruns:\n  - tape: a\n    engine: quantum\n",
			want:    `unknown engine "quantum"`,
		},
		{
			name:    "bad expectation",
			content: "program: p.ribbon\nruns:\n  - tape: a\n    expect: maybe\n",
			want:    `unknown expectation "maybe"`,
		},
		{
			name:    "negative budget",
			content: "program: p.ribbon\nruns:\n  - tape: a\n    max_steps: -1\n",
			want:    "negative max_steps",
		},
		{
			name:    "not yaml",
			content: "{{{",
			want:    "parsing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, dir, strings.ReplaceAll(tt.name, " ", "-")+".yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded, want error")
	}
}
