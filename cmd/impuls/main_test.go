package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type project struct {
	dir    string
	logs   string
	config string
}

func newProject(t *testing.T) project {
	t.Helper()
	dir := t.TempDir()
	p := project{
		dir:    dir,
		logs:   filepath.Join(dir, "logs"),
		config: filepath.Join(dir, "impuls.yaml"),
	}

	writeTestFile(t, filepath.Join(p.logs, "a.md"), "#MUSIK #Zyklus-1 #Analyse #Test\n\nⅠ. LOG-ID\nM-1\n")
	writeTestFile(t, filepath.Join(p.logs, "b.md"), "#MUSIK #Zyklus-1 #Analyse\nI. LOG-ID\nM-2\n")
	writeTestFile(t, filepath.Join(p.logs, "c.md"), "#BERUF #Entwurf\nI. LOG-ID\nB-1\n")
	writeTestFile(t, filepath.Join(p.logs, "readme.txt"), "not a log\n")

	contents := "project: test\nversion: 1\n" +
		"database:\n  dsn: sqlite://" + filepath.ToSlash(filepath.Join(dir, "impuls.db")) + "\n" +
		"logs:\n  dir: " + p.logs + "\n" +
		"log:\n  level: error\n"
	writeTestFile(t, p.config, contents)
	return p
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func (p project) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", p.config}, args...)...)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := execute(cmd)
	return out.String(), err
}

func TestList(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "list")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "Found logs: 3\n\n" +
		"- [#MUSIK · #Zyklus-1]  a.md  (ID: M-1)\n" +
		"- [#MUSIK · #Zyklus-1]  b.md  (ID: M-2)\n" +
		"- [#BERUF]  c.md  (ID: B-1)\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	p := newProject(t)

	t.Run("with cycle", func(t *testing.T) {
		out, err := p.run(t, "summary", "--primaryTag", "#MUSIK", "--cycle", "#Zyklus-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := "Meta cluster: #MUSIK · #Zyklus-1\nLog count: 2\nProcess distribution: #Analyse×2, #Test×1\n"
		if out != want {
			t.Fatalf("unexpected output:\n%s", out)
		}
	})

	t.Run("empty cluster", func(t *testing.T) {
		out, err := p.run(t, "summary", "--primaryTag", "#IMPULS")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out != "No logs found for #IMPULS.\n" {
			t.Fatalf("unexpected output:\n%s", out)
		}
	})

	t.Run("missing primary tag", func(t *testing.T) {
		out, err := p.run(t, "summary")
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(out, "Usage:") {
			t.Fatalf("expected usage in output, got:\n%s", out)
		}
	})

	t.Run("unknown primary tag", func(t *testing.T) {
		if _, err := p.run(t, "summary", "--primaryTag", "#NOPE"); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestUnknownCommand(t *testing.T) {
	p := newProject(t)
	out, err := p.run(t, "bogus")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if !strings.Contains(out, "unknown command \"bogus\"") {
		t.Fatalf("expected unknown command error, got:\n%s", out)
	}
	if !strings.Contains(out, "Usage:") || !strings.Contains(out, "Available Commands:") {
		t.Fatalf("expected usage in output, got:\n%s", out)
	}
}

func TestIndex(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "index")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{"Logs: 3 (skipped 1)", "#MUSIK", "#Zyklus-1", "Dominant primary: #MUSIK", "Dominant process: #Analyse"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = p.run(t, "index", "--json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("expected JSON output, got %v", err)
	}
	if decoded["total"] != float64(3) {
		t.Fatalf("expected total 3, got %v", decoded["total"])
	}
}

func TestValidate(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "validate")
	if err == nil {
		t.Fatalf("expected validation error for readme.txt")
	}
	if !strings.Contains(out, "readme.txt") || !strings.Contains(out, "not_a_tag_line") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if err := os.Remove(filepath.Join(p.logs, "readme.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err = p.run(t, "validate", "--impulses")
	if err != nil {
		t.Fatalf("expected no error, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestImpulseWorkflow(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "impulse", "add", "earth", "sort", "the", "desk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "earth (structure)") {
		t.Fatalf("unexpected add output:\n%s", out)
	}
	if _, err := p.run(t, "impulse", "add", "erde"); err != nil {
		t.Fatalf("add alias: %v", err)
	}
	if _, err := p.run(t, "impulse", "add", "wind"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := p.run(t, "impulse", "add", "cellar"); err == nil {
		t.Fatalf("expected error for unknown room")
	}

	out, err = p.run(t, "impulse", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 3 {
		t.Fatalf("expected 3 impulses, got:\n%s", out)
	}
	if !strings.Contains(out, "sort the desk") {
		t.Fatalf("expected note in list output:\n%s", out)
	}

	out, err = p.run(t, "impulse", "stats", "--json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var summary struct {
		Total int            `json:"total"`
		Zones map[string]int `json:"zones"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if summary.Total != 3 || summary.Zones["structure"] != 2 || summary.Zones["mind"] != 1 {
		t.Fatalf("unexpected stats: %+v", summary)
	}

	out, err = p.run(t, "impulse", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Impulses: 3") || !strings.Contains(out, "SCHATTEN_SAFE") {
		t.Fatalf("unexpected rendered stats:\n%s", out)
	}

	out, err = p.run(t, "focus")
	if err != nil {
		t.Fatalf("focus: %v", err)
	}
	if !strings.Contains(out, `You are currently in "Wind · mind"`) || !strings.Contains(out, "Dominant: Earth · structure (2 impulses)") {
		t.Fatalf("unexpected focus output:\n%s", out)
	}

	out, err = p.run(t, "diagnose", "--dry-run")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !strings.Contains(out, "Total impulses: 3") {
		t.Fatalf("unexpected prompt:\n%s", out)
	}

	export := filepath.Join(p.dir, "export.json")
	if _, err := p.run(t, "impulse", "export", "--out", export); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err = p.run(t, "impulse", "import", export)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out != "Imported 0 of 3 impulses.\n" {
		t.Fatalf("unexpected import output:\n%s", out)
	}
}

func TestDiagnose_MissingKey(t *testing.T) {
	p := newProject(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := p.run(t, "diagnose"); err == nil || !strings.Contains(err.Error(), "API key is not set") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "impuls.yaml")
	logs := filepath.Join(dir, "logs")

	out, err := runCLI(t, "--config", configFile, "--dir", logs, "init", "--name", "demo", "--dsn", "memory")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "--config", configFile, "list")
	if err != nil {
		t.Fatalf("list after init: %v", err)
	}
	if !strings.Contains(out, "(ID: IMPULS-0001)") {
		t.Fatalf("expected example log in list:\n%s", out)
	}

	if _, err := runCLI(t, "--config", configFile, "init"); err == nil {
		t.Fatalf("expected error when config exists")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("expected %q, got %q", version, out)
	}
}
