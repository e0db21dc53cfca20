package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	variants "github.com/goliatone/go-variants"
)

const definitionsJSON = `{"variants": [
  {"key": "theme-choice", "options": ["light", "dark", "system"], "default": "system",
   "read": {"type": "localStorage", "key": "theme-choice"}},
  {"key": "color-scheme", "options": ["light", "dark"], "default": "light",
   "read": {"type": "media", "query": "(prefers-color-scheme: dark)", "true": "dark", "false": "light"}}
]}`

func definitionsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variants.json")
	if err := os.WriteFile(path, []byte(definitionsJSON), 0o600); err != nil {
		t.Fatalf("write definitions: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScriptCommand(t *testing.T) {
	path := definitionsFile(t)
	out, err := run(t, "script", "-d", path, "theme-choice")
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	def := variants.MustLoad(variants.Definition{
		Key:     "theme-choice",
		Options: []string{"light", "dark", "system"},
		Default: "system",
		Read:    variants.FromLocalStorage("theme-choice"),
	})
	if out != variants.Script(def)+"\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, "script", "-d", path, "--html")
	if err != nil {
		t.Fatalf("script --html: %v", err)
	}
	if strings.Count(out, "<script>") != 2 || strings.Count(out, "<style ") != 2 {
		t.Fatalf("unexpected html output %q", out)
	}

	if _, err := run(t, "script", "-d", path, "missing"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCSSCommand(t *testing.T) {
	out, err := run(t, "css", "-d", definitionsFile(t), "--pretty", "theme-choice")
	if err != nil {
		t.Fatalf("css: %v", err)
	}
	if !strings.HasPrefix(out, "/* theme-choice-6bmjch */\n") {
		t.Fatalf("missing header: %q", out)
	}
	if got := strings.Count(out, "{display:"); got != 5 {
		t.Fatalf("expected 5 rules, got %d", got)
	}
}

func TestSimulateCommand(t *testing.T) {
	path := definitionsFile(t)
	out, err := run(t, "simulate", "-d", path, "--storage", "theme-choice=dark")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if out != "data-color-scheme=light\ndata-theme-choice=dark\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, "simulate", "-d", path, "color-scheme", "--media", "prefers-color-scheme=dark", "--engine", "cel")
	if err != nil {
		t.Fatalf("simulate cel: %v", err)
	}
	if out != "data-color-scheme=dark\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, "simulate", "-d", path, "theme-choice", "--storage", "theme-choice=dark", "--storage-disabled")
	if err != nil || out != "data-theme-choice=system\n" {
		t.Fatalf("storage disabled: %q, %v", out, err)
	}

	if _, err := run(t, "simulate", "-d", path, "--engine", "lua"); err == nil {
		t.Fatalf("expected engine error")
	}
}

func TestInspectCommand(t *testing.T) {
	path := definitionsFile(t)
	out, err := run(t, "inspect", "-d", path, "--storage", "theme-choice=neon")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	want := "theme-choice-6bmjch: [system]\n" + variants.ID("color-scheme", []string{"light", "dark"}) + ": [light]\n"
	if out != want {
		t.Fatalf("unexpected output %q, want %q", out, want)
	}

	out, err = run(t, "inspect", "-d", path, "--attr", "data-theme-choice=bogus")
	if err != nil {
		t.Fatalf("inspect --attr: %v", err)
	}
	if !strings.Contains(out, "theme-choice-6bmjch: [<none>]") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSchemaCommandNeedsNoDefinitions(t *testing.T) {
	out, err := run(t, "schema", "-d", filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("schema output is not JSON: %v", err)
	}
}

func TestMissingDefinitionsFile(t *testing.T) {
	if _, err := run(t, "script", "-d", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}
