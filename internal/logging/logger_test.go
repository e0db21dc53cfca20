package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	variants "github.com/goliatone/go-variants"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"trace":   zerolog.TraceLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "json", Out: &buf})
	logger.Debug().Msg("hidden")
	logger.Info().Str("key", "theme").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["message"] != "shown" || entry["key"] != "theme" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json", Out: &buf})
	log := Transitions(logger)

	log.LogTransition(variants.LogEvent{Key: "theme", ID: "theme-abc", From: variants.StateUnresolved, To: variants.StateResolved, Active: "dark"})
	log.LogTransition(variants.LogEvent{Key: "theme", From: variants.StateResolved, To: variants.StatePruned, Err: errors.New("hook failed")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	var first, second map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[1]), &second)
	if first["level"] != "debug" || first["to"] != "resolved" || first["active"] != "dark" {
		t.Fatalf("unexpected first entry %v", first)
	}
	if second["level"] != "warn" || second["error"] != "hook failed" {
		t.Fatalf("unexpected second entry %v", second)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(Config{Level: zerolog.InfoLevel, Format: "json", Out: &buf}))
	ctx = WithComponent(ctx, "serve")
	FromContext(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"component":"serve"`) {
		t.Fatalf("component missing: %s", buf.String())
	}
}
