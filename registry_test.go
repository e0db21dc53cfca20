package variants

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(themeDefinition()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(themeDefinition()); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	invalid := themeDefinition()
	invalid.Key = "other"
	invalid.Default = "neon"
	if err := reg.Register(invalid); !errors.Is(err, ErrDefaultNotInOptions) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if keys := reg.Keys(); !slices.Equal(keys, []string{"theme-choice"}) {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestRegistryLookupReturnsCopies(t *testing.T) {
	reg := NewRegistry().MustRegister(themeDefinition())
	def, ok := reg.Lookup("theme-choice")
	if !ok {
		t.Fatalf("definition not found")
	}
	def.Options[0] = "mutated"
	again, _ := reg.Lookup("theme-choice")
	if again.Options[0] != "light" {
		t.Fatalf("Lookup exposed internal state")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Fatalf("unexpected definition")
	}
	var nilReg *Registry
	if _, ok := nilReg.Lookup("x"); ok || nilReg.Keys() != nil || nilReg.Definitions() != nil {
		t.Fatalf("nil registry should be empty")
	}
}

func TestRegistryHeadAndVariants(t *testing.T) {
	view := Definition{Key: "view-mode", Options: []string{"grid", "list"}, Default: "grid", Read: FromCookie("view-mode")}
	reg := NewRegistry().MustRegister(view, themeDefinition())

	defs := reg.Definitions()
	if len(defs) != 2 || defs[0].Key != "view-mode" || defs[1].Key != "theme-choice" {
		t.Fatalf("Definitions not in registration order: %v", defs)
	}

	head := renderString(t, reg.Head())
	if strings.Count(head, "<script>") != 2 || strings.Count(head, "<style ") != 2 {
		t.Fatalf("unexpected head markup: %s", head)
	}
	if strings.Index(head, "data-view-mode") > strings.Index(head, "data-theme-choice") {
		t.Fatalf("head assets out of order")
	}

	v, err := reg.Variants("theme-choice", themeChildren(), WithInlineAssets(false))
	if err != nil {
		t.Fatalf("Variants: %v", err)
	}
	if out := renderString(t, v); strings.Contains(out, "<script>") {
		t.Fatalf("inline assets rendered twice")
	}
	v.Mount(context.Background(), NewDocument(nil))
	if active, _ := v.Active(); active != "system" {
		t.Fatalf("active = %q", active)
	}
	if _, err := reg.Variants("missing", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewRegistry().MustRegister(themeDefinition(), themeDefinition())
}

func TestRegistryRootAttributes(t *testing.T) {
	reg := NewRegistry().MustRegister(
		themeDefinition(),
		Definition{Key: "view-mode", Options: []string{"grid", "list"}, Default: "grid", Read: FromCookie("view-mode")},
		Definition{Key: "feature", Options: []string{"stable", "beta"}, Default: "stable", Read: FromSearchParam("feature")},
		colorScheme(),
	)
	req := httptest.NewRequest(http.MethodGet, "/?feature=beta", nil)
	req.AddCookie(&http.Cookie{Name: "view-mode", Value: "list"})
	req.Header.Set(HintPrefersColorScheme, "dark")

	attrs := reg.RootAttributes(req)
	want := map[string]string{
		"data-view-mode":    "list",
		"data-feature":      "beta",
		"data-color-scheme": "dark",
	}
	if len(attrs) != len(want) {
		t.Fatalf("RootAttributes = %v", attrs)
	}
	for name, value := range want {
		if attrs[name] != value {
			t.Fatalf("%s = %q, want %q", name, attrs[name], value)
		}
	}
	if hints := reg.ClientHints(); !slices.Equal(hints, []string{HintPrefersColorScheme}) {
		t.Fatalf("ClientHints = %v", hints)
	}
}
