package variants

import (
	"errors"
	"strings"
	"testing"
)

func themeDefinition() Definition {
	return Definition{
		Key:     "theme-choice",
		Options: []string{"light", "dark", "system"},
		Default: "system",
		Read:    FromLocalStorage("theme-choice"),
	}
}

func TestNewIsPermissive(t *testing.T) {
	def := themeDefinition()
	def.Default = "neon"
	out := New(def)
	if out.Default != "neon" {
		t.Fatalf("New rewrote the default: %q", out.Default)
	}
	out.Options[0] = "changed"
	if def.Options[0] != "light" {
		t.Fatalf("New shares the options slice with its input")
	}
}

func TestLoadRejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Definition)
		field  string
		want   error
	}{
		{"empty key", func(d *Definition) { d.Key = "" }, "key", ErrKeyRequired},
		{"bad key", func(d *Definition) { d.Key = "theme choice" }, "key", ErrInvalidKey},
		{"no options", func(d *Definition) { d.Options = nil }, "options", ErrNoOptions},
		{"empty label", func(d *Definition) { d.Options = []string{"light", ""} }, "options[1]", ErrEmptyOption},
		{"duplicate label", func(d *Definition) { d.Options = []string{"light", "light"}; d.Default = "light" }, "options[1]", ErrDuplicateOption},
		{"default outside", func(d *Definition) { d.Default = "neon" }, "default", ErrDefaultNotInOptions},
		{"empty storage key", func(d *Definition) { d.Read = FromLocalStorage(" ") }, "read", ErrInvalidSource},
		{"empty cookie", func(d *Definition) { d.Read = FromCookie("") }, "read", ErrInvalidSource},
		{"unknown kind", func(d *Definition) { d.Read = ReadSource{Kind: "session"} }, "read", ErrInvalidSource},
		{"media labels empty", func(d *Definition) {
			d.Read = FromMediaQuery("(prefers-color-scheme: dark)", MediaValues{True: "dark"})
		}, "read", ErrInvalidSource},
		{"media label outside", func(d *Definition) {
			d.Read = FromMediaQuery("(prefers-color-scheme: dark)", MediaValues{True: "night", False: "light"})
		}, "read", ErrMediaLabelNotInOptions},
	}
	for _, tc := range cases {
		def := themeDefinition()
		tc.mutate(&def)
		_, err := Load(def)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected ConfigError, got %T", tc.name, err)
		}
		if cfgErr.Field != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, cfgErr.Field, tc.field)
		}
	}
}

func TestLoadAcceptsEverySourceKind(t *testing.T) {
	sources := []ReadSource{
		FromLocalStorage("theme"),
		FromCookie("theme"),
		FromSearchParam("theme"),
		FromMediaQuery("(prefers-color-scheme: dark)", MediaValues{True: "dark", False: "light"}),
	}
	for _, src := range sources {
		def := themeDefinition()
		def.Read = src
		if _, err := Load(def); err != nil {
			t.Fatalf("%s: %v", src, err)
		}
	}
}

func TestMustLoadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	def := themeDefinition()
	def.Default = "neon"
	MustLoad(def)
}

func TestConfigErrorMessage(t *testing.T) {
	def := themeDefinition()
	def.Default = "neon"
	_, err := Load(def)
	msg := err.Error()
	if !strings.Contains(msg, "key=theme-choice") || !strings.Contains(msg, "field=default") {
		t.Fatalf("unexpected message %q", msg)
	}
	var nilErr *ConfigError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil ConfigError should be inert")
	}
}

func TestDefinitionHelpers(t *testing.T) {
	def := themeDefinition()
	if def.Attribute() != "data-theme-choice" {
		t.Fatalf("Attribute = %q", def.Attribute())
	}
	if !def.Has("dark") || def.Has("neon") || def.Has("") {
		t.Fatalf("Has returned unexpected results")
	}
}

func TestReadSourceString(t *testing.T) {
	cases := map[string]ReadSource{
		"localStorage(theme)":                    FromLocalStorage("theme"),
		"cookie(view-mode)":                      FromCookie("view-mode"),
		"search(feature)":                        FromSearchParam("feature"),
		"media((hover: none) ? touch : pointer)": FromMediaQuery("(hover: none)", MediaValues{True: "touch", False: "pointer"}),
		"unknown":                                {Kind: "other"},
	}
	for want, src := range cases {
		if got := src.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
