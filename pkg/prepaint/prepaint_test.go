package prepaint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/pkg/mediaquery"
)

func themeChoice() variants.Definition {
	return variants.MustLoad(variants.Definition{
		Key:     "theme-choice",
		Options: []string{"light", "dark", "system"},
		Default: "system",
		Read:    variants.FromLocalStorage("theme-choice"),
	})
}

func TestResolveLocalStorage(t *testing.T) {
	def := themeChoice()
	cases := []struct {
		name string
		env  Env
		want string
	}{
		{"stored value", Env{LocalStorage: map[string]string{"theme-choice": "dark"}}, "dark"},
		{"unknown value", Env{LocalStorage: map[string]string{"theme-choice": "neon"}}, "system"},
		{"empty value", Env{LocalStorage: map[string]string{"theme-choice": ""}}, "system"},
		{"missing key", Env{}, "system"},
		{"storage disabled", Env{StorageDisabled: true, LocalStorage: map[string]string{"theme-choice": "dark"}}, "system"},
	}
	for _, tc := range cases {
		got, err := Resolve(def, tc.env)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestResolveCookie(t *testing.T) {
	def := variants.MustLoad(variants.Definition{
		Key:     "view-mode",
		Options: []string{"grid", "list", "compact"},
		Default: "grid",
		Read:    variants.FromCookie("view.mode"),
	})
	cases := []struct {
		cookie string
		want   string
	}{
		{"view.mode=list", "list"},
		{"a=1; view.mode=compact; b=2", "compact"},
		{"viewxmode=list", "grid"},
		{"other-view.mode=list", "grid"},
		{"view.mode=%E0%A4%A", "grid"},
		{"view.mode=%6Cist", "list"},
		{"", "grid"},
	}
	for _, tc := range cases {
		got, err := Resolve(def, Env{Cookie: tc.cookie})
		if err != nil {
			t.Fatalf("cookie %q: %v", tc.cookie, err)
		}
		if got != tc.want {
			t.Fatalf("cookie %q: got %q, want %q", tc.cookie, got, tc.want)
		}
	}
}

func TestResolveSearchParam(t *testing.T) {
	def := variants.MustLoad(variants.Definition{
		Key:     "feature",
		Options: []string{"stable", "beta", "experimental"},
		Default: "stable",
		Read:    variants.FromSearchParam("feature"),
	})
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/?feature=beta", "beta"},
		{"https://example.com/?x=1&feature=experimental", "experimental"},
		{"https://example.com/?feature=", "stable"},
		{"https://example.com/?feature=nightly", "stable"},
		{"https://example.com/", "stable"},
		{"", "stable"},
	}
	for _, tc := range cases {
		got, err := Resolve(def, Env{URL: tc.url})
		if err != nil {
			t.Fatalf("url %q: %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("url %q: got %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestResolveMediaQuery(t *testing.T) {
	def := variants.MustLoad(variants.Definition{
		Key:     "color-scheme",
		Options: []string{"light", "dark"},
		Default: "light",
		Read: variants.FromMediaQuery("(prefers-color-scheme: dark)", variants.MediaValues{
			True:  "dark",
			False: "light",
		}),
	})
	for name, evaluator := range map[string]mediaquery.Evaluator{
		"expr": mediaquery.NewExprEvaluator(),
		"cel":  mediaquery.NewCELEvaluator(),
	} {
		got, err := Resolve(def, Env{
			Media:          mediaquery.Features{"prefers-color-scheme": "dark"},
			MediaEvaluator: evaluator,
		})
		if err != nil || got != "dark" {
			t.Fatalf("%s: got %q, %v; want dark", name, got, err)
		}
		got, err = Resolve(def, Env{MediaEvaluator: evaluator})
		if err != nil || got != "light" {
			t.Fatalf("%s: got %q, %v; want light", name, got, err)
		}
	}
}

func TestResultDocumentFeedsRenderer(t *testing.T) {
	def := themeChoice()
	result, err := Run(variants.Script(def), Env{
		LocalStorage:   map[string]string{"theme-choice": "light"},
		RootAttributes: map[string]string{"lang": "en"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := result.Document()
	if value, ok := doc.RootAttribute("data-theme-choice"); !ok || value != "light" {
		t.Fatalf("unexpected root attribute %q (%v)", value, ok)
	}
	if value, _ := doc.RootAttribute("lang"); value != "en" {
		t.Fatalf("seeded attribute lost: %q", value)
	}
}

func TestRunReportsScriptErrors(t *testing.T) {
	if _, err := Run("throw new Error('boom')", Env{}); err == nil {
		t.Fatalf("expected runtime error")
	}
	if _, err := Run("function (", Env{}); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := Resolve(themeChoice(), Env{URL: "http://[::1"}); err == nil {
		t.Fatalf("expected url error")
	}
	_, err := Run("localStorage.getItem('x')", Env{StorageDisabled: true})
	if err == nil {
		t.Fatalf("expected storage error to surface outside try/catch")
	}
}

func TestResolveUnsupportedSourceFallsBack(t *testing.T) {
	def := themeChoice()
	def.Read = variants.ReadSource{Kind: "unsupported"}
	def = variants.New(def)
	got, err := Resolve(def, Env{})
	if err != nil || got != "system" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestServerCookieResolutionMatchesScript(t *testing.T) {
	def := variants.MustLoad(variants.Definition{
		Key:     "view-mode",
		Options: []string{"grid", "list"},
		Default: "grid",
		Read:    variants.FromCookie("view_mode"),
	})
	for _, cookie := range []string{`view_mode="list"`, "view_mode=list", "a=1; view_mode=%6Cist", "view_mode=%E0%A"} {
		script, err := Resolve(def, Env{Cookie: cookie})
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", cookie)
		server, _ := variants.ResolveRequest(def, req)
		if server != script {
			t.Fatalf("cookie %q: server %q, script %q", cookie, server, script)
		}
	}
}

func TestResolveOnlyWithoutMediaTypeNeverMatches(t *testing.T) {
	def := variants.MustLoad(variants.Definition{
		Key:     "layout",
		Options: []string{"wide", "narrow"},
		Default: "narrow",
		Read: variants.FromMediaQuery("only (min-width: 1px)", variants.MediaValues{
			True:  "wide",
			False: "narrow",
		}),
	})
	got, err := Resolve(def, Env{Media: mediaquery.Features{"width": 1280.0}})
	if err != nil || got != "narrow" {
		t.Fatalf("got %q, %v; want narrow", got, err)
	}
}
