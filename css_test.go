package variants

import (
	"strings"
	"testing"
)

func TestCSSRules(t *testing.T) {
	def := Definition{
		Key:     "view",
		Options: []string{"grid", "list"},
		Default: "list",
		Read:    FromCookie("view"),
	}
	want := `[data-variant][data-variant-key="view-x"]{display:none;}` +
		`html[data-view="grid"] [data-variant="grid"][data-variant-key="view-x"]{display:block;}` +
		`html[data-view="list"] [data-variant="list"][data-variant-key="view-x"]{display:block;}` +
		`html:not([data-view]) [data-variant="list"][data-variant-key="view-x"]{display:block;}`
	if got := CSS(def, "view-x"); got != want {
		t.Fatalf("CSS mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestCSSRuleCount(t *testing.T) {
	for _, options := range [][]string{{"a"}, {"a", "b"}, {"light", "dark", "system"}, {"1", "2", "3", "4", "5"}} {
		def := Definition{Key: "k", Options: options, Default: options[0], Read: FromLocalStorage("k")}
		css := CSS(def, def.ID())
		if got := strings.Count(css, "{"); got != len(options)+2 {
			t.Fatalf("%v: %d rules, want %d", options, got, len(options)+2)
		}
	}
}

func TestEscapeCSS(t *testing.T) {
	cases := map[string]string{
		"plain-label_1": "plain-label_1",
		"1.5x":          `1\.5x`,
		`q"t`:           `q\"t`,
		"a:b":           `a\:b`,
		`back\slash`:    `back\\slash`,
		"</style>":      `\<\/style\>`,
		"":              "",
	}
	for in, want := range cases {
		if got := EscapeCSS(in); got != want {
			t.Fatalf("EscapeCSS(%q) = %q, want %q", in, got, want)
		}
	}
}
