package variants

import (
	"regexp"
	"strings"
)

const (
	// AttrVariant tags a block with the option label it renders.
	AttrVariant = "data-variant"
	// AttrVariantKey tags a block with the identifier of its definition.
	AttrVariantKey = "data-variant-key"
	// AttrVariantStyles tags the generated <style> element.
	AttrVariantStyles = "data-variant-styles"
)

var cssSpecialChars = regexp.MustCompile("[!\"#$%&'()*+,./:;<=>?@\\[\\\\\\]^`{|}~]")

// EscapeCSS prefixes every CSS special character in s with a backslash so it
// can be used inside an attribute selector value.
func EscapeCSS(s string) string {
	return cssSpecialChars.ReplaceAllString(s, `\$0`)
}

// CSS returns the stylesheet selecting the block of def that matches the root
// element attribute. It holds exactly len(def.Options)+2 rules: one hiding
// every block scoped to id, one per option showing its block when the root
// attribute equals that option, and one showing the default block when the
// root attribute is missing.
func CSS(def Definition, id string) string {
	attr := def.Attribute()
	scope := `[` + AttrVariantKey + `="` + id + `"]`

	var b strings.Builder
	b.WriteString(`[` + AttrVariant + `]` + scope + `{display:none;}`)
	for _, option := range def.Options {
		escaped := EscapeCSS(option)
		b.WriteString(`html[` + attr + `="` + escaped + `"] [` + AttrVariant + `="` + escaped + `"]` + scope + `{display:block;}`)
	}
	escapedDefault := EscapeCSS(def.Default)
	b.WriteString(`html:not([` + attr + `]) [` + AttrVariant + `="` + escapedDefault + `"]` + scope + `{display:block;}`)
	return b.String()
}
