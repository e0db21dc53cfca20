// Package inspect computes which variant blocks a browser would display for a
// given set of root attributes. It parses rendered markup, collects the
// generated stylesheets and cascades their display declarations with real
// selector matching.
package inspect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	variants "github.com/goliatone/go-variants"
)

// Block is one rendered variant block and its computed display value.
type Block struct {
	ID      string
	Option  string
	Display string
}

// Visible reports whether the block takes part in layout.
func (b Block) Visible() bool {
	return b.Display != "none"
}

// Report lists every variant block in document order.
type Report struct {
	Blocks []Block
}

// Visible returns the options of id whose blocks are displayed.
func (r Report) Visible(id string) []string {
	var out []string
	for _, block := range r.Blocks {
		if block.ID == id && block.Visible() {
			out = append(out, block.Option)
		}
	}
	return out
}

// IDs returns the distinct variant identifiers found, in document order.
func (r Report) IDs() []string {
	var out []string
	for _, block := range r.Blocks {
		if !slices.Contains(out, block.ID) {
			out = append(out, block.ID)
		}
	}
	return out
}

type rule struct {
	selectors cascadia.SelectorGroup
	display   string
}

// Inspect parses markup and computes the display of every variant block. When
// rootAttrs is non-nil it replaces the attributes of the <html> element, which
// is how a bootstrap script result is applied. Names are lowercased as
// setAttribute does in an HTML document.
func Inspect(markup string, rootAttrs map[string]string) (Report, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Report{}, fmt.Errorf("inspect: parse markup: %w", err)
	}
	if rootAttrs != nil {
		root := findElement(doc, "html")
		if root == nil {
			return Report{}, fmt.Errorf("inspect: markup has no html element")
		}
		root.Attr = root.Attr[:0]
		names := make([]string, 0, len(rootAttrs))
		for name := range rootAttrs {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			root.Attr = append(root.Attr, html.Attribute{Key: strings.ToLower(name), Val: rootAttrs[name]})
		}
	}

	var rules []rule
	for _, style := range collect(doc, func(n *html.Node) bool { return n.Data == "style" }) {
		parsed, err := parseStylesheet(textContent(style))
		if err != nil {
			return Report{}, err
		}
		rules = append(rules, parsed...)
	}

	var report Report
	for _, node := range collect(doc, func(n *html.Node) bool { return hasAttr(n, variants.AttrVariant) }) {
		report.Blocks = append(report.Blocks, Block{
			ID:      attr(node, variants.AttrVariantKey),
			Option:  attr(node, variants.AttrVariant),
			Display: computeDisplay(node, rules),
		})
	}
	return report, nil
}

func computeDisplay(node *html.Node, rules []rule) string {
	display := ""
	var best cascadia.Specificity
	found := false
	for _, r := range rules {
		for _, sel := range r.selectors {
			if !sel.Match(node) {
				continue
			}
			spec := sel.Specificity()
			// Rules arrive in source order, so ties go to the later one.
			if !found || !spec.Less(best) {
				best, display, found = spec, r.display, true
			}
		}
	}
	return display
}

// parseStylesheet splits css into rules and keeps those declaring display.
func parseStylesheet(css string) ([]rule, error) {
	var rules []rule
	for _, raw := range splitRules(css) {
		display, ok := declaration(raw.body, "display")
		if !ok {
			continue
		}
		group, err := cascadia.ParseGroup(strings.TrimSpace(raw.selector))
		if err != nil {
			return nil, fmt.Errorf("inspect: selector %q: %w", raw.selector, err)
		}
		rules = append(rules, rule{selectors: group, display: display})
	}
	return rules, nil
}

type rawRule struct {
	selector string
	body     string
}

// splitRules breaks a flat stylesheet into selector/body pairs. Braces that
// are escaped or quoted do not delimit rules.
func splitRules(css string) []rawRule {
	var (
		out    []rawRule
		buf    strings.Builder
		quote  byte
		inBody bool
		sel    string
	)
	for i := 0; i < len(css); i++ {
		c := css[i]
		switch {
		case c == '\\' && i+1 < len(css):
			buf.WriteByte(c)
			buf.WriteByte(css[i+1])
			i++
		case quote != 0:
			buf.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			buf.WriteByte(c)
		case c == '{' && !inBody:
			sel = buf.String()
			buf.Reset()
			inBody = true
		case c == '}' && inBody:
			out = append(out, rawRule{selector: sel, body: buf.String()})
			buf.Reset()
			inBody = false
		default:
			buf.WriteByte(c)
		}
	}
	return out
}

func declaration(body, property string) (string, bool) {
	value, found := "", false
	for _, decl := range strings.Split(body, ";") {
		name, v, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), property) {
			continue
		}
		value, found = strings.TrimSpace(v), true
	}
	return value, found
}

func collect(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findElement(n *html.Node, tag string) *html.Node {
	nodes := collect(n, func(n *html.Node) bool { return n.Data == tag })
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
