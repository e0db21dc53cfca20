// Package variants renders server-side markup that shows exactly one of
// several alternative blocks before first paint, based on a value the browser
// only knows on the client (localStorage, a cookie, a URL search parameter or
// a media query).
//
// A Definition names the option set, its default and where the value is read
// from. Each definition gets a deterministic identifier that scopes a small
// bootstrap script, writing the value onto the <html> element, and CSS
// rules that hide every non-selected block:
//
//	theme := variants.MustLoad(variants.Definition{
//		Key:     "theme",
//		Options: []string{"light", "dark", "system"},
//		Default: "system",
//		Read:    variants.FromLocalStorage("theme"),
//	})
//
//	v := variants.NewVariants(theme, map[string]templ.Component{
//		"light":  lightBanner(),
//		"dark":   darkBanner(),
//		"system": systemBanner(),
//	})
//
// On the server the rendered output always contains every block. Mounting
// the renderer against a Document resolves the selected value, and the
// document load signal prunes the hidden blocks. ResolveRequest and
// Registry.RootAttributes answer the same question from an *http.Request
// when the value is available server side.
package variants
