// Package mediaquery evaluates CSS media queries outside a browser.
//
// A query is parsed once into a boolean expression over a feature map named
// f, for example
//
//	screen and (min-width: 600px), (prefers-color-scheme: dark)
//
// becomes
//
//	(f["type"] == "screen" && f["width"] >= 600.0) || (f["prefers-color-scheme"] == "dark")
//
// and is then run by one of two engines: expr-lang/expr (the default) or
// google/cel-go. Both accept a ProgramCache so repeated evaluations of the same
// query skip compilation.
//
// Supported syntax covers media query lists, the not/only prefixes, media
// types, boolean features, plain and min-/max- prefixed features and level 4
// range comparisons. Unknown features evaluate to false, which is what
// browsers do for features they do not recognise.
package mediaquery
