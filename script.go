package variants

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Script returns the bootstrap program for def. The text is self-contained and
// synchronous: it reads the raw value from the declared source, replaces it with
// the default when it is empty or not an option, and writes the result to the
// data-{key} attribute of the root element. Literals are JSON encoded with HTML
// escaping so the program can be inlined in a <script> element as-is.
func Script(def Definition) string {
	var b strings.Builder
	b.WriteString("(function(){var v;")
	b.WriteString(readCode(def.Read))
	b.WriteString(";if(!v||")
	b.WriteString(jsLiteral(def.Options))
	b.WriteString(".indexOf(v)===-1)v=")
	b.WriteString(jsLiteral(def.Default))
	b.WriteString(";document.documentElement.setAttribute(")
	b.WriteString(jsLiteral(def.Attribute()))
	b.WriteString(",v)})()")
	return b.String()
}

func readCode(src ReadSource) string {
	switch src.Kind {
	case SourceLocalStorage:
		return "try{v=localStorage.getItem(" + jsLiteral(src.Key) + ")}catch(e){}"
	case SourceCookie:
		return "var m=document.cookie.match(new RegExp(" + jsLiteral(cookiePattern(src.Name)) + "));if(m)try{v=decodeURIComponent(m[1])}catch(e){}"
	case SourceSearchParam:
		return "v=new URLSearchParams(location.search).get(" + jsLiteral(src.Name) + ")"
	case SourceMediaQuery:
		return "v=window.matchMedia(" + jsLiteral(src.Query) + ").matches?" + jsLiteral(src.TrueValue) + ":" + jsLiteral(src.FalseValue)
	default:
		return ""
	}
}

// cookiePattern matches name in a "; "-joined cookie string. The server reads
// the Cookie header with the same pattern.
func cookiePattern(name string) string {
	return "(?:^|; )" + regexp.QuoteMeta(name) + "=([^;]*)"
}

func jsLiteral(value any) string {
	if options, ok := value.([]string); ok && options == nil {
		value = []string{}
	}
	out, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(out)
}
