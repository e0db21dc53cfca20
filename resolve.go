package variants

import (
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-variants/pkg/mediaquery"
)

// Resolve applies the bootstrap script's validation step to a raw value: an
// absent, empty or undeclared value resolves to the default.
func Resolve(def Definition, raw string, ok bool) string {
	if !ok || raw == "" || !def.Has(raw) {
		return def.Default
	}
	return raw
}

// Client hint request headers understood by ResolveRequest.
const (
	HintPrefersColorScheme         = "Sec-CH-Prefers-Color-Scheme"
	HintPrefersReducedMotion       = "Sec-CH-Prefers-Reduced-Motion"
	HintPrefersReducedTransparency = "Sec-CH-Prefers-Reduced-Transparency"
	HintViewportWidth              = "Sec-CH-Viewport-Width"
	HintViewportHeight             = "Sec-CH-Viewport-Height"
)

var hintFeatures = map[string]string{
	"prefers-color-scheme":         HintPrefersColorScheme,
	"prefers-reduced-motion":       HintPrefersReducedMotion,
	"prefers-reduced-transparency": HintPrefersReducedTransparency,
	"width":                        HintViewportWidth,
	"height":                       HintViewportHeight,
}

// RequestOption configures ResolveRequest.
type RequestOption func(*requestConfig)

type requestConfig struct {
	evaluator mediaquery.Evaluator
	base      mediaquery.Features
}

// WithMediaEvaluator selects the engine evaluating media sources.
func WithMediaEvaluator(e mediaquery.Evaluator) RequestOption {
	return func(cfg *requestConfig) {
		if e != nil {
			cfg.evaluator = e
		}
	}
}

// WithBaseFeatures sets the media features assumed for anything the request
// does not hint.
func WithBaseFeatures(features mediaquery.Features) RequestOption {
	return func(cfg *requestConfig) {
		cfg.base = features.Clone()
	}
}

// ResolveRequest predicts on the server the value the bootstrap script will
// resolve for r. ok is false when the source cannot be observed from the
// request: localStorage never can, media queries only when every feature they
// test is covered by a client hint header. When ok is false value is the
// default.
func ResolveRequest(def Definition, r *http.Request, opts ...RequestOption) (value string, ok bool) {
	if r == nil {
		return def.Default, false
	}
	cfg := requestConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch def.Read.Kind {
	case SourceCookie:
		raw, found := cookieValue(r.Header.Values("Cookie"), def.Read.Name)
		if !found {
			return def.Default, true
		}
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return def.Default, true
		}
		return Resolve(def, decoded, true), true
	case SourceSearchParam:
		if r.URL == nil {
			return def.Default, true
		}
		values := r.URL.Query()
		if !values.Has(def.Read.Name) {
			return def.Default, true
		}
		return Resolve(def, values.Get(def.Read.Name), true), true
	case SourceMediaQuery:
		return resolveMediaRequest(def, r, cfg)
	case SourceLocalStorage:
		return def.Default, false
	default:
		return def.Default, true
	}
}

// cookieValue reads name from the raw Cookie headers the way document.cookie
// is matched by the bootstrap script, quotes included.
func cookieValue(headers []string, name string) (string, bool) {
	m := regexp.MustCompile(cookiePattern(name)).FindStringSubmatch(strings.Join(headers, "; "))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func resolveMediaRequest(def Definition, r *http.Request, cfg requestConfig) (string, bool) {
	query, err := mediaquery.Parse(def.Read.Query)
	if err != nil {
		return def.Default, false
	}
	features := cfg.base.Clone()
	if features == nil {
		features = mediaquery.Features{}
	}
	for _, name := range query.Features() {
		header, known := hintFeatures[name]
		if !known {
			return def.Default, false
		}
		raw := strings.TrimSpace(r.Header.Get(header))
		if raw == "" {
			return def.Default, false
		}
		raw = strings.Trim(raw, `"`)
		if name == "width" || name == "height" {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return def.Default, false
			}
			features[name] = n
			continue
		}
		features[name] = raw
	}

	evaluator := cfg.evaluator
	if evaluator == nil {
		evaluator = mediaquery.NewExprEvaluator()
	}
	matched, err := evaluator.Match(query, features)
	if err != nil {
		return def.Default, false
	}
	if matched {
		return Resolve(def, def.Read.TrueValue, true), true
	}
	return Resolve(def, def.Read.FalseValue, true), true
}

// ClientHints lists the client hint headers that let ResolveRequest observe
// the media sources of defs. Send them in an Accept-CH response header.
func ClientHints(defs ...Definition) []string {
	var hints []string
	for _, def := range defs {
		if def.Read.Kind != SourceMediaQuery {
			continue
		}
		query, err := mediaquery.Parse(def.Read.Query)
		if err != nil {
			continue
		}
		for _, name := range query.Features() {
			if header, ok := hintFeatures[name]; ok && !slices.Contains(hints, header) {
				hints = append(hints, header)
			}
		}
	}
	slices.Sort(hints)
	return hints
}
