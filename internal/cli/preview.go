package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/internal/logging"
)

// Sample returns placeholder content for one option block.
func Sample(def variants.Definition, option string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p class="sample">`+templ.EscapeString(def.Key)+`: <strong>`+templ.EscapeString(option)+`</strong></p>`)
		return err
	})
}

// Page renders a full document previewing every definition in reg. rootAttrs
// are written on the <html> element, which is where server-side resolution
// puts the values it can already observe. A non-nil host mounts every block
// before it is rendered. Transitions go to the logger carried by ctx.
func Page(reg *variants.Registry, rootAttrs map[string]string, host variants.Host) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		transitions := variants.WithLogger(logging.Transitions(*logging.FromContext(ctx)))
		var b strings.Builder
		b.WriteString(`<!doctype html><html`)
		names := make([]string, 0, len(rootAttrs))
		for name := range rootAttrs {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			b.WriteString(` ` + templ.EscapeString(name) + `="` + templ.EscapeString(rootAttrs[name]) + `"`)
		}
		b.WriteString(`><head><meta charset="utf-8"><title>variants preview</title>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := reg.Head().Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</head><body>`); err != nil {
			return err
		}
		for _, def := range reg.Definitions() {
			children := make(map[string]templ.Component, len(def.Options))
			for _, option := range def.Options {
				children[option] = Sample(def, option)
			}
			open := `<section><h2>` + templ.EscapeString(def.Key) + `</h2><p><code>` + templ.EscapeString(def.Read.String()) + `</code></p>`
			if _, err := io.WriteString(w, open); err != nil {
				return err
			}
			component := variants.NewVariants(def, children, variants.WithInlineAssets(false), transitions)
			if host != nil {
				component.Mount(ctx, host)
			}
			if err := component.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</section>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Handler serves the preview page, the definitions and their schema.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.servePage)
	mux.HandleFunc("GET /schema.json", a.serveSchema)
	mux.HandleFunc("GET /definitions.json", a.serveDefinitions)
	return a.logRequests(mux)
}

func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	reg, err := a.Registry()
	if err != nil {
		logger.Error().Err(err).Msg("definitions unavailable")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if hints := reg.ClientHints(); len(hints) > 0 {
		w.Header().Set("Accept-CH", strings.Join(hints, ", "))
		w.Header().Set("Vary", strings.Join(append([]string{"Cookie"}, hints...), ", "))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(reg, reg.RootAttributes(r), nil).Render(r.Context(), w); err != nil {
		logger.Error().Err(err).Msg("render preview")
	}
}

func (a *App) serveSchema(w http.ResponseWriter, _ *http.Request) {
	data, err := variants.Schema()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

func (a *App) serveDefinitions(w http.ResponseWriter, _ *http.Request) {
	reg, err := a.Registry()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = writeJSON(w, variants.DefinitionDocument{Variants: reg.Definitions()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithComponent(logging.WithContext(r.Context(), a.Logger), "preview")
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		logging.FromContext(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
