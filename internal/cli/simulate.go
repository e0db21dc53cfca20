package cli

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/internal/logging"
	"github.com/goliatone/go-variants/pkg/inspect"
	"github.com/goliatone/go-variants/pkg/mediaquery"
	"github.com/goliatone/go-variants/pkg/prepaint"
)

// Engines maps engine names accepted by --engine to evaluator constructors.
var Engines = map[string]func(...mediaquery.EvaluatorOption) mediaquery.Evaluator{
	"expr": mediaquery.NewExprEvaluator,
	"cel":  mediaquery.NewCELEvaluator,
}

// SimulationInput describes a simulated browser from flag values.
type SimulationInput struct {
	Storage         map[string]string
	StorageDisabled bool
	Cookie          string
	URL             string
	Media           map[string]string
	Engine          string
}

// Env converts the input into a prepaint environment. Media values that parse
// as numbers are stored as numbers.
func (in SimulationInput) Env() (prepaint.Env, error) {
	engine := in.Engine
	if engine == "" {
		engine = "expr"
	}
	newEvaluator, ok := Engines[engine]
	if !ok {
		return prepaint.Env{}, fmt.Errorf("unknown media engine %q (expr or cel)", in.Engine)
	}
	media := mediaquery.Features{}
	for name, raw := range in.Media {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			media[name] = n
			continue
		}
		media[name] = raw
	}
	return prepaint.Env{
		LocalStorage:    in.Storage,
		StorageDisabled: in.StorageDisabled,
		Cookie:          in.Cookie,
		URL:             in.URL,
		Media:           media,
		MediaEvaluator:  newEvaluator(mediaquery.WithProgramCache(mediaquery.NewMemoryCache())),
	}, nil
}

// Simulate runs the bootstrap script of every definition in order against the
// same document and returns the resulting root attributes.
func Simulate(defs []variants.Definition, in SimulationInput) (map[string]string, error) {
	env, err := in.Env()
	if err != nil {
		return nil, err
	}
	attrs := map[string]string{}
	for _, def := range defs {
		env.RootAttributes = attrs
		result, err := prepaint.Run(variants.Script(def), env)
		if err != nil {
			return nil, fmt.Errorf("simulate %q: %w", def.Key, err)
		}
		attrs = result.Attributes
	}
	return attrs, nil
}

// InspectPage renders the preview page as it stands after the load signal,
// every block mounted against rootAttrs and pruned, and reports which blocks
// the stylesheets show under rootAttrs.
func InspectPage(ctx context.Context, reg *variants.Registry, rootAttrs map[string]string) (inspect.Report, error) {
	ctx = logging.WithComponent(ctx, "inspect")
	doc := variants.NewDocument(rootAttrs)
	doc.FireLoad()

	var buf bytes.Buffer
	if err := Page(reg, nil, doc).Render(ctx, &buf); err != nil {
		return inspect.Report{}, err
	}
	return inspect.Inspect(buf.String(), rootAttrs)
}
