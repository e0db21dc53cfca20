package variants

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-variants/internal/hydrate"
)

// DefinitionDocument is the on-disk format listing the definitions of a site.
type DefinitionDocument struct {
	Variants []Definition `json:"variants" jsonschema:"required"`
}

// DecodeOption configures DecodeDefinitions.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	source       string
	allowUnknown bool
	permissive   bool
}

// WithSource names the document in error messages.
func WithSource(name string) DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.source = name
	}
}

// WithUnknownFields accepts fields the format does not define.
func WithUnknownFields() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.allowUnknown = true
	}
}

// WithPermissiveDefinitions skips validation and builds entries with New.
func WithPermissiveDefinitions() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.permissive = true
	}
}

// DecodeDefinitions parses a DefinitionDocument and validates every entry. The
// legacy top-level "definitions" field is accepted as an alias of "variants".
func DecodeDefinitions(data []byte, opts ...DecodeOption) ([]Definition, error) {
	cfg := decodeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	decoderOpts := []hydrate.DecoderOption[DefinitionDocument]{
		hydrate.WithPreHook[DefinitionDocument](aliasDefinitions),
		hydrate.WithPostHook(func(_ hydrate.Context, doc *DefinitionDocument) error {
			for i, def := range doc.Variants {
				if cfg.permissive {
					doc.Variants[i] = New(def)
					continue
				}
				loaded, err := Load(def)
				if err != nil {
					return fmt.Errorf("variants[%d]: %w", i, err)
				}
				doc.Variants[i] = loaded
			}
			return nil
		}),
	}
	if !cfg.allowUnknown {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[DefinitionDocument]())
	}

	doc, err := hydrate.NewDecoder(decoderOpts...).DecodeBytes(hydrate.Context{Source: cfg.source}, data)
	if err != nil {
		return nil, err
	}
	return doc.Variants, nil
}

func aliasDefinitions(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	legacy, ok := payload["definitions"]
	if !ok {
		return payload, nil
	}
	if _, exists := payload["variants"]; exists {
		return nil, fmt.Errorf("both \"variants\" and \"definitions\" are set")
	}
	payload["variants"] = legacy
	delete(payload, "definitions")
	return payload, nil
}

// Schema returns the JSON Schema of DefinitionDocument.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(&DefinitionDocument{})
	schema.Title = "go-variants definitions"
	schema.Description = "Variant definitions rendered with flash-free pre-paint selection."
	return json.MarshalIndent(schema, "", "  ")
}
