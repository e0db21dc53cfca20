package variants

import (
	"slices"

	"github.com/goliatone/go-variants/pkg/activity"
)

// Definition declares one variant: the root attribute key, the closed set of
// option labels, the label used when nothing valid is read, and where the
// runtime value comes from.
type Definition struct {
	Key     string     `json:"key" jsonschema:"required,pattern=^[A-Za-z0-9_-]+$"`
	Options []string   `json:"options" jsonschema:"required,minItems=1,uniqueItems=true"`
	Default string     `json:"default" jsonschema:"required"`
	Read    ReadSource `json:"read" jsonschema:"required"`
}

// Attribute returns the root element attribute the bootstrap script writes.
func (d Definition) Attribute() string {
	return "data-" + d.Key
}

// ID returns the identifier scoping this definition's generated selectors.
func (d Definition) ID() string {
	return ID(d.Key, d.Options)
}

// Has reports whether label is one of the declared options.
func (d Definition) Has(label string) bool {
	return slices.Contains(d.Options, label)
}

func (d Definition) clone() Definition {
	d.Options = slices.Clone(d.Options)
	return d
}

// Option configures a Variants component.
type Option func(*config)

type config struct {
	logger       Logger
	hooks        activity.Hooks
	channel      string
	actorID      string
	inlineAssets bool
}

func applyOptions(opts []Option) config {
	cfg := config{inlineAssets: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c config) loggerOrNoop() Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger{}
}

// WithLogger attaches a logger receiving state transitions.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithInlineAssets toggles emission of the bootstrap script and stylesheet
// next to the variant blocks. Disable it when Registry.Head already placed
// them in the document head.
func WithInlineAssets(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineAssets = enabled
	}
}

// WithActorID tags emitted activity events with the viewer the page was
// rendered for.
func WithActorID(id string) Option {
	return func(cfg *config) {
		cfg.actorID = id
	}
}
