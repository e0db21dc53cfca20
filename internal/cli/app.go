// Package cli holds the state shared by the variants commands: configuration,
// the logger and the registry built from the definitions file.
package cli

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/internal/config"
	"github.com/goliatone/go-variants/internal/logging"
)

// App is the initialised CLI context.
type App struct {
	Config      config.Config
	Logger      zerolog.Logger
	Definitions *config.DefinitionsFile

	registry atomic.Pointer[variants.Registry]
}

// Options carries values from persistent flags. Empty fields leave the
// configured value alone.
type Options struct {
	ConfigFile  string
	Definitions string
	LogLevel    string
	LogFormat   string
	LogConfig   logging.Config
}

// NewApp loads configuration and builds the logger. Definitions are read
// lazily by Registry.
func NewApp(opts Options) (*App, error) {
	manager, err := config.NewManager(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	overrides := map[string]string{
		"definitions": opts.Definitions,
		"log.level":   opts.LogLevel,
		"log.format":  opts.LogFormat,
	}
	for key, value := range overrides {
		if value != "" {
			manager.Override(key, value)
		}
	}
	if err := manager.Load(); err != nil {
		return nil, err
	}
	cfg := manager.Config()

	logCfg := opts.LogConfig
	if logCfg.TimeFormat == "" {
		logCfg.TimeFormat = logging.DefaultConfig().TimeFormat
	}
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.Format = cfg.Log.Format

	app := &App{
		Config:      cfg,
		Logger:      logging.New(logCfg),
		Definitions: config.OpenDefinitions(cfg.Definitions),
	}
	if used := manager.ConfigFileUsed(); used != "" {
		app.Logger.Debug().Str("file", used).Msg("configuration loaded")
	}
	return app, nil
}

// Registry returns the current registry, loading the definitions file on
// first use.
func (a *App) Registry() (*variants.Registry, error) {
	if reg := a.registry.Load(); reg != nil {
		return reg, nil
	}
	if err := a.Reload(); err != nil {
		return nil, err
	}
	return a.registry.Load(), nil
}

// Reload reads the definitions file and swaps the registry. On error the
// previous registry stays active.
func (a *App) Reload() error {
	defs, err := a.Definitions.Load()
	if err != nil {
		return err
	}
	return a.swap(defs)
}

func (a *App) swap(defs []variants.Definition) error {
	reg, err := BuildRegistry(defs)
	if err != nil {
		return err
	}
	a.registry.Store(reg)
	a.Logger.Info().
		Str("file", a.Definitions.Path()).
		Strs("keys", reg.Keys()).
		Msg("definitions loaded")
	return nil
}

// WatchDefinitions reloads the registry whenever the definitions file changes.
func (a *App) WatchDefinitions() {
	a.Definitions.OnChange(func(defs []variants.Definition, err error) {
		if err == nil {
			err = a.swap(defs)
		}
		if err != nil {
			a.Logger.Warn().Err(err).Str("file", a.Definitions.Path()).Msg("keeping previous definitions")
		}
	})
	a.Definitions.Watch()
}

// BuildRegistry registers defs in order.
func BuildRegistry(defs []variants.Definition) (*variants.Registry, error) {
	reg := variants.NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("register %q: %w", def.Key, err)
		}
	}
	return reg, nil
}

// SelectDefinitions returns the definitions named by keys, or all of them in
// registration order when keys is empty.
func SelectDefinitions(reg *variants.Registry, keys []string) ([]variants.Definition, error) {
	if len(keys) == 0 {
		return reg.Definitions(), nil
	}
	out := make([]variants.Definition, 0, len(keys))
	for _, key := range keys {
		def, ok := reg.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("unknown variant %q (known: %v)", key, reg.Keys())
		}
		out = append(out, def)
	}
	return out, nil
}
