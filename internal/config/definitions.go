package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	variants "github.com/goliatone/go-variants"
)

// DefinitionsFile reads a definitions document in any format viper supports
// (JSON, YAML, TOML) and decodes it with variants.DecodeDefinitions.
type DefinitionsFile struct {
	path      string
	viper     *viper.Viper
	mu        sync.Mutex
	callbacks []func([]variants.Definition, error)
	watching  bool
}

// OpenDefinitions prepares path for loading. Nothing is read until Load.
func OpenDefinitions(path string) *DefinitionsFile {
	v := viper.New()
	v.SetConfigFile(path)
	return &DefinitionsFile{path: path, viper: v}
}

// Path returns the file location.
func (f *DefinitionsFile) Path() string {
	return f.path
}

// Load reads and validates the definitions.
func (f *DefinitionsFile) Load() ([]variants.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked()
}

func (f *DefinitionsFile) loadLocked() ([]variants.Definition, error) {
	if err := f.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read definitions %s: %w", f.path, err)
	}
	return f.decodeLocked()
}

func (f *DefinitionsFile) decodeLocked() ([]variants.Definition, error) {
	data, err := json.Marshal(f.viper.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to encode definitions %s: %w", f.path, err)
	}
	return variants.DecodeDefinitions(data, variants.WithSource(f.path))
}

// OnChange registers fn to receive the definitions after every file change.
// Invalid edits are reported through err and leave the caller's state alone.
func (f *DefinitionsFile) OnChange(fn func([]variants.Definition, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, fn)
}

// Watch starts watching the file for changes.
func (f *DefinitionsFile) Watch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watching {
		return
	}
	f.viper.OnConfigChange(func(_ fsnotify.Event) {
		f.mu.Lock()
		// viper re-read the file before calling us.
		defs, err := f.decodeLocked()
		callbacks := make([]func([]variants.Definition, error), len(f.callbacks))
		copy(callbacks, f.callbacks)
		f.mu.Unlock()

		for _, callback := range callbacks {
			callback(defs, err)
		}
	})
	f.viper.WatchConfig()
	f.watching = true
}
