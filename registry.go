package variants

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/a-h/templ"
)

// Registry holds the definitions used on a page. Keys and identifiers must be
// unique so the root attributes and scoped selectors of two definitions never
// overlap.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	ids   map[string]string
	order []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
		ids:  make(map[string]string),
	}
}

// Register validates def and stores it under its key.
func (r *Registry) Register(def Definition) error {
	loaded, err := Load(def)
	if err != nil {
		return err
	}
	id := loaded.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs == nil {
		r.defs = make(map[string]Definition)
		r.ids = make(map[string]string)
	}
	if _, exists := r.defs[loaded.Key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, loaded.Key)
	}
	if owner, exists := r.ids[id]; exists {
		return fmt.Errorf("%w: %q and %q both map to %s", ErrIDCollision, owner, loaded.Key, id)
	}
	r.defs[loaded.Key] = loaded
	r.ids[id] = loaded.Key
	r.order = append(r.order, loaded.Key)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(defs ...Definition) *Registry {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the definition registered under key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[key]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Keys returns registered keys sorted alphabetically.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.defs))
	for key := range r.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.defs[key].clone())
	}
	return out
}

// Head renders the bootstrap script and stylesheet of every registered
// definition. Place it in the document head and render the components with
// WithInlineAssets(false).
func (r *Registry) Head() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, def := range r.Definitions() {
			if err := Assets(def).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Variants builds the component for the definition registered under key.
func (r *Registry) Variants(key string, children map[string]templ.Component, opts ...Option) (*Variants, error) {
	def, ok := r.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("variants: key %q is not registered", key)
	}
	return NewVariants(def, children, opts...), nil
}

// RootAttributes returns the data-{key} attributes the server can already put
// on the root element for req, one per definition whose source is observable
// from the request.
func (r *Registry) RootAttributes(req *http.Request, opts ...RequestOption) map[string]string {
	attrs := map[string]string{}
	for _, def := range r.Definitions() {
		if value, ok := ResolveRequest(def, req, opts...); ok {
			attrs[def.Attribute()] = value
		}
	}
	return attrs
}

// ClientHints lists the client hint headers the registered media sources need.
func (r *Registry) ClientHints() []string {
	return ClientHints(r.Definitions()...)
}
