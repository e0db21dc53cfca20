package variants

import (
	"slices"
	"sync"
)

// Host is the document environment a Variants component is mounted into.
type Host interface {
	// RootAttribute reads an attribute of the root element.
	RootAttribute(name string) (string, bool)
	// Loaded reports whether the page finished loading.
	Loaded() bool
	// OnLoad registers fn for the load signal and returns a function removing
	// the registration. fn runs at most once.
	OnLoad(fn func()) (cancel func())
}

// Document is an in-memory Host: a set of root element attributes plus a
// one-shot load signal. It is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	attrs     map[string]string
	loaded    bool
	nextID    int
	listeners map[int]func()
}

// NewDocument returns a document whose root element carries attrs.
func NewDocument(attrs map[string]string) *Document {
	doc := &Document{
		attrs:     make(map[string]string, len(attrs)),
		listeners: make(map[int]func()),
	}
	for name, value := range attrs {
		doc.attrs[name] = value
	}
	return doc
}

// RootAttribute implements Host.
func (d *Document) RootAttribute(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	value, ok := d.attrs[name]
	return value, ok
}

// SetRootAttribute sets an attribute on the root element.
func (d *Document) SetRootAttribute(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attrs == nil {
		d.attrs = make(map[string]string)
	}
	d.attrs[name] = value
}

// RootAttributes returns a copy of the root element attributes.
func (d *Document) RootAttributes() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.attrs))
	for name, value := range d.attrs {
		out[name] = value
	}
	return out
}

// Loaded implements Host.
func (d *Document) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// OnLoad implements Host. Listeners registered after the load signal fired run
// immediately.
func (d *Document) OnLoad(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	d.mu.Lock()
	if d.loaded {
		d.mu.Unlock()
		fn()
		return func() {}
	}
	if d.listeners == nil {
		d.listeners = make(map[int]func())
	}
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// FireLoad marks the document loaded and runs pending listeners in
// registration order. Subsequent calls do nothing.
func (d *Document) FireLoad() {
	d.mu.Lock()
	if d.loaded {
		d.mu.Unlock()
		return
	}
	d.loaded = true
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	pending := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		pending = append(pending, d.listeners[id])
	}
	d.listeners = nil
	d.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
