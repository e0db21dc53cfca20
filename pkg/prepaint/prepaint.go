// Package prepaint runs generated bootstrap scripts inside goja against a
// simulated browser, so the behaviour of a variant before first paint can be
// checked without a real page.
package prepaint

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sync"

	"github.com/dop251/goja"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/pkg/mediaquery"
)

var (
	// ErrStorageDisabled is thrown by localStorage.getItem when Env.StorageDisabled is set.
	ErrStorageDisabled = errors.New("prepaint: localStorage is not available")
	// ErrNoAttribute is returned by Resolve when the script did not set the variant attribute.
	ErrNoAttribute = errors.New("prepaint: script did not set the root attribute")
)

// Env describes the simulated browser a script runs in.
type Env struct {
	LocalStorage    map[string]string
	StorageDisabled bool
	// Cookie is the raw document.cookie string, "a=1; b=2".
	Cookie string
	// URL is the page address; only its query string is observable.
	URL            string
	Media          mediaquery.Features
	MediaEvaluator mediaquery.Evaluator
	// RootAttributes seeds attributes already present on <html>.
	RootAttributes map[string]string
}

// Result holds the root element state after a script ran.
type Result struct {
	Attributes map[string]string
}

// Attribute returns a root attribute set by the script or seeded by Env.
func (r Result) Attribute(name string) (string, bool) {
	value, ok := r.Attributes[name]
	return value, ok
}

// Document converts the result into a renderer host whose root attributes
// match what the script left behind.
func (r Result) Document() *variants.Document {
	return variants.NewDocument(r.Attributes)
}

var programs sync.Map

func compile(script string) (*goja.Program, error) {
	if cached, ok := programs.Load(script); ok {
		return cached.(*goja.Program), nil
	}
	program, err := goja.Compile("bootstrap.js", script, true)
	if err != nil {
		return nil, err
	}
	programs.Store(script, program)
	return program, nil
}

// Run executes script in a fresh runtime built from env.
func Run(script string, env Env) (Result, error) {
	program, err := compile(script)
	if err != nil {
		return Result{}, fmt.Errorf("prepaint: compile script: %w", err)
	}
	vm := goja.New()
	root := newElement(env.RootAttributes)
	if err := install(vm, env, root); err != nil {
		return Result{}, fmt.Errorf("prepaint: install globals: %w", err)
	}
	if _, err := vm.RunProgram(program); err != nil {
		return Result{}, fmt.Errorf("prepaint: run script: %w", err)
	}
	return Result{Attributes: root.attrs}, nil
}

// Resolve runs the bootstrap script of def and returns the value it wrote.
func Resolve(def variants.Definition, env Env) (string, error) {
	result, err := Run(variants.Script(def), env)
	if err != nil {
		return "", err
	}
	value, ok := result.Attribute(def.Attribute())
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoAttribute, def.Attribute())
	}
	return value, nil
}

type element struct {
	attrs map[string]string
}

func newElement(seed map[string]string) *element {
	attrs := make(map[string]string, len(seed))
	for name, value := range seed {
		attrs[name] = value
	}
	return &element{attrs: attrs}
}

func install(vm *goja.Runtime, env Env, root *element) error {
	documentElement := vm.NewObject()
	_ = documentElement.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		root.attrs[call.Argument(0).String()] = call.Argument(1).String()
		return goja.Undefined()
	})
	_ = documentElement.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if value, ok := root.attrs[call.Argument(0).String()]; ok {
			return vm.ToValue(value)
		}
		return goja.Null()
	})
	_ = documentElement.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		delete(root.attrs, call.Argument(0).String())
		return goja.Undefined()
	})
	_ = documentElement.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		_, ok := root.attrs[call.Argument(0).String()]
		return vm.ToValue(ok)
	})

	document := vm.NewObject()
	_ = document.Set("documentElement", documentElement)
	_ = document.Set("cookie", env.Cookie)

	storage := vm.NewObject()
	_ = storage.Set("getItem", func(key string) (goja.Value, error) {
		if env.StorageDisabled {
			return nil, ErrStorageDisabled
		}
		if value, ok := env.LocalStorage[key]; ok {
			return vm.ToValue(value), nil
		}
		return goja.Null(), nil
	})

	search, err := searchString(env.URL)
	if err != nil {
		return err
	}
	location := vm.NewObject()
	_ = location.Set("href", env.URL)
	_ = location.Set("search", search)

	globals := map[string]any{
		"window":          vm.GlobalObject(),
		"document":        document,
		"localStorage":    storage,
		"location":        location,
		"URLSearchParams": newURLSearchParams(vm),
		"matchMedia":      matchMedia(vm, env),
	}
	for name, value := range globals {
		if err := vm.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func searchString(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.RawQuery == "" {
		return "", nil
	}
	return "?" + u.RawQuery, nil
}

func newURLSearchParams(vm *goja.Runtime) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		init := call.Argument(0)
		raw := ""
		if !goja.IsUndefined(init) && !goja.IsNull(init) {
			raw = init.String()
		}
		if len(raw) > 0 && raw[0] == '?' {
			raw = raw[1:]
		}
		// Browsers keep whatever pairs parse; so does ParseQuery.
		values, _ := url.ParseQuery(raw)
		_ = call.This.Set("get", func(name string) goja.Value {
			if list, ok := values[name]; ok && len(list) > 0 {
				return vm.ToValue(list[0])
			}
			return goja.Null()
		})
		_ = call.This.Set("has", func(name string) bool {
			_, ok := values[name]
			return ok
		})
		_ = call.This.Set("getAll", func(name string) []string {
			return slices.Clone(values[name])
		})
		return call.This
	}
}

func matchMedia(vm *goja.Runtime, env Env) func(string) *goja.Object {
	evaluator := env.MediaEvaluator
	if evaluator == nil {
		evaluator = mediaquery.NewExprEvaluator()
	}
	return func(query string) *goja.Object {
		matches := false
		// Invalid queries behave like "not all".
		if q, err := mediaquery.Parse(query); err == nil {
			if ok, err := evaluator.Match(q, env.Media); err == nil {
				matches = ok
			}
		}
		list := vm.NewObject()
		_ = list.Set("matches", matches)
		_ = list.Set("media", query)
		return list
	}
}
