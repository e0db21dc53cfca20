package mediaquery

import (
	"errors"
	"fmt"
	"sync"
)

// Evaluator decides whether a parsed query matches a feature set.
type Evaluator interface {
	Match(q Query, f Features) (bool, error)
}

// ProgramCache stores compiled programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type memoryCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryCache returns an unbounded ProgramCache safe for concurrent use.
func NewMemoryCache() ProgramCache {
	return &memoryCache{programs: map[string]any{}}
}

func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

func (c *memoryCache) Set(key string, value any) {
	c.mu.Lock()
	c.programs[key] = value
	c.mu.Unlock()
}

// EvaluationError captures the engine and query alongside the originating error.
type EvaluationError struct {
	Engine string
	Query  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("mediaquery: %s evaluator query=%q: %v", e.Engine, e.Query, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapEvaluationError(engine string, q Query, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	return &EvaluationError{Engine: engine, Query: q.String(), Err: err}
}

var defaultEvaluator = NewExprEvaluator(WithProgramCache(NewMemoryCache()))

// Match parses query and evaluates it against f with the default expr engine.
func Match(query string, f Features) (bool, error) {
	q, err := Parse(query)
	if err != nil {
		return false, err
	}
	return defaultEvaluator.Match(q, f)
}

// EvaluatorOption configures the expr and CEL evaluators.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache ProgramCache
}

// WithProgramCache wires a ProgramCache into an evaluator.
func WithProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) evaluatorConfig {
	var cfg evaluatorConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func asBool(engine string, q Query, value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, wrapEvaluationError(engine, q, fmt.Errorf("expected bool result, got %T", value))
	}
	return b, nil
}
