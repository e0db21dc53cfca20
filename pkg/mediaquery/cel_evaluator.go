package mediaquery

import (
	"errors"

	celgo "github.com/google/cel-go/cel"
)

const engineCEL = "cel"

type celEvaluator struct {
	cache ProgramCache
	env   *celgo.Env
	err   error
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. The feature map is
// declared as map(string, dyn) so comparisons are checked at run time.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	cfg := applyEvaluatorOptions(opts)
	env, err := celgo.NewEnv(
		celgo.Variable("f", celgo.MapType(celgo.StringType, celgo.DynType)),
	)
	return &celEvaluator{cache: cfg.cache, env: env, err: err}
}

func (e *celEvaluator) Match(q Query, f Features) (bool, error) {
	if q.expr == "" {
		return false, wrapEvaluationError(engineCEL, q, errors.New("query has no expression"))
	}
	program, err := e.loadOrCompile(q)
	if err != nil {
		return false, err
	}
	out, _, err := program.Eval(map[string]any{"f": f.WithDefaults().asMap()})
	if err != nil {
		return false, wrapEvaluationError(engineCEL, q, err)
	}
	return asBool(engineCEL, q, out.Value())
}

func (e *celEvaluator) loadOrCompile(q Query) (celgo.Program, error) {
	if e.err != nil {
		return nil, wrapEvaluationError(engineCEL, q, e.err)
	}
	key := engineCEL + ":" + q.expr
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	ast, issues := e.env.Compile(q.expr)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(engineCEL, q, issues.Err())
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, q, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}
