package mediaquery

import (
	"errors"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

type exprEvaluator struct {
	cache ProgramCache
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	cfg := applyEvaluatorOptions(opts)
	return &exprEvaluator{cache: cfg.cache}
}

func (e *exprEvaluator) Match(q Query, f Features) (bool, error) {
	if q.expr == "" {
		return false, wrapEvaluationError(engineExpr, q, errors.New("query has no expression"))
	}
	program, err := e.loadOrCompile(q)
	if err != nil {
		return false, err
	}
	result, err := exprlang.Run(program, map[string]any{"f": f.WithDefaults().asMap()})
	if err != nil {
		return false, wrapEvaluationError(engineExpr, q, err)
	}
	return asBool(engineExpr, q, result)
}

func (e *exprEvaluator) loadOrCompile(q Query) (*exprvm.Program, error) {
	key := engineExpr + ":" + q.expr
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(q.expr,
		exprlang.Env(map[string]any{"f": map[string]any{}}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, q, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}
