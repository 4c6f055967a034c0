package schema

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ParseFunc converts a wrapped (non-sequence) response into its records.
type ParseFunc func(raw any) (any, error)

// compileParse compiles a parse expression once, at registry construction.
func compileParse(expression string) (ParseFunc, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return exprParse(expression, program), nil
}

func exprParse(expression string, program *vm.Program) ParseFunc {
	return func(raw any) (any, error) {
		env := map[string]any{}
		if obj, ok := raw.(map[string]any); ok {
			for k, v := range obj {
				env[k] = v
			}
		}
		env["response"] = raw
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", expression, err)
		}
		return out, nil
	}
}

// Field returns a ParseFunc extracting one top-level field of an object
// response, the common shape of pagination envelopes.
func Field(name string) ParseFunc {
	return func(raw any) (any, error) {
		obj, ok := raw.(map[string]any)
		if !ok {
			return raw, nil
		}
		return obj[name], nil
	}
}
