package knobs

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// ExprValidator compiles rule, a boolean expr-lang expression over the
// variable `value`, into a Validator. The value is rejected when the rule
// evaluates to false.
//
//	port := knobs.Int("PORT", 8080).
//		WithValidator(knobs.MustExprValidator[int]("value > 0 && value < 65536"))
func ExprValidator[T any](rule string) (Validator[T], error) {
	var zero T
	program, err := expr.Compile(rule, expr.Env(map[string]any{"value": zero}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule %q: %w", rule, err)
	}

	return func(v T) (T, error) {
		out, err := expr.Run(program, map[string]any{"value": v})
		if err != nil {
			return v, fmt.Errorf("rule %q: %w", rule, err)
		}
		if ok, _ := out.(bool); !ok {
			return v, fmt.Errorf("value %v does not satisfy %q", v, rule)
		}
		return v, nil
	}, nil
}

// MustExprValidator is ExprValidator for package-level declarations.
// It panics if rule does not compile.
func MustExprValidator[T any](rule string) Validator[T] {
	v, err := ExprValidator[T](rule)
	if err != nil {
		panic(err)
	}
	return v
}
