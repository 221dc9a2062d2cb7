// Package knobs provides typed, self-documenting accessors over environment
// variables, plus a registry that can print every declared knob as a table
// or as a commented .env template.
//
// # Features
//
//   - One typed accessor (a "knob") per environment variable
//   - Defaults that are written back to the environment on first read
//   - Optional validators, including expr-lang rules
//   - A registry for introspection and defaults export
//   - .env loading through the dotenv subpackage
//   - Secret masking for sensitive defaults
//
// # Supported Kinds
//
//   - KindString, KindInt, KindFloat
//   - KindBool: true for "true", "on", "ok", "y", "yes" and "1" (any case)
//   - KindList: whitespace separated strings ([]string)
//   - KindTuple: whitespace separated strings (StringTuple)
//   - KindJSONList: JSON arrays of any element type
//   - KindDuration: time.Duration
//   - KindDecimal: github.com/shopspring/decimal.Decimal
//   - KindQuantity: k8s.io/apimachinery/pkg/api/resource.Quantity
//   - KindUUID: github.com/google/uuid.UUID
//
// # Quick Start
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/vivaneiona/knobs"
//	)
//
//	var (
//		pirates = knobs.Int("JOLLY_ROGER_PIRATES", 124,
//			knobs.WithDescription("Number of pirates"), knobs.WithUnit(" souls"))
//		rum = knobs.Bool("HAVE_RUM", true)
//	)
//
//	func main() {
//		knobs.LoadDotenv()
//
//		fmt.Println(pirates.MustValue(), rum.MustValue())
//		fmt.Println(knobs.Default().ExportTable())
//	}
//
// # Error Handling
//
// Value returns a *CastError when the environment holds a string that cannot
// be converted to the knob's kind, and a *ValidationError when the validator
// rejects the value. Both match ErrCast and ErrValidation with errors.Is.
// MustValue treats either as fatal: it logs the error and exits with status 1.
//
// # Concurrency
//
// Knobs and registries are not synchronized. The process environment and the
// default registry are global; declare knobs during initialization and do not
// mutate them from several goroutines at once.
package knobs
