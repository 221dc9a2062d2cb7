package knobs

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Validator checks, and may replace, a knob's cast value.
type Validator[T any] func(T) (T, error)

// Knob is a typed accessor over a single environment variable.
//
// The environment is read on every call to Value, so changes made after the
// knob was declared are always visible.
type Knob[T any] struct {
	name        string
	def         T
	description string
	unit        string
	secret      bool
	caster      caster[T]
	validator   Validator[T]
}

// Option configures a knob at declaration.
type Option func(*settings)

type settings struct {
	description string
	unit        string
	secret      bool
	registry    *Registry
}

// WithDescription sets the human readable description.
func WithDescription(description string) Option {
	return func(s *settings) { s.description = description }
}

// WithUnit sets the unit label appended to the default in Help.
func WithUnit(unit string) Option {
	return func(s *settings) { s.unit = unit }
}

// WithSecret masks the default in registry exports.
func WithSecret() Option {
	return func(s *settings) { s.secret = true }
}

// WithRegistry registers the knob in r instead of Default().
func WithRegistry(r *Registry) Option {
	return func(s *settings) { s.registry = r }
}

func newKnob[T any](name string, def T, c caster[T], opts []Option) *Knob[T] {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.registry == nil {
		s.registry = Default()
	}

	k := &Knob[T]{
		name:        name,
		def:         def,
		description: s.description,
		unit:        s.unit,
		secret:      s.secret,
		caster:      c,
	}
	s.registry.Register(k)
	return k
}

// String declares a knob holding the raw environment string.
func String(name, def string, opts ...Option) *Knob[string] {
	return newKnob(name, def, stringCaster, opts)
}

// Int declares a base-10 integer knob.
func Int(name string, def int, opts ...Option) *Knob[int] {
	return newKnob(name, def, intCaster, opts)
}

// Float declares a float64 knob.
func Float(name string, def float64, opts ...Option) *Knob[float64] {
	return newKnob(name, def, floatCaster, opts)
}

// Bool declares a boolean knob; see BooleanTrueStrings.
func Bool(name string, def bool, opts ...Option) *Knob[bool] {
	return newKnob(name, def, boolCaster, opts)
}

// List declares a knob whose value is split on whitespace.
func List(name string, def []string, opts ...Option) *Knob[[]string] {
	return newKnob(name, def, listCaster, opts)
}

// Tuple declares a knob whose value is split on whitespace into a StringTuple.
func Tuple(name string, def StringTuple, opts ...Option) *Knob[StringTuple] {
	return newKnob(name, def, tupleCaster, opts)
}

// JSONList declares a knob whose value is a JSON array of E.
func JSONList[E any](name string, def []E, opts ...Option) *Knob[[]E] {
	return newKnob(name, def, jsonListCaster[E](), opts)
}

// Duration declares a knob parsed with time.ParseDuration.
func Duration(name string, def time.Duration, opts ...Option) *Knob[time.Duration] {
	return newKnob(name, def, durationCaster, opts)
}

// Decimal declares an exact decimal knob.
func Decimal(name string, def decimal.Decimal, opts ...Option) *Knob[decimal.Decimal] {
	return newKnob(name, def, decimalCaster, opts)
}

// Quantity declares a Kubernetes resource quantity knob (250m, 1.5Gi, ...).
func Quantity(name string, def resource.Quantity, opts ...Option) *Knob[resource.Quantity] {
	return newKnob(name, def, quantityCaster, opts)
}

// UUID declares a UUID knob.
func UUID(name string, def uuid.UUID, opts ...Option) *Knob[uuid.UUID] {
	return newKnob(name, def, uuidCaster, opts)
}

// WithValidator attaches v, which runs last on every value, and returns k.
func (k *Knob[T]) WithValidator(v Validator[T]) *Knob[T] {
	k.validator = v
	return k
}

// Value reads the environment variable and casts it.
//
// When the variable is unset the stringified default is written to the
// environment, so later reads and subprocesses see the same value, and the
// default is returned. Cast failures are reported as *CastError and
// validator failures as *ValidationError.
func (k *Knob[T]) Value() (T, error) {
	raw, ok := os.LookupEnv(k.name)
	if !ok {
		if err := os.Setenv(k.name, k.caster.format(k.def)); err != nil {
			return k.def, fmt.Errorf("set %s: %w", k.name, err)
		}
		return k.validate(k.def)
	}

	v, err := k.caster.parse(raw)
	if err != nil {
		var zero T
		return zero, &CastError{Name: k.name, Raw: raw, Kind: k.caster.kind, Err: err}
	}
	return k.validate(v)
}

func (k *Knob[T]) validate(v T) (T, error) {
	if k.validator == nil {
		return v, nil
	}
	out, err := k.validator(v)
	if err != nil {
		return out, &ValidationError{Name: k.name, Err: err}
	}
	return out, nil
}

// exit terminates the process on broken configuration.
var exit = os.Exit

// MustValue is Value for code that cannot run with broken configuration:
// on error it logs the reason and exits the process with status 1.
func (k *Knob[T]) MustValue() T {
	v, err := k.Value()
	if err != nil {
		slog.Default().Error("invalid configuration", "knob", k.name, "error", err)
		exit(1)
	}
	return v
}

// Set writes value to the environment without validating it.
func (k *Knob[T]) Set(value T) error {
	return os.Setenv(k.name, k.caster.format(value))
}

// Remove unsets the environment variable.
func (k *Knob[T]) Remove() error {
	if _, ok := os.LookupEnv(k.name); !ok {
		return fmt.Errorf("%s: %w", k.name, ErrNotSet)
	}
	return os.Unsetenv(k.name)
}

// Name returns the environment variable name.
func (k *Knob[T]) Name() string { return k.name }

// Default returns the declared default.
func (k *Knob[T]) Default() T { return k.def }

// DefaultString returns the default as it is written to the environment.
func (k *Knob[T]) DefaultString() string { return k.caster.format(k.def) }

// Kind returns the type the knob casts to.
func (k *Knob[T]) Kind() Kind { return k.caster.kind }

// Description returns the human readable description.
func (k *Knob[T]) Description() string { return k.description }

// Unit returns the unit label, empty when none was set.
func (k *Knob[T]) Unit() string { return k.unit }

// Secret reports whether the default is masked in exports.
func (k *Knob[T]) Secret() bool { return k.secret }

// Help renders "<description>, Default: <default><unit>".
func (k *Knob[T]) Help() string {
	return fmt.Sprintf("%s, Default: %s%s", k.description, displayDefault(k), k.unit)
}

// String renders the knob as Knob("NAME", default, description="...").
func (k *Knob[T]) String() string {
	def := displayDefault(k)
	if k.caster.kind == KindString {
		def = strconv.Quote(def)
	}
	return fmt.Sprintf("Knob(%q, %s, description=%q)", k.name, def, k.description)
}
