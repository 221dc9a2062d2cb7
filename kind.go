package knobs

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Kind is the type a knob casts its environment value to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList     // whitespace separated strings
	KindTuple    // whitespace separated strings, fixed size
	KindJSONList // JSON array
	KindDuration
	KindDecimal
	KindQuantity
	KindUUID
)

var kindNames = [...]string{
	KindString:   "string",
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindList:     "list",
	KindTuple:    "tuple",
	KindJSONList: "json",
	KindDuration: "duration",
	KindDecimal:  "decimal",
	KindQuantity: "quantity",
	KindUUID:     "uuid",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// BooleanTrueStrings are the lower-cased values a bool knob reads as true.
// Anything else, including the empty string, is false.
var BooleanTrueStrings = []string{"true", "on", "ok", "y", "yes", "1"}

// caster converts between a raw environment string and T.
type caster[T any] struct {
	kind   Kind
	parse  func(raw string) (T, error)
	format func(v T) string
}

var (
	stringCaster = caster[string]{
		kind:   KindString,
		parse:  func(raw string) (string, error) { return raw, nil },
		format: func(v string) string { return v },
	}

	intCaster = caster[int]{
		kind:   KindInt,
		parse:  func(raw string) (int, error) { return strconv.Atoi(strings.TrimSpace(raw)) },
		format: strconv.Itoa,
	}

	floatCaster = caster[float64]{
		kind: KindFloat,
		parse: func(raw string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(raw), 64)
		},
		format: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	}

	boolCaster = caster[bool]{
		kind: KindBool,
		parse: func(raw string) (bool, error) {
			return slices.Contains(BooleanTrueStrings, strings.ToLower(raw)), nil
		},
		format: strconv.FormatBool,
	}

	listCaster = caster[[]string]{
		kind:   KindList,
		parse:  func(raw string) ([]string, error) { return strings.Fields(raw), nil },
		format: func(v []string) string { return strings.Join(v, " ") },
	}

	tupleCaster = caster[StringTuple]{
		kind:   KindTuple,
		parse:  func(raw string) (StringTuple, error) { return NewStringTuple(strings.Fields(raw)...), nil },
		format: func(v StringTuple) string { return v.String() },
	}

	durationCaster = caster[time.Duration]{
		kind: KindDuration,
		parse: func(raw string) (time.Duration, error) {
			return time.ParseDuration(strings.TrimSpace(raw))
		},
		format: time.Duration.String,
	}

	decimalCaster = caster[decimal.Decimal]{
		kind: KindDecimal,
		parse: func(raw string) (decimal.Decimal, error) {
			return decimal.NewFromString(strings.TrimSpace(raw))
		},
		format: decimal.Decimal.String,
	}

	quantityCaster = caster[resource.Quantity]{
		kind: KindQuantity,
		parse: func(raw string) (resource.Quantity, error) {
			return resource.ParseQuantity(strings.TrimSpace(raw))
		},
		format: func(v resource.Quantity) string { return v.String() },
	}

	uuidCaster = caster[uuid.UUID]{
		kind:   KindUUID,
		parse:  func(raw string) (uuid.UUID, error) { return uuid.Parse(strings.TrimSpace(raw)) },
		format: uuid.UUID.String,
	}
)

// jsonListCaster decodes a JSON array of E.
func jsonListCaster[E any]() caster[[]E] {
	return caster[[]E]{
		kind: KindJSONList,
		parse: func(raw string) ([]E, error) {
			var out []E
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		format: func(v []E) string {
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Sprint(v)
			}
			return string(b)
		},
	}
}
