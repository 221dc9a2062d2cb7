package knobs

import (
	"slices"
	"strings"
)

// StringTuple is an immutable, fixed-size sequence of strings.
type StringTuple struct {
	items []string
}

// NewStringTuple returns a tuple holding a copy of items.
func NewStringTuple(items ...string) StringTuple {
	return StringTuple{items: slices.Clone(items)}
}

// Len returns the number of items.
func (t StringTuple) Len() int { return len(t.items) }

// At returns the i-th item. It panics if i is out of range.
func (t StringTuple) At(i int) string { return t.items[i] }

// Strings returns a copy of the items.
func (t StringTuple) Strings() []string { return slices.Clone(t.items) }

// Equal reports whether both tuples hold the same items in the same order.
func (t StringTuple) Equal(other StringTuple) bool { return slices.Equal(t.items, other.items) }

// String joins the items with single spaces, the form a tuple knob reads.
func (t StringTuple) String() string { return strings.Join(t.items, " ") }
