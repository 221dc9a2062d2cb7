package knobs

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/api/resource"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// isolated returns a registry that only lives for the test.
func isolated() Option { return WithRegistry(NewRegistry()) }

func TestKnob(t *testing.T) {
	unsetenv(t, "WUNDER")

	knob := String("WUNDER", "BAR", WithDescription("Foo Bar"), isolated())

	got, err := knob.Value()
	require.NoError(t, err)
	assert.Equal(t, "BAR", got)
	assert.Equal(t, KindString, knob.Kind())
	assert.Equal(t, "Foo Bar", knob.Description())
	assert.Equal(t, `Knob("WUNDER", "BAR", description="Foo Bar")`, knob.String())
}

func TestKnobDefaultIsWrittenToEnvironment(t *testing.T) {
	unsetenv(t, "KNOB_IDEMPOTENT")

	knob := Int("KNOB_IDEMPOTENT", 42, isolated())

	for i := 0; i < 2; i++ {
		got, err := knob.Value()
		require.NoError(t, err)
		assert.Equal(t, 42, got)

		raw, ok := os.LookupEnv("KNOB_IDEMPOTENT")
		assert.True(t, ok)
		assert.Equal(t, "42", raw)
	}
}

func TestCastToInt(t *testing.T) {
	unsetenv(t, "JOLLY_ROGER_PIRATES")

	pirates := Int("JOLLY_ROGER_PIRATES", 124, WithDescription("Yar"), isolated())

	got, err := pirates.Value()
	require.NoError(t, err)
	assert.Equal(t, 124, got)
	assert.Equal(t, KindInt, pirates.Kind())

	t.Setenv("JOLLY_ROGER_PIRATES", "7")
	got, err = pirates.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	t.Setenv("JOLLY_ROGER_PIRATES", " 9 ")
	got, err = pirates.Value()
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestCastToFloat(t *testing.T) {
	t.Setenv("KNOB_FLOAT", "2.718")

	got, err := Float("KNOB_FLOAT", 3.14, isolated()).Value()
	require.NoError(t, err)
	assert.InDelta(t, 2.718, got, 1e-9)
}

func TestBoolKnob(t *testing.T) {
	knob := Bool("HAVE_RUM", false, isolated())

	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"On", true},
		{"ok", true},
		{"y", true},
		{"YES", true},
		{"1", true},
		{"", false},
		{"false", false},
		{"0", false},
		{"no", false},
		{" yes", false},
		{"enabled", false},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			t.Setenv("HAVE_RUM", c.raw)
			got, err := knob.Value()
			require.NoError(t, err)
			if got != c.want {
				t.Errorf("HAVE_RUM=%q: got %v; want %v", c.raw, got, c.want)
			}
		})
	}
}

func TestBoolKnobDefault(t *testing.T) {
	unsetenv(t, "HAVE_RUM")

	got, err := Bool("HAVE_RUM", true, isolated()).Value()
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, "true", os.Getenv("HAVE_RUM"))
}

func TestListAndTupleKnobs(t *testing.T) {
	t.Setenv("KNOB_LIST", "DEAD BEEF COFFEE")
	t.Setenv("KNOB_TUPLE", "DEAD  BEEF\tCOFFEE")

	list, err := List("KNOB_LIST", nil, isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, []string{"DEAD", "BEEF", "COFFEE"}, list)

	tuple, err := Tuple("KNOB_TUPLE", NewStringTuple(), isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, 3, tuple.Len())
	assert.Equal(t, "BEEF", tuple.At(1))
	assert.True(t, tuple.Equal(NewStringTuple("DEAD", "BEEF", "COFFEE")))
}

func TestListDefaultRoundTrip(t *testing.T) {
	unsetenv(t, "KNOB_LIST_DEFAULT")
	knob := List("KNOB_LIST_DEFAULT", []string{"a", "b"}, isolated())

	first, err := knob.Value()
	require.NoError(t, err)
	assert.Equal(t, "a b", os.Getenv("KNOB_LIST_DEFAULT"))

	second, err := knob.Value()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStringTupleIsImmutable(t *testing.T) {
	items := []string{"a", "b"}
	tuple := NewStringTuple(items...)
	items[0] = "changed"

	out := tuple.Strings()
	out[1] = "changed"

	assert.Equal(t, []string{"a", "b"}, tuple.Strings())
}

func TestJSONListKnob(t *testing.T) {
	unsetenv(t, "KNOB_JSON")
	knob := JSONList("KNOB_JSON", []int{1, 2}, isolated())

	got, err := knob.Value()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, "[1,2]", os.Getenv("KNOB_JSON"))

	t.Setenv("KNOB_JSON", "[3, 4, 5]")
	got, err = knob.Value()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, got)

	t.Setenv("KNOB_JSON", "3 4 5")
	_, err = knob.Value()
	assert.ErrorIs(t, err, ErrCast)
}

func TestJSONListOfStrings(t *testing.T) {
	t.Setenv("KNOB_JSON_STRINGS", `["with space", "plain"]`)

	got, err := JSONList("KNOB_JSON_STRINGS", []string{}, isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, []string{"with space", "plain"}, got)
}

func TestCastError(t *testing.T) {
	t.Setenv("KNOB_BAD_INT", "seven")

	_, err := Int("KNOB_BAD_INT", 1, isolated()).Value()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCast)
	assert.NotErrorIs(t, err, ErrValidation)

	var castErr *CastError
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, "KNOB_BAD_INT", castErr.Name)
	assert.Equal(t, "seven", castErr.Raw)
	assert.Equal(t, KindInt, castErr.Kind)
}

func TestValidator(t *testing.T) {
	clamp := func(v int) (int, error) {
		if v > 10 {
			return 10, nil
		}
		return v, nil
	}
	knob := Int("KNOB_VALIDATED", 5, isolated()).WithValidator(clamp)

	t.Setenv("KNOB_VALIDATED", "50")
	got, err := knob.Value()
	require.NoError(t, err)
	assert.Equal(t, 10, got, "validator may replace the value")

	reject := errors.New("odd values are not allowed")
	knob.WithValidator(func(v int) (int, error) {
		if v%2 == 1 {
			return v, reject
		}
		return v, nil
	})
	t.Setenv("KNOB_VALIDATED", "3")
	_, err = knob.Value()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, reject)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "KNOB_VALIDATED", valErr.Name)
}

func TestSetAndRemove(t *testing.T) {
	unsetenv(t, "KNOB_SET")
	knob := Int("KNOB_SET", 1, isolated()).WithValidator(func(v int) (int, error) {
		return v, errors.New("always rejected")
	})

	require.NoError(t, knob.Set(99))
	assert.Equal(t, "99", os.Getenv("KNOB_SET"), "Set bypasses validation")

	require.NoError(t, knob.Remove())
	_, ok := os.LookupEnv("KNOB_SET")
	assert.False(t, ok)

	assert.ErrorIs(t, knob.Remove(), ErrNotSet)
}

func TestHelp(t *testing.T) {
	knob := Int("KNOB_HELP", 30, WithDescription("Request timeout"), WithUnit("s"), isolated())
	assert.Equal(t, "Request timeout, Default: 30s", knob.Help())
	assert.Equal(t, "s", knob.Unit())
	assert.False(t, knob.Secret())

	secret := String("KNOB_HELP_SECRET", "hunter2", WithDescription("Password"), WithSecret(), isolated())
	assert.Equal(t, "Password, Default: hun****", secret.Help())
	assert.True(t, secret.Secret())
	assert.Equal(t, `Knob("KNOB_HELP_SECRET", "hun****", description="Password")`, secret.String())
}

func TestMustValueExitsOnBrokenConfiguration(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	t.Setenv("KNOB_MUST", "not-a-number")
	Int("KNOB_MUST", 1, isolated()).MustValue()
	assert.Equal(t, 1, code)

	code = 0
	t.Setenv("KNOB_MUST", "12")
	assert.Equal(t, 12, Int("KNOB_MUST", 1, isolated()).MustValue())
	assert.Equal(t, 0, code)
}

func TestDomainKinds(t *testing.T) {
	t.Setenv("KNOB_TIMEOUT", "1m30s")
	timeout, err := Duration("KNOB_TIMEOUT", time.Second, isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)

	t.Setenv("KNOB_PRICE", "19.99")
	price, err := Decimal("KNOB_PRICE", decimal.Zero, isolated()).Value()
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("19.99")), "price = %s", price)

	t.Setenv("KNOB_MEM", "1Gi")
	mem, err := Quantity("KNOB_MEM", resource.MustParse("512Mi"), isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<30), mem.Value())

	id := uuid.New()
	t.Setenv("KNOB_ID", id.String())
	got, err := UUID("KNOB_ID", uuid.Nil, isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	t.Setenv("KNOB_ID", "not-a-uuid")
	_, err = UUID("KNOB_ID", uuid.Nil, isolated()).Value()
	assert.ErrorIs(t, err, ErrCast)
}

func TestDomainKindDefaults(t *testing.T) {
	unsetenv(t, "KNOB_CPU")
	unsetenv(t, "KNOB_WAIT")

	cpu, err := Quantity("KNOB_CPU", resource.MustParse("500m"), isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, "500m", cpu.String())
	assert.Equal(t, "500m", os.Getenv("KNOB_CPU"))

	_, err = Duration("KNOB_WAIT", 250*time.Millisecond, isolated()).Value()
	require.NoError(t, err)
	assert.Equal(t, "250ms", os.Getenv("KNOB_WAIT"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "json", KindJSONList.String())
	assert.Equal(t, "uuid", KindUUID.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
