package params

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two parameters with the same shape declared under different kinds.
type discountingMethod interface {
	Parameter
	Method() string
}

type creditMethod interface {
	Parameter
	Method() string
}

type discounting struct{ name string }

func (d discounting) QueryType() reflect.Type { return KindOf[discountingMethod]() }
func (d discounting) Method() string          { return d.name }

type credit struct{ name string }

func (c credit) QueryType() reflect.Type { return KindOf[creditMethod]() }
func (c credit) Method() string          { return c.name }

type badKind struct{}

func (badKind) QueryType() reflect.Type { return KindOf[creditMethod]() }

func TestGet_ByKindNotShape(t *testing.T) {
	t.Parallel()

	ps, err := New(discounting{"ois"}, credit{"issuer"})
	require.NoError(t, err)

	d, err := Get[discountingMethod](ps)
	require.NoError(t, err)
	assert.Equal(t, "ois", d.Method())

	c, err := Get[creditMethod](ps)
	require.NoError(t, err)
	assert.Equal(t, "issuer", c.Method())
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	_, err := Get[creditMethod](MustNew(discounting{"ois"}))
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "creditMethod")

	_, err = Get[creditMethod](Empty())
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestGetOrDefault(t *testing.T) {
	t.Parallel()

	def := credit{"fallback"}
	got := GetOrDefault[creditMethod](Empty(), def)
	assert.Equal(t, "fallback", got.Method())

	got = GetOrDefault[creditMethod](MustNew(credit{"set"}), def)
	assert.Equal(t, "set", got.Method())
}

func TestNew_DuplicateRejected(t *testing.T) {
	t.Parallel()

	_, err := New(discounting{"a"}, discounting{"b"})
	assert.ErrorIs(t, err, ErrDuplicateParameter)
}

func TestNew_QueryTypeMustMatch(t *testing.T) {
	t.Parallel()

	_, err := New(badKind{})
	assert.Error(t, err)
}

func TestWithAndCombine(t *testing.T) {
	t.Parallel()

	base := MustNew(discounting{"a"})
	more, err := base.With(credit{"c"})
	require.NoError(t, err)
	assert.Equal(t, 1, base.Size())
	assert.Equal(t, 2, more.Size())

	_, err = more.Combine(MustNew(credit{"other"}))
	assert.ErrorIs(t, err, ErrDuplicateParameter)

	merged, err := base.Combine(MustNew(credit{"c"}))
	require.NoError(t, err)
	assert.True(t, merged.Contains(KindOf[creditMethod]()))
	assert.Contains(t, merged.String(), "discountingMethod")
}
