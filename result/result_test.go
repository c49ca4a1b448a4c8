package result

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	r := Success(42.0)
	assert.True(t, r.IsSuccess())
	assert.Nil(t, r.Failure())
	assert.NoError(t, r.Err())
	v, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	assert.Equal(t, "Success(42)", r.String())
}

func TestFailureOf(t *testing.T) {
	t.Parallel()

	r := FailureOf[float64](Unsupported, "Unsupported measure for %s: %s", "BondFuture", "Foo")
	require.True(t, r.IsFailure())
	assert.Equal(t, Unsupported, r.Failure().Reason)
	assert.Equal(t, "Unsupported measure for BondFuture: Foo", r.Failure().Message)
	assert.Equal(t, 0.0, r.Value())
}

func TestOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fn     func() (int, error)
		ok     bool
		reason Reason
	}{
		{"value", func() (int, error) { return 1, nil }, true, ""},
		{"plain error", func() (int, error) { return 0, errors.New("boom") }, false, CalculationFailed},
		{"typed failure", func() (int, error) { return 0, NewFailure(MissingData, "no curve") }, false, MissingData},
		{"wrapped failure", func() (int, error) {
			return 0, fmt.Errorf("pricing: %w", NewFailure(InvalidInput, "bad"))
		}, false, InvalidInput},
		{"panic", func() (int, error) { panic("division by zero") }, false, CalculationFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Of(tt.fn)
			assert.Equal(t, tt.ok, r.IsSuccess())
			if !tt.ok {
				assert.Equal(t, tt.reason, r.Failure().Reason)
			}
		})
	}
}

func TestFromError_KeepsWrappedMessage(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("scenario 2: %w", NewFailure(MissingData, "no curve"))
	r := FromError[int](err)
	assert.Equal(t, MissingData, r.Failure().Reason)
	assert.Contains(t, r.Failure().Message, "scenario 2")
	assert.ErrorIs(t, r.Err(), err)
}

func TestAnyAndAs(t *testing.T) {
	t.Parallel()

	erased := Success("x").Any()
	assert.Equal(t, "x", As[string](erased).Value())
	assert.True(t, As[int](erased).IsFailure())

	failed := FailureOf[string](Cancelled, "stop").Any()
	assert.Equal(t, Cancelled, As[string](failed).Failure().Reason)
}

func TestMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, Map(Success(2), func(v int) int { return v * 2 }).Value())
	f := Map(FailureOf[int](Error, "e"), func(v int) string { return "never" })
	assert.True(t, f.IsFailure())
}
