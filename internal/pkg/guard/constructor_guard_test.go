package guard_test

import (
	"errors"
	"testing"

	"delivery-sim/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interval struct {
	start int64
	end   int64
	guard guard.ConstructorGuard
}

var errIntervalIsNotConstructed = errors.New("interval must be created via newInterval")

func newInterval(start, end int64) interval {
	return interval{start: start, end: end, guard: guard.NewConstructorGuard()}
}

func (i interval) Validate() error {
	return i.guard.Validate(errIntervalIsNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("should accept constructed values", func(t *testing.T) {
		// Given
		i := newInterval(3, 8)

		// When
		err := i.Validate()

		// Then
		require.NoError(t, err)
	})

	t.Run("should survive copies", func(t *testing.T) {
		i := newInterval(3, 8)
		copied := i

		require.NoError(t, copied.Validate())
	})

	t.Run("should reject zero values with the given error", func(t *testing.T) {
		var i interval

		err := i.Validate()

		require.ErrorIs(t, err, errIntervalIsNotConstructed)
	})

	t.Run("should fall back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Contains(t, err.Error(), "constructor")
	})
}
