package kernel_test

import (
	"encoding/json"
	"testing"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create distinct valid identifiers", func(t *testing.T) {
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		require.NoError(t, first.Validate())
		assert.False(t, first.IsZero())
		assert.False(t, first.IsEqual(second))
		assert.Equal(t, uuid.Version(4), first.Bytes().Version())
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("should parse the canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, s := range []string{"", "run-1", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.UUIDFromString(s)

			require.Error(t, err, s)
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should restore a stored identifier", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(id))
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject short input", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})

		require.Error(t, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	var id kernel.UUID

	assert.True(t, id.IsZero())
	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_JSON(t *testing.T) {
	t.Run("should encode as a string", func(t *testing.T) {
		// Given
		type body struct {
			ID kernel.UUID `json:"id"`
		}
		id := kernel.NewUUID()

		// When
		data, err := json.Marshal(body{ID: id})
		require.NoError(t, err)
		var decoded body
		require.NoError(t, json.Unmarshal(data, &decoded))

		// Then
		assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(data))
		assert.True(t, decoded.ID.IsEqual(id))
	})

	t.Run("should reject invalid strings", func(t *testing.T) {
		var id kernel.UUID

		err := json.Unmarshal([]byte(`"not-a-uuid"`), &id)

		require.Error(t, err)
		assert.True(t, id.IsZero())
	})
}
