package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalThreeStates(t *testing.T) {
	type payload struct {
		Name Optional[string] `json:"name"`
	}

	t.Run("absent key", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Name.Present)
		assert.Nil(t, p.Name.Ptr())
	})

	t.Run("explicit null", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name": null}`), &p))
		assert.True(t, p.Name.Present)
		assert.False(t, p.Name.Valid)
		assert.Nil(t, p.Name.Ptr())
	})

	t.Run("value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Widget"}`), &p))
		assert.True(t, p.Name.Present)
		assert.True(t, p.Name.Valid)
		require.NotNil(t, p.Name.Ptr())
		assert.Equal(t, "Widget", *p.Name.Ptr())
	})

	t.Run("type mismatch is an error", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"name": 7}`), &p))
	})
}

func TestOptionalPtrCopies(t *testing.T) {
	o := Some(42)
	p := o.Ptr()
	*p = 7
	assert.Equal(t, 42, o.Value)
}
