package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldStates(t *testing.T) {
	var f Field[string]
	assert.False(t, f.IsSet())
	assert.False(t, f.IsLocked())

	f.Replace("generated")
	v, ok := f.Value()
	require.True(t, ok)
	assert.Equal(t, "generated", v)

	f.Lock()
	f.Replace("ignored")
	assert.Equal(t, "generated", f.MustValue())

	f.Unlock()
	f.Replace("replaced")
	assert.Equal(t, "replaced", f.MustValue())
}

func TestFieldFillWith(t *testing.T) {
	var f Field[int]
	f.FillWith(func() int { return 7 })
	assert.Equal(t, 7, f.MustValue())

	// Already set: regeneration must not resample.
	f.FillWith(func() int {
		t.Fatal("FillWith called on a set field")
		return 0
	})

	// Locked and cleared: regeneration must leave it empty.
	cleared := Field[int]{}
	cleared.Lock()
	cleared.FillWith(func() int {
		t.Fatal("FillWith called on a locked field")
		return 0
	})
	assert.False(t, cleared.IsSet())
}

func TestFieldApplyDiffSwaps(t *testing.T) {
	target := FieldOf("old")
	diff := LockedFieldOf("new")

	target.ApplyDiff(&diff)

	assert.Equal(t, "new", target.MustValue())
	assert.True(t, target.IsLocked())
	assert.Equal(t, "old", diff.MustValue())
	assert.False(t, diff.IsLocked())

	// Applying the inverse restores the original state.
	target.ApplyDiff(&diff)
	assert.Equal(t, "old", target.MustValue())
	assert.False(t, target.IsLocked())
}

func TestFieldApplyDiffSkipsUnset(t *testing.T) {
	target := LockedFieldOf("keep")
	var diff Field[string]

	target.ApplyDiff(&diff)

	assert.Equal(t, "keep", target.MustValue())
	assert.True(t, target.IsLocked())
	assert.False(t, diff.IsSet())
}

func TestFieldJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field Field[string]
	}{
		{"unlocked unset", Field[string]{}},
		{"unlocked set", FieldOf("value")},
		{"locked set", LockedFieldOf("value")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.field)
			require.NoError(t, err)

			var decoded Field[string]
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, tt.field.IsLocked(), decoded.IsLocked())
			assert.Equal(t, tt.field.MustValue(), decoded.MustValue())
		})
	}

	lockedUnset := Field[string]{}
	lockedUnset.Lock()
	raw, err := json.Marshal(lockedUnset)
	require.NoError(t, err)
	assert.NotEqual(t, "null", string(raw))

	var decoded Field[string]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.IsLocked())
	assert.False(t, decoded.IsSet())
}
