package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetRemove(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("a", "2")) // overwrite

	value, ok, err := store.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", value)

	require.NoError(t, store.Remove("a"))
	require.NoError(t, store.Remove("a")) // removing a missing key is fine

	_, ok, err = store.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Keys(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("b", "2"))
	require.NoError(t, store.Set("a", "1"))

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestMemoryStore_FailSets(t *testing.T) {
	store := NewMemoryStore()
	store.FailSets = true
	assert.Error(t, store.Set("a", "1"))
}
