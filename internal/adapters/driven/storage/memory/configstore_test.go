package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_GetSet(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Set("search.top_k", 7))
	require.NoError(t, store.Set("llm.model", "llama-3.1-8b-instant"))
	require.NoError(t, store.Set("llm.temperature", 0.3))
	require.NoError(t, store.Set("vector.compress", true))
	require.NoError(t, store.Set("chunking.headers", []any{"Skills", 3, "Projects"}))

	assert.Equal(t, 7, store.GetInt("search.top_k"))
	assert.Equal(t, "llama-3.1-8b-instant", store.GetString("llm.model"))
	assert.InDelta(t, 0.3, store.GetFloat("llm.temperature"), 1e-9)
	assert.True(t, store.GetBool("vector.compress"))
	assert.Equal(t, []string{"Skills", "Projects"}, store.GetStringSlice("chunking.headers"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "value"))

	assert.Equal(t, 0, store.GetInt("key"))
	assert.Equal(t, 0.0, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_NumericConversions(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", int64(5)))
	require.NoError(t, store.Set("b", 2.9))

	assert.Equal(t, 5, store.GetInt("a"))
	assert.Equal(t, 2, store.GetInt("b"))
	assert.Equal(t, 5.0, store.GetFloat("a"))
}

func TestConfigStore_KeysSorted(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("search.top_k", 5))
	require.NoError(t, store.Set("chunking.chunk_size", 400))

	assert.Equal(t, []string{"chunking.chunk_size", "search.top_k"}, store.Keys())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
