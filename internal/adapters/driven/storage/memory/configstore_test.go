package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("llm.provider", "anthropic"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "anthropic", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("int", 42))
	require.NoError(t, store.Set("int64", int64(7)))
	require.NoError(t, store.Set("float", 1.2))
	require.NoError(t, store.Set("bool", true))
	require.NoError(t, store.Set("slice", []string{"title", "purpose"}))
	require.NoError(t, store.Set("anyslice", []any{"title", 3, "purpose"}))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, "", store.GetString("int"))

	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 7, store.GetInt("int64"))
	assert.Equal(t, 1, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("str"))

	assert.InDelta(t, 1.2, store.GetFloat("float"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("int"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("int64"), 1e-9)
	assert.Zero(t, store.GetFloat("str"))
	assert.Zero(t, store.GetFloat("missing"))

	assert.True(t, store.GetBool("bool"))
	assert.False(t, store.GetBool("str"))

	assert.Equal(t, []string{"title", "purpose"}, store.GetStringSlice("slice"))
	assert.Equal(t, []string{"title", "purpose"}, store.GetStringSlice("anyslice"))
	assert.Nil(t, store.GetStringSlice("str"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
			_ = store.GetInt("counter")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()
	require.NoError(t, store.Set("draft.temperature", 0.7))
	assert.InDelta(t, 0.7, store.GetFloat("draft.temperature"), 1e-9)
}
