package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearInMemoryStores() {
	globalInMemoryStore.Lock()
	globalInMemoryStore.stores = make(map[string]map[string]string)
	globalInMemoryStore.Unlock()
}

func TestNewInMemoryBackend(t *testing.T) {
	_, err := NewInMemoryBackend("")
	assert.Error(t, err)

	b, err := NewInMemoryBackend("test-store")
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestInMemoryBackend_SharedAcrossInstances(t *testing.T) {
	defer clearInMemoryStores()

	b1, err := NewInMemoryBackend("shared")
	require.NoError(t, err)
	require.NoError(t, b1.Set("editor-theme", "vs-light"))
	require.NoError(t, b1.Close())

	b2, err := NewInMemoryBackend("shared")
	require.NoError(t, err)
	value, ok, err := b2.Get("editor-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "vs-light", value)

	other, err := NewInMemoryBackend("other")
	require.NoError(t, err)
	_, ok, err = other.Get("editor-theme")
	require.NoError(t, err)
	assert.False(t, ok, "stores must not leak into each other")
}

func TestInMemoryBackend_KeysAndDelete(t *testing.T) {
	defer clearInMemoryStores()

	b, err := NewInMemoryBackend("keys")
	require.NoError(t, err)
	require.NoError(t, b.Set("b", "2"))
	require.NoError(t, b.Set("a", "1"))

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, b.Delete("a"))
	keys, err = b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestGetBackend(t *testing.T) {
	setupTest(t)
	defer clearInMemoryStores()

	for _, name := range []string{"fs", "memory"} {
		t.Run(name, func(t *testing.T) {
			b, err := GetBackend(name, "registry-"+name)
			require.NoError(t, err)
			defer b.Close()
			require.NoError(t, b.Set("k", "v"))
		})
	}

	_, err := GetBackend("nope", "x")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.EqualError(t, err, "unknown storage backend: nope (available: fs, memory)")
}
