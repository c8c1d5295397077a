package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string]()

	c.Set("key", "value", time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_GetMissing(t *testing.T) {
	c := New[[]int]()

	got, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCache_Expiration(t *testing.T) {
	c := New[string]()

	c.Set("key", "value", 10*time.Millisecond)

	_, ok := c.Get("key")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("key")
	assert.False(t, ok, "expired entry must not be returned")
}

func TestCache_Delete(t *testing.T) {
	c := New[int]()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)

	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_Clear(t *testing.T) {
	c := New[int]()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCache_Overwrite(t *testing.T) {
	c := New[string]()

	c.Set("key", "old", time.Minute)
	c.Set("key", "new", time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}
