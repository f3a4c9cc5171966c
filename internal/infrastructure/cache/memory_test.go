package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("a", 1, time.Minute)
	c.Set("b", "two", 0)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = c.Get("b")
	assert.True(t, ok, "zero duration falls back to the default expiration")
	assert.Equal(t, "two", v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("short", true, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}
