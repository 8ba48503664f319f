package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	c := New(Config{})

	key := Key("country", "list", true, 20, 0)
	c.Set(key, []string{"DE", "FR"})

	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []string{"DE", "FR"}, v)

	_, ok = c.Get(Key("country", "list", false, 20, 0))
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := New(Config{TTL: 10 * time.Millisecond})

	c.Set(Key("currency", "all"), "x")
	_, ok := c.Get(Key("currency", "all"))
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(Key("currency", "all"))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_InvalidateEntity(t *testing.T) {
	c := New(Config{})

	c.Set(Key("language", "default"), "en")
	c.Set(Key("language", "active"), []string{"en", "es"})
	c.Set(Key("country", "list"), []string{"DE"})

	c.Invalidate("language")

	_, ok := c.Get(Key("language", "default"))
	assert.False(t, ok)
	_, ok = c.Get(Key("language", "active"))
	assert.False(t, ok)
	_, ok = c.Get(Key("country", "list"))
	assert.True(t, ok)
}

func TestCache_Bounded(t *testing.T) {
	c := New(Config{MaxEntries: 10})

	for i := 0; i < 100; i++ {
		c.Set(Key("dropdown", i), i)
	}
	assert.LessOrEqual(t, c.Len(), 10)
}
