package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("key", []string{"hello", "world"}, time.Minute)

	val, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, []string{"hello", "world"}, val)
}

func TestGetMissing(t *testing.T) {
	c := New()

	_, found := c.Get("missing")
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("key", "value", time.Nanosecond)

	time.Sleep(time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestDeleteAndClear(t *testing.T) {
	c := New()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.ItemCount())

	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}
