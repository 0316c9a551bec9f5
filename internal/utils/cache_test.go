package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCache_Expiry(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("k", "v", time.Minute)
	assert.Equal(t, "v", c.Get("k"))

	clock = clock.Add(time.Minute)
	assert.Equal(t, "v", c.Get("k"))

	clock = clock.Add(time.Second)
	assert.Nil(t, c.Get("k"))
	assert.Nil(t, c.Get("missing"))
}

func TestLocalCache_EvictsAndDeletes(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, time.Hour)
	assert.Nil(t, c.Get("a"))
	assert.Equal(t, 3, c.Get("c"))

	c.Delete("c")
	assert.Nil(t, c.Get("c"))
}

func TestNewCache_InvalidSize(t *testing.T) {
	_, err := NewCache(0)
	assert.Error(t, err)
}
