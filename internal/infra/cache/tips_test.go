package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipCache_GetSet(t *testing.T) {
	c, err := NewTipCache(4, time.Minute)
	require.NoError(t, err)

	_, ok := c.Get("Cash: $10")
	assert.False(t, ok)

	c.Set("Cash: $10", "Upgrade the market.")
	tip, ok := c.Get("Cash: $10")
	require.True(t, ok)
	assert.Equal(t, "Upgrade the market.", tip)

	_, ok = c.Get("Cash: $11")
	assert.False(t, ok)
}

func TestTipCache_Expires(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, err := NewTipCache(4, time.Minute)
	require.NoError(t, err)
	c.WithClock(func() time.Time { return now })

	c.Set("s", "tip")
	now = now.Add(59 * time.Second)
	_, ok := c.Get("s")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("s")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTipCache_EvictsOldest(t *testing.T) {
	c, err := NewTipCache(2, time.Minute)
	require.NoError(t, err)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
