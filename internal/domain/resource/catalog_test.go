package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_IDsAndValues(t *testing.T) {
	c := Generate(12)
	require.Len(t, c, 12)

	assert.Equal(t, "stygian-shale", c[0].ID)
	assert.Equal(t, 10.0, c[0].Value)
	assert.Equal(t, "crimson-ore", c[1].ID)
	assert.Equal(t, 25.0, c[1].Value)
	assert.Equal(t, "stygian-shale-2", c[10].ID)

	seen := map[string]bool{}
	for i, rt := range c {
		assert.False(t, seen[rt.ID], "duplicate id %s", rt.ID)
		seen[rt.ID] = true
		if i > 0 {
			assert.Greater(t, rt.Value, c[i-1].Value)
		}
	}
}

func TestCatalog_AtClampsToLast(t *testing.T) {
	c := Generate(3)
	assert.Equal(t, c[2], c.At(7))
	assert.Equal(t, c[0], c.At(-1))
	assert.Equal(t, Type{}, Catalog(nil).At(0))
}

func TestCatalog_ValueUnknownIsZero(t *testing.T) {
	c := Generate(2)
	assert.Equal(t, 25.0, c.Value("crimson-ore"))
	assert.Zero(t, c.Value("nope"))
}
