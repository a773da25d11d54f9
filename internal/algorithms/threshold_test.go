package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunspot-imaging/internal/core"
)

func TestLuminance(t *testing.T) {
	c, err := core.NewColorMatrix(4, 1, []uint8{
		255, 255, 255,
		0, 0, 0,
		255, 0, 0,
		0, 255, 0,
	})
	require.NoError(t, err)

	g := Luminance(c)
	assert.Equal(t, []uint8{255, 0, 76, 150}, g.Bytes())
}

func TestThresholdBoundary(t *testing.T) {
	g, err := core.NewGrayMatrix(4, 1, []uint8{0, 140, 141, 255})
	require.NoError(t, err)

	m := Threshold(g, 140)
	assert.True(t, m.Dark(0, 0))
	assert.True(t, m.Dark(1, 0), "140 is on the dark side")
	assert.False(t, m.Dark(2, 0))
	assert.False(t, m.Dark(3, 0))
}

func TestThresholdIdempotentOnBinary(t *testing.T) {
	m := core.MaskFunc(16, 16, func(x, y int) bool { return (x*y)%3 == 0 })
	assert.True(t, m.Equal(Threshold(m.Gray(), 140)))
}
