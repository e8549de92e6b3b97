package pixbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskGroups(t *testing.T) {
	t.Run("rgb", func(t *testing.T) {
		g := CR(Red, Green, Blue).Groups()
		require.Len(t, g, 1)
		assert.Equal(t, []Role{Red, Green, Blue}, g[0])
		assert.Equal(t, 3, Components(g))
	})

	t.Run("rgbx ignores padding but counts it", func(t *testing.T) {
		g := CR(Red, Green, Blue, Unknown).Groups()
		require.Len(t, g, 1)
		assert.Equal(t, 4, Components(g))
	})

	t.Run("bayer row spans two pixels", func(t *testing.T) {
		g := CR(Red, Next, Green).Groups()
		require.Len(t, g, 2)
		assert.Equal(t, []Role{Red}, g[0])
		assert.Equal(t, []Role{Green}, g[1])
		assert.Equal(t, 2, Components(g))
	})

	t.Run("empty mask", func(t *testing.T) {
		assert.Nil(t, Mask(0).Groups())
	})
}

func TestApply(t *testing.T) {
	t.Run("u8 rgb with clamping", func(t *testing.T) {
		row := []uint8{128, 128, 128, 200, 10, 255}
		ok := Apply(row, []float64{2, 0.5}, CR(Red, Green, Blue).Groups(), 0)
		require.True(t, ok)
		assert.Equal(t, []uint8{255, 255, 255, 100, 5, 127}, row)
	})

	t.Run("u16 headroom", func(t *testing.T) {
		row := []uint16{30000, 30000, 30000}
		ok := Apply(row, []float64{2}, CR(Red, Green, Blue).Groups(), 0)
		require.True(t, ok)
		assert.Equal(t, []uint16{60000, 60000, 60000}, row)
	})

	t.Run("float not clamped", func(t *testing.T) {
		row := []float32{0.75, 0.75, 0.75}
		ok := Apply(row, []float64{2}, CR(Red, Green, Blue).Groups(), 0)
		require.True(t, ok)
		assert.InDelta(t, 1.5, float64(row[0]), 1e-6)
	})

	t.Run("alpha channel untouched", func(t *testing.T) {
		row := []uint8{100, 100, 100, 77}
		ok := Apply(row, []float64{1.5}, CR(Red, Green, Blue, Unknown).Groups(), 0)
		require.True(t, ok)
		assert.Equal(t, uint8(77), row[3])
	})

	t.Run("bayer pattern", func(t *testing.T) {
		// R G R G: one component per pixel, two-pixel pattern.
		row := []uint8{100, 100, 100, 100}
		ok := Apply(row, []float64{1, 2, 1, 2}, CR(Red, Next, Green).Groups(), 0)
		require.True(t, ok)
		assert.Equal(t, []uint8{100, 200, 100, 200}, row)
	})

	t.Run("bayer pattern with phase", func(t *testing.T) {
		// Same mask, but the row starts on the second pattern slot.
		row := []uint8{100, 100, 100, 100}
		ok := Apply(row, []float64{2, 1, 2, 1}, CR(Red, Next, Green).Groups(), 1)
		require.True(t, ok)
		assert.Equal(t, []uint8{200, 100, 200, 100}, row)
	})

	t.Run("monochrome intensity", func(t *testing.T) {
		row := []float64{0.5, 0.5}
		ok := Apply(row, []float64{1.2, 1.4}, CR(Intensity).Groups(), 0)
		require.True(t, ok)
		assert.InDelta(t, 0.6, row[0], 1e-12)
		assert.InDelta(t, 0.7, row[1], 1e-12)
	})

	t.Run("unsupported buffer type", func(t *testing.T) {
		assert.False(t, Apply([]int32{1}, []float64{1}, CR(Red).Groups(), 0))
	})
}

func TestSlice(t *testing.T) {
	buf := []uint16{1, 2, 3, 4, 5}
	got, ok := Slice(buf, 1, 3)
	require.True(t, ok)
	assert.Equal(t, []uint16{2, 3, 4}, got)

	_, ok = Slice(buf, 3, 4)
	assert.False(t, ok)

	_, ok = Slice("nope", 0, 0)
	assert.False(t, ok)
}
