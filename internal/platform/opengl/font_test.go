package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFont(t *testing.T) *FontAtlas {
	t.Helper()
	atlas, err := DefaultFont(32)
	require.NoError(t, err)
	return atlas
}

func TestBakeFontAtlas(t *testing.T) {
	atlas := defaultFont(t)

	h := atlas.Image.Rect.Dy()
	assert.Equal(t, atlasWidth, atlas.Image.Rect.Dx())
	assert.Zero(t, h&(h-1), "atlas height %d is a power of two", h)
	assert.Equal(t, float32(32), atlas.Size)
	assert.Positive(t, atlas.LineHeight)

	a, ok := atlas.Glyphs['A']
	require.True(t, ok)
	assert.Positive(t, a.Width)
	assert.Positive(t, a.Advance)
	assert.LessOrEqual(t, a.AtlasY+a.Height, float32(h))

	space, ok := atlas.Glyphs[' ']
	require.True(t, ok)
	assert.Zero(t, space.Width)
	assert.Positive(t, space.Advance)

	_, ok = atlas.Glyphs[0x85]
	assert.False(t, ok, "C1 controls are skipped")
	_, ok = atlas.Glyphs['é']
	assert.True(t, ok)
}

func TestBakeFontRejectsGarbage(t *testing.T) {
	_, err := BakeFont([]byte("not a font"), 16)
	assert.Error(t, err)
}

func TestLayoutLines(t *testing.T) {
	atlas := defaultFont(t)
	quads := atlas.Layout("A\nA", 0, 0.5)
	require.Len(t, quads, 2)

	step := atlas.LineHeight/atlas.Size + 0.5
	assert.InDelta(t, quads[0].Min[0], quads[1].Min[0], 1e-6)
	assert.InDelta(t, quads[0].Min[1]-step, quads[1].Min[1], 1e-5)
}

func TestLayoutKerningAndTabs(t *testing.T) {
	atlas := defaultFont(t)
	plain := atlas.Layout("AA", 0, 0)
	kerned := atlas.Layout("AA", 0.25, 0)
	require.Len(t, plain, 2)
	require.Len(t, kerned, 2)
	assert.InDelta(t, plain[1].Min[0]+0.25, kerned[1].Min[0], 1e-5)

	single := atlas.Layout("A", 0, 0)
	tabbed := atlas.Layout("\tA", 0, 0)
	require.Len(t, tabbed, 1)
	tab := 4 * atlas.Glyphs[' '].Advance / atlas.Size
	assert.InDelta(t, single[0].Min[0]+tab, tabbed[0].Min[0], 1e-5)
}

func TestLayoutFallsBackToQuestionMark(t *testing.T) {
	atlas := defaultFont(t)
	assert.Equal(t, atlas.Layout("?", 0, 0), atlas.Layout("€", 0, 0))
	assert.Empty(t, atlas.Layout("   ", 0, 0))
}

func TestLayoutUVsInsideAtlas(t *testing.T) {
	atlas := defaultFont(t)
	for _, q := range atlas.Layout("Hello, world!", 0, 0) {
		for _, uv := range []float32{q.UVMin[0], q.UVMin[1], q.UVMax[0], q.UVMax[1]} {
			assert.GreaterOrEqual(t, uv, float32(0))
			assert.LessOrEqual(t, uv, float32(1))
		}
		assert.Less(t, q.Min[1], q.Max[1])
		assert.Greater(t, q.UVMin[1], q.UVMax[1], "atlas rows run top down")
	}
}
