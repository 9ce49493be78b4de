package opengl

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/gfx/nullgfx"
)

func TestQuadIndices(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}, quadIndices(2))
	assert.Len(t, quadIndices(maxQuads), maxQuadIndices)
}

func TestQuadBatchTextureSlots(t *testing.T) {
	white := nullgfx.NewTexture("white", 1, 1)
	var b quadBatch
	b.reset(white)

	slot, ok := b.slot(white)
	require.True(t, ok)
	assert.Equal(t, float32(0), slot)

	first := nullgfx.NewTexture("t0", 4, 4)
	slot, ok = b.slot(first)
	require.True(t, ok)
	assert.Equal(t, float32(1), slot)
	slot, _ = b.slot(first)
	assert.Equal(t, float32(1), slot, "same texture reuses its slot")

	for i := 2; i < maxTextureSlots; i++ {
		_, ok = b.slot(nullgfx.NewTexture(fmt.Sprintf("t%d", i), 4, 4))
		require.True(t, ok, "slot %d", i)
	}
	_, ok = b.slot(nullgfx.NewTexture("overflow", 4, 4))
	assert.False(t, ok)

	b.reset(white)
	assert.Len(t, b.textures, 1)
}

func TestQuadBatchAdd(t *testing.T) {
	var b quadBatch
	b.reset(nullgfx.NewTexture("white", 1, 1))
	b.add(mgl32.Translate3D(10, 0, 0), mgl32.Vec4{1, 0, 0, 1}, 3, 2, 42)

	require.Equal(t, 1, b.quads())
	assert.False(t, b.full())
	v := b.vertices
	assert.Equal(t, mgl32.Vec3{9.5, -0.5, 0}, v[0].Position)
	assert.Equal(t, mgl32.Vec3{10.5, 0.5, 0}, v[2].Position)
	for i := range v {
		assert.Equal(t, quadUVs[i], v[i].UV)
		assert.Equal(t, float32(3), v[i].TexIndex)
		assert.Equal(t, float32(2), v[i].Tiling)
		assert.Equal(t, int32(42), v[i].EntityID)
	}
}

func TestAppendCircleLocalSpace(t *testing.T) {
	out := appendCircle(nil, mgl32.Scale3D(4, 4, 1), mgl32.Vec4{1, 1, 1, 1}, 0.25, 0.01, 7)
	require.Len(t, out, 4)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, out[0].LocalPosition)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, out[2].LocalPosition)
	assert.Equal(t, mgl32.Vec3{2, 2, 0}, out[2].WorldPosition)
	assert.Equal(t, float32(0.25), out[1].Thickness)
	assert.Equal(t, int32(7), out[3].EntityID)
}

func TestRectCorners(t *testing.T) {
	c := rectCorners(mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, [4]mgl32.Vec3{{0.5, 1.5, 3}, {1.5, 1.5, 3}, {1.5, 2.5, 3}, {0.5, 2.5, 3}}, c)
}

func TestAppendGlyphs(t *testing.T) {
	q := GlyphQuad{
		Min: mgl32.Vec2{0, 0}, Max: mgl32.Vec2{1, 2},
		UVMin: mgl32.Vec2{0, 0.5}, UVMax: mgl32.Vec2{0.25, 0},
	}
	out := appendGlyphs(nil, []GlyphQuad{q, q}, mgl32.Translate3D(5, 0, 0), mgl32.Vec4{0, 1, 0, 1}, -1)
	require.Len(t, out, 8)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, out[0].Position)
	assert.Equal(t, mgl32.Vec3{6, 2, 0}, out[2].Position)
	assert.Equal(t, mgl32.Vec2{0.25, 0}, out[2].UV)
	assert.Equal(t, mgl32.Vec2{0, 0}, out[3].UV)
	assert.Equal(t, int32(-1), out[7].EntityID)
}
