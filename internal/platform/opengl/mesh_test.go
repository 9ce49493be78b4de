package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/gfx"
)

func vertexAt(data []float32, i int) (pos, normal mgl32.Vec3) {
	v := data[i*MeshStride:]
	return mgl32.Vec3{v[0], v[1], v[2]}, mgl32.Vec3{v[3], v[4], v[5]}
}

func TestCubeVerticesWindOutwards(t *testing.T) {
	data := CubeVertices()
	require.Len(t, data, 36*MeshStride)
	for tri := 0; tri < 12; tri++ {
		a, n := vertexAt(data, tri*3)
		b, _ := vertexAt(data, tri*3+1)
		c, _ := vertexAt(data, tri*3+2)
		face := b.Sub(a).Cross(c.Sub(a))
		assert.Positive(t, face.Dot(n), "triangle %d faces its normal", tri)
		assert.Positive(t, a.Dot(n), "triangle %d lies on the outside", tri)
	}
}

func TestQuadVerticesFaceZ(t *testing.T) {
	data := QuadVertices()
	require.Len(t, data, 6*MeshStride)
	for tri := 0; tri < 2; tri++ {
		a, n := vertexAt(data, tri*3)
		b, _ := vertexAt(data, tri*3+1)
		c, _ := vertexAt(data, tri*3+2)
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)
		assert.Positive(t, b.Sub(a).Cross(c.Sub(a)).Z())
	}
}

func TestAttachmentFormatTable(t *testing.T) {
	for f := gfx.FormatRGBA8; f <= gfx.FormatDepthCubemapArray; f++ {
		_, ok := attachmentFormats[f]
		assert.True(t, ok, "format %s has a GL mapping", f)
	}
}

func TestLayerCount(t *testing.T) {
	assert.Equal(t, 1, layerCount(gfx.AttachmentSpec{Format: gfx.FormatRGBA8}))
	assert.Equal(t, 4, layerCount(gfx.AttachmentSpec{Format: gfx.FormatDepthArray, Layers: 4}))
	assert.Equal(t, 48, layerCount(gfx.AttachmentSpec{Format: gfx.FormatDepthCubemapArray, Layers: 8}))
}

func TestMaterialParams(t *testing.T) {
	m := NewMaterial(&Shader{Name: "lit"})
	m.SetFloat("u_Roughness", 0.5)
	m.SetVec4("u_Albedo", mgl32.Vec4{1, 1, 1, 1})
	m.SetTexture("u_Environment", 5)
	m.SetInt("u_EntityID", 3)

	assert.Equal(t, "lit", m.Shader())
	assert.Equal(t, []string{"u_Albedo", "u_EntityID", "u_Environment", "u_Roughness"}, m.Params())

	v, ok := m.Float("u_Roughness")
	assert.True(t, ok)
	assert.Equal(t, float32(0.5), v)
	_, ok = m.Float("u_Metallic")
	assert.False(t, ok)
}
