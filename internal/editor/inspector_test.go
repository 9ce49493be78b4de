package editor

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"lumen/internal/asset"
	"lumen/internal/framegraph"
	"lumen/internal/gfx/nullgfx"
	"lumen/internal/render"
)

func TestTextInspector(t *testing.T) {
	assets := asset.NewManager()
	h, err := assets.Add("tonemap", nullgfx.NewMaterial("tonemap"))
	assert.NoError(t, err)

	in := &TextInspector{Assets: assets, Indent: "- "}
	in.Property("Gamma", float32(2.2))
	in.Property("Colour", mgl32.Vec4{1, 0.5, 0, 1})
	in.Handle("Material", asset.KindMaterial, h)
	in.Handle("Environment", asset.KindEnvironmentMap, asset.Invalid)
	in.Handle("Texture", asset.KindTexture, h)

	assert.Equal(t, "- Gamma: 2.2\n"+
		"- Colour: (1, 0.5, 0, 1)\n"+
		"- Material: Material #1\n"+
		"- Environment: EnvironmentMap #0 (unset)\n"+
		"- Texture: Texture #1 (missing)\n", in.String())
}

func TestResourcePanelMarksSavedResources(t *testing.T) {
	h := newHarness(t, false)
	text := ResourcePanel(h.ed.FrameRenderer())

	assert.Contains(t, text, "Gamma [PrimitiveType] *\n  Float: 2.2\n")
	assert.Contains(t, text, "MainFramebuffer [Framebuffer]\n  Size: 320x200\n")
	assert.Contains(t, text, "SelectedEntity [PrimitiveType]\n  Entity: <none>\n")
	assert.Contains(t, text, "BloomMipChain [PrimitiveType]\n")
}

func TestProfilePanel(t *testing.T) {
	text := ProfilePanel([]framegraph.PassProfile{
		{Name: "Scene3D", CPUTime: 1500 * time.Microsecond, Stats: render.Stats{DrawCalls: 3, Meshes: 3, Vertices: 108}},
		{Name: "Overlay", Stats: render.Stats{DrawCalls: 1, Lines: 4, Vertices: 8}},
	})
	assert.Contains(t, text, "Scene3D")
	assert.Contains(t, text, "1.5ms")
	assert.Contains(t, text, "verts 108")
	assert.Contains(t, text, "total: 4 draws, 3 meshes, 0 quads, 0 circles, 4 lines\n")
}
