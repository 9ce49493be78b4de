package passes

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/asset"
	"lumen/internal/events"
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/gfx/nullgfx"
	"lumen/internal/render/recording"
	"lumen/internal/scene"
)

func TestBuildStandardRegistersPipeline(t *testing.T) {
	r := newRig(t)

	var names []string
	for _, p := range r.fr.Passes() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"FrameUniforms", "Clear",
		"DirectionalShadows", "SpotShadows", "PointShadows",
		"Scene3D", "Scene2D",
		"BloomDownsample", "BloomUpsample",
		"Tonemap", "Overlay",
	}, names)
	assert.Equal(t, SerializedResources, r.fr.SerializedNames())
	assert.Same(t, r.st.HDR, r.main().ColourAttachment(0))
}

func TestStandardFrameBindsEachTargetRunOnce(t *testing.T) {
	r := newRig(t)
	directional(r.scene, "sun")
	cube(r.scene, "crate", true)
	r.render()

	main, shadow, bloom := r.main(), r.shadowFB(), r.bloomFB()
	assert.Equal(t, []string{
		"bind " + main.Name,
		"bind " + shadow.Name,
		"bind " + main.Name,
		"bind " + bloom.Name,
		"bind " + main.Name,
		"unbind " + main.Name,
	}, r.dev.Log)
	assert.Equal(t, 3, main.BindCount)
	assert.Equal(t, 1, shadow.BindCount)
	assert.Equal(t, 1, bloom.BindCount)
	assert.Len(t, r.fr.Profiles(), 11)
}

func TestClearAndTonemapSwapColourTarget(t *testing.T) {
	r := newRig(t)
	r.render()

	main := r.main()
	assert.Same(t, r.st.Final, main.ColourAttachment(0), "tonemap leaves final attached")
	require.NotEmpty(t, main.Clears)
	clr := main.Clears[0]
	assert.Equal(t, gfx.ClearColour|gfx.ClearDepth, clr.Mask)
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.1, 1}, clr.Colour)
	assert.Same(t, r.st.HDR, clr.Target)

	assert.Equal(t, float32(2.2), r.tonemap.Floats["u_Gamma"])
	assert.Equal(t, float32(1), r.tonemap.Floats["u_Exposure"])
	assert.Equal(t, int32(1), r.tonemap.Ints["u_BloomEnabled"])

	// the next frame starts from the HDR target again
	r.render()
	assert.Same(t, r.st.HDR, main.Clears[1].Target)
}

func TestScene3DBindsShadowAndEnvironmentMaps(t *testing.T) {
	r := newRig(t)
	r.render()

	assert.Contains(t, r.attachment(t, ResDirectionalShadows).Binds, UnitDirectionalShadow)
	assert.Contains(t, r.attachment(t, ResSpotShadows).Binds, UnitSpotShadow)
	assert.Contains(t, r.attachment(t, ResPointShadows).Binds, UnitPointShadow)
	assert.Equal(t, []uint32{UnitEnvironment}, r.env.Base.(*nullgfx.Texture).Binds)
	assert.Equal(t, []uint32{UnitIrradiance}, r.env.Irradiance.(*nullgfx.Texture).Binds)
	assert.Equal(t, []uint32{UnitPrefiltered}, r.env.Prefiltered.(*nullgfx.Texture).Binds)

	// an environment map that no longer resolves is skipped, not fatal
	env, ok := framegraph.ResourceAs[*framegraph.EnvironmentMapComponent](r.fr, ResEnvironmentMap)
	require.True(t, ok)
	env.Handle = asset.Handle(999)
	cube(r.scene, "crate", false)
	r.render()
	assert.Len(t, r.env.Base.(*nullgfx.Texture).Binds, 1)
	lit := r.r3d.Scenes[len(r.r3d.Scenes)-1]
	assert.Len(t, lit.Meshes, 1)
}

func TestScene3DUsesGammaAndExposure(t *testing.T) {
	r := newRig(t)
	exposure, ok := framegraph.PrimitiveResource[float32](r.fr, ResExposure)
	require.True(t, ok)
	exposure.Value = 0.5

	mat := nullgfx.NewMaterial("pbr")
	h, err := r.assets.Add("pbr", mat)
	require.NoError(t, err)
	e := cube(r.scene, "lit", false)
	scene.Get[scene.MeshRenderer](e).Material = h

	r.render()
	lit := r.r3d.Scenes[len(r.r3d.Scenes)-1]
	assert.Equal(t, float32(0.5), lit.Params.Exposure)
	assert.Equal(t, float32(2.2), lit.Params.Gamma)
	require.Len(t, lit.Meshes, 1)
	assert.Same(t, mat, lit.Meshes[0].Material)
	assert.Equal(t, int32(e.ID()), lit.Meshes[0].EntityID)
}

func TestScene2DDrawsRenderables(t *testing.T) {
	r := newRig(t)
	tex := nullgfx.NewTexture("checker", 8, 8)
	th, err := r.assets.Add("checker", tex)
	require.NoError(t, err)

	flat := r.scene.CreateEntity("flat")
	scene.Add(flat, scene.SpriteRenderer{Colour: mgl32.Vec4{1, 0, 0, 1}})
	textured := r.scene.CreateEntity("textured")
	scene.Add(textured, scene.SpriteRenderer{Colour: mgl32.Vec4{1, 1, 1, 1}, Texture: th, Tiling: 2})
	ring := r.scene.CreateEntity("ring")
	scene.Add(ring, scene.CircleRenderer{Colour: mgl32.Vec4{0, 0, 1, 1}, Thickness: 0.1})
	label := r.scene.CreateEntity("label")
	scene.Add(label, scene.TextRenderer{Text: "hello", Colour: mgl32.Vec4{1, 1, 1, 1}})
	empty := r.scene.CreateEntity("empty")
	scene.Add(empty, scene.TextRenderer{})

	r.render()
	assert.Equal(t, 1, r.r2d.Count("quad"))
	assert.Equal(t, 1, r.r2d.Count("sprite"))
	assert.Equal(t, 1, r.r2d.Count("circle"))
	assert.Equal(t, 1, r.r2d.Count("text"))

	for _, p := range r.r2d.Prims {
		if p.Kind == "sprite" {
			assert.Same(t, tex, p.Texture)
			assert.Equal(t, int32(textured.ID()), p.EntityID)
		}
	}

	var profile framegraph.PassProfile
	for _, p := range r.fr.Profiles() {
		if p.Name == "Scene2D" {
			profile = p
		}
	}
	// quad batch (flat + sprite), circle batch, text batch
	assert.Equal(t, 3, profile.Stats.DrawCalls)
}

func TestEmptyAttachmentsAreSkipped(t *testing.T) {
	r := newRig(t)
	directional(r.scene, "sun")
	cube(r.scene, "crate", true)

	shadows, ok := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, ResDirectionalShadows)
	require.True(t, ok)
	shadows.Attachment = nil
	bloom, ok := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, ResBloomTexture)
	require.True(t, ok)
	bloom.Attachment = nil

	require.NotPanics(t, r.render)
	assert.Same(t, r.st.Final, r.main().ColourAttachment(0), "tonemap still ran")
	assert.Equal(t, float32(2.2), r.tonemap.Floats["u_Gamma"])
	assert.Equal(t, int32(0), r.tonemap.Ints["u_BloomEnabled"])

	hdr, ok := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, ResHDR)
	require.True(t, ok)
	hdr.Attachment = nil
	assert.NotPanics(t, r.render)
}

func TestViewportResize(t *testing.T) {
	r := newRig(t)
	oldMip := r.st.Chain.Mip(0).Attachment

	r.fr.OnEvent(&events.ViewportResize{Width: 1024, Height: 768})

	vp, ok := framegraph.PrimitiveResource[framegraph.IVec2](r.fr, ResViewportSize)
	require.True(t, ok)
	assert.Equal(t, framegraph.IVec2{1024, 768}, vp.Value)
	assert.InDelta(t, 1024.0/768.0, r.st.Camera.AspectRatio, 1e-5)

	for _, a := range []gfx.Attachment{r.st.HDR, r.st.Final, r.st.EntityID} {
		w, h := a.Size()
		assert.Equal(t, [2]int{1024, 768}, [2]int{w, h})
	}
	w, h := r.main().Size()
	assert.Equal(t, [2]int{1024, 768}, [2]int{w, h})

	require.Equal(t, 5, r.st.Chain.Len())
	assert.Equal(t, 512, r.st.Chain.Mip(0).Width)
	assert.Same(t, oldMip, r.st.Chain.Mip(0).Attachment, "same-length chain resizes in place")
	bloom, _ := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, ResBloomTexture)
	assert.Same(t, r.st.Chain.Mip(0).Attachment, bloom.Attachment)

	// shadow maps do not follow the viewport
	sw, _ := r.attachment(t, ResSpotShadows).Size()
	assert.Equal(t, 256, sw)

	// minimised windows report 0x0
	assert.False(t, r.st.Resizer.Resize(0, 0))
	assert.False(t, r.st.Resizer.Resize(1024, 768))
	assert.Equal(t, framegraph.IVec2{1024, 768}, vp.Value)
}

func TestRepeatedResizeKeepsAttachmentCount(t *testing.T) {
	r := newRig(t)
	r.render()
	before := len(r.dev.Attachments)

	for i := 0; i < 100; i++ {
		require.True(t, r.st.Resizer.Resize(640+i, 480+i))
	}
	r.render()
	assert.Len(t, r.dev.Attachments, before)
	assert.Equal(t, MipSize(739, 0), r.st.Chain.Mip(0).Width)
}

func TestResizeRebuildsChainWhenLengthChanges(t *testing.T) {
	r := newRig(t)
	before := len(r.dev.Attachments)
	old := r.st.Chain.Mips()

	r.st.Resizer.BloomMips = 3
	require.True(t, r.st.Resizer.Resize(320, 240))
	require.Equal(t, 3, r.st.Chain.Len())
	assert.Len(t, r.dev.Attachments, before-2)
	for _, m := range old {
		assert.True(t, m.Attachment.(*nullgfx.Attachment).Deleted)
	}
	bloom, _ := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, ResBloomTexture)
	assert.Same(t, r.st.Chain.Mip(0).Attachment, bloom.Attachment)
}

func TestFrameUniforms(t *testing.T) {
	r := newRig(t)
	r.render()

	ubo, ok := framegraph.ResourceAs[*framegraph.UBOComponent](r.fr, ResFrameUniforms)
	require.True(t, ok)
	buf := ubo.Buffer.(*nullgfx.UniformBuffer)
	require.Len(t, buf.Data, FrameUniformsSize)
	assert.Equal(t, []uint32{FrameUniformsBinding}, buf.Bindings)

	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf.Data[i*4:]))
	}
	// camera position, then viewport width, height and frame number
	assert.Equal(t, []float32{0, 2, 10, 1}, []float32{f(32), f(33), f(34), f(35)})
	assert.Equal(t, []float32{800, 600, 1}, []float32{f(36), f(37), f(38)})
}

func TestMissingMaterialDegradesFrame(t *testing.T) {
	r := newRig(t)
	tm, ok := framegraph.ResourceAs[*framegraph.MaterialComponent](r.fr, ResTonemapMaterial)
	require.True(t, ok)
	tm.Handle = 0
	r.render()

	assert.Same(t, r.st.HDR, r.main().ColourAttachment(0), "tonemap skipped")
	assert.Len(t, r.fr.Profiles(), 11)
}

func TestBuildStandardWithoutDevice(t *testing.T) {
	fr := framegraph.New(framegraph.Options{Renderer: recording.NewRenderer(), Renderer2D: recording.NewRenderer2D()})
	_, err := BuildStandard(fr, StandardConfig{})
	assert.Error(t, err)
}

func BenchmarkStandardFrame(b *testing.B) {
	r := newRig(b)
	for i := 0; i < 4; i++ {
		spot(r.scene, "spot", float32(i), true)
		point(r.scene, "point", float32(i))
		cube(r.scene, "crate", true)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.render()
		r.r3d.Reset()
		r.r2d.Reset()
	}
}
