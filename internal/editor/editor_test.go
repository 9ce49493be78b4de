package editor

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/asset"
	"lumen/internal/config"
	"lumen/internal/events"
	"lumen/internal/framegraph"
	"lumen/internal/framegraph/passes"
	"lumen/internal/gfx/nullgfx"
	"lumen/internal/render/recording"
	"lumen/internal/scene"
)

type harness struct {
	ed  *Editor
	dev *nullgfx.Device
	r3d *recording.Renderer
	r2d *recording.Renderer2D
}

func newHarness(t *testing.T, hotReload bool) *harness {
	t.Helper()
	config.ResetRenderSettings()
	t.Cleanup(config.ResetRenderSettings)

	project, err := config.LoadProject(t.TempDir())
	require.NoError(t, err)
	project.Window.Width, project.Window.Height = 320, 200
	project.Renderer.ShadowMapSize = 64
	project.Renderer.BloomMips = 3
	project.Renderer.HotReload = hotReload

	h := &harness{
		dev: nullgfx.NewDevice(),
		r3d: recording.NewRenderer(),
		r2d: recording.NewRenderer2D(),
	}
	assets := asset.NewManager()
	add := func(name string, v any) asset.Handle {
		handle, err := assets.Add(name, v)
		require.NoError(t, err)
		return handle
	}
	b := Backend{
		Device:     h.dev,
		Renderer:   h.r3d,
		Renderer2D: h.r2d,
		Assets:     assets,
		Materials: Materials{
			Lit:         add("lit", nullgfx.NewMaterial("lit")),
			Shadow:      add("shadow", nullgfx.NewMaterial("shadow")),
			PointShadow: add("point_shadow", nullgfx.NewMaterial("point_shadow")),
			Downsample:  add("bloom_downsample", nullgfx.NewMaterial("bloom_downsample")),
			Upsample:    add("bloom_upsample", nullgfx.NewMaterial("bloom_upsample")),
			Tonemap:     add("tonemap", nullgfx.NewMaterial("tonemap")),
		},
	}
	h.ed, err = New(project, b)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.ed.Close() })
	return h
}

func (h *harness) primitive(t *testing.T, name string) float32 {
	t.Helper()
	p, ok := framegraph.PrimitiveResource[float32](h.ed.FrameRenderer(), name)
	require.True(t, ok, name)
	return p.Value
}

func (h *harness) main() *nullgfx.Framebuffer {
	return h.ed.Standard().Main.(*nullgfx.Framebuffer)
}

func TestNewRejectsIncompleteBackend(t *testing.T) {
	_, err := New(config.DefaultProject(), Backend{})
	assert.Error(t, err)
}

func TestNewBuildsStandardPipeline(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, 11, h.ed.FrameRenderer().PassCount())
	assert.Equal(t, passes.SerializedResources, h.ed.FrameRenderer().SerializedNames())
	assert.NotNil(t, h.ed.Final())
	assert.Positive(t, h.ed.Scene().Len())

	w, ht := h.ed.Final().Size()
	assert.Equal(t, [2]int{320, 200}, [2]int{w, ht})
}

func TestRenderDrawsDemoScene(t *testing.T) {
	h := newHarness(t, false)
	h.ed.Update(1.0 / 60)
	h.ed.Render()

	require.NotEmpty(t, h.r3d.Scenes)
	assert.Len(t, h.ed.FrameRenderer().Profiles(), 11)
	assert.Equal(t, 1, h.r2d.Count("text"), "label")
	assert.Equal(t, 1, h.r2d.Count("circle"), "ring")
	assert.Contains(t, h.ed.PanelText(), "Scene3D")
}

func TestSettingsReachPrimitivesOnUpdate(t *testing.T) {
	h := newHarness(t, false)
	config.SetExposure(2.5)
	config.SetGamma(1.8)
	assert.Equal(t, float32(1), h.primitive(t, passes.ResExposure), "not before Update")

	h.ed.Update(0)
	assert.Equal(t, float32(2.5), h.primitive(t, passes.ResExposure))
	assert.Equal(t, float32(1.8), h.primitive(t, passes.ResGamma))
}

func TestSaveAndReloadRoundTripSettings(t *testing.T) {
	h := newHarness(t, false)
	config.SetGamma(1.8)
	config.SetClearColour(mgl32.Vec4{0.5, 0.25, 0, 1})
	h.ed.Update(0)
	require.NoError(t, h.ed.Save())
	assert.FileExists(t, h.ed.Project().ResourceConfigPath())

	config.SetGamma(2.4)
	config.SetClearColour(mgl32.Vec4{0, 0, 0, 1})
	h.ed.Update(0)
	require.NoError(t, h.ed.Reload())

	assert.InDelta(t, 1.8, config.GetGamma(), 1e-6)
	assert.InDelta(t, 1.8, h.primitive(t, passes.ResGamma), 1e-6)
	assert.Equal(t, mgl32.Vec4{0.5, 0.25, 0, 1}, config.GetClearColour())
}

func TestReloadWithoutFileFails(t *testing.T) {
	h := newHarness(t, false)
	assert.Error(t, h.ed.Reload())
}

func TestNewAppliesSavedResourceConfig(t *testing.T) {
	h := newHarness(t, false)
	config.SetExposure(3)
	h.ed.Update(0)
	require.NoError(t, h.ed.Save())

	config.ResetRenderSettings()
	project := h.ed.Project()
	project.Renderer.Exposure = 1
	again, err := New(project, h.ed.backend)
	require.NoError(t, err)
	defer again.Close()

	assert.InDelta(t, 3, config.GetExposure(), 1e-6)
	p, _ := framegraph.PrimitiveResource[float32](again.FrameRenderer(), passes.ResExposure)
	assert.InDelta(t, 3, p.Value, 1e-6)
}

func TestHotReloadAppliesBetweenFrames(t *testing.T) {
	h := newHarness(t, true)
	require.NotNil(t, h.ed.watcher)

	config.SetGamma(1.5)
	h.ed.Update(0)
	require.NoError(t, h.ed.Save())

	select {
	case <-h.ed.watcher.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for the saved resource config")
	}
	config.SetGamma(2.9)
	h.ed.Update(0)

	assert.InDelta(t, 1.5, config.GetGamma(), 1e-6)
	assert.InDelta(t, 1.5, h.primitive(t, passes.ResGamma), 1e-6)
}

func TestFileChangedForOtherPathIsIgnored(t *testing.T) {
	h := newHarness(t, false)
	ev := &events.FileChanged{Path: filepath.Join(t.TempDir(), "other.yaml")}
	h.ed.OnEvent(ev)
	assert.False(t, ev.IsHandled())
}

func TestPickSelectsEntityUnderCursor(t *testing.T) {
	h := newHarness(t, false)
	h.ed.Render()
	crate, ok := h.ed.Scene().FindByName("Crate")
	require.True(t, ok)

	h.main().Pixel = int32(crate.ID())
	ev := &events.MouseButtonPressed{Button: MouseButtonLeft, X: 10, Y: 20}
	h.ed.OnEvent(ev)
	assert.True(t, ev.IsHandled())
	assert.Equal(t, crate, h.ed.Selected())

	h.main().Pixel = -1
	assert.Equal(t, scene.Entity{}, h.ed.Pick(10, 20))
	assert.False(t, h.ed.Selected().Valid())
}

func TestPickOutsideViewportKeepsSelection(t *testing.T) {
	h := newHarness(t, false)
	sun, _ := h.ed.Scene().FindByName("Sun")
	h.ed.Select(sun)
	h.main().Pixel = -1
	assert.Equal(t, sun, h.ed.Pick(-1, 5))
	assert.Equal(t, sun, h.ed.Pick(5, 200))
}

func TestSelectNextWraps(t *testing.T) {
	h := newHarness(t, false)
	all := h.ed.Scene().Entities()
	assert.Equal(t, all[0], h.ed.SelectNext())
	assert.Equal(t, all[1], h.ed.SelectNext())

	h.ed.Select(all[len(all)-1])
	assert.Equal(t, all[0], h.ed.SelectNext())

	h.ed.OnEvent(&events.KeyPressed{Key: KeyEscape})
	assert.False(t, h.ed.Selected().Valid())
}

func TestWindowResizeReachesPipeline(t *testing.T) {
	h := newHarness(t, false)
	h.ed.OnEvent(&events.WindowResize{Width: 640, Height: 480})

	w, ht := h.ed.Standard().Main.Size()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, ht})
	w, ht = h.ed.Final().Size()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, ht})
	assert.InDelta(t, 640.0/480.0, h.ed.Standard().Camera.AspectRatio, 1e-6)

	h.ed.OnEvent(&events.WindowResize{Width: 0, Height: 0})
	w, ht = h.ed.Standard().Main.Size()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, ht}, "minimised window keeps the last size")
}

func TestKeyBindings(t *testing.T) {
	h := newHarness(t, false)

	h.ed.OnEvent(&events.KeyPressed{Key: KeyC})
	h.ed.Update(0)
	show, ok := framegraph.PrimitiveResource[bool](h.ed.FrameRenderer(), passes.ResShowColliders)
	require.True(t, ok)
	assert.True(t, show.Value)

	h.ed.OnEvent(&events.KeyPressed{Key: KeyP})
	assert.True(t, h.ed.PanelShown())

	h.ed.OnEvent(&events.KeyPressed{Key: KeyS, Mods: ModControl})
	assert.FileExists(t, h.ed.Project().ResourceConfigPath())

	yaw := h.ed.Camera().Yaw
	ev := &events.KeyPressed{Key: KeyRight}
	h.ed.OnEvent(ev)
	assert.True(t, ev.IsHandled())
	assert.Equal(t, wrapDegrees(yaw+orbitStep), h.ed.Camera().Yaw)

	unbound := &events.KeyPressed{Key: 'Z'}
	h.ed.OnEvent(unbound)
	assert.False(t, unbound.IsHandled())
}

func TestHeldKeysOrbitCamera(t *testing.T) {
	h := newHarness(t, false)
	cam := h.ed.Camera()
	yaw, pitch := cam.Yaw, cam.Pitch

	press := &events.KeyPressed{Key: KeyD}
	h.ed.OnEvent(press)
	assert.True(t, press.IsHandled())
	h.ed.OnEvent(&events.KeyPressed{Key: KeyE})
	h.ed.Update(0.5)
	assert.InDelta(t, wrapDegrees(yaw+orbitSpeed*0.5), cam.Yaw, 1e-3)
	assert.InDelta(t, pitch+orbitSpeed*0.5, cam.Pitch, 1e-3)

	h.ed.OnEvent(&events.KeyReleased{Key: KeyE})
	h.ed.OnEvent(&events.KeyPressed{Key: KeyLeftShift})
	yaw, pitch = cam.Yaw, cam.Pitch
	h.ed.Update(0.1)
	assert.InDelta(t, wrapDegrees(yaw+orbitSpeed*fastFactor*0.1), cam.Yaw, 1e-3)
	assert.Equal(t, pitch, cam.Pitch)

	h.ed.ReleaseInput()
	yaw = cam.Yaw
	h.ed.Update(0.1)
	assert.Equal(t, yaw, cam.Yaw)
}

func TestSpaceTogglesAutoRotate(t *testing.T) {
	h := newHarness(t, false)
	h.ed.OnEvent(&events.KeyPressed{Key: KeySpace})
	h.ed.Update(0)
	assert.Equal(t, float32(autoRotate), h.ed.Camera().AutoRotate)

	h.ed.OnEvent(&events.KeyPressed{Key: KeySpace, Repeat: true})
	h.ed.Update(0)
	assert.Equal(t, float32(autoRotate), h.ed.Camera().AutoRotate, "repeat while held")

	h.ed.OnEvent(&events.KeyReleased{Key: KeySpace})
	h.ed.OnEvent(&events.KeyPressed{Key: KeySpace})
	h.ed.Update(0)
	assert.Zero(t, h.ed.Camera().AutoRotate)
}

func TestRenderPanelOnlyWhenShown(t *testing.T) {
	h := newHarness(t, false)
	h.ed.Render()
	h.r2d.Reset()

	h.ed.RenderPanel()
	assert.Empty(t, h.r2d.Prims)

	h.ed.ShowPanel(true)
	h.ed.RenderPanel()
	require.Equal(t, 1, h.r2d.Count("text"))
	text := h.r2d.Prims[0].Text
	assert.True(t, strings.HasPrefix(text, h.ed.Project().Name))
	assert.Contains(t, text, "Tonemap")
}
