package passes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"lumen/internal/asset"
	"lumen/internal/framegraph"
	"lumen/internal/gfx/nullgfx"
	"lumen/internal/render/recording"
	"lumen/internal/scene"
)

// traceMaterial remembers every integer it was given, in order.
type traceMaterial struct {
	*nullgfx.Material
	ints []int32
}

func (m *traceMaterial) SetInt(name string, v int32) {
	m.Material.SetInt(name, v)
	m.ints = append(m.ints, v)
}

type rig struct {
	dev    *nullgfx.Device
	r3d    *recording.Renderer
	r2d    *recording.Renderer2D
	assets *asset.Manager
	fr     *framegraph.FrameRenderer
	st     *Standard
	scene  *scene.Scene

	shadow, pointShadow, tonemap *nullgfx.Material
	down, up                     *traceMaterial
	env                          *asset.EnvironmentMap
}

func newRig(t testing.TB) *rig {
	t.Helper()
	r := &rig{
		dev:         nullgfx.NewDevice(),
		r3d:         recording.NewRenderer(),
		r2d:         recording.NewRenderer2D(),
		assets:      asset.NewManager(),
		scene:       scene.New(),
		shadow:      nullgfx.NewMaterial("shadow"),
		pointShadow: nullgfx.NewMaterial("point_shadow"),
		tonemap:     nullgfx.NewMaterial("tonemap"),
		down:        &traceMaterial{Material: nullgfx.NewMaterial("bloom_downsample")},
		up:          &traceMaterial{Material: nullgfx.NewMaterial("bloom_upsample")},
		env: &asset.EnvironmentMap{
			Base:        nullgfx.NewTexture("sky", 512, 512),
			Irradiance:  nullgfx.NewTexture("irradiance", 32, 32),
			Prefiltered: nullgfx.NewTexture("prefiltered", 128, 128),
		},
	}
	r.fr = framegraph.New(framegraph.Options{
		Name:       "Editor",
		Device:     r.dev,
		Renderer:   r.r3d,
		Renderer2D: r.r2d,
		Assets:     r.assets,
	})

	handle := func(name string, v any) asset.Handle {
		h, err := r.assets.Add(name, v)
		require.NoError(t, err)
		return h
	}
	cfg := StandardConfig{
		Width:               800,
		Height:              600,
		ShadowMapSize:       256,
		BloomMips:           5,
		ClearColour:         mgl32.Vec4{0.1, 0.1, 0.1, 1},
		ShadowMaterial:      handle("shadow", r.shadow),
		PointShadowMaterial: handle("point_shadow", r.pointShadow),
		DownsampleMaterial:  handle("down", r.down),
		UpsampleMaterial:    handle("up", r.up),
		TonemapMaterial:     handle("tonemap", r.tonemap),
		EnvironmentMap:      handle("sky", r.env),
	}
	st, err := BuildStandard(r.fr, cfg)
	require.NoError(t, err)
	r.st = st
	return r
}

func (r *rig) render() {
	cam := mgl32.Translate3D(0, 2, 10)
	r.fr.RenderFrame(r.scene, r.st.Camera, cam)
}

func (r *rig) main() *nullgfx.Framebuffer     { return r.st.Main.(*nullgfx.Framebuffer) }
func (r *rig) shadowFB() *nullgfx.Framebuffer { return r.st.Shadow.(*nullgfx.Framebuffer) }
func (r *rig) bloomFB() *nullgfx.Framebuffer  { return r.st.Bloom.(*nullgfx.Framebuffer) }

func (r *rig) attachment(t testing.TB, name string) *nullgfx.Attachment {
	t.Helper()
	ac, ok := framegraph.ResourceAs[*framegraph.AttachmentComponent](r.fr, name)
	require.True(t, ok, name)
	return ac.Attachment.(*nullgfx.Attachment)
}

func spot(s *scene.Scene, name string, x float32, cast bool) scene.Entity {
	e := s.CreateEntity(name)
	scene.Get[scene.Transform](e).Translation = mgl32.Vec3{x, 3, 0}
	sh := scene.DefaultShadow()
	sh.CastShadows = cast
	scene.Add(e, scene.SpotLight{
		LightColour: scene.DefaultLightColour(),
		Shadow:      sh,
		Range:       15,
		InnerCutoff: 20,
		OuterCutoff: 30,
	})
	return e
}

func point(s *scene.Scene, name string, x float32) scene.Entity {
	e := s.CreateEntity(name)
	scene.Get[scene.Transform](e).Translation = mgl32.Vec3{x, 1, 0}
	scene.Add(e, scene.PointLight{LightColour: scene.DefaultLightColour(), Shadow: scene.DefaultShadow(), Range: 8})
	return e
}

func directional(s *scene.Scene, name string) scene.Entity {
	e := s.CreateEntity(name)
	scene.Get[scene.Transform](e).Rotation = mgl32.Vec3{mgl32.DegToRad(-45), 0, 0}
	scene.Add(e, scene.DirectionalLight{
		LightColour: scene.DefaultLightColour(),
		Shadow:      scene.DefaultShadow(),
		FrustumSize: 20,
		Distance:    40,
	})
	return e
}

func cube(s *scene.Scene, name string, cast bool) scene.Entity {
	e := s.CreateEntity(name)
	scene.Add(e, scene.MeshRenderer{CastShadows: cast, DepthTest: true})
	return e
}
