package passes

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/scene"
)

// Resource names registered by BuildStandard.
const (
	ResMainFramebuffer     = "MainFramebuffer"
	ResShadowFramebuffer   = "ShadowFramebuffer"
	ResBloomFramebuffer    = "BloomFramebuffer"
	ResCamera              = "Camera"
	ResFrameUniforms       = "FrameUniforms"
	ResViewportSize        = "ViewportSize"
	ResHDR                 = "HDRAttachment"
	ResFinal               = "FinalAttachment"
	ResEntityID            = "EntityIDAttachment"
	ResDirectionalShadows  = "DirectionalShadowMap"
	ResSpotShadows         = "SpotShadowMap"
	ResPointShadows        = "PointShadowMap"
	ResShadowMaterial      = "ShadowMaterial"
	ResPointShadowMaterial = "PointShadowMaterial"
	ResEnvironmentMap      = "EnvironmentMap"
	ResGamma               = "Gamma"
	ResExposure            = "Exposure"
	ResClearColour         = "ClearColour"
	ResBloomChain          = "BloomMipChain"
	ResBloomTexture        = "BloomTexture"
	ResDownsampleMaterial  = "BloomDownsampleMaterial"
	ResUpsampleMaterial    = "BloomUpsampleMaterial"
	ResBloomFilterRadius   = "BloomFilterRadius"
	ResTonemapMaterial     = "TonemapMaterial"
	ResShowColliders       = "ShowColliders"
	ResSelectedEntity      = "SelectedEntity"
)

// StandardConfig sizes and seeds the standard pipeline. Zero fields take
// the defaults noted.
type StandardConfig struct {
	Width, Height int
	// ShadowMapSize is the edge of every shadow layer; 2048.
	ShadowMapSize int
	// BloomMips is the bloom chain length; 6.
	BloomMips int

	Gamma             float32 // 2.2
	Exposure          float32 // 1
	BloomFilterRadius float32 // 0.005
	ClearColour       mgl32.Vec4
	ShowColliders     bool

	ShadowMaterial      asset.Handle
	PointShadowMaterial asset.Handle
	DownsampleMaterial  asset.Handle
	UpsampleMaterial    asset.Handle
	TonemapMaterial     asset.Handle
	EnvironmentMap      asset.Handle
}

func (c *StandardConfig) defaults() {
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.ShadowMapSize <= 0 {
		c.ShadowMapSize = 2048
	}
	if c.BloomMips <= 0 {
		c.BloomMips = 6
	}
	if c.Gamma == 0 {
		c.Gamma = 2.2
	}
	if c.Exposure == 0 {
		c.Exposure = 1
	}
	if c.BloomFilterRadius == 0 {
		c.BloomFilterRadius = 0.005
	}
}

// Standard is what BuildStandard created, for the host to present and pick
// from.
type Standard struct {
	Main   gfx.Framebuffer
	Shadow gfx.Framebuffer
	Bloom  gfx.Framebuffer

	HDR      gfx.Attachment
	Final    gfx.Attachment
	EntityID gfx.Attachment

	Camera   *scene.Camera
	Chain    *BloomMipChain
	Selected *framegraph.Primitive[scene.Entity]
	Resizer  *ViewportResizer
}

// SerializedResources are the names BuildStandard marks for saving.
var SerializedResources = []string{
	ResGamma,
	ResExposure,
	ResClearColour,
	ResBloomFilterRadius,
	ResShowColliders,
	ResEnvironmentMap,
	ResTonemapMaterial,
}

// BuildStandard creates the editor's render targets and registers the
// standard passes on fr in order: frame uniforms, clear, the three shadow
// passes, 3D scene, 2D scene, bloom down and up, tonemap, overlay. Shadow
// passes must precede the 3D pass that samples them. A failing
// registration leaves the rest of the pipeline in place; all failures are
// returned joined.
func BuildStandard(fr *framegraph.FrameRenderer, cfg StandardConfig) (*Standard, error) {
	cfg.defaults()
	dev := fr.Device()
	if dev == nil {
		return nil, errors.New("passes: frame renderer has no device")
	}

	st := &Standard{
		Main: dev.NewFramebuffer(gfx.FramebufferSpec{
			Width:  cfg.Width,
			Height: cfg.Height,
			Colour: []gfx.AttachmentSpec{
				{Format: gfx.FormatRGBA16F, Width: cfg.Width, Height: cfg.Height, MipLinear: true},
				{Format: gfx.FormatRedInteger, Width: cfg.Width, Height: cfg.Height},
			},
			Depth: &gfx.AttachmentSpec{Format: gfx.FormatDepth24Stencil8, Width: cfg.Width, Height: cfg.Height},
		}),
		Shadow: dev.NewFramebuffer(gfx.FramebufferSpec{Width: cfg.ShadowMapSize, Height: cfg.ShadowMapSize}),
		Bloom:  dev.NewFramebuffer(gfx.FramebufferSpec{Width: cfg.Width, Height: cfg.Height}),
		Final:  dev.NewAttachment(gfx.AttachmentSpec{Format: gfx.FormatRGBA8, Width: cfg.Width, Height: cfg.Height, MipLinear: true}),
		Camera: scene.NewCamera(cfg.Width, cfg.Height),
		Chain:  &BloomMipChain{},
	}
	st.HDR = st.Main.ColourAttachment(0)
	st.EntityID = st.Main.ColourAttachment(1)
	st.Chain.Init(dev, cfg.Width, cfg.Height, cfg.BloomMips)

	shadowSpec := func(format gfx.AttachmentFormat, layers, size int) gfx.AttachmentSpec {
		return gfx.AttachmentSpec{Format: format, Width: size, Height: size, Layers: layers}
	}
	dirShadows := dev.NewAttachment(shadowSpec(gfx.FormatDepthArray, MaxDirectionalLights, cfg.ShadowMapSize))
	spotShadows := dev.NewAttachment(shadowSpec(gfx.FormatDepthArray, MaxSpotLights, cfg.ShadowMapSize))
	pointShadows := dev.NewAttachment(shadowSpec(gfx.FormatDepthCubemapArray, MaxPointLights, cfg.ShadowMapSize/2))

	viewport := framegraph.NewPrimitive(framegraph.IVec2{int32(cfg.Width), int32(cfg.Height)})
	bloomTexture := &framegraph.AttachmentComponent{Attachment: st.Chain.Mip(0).Attachment}
	st.Selected = framegraph.NewPrimitive(scene.Entity{})

	var errs []error
	add := func(name string, c framegraph.Component) {
		if err := fr.AddResource(name, c); err != nil {
			errs = append(errs, err)
		}
	}
	add(ResMainFramebuffer, &framegraph.FramebufferComponent{Framebuffer: st.Main})
	add(ResShadowFramebuffer, &framegraph.FramebufferComponent{Framebuffer: st.Shadow})
	add(ResBloomFramebuffer, &framegraph.FramebufferComponent{Framebuffer: st.Bloom})
	add(ResCamera, &framegraph.CameraComponent{Camera: st.Camera})
	add(ResFrameUniforms, &framegraph.UBOComponent{Buffer: dev.NewUniformBuffer(FrameUniformsSize)})
	add(ResViewportSize, viewport)
	add(ResHDR, &framegraph.AttachmentComponent{Attachment: st.HDR})
	add(ResFinal, &framegraph.AttachmentComponent{Attachment: st.Final})
	add(ResEntityID, &framegraph.AttachmentComponent{Attachment: st.EntityID})
	add(ResDirectionalShadows, &framegraph.AttachmentComponent{Attachment: dirShadows})
	add(ResSpotShadows, &framegraph.AttachmentComponent{Attachment: spotShadows})
	add(ResPointShadows, &framegraph.AttachmentComponent{Attachment: pointShadows})
	add(ResShadowMaterial, &framegraph.MaterialComponent{Handle: cfg.ShadowMaterial})
	add(ResPointShadowMaterial, &framegraph.MaterialComponent{Handle: cfg.PointShadowMaterial})
	add(ResEnvironmentMap, &framegraph.EnvironmentMapComponent{Handle: cfg.EnvironmentMap})
	add(ResGamma, framegraph.NewPrimitive(cfg.Gamma))
	add(ResExposure, framegraph.NewPrimitive(cfg.Exposure))
	add(ResClearColour, framegraph.NewPrimitive(cfg.ClearColour))
	add(ResBloomChain, framegraph.NewPrimitive(st.Chain))
	add(ResBloomTexture, bloomTexture)
	add(ResDownsampleMaterial, &framegraph.MaterialComponent{Handle: cfg.DownsampleMaterial})
	add(ResUpsampleMaterial, &framegraph.MaterialComponent{Handle: cfg.UpsampleMaterial})
	add(ResBloomFilterRadius, framegraph.NewPrimitive(cfg.BloomFilterRadius))
	add(ResTonemapMaterial, &framegraph.MaterialComponent{Handle: cfg.TonemapMaterial})
	add(ResShowColliders, framegraph.NewPrimitive(cfg.ShowColliders))
	add(ResSelectedEntity, st.Selected)

	pass := func(p *framegraph.RenderPass, target gfx.Framebuffer, inputs ...string) {
		if err := fr.AddPass(p, target, inputs...); err != nil {
			errs = append(errs, err)
		}
	}
	pass(NewFrameUniformsPass(), nil, ResFrameUniforms, ResViewportSize)
	pass(NewClearPass(), st.Main, ResHDR, ResClearColour)
	pass(NewDirectionalShadowPass(), st.Shadow, ResDirectionalShadows, ResShadowMaterial)
	pass(NewSpotShadowPass(), st.Shadow, ResSpotShadows, ResShadowMaterial)
	pass(NewPointShadowPass(), st.Shadow, ResPointShadows, ResPointShadowMaterial)
	pass(NewScene3DPass(), st.Main,
		ResDirectionalShadows, ResSpotShadows, ResPointShadows, ResEnvironmentMap, ResExposure, ResGamma)
	pass(NewScene2DPass(), st.Main)
	pass(NewBloomDownsamplePass(), st.Bloom, ResHDR, ResDownsampleMaterial, ResBloomChain)
	pass(NewBloomUpsamplePass(), st.Bloom, ResUpsampleMaterial, ResBloomChain, ResBloomFilterRadius)
	pass(NewTonemapPass(), st.Main,
		ResHDR, ResFinal, ResBloomTexture, ResTonemapMaterial, ResGamma, ResExposure)
	pass(NewOverlayPass(), st.Main, ResShowColliders, ResSelectedEntity)

	for _, name := range SerializedResources {
		if err := fr.AddSerializedName(name); err != nil {
			errs = append(errs, err)
		}
	}

	st.Resizer = &ViewportResizer{
		Device:      dev,
		Main:        st.Main,
		Attachments: []gfx.Attachment{st.HDR, st.Final, st.EntityID},
		Chain:       st.Chain,
		BloomMips:   cfg.BloomMips,
		Bloom:       bloomTexture,
		Viewport:    viewport,
		Camera:      st.Camera,
	}
	st.Resizer.Subscribe(fr)

	return st, errors.Join(errs...)
}
