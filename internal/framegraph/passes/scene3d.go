package passes

import (
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// NewScene3DPass draws every mesh lit by the selected lights. Inputs:
// directional, spot and point shadow maps, environment map, exposure and
// gamma primitives.
func NewScene3DPass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeEnvironmentMap,
		framegraph.TypePrimitive,
		framegraph.TypePrimitive,
	}
	return framegraph.NewRenderPass("Scene3D", inputs, renderScene3D)
}

func renderScene3D(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
	if ctx.Scene == nil || ctx.Camera == nil {
		return
	}
	units := []uint32{UnitDirectionalShadow, UnitSpotShadow, UnitPointShadow}
	for i, unit := range units {
		if att, ok := attachmentInput("Scene3D", inputs, i); ok {
			att.Bind(unit)
		}
	}
	if ec, ok := framegraph.Input[*framegraph.EnvironmentMapComponent](inputs, 3); ok {
		bindEnvironment(ctx, ec)
	}
	exposure, ok := framegraph.PrimitiveInput[float32](inputs, 4)
	if !ok {
		return
	}
	gamma, ok := framegraph.PrimitiveInput[float32](inputs, 5)
	if !ok {
		return
	}

	if target != nil {
		target.SetDrawBuffers(0, 1)
		fullTarget(target)
	}

	params := render.CameraParams(ctx.Camera, ctx.CameraTransform)
	params.Gamma = gamma.Value
	params.Exposure = exposure.Value

	r := ctx.Renderer
	r.BeginScene(params)

	focus := cameraPosition(ctx)
	CollectDirectionalLights(ctx.Scene).Each(func(slot int, l Light[scene.DirectionalLight]) {
		r.SubmitDirectionalLight(DirectionalSource(l, slot, focus))
	})
	CollectSpotLights(ctx.Scene).Each(func(slot int, l Light[scene.SpotLight]) {
		r.SubmitSpotLight(SpotSource(l, slot))
	})
	CollectPointLights(ctx.Scene).Each(func(slot int, l Light[scene.PointLight]) {
		r.SubmitPointLight(PointSource(l, slot))
	})

	scene.Each2(ctx.Scene, func(e scene.Entity, t *scene.Transform, mr *scene.MeshRenderer) {
		var mat gfx.Material
		if mr.Material != 0 {
			// nil falls back to the renderer's default material
			mat, _ = material(ctx, "Scene3D", mr.Material)
		}
		r.SubmitMesh(mesh(ctx, mr.Mesh), mat, t.Matrix(), int32(e.ID()))
	})

	r.EndScene()
}

func bindEnvironment(ctx *framegraph.PassContext, ec *framegraph.EnvironmentMapComponent) {
	env, ok := ctx.Assets.EnvironmentMap(ec.Handle)
	if !ok {
		logging.Logger().Debug("passes: environment map does not resolve, skipping IBL", "handle", ec.Handle)
		return
	}
	maps := []struct {
		tex  gfx.Texture
		unit uint32
	}{
		{env.Base, UnitEnvironment},
		{env.Irradiance, UnitIrradiance},
		{env.Prefiltered, UnitPrefiltered},
	}
	for _, m := range maps {
		if m.tex != nil {
			m.tex.Bind(m.unit)
		}
	}
}
