package passes

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/render"
	"lumen/internal/scene"
)

var shadowInputs = []framegraph.ComponentType{
	framegraph.TypeFramebufferAttachment,
	framegraph.TypeMaterial,
}

// NewDirectionalShadowPass renders one depth layer per selected directional
// light. Inputs: depth array attachment, shadow material.
func NewDirectionalShadowPass() *framegraph.RenderPass {
	return framegraph.NewRenderPass("DirectionalShadows", shadowInputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			att, mat, ok := shadowSetup(ctx, "DirectionalShadows", target, inputs, gfx.FormatDepthArray)
			if !ok {
				return
			}
			focus := cameraPosition(ctx)
			CollectDirectionalLights(ctx.Scene).Each(func(slot int, l Light[scene.DirectionalLight]) {
				if !l.Light.Shadow.CastShadows {
					return
				}
				captureLayer(ctx, target, att, mat, slot, DirectionalLightSpace(l.Transform, l.Light, focus))
			})
		})
}

// NewSpotShadowPass renders one depth layer per selected spot light.
// Inputs: depth array attachment, shadow material.
func NewSpotShadowPass() *framegraph.RenderPass {
	return framegraph.NewRenderPass("SpotShadows", shadowInputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			att, mat, ok := shadowSetup(ctx, "SpotShadows", target, inputs, gfx.FormatDepthArray)
			if !ok {
				return
			}
			CollectSpotLights(ctx.Scene).Each(func(slot int, l Light[scene.SpotLight]) {
				if !l.Light.Shadow.CastShadows {
					return
				}
				captureLayer(ctx, target, att, mat, slot, SpotLightSpace(l.Transform, l.Light))
			})
		})
}

// NewPointShadowPass renders six faces per selected point light into a
// depth cubemap array; light k face f is layer k*6+f. Inputs: depth
// cubemap array attachment, point shadow material.
func NewPointShadowPass() *framegraph.RenderPass {
	return framegraph.NewRenderPass("PointShadows", shadowInputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			att, mat, ok := shadowSetup(ctx, "PointShadows", target, inputs, gfx.FormatDepthCubemapArray)
			if !ok {
				return
			}
			CollectPointLights(ctx.Scene).Each(func(slot int, l Light[scene.PointLight]) {
				if !l.Light.Shadow.CastShadows {
					return
				}
				mat.SetVec3("u_LightPosition", l.Transform.Translation)
				mat.SetFloat("u_FarPlane", lightRange(l.Light.Range))
				for face, lightSpace := range PointLightFaces(l.Transform, l.Light) {
					captureLayer(ctx, target, att, mat, slot*6+face, lightSpace)
				}
			})
		})
}

func shadowSetup(ctx *framegraph.PassContext, pass string, target gfx.Framebuffer,
	inputs []framegraph.Component, format gfx.AttachmentFormat) (gfx.Attachment, gfx.Material, bool) {
	if !requireTarget(pass, target) {
		return nil, nil, false
	}
	att, ok := attachmentInput(pass, inputs, 0)
	if !ok {
		return nil, nil, false
	}
	mc, ok := framegraph.Input[*framegraph.MaterialComponent](inputs, 1)
	if !ok {
		return nil, nil, false
	}
	if framegraph.DebugAsserts {
		got := att.Spec().Format
		framegraph.DebugAssert(got == format, "%s: shadow map is %s, want %s", pass, got, format)
	}
	mat, ok := material(ctx, pass, mc.Handle)
	if !ok {
		return nil, nil, false
	}

	target.SetDrawBuffers()
	target.SetDepthAttachment(att)
	w, h := att.Size()
	target.SetViewport(0, 0, w, h)
	return att, mat, true
}

func captureLayer(ctx *framegraph.PassContext, target gfx.Framebuffer, att gfx.Attachment,
	mat gfx.Material, layer int, lightSpace mgl32.Mat4) {
	att.SelectLayer(layer)
	target.Clear(gfx.ClearDepth)

	mat.SetMat4("u_LightSpace", lightSpace)
	ctx.Renderer.BeginScene(render.LightSpaceParams(lightSpace))
	submitShadowCasters(ctx, mat)
	ctx.Renderer.EndScene()
}

func submitShadowCasters(ctx *framegraph.PassContext, mat gfx.Material) {
	if ctx.Scene == nil {
		return
	}
	scene.Each2(ctx.Scene, func(e scene.Entity, t *scene.Transform, mr *scene.MeshRenderer) {
		if !mr.CastShadows {
			return
		}
		ctx.Renderer.SubmitMesh(mesh(ctx, mr.Mesh), mat, t.Matrix(), int32(e.ID()))
	})
}
