package passes

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
)

// NewTonemapPass composites bloom onto the HDR image and writes the
// exposure-mapped, gamma-corrected result into the final attachment.
// Inputs: HDR attachment, final attachment, bloom attachment, tonemap
// material, gamma and exposure primitives.
func NewTonemapPass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeMaterial,
		framegraph.TypePrimitive,
		framegraph.TypePrimitive,
	}
	return framegraph.NewRenderPass("Tonemap", inputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			if !requireTarget("Tonemap", target) {
				return
			}
			hdr, ok := attachmentInput("Tonemap", inputs, 0)
			if !ok {
				return
			}
			final, ok := attachmentInput("Tonemap", inputs, 1)
			if !ok {
				return
			}
			mc, ok := framegraph.Input[*framegraph.MaterialComponent](inputs, 3)
			if !ok {
				return
			}
			gamma, ok := framegraph.PrimitiveInput[float32](inputs, 4)
			if !ok {
				return
			}
			exposure, ok := framegraph.PrimitiveInput[float32](inputs, 5)
			if !ok {
				return
			}
			mat, ok := material(ctx, "Tonemap", mc.Handle)
			if !ok {
				return
			}

			hdr.Bind(0)
			mat.SetTexture("u_HDR", 0)
			bloom, ok := framegraph.Input[*framegraph.AttachmentComponent](inputs, 2)
			if ok && bloom != nil && bloom.Attachment != nil {
				bloom.Attachment.Bind(1)
				mat.SetInt("u_BloomEnabled", 1)
			} else {
				mat.SetInt("u_BloomEnabled", 0)
			}
			mat.SetTexture("u_Bloom", 1)
			mat.SetFloat("u_Gamma", gamma.Value)
			mat.SetFloat("u_Exposure", exposure.Value)

			target.SetColourAttachment(0, final)
			target.SetDrawBuffers(0)
			fullTarget(target)
			setBlend(ctx, gfx.BlendNone)
			ctx.Renderer.DrawQuadImmediate(mat, mgl32.Ident4())
			setBlend(ctx, gfx.BlendAlpha)
		})
}
