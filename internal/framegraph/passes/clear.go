package passes

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
)

// NewClearPass points colour target 0 back at the HDR attachment, which
// the tonemap pass swaps out, and clears colour and depth. Inputs: HDR
// attachment, vec4 clear colour.
func NewClearPass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{framegraph.TypeFramebufferAttachment, framegraph.TypePrimitive}
	return framegraph.NewRenderPass("Clear", inputs,
		func(_ *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			if !requireTarget("Clear", target) {
				return
			}
			hdr, ok := attachmentInput("Clear", inputs, 0)
			if !ok {
				return
			}
			colour, ok := framegraph.PrimitiveInput[mgl32.Vec4](inputs, 1)
			if !ok {
				return
			}
			target.SetColourAttachment(0, hdr)
			target.SetDrawBuffers(0, 1)
			fullTarget(target)
			target.SetClearColour(colour.Value)
			target.Clear(gfx.ClearColour | gfx.ClearDepth)
		})
}
