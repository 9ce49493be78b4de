package passes

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/logging"
)

// BloomMip is one level of the bloom chain.
type BloomMip struct {
	Width, Height int
	Attachment    gfx.Attachment
}

// BloomMipChain is the sequence of progressively halved render targets
// the bloom passes blur through. Mip i of a chain built for a V-sized
// viewport is max(1, floor(V/2^(i+1))) in each dimension.
type BloomMipChain struct {
	mips []BloomMip
}

// MipSize returns the size of mip i along a viewport dimension of v.
func MipSize(v, i int) int {
	return max(1, v>>(i+1))
}

// Init deletes any existing mips and builds length new ones for a
// width x height viewport.
func (c *BloomMipChain) Init(dev gfx.Device, width, height, length int) {
	c.Release(dev)
	c.mips = make([]BloomMip, 0, length)
	for i := 0; i < length; i++ {
		w, h := MipSize(width, i), MipSize(height, i)
		att := dev.NewAttachment(gfx.AttachmentSpec{
			Format:    gfx.FormatR11G11B10F,
			Width:     w,
			Height:    h,
			MipLinear: true,
		})
		c.mips = append(c.mips, BloomMip{Width: w, Height: h, Attachment: att})
	}
	logging.Logger().Debug("passes: bloom chain built", "width", width, "height", height, "mips", length)
}

// Resize resizes every mip in place for a new viewport size.
func (c *BloomMipChain) Resize(width, height int) {
	for i := range c.mips {
		m := &c.mips[i]
		m.Width, m.Height = MipSize(width, i), MipSize(height, i)
		m.Attachment.Resize(m.Width, m.Height)
	}
}

// Release deletes every mip and leaves the chain empty.
func (c *BloomMipChain) Release(dev gfx.Device) {
	for _, m := range c.mips {
		if m.Attachment != nil {
			dev.DeleteAttachment(m.Attachment)
		}
	}
	c.mips = nil
}

func (c *BloomMipChain) Len() int { return len(c.mips) }

// Mip returns mip i.
func (c *BloomMipChain) Mip(i int) BloomMip { return c.mips[i] }

// Mips returns the chain, largest first.
func (c *BloomMipChain) Mips() []BloomMip { return c.mips }

// NewBloomDownsamplePass filters the source down the mip chain. Inputs:
// source attachment, downsample material, chain primitive.
func NewBloomDownsamplePass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{
		framegraph.TypeFramebufferAttachment,
		framegraph.TypeMaterial,
		framegraph.TypePrimitive,
	}
	return framegraph.NewRenderPass("BloomDownsample", inputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			if !requireTarget("BloomDownsample", target) {
				return
			}
			src, ok := attachmentInput("BloomDownsample", inputs, 0)
			if !ok {
				return
			}
			mc, ok := framegraph.Input[*framegraph.MaterialComponent](inputs, 1)
			if !ok {
				return
			}
			chain, ok := framegraph.PrimitiveInput[*BloomMipChain](inputs, 2)
			if !ok || chain.Value == nil {
				return
			}
			mat, ok := material(ctx, "BloomDownsample", mc.Handle)
			if !ok {
				return
			}

			w, h := src.Size()
			srcRes := mgl32.Vec2{float32(w), float32(h)}
			src.Bind(0)
			mat.SetTexture("u_SrcTexture", 0)
			target.SetDrawBuffers(0)
			setBlend(ctx, gfx.BlendNone)
			for i, mip := range chain.Value.Mips() {
				target.SetColourAttachment(0, mip.Attachment)
				target.SetViewport(0, 0, mip.Width, mip.Height)
				mat.SetVec2("u_SrcResolution", srcRes)
				first := int32(0)
				if i == 0 {
					first = 1
				}
				mat.SetInt("u_FirstIteration", first)
				ctx.Renderer.DrawQuadImmediate(mat, mgl32.Ident4())

				srcRes = mgl32.Vec2{float32(mip.Width), float32(mip.Height)}
				mip.Attachment.Bind(0)
			}
			setBlend(ctx, gfx.BlendAlpha)
		})
}

// NewBloomUpsamplePass blurs back up the chain, adding each mip onto the
// next larger one so mip 0 ends up holding the bloom. Inputs: upsample
// material, chain primitive, filter radius primitive.
func NewBloomUpsamplePass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{
		framegraph.TypeMaterial,
		framegraph.TypePrimitive,
		framegraph.TypePrimitive,
	}
	return framegraph.NewRenderPass("BloomUpsample", inputs,
		func(ctx *framegraph.PassContext, target gfx.Framebuffer, inputs []framegraph.Component) {
			if !requireTarget("BloomUpsample", target) {
				return
			}
			mc, ok := framegraph.Input[*framegraph.MaterialComponent](inputs, 0)
			if !ok {
				return
			}
			chain, ok := framegraph.PrimitiveInput[*BloomMipChain](inputs, 1)
			if !ok || chain.Value == nil {
				return
			}
			radius, ok := framegraph.PrimitiveInput[float32](inputs, 2)
			if !ok {
				return
			}
			mat, ok := material(ctx, "BloomUpsample", mc.Handle)
			if !ok {
				return
			}

			mips := chain.Value.Mips()
			mat.SetTexture("u_SrcTexture", 0)
			mat.SetFloat("u_FilterRadius", radius.Value)
			target.SetDrawBuffers(0)
			setBlend(ctx, gfx.BlendAdditive)
			for i := len(mips) - 1; i > 0; i-- {
				from, to := mips[i], mips[i-1]
				from.Attachment.Bind(0)
				target.SetColourAttachment(0, to.Attachment)
				target.SetViewport(0, 0, to.Width, to.Height)
				ctx.Renderer.DrawQuadImmediate(mat, mgl32.Ident4())
			}
			setBlend(ctx, gfx.BlendAlpha)
		})
}
