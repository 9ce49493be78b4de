package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/logging"
)

// glFormat is the storage triple TexImage needs for an attachment format.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var attachmentFormats = map[gfx.AttachmentFormat]glFormat{
	gfx.FormatRGBA8:             {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gfx.FormatRGBA16F:           {gl.RGBA16F, gl.RGBA, gl.FLOAT},
	gfx.FormatR11G11B10F:        {gl.R11F_G11F_B10F, gl.RGB, gl.FLOAT},
	gfx.FormatRedInteger:        {gl.R32I, gl.RED_INTEGER, gl.INT},
	gfx.FormatDepth24Stencil8:   {gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8},
	gfx.FormatDepthArray:        {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
	gfx.FormatDepthCubemapArray: {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
}

// textureTarget returns the texture target an attachment format lives in.
func textureTarget(f gfx.AttachmentFormat) uint32 {
	switch f {
	case gfx.FormatDepthArray:
		return gl.TEXTURE_2D_ARRAY
	case gfx.FormatDepthCubemapArray:
		return gl.TEXTURE_CUBE_MAP_ARRAY
	}
	return gl.TEXTURE_2D
}

// depthPoint is the attachment point for a depth attachment of format f.
func depthPoint(f gfx.AttachmentFormat) uint32 {
	if f == gfx.FormatDepth24Stencil8 {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.DEPTH_ATTACHMENT
}

// layerCount is the number of selectable layers backing spec.
func layerCount(spec gfx.AttachmentSpec) int {
	layers := max(spec.Layers, 1)
	if spec.Format == gfx.FormatDepthCubemapArray {
		return layers * 6
	}
	return layers
}

// Attachment is a texture that can be attached to any framebuffer.
type Attachment struct {
	id     uint32
	target uint32
	spec   gfx.AttachmentSpec

	// point is where the attachment was last attached; SelectLayer
	// re-attaches there.
	point uint32
	layer int
}

var _ gfx.Attachment = (*Attachment)(nil)

func newAttachment(spec gfx.AttachmentSpec) *Attachment {
	a := &Attachment{spec: spec, target: textureTarget(spec.Format)}
	gl.GenTextures(1, &a.id)
	a.allocate()
	return a
}

func (a *Attachment) allocate() {
	f, ok := attachmentFormats[a.spec.Format]
	if !ok {
		logging.Logger().Error("opengl: unsupported attachment format", "format", a.spec.Format)
		return
	}
	w, h := int32(max(a.spec.Width, 1)), int32(max(a.spec.Height, 1))

	gl.BindTexture(a.target, a.id)
	switch a.target {
	case gl.TEXTURE_2D:
		gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, w, h, 0, f.format, f.xtype, nil)
	default:
		gl.TexImage3D(a.target, 0, f.internal, w, h, int32(layerCount(a.spec)), 0, f.format, f.xtype, nil)
	}

	filter := int32(gl.NEAREST)
	if a.spec.MipLinear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(a.target, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(a.target, gl.TEXTURE_MAG_FILTER, filter)
	if a.spec.Format.IsLayered() {
		// Outside the shadow frustum reads as fully lit.
		border := mgl32.Vec4{1, 1, 1, 1}
		gl.TexParameteri(a.target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(a.target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		gl.TexParameterfv(a.target, gl.TEXTURE_BORDER_COLOR, &border[0])
	} else {
		gl.TexParameteri(a.target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(a.target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(a.target, 0)
}

func (a *Attachment) Bind(slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(a.target, a.id)
}

func (a *Attachment) Size() (width, height int) { return a.spec.Width, a.spec.Height }
func (a *Attachment) Spec() gfx.AttachmentSpec  { return a.spec }

// Resize reallocates storage. Contents are undefined afterwards.
func (a *Attachment) Resize(width, height int) {
	if width == a.spec.Width && height == a.spec.Height {
		return
	}
	a.spec.Width, a.spec.Height = width, height
	a.allocate()
}

// SelectLayer attaches layer index at the attachment's current point of
// the bound draw framebuffer.
func (a *Attachment) SelectLayer(index int) {
	if !a.spec.Format.IsLayered() {
		return
	}
	if index < 0 || index >= layerCount(a.spec) {
		logging.Logger().Warn("opengl: layer out of range", "layer", index, "layers", layerCount(a.spec))
		return
	}
	a.layer = index
	if a.point != 0 {
		gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, a.point, a.id, 0, int32(index))
	}
}

// Delete releases the texture.
func (a *Attachment) Delete() {
	if a.id != 0 {
		gl.DeleteTextures(1, &a.id)
		a.id = 0
	}
}

func (a *Attachment) attach(point uint32) {
	a.point = point
	if a.spec.Format.IsLayered() {
		gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, point, a.id, 0, int32(a.layer))
		return
	}
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, point, gl.TEXTURE_2D, a.id, 0)
}

// Framebuffer is an FBO whose attachments can be swapped between frames
// and passes.
type Framebuffer struct {
	id            uint32
	width, height int
	colour        []*Attachment
	depth         *Attachment
	drawBuffers   []int
	clearColour   mgl32.Vec4

	dev *Device
}

var _ gfx.Framebuffer = (*Framebuffer)(nil)

// with runs fn with f bound as the draw framebuffer and restores the
// previous binding.
func (f *Framebuffer) with(fn func()) {
	if f.dev.bound == f {
		fn()
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.id)
	fn()
	prev := uint32(0)
	if f.dev.bound != nil {
		prev = f.dev.bound.id
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, prev)
}

func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.id)
	gl.Viewport(0, 0, int32(f.width), int32(f.height))
	f.dev.bound = f
}

func (f *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	f.dev.bound = nil
	gl.Viewport(0, 0, int32(f.dev.width), int32(f.dev.height))
}

// Resize resizes the framebuffer and every non-layered attachment on it.
// Layered depth maps keep their own size.
func (f *Framebuffer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	f.width, f.height = width, height
	for _, a := range f.colour {
		if a != nil {
			a.Resize(width, height)
		}
	}
	if f.depth != nil && !f.depth.spec.Format.IsLayered() {
		f.depth.Resize(width, height)
	}
}

func (f *Framebuffer) Size() (width, height int) { return f.width, f.height }

func (f *Framebuffer) ColourAttachment(index int) gfx.Attachment {
	if index < 0 || index >= len(f.colour) || f.colour[index] == nil {
		return nil
	}
	return f.colour[index]
}

func (f *Framebuffer) SetColourAttachment(index int, a gfx.Attachment) {
	att, ok := a.(*Attachment)
	if a != nil && !ok {
		logging.Logger().Warn("opengl: attachment from another device", "type", a)
		return
	}
	for len(f.colour) <= index {
		f.colour = append(f.colour, nil)
	}
	f.colour[index] = att
	point := uint32(gl.COLOR_ATTACHMENT0 + index)
	f.with(func() {
		if att == nil {
			gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, point, gl.TEXTURE_2D, 0, 0)
			return
		}
		att.attach(point)
	})
}

func (f *Framebuffer) DepthAttachment() gfx.Attachment {
	if f.depth == nil {
		return nil
	}
	return f.depth
}

func (f *Framebuffer) SetDepthAttachment(a gfx.Attachment) {
	att, ok := a.(*Attachment)
	if a != nil && !ok {
		logging.Logger().Warn("opengl: attachment from another device", "type", a)
		return
	}
	old := f.depth
	f.depth = att
	f.with(func() {
		if old != nil && (att == nil || depthPoint(old.spec.Format) != depthPoint(att.spec.Format)) {
			gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, depthPoint(old.spec.Format), gl.TEXTURE_2D, 0, 0)
		}
		if att != nil {
			att.attach(depthPoint(att.spec.Format))
		}
	})
}

func (f *Framebuffer) SetDrawBuffers(indices ...int) {
	f.drawBuffers = append(f.drawBuffers[:0], indices...)
	f.with(func() {
		if len(indices) == 0 {
			gl.DrawBuffer(gl.NONE)
			gl.ReadBuffer(gl.NONE)
			return
		}
		bufs := make([]uint32, len(indices))
		for i, idx := range indices {
			bufs[i] = uint32(gl.COLOR_ATTACHMENT0 + idx)
		}
		gl.DrawBuffers(int32(len(bufs)), &bufs[0])
	})
}

func (f *Framebuffer) SetViewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (f *Framebuffer) SetClearColour(c mgl32.Vec4) { f.clearColour = c }

// Clear clears the enabled draw buffers and the depth attachment. Integer
// targets are cleared to -1, the "no entity" id.
func (f *Framebuffer) Clear(mask gfx.ClearMask) {
	f.with(func() {
		if mask&gfx.ClearColour != 0 {
			for i, idx := range f.drawBuffers {
				if idx >= len(f.colour) || f.colour[idx] == nil {
					continue
				}
				if f.colour[idx].spec.Format == gfx.FormatRedInteger {
					none := [4]int32{-1, -1, -1, -1}
					gl.ClearBufferiv(gl.COLOR, int32(i), &none[0])
					continue
				}
				c := f.clearColour
				gl.ClearBufferfv(gl.COLOR, int32(i), &c[0])
			}
		}
		if mask&gfx.ClearDepth != 0 && f.depth != nil {
			gl.DepthMask(true)
			if f.depth.spec.Format == gfx.FormatDepth24Stencil8 {
				gl.ClearBufferfi(gl.DEPTH_STENCIL, 0, 1, 0)
			} else {
				one := float32(1)
				gl.ClearBufferfv(gl.DEPTH, 0, &one)
			}
		}
	})
}

// ReadPixel reads one texel of an integer colour attachment, returning -1
// when the attachment is missing or not an integer target.
func (f *Framebuffer) ReadPixel(attachment, x, y int) int32 {
	if attachment < 0 || attachment >= len(f.colour) || f.colour[attachment] == nil {
		return -1
	}
	if f.colour[attachment].spec.Format != gfx.FormatRedInteger {
		return -1
	}
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return -1
	}
	var v int32 = -1
	f.with(func() {
		gl.ReadBuffer(uint32(gl.COLOR_ATTACHMENT0 + attachment))
		gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RED_INTEGER, gl.INT, gl.Ptr(&v))
	})
	return v
}

// Delete releases the FBO. Attachments belong to the device and may still
// be attached elsewhere.
func (f *Framebuffer) Delete() {
	if f.id != 0 {
		gl.DeleteFramebuffers(1, &f.id)
		f.id = 0
	}
}
