// Package opengl implements the gfx device and the immediate renderers on
// OpenGL 4.1 core. Everything here must run on the thread that owns the GL
// context.
package opengl

import (
	"fmt"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/logging"
)

// Device creates GL resources and tracks the bound framebuffer and the
// window size.
type Device struct {
	width, height int
	bound         *Framebuffer
	white         *Texture
	blend         gfx.BlendMode

	framebuffers []*Framebuffer
	attachments  []*Attachment
	buffers      []*UniformBuffer
}

var _ gfx.Device = (*Device)(nil)

// NewDevice loads the GL function pointers for the current context and
// sets the default pipeline state. width and height are the window's
// framebuffer size.
func NewDevice(width, height int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}
	logging.Logger().Info("opengl: context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	d := &Device{width: width, height: height}
	d.SetBlendMode(gfx.BlendAlpha)
	d.white = NewSolidTexture(mgl32.Vec4{1, 1, 1, 1})
	return d, nil
}

// SetWindowSize records the default framebuffer's size.
func (d *Device) SetWindowSize(width, height int) {
	d.width, d.height = width, height
}

func (d *Device) NewFramebuffer(spec gfx.FramebufferSpec) gfx.Framebuffer {
	fb := &Framebuffer{width: spec.Width, height: spec.Height, dev: d}
	gl.GenFramebuffers(1, &fb.id)

	indices := make([]int, 0, len(spec.Colour))
	for i, cs := range spec.Colour {
		if cs.Width == 0 && cs.Height == 0 {
			cs.Width, cs.Height = spec.Width, spec.Height
		}
		fb.SetColourAttachment(i, d.newAttachment(cs))
		indices = append(indices, i)
	}
	if spec.Depth != nil {
		ds := *spec.Depth
		if ds.Width == 0 && ds.Height == 0 {
			ds.Width, ds.Height = spec.Width, spec.Height
		}
		fb.SetDepthAttachment(d.newAttachment(ds))
	}
	fb.SetDrawBuffers(indices...)

	if len(spec.Colour) > 0 || spec.Depth != nil {
		fb.with(func() {
			if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
				logging.Logger().Error("opengl: framebuffer incomplete", "status", fmt.Sprintf("0x%x", status))
			}
		})
	}
	d.framebuffers = append(d.framebuffers, fb)
	return fb
}

func (d *Device) newAttachment(spec gfx.AttachmentSpec) *Attachment {
	a := newAttachment(spec)
	d.attachments = append(d.attachments, a)
	return a
}

func (d *Device) NewAttachment(spec gfx.AttachmentSpec) gfx.Attachment {
	return d.newAttachment(spec)
}

func (d *Device) DeleteAttachment(a gfx.Attachment) {
	att, ok := a.(*Attachment)
	if !ok {
		return
	}
	d.attachments = slices.DeleteFunc(d.attachments, func(x *Attachment) bool { return x == att })
	att.Delete()
}

func (d *Device) NewUniformBuffer(size int) gfx.UniformBuffer {
	u := &UniformBuffer{size: size}
	gl.GenBuffers(1, &u.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	d.buffers = append(d.buffers, u)
	return u
}

func (d *Device) WhiteTexture() gfx.Texture { return d.white }

func (d *Device) BindDefault() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	d.bound = nil
	d.Viewport(0, 0, d.width, d.height)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) SetBlendMode(m gfx.BlendMode) {
	d.blend = m
	switch m {
	case gfx.BlendNone:
		gl.Disable(gl.BLEND)
	case gfx.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
		gl.BlendEquation(gl.FUNC_ADD)
	default:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.BlendEquation(gl.FUNC_ADD)
	}
}

// BlitToScreen copies a colour attachment onto the window, scaled to fit.
func (d *Device) BlitToScreen(a gfx.Attachment) {
	att, ok := a.(*Attachment)
	if !ok || att.target != gl.TEXTURE_2D {
		return
	}
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, att.id, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	w, h := att.Size()
	gl.BlitFramebuffer(0, 0, int32(w), int32(h), 0, 0, int32(d.width), int32(d.height),
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &fbo)
	d.bound = nil
}

// Release deletes every resource the device created.
func (d *Device) Release() {
	for _, fb := range d.framebuffers {
		fb.Delete()
	}
	for _, a := range d.attachments {
		a.Delete()
	}
	for _, u := range d.buffers {
		if u.id != 0 {
			gl.DeleteBuffers(1, &u.id)
			u.id = 0
		}
	}
	d.white.Delete()
	d.framebuffers, d.attachments, d.buffers = nil, nil, nil
}

// UniformBuffer is a GL uniform buffer object.
type UniformBuffer struct {
	id   uint32
	size int
}

var _ gfx.UniformBuffer = (*UniformBuffer)(nil)

func (u *UniformBuffer) SetData(offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	if offset < 0 || offset+len(data) > u.size {
		logging.Logger().Warn("opengl: uniform buffer write out of range",
			"offset", offset, "len", len(data), "size", u.size)
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (u *UniformBuffer) Bind(binding uint32) { gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, u.id) }
func (u *UniformBuffer) Size() int           { return u.size }
