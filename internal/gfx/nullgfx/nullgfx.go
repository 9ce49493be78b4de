// Package nullgfx is a GPU-less implementation of the gfx interfaces. Every
// object records what was done to it so tests and headless runs can inspect
// the command stream.
package nullgfx

import (
	"slices"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
)

// Texture is a sampled image with a fixed size.
type Texture struct {
	Name          string
	Width, Height int
	Binds         []uint32
}

// NewTexture creates a texture of the given size.
func NewTexture(name string, w, h int) *Texture {
	return &Texture{Name: name, Width: w, Height: h}
}

func (t *Texture) Bind(slot uint32)          { t.Binds = append(t.Binds, slot) }
func (t *Texture) Size() (width, height int) { return t.Width, t.Height }

// Attachment records resizes and layer selections.
type Attachment struct {
	spec     gfx.AttachmentSpec
	Binds    []uint32
	Layers   []int
	Resizes  int
	Selected int
	Deleted  bool
}

// NewAttachment creates an attachment from spec.
func NewAttachment(spec gfx.AttachmentSpec) *Attachment {
	return &Attachment{spec: spec, Selected: -1}
}

func (a *Attachment) Bind(slot uint32)          { a.Binds = append(a.Binds, slot) }
func (a *Attachment) Size() (width, height int) { return a.spec.Width, a.spec.Height }
func (a *Attachment) Spec() gfx.AttachmentSpec  { return a.spec }

func (a *Attachment) Resize(width, height int) {
	a.spec.Width, a.spec.Height = width, height
	a.Resizes++
}

func (a *Attachment) SelectLayer(index int) {
	a.Selected = index
	a.Layers = append(a.Layers, index)
}

// ClearOp is one recorded Clear call.
type ClearOp struct {
	Mask   gfx.ClearMask
	Colour mgl32.Vec4
	Target gfx.Attachment
}

// Framebuffer records binds, clears and attachment swaps.
type Framebuffer struct {
	Name          string
	Width, Height int
	colour        []gfx.Attachment
	depth         gfx.Attachment
	clearColour   mgl32.Vec4
	DrawBuffers   []int
	Viewport      [4]int

	BindCount   int
	UnbindCount int
	Clears      []ClearOp
	Pixel       int32

	dev *Device
}

func (f *Framebuffer) Bind() {
	f.BindCount++
	if f.dev != nil {
		f.dev.Bound = f
		f.dev.Log = append(f.dev.Log, "bind "+f.Name)
	}
	f.Viewport = [4]int{0, 0, f.Width, f.Height}
}

func (f *Framebuffer) Unbind() {
	f.UnbindCount++
	if f.dev != nil {
		f.dev.Bound = nil
		f.dev.Log = append(f.dev.Log, "unbind "+f.Name)
	}
}

func (f *Framebuffer) Resize(width, height int) {
	f.Width, f.Height = width, height
	for _, a := range f.colour {
		if a != nil {
			a.Resize(width, height)
		}
	}
	if f.depth != nil && !f.depth.Spec().Format.IsLayered() {
		f.depth.Resize(width, height)
	}
}

func (f *Framebuffer) Size() (width, height int) { return f.Width, f.Height }

func (f *Framebuffer) ColourAttachment(index int) gfx.Attachment {
	if index < 0 || index >= len(f.colour) {
		return nil
	}
	return f.colour[index]
}

func (f *Framebuffer) SetColourAttachment(index int, a gfx.Attachment) {
	for len(f.colour) <= index {
		f.colour = append(f.colour, nil)
	}
	f.colour[index] = a
}

func (f *Framebuffer) DepthAttachment() gfx.Attachment     { return f.depth }
func (f *Framebuffer) SetDepthAttachment(a gfx.Attachment) { f.depth = a }

func (f *Framebuffer) SetDrawBuffers(indices ...int) {
	f.DrawBuffers = append(f.DrawBuffers[:0], indices...)
}

func (f *Framebuffer) SetViewport(x, y, width, height int) {
	f.Viewport = [4]int{x, y, width, height}
}

func (f *Framebuffer) SetClearColour(c mgl32.Vec4) { f.clearColour = c }

func (f *Framebuffer) Clear(mask gfx.ClearMask) {
	op := ClearOp{Mask: mask, Colour: f.clearColour}
	if mask&gfx.ClearColour != 0 {
		op.Target = f.ColourAttachment(0)
	} else if mask&gfx.ClearDepth != 0 {
		op.Target = f.depth
	}
	f.Clears = append(f.Clears, op)
}

func (f *Framebuffer) ReadPixel(attachment, x, y int) int32 { return f.Pixel }

// UniformBuffer stores its bytes in memory.
type UniformBuffer struct {
	Data     []byte
	Bindings []uint32
}

func (u *UniformBuffer) SetData(offset int, data []byte) {
	if need := offset + len(data); need > len(u.Data) {
		grown := make([]byte, need)
		copy(grown, u.Data)
		u.Data = grown
	}
	copy(u.Data[offset:], data)
}

func (u *UniformBuffer) Bind(binding uint32) { u.Bindings = append(u.Bindings, binding) }
func (u *UniformBuffer) Size() int           { return len(u.Data) }

// Device hands out recording resources and tracks the bound framebuffer.
type Device struct {
	white        *Texture
	Framebuffers []*Framebuffer
	Attachments  []*Attachment
	Bound        *Framebuffer
	DefaultBinds int
	Viewports    [][4]int
	Blend        gfx.BlendMode
	BlendChanges []gfx.BlendMode
	// Log is the ordered list of framebuffer bind/unbind operations.
	Log []string
}

var (
	_ gfx.Device        = (*Device)(nil)
	_ gfx.Framebuffer   = (*Framebuffer)(nil)
	_ gfx.Attachment    = (*Attachment)(nil)
	_ gfx.UniformBuffer = (*UniformBuffer)(nil)
	_ gfx.Texture       = (*Texture)(nil)
	_ gfx.Material      = (*Material)(nil)
	_ gfx.Mesh          = (*Mesh)(nil)
)

// NewDevice creates an empty device.
func NewDevice() *Device {
	return &Device{white: NewTexture("white", 1, 1)}
}

func (d *Device) NewFramebuffer(spec gfx.FramebufferSpec) gfx.Framebuffer {
	return d.Framebuffer("fb"+strconv.Itoa(len(d.Framebuffers)), spec)
}

// Framebuffer creates a named framebuffer, returning the concrete type.
func (d *Device) Framebuffer(name string, spec gfx.FramebufferSpec) *Framebuffer {
	fb := &Framebuffer{Name: name, Width: spec.Width, Height: spec.Height, dev: d}
	for _, cs := range spec.Colour {
		if cs.Width == 0 && cs.Height == 0 {
			cs.Width, cs.Height = spec.Width, spec.Height
		}
		fb.colour = append(fb.colour, d.attachment(cs))
	}
	if spec.Depth != nil {
		ds := *spec.Depth
		if ds.Width == 0 && ds.Height == 0 {
			ds.Width, ds.Height = spec.Width, spec.Height
		}
		fb.depth = d.attachment(ds)
	}
	d.Framebuffers = append(d.Framebuffers, fb)
	return fb
}

func (d *Device) attachment(spec gfx.AttachmentSpec) *Attachment {
	a := NewAttachment(spec)
	d.Attachments = append(d.Attachments, a)
	return a
}

func (d *Device) NewAttachment(spec gfx.AttachmentSpec) gfx.Attachment {
	return d.attachment(spec)
}

// DeleteAttachment drops a from Attachments and marks it deleted.
func (d *Device) DeleteAttachment(a gfx.Attachment) {
	att, ok := a.(*Attachment)
	if !ok {
		return
	}
	d.Attachments = slices.DeleteFunc(d.Attachments, func(x *Attachment) bool { return x == att })
	att.Deleted = true
}

func (d *Device) NewUniformBuffer(size int) gfx.UniformBuffer {
	return &UniformBuffer{Data: make([]byte, size)}
}

func (d *Device) WhiteTexture() gfx.Texture { return d.white }

func (d *Device) BindDefault() {
	d.DefaultBinds++
	d.Bound = nil
	d.Log = append(d.Log, "bind default")
}

func (d *Device) Viewport(x, y, width, height int) {
	d.Viewports = append(d.Viewports, [4]int{x, y, width, height})
}

func (d *Device) SetBlendMode(m gfx.BlendMode) {
	d.Blend = m
	d.BlendChanges = append(d.BlendChanges, m)
}
