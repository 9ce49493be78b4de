// Package gfx declares the GPU resource handles the frame graph works with.
// Implementations live in internal/platform/opengl and internal/gfx/nullgfx.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// Texture is anything that can be sampled from a texture unit.
type Texture interface {
	Bind(slot uint32)
	Size() (width, height int)
}

// AttachmentFormat selects the storage layout of a framebuffer attachment.
type AttachmentFormat int

const (
	FormatRGBA8 AttachmentFormat = iota
	FormatRGBA16F
	FormatR11G11B10F
	FormatRedInteger
	FormatDepth24Stencil8
	FormatDepthArray
	FormatDepthCubemapArray
)

var formatNames = [...]string{
	FormatRGBA8:             "RGBA8",
	FormatRGBA16F:           "RGBA16F",
	FormatR11G11B10F:        "R11G11B10F",
	FormatRedInteger:        "RedInteger",
	FormatDepth24Stencil8:   "Depth24Stencil8",
	FormatDepthArray:        "DepthArray",
	FormatDepthCubemapArray: "DepthCubemapArray",
}

func (f AttachmentFormat) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Unknown"
	}
	return formatNames[f]
}

// IsDepth reports whether attachments of this format go in the depth slot.
func (f AttachmentFormat) IsDepth() bool {
	return f == FormatDepth24Stencil8 || f == FormatDepthArray || f == FormatDepthCubemapArray
}

// IsLayered reports whether the attachment holds several layers.
func (f AttachmentFormat) IsLayered() bool {
	return f == FormatDepthArray || f == FormatDepthCubemapArray
}

// AttachmentSpec describes a framebuffer attachment to create.
// Layers counts array layers; for cubemap arrays it counts cubemaps, so the
// attachment has Layers*6 selectable layer-faces.
type AttachmentSpec struct {
	Format        AttachmentFormat
	Width, Height int
	Layers        int
	// MipLinear selects linear min/mag filtering; nearest otherwise.
	MipLinear bool
}

// Attachment is a render target texture that can be moved between
// framebuffers without recreating them.
type Attachment interface {
	Texture
	Spec() AttachmentSpec
	Resize(width, height int)
	// SelectLayer chooses the layer (array) or layer-face (cubemap array,
	// index = layer*6 + face) that subsequent draws target.
	SelectLayer(index int)
}

// ClearMask picks which buffers Framebuffer.Clear touches.
type ClearMask uint8

const (
	ClearColour ClearMask = 1 << iota
	ClearDepth
)

// FramebufferSpec describes a framebuffer to create. Attachments are
// created alongside it; colour entries keep their order.
type FramebufferSpec struct {
	Width, Height int
	Colour        []AttachmentSpec
	Depth         *AttachmentSpec
}

// Framebuffer is a render target composed of swappable attachments.
type Framebuffer interface {
	Bind()
	Unbind()
	Resize(width, height int)
	Size() (width, height int)

	ColourAttachment(index int) Attachment
	SetColourAttachment(index int, a Attachment)
	DepthAttachment() Attachment
	SetDepthAttachment(a Attachment)
	SetDrawBuffers(indices ...int)

	// SetViewport restricts drawing to a sub-rectangle, used when the
	// selected attachment is smaller than the framebuffer.
	SetViewport(x, y, width, height int)
	SetClearColour(c mgl32.Vec4)
	Clear(mask ClearMask)
	ReadPixel(attachment, x, y int) int32
}

// Material is a shader plus its parameter block.
type Material interface {
	Bind()
	Shader() string

	SetFloat(name string, v float32)
	SetInt(name string, v int32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetMat4(name string, v mgl32.Mat4)
	// SetTexture binds name to a texture unit; the texture itself is bound
	// by the caller.
	SetTexture(name string, slot uint32)

	Float(name string) (float32, bool)
	Int(name string) (int32, bool)
	Vec4(name string) (mgl32.Vec4, bool)
}

// UniformBuffer is a block of shader constants shared by several programs.
type UniformBuffer interface {
	SetData(offset int, data []byte)
	Bind(binding uint32)
	Size() int
}

// Mesh is an uploaded vertex stream.
type Mesh interface {
	Draw()
	VertexCount() int
}

// BlendMode selects how fragments combine with the target.
type BlendMode int

const (
	BlendAlpha BlendMode = iota
	BlendAdditive
	BlendNone
)

// Device creates GPU resources and owns the default framebuffer.
type Device interface {
	NewFramebuffer(spec FramebufferSpec) Framebuffer
	NewAttachment(spec AttachmentSpec) Attachment
	// DeleteAttachment frees an attachment made by NewAttachment. It must
	// no longer be attached to any framebuffer.
	DeleteAttachment(a Attachment)
	NewUniformBuffer(size int) UniformBuffer
	// WhiteTexture is a 1x1 white texture used in place of missing assets.
	WhiteTexture() Texture
	// BindDefault makes the window backbuffer current.
	BindDefault()
	Viewport(x, y, width, height int)
	SetBlendMode(m BlendMode)
}
