package framegraph

import (
	"fmt"

	"lumen/internal/asset"
	"lumen/internal/gfx"
	"lumen/internal/scene"
)

// ComponentType tags every render component. It is the only thing checked
// when a pass is wired to named resources.
type ComponentType int

const (
	TypeNone ComponentType = iota
	TypeFramebuffer
	TypeTexture
	TypeCamera
	TypeMaterial
	TypeUBO
	TypeFramebufferAttachment
	TypePrimitive
	TypeEnvironmentMap
)

var componentTypeNames = [...]string{
	TypeNone:                  "None",
	TypeFramebuffer:           "Framebuffer",
	TypeTexture:               "Texture",
	TypeCamera:                "Camera",
	TypeMaterial:              "Material",
	TypeUBO:                   "UBO",
	TypeFramebufferAttachment: "FramebufferAttachment",
	TypePrimitive:             "PrimitiveType",
	TypeEnvironmentMap:        "EnvironmentMap",
}

func (t ComponentType) String() string {
	if t < 0 || int(t) >= len(componentTypeNames) {
		return fmt.Sprintf("ComponentType(%d)", int(t))
	}
	return componentTypeNames[t]
}

// ParseComponentType is the inverse of ComponentType.String.
func ParseComponentType(s string) (ComponentType, error) {
	for i, n := range componentTypeNames {
		if n == s {
			return ComponentType(i), nil
		}
	}
	return TypeNone, fmt.Errorf("framegraph: unknown component type %q", s)
}

// Inspector receives a component's editable state for display.
type Inspector interface {
	Property(label string, value any)
	Handle(label string, kind asset.Kind, h asset.Handle)
}

// Component is a named resource shared between passes.
type Component interface {
	Type() ComponentType
	// Inspect reports the component's state to an editor panel.
	Inspect(in Inspector)
}

// FramebufferComponent owns a framebuffer.
type FramebufferComponent struct {
	Framebuffer gfx.Framebuffer
}

func (*FramebufferComponent) Type() ComponentType { return TypeFramebuffer }

func (c *FramebufferComponent) Inspect(in Inspector) {
	if c.Framebuffer == nil {
		in.Property("Framebuffer", "<nil>")
		return
	}
	w, h := c.Framebuffer.Size()
	in.Property("Size", fmt.Sprintf("%dx%d", w, h))
}

// TextureComponent refers to a texture asset of any dimensionality.
type TextureComponent struct {
	Handle asset.Handle
}

func (*TextureComponent) Type() ComponentType { return TypeTexture }

func (c *TextureComponent) Inspect(in Inspector) {
	in.Handle("Texture", asset.KindTexture, c.Handle)
}

// CameraComponent owns a camera.
type CameraComponent struct {
	Camera *scene.Camera
}

func (*CameraComponent) Type() ComponentType { return TypeCamera }

func (c *CameraComponent) Inspect(in Inspector) {
	if c.Camera == nil {
		in.Property("Camera", "<nil>")
		return
	}
	in.Property("FOV", c.Camera.FOV)
	in.Property("Near", c.Camera.NearPlane)
	in.Property("Far", c.Camera.FarPlane)
}

// MaterialComponent refers to a material asset.
type MaterialComponent struct {
	Handle asset.Handle
}

func (*MaterialComponent) Type() ComponentType { return TypeMaterial }

func (c *MaterialComponent) Inspect(in Inspector) {
	in.Handle("Material", asset.KindMaterial, c.Handle)
}

// UBOComponent owns a uniform buffer.
type UBOComponent struct {
	Buffer gfx.UniformBuffer
}

func (*UBOComponent) Type() ComponentType { return TypeUBO }

func (c *UBOComponent) Inspect(in Inspector) {
	if c.Buffer == nil {
		in.Property("Buffer", "<nil>")
		return
	}
	in.Property("Size", c.Buffer.Size())
}

// AttachmentComponent owns a framebuffer attachment so passes can move it
// between framebuffers.
type AttachmentComponent struct {
	Attachment gfx.Attachment
}

func (*AttachmentComponent) Type() ComponentType { return TypeFramebufferAttachment }

func (c *AttachmentComponent) Inspect(in Inspector) {
	if c.Attachment == nil {
		in.Property("Attachment", "<nil>")
		return
	}
	spec := c.Attachment.Spec()
	in.Property("Format", spec.Format.String())
	in.Property("Size", fmt.Sprintf("%dx%d", spec.Width, spec.Height))
	if spec.Format.IsLayered() {
		in.Property("Layers", spec.Layers)
	}
}

// EnvironmentMapComponent refers to an environment map asset.
type EnvironmentMapComponent struct {
	Handle asset.Handle
}

func (*EnvironmentMapComponent) Type() ComponentType { return TypeEnvironmentMap }

func (c *EnvironmentMapComponent) Inspect(in Inspector) {
	in.Handle("Environment", asset.KindEnvironmentMap, c.Handle)
}

// As downcasts c to the concrete component type T.
func As[T Component](c Component) (T, bool) {
	t, ok := c.(T)
	return t, ok
}
