package scene

import "github.com/go-gl/mathgl/mgl32"

// ProjectionType selects how a Camera projects.
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Camera holds projection parameters. Its placement comes from a separate
// world transform so the same camera can be driven by an editor controller
// or a scene entity.
type Camera struct {
	Projection  ProjectionType
	AspectRatio float32
	FOV         float32 // degrees, perspective only
	OrthoSize   float32 // full height, orthographic only
	NearPlane   float32
	FarPlane    float32
}

// NewCamera creates a perspective camera for a viewport of the given size.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		Projection: Perspective,
		FOV:        60.0,
		OrthoSize:  10.0,
		NearPlane:  0.1,
		FarPlane:   1000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. Zero-sized viewports are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// ProjectionMatrix returns the projection for the current settings.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == Orthographic {
		h := c.OrthoSize * 0.5
		w := h * c.AspectRatio
		return mgl32.Ortho(-w, w, -h, h, c.NearPlane, c.FarPlane)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ViewProjection combines the projection with the inverse of the camera's
// world transform.
func (c *Camera) ViewProjection(world mgl32.Mat4) mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(world.Inv())
}
