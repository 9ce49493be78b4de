package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
)

// Tag names an entity.
type Tag struct {
	Name string
}

// Transform places an entity. Rotation holds Euler angles in radians.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Quat returns the rotation as a quaternion.
func (t *Transform) Quat() mgl32.Quat {
	return mgl32.AnglesToQuat(t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), mgl32.XYZ)
}

// Matrix returns translation * rotation * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Quat().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Forward is the local -Z axis rotated into world space.
func (t *Transform) Forward() mgl32.Vec3 {
	return t.Quat().Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// Up is the local +Y axis rotated into world space.
func (t *Transform) Up() mgl32.Vec3 {
	return t.Quat().Rotate(mgl32.Vec3{0, 1, 0}).Normalize()
}

// CullMode selects which faces the 3D renderer discards.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// MeshRenderer draws a mesh asset with a material asset. A zero Mesh
// handle draws the built-in cube.
type MeshRenderer struct {
	Mesh        asset.Handle
	Material    asset.Handle
	CastShadows bool
	Cull        CullMode
	DepthTest   bool
}

// SpriteRenderer draws a textured quad. A zero Texture draws flat colour.
type SpriteRenderer struct {
	Colour  mgl32.Vec4
	Texture asset.Handle
	Tiling  float32
}

// CircleRenderer draws a ring or disc filling the unit quad.
type CircleRenderer struct {
	Colour    mgl32.Vec4
	Thickness float32
	Fade      float32
}

// TextRenderer draws a string with its baseline at the transform origin.
type TextRenderer struct {
	Text        string
	Colour      mgl32.Vec4
	Kerning     float32
	LineSpacing float32
}

// LightColour is shared by every light kind.
type LightColour struct {
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Ambient  mgl32.Vec3
}

// ShadowSettings tunes shadow capture for one light.
type ShadowSettings struct {
	CastShadows bool
	MinBias     float32
	MaxBias     float32
	Near        float32
}

// DirectionalLight shines along the entity's forward axis. FrustumSize is
// the half extent of the orthographic shadow volume, Distance how far back
// from the view centre the shadow camera sits.
type DirectionalLight struct {
	LightColour
	Shadow      ShadowSettings
	FrustumSize float32
	Distance    float32
}

// PointLight radiates from the entity's position up to Range.
type PointLight struct {
	LightColour
	Shadow ShadowSettings
	Range  float32
}

// SpotLight is a cone along the entity's forward axis. Cutoffs are the
// half angles in degrees.
type SpotLight struct {
	LightColour
	Shadow      ShadowSettings
	Range       float32
	InnerCutoff float32
	OuterCutoff float32
}

// BoxCollider2D is an axis-aligned box in the entity's local XY plane.
// Size holds half extents.
type BoxCollider2D struct {
	Offset mgl32.Vec2
	Size   mgl32.Vec2
}

// CircleCollider2D is a circle in the entity's local XY plane.
type CircleCollider2D struct {
	Offset mgl32.Vec2
	Radius float32
}

// DefaultLightColour is a neutral white light.
func DefaultLightColour() LightColour {
	return LightColour{
		Diffuse:  mgl32.Vec3{1, 1, 1},
		Specular: mgl32.Vec3{1, 1, 1},
		Ambient:  mgl32.Vec3{0.1, 0.1, 0.1},
	}
}

// DefaultShadow returns shadow settings that work for most scenes.
func DefaultShadow() ShadowSettings {
	return ShadowSettings{CastShadows: true, MinBias: 0.0005, MaxBias: 0.005, Near: 0.1}
}
