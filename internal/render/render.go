// Package render declares the immediate-mode renderers the frame graph
// drives. Each FrameRenderer owns its own instances so draw statistics are
// never shared between renderers.
package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/scene"
)

// Stats counts work submitted since the last ResetStats.
type Stats struct {
	DrawCalls int
	Meshes    int
	Quads     int
	Circles   int
	Lines     int
	Vertices  int
}

// Add returns the component-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		DrawCalls: s.DrawCalls + o.DrawCalls,
		Meshes:    s.Meshes + o.Meshes,
		Quads:     s.Quads + o.Quads,
		Circles:   s.Circles + o.Circles,
		Lines:     s.Lines + o.Lines,
		Vertices:  s.Vertices + o.Vertices,
	}
}

// Sub returns s minus o, clamping each counter at zero.
func (s Stats) Sub(o Stats) Stats {
	sub := func(a, b int) int {
		if a < b {
			return 0
		}
		return a - b
	}
	return Stats{
		DrawCalls: sub(s.DrawCalls, o.DrawCalls),
		Meshes:    sub(s.Meshes, o.Meshes),
		Quads:     sub(s.Quads, o.Quads),
		Circles:   sub(s.Circles, o.Circles),
		Lines:     sub(s.Lines, o.Lines),
		Vertices:  sub(s.Vertices, o.Vertices),
	}
}

// DepthFunc is the depth comparison used while a scene is open.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthAlways
)

// SceneParams opens a scene. View is the camera's world transform; the
// renderer inverts it.
type SceneParams struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Gamma      float32
	Exposure   float32
	Cull       scene.CullMode
	Depth      DepthFunc
	DepthWrite bool
}

// CameraParams builds SceneParams for a scene camera.
func CameraParams(cam *scene.Camera, world mgl32.Mat4) SceneParams {
	return SceneParams{
		Projection: cam.ProjectionMatrix(),
		View:       world,
		Gamma:      2.2,
		Exposure:   1.0,
		Cull:       scene.CullBack,
		Depth:      DepthLess,
		DepthWrite: true,
	}
}

// LightSpaceParams builds SceneParams for rendering from a light, where
// lightSpace already is projection * view.
func LightSpaceParams(lightSpace mgl32.Mat4) SceneParams {
	return SceneParams{
		Projection: lightSpace,
		View:       mgl32.Ident4(),
		Gamma:      1.0,
		Exposure:   1.0,
		Cull:       scene.CullFront,
		Depth:      DepthLess,
		DepthWrite: true,
	}
}

// DirectionalLightSource is the per-frame descriptor of a directional light.
type DirectionalLightSource struct {
	Direction   mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Ambient     mgl32.Vec3
	LightSpace  mgl32.Mat4
	MinBias     float32
	MaxBias     float32
	CastShadows bool
	// ShadowLayer is the layer of the shadow map array this light was
	// captured into, or -1.
	ShadowLayer int
}

// PointLightSource is the per-frame descriptor of a point light.
type PointLightSource struct {
	Position    mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Ambient     mgl32.Vec3
	Range       float32
	MinBias     float32
	MaxBias     float32
	CastShadows bool
	ShadowLayer int
}

// SpotLightSource is the per-frame descriptor of a spot light. Cutoffs are
// cosines of the half angles.
type SpotLightSource struct {
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Ambient     mgl32.Vec3
	Range       float32
	InnerCos    float32
	OuterCos    float32
	LightSpace  mgl32.Mat4
	MinBias     float32
	MaxBias     float32
	CastShadows bool
	ShadowLayer int
}

// Renderer is the batched 3D renderer.
type Renderer interface {
	BeginScene(p SceneParams)
	EndScene()

	SubmitDirectionalLight(l DirectionalLightSource)
	SubmitPointLight(l PointLightSource)
	SubmitSpotLight(l SpotLightSource)

	// SubmitMesh queues mesh for drawing; a nil mesh draws the built-in cube
	// and a nil material the renderer's default material.
	SubmitMesh(mesh gfx.Mesh, mat gfx.Material, transform mgl32.Mat4, entityID int32)
	// DrawCubeImmediate and DrawQuadImmediate bypass the queue.
	DrawCubeImmediate(mat gfx.Material, transform mgl32.Mat4)
	DrawQuadImmediate(mat gfx.Material, transform mgl32.Mat4)

	Stats() Stats
	ResetStats()
}

// Renderer2D is the batched 2D renderer.
type Renderer2D interface {
	BeginScene(p SceneParams)
	EndScene()

	DrawQuad(transform mgl32.Mat4, colour mgl32.Vec4, entityID int32)
	DrawSprite(transform mgl32.Mat4, tex gfx.Texture, tiling float32, tint mgl32.Vec4, entityID int32)
	DrawCircle(transform mgl32.Mat4, colour mgl32.Vec4, thickness, fade float32, entityID int32)
	DrawString(text string, transform mgl32.Mat4, colour mgl32.Vec4, kerning, lineSpacing float32, entityID int32)
	DrawLine(p0, p1 mgl32.Vec3, colour mgl32.Vec4)
	// DrawRect outlines the unit quad under transform.
	DrawRect(transform mgl32.Mat4, colour mgl32.Vec4)
	SetLineWidth(w float32)

	Stats() Stats
	ResetStats()
}
