package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/render"
	"lumen/internal/scene"
)

// viewProjection combines a scene's projection with the inverse of its
// view transform.
func viewProjection(p render.SceneParams) mgl32.Mat4 {
	return p.Projection.Mul4(p.View.Inv())
}

// applySceneState sets cull, depth test and depth write from p.
func applySceneState(p render.SceneParams) {
	switch p.Cull {
	case scene.CullNone:
		gl.Disable(gl.CULL_FACE)
	case scene.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	gl.Enable(gl.DEPTH_TEST)
	switch p.Depth {
	case render.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	case render.DepthAlways:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LESS)
	}
	gl.DepthMask(p.DepthWrite)
}
