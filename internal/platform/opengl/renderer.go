package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/render"
)

// Light array capacities of lit.frag.
const (
	maxDirectionalLights = 4
	maxSpotLights        = 8
	maxPointLights       = 8
)

// RendererOptions configures the 3D renderer.
type RendererOptions struct {
	// DefaultMaterial draws meshes submitted without a material.
	DefaultMaterial *Material
	// Samplers maps sampler uniform names to the texture units passes bind
	// shadow and environment maps to.
	Samplers map[string]uint32
}

type meshCall struct {
	mesh      gfx.Mesh
	material  gfx.Material
	transform mgl32.Mat4
	entityID  int32
}

// Renderer is the batched 3D renderer. Meshes queue between BeginScene and
// EndScene; lights submitted in the same scene are uploaded to every
// program drawn in it.
type Renderer struct {
	opts       RendererOptions
	cube, quad *Mesh

	params   render.SceneParams
	viewProj mgl32.Mat4
	open     bool

	directional []render.DirectionalLightSource
	points      []render.PointLightSource
	spots       []render.SpotLightSource
	queue       []meshCall

	// programs that already received this scene's uniforms
	uploaded map[*Shader]bool
	warned   map[string]bool
	stats    render.Stats
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer creates the built-in cube and quad meshes.
func NewRenderer(opts RendererOptions) *Renderer {
	return &Renderer{
		opts:     opts,
		cube:     NewMesh(CubeVertices()),
		quad:     NewMesh(QuadVertices()),
		viewProj: mgl32.Ident4(),
		uploaded: make(map[*Shader]bool),
		warned:   make(map[string]bool),
	}
}

// Dispose cleans up OpenGL resources
func (r *Renderer) Dispose() {
	r.cube.Delete()
	r.quad.Delete()
}

func (r *Renderer) BeginScene(p render.SceneParams) {
	if r.open {
		logging.Logger().Warn("opengl: 3D scene begun twice, flushing the open one")
		r.EndScene()
	}
	r.params = p
	r.viewProj = viewProjection(p)
	r.open = true
	r.directional = r.directional[:0]
	r.points = r.points[:0]
	r.spots = r.spots[:0]
	r.queue = r.queue[:0]
	clear(r.uploaded)
}

func (r *Renderer) SubmitDirectionalLight(l render.DirectionalLightSource) {
	if len(r.directional) < maxDirectionalLights {
		r.directional = append(r.directional, l)
	}
}

func (r *Renderer) SubmitPointLight(l render.PointLightSource) {
	if len(r.points) < maxPointLights {
		r.points = append(r.points, l)
	}
}

func (r *Renderer) SubmitSpotLight(l render.SpotLightSource) {
	if len(r.spots) < maxSpotLights {
		r.spots = append(r.spots, l)
	}
}

func (r *Renderer) SubmitMesh(mesh gfx.Mesh, mat gfx.Material, transform mgl32.Mat4, entityID int32) {
	if !r.open {
		logging.Logger().Warn("opengl: mesh submitted outside a scene")
		return
	}
	if mesh == nil {
		mesh = r.cube
	}
	r.queue = append(r.queue, meshCall{mesh: mesh, material: mat, transform: transform, entityID: entityID})
}

func (r *Renderer) EndScene() {
	if !r.open {
		return
	}
	r.open = false
	applySceneState(r.params)

	var bound gfx.Material
	for _, call := range r.queue {
		mat := call.material
		if mat == nil {
			if r.opts.DefaultMaterial == nil {
				continue
			}
			mat = r.opts.DefaultMaterial
		}
		if mat != bound {
			mat.Bind()
			bound = mat
		}
		prog := r.program(mat)
		if prog != nil {
			if !r.uploaded[prog] {
				r.uploadScene(prog)
				r.uploaded[prog] = true
			}
			prog.SetMat4("u_Model", call.transform)
			prog.SetInt("u_EntityID", call.entityID)
		}
		call.mesh.Draw()
		r.stats.DrawCalls++
		r.stats.Meshes++
		r.stats.Vertices += call.mesh.VertexCount()
	}
	gl.BindVertexArray(0)
	r.queue = r.queue[:0]
}

func (r *Renderer) program(mat gfx.Material) *Shader {
	if m, ok := mat.(*Material); ok {
		return m.Program()
	}
	if name := mat.Shader(); !r.warned[name] {
		r.warned[name] = true
		logging.Logger().Warn("opengl: material is not a GL material, drawing without per-object uniforms", "shader", name)
	}
	return nil
}

// uploadScene sets the camera, tonemap and light uniforms on prog. Lights
// are indexed by submission order; each carries the shadow layer it was
// captured into.
func (r *Renderer) uploadScene(prog *Shader) {
	prog.SetMat4("u_ViewProjection", r.viewProj)
	prog.SetFloat("u_Gamma", r.params.Gamma)
	prog.SetFloat("u_Exposure", r.params.Exposure)
	for name, unit := range r.opts.Samplers {
		prog.SetInt(name, int32(unit))
	}

	prog.SetInt("u_DirectionalLightCount", int32(len(r.directional)))
	for i, l := range r.directional {
		u := lightUniforms("u_DirectionalLights", i)
		prog.SetVec3(u("Direction"), l.Direction)
		prog.SetVec3(u("Diffuse"), l.Diffuse)
		prog.SetVec3(u("Specular"), l.Specular)
		prog.SetVec3(u("Ambient"), l.Ambient)
		prog.SetMat4(u("LightSpace"), l.LightSpace)
		prog.SetVec2(u("Bias"), mgl32.Vec2{l.MinBias, l.MaxBias})
		prog.SetInt(u("ShadowLayer"), int32(l.ShadowLayer))
	}
	prog.SetInt("u_PointLightCount", int32(len(r.points)))
	for i, l := range r.points {
		u := lightUniforms("u_PointLights", i)
		prog.SetVec3(u("Position"), l.Position)
		prog.SetVec3(u("Diffuse"), l.Diffuse)
		prog.SetVec3(u("Specular"), l.Specular)
		prog.SetVec3(u("Ambient"), l.Ambient)
		prog.SetFloat(u("Range"), l.Range)
		prog.SetVec2(u("Bias"), mgl32.Vec2{l.MinBias, l.MaxBias})
		prog.SetInt(u("ShadowLayer"), int32(l.ShadowLayer))
	}
	prog.SetInt("u_SpotLightCount", int32(len(r.spots)))
	for i, l := range r.spots {
		u := lightUniforms("u_SpotLights", i)
		prog.SetVec3(u("Position"), l.Position)
		prog.SetVec3(u("Direction"), l.Direction)
		prog.SetVec3(u("Diffuse"), l.Diffuse)
		prog.SetVec3(u("Specular"), l.Specular)
		prog.SetVec3(u("Ambient"), l.Ambient)
		prog.SetFloat(u("Range"), l.Range)
		prog.SetVec2(u("Cutoff"), mgl32.Vec2{l.InnerCos, l.OuterCos})
		prog.SetMat4(u("LightSpace"), l.LightSpace)
		prog.SetVec2(u("Bias"), mgl32.Vec2{l.MinBias, l.MaxBias})
		prog.SetInt(u("ShadowLayer"), int32(l.ShadowLayer))
	}
}

// lightUniforms returns a formatter for the fields of element i of a
// uniform struct array.
func lightUniforms(array string, i int) func(field string) string {
	prefix := fmt.Sprintf("%s[%d].", array, i)
	return func(field string) string { return prefix + field }
}

// DrawCubeImmediate draws the built-in cube under the open scene's
// camera, outside the queue.
func (r *Renderer) DrawCubeImmediate(mat gfx.Material, transform mgl32.Mat4) {
	r.drawImmediate(r.cube, mat, transform, true)
}

// DrawQuadImmediate draws the built-in quad with depth testing and
// culling off. Fullscreen passes use it with an identity transform.
func (r *Renderer) DrawQuadImmediate(mat gfx.Material, transform mgl32.Mat4) {
	r.drawImmediate(r.quad, mat, transform, false)
}

func (r *Renderer) drawImmediate(mesh *Mesh, mat gfx.Material, transform mgl32.Mat4, depth bool) {
	if mat == nil {
		if r.opts.DefaultMaterial == nil {
			return
		}
		mat = r.opts.DefaultMaterial
	}
	if depth {
		applySceneState(r.params)
	} else {
		gl.Disable(gl.DEPTH_TEST)
		gl.Disable(gl.CULL_FACE)
	}
	mat.Bind()
	if prog := r.program(mat); prog != nil {
		prog.SetMat4("u_Model", transform)
		prog.SetMat4("u_ViewProjection", r.viewProj)
	}
	mesh.Draw()
	gl.BindVertexArray(0)
	if !depth {
		gl.Enable(gl.DEPTH_TEST)
		gl.Enable(gl.CULL_FACE)
	}
	r.stats.DrawCalls++
	r.stats.Vertices += mesh.VertexCount()
}

func (r *Renderer) Stats() render.Stats { return r.stats }
func (r *Renderer) ResetStats()         { r.stats = render.Stats{} }
