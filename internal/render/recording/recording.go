// Package recording provides immediate renderers that record what they are
// asked to draw instead of talking to a GPU.
package recording

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/render"
)

// MeshCall is one SubmitMesh or immediate draw.
type MeshCall struct {
	Mesh      gfx.Mesh
	Material  gfx.Material
	Transform mgl32.Mat4
	EntityID  int32
	Immediate string // "", "cube" or "quad"
}

// Scene groups everything submitted between BeginScene and EndScene.
type Scene struct {
	Params      render.SceneParams
	Directional []render.DirectionalLightSource
	Points      []render.PointLightSource
	Spots       []render.SpotLightSource
	Meshes      []MeshCall
}

// Renderer records 3D submissions. Meshes submitted in one scene count as
// one draw call each when the scene ends; immediate draws count at once.
type Renderer struct {
	Scenes     []*Scene
	Immediates []MeshCall
	open       *Scene
	stats      render.Stats
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer creates an empty recorder.
func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) BeginScene(p render.SceneParams) {
	r.open = &Scene{Params: p}
}

func (r *Renderer) EndScene() {
	if r.open == nil {
		return
	}
	for _, m := range r.open.Meshes {
		r.stats.DrawCalls++
		r.stats.Meshes++
		if m.Mesh != nil {
			r.stats.Vertices += m.Mesh.VertexCount()
		} else {
			r.stats.Vertices += 36
		}
	}
	r.Scenes = append(r.Scenes, r.open)
	r.open = nil
}

func (r *Renderer) SubmitDirectionalLight(l render.DirectionalLightSource) {
	if r.open != nil {
		r.open.Directional = append(r.open.Directional, l)
	}
}

func (r *Renderer) SubmitPointLight(l render.PointLightSource) {
	if r.open != nil {
		r.open.Points = append(r.open.Points, l)
	}
}

func (r *Renderer) SubmitSpotLight(l render.SpotLightSource) {
	if r.open != nil {
		r.open.Spots = append(r.open.Spots, l)
	}
}

func (r *Renderer) SubmitMesh(mesh gfx.Mesh, mat gfx.Material, transform mgl32.Mat4, entityID int32) {
	if r.open != nil {
		r.open.Meshes = append(r.open.Meshes, MeshCall{Mesh: mesh, Material: mat, Transform: transform, EntityID: entityID})
	}
}

func (r *Renderer) DrawCubeImmediate(mat gfx.Material, transform mgl32.Mat4) {
	r.Immediates = append(r.Immediates, MeshCall{Material: mat, Transform: transform, EntityID: -1, Immediate: "cube"})
	r.stats.DrawCalls++
	r.stats.Vertices += 36
}

func (r *Renderer) DrawQuadImmediate(mat gfx.Material, transform mgl32.Mat4) {
	r.Immediates = append(r.Immediates, MeshCall{Material: mat, Transform: transform, EntityID: -1, Immediate: "quad"})
	r.stats.DrawCalls++
	r.stats.Vertices += 6
}

func (r *Renderer) Stats() render.Stats { return r.stats }
func (r *Renderer) ResetStats()         { r.stats = render.Stats{} }

// Reset forgets everything recorded so far, keeping stats.
func (r *Renderer) Reset() {
	r.Scenes = nil
	r.Immediates = nil
	r.open = nil
}
