package recording

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/render"
)

// Prim is one recorded 2D primitive.
type Prim struct {
	Kind      string // quad, sprite, circle, text, line, rect
	Transform mgl32.Mat4
	Colour    mgl32.Vec4
	Texture   gfx.Texture
	Text      string
	Thickness float32
	P0, P1    mgl32.Vec3
	EntityID  int32
}

// Renderer2D records 2D primitives. Each non-empty batch kind flushed at
// EndScene counts as one draw call, like the GL batcher.
type Renderer2D struct {
	Prims     []Prim
	Params    []render.SceneParams
	LineWidth float32
	open      bool
	batch     map[string]int
	stats     render.Stats
}

var _ render.Renderer2D = (*Renderer2D)(nil)

// NewRenderer2D creates an empty recorder.
func NewRenderer2D() *Renderer2D {
	return &Renderer2D{LineWidth: 1, batch: map[string]int{}}
}

func (r *Renderer2D) BeginScene(p render.SceneParams) {
	r.open = true
	r.Params = append(r.Params, p)
	clear(r.batch)
}

func (r *Renderer2D) EndScene() {
	for _, n := range r.batch {
		if n > 0 {
			r.stats.DrawCalls++
		}
	}
	clear(r.batch)
	r.open = false
}

func (r *Renderer2D) add(batch string, p Prim, vertices int) {
	r.Prims = append(r.Prims, p)
	r.batch[batch]++
	r.stats.Vertices += vertices
}

func (r *Renderer2D) DrawQuad(transform mgl32.Mat4, colour mgl32.Vec4, entityID int32) {
	r.stats.Quads++
	r.add("quad", Prim{Kind: "quad", Transform: transform, Colour: colour, EntityID: entityID}, 4)
}

func (r *Renderer2D) DrawSprite(transform mgl32.Mat4, tex gfx.Texture, tiling float32, tint mgl32.Vec4, entityID int32) {
	r.stats.Quads++
	r.add("quad", Prim{Kind: "sprite", Transform: transform, Colour: tint, Texture: tex, EntityID: entityID}, 4)
}

func (r *Renderer2D) DrawCircle(transform mgl32.Mat4, colour mgl32.Vec4, thickness, fade float32, entityID int32) {
	r.stats.Circles++
	r.add("circle", Prim{Kind: "circle", Transform: transform, Colour: colour, Thickness: thickness, EntityID: entityID}, 4)
}

func (r *Renderer2D) DrawString(text string, transform mgl32.Mat4, colour mgl32.Vec4, kerning, lineSpacing float32, entityID int32) {
	r.stats.Quads += len(text)
	r.add("text", Prim{Kind: "text", Transform: transform, Colour: colour, Text: text, EntityID: entityID}, 4*len(text))
}

func (r *Renderer2D) DrawLine(p0, p1 mgl32.Vec3, colour mgl32.Vec4) {
	r.stats.Lines++
	r.add("line", Prim{Kind: "line", P0: p0, P1: p1, Colour: colour, EntityID: -1}, 2)
}

func (r *Renderer2D) DrawRect(transform mgl32.Mat4, colour mgl32.Vec4) {
	r.stats.Lines += 4
	r.add("line", Prim{Kind: "rect", Transform: transform, Colour: colour, EntityID: -1}, 8)
}

func (r *Renderer2D) SetLineWidth(w float32) { r.LineWidth = w }

func (r *Renderer2D) Stats() render.Stats { return r.stats }
func (r *Renderer2D) ResetStats()         { r.stats = render.Stats{} }

// Count returns how many primitives of kind were recorded.
func (r *Renderer2D) Count(kind string) int {
	n := 0
	for _, p := range r.Prims {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded primitives, keeping stats.
func (r *Renderer2D) Reset() {
	r.Prims = nil
	r.Params = nil
}
