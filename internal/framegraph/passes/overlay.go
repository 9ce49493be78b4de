package passes

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// Gizmo colours.
var (
	ColliderColour  = mgl32.Vec4{0, 1, 0, 1}
	SelectionColour = mgl32.Vec4{1, 0.5, 0, 1}
	LightColour     = mgl32.Vec4{1, 1, 0.4, 1}
)

const gizmoSegments = 32

// NewOverlayPass draws editor gizmos on top of the final image: 2D
// collider outlines when enabled, then the outline and light shape of the
// selected entity. Inputs: show-colliders bool, selected entity.
func NewOverlayPass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{framegraph.TypePrimitive, framegraph.TypePrimitive}
	return framegraph.NewRenderPass("Overlay", inputs,
		func(ctx *framegraph.PassContext, _ gfx.Framebuffer, inputs []framegraph.Component) {
			if ctx.Scene == nil || ctx.Camera == nil {
				return
			}
			show, ok := framegraph.PrimitiveInput[bool](inputs, 0)
			if !ok {
				return
			}
			selected, ok := framegraph.PrimitiveInput[scene.Entity](inputs, 1)
			if !ok {
				return
			}

			params := render.CameraParams(ctx.Camera, ctx.CameraTransform)
			params.Depth = render.DepthAlways
			params.DepthWrite = false
			params.Cull = scene.CullNone

			r := ctx.Renderer2D
			r.BeginScene(params)
			if show.Value {
				drawColliders(ctx.Scene, r)
			}
			if e := selected.Value; e.Valid() && e.Scene() == ctx.Scene {
				drawSelection(e, r)
			}
			r.EndScene()
		})
}

func drawColliders(s *scene.Scene, r render.Renderer2D) {
	scene.Each2(s, func(_ scene.Entity, t *scene.Transform, bc *scene.BoxCollider2D) {
		m := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()+0.001).
			Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z())).
			Mul4(mgl32.Translate3D(bc.Offset.X(), bc.Offset.Y(), 0)).
			Mul4(mgl32.Scale3D(bc.Size.X()*2*t.Scale.X(), bc.Size.Y()*2*t.Scale.Y(), 1))
		r.DrawRect(m, ColliderColour)
	})
	scene.Each2(s, func(_ scene.Entity, t *scene.Transform, cc *scene.CircleCollider2D) {
		d := cc.Radius * 2 * t.Scale.X()
		m := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()+0.001).
			Mul4(mgl32.Translate3D(cc.Offset.X(), cc.Offset.Y(), 0)).
			Mul4(mgl32.Scale3D(d, d, 1))
		r.DrawCircle(m, ColliderColour, 0.05, 0.005, -1)
	})
}

func drawSelection(e scene.Entity, r render.Renderer2D) {
	t := scene.Get[scene.Transform](e)
	if t == nil {
		return
	}
	switch {
	case scene.Has[scene.MeshRenderer](e):
		drawBox(r, t.Matrix(), SelectionColour)
	case scene.Has[scene.SpriteRenderer](e), scene.Has[scene.CircleRenderer](e), scene.Has[scene.TextRenderer](e):
		r.DrawRect(t.Matrix(), SelectionColour)
	}

	if pl := scene.Get[scene.PointLight](e); pl != nil {
		drawPointGizmo(r, t, pl)
	}
	if sl := scene.Get[scene.SpotLight](e); sl != nil {
		drawSpotGizmo(r, t, sl)
	}
	if scene.Has[scene.DirectionalLight](e) {
		p := t.Translation
		r.DrawLine(p, p.Add(t.Forward().Mul(2)), LightColour)
	}
}

// drawBox outlines the unit cube under m with its 12 edges.
func drawBox(r render.Renderer2D, m mgl32.Mat4, colour mgl32.Vec4) {
	var c [8]mgl32.Vec3
	for i := range c {
		x := float32(i&1) - 0.5
		y := float32(i>>1&1) - 0.5
		z := float32(i>>2&1) - 0.5
		c[i] = mgl32.TransformCoordinate(mgl32.Vec3{x, y, z}, m)
	}
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		r.DrawLine(c[e[0]], c[e[1]], colour)
	}
}

// drawRing draws a circle of radius around centre in the plane spanned by
// the unit vectors u and v.
func drawRing(r render.Renderer2D, centre, u, v mgl32.Vec3, radius float32, colour mgl32.Vec4) {
	point := func(i int) mgl32.Vec3 {
		a := 2 * math32.Pi * float32(i) / gizmoSegments
		return centre.Add(u.Mul(radius * math32.Cos(a))).Add(v.Mul(radius * math32.Sin(a)))
	}
	prev := point(0)
	for i := 1; i <= gizmoSegments; i++ {
		next := point(i)
		r.DrawLine(prev, next, colour)
		prev = next
	}
}

func drawPointGizmo(r render.Renderer2D, t *scene.Transform, l *scene.PointLight) {
	p, rad := t.Translation, lightRange(l.Range)
	x, y, z := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
	drawRing(r, p, x, y, rad, LightColour)
	drawRing(r, p, x, z, rad, LightColour)
	drawRing(r, p, y, z, rad, LightColour)
}

func drawSpotGizmo(r render.Renderer2D, t *scene.Transform, l *scene.SpotLight) {
	q := t.Quat()
	p := t.Translation
	fwd := t.Forward()
	u := q.Rotate(mgl32.Vec3{1, 0, 0}).Normalize()
	v := q.Rotate(mgl32.Vec3{0, 1, 0}).Normalize()

	dist := lightRange(l.Range)
	centre := p.Add(fwd.Mul(dist))
	inner := dist * math32.Tan(mgl32.DegToRad(l.InnerCutoff))
	outer := dist * math32.Tan(mgl32.DegToRad(l.OuterCutoff))
	drawRing(r, centre, u, v, inner, LightColour)
	drawRing(r, centre, u, v, outer, LightColour)
	for _, dir := range []mgl32.Vec3{u, u.Mul(-1), v, v.Mul(-1)} {
		r.DrawLine(p, centre.Add(dir.Mul(outer)), LightColour)
	}
}
