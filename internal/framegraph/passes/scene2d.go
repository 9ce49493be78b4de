package passes

import (
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// NewScene2DPass draws sprites, circles and text. It takes no inputs.
func NewScene2DPass() *framegraph.RenderPass {
	return framegraph.NewRenderPass("Scene2D", nil, renderScene2D)
}

func renderScene2D(ctx *framegraph.PassContext, _ gfx.Framebuffer, _ []framegraph.Component) {
	if ctx.Scene == nil || ctx.Camera == nil {
		return
	}
	params := render.CameraParams(ctx.Camera, ctx.CameraTransform)
	params.Cull = scene.CullNone
	params.Depth = render.DepthLessEqual

	r := ctx.Renderer2D
	r.BeginScene(params)
	scene.Each2(ctx.Scene, func(e scene.Entity, t *scene.Transform, s *scene.SpriteRenderer) {
		id := int32(e.ID())
		if s.Texture != 0 {
			if tex, ok := ctx.Assets.Texture(s.Texture); ok {
				r.DrawSprite(t.Matrix(), tex, max(s.Tiling, 1e-3), s.Colour, id)
				return
			}
		}
		r.DrawQuad(t.Matrix(), s.Colour, id)
	})
	scene.Each2(ctx.Scene, func(e scene.Entity, t *scene.Transform, c *scene.CircleRenderer) {
		r.DrawCircle(t.Matrix(), c.Colour, c.Thickness, c.Fade, int32(e.ID()))
	})
	scene.Each2(ctx.Scene, func(e scene.Entity, t *scene.Transform, tr *scene.TextRenderer) {
		if tr.Text == "" {
			return
		}
		r.DrawString(tr.Text, t.Matrix(), tr.Colour, tr.Kerning, tr.LineSpacing, int32(e.ID()))
	})
	r.EndScene()
}
