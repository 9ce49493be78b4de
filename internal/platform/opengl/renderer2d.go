package opengl

import (
	"path/filepath"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/render"
)

// Renderer2D batches quads, circles, lines and text into one draw call
// per primitive kind per flush.
type Renderer2D struct {
	quadShader   *Shader
	circleShader *Shader
	lineShader   *Shader
	textShader   *Shader

	quadVAO, quadVBO     uint32
	circleVAO, circleVBO uint32
	lineVAO, lineVBO     uint32
	textVAO, textVBO     uint32
	ibo                  uint32

	white     gfx.Texture
	font      *FontAtlas
	fontTex   *Texture
	lineWidth float32

	quads   quadBatch
	circles []circleVertex
	lines   []lineVertex
	text    []textVertex

	params   render.SceneParams
	viewProj mgl32.Mat4
	open     bool
	stats    render.Stats
}

var _ render.Renderer2D = (*Renderer2D)(nil)

// NewRenderer2D loads the 2D shaders from shaderDir. font may be nil, in
// which case DrawString is a no-op.
func NewRenderer2D(shaderDir string, white gfx.Texture, font *FontAtlas) (*Renderer2D, error) {
	r := &Renderer2D{white: white, font: font, lineWidth: 1}
	var err error
	load := func(name string) *Shader {
		if err != nil {
			return nil
		}
		var s *Shader
		s, err = NewShader(filepath.Join(shaderDir, name+".vert"), filepath.Join(shaderDir, name+".frag"))
		return s
	}
	r.quadShader = load("renderer2d_quad")
	r.circleShader = load("renderer2d_circle")
	r.lineShader = load("renderer2d_line")
	r.textShader = load("renderer2d_text")
	if err != nil {
		return nil, err
	}

	r.initBuffers()
	if font != nil {
		r.fontTex = font.Upload()
	}

	slots := make([]int32, maxTextureSlots)
	for i := range slots {
		slots[i] = int32(i)
	}
	r.quadShader.Use()
	r.quadShader.SetIntArray("u_Textures", slots)
	r.textShader.Use()
	r.textShader.SetInt("u_FontAtlas", 0)

	r.quads.reset(white)
	return r, nil
}

func (r *Renderer2D) initBuffers() {
	gl.GenBuffers(1, &r.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ibo)
	indices := quadIndices(maxQuads)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	type attrib struct {
		size    int32
		integer bool
	}
	setup := func(vao, vbo *uint32, stride int32, vertices int, indexed bool, attribs ...attrib) {
		gl.GenVertexArrays(1, vao)
		gl.BindVertexArray(*vao)
		gl.GenBuffers(1, vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, *vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vertices*int(stride), nil, gl.DYNAMIC_DRAW)
		offset := 0
		for i, a := range attribs {
			gl.EnableVertexAttribArray(uint32(i))
			if a.integer {
				gl.VertexAttribIPointer(uint32(i), a.size, gl.INT, stride, gl.PtrOffset(offset))
			} else {
				gl.VertexAttribPointerWithOffset(uint32(i), a.size, gl.FLOAT, false, stride, uintptr(offset))
			}
			offset += int(a.size) * 4
		}
		if indexed {
			gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ibo)
		}
		gl.BindVertexArray(0)
	}

	// position, colour, uv, texture index, tiling, entity id
	setup(&r.quadVAO, &r.quadVBO, quadVertexSize, maxQuadVertices, true,
		attrib{3, false}, attrib{4, false}, attrib{2, false}, attrib{1, false}, attrib{1, false}, attrib{1, true})
	// world position, local position, colour, thickness, fade, entity id
	setup(&r.circleVAO, &r.circleVBO, circleVertexSize, maxQuadVertices, true,
		attrib{3, false}, attrib{3, false}, attrib{4, false}, attrib{1, false}, attrib{1, false}, attrib{1, true})
	// position, colour
	setup(&r.lineVAO, &r.lineVBO, lineVertexSize, maxLineVertices, false,
		attrib{3, false}, attrib{4, false})
	// position, colour, uv, entity id
	setup(&r.textVAO, &r.textVBO, textVertexSize, maxQuadVertices, true,
		attrib{3, false}, attrib{4, false}, attrib{2, false}, attrib{1, true})
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Dispose cleans up OpenGL resources
func (r *Renderer2D) Dispose() {
	for _, vao := range []*uint32{&r.quadVAO, &r.circleVAO, &r.lineVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.quadVBO, &r.circleVBO, &r.lineVBO, &r.textVBO, &r.ibo} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	for _, s := range []*Shader{r.quadShader, r.circleShader, r.lineShader, r.textShader} {
		s.Delete()
	}
	if r.fontTex != nil {
		r.fontTex.Delete()
	}
}

func (r *Renderer2D) BeginScene(p render.SceneParams) {
	if r.open {
		logging.Logger().Warn("opengl: 2D scene begun twice, flushing the open one")
		r.EndScene()
	}
	r.params = p
	r.viewProj = viewProjection(p)
	r.open = true
	r.quads.reset(r.white)
	r.circles = r.circles[:0]
	r.lines = r.lines[:0]
	r.text = r.text[:0]
}

func (r *Renderer2D) EndScene() {
	if !r.open {
		return
	}
	r.flush()
	r.open = false
}

func (r *Renderer2D) flush() {
	applySceneState(r.params)

	if n := r.quads.quads(); n > 0 {
		for i, t := range r.quads.textures {
			t.Bind(uint32(i))
		}
		r.quadShader.Use()
		r.quadShader.SetMat4("u_ViewProjection", r.viewProj)
		r.drawIndexed(r.quadVAO, r.quadVBO, gl.Ptr(r.quads.vertices), len(r.quads.vertices), quadVertexSize)
	}
	if len(r.circles) > 0 {
		r.circleShader.Use()
		r.circleShader.SetMat4("u_ViewProjection", r.viewProj)
		r.drawIndexed(r.circleVAO, r.circleVBO, gl.Ptr(r.circles), len(r.circles), circleVertexSize)
	}
	if len(r.lines) > 0 {
		r.lineShader.Use()
		r.lineShader.SetMat4("u_ViewProjection", r.viewProj)
		gl.LineWidth(r.lineWidth)
		gl.BindVertexArray(r.lineVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.lines)*int(lineVertexSize), gl.Ptr(r.lines))
		gl.DrawArrays(gl.LINES, 0, int32(len(r.lines)))
		r.stats.DrawCalls++
		r.stats.Vertices += len(r.lines)
	}
	if len(r.text) > 0 && r.fontTex != nil {
		r.fontTex.Bind(0)
		r.textShader.Use()
		r.textShader.SetMat4("u_ViewProjection", r.viewProj)
		r.drawIndexed(r.textVAO, r.textVBO, gl.Ptr(r.text), len(r.text), textVertexSize)
	}
	gl.BindVertexArray(0)

	r.quads.reset(r.white)
	r.circles = r.circles[:0]
	r.lines = r.lines[:0]
	r.text = r.text[:0]
}

func (r *Renderer2D) drawIndexed(vao, vbo uint32, data unsafe.Pointer, vertices int, stride int32) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, vertices*int(stride), data)
	gl.DrawElements(gl.TRIANGLES, int32(vertices/4*6), gl.UNSIGNED_INT, nil)
	r.stats.DrawCalls++
	r.stats.Vertices += vertices
}

func (r *Renderer2D) DrawQuad(transform mgl32.Mat4, colour mgl32.Vec4, entityID int32) {
	if r.quads.full() {
		r.flush()
	}
	r.quads.add(transform, colour, 0, 1, entityID)
	r.stats.Quads++
}

func (r *Renderer2D) DrawSprite(transform mgl32.Mat4, tex gfx.Texture, tiling float32, tint mgl32.Vec4, entityID int32) {
	if tex == nil {
		r.DrawQuad(transform, tint, entityID)
		return
	}
	if r.quads.full() {
		r.flush()
	}
	slot, ok := r.quads.slot(tex)
	if !ok {
		r.flush()
		slot, _ = r.quads.slot(tex)
	}
	r.quads.add(transform, tint, slot, tiling, entityID)
	r.stats.Quads++
}

func (r *Renderer2D) DrawCircle(transform mgl32.Mat4, colour mgl32.Vec4, thickness, fade float32, entityID int32) {
	if len(r.circles) >= maxQuadVertices {
		r.flush()
	}
	r.circles = appendCircle(r.circles, transform, colour, thickness, fade, entityID)
	r.stats.Circles++
}

func (r *Renderer2D) DrawString(text string, transform mgl32.Mat4, colour mgl32.Vec4, kerning, lineSpacing float32, entityID int32) {
	if r.font == nil || text == "" {
		return
	}
	glyphs := r.font.Layout(text, kerning, lineSpacing)
	if len(r.text)+len(glyphs)*4 > maxQuadVertices {
		r.flush()
	}
	if len(glyphs)*4 > maxQuadVertices {
		glyphs = glyphs[:maxQuads]
	}
	r.text = appendGlyphs(r.text, glyphs, transform, colour, entityID)
	r.stats.Quads += len(glyphs)
}

func (r *Renderer2D) DrawLine(p0, p1 mgl32.Vec3, colour mgl32.Vec4) {
	if len(r.lines)+2 > maxLineVertices {
		r.flush()
	}
	r.lines = append(r.lines, lineVertex{Position: p0, Colour: colour}, lineVertex{Position: p1, Colour: colour})
	r.stats.Lines++
}

func (r *Renderer2D) DrawRect(transform mgl32.Mat4, colour mgl32.Vec4) {
	c := rectCorners(transform)
	for i := range c {
		r.DrawLine(c[i], c[(i+1)%4], colour)
	}
}

func (r *Renderer2D) SetLineWidth(w float32) {
	if w > 0 {
		r.lineWidth = w
	}
}

func (r *Renderer2D) Stats() render.Stats { return r.stats }
func (r *Renderer2D) ResetStats()         { r.stats = render.Stats{} }
