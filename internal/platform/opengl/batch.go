package opengl

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
)

const (
	maxQuads        = 10000
	maxQuadVertices = maxQuads * 4
	maxQuadIndices  = maxQuads * 6
	maxLineVertices = maxQuads * 2
	// maxTextureSlots is the sampler array size in the quad shader. Slot 0
	// is the white texture.
	maxTextureSlots = 16
)

var (
	quadCorners = [4]mgl32.Vec4{{-0.5, -0.5, 0, 1}, {0.5, -0.5, 0, 1}, {0.5, 0.5, 0, 1}, {-0.5, 0.5, 0, 1}}
	quadUVs     = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
)

type quadVertex struct {
	Position mgl32.Vec3
	Colour   mgl32.Vec4
	UV       mgl32.Vec2
	TexIndex float32
	Tiling   float32
	EntityID int32
}

type circleVertex struct {
	WorldPosition mgl32.Vec3
	LocalPosition mgl32.Vec3
	Colour        mgl32.Vec4
	Thickness     float32
	Fade          float32
	EntityID      int32
}

type lineVertex struct {
	Position mgl32.Vec3
	Colour   mgl32.Vec4
}

type textVertex struct {
	Position mgl32.Vec3
	Colour   mgl32.Vec4
	UV       mgl32.Vec2
	EntityID int32
}

var (
	quadVertexSize   = int32(unsafe.Sizeof(quadVertex{}))
	circleVertexSize = int32(unsafe.Sizeof(circleVertex{}))
	lineVertexSize   = int32(unsafe.Sizeof(lineVertex{}))
	textVertexSize   = int32(unsafe.Sizeof(textVertex{}))
)

// quadIndices is the shared index pattern for every quad-based batch.
func quadIndices(quads int) []uint32 {
	out := make([]uint32, 0, quads*6)
	for i := 0; i < quads; i++ {
		base := uint32(i * 4)
		out = append(out, base, base+1, base+2, base+2, base+3, base)
	}
	return out
}

// quadBatch accumulates textured quads until the vertex or texture slot
// limit is reached.
type quadBatch struct {
	vertices []quadVertex
	textures []gfx.Texture
}

func (b *quadBatch) reset(white gfx.Texture) {
	b.vertices = b.vertices[:0]
	b.textures = append(b.textures[:0], white)
}

func (b *quadBatch) quads() int { return len(b.vertices) / 4 }
func (b *quadBatch) full() bool { return len(b.vertices) >= maxQuadVertices }

// slot returns the sampler index for tex, adding it if there is room.
func (b *quadBatch) slot(tex gfx.Texture) (float32, bool) {
	for i, t := range b.textures {
		if t == tex {
			return float32(i), true
		}
	}
	if len(b.textures) >= maxTextureSlots {
		return 0, false
	}
	b.textures = append(b.textures, tex)
	return float32(len(b.textures) - 1), true
}

func (b *quadBatch) add(transform mgl32.Mat4, colour mgl32.Vec4, texIndex, tiling float32, entityID int32) {
	for i, c := range quadCorners {
		b.vertices = append(b.vertices, quadVertex{
			Position: transform.Mul4x1(c).Vec3(),
			Colour:   colour,
			UV:       quadUVs[i],
			TexIndex: texIndex,
			Tiling:   tiling,
			EntityID: entityID,
		})
	}
}

func appendCircle(dst []circleVertex, transform mgl32.Mat4, colour mgl32.Vec4, thickness, fade float32, entityID int32) []circleVertex {
	for _, c := range quadCorners {
		dst = append(dst, circleVertex{
			WorldPosition: transform.Mul4x1(c).Vec3(),
			LocalPosition: c.Vec3().Mul(2),
			Colour:        colour,
			Thickness:     thickness,
			Fade:          fade,
			EntityID:      entityID,
		})
	}
	return dst
}

// rectCorners returns the outline of the unit quad under transform, as
// four line segments.
func rectCorners(transform mgl32.Mat4) [4]mgl32.Vec3 {
	var out [4]mgl32.Vec3
	for i, c := range quadCorners {
		out[i] = transform.Mul4x1(c).Vec3()
	}
	return out
}

func appendGlyphs(dst []textVertex, quads []GlyphQuad, transform mgl32.Mat4, colour mgl32.Vec4, entityID int32) []textVertex {
	for _, q := range quads {
		corners := [4]struct {
			pos mgl32.Vec2
			uv  mgl32.Vec2
		}{
			{mgl32.Vec2{q.Min[0], q.Min[1]}, mgl32.Vec2{q.UVMin[0], q.UVMin[1]}},
			{mgl32.Vec2{q.Max[0], q.Min[1]}, mgl32.Vec2{q.UVMax[0], q.UVMin[1]}},
			{mgl32.Vec2{q.Max[0], q.Max[1]}, mgl32.Vec2{q.UVMax[0], q.UVMax[1]}},
			{mgl32.Vec2{q.Min[0], q.Max[1]}, mgl32.Vec2{q.UVMin[0], q.UVMax[1]}},
		}
		for _, c := range corners {
			dst = append(dst, textVertex{
				Position: transform.Mul4x1(mgl32.Vec4{c.pos[0], c.pos[1], 0, 1}).Vec3(),
				Colour:   colour,
				UV:       c.uv,
				EntityID: entityID,
			})
		}
	}
	return dst
}
