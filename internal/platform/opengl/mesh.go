package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"lumen/internal/gfx"
)

// MeshStride is the float count of one mesh vertex: position, normal, uv.
const MeshStride = 8

// Mesh is a non-indexed triangle list in the MeshStride layout.
type Mesh struct {
	vao, vbo uint32
	count    int
}

var _ gfx.Mesh = (*Mesh)(nil)

// NewMesh uploads vertices, which must be a multiple of MeshStride floats.
func NewMesh(vertices []float32) *Mesh {
	m := &Mesh{count: len(vertices) / MeshStride}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(MeshStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(m.count))
}

func (m *Mesh) VertexCount() int { return m.count }

// Delete releases the buffers.
func (m *Mesh) Delete() {
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo = 0, 0
}

// CubeVertices is a unit cube centred on the origin, counter-clockwise
// front faces, in the MeshStride layout.
func CubeVertices() []float32 {
	type face struct {
		normal [3]float32
		// corners in counter-clockwise order seen from outside
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := [6]int{0, 1, 2, 0, 2, 3}

	out := make([]float32, 0, 36*MeshStride)
	for _, f := range faces {
		for _, i := range order {
			c := f.corners[i]
			out = append(out, c[0], c[1], c[2], f.normal[0], f.normal[1], f.normal[2], uvs[i][0], uvs[i][1])
		}
	}
	return out
}

// QuadVertices is a unit quad in the XY plane facing +Z. Fullscreen
// shaders double its positions to cover clip space.
func QuadVertices() []float32 {
	corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := [6]int{0, 1, 2, 0, 2, 3}
	out := make([]float32, 0, 6*MeshStride)
	for _, i := range order {
		out = append(out, corners[i][0], corners[i][1], 0, 0, 0, 1, uvs[i][0], uvs[i][1])
	}
	return out
}
