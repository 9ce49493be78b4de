package nullgfx

import "github.com/go-gl/mathgl/mgl32"

// Material keeps its parameters in maps.
type Material struct {
	ShaderName string
	BindCount  int

	Floats   map[string]float32
	Ints     map[string]int32
	Vec2s    map[string]mgl32.Vec2
	Vec3s    map[string]mgl32.Vec3
	Vec4s    map[string]mgl32.Vec4
	Mat4s    map[string]mgl32.Mat4
	Textures map[string]uint32
}

// NewMaterial creates a material for the named shader.
func NewMaterial(shader string) *Material {
	return &Material{
		ShaderName: shader,
		Floats:     map[string]float32{},
		Ints:       map[string]int32{},
		Vec2s:      map[string]mgl32.Vec2{},
		Vec3s:      map[string]mgl32.Vec3{},
		Vec4s:      map[string]mgl32.Vec4{},
		Mat4s:      map[string]mgl32.Mat4{},
		Textures:   map[string]uint32{},
	}
}

func (m *Material) Bind()          { m.BindCount++ }
func (m *Material) Shader() string { return m.ShaderName }

func (m *Material) SetFloat(name string, v float32)     { m.Floats[name] = v }
func (m *Material) SetInt(name string, v int32)         { m.Ints[name] = v }
func (m *Material) SetVec2(name string, v mgl32.Vec2)   { m.Vec2s[name] = v }
func (m *Material) SetVec3(name string, v mgl32.Vec3)   { m.Vec3s[name] = v }
func (m *Material) SetVec4(name string, v mgl32.Vec4)   { m.Vec4s[name] = v }
func (m *Material) SetMat4(name string, v mgl32.Mat4)   { m.Mat4s[name] = v }
func (m *Material) SetTexture(name string, slot uint32) { m.Textures[name] = slot }
func (m *Material) Float(name string) (float32, bool)   { v, ok := m.Floats[name]; return v, ok }
func (m *Material) Int(name string) (int32, bool)       { v, ok := m.Ints[name]; return v, ok }
func (m *Material) Vec4(name string) (mgl32.Vec4, bool) { v, ok := m.Vec4s[name]; return v, ok }

// Mesh is a vertex count with a draw counter.
type Mesh struct {
	Vertices int
	Draws    int
}

func (m *Mesh) Draw()            { m.Draws++ }
func (m *Mesh) VertexCount() int { return m.Vertices }
