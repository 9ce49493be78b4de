package opengl

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/gfx"
)

// Material is a shader plus the parameters uploaded when it is bound.
// Parameters persist across binds, so a pass can set a value once and
// reuse the material every frame.
type Material struct {
	shader *Shader

	floats   map[string]float32
	ints     map[string]int32
	vec2s    map[string]mgl32.Vec2
	vec3s    map[string]mgl32.Vec3
	vec4s    map[string]mgl32.Vec4
	mat4s    map[string]mgl32.Mat4
	textures map[string]uint32
}

var _ gfx.Material = (*Material)(nil)

// NewMaterial wraps shader with an empty parameter block.
func NewMaterial(shader *Shader) *Material {
	return &Material{
		shader:   shader,
		floats:   map[string]float32{},
		ints:     map[string]int32{},
		vec2s:    map[string]mgl32.Vec2{},
		vec3s:    map[string]mgl32.Vec3{},
		vec4s:    map[string]mgl32.Vec4{},
		mat4s:    map[string]mgl32.Mat4{},
		textures: map[string]uint32{},
	}
}

// Program returns the underlying shader.
func (m *Material) Program() *Shader { return m.shader }

// Bind activates the program and uploads every parameter.
func (m *Material) Bind() {
	s := m.shader
	s.Use()
	for name, v := range m.floats {
		s.SetFloat(name, v)
	}
	for name, v := range m.ints {
		s.SetInt(name, v)
	}
	for name, v := range m.vec2s {
		s.SetVec2(name, v)
	}
	for name, v := range m.vec3s {
		s.SetVec3(name, v)
	}
	for name, v := range m.vec4s {
		s.SetVec4(name, v)
	}
	for name, v := range m.mat4s {
		s.SetMat4(name, v)
	}
	for name, slot := range m.textures {
		s.SetInt(name, int32(slot))
	}
}

func (m *Material) Shader() string { return m.shader.Name }

func (m *Material) SetFloat(name string, v float32)     { m.floats[name] = v }
func (m *Material) SetInt(name string, v int32)         { m.ints[name] = v }
func (m *Material) SetVec2(name string, v mgl32.Vec2)   { m.vec2s[name] = v }
func (m *Material) SetVec3(name string, v mgl32.Vec3)   { m.vec3s[name] = v }
func (m *Material) SetVec4(name string, v mgl32.Vec4)   { m.vec4s[name] = v }
func (m *Material) SetMat4(name string, v mgl32.Mat4)   { m.mat4s[name] = v }
func (m *Material) SetTexture(name string, slot uint32) { m.textures[name] = slot }
func (m *Material) Float(name string) (float32, bool)   { v, ok := m.floats[name]; return v, ok }
func (m *Material) Int(name string) (int32, bool)       { v, ok := m.ints[name]; return v, ok }
func (m *Material) Vec4(name string) (mgl32.Vec4, bool) { v, ok := m.vec4s[name]; return v, ok }

// Params lists the parameter names, sorted, for inspector output.
func (m *Material) Params() []string {
	var names []string
	for n := range m.floats {
		names = append(names, n)
	}
	for n := range m.ints {
		names = append(names, n)
	}
	for n := range m.vec2s {
		names = append(names, n)
	}
	for n := range m.vec3s {
		names = append(names, n)
	}
	for n := range m.vec4s {
		names = append(names, n)
	}
	for n := range m.mat4s {
		names = append(names, n)
	}
	for n := range m.textures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
