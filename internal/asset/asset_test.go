package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/gfx/nullgfx"
)

func TestAddAssignsFreshHandles(t *testing.T) {
	m := NewManager()
	tex, err := m.Add("white", nullgfx.NewTexture("white", 1, 1))
	require.NoError(t, err)
	mat, err := m.Add("", nullgfx.NewMaterial("lit"))
	require.NoError(t, err)

	assert.Equal(t, Handle(1), tex)
	assert.Equal(t, Handle(2), mat)
	assert.Equal(t, KindTexture, m.KindOf(tex))
	assert.Equal(t, KindMaterial, m.KindOf(mat))
	assert.Equal(t, 2, m.Len())

	h, ok := m.Lookup("white")
	assert.True(t, ok)
	assert.Equal(t, tex, h)
}

func TestAddSkipsHandlesTakenByPut(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Put(1, "mesh", &nullgfx.Mesh{Vertices: 36}))
	h, err := m.Add("sky", &EnvironmentMap{})
	require.NoError(t, err)
	assert.Equal(t, Handle(2), h)
	assert.Equal(t, KindEnvironmentMap, m.KindOf(h))
}

func TestAddRejectsUnknownTypes(t *testing.T) {
	m := NewManager()
	h, err := m.Add("number", 42)
	assert.Error(t, err)
	assert.Equal(t, Invalid, h)
	assert.Error(t, m.Put(Invalid, "", nullgfx.NewMaterial("lit")))
}

func TestResolveChecksKind(t *testing.T) {
	m := NewManager()
	h, err := m.Add("lit", nullgfx.NewMaterial("lit"))
	require.NoError(t, err)

	_, ok := m.Material(h)
	assert.True(t, ok)
	_, ok = m.Texture(h)
	assert.False(t, ok)
	_, ok = m.Mesh(Invalid)
	assert.False(t, ok)
}

func TestPutReplacesAndRemoveForgets(t *testing.T) {
	m := NewManager()
	h, err := m.Add("a", nullgfx.NewMaterial("a"))
	require.NoError(t, err)
	require.NoError(t, m.Put(h, "b", nullgfx.NewMaterial("b")))

	_, ok := m.Lookup("a")
	assert.False(t, ok, "old name released")
	mat, _ := m.Material(h)
	assert.Equal(t, "b", mat.Shader())

	m.Remove(h)
	_, ok = m.Lookup("b")
	assert.False(t, ok)
	assert.Equal(t, KindNone, m.KindOf(h))
	assert.Equal(t, "None", m.KindOf(h).String())
}
