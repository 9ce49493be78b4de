package asset

import (
	"fmt"
	"strconv"
	"sync"

	"lumen/internal/gfx"
)

// Handle identifies a loaded asset. Zero is never a valid handle.
type Handle uint64

// Invalid is the zero handle.
const Invalid Handle = 0

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Kind is the asset category a handle refers to.
type Kind int

const (
	KindNone Kind = iota
	KindTexture
	KindMaterial
	KindMesh
	KindEnvironmentMap
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "Texture"
	case KindMaterial:
		return "Material"
	case KindMesh:
		return "Mesh"
	case KindEnvironmentMap:
		return "EnvironmentMap"
	}
	return "None"
}

// EnvironmentMap is a precomputed image-based lighting set.
type EnvironmentMap struct {
	Base        gfx.Texture
	Irradiance  gfx.Texture
	Prefiltered gfx.Texture
}

type entry struct {
	kind  Kind
	value any
	name  string
}

// Manager maps handles to loaded assets. It is safe for concurrent use so
// that loader goroutines can register while the render thread resolves.
type Manager struct {
	mu     sync.RWMutex
	next   Handle
	assets map[Handle]entry
	names  map[string]Handle
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		assets: make(map[Handle]entry),
		names:  make(map[string]Handle),
	}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case gfx.Texture:
		return KindTexture
	case gfx.Material:
		return KindMaterial
	case gfx.Mesh:
		return KindMesh
	case *EnvironmentMap:
		return KindEnvironmentMap
	}
	return KindNone
}

// Add registers v under a fresh handle. name is optional and only used for
// lookups from tooling.
func (m *Manager) Add(name string, v any) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.next + 1
	for {
		if _, taken := m.assets[h]; !taken {
			break
		}
		h++
	}
	if err := m.put(h, name, v); err != nil {
		return Invalid, err
	}
	m.next = h
	return h, nil
}

// Put registers v under a caller-chosen handle, replacing what was there.
func (m *Manager) Put(h Handle, name string, v any) error {
	if h == Invalid {
		return fmt.Errorf("asset: cannot register under the invalid handle")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(h, name, v)
}

func (m *Manager) put(h Handle, name string, v any) error {
	kind := kindOf(v)
	if kind == KindNone {
		return fmt.Errorf("asset: unsupported asset type %T", v)
	}
	if old, ok := m.assets[h]; ok && old.name != "" {
		delete(m.names, old.name)
	}
	m.assets[h] = entry{kind: kind, value: v, name: name}
	if name != "" {
		m.names[name] = h
	}
	return nil
}

// Remove forgets h. Components still holding h will fail to resolve.
func (m *Manager) Remove(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.assets[h]; ok {
		delete(m.names, e.name)
		delete(m.assets, h)
	}
}

// Lookup returns the handle registered under name.
func (m *Manager) Lookup(name string) (Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.names[name]
	return h, ok
}

// KindOf reports which kind of asset h refers to.
func (m *Manager) KindOf(h Handle) Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assets[h].kind
}

func get[T any](m *Manager, h Handle) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var zero T
	e, ok := m.assets[h]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Texture resolves h to a texture.
func (m *Manager) Texture(h Handle) (gfx.Texture, bool) { return get[gfx.Texture](m, h) }

// Material resolves h to a material.
func (m *Manager) Material(h Handle) (gfx.Material, bool) { return get[gfx.Material](m, h) }

// Mesh resolves h to a mesh.
func (m *Manager) Mesh(h Handle) (gfx.Mesh, bool) { return get[gfx.Mesh](m, h) }

// EnvironmentMap resolves h to an environment map.
func (m *Manager) EnvironmentMap(h Handle) (*EnvironmentMap, bool) {
	return get[*EnvironmentMap](m, h)
}

// Len returns the number of registered assets.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}
