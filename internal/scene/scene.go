// Package scene is a small entity-component store. Views iterate entities
// in creation order, which the renderer relies on to give lights a stable
// order within a frame.
package scene

import "reflect"

// Entity is a handle to an entity of one scene. The zero Entity is null.
type Entity struct {
	id    uint32
	scene *Scene
}

// ID returns the numeric id, unique within the scene. Null entities have id 0.
func (e Entity) ID() uint32 { return e.id }

// Valid reports whether e refers to a live entity.
func (e Entity) Valid() bool {
	return e.scene != nil && e.scene.alive[e.id]
}

// Scene returns the owning scene.
func (e Entity) Scene() *Scene { return e.scene }

// Name returns the entity's tag name, or "" if it has none.
func (e Entity) Name() string {
	if t := Get[Tag](e); t != nil {
		return t.Name
	}
	return ""
}

// Scene owns entities and their components.
type Scene struct {
	nextID uint32
	order  []uint32
	alive  map[uint32]bool
	stores map[reflect.Type]map[uint32]any
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		alive:  make(map[uint32]bool),
		stores: make(map[reflect.Type]map[uint32]any),
	}
}

// CreateEntity adds an entity with a Tag and an identity Transform.
func (s *Scene) CreateEntity(name string) Entity {
	s.nextID++
	e := Entity{id: s.nextID, scene: s}
	s.alive[e.id] = true
	s.order = append(s.order, e.id)
	Add(e, Tag{Name: name})
	Add(e, NewTransform())
	return e
}

// DestroyEntity removes e and all of its components.
func (s *Scene) DestroyEntity(e Entity) {
	if e.scene != s || !s.alive[e.id] {
		return
	}
	delete(s.alive, e.id)
	for _, store := range s.stores {
		delete(store, e.id)
	}
	for i, id := range s.order {
		if id == e.id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Entity returns the handle for id, or the null entity.
func (s *Scene) Entity(id uint32) Entity {
	if !s.alive[id] {
		return Entity{}
	}
	return Entity{id: id, scene: s}
}

// FindByName returns the first entity tagged name.
func (s *Scene) FindByName(name string) (Entity, bool) {
	for _, id := range s.order {
		e := Entity{id: id, scene: s}
		if e.Name() == name {
			return e, true
		}
	}
	return Entity{}, false
}

// Len returns the number of live entities.
func (s *Scene) Len() int { return len(s.order) }

// Entities returns every live entity in creation order.
func (s *Scene) Entities() []Entity {
	out := make([]Entity, len(s.order))
	for i, id := range s.order {
		out[i] = Entity{id: id, scene: s}
	}
	return out
}

func store[T any](s *Scene, create bool) map[uint32]any {
	t := reflect.TypeFor[T]()
	m, ok := s.stores[t]
	if !ok && create {
		m = make(map[uint32]any)
		s.stores[t] = m
	}
	return m
}

// Add attaches c to e, replacing any component of the same type, and
// returns a pointer to the stored copy.
func Add[T any](e Entity, c T) *T {
	if !e.Valid() {
		return nil
	}
	p := &c
	store[T](e.scene, true)[e.id] = p
	return p
}

// Get returns e's component of type T, or nil.
func Get[T any](e Entity) *T {
	if e.scene == nil {
		return nil
	}
	m := store[T](e.scene, false)
	if m == nil {
		return nil
	}
	c, ok := m[e.id]
	if !ok {
		return nil
	}
	return c.(*T)
}

// Has reports whether e has a component of type T.
func Has[T any](e Entity) bool {
	return Get[T](e) != nil
}

// Remove detaches e's component of type T.
func Remove[T any](e Entity) {
	if e.scene == nil {
		return
	}
	if m := store[T](e.scene, false); m != nil {
		delete(m, e.id)
	}
}

// Each calls fn for every entity with an A, in creation order.
func Each[A any](s *Scene, fn func(Entity, *A)) {
	as := store[A](s, false)
	if len(as) == 0 {
		return
	}
	for _, id := range s.order {
		if a, ok := as[id]; ok {
			fn(Entity{id: id, scene: s}, a.(*A))
		}
	}
}

// Each2 calls fn for every entity with both an A and a B, in creation order.
func Each2[A, B any](s *Scene, fn func(Entity, *A, *B)) {
	as, bs := store[A](s, false), store[B](s, false)
	if len(as) == 0 || len(bs) == 0 {
		return
	}
	for _, id := range s.order {
		a, ok := as[id]
		if !ok {
			continue
		}
		b, ok := bs[id]
		if !ok {
			continue
		}
		fn(Entity{id: id, scene: s}, a.(*A), b.(*B))
	}
}
