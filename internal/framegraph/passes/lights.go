package passes

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/render"
	"lumen/internal/scene"
)

// Shadow-map capacity per light kind. Each kind owns one layered depth
// attachment with this many layers.
const (
	MaxDirectionalLights = 4
	MaxSpotLights        = 8
	MaxPointLights       = 8
)

// Light is one light entity seen during a scene scan.
type Light[T any] struct {
	Entity    scene.Entity
	Transform *scene.Transform
	Light     *T
}

// LightRing is a fixed-capacity ring of lights. The k-th light pushed goes
// to slot k % Cap, so once more lights than slots have been pushed the
// most recent Cap lights are kept. The slot is the light's shadow-map layer.
type LightRing[T any] struct {
	slots []Light[T]
	seen  int
}

// NewLightRing creates a ring with room for capacity lights.
func NewLightRing[T any](capacity int) *LightRing[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &LightRing[T]{slots: make([]Light[T], capacity)}
}

// Push stores l and returns the slot it landed in.
func (r *LightRing[T]) Push(l Light[T]) int {
	slot := r.seen % len(r.slots)
	r.slots[slot] = l
	r.seen++
	return slot
}

func (r *LightRing[T]) Cap() int  { return len(r.slots) }
func (r *LightRing[T]) Seen() int { return r.seen }

// Len returns the number of occupied slots.
func (r *LightRing[T]) Len() int { return min(r.seen, len(r.slots)) }

// Dropped returns how many pushed lights were overwritten.
func (r *LightRing[T]) Dropped() int { return max(0, r.seen-len(r.slots)) }

// At returns the light in slot.
func (r *LightRing[T]) At(slot int) Light[T] { return r.slots[slot] }

// Each visits occupied slots in slot order.
func (r *LightRing[T]) Each(fn func(slot int, l Light[T])) {
	for slot := 0; slot < r.Len(); slot++ {
		fn(slot, r.slots[slot])
	}
}

// Slot returns the slot holding e, or -1.
func (r *LightRing[T]) Slot(e scene.Entity) int {
	for slot := 0; slot < r.Len(); slot++ {
		if r.slots[slot].Entity == e {
			return slot
		}
	}
	return -1
}

// Reset empties the ring.
func (r *LightRing[T]) Reset() {
	clear(r.slots)
	r.seen = 0
}

func collect[T any](s *scene.Scene, capacity int) *LightRing[T] {
	ring := NewLightRing[T](capacity)
	if s == nil {
		return ring
	}
	scene.Each2(s, func(e scene.Entity, t *scene.Transform, l *T) {
		ring.Push(Light[T]{Entity: e, Transform: t, Light: l})
	})
	return ring
}

// CollectDirectionalLights scans s in view order. The shadow and scene
// passes both select lights through these collectors so a light gets the
// same layer in both within a frame.
func CollectDirectionalLights(s *scene.Scene) *LightRing[scene.DirectionalLight] {
	return collect[scene.DirectionalLight](s, MaxDirectionalLights)
}

// CollectSpotLights scans s in view order.
func CollectSpotLights(s *scene.Scene) *LightRing[scene.SpotLight] {
	return collect[scene.SpotLight](s, MaxSpotLights)
}

// CollectPointLights scans s in view order.
func CollectPointLights(s *scene.Scene) *LightRing[scene.PointLight] {
	return collect[scene.PointLight](s, MaxPointLights)
}

func upFor(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir.Y()) > 0.99 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}

func nearPlane(s scene.ShadowSettings) float32 {
	if s.Near > 0 {
		return s.Near
	}
	return 0.1
}

func lightRange(r float32) float32 {
	if r > 0 {
		return r
	}
	return 10
}

// DirectionalLightSpace returns projection * view for a directional light
// whose orthographic shadow volume is centred on focus.
func DirectionalLightSpace(t *scene.Transform, l *scene.DirectionalLight, focus mgl32.Vec3) mgl32.Mat4 {
	dir := t.Forward()
	size := l.FrustumSize
	if size <= 0 {
		size = 20
	}
	dist := l.Distance
	if dist <= 0 {
		dist = 50
	}
	eye := focus.Sub(dir.Mul(dist))
	view := mgl32.LookAtV(eye, focus, upFor(dir))
	proj := mgl32.Ortho(-size, size, -size, size, nearPlane(l.Shadow), 2*dist)
	return proj.Mul4(view)
}

// SpotLightSpace returns projection * view covering the outer cone.
func SpotLightSpace(t *scene.Transform, l *scene.SpotLight) mgl32.Mat4 {
	pos, dir := t.Translation, t.Forward()
	fov := mgl32.Clamp(2*l.OuterCutoff, 1, 179)
	proj := mgl32.Perspective(mgl32.DegToRad(fov), 1, nearPlane(l.Shadow), lightRange(l.Range))
	view := mgl32.LookAtV(pos, pos.Add(dir), upFor(dir))
	return proj.Mul4(view)
}

// Cubemap face order: +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [6]struct{ dir, up mgl32.Vec3 }{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// PointLightFaces returns one projection * view per cubemap face.
func PointLightFaces(t *scene.Transform, l *scene.PointLight) [6]mgl32.Mat4 {
	var out [6]mgl32.Mat4
	pos := t.Translation
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, nearPlane(l.Shadow), lightRange(l.Range))
	for i, f := range cubeFaces {
		out[i] = proj.Mul4(mgl32.LookAtV(pos, pos.Add(f.dir), f.up))
	}
	return out
}

func layerOrNone(cast bool, slot int) int {
	if cast {
		return slot
	}
	return -1
}

// DirectionalSource builds the renderer descriptor for the light in slot.
func DirectionalSource(l Light[scene.DirectionalLight], slot int, focus mgl32.Vec3) render.DirectionalLightSource {
	d := l.Light
	return render.DirectionalLightSource{
		Direction:   l.Transform.Forward(),
		Diffuse:     d.Diffuse,
		Specular:    d.Specular,
		Ambient:     d.Ambient,
		LightSpace:  DirectionalLightSpace(l.Transform, d, focus),
		MinBias:     d.Shadow.MinBias,
		MaxBias:     d.Shadow.MaxBias,
		CastShadows: d.Shadow.CastShadows,
		ShadowLayer: layerOrNone(d.Shadow.CastShadows, slot),
	}
}

// SpotSource builds the renderer descriptor for the light in slot.
func SpotSource(l Light[scene.SpotLight], slot int) render.SpotLightSource {
	s := l.Light
	return render.SpotLightSource{
		Position:    l.Transform.Translation,
		Direction:   l.Transform.Forward(),
		Diffuse:     s.Diffuse,
		Specular:    s.Specular,
		Ambient:     s.Ambient,
		Range:       lightRange(s.Range),
		InnerCos:    math32.Cos(mgl32.DegToRad(s.InnerCutoff)),
		OuterCos:    math32.Cos(mgl32.DegToRad(s.OuterCutoff)),
		LightSpace:  SpotLightSpace(l.Transform, s),
		MinBias:     s.Shadow.MinBias,
		MaxBias:     s.Shadow.MaxBias,
		CastShadows: s.Shadow.CastShadows,
		ShadowLayer: layerOrNone(s.Shadow.CastShadows, slot),
	}
}

// PointSource builds the renderer descriptor for the light in slot.
func PointSource(l Light[scene.PointLight], slot int) render.PointLightSource {
	p := l.Light
	return render.PointLightSource{
		Position:    l.Transform.Translation,
		Diffuse:     p.Diffuse,
		Specular:    p.Specular,
		Ambient:     p.Ambient,
		Range:       lightRange(p.Range),
		MinBias:     p.Shadow.MinBias,
		MaxBias:     p.Shadow.MaxBias,
		CastShadows: p.Shadow.CastShadows,
		ShadowLayer: layerOrNone(p.Shadow.CastShadows, slot),
	}
}
