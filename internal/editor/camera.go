package editor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/input"
)

const (
	orbitStep    = 5  // degrees per key press
	orbitSpeed   = 90 // degrees per second while held
	fastFactor   = 3
	autoRotate   = 20
	minDistance  = 0.5
	maxDistance  = 500
	pitchLimit   = 89
	zoomFactor   = 0.9
	defaultPitch = 25
)

// OrbitCamera circles a target point. Yaw and Pitch are in degrees; yaw 0
// looks down -Z.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	// AutoRotate spins the camera around the target, in degrees per second.
	AutoRotate float32
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{Target: mgl32.Vec3{0, 1, 0}, Distance: 12, Pitch: defaultPitch}
}

// Position is where the camera sits in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	yaw, pitch := mgl32.DegToRad(c.Yaw), mgl32.DegToRad(c.Pitch)
	offset := mgl32.Vec3{
		math32.Cos(pitch) * math32.Sin(yaw),
		math32.Sin(pitch),
		math32.Cos(pitch) * math32.Cos(yaw),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// Transform is the camera's world transform, the inverse of its view
// matrix.
func (c *OrbitCamera) Transform() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0}).Inv()
}

func (c *OrbitCamera) Update(dt float64) {
	if c.AutoRotate != 0 {
		c.Yaw = wrapDegrees(c.Yaw + c.AutoRotate*float32(dt))
	}
}

// Zoom moves towards the target for positive steps and away for negative.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance = mgl32.Clamp(c.Distance*math32.Pow(zoomFactor, steps), minDistance, maxDistance)
}

// OnKey orbits on the arrow keys and reports whether key was one of them.
func (c *OrbitCamera) OnKey(key int) bool {
	switch key {
	case KeyLeft:
		c.Orbit(-orbitStep, 0)
	case KeyRight:
		c.Orbit(orbitStep, 0)
	case KeyUp:
		c.Orbit(0, orbitStep)
	case KeyDown:
		c.Orbit(0, -orbitStep)
	default:
		return false
	}
	return true
}

// Orbit turns the camera around its target by the given degrees.
func (c *OrbitCamera) Orbit(yaw, pitch float32) {
	c.Yaw = wrapDegrees(c.Yaw + yaw)
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -pitchLimit, pitchLimit)
}

func newInput() *input.Manager {
	m := input.NewManager()
	m.BindKey(KeyA, input.ActionOrbitLeft)
	m.BindKey(KeyD, input.ActionOrbitRight)
	m.BindKey(KeyE, input.ActionOrbitUp)
	m.BindKey(KeyQ, input.ActionOrbitDown)
	m.BindKey(KeyLeftShift, input.ActionFast)
	m.BindKey(KeyRightShift, input.ActionFast)
	m.BindKey(KeySpace, input.ActionAutoRotate)
	return m
}

// driveCamera applies held orbit keys. The arrow keys step instead.
func (e *Editor) driveCamera(dt float64) {
	in := e.input
	if in.JustPressed(input.ActionAutoRotate) {
		if e.camera.AutoRotate == 0 {
			e.camera.AutoRotate = autoRotate
		} else {
			e.camera.AutoRotate = 0
		}
	}
	speed := float32(orbitSpeed * dt)
	if in.IsActive(input.ActionFast) {
		speed *= fastFactor
	}
	e.camera.Orbit(in.Axis(input.ActionOrbitLeft, input.ActionOrbitRight)*speed,
		in.Axis(input.ActionOrbitDown, input.ActionOrbitUp)*speed)
	e.camera.Update(dt)
}

func wrapDegrees(d float32) float32 {
	d = math32.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
