package editor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := &OrbitCamera{Target: mgl32.Vec3{1, 0, 0}, Distance: 10}
	pos := c.Position()
	assert.InDeltaSlice(t, []float32{1, 0, 10}, pos[:], 1e-5)

	c.Yaw = 90
	pos = c.Position()
	assert.InDeltaSlice(t, []float32{11, 0, 0}, pos[:], 1e-4)

	c.Yaw, c.Pitch = 0, 90
	pos = c.Position()
	assert.InDeltaSlice(t, []float32{1, 10, 0}, pos[:], 1e-4)
}

func TestOrbitCameraTransformLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Yaw = 30
	m := c.Transform()

	pos, col := c.Position(), m.Col(3).Vec3()
	assert.InDeltaSlice(t, pos[:], col[:], 1e-4)
	forward := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	toTarget := c.Target.Sub(c.Position()).Normalize()
	assert.InDelta(t, 1, forward.Dot(toTarget), 1e-4)
}

func TestOrbitCameraZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.Zoom(1)
	assert.InDelta(t, 12*zoomFactor, c.Distance, 1e-4)

	c.Zoom(1000)
	assert.Equal(t, float32(minDistance), c.Distance)
	c.Zoom(-1000)
	assert.Equal(t, float32(maxDistance), c.Distance)
}

func TestOrbitCameraKeys(t *testing.T) {
	c := NewOrbitCamera()
	assert.True(t, c.OnKey(KeyLeft))
	assert.Equal(t, float32(360-orbitStep), c.Yaw)

	for i := 0; i < 100; i++ {
		c.OnKey(KeyUp)
	}
	assert.Equal(t, float32(pitchLimit), c.Pitch)
	assert.False(t, c.OnKey(KeyS))
}

func TestOrbitCameraAutoRotate(t *testing.T) {
	c := NewOrbitCamera()
	c.AutoRotate = 90
	c.Update(5)
	assert.InDelta(t, 90, c.Yaw, 1e-3)
}
