package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	keyA = 65
	keyD = 68
	keyL = 262
)

func TestHandleKeyTracksHeldActions(t *testing.T) {
	m := NewManager()
	m.BindKey(keyA, ActionOrbitLeft)
	m.BindKey(keyL, ActionOrbitLeft)

	assert.True(t, m.HandleKey(keyA, true))
	assert.True(t, m.IsActive(ActionOrbitLeft))
	assert.True(t, m.JustPressed(ActionOrbitLeft))

	m.PostUpdate()
	assert.True(t, m.IsActive(ActionOrbitLeft), "held across frames")
	assert.False(t, m.JustPressed(ActionOrbitLeft))

	m.HandleKey(keyA, false)
	assert.False(t, m.IsActive(ActionOrbitLeft))
}

func TestRepeatDoesNotRetrigger(t *testing.T) {
	m := NewManager()
	m.BindKey(keyD, ActionAutoRotate)
	m.HandleKey(keyD, true)
	m.PostUpdate()
	m.HandleKey(keyD, true)
	assert.False(t, m.JustPressed(ActionAutoRotate))
}

func TestUnboundKeys(t *testing.T) {
	m := NewManager()
	assert.False(t, m.HandleKey(keyA, true))

	m.BindKey(keyA, ActionCount)
	assert.False(t, m.HandleKey(keyA, true), "out of range action is not bound")

	m.BindKey(keyA, ActionFast)
	m.UnbindKey(keyA)
	assert.False(t, m.HandleKey(keyA, true))
	assert.False(t, m.IsActive(ActionFast))
	assert.False(t, m.IsActive(Action(-1)))
}

func TestAxis(t *testing.T) {
	m := NewManager()
	m.BindKey(keyA, ActionOrbitLeft)
	m.BindKey(keyD, ActionOrbitRight)

	assert.Equal(t, float32(0), m.Axis(ActionOrbitLeft, ActionOrbitRight))
	m.HandleKey(keyD, true)
	assert.Equal(t, float32(1), m.Axis(ActionOrbitLeft, ActionOrbitRight))
	m.HandleKey(keyA, true)
	assert.Equal(t, float32(0), m.Axis(ActionOrbitLeft, ActionOrbitRight))

	m.Release()
	m.HandleKey(keyA, true)
	assert.Equal(t, float32(-1), m.Axis(ActionOrbitLeft, ActionOrbitRight))
}
