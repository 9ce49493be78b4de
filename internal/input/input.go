// Package input maps platform key codes to logical actions and tracks
// which actions are held between frames.
package input

import "sync"

// Action represents a logical editor action, not a physical key
type Action int

const (
	ActionOrbitLeft Action = iota
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionFast
	ActionAutoRotate
	ActionCount // Sentinel value for array sizing
)

// Manager holds key bindings and per-action state. Key events may arrive
// from the window callbacks while the render thread reads state.
type Manager struct {
	mu sync.RWMutex

	// one key can drive several actions
	keyToActions map[int][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
}

// NewManager creates a manager with no bindings.
func NewManager() *Manager {
	return &Manager{keyToActions: make(map[int][]Action)}
}

// BindKey binds a key code to an action. Several keys may share an action.
func (m *Manager) BindKey(key int, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKey records a key going down or up and reports whether the key is
// bound.
func (m *Manager) HandleKey(key int, pressed bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, ok := m.keyToActions[key]
	for _, act := range actions {
		// edges are detected when the event arrives
		if pressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		m.currentState[act] = pressed
	}
	return ok
}

// PostUpdate must be called at the end of each frame, after all input
// checks, to clear edge flags.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
}

// Release drops every held action, e.g. when the window loses focus and
// release events would be missed.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = [ActionCount]bool{}
	m.justPressed = [ActionCount]bool{}
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed returns true only if the action went down this frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// Axis is +1 while only pos is held, -1 while only neg is held and 0
// otherwise.
func (m *Manager) Axis(neg, pos Action) float32 {
	var v float32
	if m.IsActive(pos) {
		v++
	}
	if m.IsActive(neg) {
		v--
	}
	return v
}
