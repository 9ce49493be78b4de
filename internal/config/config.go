package config

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderSettings holds the user-tunable render configuration. The editor
// copies it into the frame graph's resources between frames.
type RenderSettings struct {
	mu            sync.RWMutex
	gamma         float32
	exposure      float32
	bloomRadius   float32
	showColliders bool
	fpsLimit      int // 0 = unlimited
	clearColour   mgl32.Vec4
	version       uint64
}

var globalRenderSettings = newRenderSettings()

func newRenderSettings() *RenderSettings {
	return &RenderSettings{
		gamma:       2.2,
		exposure:    1.0,
		bloomRadius: 0.005,
		fpsLimit:    0,
		clearColour: mgl32.Vec4{0.1, 0.1, 0.12, 1},
	}
}

// ResetRenderSettings restores the defaults.
func ResetRenderSettings() {
	def := newRenderSettings()
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.gamma = def.gamma
	globalRenderSettings.exposure = def.exposure
	globalRenderSettings.bloomRadius = def.bloomRadius
	globalRenderSettings.showColliders = def.showColliders
	globalRenderSettings.fpsLimit = def.fpsLimit
	globalRenderSettings.clearColour = def.clearColour
	globalRenderSettings.version++
}

// Version increases on every change, so callers can cheaply tell whether
// they need to copy the settings again.
func Version() uint64 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.version
}

// GetGamma returns the display gamma
func GetGamma() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.gamma
}

// SetGamma sets the display gamma
func SetGamma(g float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	globalRenderSettings.gamma = mgl32.Clamp(g, 1.0, 3.0)
	globalRenderSettings.version++
}

// GetExposure returns the tonemap exposure
func GetExposure() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.exposure
}

// SetExposure sets the tonemap exposure
func SetExposure(e float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.exposure = mgl32.Clamp(e, 0.01, 16.0)
	globalRenderSettings.version++
}

// GetBloomFilterRadius returns the upsample filter radius in UV units
func GetBloomFilterRadius() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.bloomRadius
}

// SetBloomFilterRadius sets the upsample filter radius
func SetBloomFilterRadius(r float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.bloomRadius = mgl32.Clamp(r, 0.0005, 0.05)
	globalRenderSettings.version++
}

// GetShowColliders returns whether collider outlines are drawn
func GetShowColliders() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showColliders
}

// SetShowColliders toggles collider outlines
func SetShowColliders(show bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showColliders = show
	globalRenderSettings.version++
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Values below 15 other than 0 are raised
// to 15.
func SetFPSLimit(fps int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if fps < 0 {
		fps = 0
	}
	if fps > 0 && fps < 15 {
		fps = 15
	}
	if fps > 1000 {
		fps = 1000
	}
	globalRenderSettings.fpsLimit = fps
	globalRenderSettings.version++
}

// GetClearColour returns the viewport background
func GetClearColour() mgl32.Vec4 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.clearColour
}

// SetClearColour sets the viewport background, clamping each channel to [0, 1]
func SetClearColour(c mgl32.Vec4) {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.clearColour = c
	globalRenderSettings.version++
}
