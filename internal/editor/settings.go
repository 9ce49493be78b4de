package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/config"
	"lumen/internal/framegraph"
	"lumen/internal/framegraph/passes"
	"lumen/internal/logging"
)

// syncSettings pushes the render settings into the pipeline's primitives
// when they changed since the last sync.
func (e *Editor) syncSettings() {
	v := config.Version()
	if v == e.settings {
		return
	}
	e.settings = v
	e.pushSettings()
}

func (e *Editor) pushSettings() {
	setPrimitive(e.fr, passes.ResGamma, config.GetGamma())
	setPrimitive(e.fr, passes.ResExposure, config.GetExposure())
	setPrimitive(e.fr, passes.ResBloomFilterRadius, config.GetBloomFilterRadius())
	setPrimitive(e.fr, passes.ResShowColliders, config.GetShowColliders())
	setPrimitive(e.fr, passes.ResClearColour, config.GetClearColour())
}

// captureSettings is the reverse of syncSettings, run after the primitives
// were changed by loading a resource config.
func (e *Editor) captureSettings() {
	if p, ok := framegraph.PrimitiveResource[float32](e.fr, passes.ResGamma); ok {
		config.SetGamma(p.Value)
	}
	if p, ok := framegraph.PrimitiveResource[float32](e.fr, passes.ResExposure); ok {
		config.SetExposure(p.Value)
	}
	if p, ok := framegraph.PrimitiveResource[float32](e.fr, passes.ResBloomFilterRadius); ok {
		config.SetBloomFilterRadius(p.Value)
	}
	if p, ok := framegraph.PrimitiveResource[bool](e.fr, passes.ResShowColliders); ok {
		config.SetShowColliders(p.Value)
	}
	if p, ok := framegraph.PrimitiveResource[mgl32.Vec4](e.fr, passes.ResClearColour); ok {
		config.SetClearColour(p.Value)
	}
	// the setters clamp, so push the clamped values back
	e.pushSettings()
	e.settings = config.Version()
}

func setPrimitive[T any](fr *framegraph.FrameRenderer, name string, v T) {
	p, ok := framegraph.PrimitiveResource[T](fr, name)
	if !ok {
		logging.Logger().Debug("editor: setting has no primitive", "name", name)
		return
	}
	p.Value = v
}
