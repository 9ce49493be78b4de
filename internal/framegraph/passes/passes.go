// Package passes is the catalogue of render passes the editor pipeline is
// built from, plus the resources they share: light selection, the bloom
// mip chain and viewport resize handling.
package passes

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/logging"
)

// Texture units the lit scene shader samples shadow and environment maps
// from.
const (
	UnitDirectionalShadow uint32 = 8
	UnitSpotShadow        uint32 = 9
	UnitPointShadow       uint32 = 10
	UnitEnvironment       uint32 = 11
	UnitIrradiance        uint32 = 12
	UnitPrefiltered       uint32 = 13
)

func material(ctx *framegraph.PassContext, pass string, h asset.Handle) (gfx.Material, bool) {
	m, ok := ctx.Assets.Material(h)
	if !ok {
		logging.Logger().Warn("passes: material handle does not resolve", "pass", pass, "handle", h)
	}
	return m, ok
}

// mesh resolves h, returning nil (the built-in cube) for the zero handle or
// a handle that no longer resolves.
func mesh(ctx *framegraph.PassContext, h asset.Handle) gfx.Mesh {
	if h == asset.Invalid {
		return nil
	}
	m, ok := ctx.Assets.Mesh(h)
	if !ok {
		logging.Logger().Debug("passes: mesh handle does not resolve, drawing cube", "handle", h)
		return nil
	}
	return m
}

func cameraPosition(ctx *framegraph.PassContext) mgl32.Vec3 {
	return ctx.CameraTransform.Col(3).Vec3()
}

func fullTarget(target gfx.Framebuffer) {
	w, h := target.Size()
	target.SetViewport(0, 0, w, h)
}

// attachmentInput returns the attachment held by inputs[i]. A slot that
// holds no attachment is logged and reported as missing.
func attachmentInput(pass string, inputs []framegraph.Component, i int) (gfx.Attachment, bool) {
	ac, ok := framegraph.Input[*framegraph.AttachmentComponent](inputs, i)
	if !ok {
		return nil, false
	}
	if ac == nil || ac.Attachment == nil {
		logging.Logger().Warn("passes: attachment input is empty", "pass", pass, "index", i)
		return nil, false
	}
	return ac.Attachment, true
}

func requireTarget(pass string, target gfx.Framebuffer) bool {
	if target == nil {
		logging.Logger().Warn("passes: pass needs a framebuffer target", "pass", pass)
		return false
	}
	return true
}

func setBlend(ctx *framegraph.PassContext, m gfx.BlendMode) {
	if ctx.Device != nil {
		ctx.Device.SetBlendMode(m)
	}
}
