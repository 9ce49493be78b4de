package passes

import (
	"lumen/internal/events"
	"lumen/internal/framegraph"
	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/scene"
)

// ViewportResizer keeps resolution-dependent resources in step with the
// viewport. It subscribes to ViewportResize on a FrameRenderer's bus.
type ViewportResizer struct {
	Device gfx.Device
	Main   gfx.Framebuffer
	// Attachments are resized alongside Main whether or not they are
	// currently attached to it.
	Attachments []gfx.Attachment

	Chain     *BloomMipChain
	BloomMips int
	// Bloom is the resource the tonemap pass reads the bloom result from;
	// it is repointed at the new mip 0 after the chain is rebuilt.
	Bloom *framegraph.AttachmentComponent

	Viewport *framegraph.Primitive[framegraph.IVec2]
	Camera   *scene.Camera
}

// Subscribe registers r with fr and returns the unsubscribe function.
func (r *ViewportResizer) Subscribe(fr *framegraph.FrameRenderer) func() {
	return fr.Subscribe(events.KindViewportResize, func(e events.Event) bool {
		events.Dispatch(e, func(ev *events.ViewportResize) bool {
			r.Resize(ev.Width, ev.Height)
			return false
		})
		return false
	})
}

// Resize applies a new viewport size. Empty sizes, as reported for a
// minimised window, and unchanged sizes are ignored.
func (r *ViewportResizer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if r.Viewport != nil && r.Viewport.Value == (framegraph.IVec2{int32(width), int32(height)}) {
		return false
	}

	if r.Main != nil {
		r.Main.Resize(width, height)
	}
	for _, a := range r.Attachments {
		if w, h := a.Size(); w != width || h != height {
			a.Resize(width, height)
		}
	}
	if r.Chain != nil && r.Device != nil {
		if r.Chain.Len() == r.BloomMips {
			r.Chain.Resize(width, height)
		} else {
			r.Chain.Init(r.Device, width, height, r.BloomMips)
		}
		if r.Bloom != nil && r.Chain.Len() > 0 {
			r.Bloom.Attachment = r.Chain.Mip(0).Attachment
		}
	}
	if r.Viewport != nil {
		r.Viewport.Value = framegraph.IVec2{int32(width), int32(height)}
	}
	if r.Camera != nil {
		r.Camera.SetViewport(width, height)
	}
	logging.Logger().Debug("passes: viewport resized", "width", width, "height", height)
	return true
}
