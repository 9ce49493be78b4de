package framegraph

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"lumen/internal/asset"
	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// PassContext is what a pass sees of the world while it renders.
type PassContext struct {
	Scene           *scene.Scene
	Camera          *scene.Camera
	CameraTransform mgl32.Mat4

	Renderer   render.Renderer
	Renderer2D render.Renderer2D
	Assets     *asset.Manager
	Device     gfx.Device

	// Frame counts RenderFrame calls, starting at 1.
	Frame uint64
}

// RenderFunc draws one pass. inputs follow the pass's InputTypes order.
type RenderFunc func(ctx *PassContext, target gfx.Framebuffer, inputs []Component)

// PassProfile summarises the work one pass submitted in its last run.
type PassProfile struct {
	Name    string
	Stats   render.Stats
	CPUTime time.Duration
}

// RenderPass binds a render callback to the resource types it consumes.
// Passes carry no state between frames except their last profile.
type RenderPass struct {
	ID         uuid.UUID
	Name       string
	InputTypes []ComponentType

	fn      RenderFunc
	profile PassProfile
}

// NewRenderPass creates a pass named name taking inputs of the given types.
func NewRenderPass(name string, inputTypes []ComponentType, fn RenderFunc) *RenderPass {
	return &RenderPass{
		ID:         uuid.New(),
		Name:       name,
		InputTypes: append([]ComponentType(nil), inputTypes...),
		fn:         fn,
	}
}

// Execute runs the callback, then harvests and resets the draw counters of
// both renderers so the next pass starts from zero.
func (p *RenderPass) Execute(ctx *PassContext, target gfx.Framebuffer, inputs []Component) PassProfile {
	before := sampleStats(ctx)
	start := time.Now()
	if p.fn != nil {
		p.fn(ctx, target, inputs)
	}
	elapsed := time.Since(start)
	after := sampleStats(ctx)

	if ctx.Renderer != nil {
		ctx.Renderer.ResetStats()
	}
	if ctx.Renderer2D != nil {
		ctx.Renderer2D.ResetStats()
	}

	p.profile = PassProfile{Name: p.Name, Stats: after.Sub(before), CPUTime: elapsed}
	return p.profile
}

// Profile returns the summary of the last Execute.
func (p *RenderPass) Profile() PassProfile { return p.profile }

func (p *RenderPass) String() string {
	return fmt.Sprintf("%s(%v)", p.Name, p.InputTypes)
}

func sampleStats(ctx *PassContext) render.Stats {
	var s render.Stats
	if ctx.Renderer != nil {
		s = s.Add(ctx.Renderer.Stats())
	}
	if ctx.Renderer2D != nil {
		s = s.Add(ctx.Renderer2D.Stats())
	}
	return s
}

// Input downcasts inputs[i] to T. The FrameRenderer already checked the
// type tag when the pass was added; this guards against a resource being
// swapped behind its back.
func Input[T Component](inputs []Component, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(inputs) || inputs[i] == nil {
		logging.Logger().Warn("framegraph: pass input missing", "index", i)
		return zero, false
	}
	t, ok := inputs[i].(T)
	if !ok {
		logging.Logger().Warn("framegraph: pass input has unexpected type",
			"index", i, "got", fmt.Sprintf("%T", inputs[i]), "want", fmt.Sprintf("%T", zero))
	}
	return t, ok
}

// PrimitiveInput downcasts inputs[i] to a Primitive holding a T.
func PrimitiveInput[T any](inputs []Component, i int) (*Primitive[T], bool) {
	return Input[*Primitive[T]](inputs, i)
}
