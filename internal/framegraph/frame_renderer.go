package framegraph

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/events"
	"lumen/internal/gfx"
	"lumen/internal/logging"
	"lumen/internal/profiling"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// Options configures a FrameRenderer. Renderer, Renderer2D and Profiler
// are owned by the FrameRenderer for its lifetime.
type Options struct {
	Name       string
	Device     gfx.Device
	Renderer   render.Renderer
	Renderer2D render.Renderer2D
	Assets     *asset.Manager
	// Profiler receives one "pass.<Name>" entry per pass per frame. The
	// owner of the frame loop resets it.
	Profiler *profiling.Profiler
}

type boundPass struct {
	pass   *RenderPass
	target gfx.Framebuffer
	names  []string
	inputs []Component
}

// FrameRenderer owns named render resources and runs an ordered list of
// passes over them once per frame. It is used from the render thread only.
type FrameRenderer struct {
	opts Options

	resources map[string]Component
	order     []string
	passes    []*boundPass

	serialized []string

	eventFunc func(events.Event)
	bus       *events.Bus

	frame    uint64
	profiles []PassProfile
}

// New creates an empty FrameRenderer.
func New(opts Options) *FrameRenderer {
	if opts.Name == "" {
		opts.Name = "FrameRenderer"
	}
	if opts.Assets == nil {
		opts.Assets = asset.NewManager()
	}
	if opts.Profiler == nil {
		opts.Profiler = profiling.New()
	}
	return &FrameRenderer{
		opts:      opts,
		resources: make(map[string]Component),
		bus:       events.NewBus(),
	}
}

func (fr *FrameRenderer) Name() string                  { return fr.opts.Name }
func (fr *FrameRenderer) Device() gfx.Device            { return fr.opts.Device }
func (fr *FrameRenderer) Assets() *asset.Manager        { return fr.opts.Assets }
func (fr *FrameRenderer) Renderer() render.Renderer     { return fr.opts.Renderer }
func (fr *FrameRenderer) Renderer2D() render.Renderer2D { return fr.opts.Renderer2D }
func (fr *FrameRenderer) Profiler() *profiling.Profiler { return fr.opts.Profiler }
func (fr *FrameRenderer) Frame() uint64                 { return fr.frame }

// AddResource registers c under name. Registering an existing name again
// replaces the value in place, provided the new component has exactly the
// same type; passes already wired to the name see the new value.
func (fr *FrameRenderer) AddResource(name string, c Component) error {
	if isNil(c) || c.Type() == TypeNone {
		err := fmt.Errorf("%w: %q", ErrInvalidComponent, name)
		logging.Logger().Error(err.Error())
		return err
	}

	old, exists := fr.resources[name]
	if !exists {
		fr.resources[name] = c
		fr.order = append(fr.order, name)
		return nil
	}

	if old.Type() != c.Type() || reflect.TypeOf(old) != reflect.TypeOf(c) {
		err := fmt.Errorf("%w: %q is %T, got %T", ErrTypeChanged, name, old, c)
		logging.Logger().Error(err.Error())
		return err
	}
	fr.resources[name] = c
	for _, bp := range fr.passes {
		for i, n := range bp.names {
			if n == name {
				bp.inputs[i] = c
			}
		}
	}
	logging.Logger().Debug("framegraph: resource replaced", "renderer", fr.opts.Name, "name", name)
	return nil
}

// RemoveResource drops name. Resources referenced by a pass cannot be
// removed.
func (fr *FrameRenderer) RemoveResource(name string) error {
	if _, ok := fr.resources[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	for _, bp := range fr.passes {
		if slices.Contains(bp.names, name) {
			return fmt.Errorf("%w: %q by %s", ErrResourceInUse, name, bp.pass.Name)
		}
	}
	delete(fr.resources, name)
	fr.order = slices.DeleteFunc(fr.order, func(n string) bool { return n == name })
	fr.serialized = slices.DeleteFunc(fr.serialized, func(n string) bool { return n == name })
	return nil
}

// Resource returns the component registered under name, or nil.
func (fr *FrameRenderer) Resource(name string) Component {
	c, ok := fr.resources[name]
	if !ok {
		logging.Logger().Warn("framegraph: no such render resource", "renderer", fr.opts.Name, "name", name)
		return nil
	}
	return c
}

// ResourceAs returns the component under name downcast to T.
func ResourceAs[T Component](fr *FrameRenderer, name string) (T, bool) {
	var zero T
	c := fr.Resource(name)
	if c == nil {
		return zero, false
	}
	t, ok := c.(T)
	if !ok {
		logging.Logger().Warn("framegraph: render resource has unexpected type",
			"name", name, "got", fmt.Sprintf("%T", c), "want", fmt.Sprintf("%T", zero))
	}
	return t, ok
}

// PrimitiveResource returns the Primitive holding a T under name.
func PrimitiveResource[T any](fr *FrameRenderer, name string) (*Primitive[T], bool) {
	return ResourceAs[*Primitive[T]](fr, name)
}

// HasResource reports whether name is registered, without logging.
func (fr *FrameRenderer) HasResource(name string) bool {
	_, ok := fr.resources[name]
	return ok
}

// ResourceNames returns every resource name in registration order.
func (fr *FrameRenderer) ResourceNames() []string {
	return slices.Clone(fr.order)
}

// Len returns the number of registered resources.
func (fr *FrameRenderer) Len() int { return len(fr.resources) }

// AddPass appends pass, rendering into target with the named inputs. Every
// name must exist and carry the type the pass declares at that position;
// otherwise the pass is not added and the error is logged.
func (fr *FrameRenderer) AddPass(pass *RenderPass, target gfx.Framebuffer, inputNames ...string) error {
	err := fr.bind(pass, target, inputNames)
	if err != nil {
		name := "<nil>"
		if pass != nil {
			name = pass.Name
		}
		logging.Logger().Error("framegraph: pass rejected", "renderer", fr.opts.Name, "pass", name, "err", err)
		return err
	}
	return nil
}

func (fr *FrameRenderer) bind(pass *RenderPass, target gfx.Framebuffer, names []string) error {
	if pass == nil {
		return ErrNilPass
	}
	if len(names) != len(pass.InputTypes) {
		return fmt.Errorf("%w: %s wants %d, got %d", ErrInputCount, pass.Name, len(pass.InputTypes), len(names))
	}
	inputs := make([]Component, len(names))
	for i, name := range names {
		c, ok := fr.resources[name]
		if !ok {
			return fmt.Errorf("%w: %q (input %d of %s)", ErrUnknownResource, name, i, pass.Name)
		}
		if c.Type() != pass.InputTypes[i] {
			return fmt.Errorf("%w: %q is %s, %s input %d wants %s",
				ErrTypeMismatch, name, c.Type(), pass.Name, i, pass.InputTypes[i])
		}
		inputs[i] = c
	}
	fr.passes = append(fr.passes, &boundPass{
		pass:   pass,
		target: target,
		names:  slices.Clone(names),
		inputs: inputs,
	})
	return nil
}

// PassCount returns the number of accepted passes.
func (fr *FrameRenderer) PassCount() int { return len(fr.passes) }

// Passes returns the accepted passes in execution order.
func (fr *FrameRenderer) Passes() []*RenderPass {
	out := make([]*RenderPass, len(fr.passes))
	for i, bp := range fr.passes {
		out[i] = bp.pass
	}
	return out
}

// RenderFrame runs every pass in registration order. A framebuffer is only
// bound when a pass targets a different one than the pass before it; a nil
// target means the default framebuffer.
func (fr *FrameRenderer) RenderFrame(sc *scene.Scene, cam *scene.Camera, camTransform mgl32.Mat4) {
	fr.frame++
	ctx := &PassContext{
		Scene:           sc,
		Camera:          cam,
		CameraTransform: camTransform,
		Renderer:        fr.opts.Renderer,
		Renderer2D:      fr.opts.Renderer2D,
		Assets:          fr.opts.Assets,
		Device:          fr.opts.Device,
		Frame:           fr.frame,
	}

	fr.profiles = fr.profiles[:0]
	var current gfx.Framebuffer
	for _, bp := range fr.passes {
		if bp.target != current {
			if bp.target == nil {
				current.Unbind()
			} else {
				bp.target.Bind()
			}
			current = bp.target
		}
		DebugAssert(len(bp.inputs) == len(bp.pass.InputTypes), "%s bound with %d inputs", bp.pass.Name, len(bp.inputs))
		stop := fr.opts.Profiler.Track("pass." + bp.pass.Name)
		prof := bp.pass.Execute(ctx, bp.target, bp.inputs)
		stop()
		fr.profiles = append(fr.profiles, prof)
	}
	if current != nil {
		current.Unbind()
	}
}

// Profiles returns the pass profiles of the last frame.
func (fr *FrameRenderer) Profiles() []PassProfile {
	return slices.Clone(fr.profiles)
}

// SetEventFunc installs the single event hook run by OnEvent before any
// subscribers.
func (fr *FrameRenderer) SetEventFunc(fn func(events.Event)) {
	fr.eventFunc = fn
}

// Subscribe registers fn for one kind of event.
func (fr *FrameRenderer) Subscribe(kind events.Kind, fn events.Handler) (unsubscribe func()) {
	return fr.bus.Subscribe(kind, fn)
}

// OnEvent forwards e to the event hook and then to subscribers.
func (fr *FrameRenderer) OnEvent(e events.Event) {
	if e == nil {
		return
	}
	if fr.eventFunc != nil {
		fr.eventFunc(e)
	}
	fr.bus.Publish(e)
}

// AddSerializedName marks name as part of the saved resource config. Only
// textures, materials, environment maps and dispatched primitive kinds can
// be saved.
func (fr *FrameRenderer) AddSerializedName(name string) error {
	c, ok := fr.resources[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownResource, name)
		logging.Logger().Error("framegraph: cannot serialize resource", "err", err)
		return err
	}
	if !Serializable(c) {
		err := fmt.Errorf("%w: %q is %s", ErrNotSerializable, name, describe(c))
		logging.Logger().Error("framegraph: cannot serialize resource", "err", err)
		return err
	}
	if !slices.Contains(fr.serialized, name) {
		fr.serialized = append(fr.serialized, name)
	}
	return nil
}

// SerializedNames returns the names saved by SaveResourceConfig.
func (fr *FrameRenderer) SerializedNames() []string {
	return slices.Clone(fr.serialized)
}

// SaveResourceConfig writes the serialized resources to path.
func (fr *FrameRenderer) SaveResourceConfig(path string) error {
	return SerializeRenderer(fr, path)
}

// LoadResourceConfig applies the resource values stored at path.
func (fr *FrameRenderer) LoadResourceConfig(path string) error {
	return DeserializeRenderer(fr, path)
}

// InspectResources walks every resource in registration order.
func (fr *FrameRenderer) InspectResources(fn func(name string, c Component)) {
	for _, name := range fr.order {
		fn(name, fr.resources[name])
	}
}

func describe(c Component) string {
	if p, ok := c.(PrimitiveValue); ok {
		return c.Type().String() + "<" + p.Kind().String() + ">"
	}
	return c.Type().String()
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
