// Package editor hosts the frame graph. It opens a project, builds the
// standard pipeline over whichever backend the host provides and keeps
// render settings, selection and the saved resource config in step
// between frames.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/config"
	"lumen/internal/events"
	"lumen/internal/framegraph"
	"lumen/internal/framegraph/passes"
	"lumen/internal/gfx"
	"lumen/internal/input"
	"lumen/internal/logging"
	"lumen/internal/profiling"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// Materials are the asset handles the standard pipeline draws with.
type Materials struct {
	Lit         asset.Handle
	Shadow      asset.Handle
	PointShadow asset.Handle
	Downsample  asset.Handle
	Upsample    asset.Handle
	Tonemap     asset.Handle
	Environment asset.Handle
}

// Backend is everything the editor renders through. The GL host and the
// headless host each assemble one.
type Backend struct {
	Device     gfx.Device
	Renderer   render.Renderer
	Renderer2D render.Renderer2D
	Assets     *asset.Manager
	Materials  Materials
}

// Editor owns one open project: its frame renderer, the scene being edited
// and the editor camera. All methods run on the render thread.
type Editor struct {
	project  *config.ProjectConfig
	backend  Backend
	profiler *profiling.Profiler

	fr     *framegraph.FrameRenderer
	std    *passes.Standard
	scene  *scene.Scene
	camera *OrbitCamera
	input  *input.Manager

	width, height int
	settings      uint64

	watcher   *Watcher
	showPanel bool
}

// New opens project over b. The resource config is loaded when it exists;
// a broken one is logged and the project defaults stay in effect.
func New(project *config.ProjectConfig, b Backend) (*Editor, error) {
	if b.Device == nil || b.Renderer == nil || b.Renderer2D == nil {
		return nil, errors.New("editor: backend is incomplete")
	}
	if b.Assets == nil {
		b.Assets = asset.NewManager()
	}
	project.Apply()

	e := &Editor{
		project:  project,
		backend:  b,
		profiler: profiling.New(),
		width:    project.Window.Width,
		height:   project.Window.Height,
		camera:   NewOrbitCamera(),
		input:    newInput(),
	}
	e.fr = framegraph.New(framegraph.Options{
		Name:       project.Name,
		Device:     b.Device,
		Renderer:   b.Renderer,
		Renderer2D: b.Renderer2D,
		Assets:     b.Assets,
		Profiler:   e.profiler,
	})

	std, err := passes.BuildStandard(e.fr, e.standardConfig())
	if std == nil {
		return nil, fmt.Errorf("editor: build pipeline: %w", err)
	}
	if err != nil {
		logging.Logger().Error("editor: pipeline built with errors", "err", err)
	}
	e.std = std
	e.settings = config.Version()

	e.fr.Subscribe(events.KindFileChanged, e.onFileChanged)
	e.fr.SetEventFunc(e.onEvent)

	if _, err := os.Stat(project.ResourceConfigPath()); err == nil {
		if err := e.Reload(); err != nil {
			logging.Logger().Warn("editor: resource config not applied", "err", err)
		}
	}
	if project.Renderer.HotReload {
		e.watchResourceConfig()
	}

	e.scene = DemoScene(b.Materials)
	logging.Logger().Info("editor: project open", "name", project.Name, "dir", project.Dir(),
		"passes", e.fr.PassCount(), "resources", e.fr.Len())
	return e, nil
}

func (e *Editor) standardConfig() passes.StandardConfig {
	r := e.project.Renderer
	m := e.backend.Materials
	return passes.StandardConfig{
		Width:               e.width,
		Height:              e.height,
		ShadowMapSize:       r.ShadowMapSize,
		BloomMips:           r.BloomMips,
		Gamma:               config.GetGamma(),
		Exposure:            config.GetExposure(),
		BloomFilterRadius:   config.GetBloomFilterRadius(),
		ClearColour:         config.GetClearColour(),
		ShowColliders:       config.GetShowColliders(),
		ShadowMaterial:      m.Shadow,
		PointShadowMaterial: m.PointShadow,
		DownsampleMaterial:  m.Downsample,
		UpsampleMaterial:    m.Upsample,
		TonemapMaterial:     m.Tonemap,
		EnvironmentMap:      m.Environment,
	}
}

func (e *Editor) watchResourceConfig() {
	w, err := NewWatcher(e.project.ResourceConfigPath())
	if err != nil {
		logging.Logger().Warn("editor: hot reload disabled", "err", err)
		return
	}
	e.watcher = w
}

// Close stops the file watcher.
func (e *Editor) Close() error {
	if e.watcher == nil {
		return nil
	}
	err := e.watcher.Close()
	e.watcher = nil
	return err
}

func (e *Editor) Project() *config.ProjectConfig           { return e.project }
func (e *Editor) FrameRenderer() *framegraph.FrameRenderer { return e.fr }
func (e *Editor) Standard() *passes.Standard               { return e.std }
func (e *Editor) Scene() *scene.Scene                      { return e.scene }
func (e *Editor) Camera() *OrbitCamera                     { return e.camera }
func (e *Editor) Profiler() *profiling.Profiler            { return e.profiler }

// SetScene replaces the scene being edited and clears the selection.
func (e *Editor) SetScene(s *scene.Scene) {
	e.scene = s
	e.Select(scene.Entity{})
}

// Final is the tonemapped image of the last frame, for the host to present.
func (e *Editor) Final() gfx.Attachment { return e.std.Final }

// Update applies everything that may change between frames: queued file
// reloads, edited render settings and camera movement.
func (e *Editor) Update(dt float64) {
	if e.watcher != nil {
		for _, path := range e.watcher.Drain() {
			e.fr.OnEvent(&events.FileChanged{Path: path})
		}
	}
	e.syncSettings()
	e.driveCamera(dt)
	e.input.PostUpdate()
}

// ReleaseInput forgets held keys. Hosts call it when the window loses
// focus, since the matching release events never arrive.
func (e *Editor) ReleaseInput() { e.input.Release() }

// Render draws one frame into the editor's targets. The host presents
// Final and may then call RenderPanel on top.
func (e *Editor) Render() {
	e.profiler.ResetFrame()
	e.fr.RenderFrame(e.scene, e.std.Camera, e.camera.Transform())
}

// Resize reports a new viewport size to the frame renderer.
func (e *Editor) Resize(width, height int) {
	e.fr.OnEvent(&events.ViewportResize{Width: width, Height: height})
}

// OnEvent hands a host event to the frame renderer; the editor's own
// handlers run from its event hook.
func (e *Editor) OnEvent(ev events.Event) {
	e.fr.OnEvent(ev)
}

func (e *Editor) onEvent(ev events.Event) {
	events.Dispatch(ev, func(r *events.WindowResize) bool {
		e.Resize(r.Width, r.Height)
		return false
	})
	events.Dispatch(ev, func(r *events.ViewportResize) bool {
		if r.Width > 0 && r.Height > 0 {
			e.width, e.height = r.Width, r.Height
		}
		return false
	})
	events.Dispatch(ev, func(k *events.KeyReleased) bool {
		return e.input.HandleKey(k.Key, false)
	})
	events.Dispatch(ev, e.onKey)
	events.Dispatch(ev, func(m *events.MouseButtonPressed) bool {
		if m.Button != MouseButtonLeft {
			return false
		}
		e.Pick(int(m.X), int(m.Y))
		return true
	})
	events.Dispatch(ev, func(s *events.MouseScrolled) bool {
		e.camera.Zoom(float32(s.YOffset))
		return true
	})
}

func (e *Editor) onKey(k *events.KeyPressed) bool {
	held := e.input.HandleKey(k.Key, true)
	ctrl := k.Mods&ModControl != 0
	switch {
	case ctrl && k.Key == KeyS:
		if err := e.Save(); err != nil {
			logging.Logger().Error("editor: save failed", "err", err)
		}
	case ctrl && k.Key == KeyR:
		if err := e.Reload(); err != nil {
			logging.Logger().Error("editor: reload failed", "err", err)
		}
	case k.Key == KeyC && !k.Repeat:
		config.SetShowColliders(!config.GetShowColliders())
	case k.Key == KeyP && !k.Repeat:
		e.showPanel = !e.showPanel
	case k.Key == KeyTab:
		e.SelectNext()
	case k.Key == KeyEscape:
		e.Select(scene.Entity{})
	default:
		return e.camera.OnKey(k.Key) || held
	}
	return true
}

func (e *Editor) onFileChanged(ev events.Event) bool {
	changed, ok := ev.(*events.FileChanged)
	if !ok || !samePath(changed.Path, e.project.ResourceConfigPath()) {
		return false
	}
	if err := e.Reload(); err != nil {
		logging.Logger().Warn("editor: hot reload failed", "path", changed.Path, "err", err)
		return false
	}
	logging.Logger().Info("editor: resource config reloaded", "path", changed.Path)
	return true
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

// Save writes the serialized resources to the project's resource config.
func (e *Editor) Save() error {
	return e.fr.SaveResourceConfig(e.project.ResourceConfigPath())
}

// Reload applies the project's resource config and copies the loaded
// values back into the render settings.
func (e *Editor) Reload() error {
	if err := e.fr.LoadResourceConfig(e.project.ResourceConfigPath()); err != nil {
		return err
	}
	e.captureSettings()
	return nil
}

// SetViewCamera places the editor camera looking at target.
func (e *Editor) SetViewCamera(target mgl32.Vec3, distance float32) {
	e.camera.Target = target
	e.camera.Distance = distance
}

// ShowPanel shows or hides the on-screen inspector text.
func (e *Editor) ShowPanel(show bool) { e.showPanel = show }

func (e *Editor) PanelShown() bool { return e.showPanel }
