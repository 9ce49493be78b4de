package main

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"lumen/internal/config"
	"lumen/internal/editor"
	"lumen/internal/logging"
	"lumen/internal/profiling"
)

// slowFrame is the frame time above which the loop logs where time went.
const slowFrame = 50 * time.Millisecond

func runWindow(project *config.ProjectConfig, _ options) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow(project)
	if err != nil {
		return err
	}
	defer window.Destroy()

	// the pipeline renders at framebuffer resolution
	project.Window.Width, project.Window.Height = window.GetFramebufferSize()

	backend, b, err := newGLBackend(project, project.Window.Width, project.Window.Height)
	if err != nil {
		return err
	}
	defer backend.release()

	ed, err := editor.New(project, b)
	if err != nil {
		return err
	}
	defer ed.Close()

	setupInputHandlers(window, ed, backend.device.SetWindowSize)
	runEditorLoop(window, backend, ed)
	return nil
}

func runEditorLoop(window *glfw.Window, backend *glBackend, ed *editor.Editor) {
	limiter := editor.NewFPSLimiter()
	frames := 0
	lastFPSCheckTime := time.Now()
	lastTime := time.Now()

	for !window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		ed.Update(dt)
		ed.Render()

		p := ed.Profiler()
		func() {
			defer p.Track("host.Present")()
			w, h := window.GetFramebufferSize()
			backend.device.BlitToScreen(ed.Final())
			backend.device.Viewport(0, 0, w, h)
			ed.RenderPanel()
		}()
		func() { defer p.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		func() { defer p.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		frames++

		if time.Since(lastFPSCheckTime) >= time.Second {
			logging.Logger().Debug("lumen: fps", "fps", frames)
			frames = 0
			lastFPSCheckTime = time.Now()
		}

		if total := time.Since(now); total > slowFrame {
			logging.Logger().Warn("lumen: slow frame",
				"ms", profiling.FormatMs(total), "top", p.TopN(5))
		}

		fw, fh := window.GetFramebufferSize()
		idle := window.GetAttrib(glfw.Focused) == glfw.False || fw == 0 || fh == 0
		limiter.Wait(idle)
	}
}
