package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"lumen/internal/config"
	"lumen/internal/editor"
	"lumen/internal/events"
)

func setupWindow(project *config.ProjectConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	title := project.Window.Title
	if project.Name != "" {
		title += " - " + project.Name
	}
	window, err := glfw.CreateWindow(project.Window.Width, project.Window.Height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if project.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// cursorScale converts window coordinates to framebuffer pixels, which
// differ on high-DPI displays.
func cursorScale(w *glfw.Window) (sx, sy float64) {
	ww, wh := w.GetSize()
	fw, fh := w.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float64(fw) / float64(ww), float64(fh) / float64(wh)
}

// setupInputHandlers forwards GLFW callbacks to the editor as events.
// onResize runs before the editor sees a framebuffer size change.
func setupInputHandlers(window *glfw.Window, ed *editor.Editor, onResize func(width, height int)) {
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		onResize(width, height)
		ed.OnEvent(&events.WindowResize{Width: width, Height: height})
	})

	window.SetCloseCallback(func(w *glfw.Window) {
		ed.OnEvent(&events.WindowClose{})
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			ed.ReleaseInput()
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			ed.OnEvent(&events.KeyPressed{Key: int(key), Mods: int(mods), Repeat: action == glfw.Repeat})
		case glfw.Release:
			ed.OnEvent(&events.KeyReleased{Key: int(key)})
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		sx, sy := cursorScale(w)
		ed.OnEvent(&events.MouseMoved{X: xpos * sx, Y: ypos * sy})
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		x, y := w.GetCursorPos()
		sx, sy := cursorScale(w)
		ed.OnEvent(&events.MouseButtonPressed{Button: int(button), X: x * sx, Y: y * sy})
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ed.OnEvent(&events.MouseScrolled{XOffset: xoff, YOffset: yoff})
	})
}
