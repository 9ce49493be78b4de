package editor

// Key, modifier and button codes carried by input events. The values are
// GLFW's so the window host can forward them unchanged.
const (
	KeyTab    = 258
	KeyEscape = 256
	KeyRight  = 262
	KeyLeft   = 263
	KeyDown   = 264
	KeyUp     = 265
	KeySpace  = 32
	KeyA      = 65
	KeyC      = 67
	KeyD      = 68
	KeyE      = 69
	KeyP      = 80
	KeyQ      = 81
	KeyR      = 82
	KeyS      = 83

	KeyLeftShift  = 340
	KeyRightShift = 344

	ModShift   = 0x0001
	ModControl = 0x0002

	MouseButtonLeft  = 0
	MouseButtonRight = 1
)
