package events

// Kind identifies the concrete type of an Event.
type Kind int

const (
	KindNone Kind = iota
	KindWindowResize
	KindWindowClose
	KindViewportResize
	KindKeyPressed
	KindKeyReleased
	KindMouseButtonPressed
	KindMouseMoved
	KindMouseScrolled
	KindFileChanged
)

var kindNames = [...]string{
	KindNone:               "None",
	KindWindowResize:       "WindowResize",
	KindWindowClose:        "WindowClose",
	KindViewportResize:     "ViewportResize",
	KindKeyPressed:         "KeyPressed",
	KindKeyReleased:        "KeyReleased",
	KindMouseButtonPressed: "MouseButtonPressed",
	KindMouseMoved:         "MouseMoved",
	KindMouseScrolled:      "MouseScrolled",
	KindFileChanged:        "FileChanged",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Event is anything the windowing layer or the editor can publish.
type Event interface {
	Kind() Kind
	IsHandled() bool
	SetHandled()
}

// Base carries the handled flag; embed it in concrete events.
type Base struct {
	handled bool
}

func (b *Base) IsHandled() bool { return b.handled }
func (b *Base) SetHandled()     { b.handled = true }

// WindowResize fires when the OS window framebuffer changes size.
type WindowResize struct {
	Base
	Width, Height int
}

func (*WindowResize) Kind() Kind { return KindWindowResize }

// WindowClose fires when the user asks to close the window.
type WindowClose struct{ Base }

func (*WindowClose) Kind() Kind { return KindWindowClose }

// ViewportResize fires when the scene viewport the frame graph renders into
// changes size. Resolution-dependent render resources react to it.
type ViewportResize struct {
	Base
	Width, Height int
}

func (*ViewportResize) Kind() Kind { return KindViewportResize }

// KeyPressed carries a platform key code.
type KeyPressed struct {
	Base
	Key    int
	Mods   int
	Repeat bool
}

func (*KeyPressed) Kind() Kind { return KindKeyPressed }

type KeyReleased struct {
	Base
	Key int
}

func (*KeyReleased) Kind() Kind { return KindKeyReleased }

type MouseButtonPressed struct {
	Base
	Button int
	X, Y   float64
}

func (*MouseButtonPressed) Kind() Kind { return KindMouseButtonPressed }

type MouseMoved struct {
	Base
	X, Y float64
}

func (*MouseMoved) Kind() Kind { return KindMouseMoved }

type MouseScrolled struct {
	Base
	XOffset, YOffset float64
}

func (*MouseScrolled) Kind() Kind { return KindMouseScrolled }

// FileChanged is published when a watched file is written.
type FileChanged struct {
	Base
	Path string
}

func (*FileChanged) Kind() Kind { return KindFileChanged }

// Dispatch calls fn when e has dynamic type T. fn returns whether it
// consumed the event; if so e is marked handled. Reports whether fn ran.
func Dispatch[T Event](e Event, fn func(T) bool) bool {
	if e == nil || e.IsHandled() {
		return false
	}
	typed, ok := e.(T)
	if !ok {
		return false
	}
	if fn(typed) {
		e.SetHandled()
	}
	return true
}
