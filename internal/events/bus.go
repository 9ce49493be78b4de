package events

// Handler receives an event and reports whether it consumed it.
type Handler func(Event) bool

type subscription struct {
	id uint64
	fn Handler
}

// Bus is a small publish/subscribe registry keyed by event kind.
// Handlers for a kind run in subscription order until one consumes the
// event. A Bus is not safe for concurrent use; it lives on the render thread.
type Bus struct {
	nextID uint64
	subs   map[Kind][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscription)}
}

// Subscribe registers fn for events of the given kind and returns a
// function that removes it again.
func (b *Bus) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, fn: fn})
	return func() {
		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every handler subscribed to its kind.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	// copy so handlers may unsubscribe while we iterate
	list := append([]subscription(nil), b.subs[e.Kind()]...)
	for _, s := range list {
		if e.IsHandled() {
			return
		}
		if s.fn(e) {
			e.SetHandled()
		}
	}
}

// Len returns the number of handlers subscribed to kind.
func (b *Bus) Len(kind Kind) int {
	return len(b.subs[kind])
}
