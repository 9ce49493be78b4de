package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMatchesConcreteType(t *testing.T) {
	e := &ViewportResize{Width: 640, Height: 480}

	var got [2]int
	ran := Dispatch(e, func(v *ViewportResize) bool {
		got = [2]int{v.Width, v.Height}
		return false
	})
	require.True(t, ran)
	assert.Equal(t, [2]int{640, 480}, got)
	assert.False(t, e.IsHandled())

	ran = Dispatch(e, func(*KeyPressed) bool { return true })
	assert.False(t, ran)
}

func TestDispatchSkipsHandledEvents(t *testing.T) {
	e := &KeyPressed{Key: 70}
	assert.True(t, Dispatch(e, func(*KeyPressed) bool { return true }))
	assert.True(t, e.IsHandled())
	assert.False(t, Dispatch(e, func(*KeyPressed) bool { return true }))
}

func TestBusOrderAndConsumption(t *testing.T) {
	b := NewBus()
	var calls []string
	b.Subscribe(KindViewportResize, func(Event) bool { calls = append(calls, "a"); return false })
	b.Subscribe(KindViewportResize, func(Event) bool { calls = append(calls, "b"); return true })
	b.Subscribe(KindViewportResize, func(Event) bool { calls = append(calls, "c"); return false })
	b.Subscribe(KindKeyPressed, func(Event) bool { calls = append(calls, "key"); return false })

	e := &ViewportResize{Width: 1, Height: 1}
	b.Publish(e)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.True(t, e.IsHandled())
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()
	count := 0
	unsub := b.Subscribe(KindWindowClose, func(Event) bool { count++; return false })
	b.Subscribe(KindWindowClose, func(Event) bool { count += 10; return false })
	require.Equal(t, 2, b.Len(KindWindowClose))

	unsub()
	unsub()
	assert.Equal(t, 1, b.Len(KindWindowClose))

	b.Publish(&WindowClose{})
	assert.Equal(t, 10, count)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ViewportResize", KindViewportResize.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
