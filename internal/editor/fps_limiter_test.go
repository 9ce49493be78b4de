package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lumen/internal/config"
)

func TestFPSLimiterUnlimited(t *testing.T) {
	config.ResetRenderSettings()
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFPSLimiterPacesFrames(t *testing.T) {
	config.ResetRenderSettings()
	t.Cleanup(config.ResetRenderSettings)
	config.SetFPSLimit(100)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait(false)
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestFPSLimiterIdleCap(t *testing.T) {
	config.ResetRenderSettings()
	f := NewFPSLimiter()
	start := time.Now()
	f.Wait(true)
	assert.GreaterOrEqual(t, time.Since(start), time.Second/idleFPS-time.Millisecond)
}

type stepClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func TestFPSLimiterSchedule(t *testing.T) {
	config.ResetRenderSettings()
	t.Cleanup(config.ResetRenderSettings)
	config.SetFPSLimit(50)

	c := &stepClock{t: time.Unix(100, 0)}
	f := &FPSLimiter{now: c.now, sleep: c.sleep}

	f.Wait(false)
	c.t = c.t.Add(5 * time.Millisecond)
	f.Wait(false)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 15 * time.Millisecond}, c.slept)

	// a long frame does not earn a burst of unpaced frames afterwards
	c.t = c.t.Add(200 * time.Millisecond)
	f.Wait(false)
	f.Wait(false)
	assert.Equal(t, 20*time.Millisecond, c.slept[len(c.slept)-1])
	assert.Len(t, c.slept, 3)
}
