package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates per-frame CPU time under string keys.
// Each FrameRenderer owns one so that two renderers never mix their numbers.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	order  []string
}

// New creates an empty profiler.
func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer p.Track("pass.Bloom")()
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		p.Add(name, time.Since(start))
	}
}

// Add records d under name.
func (p *Profiler) Add(name string, d time.Duration) {
	p.mu.Lock()
	if _, ok := p.totals[name]; !ok {
		p.order = append(p.order, name)
	}
	p.totals[name] += d
	p.mu.Unlock()
}

// ResetFrame clears the current totals. Call at the start of each frame.
func (p *Profiler) ResetFrame() {
	p.mu.Lock()
	clear(p.totals)
	p.order = p.order[:0]
	p.mu.Unlock()
}

// Get returns the total recorded for name in the current frame.
func (p *Profiler) Get(name string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totals[name]
}

// Snapshot returns a copy of the current totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.totals))
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up every total whose key starts with prefix.
func (p *Profiler) SumWithPrefix(prefix string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sum time.Duration
	for k, v := range p.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest totals of the current frame.
// Example: "pass.Scene3D:4.2ms, pass.Bloom:2.1ms"
func (p *Profiler) TopN(n int) string {
	p.mu.Lock()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(p.order))
	for _, k := range p.order {
		list = append(list, pair{name: k, dur: p.totals[k]})
	}
	p.mu.Unlock()

	// stable keeps first-recorded order for ties
	sort.SliceStable(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+FormatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// FormatMs renders d in milliseconds with one decimal, dropping ".0".
func FormatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
