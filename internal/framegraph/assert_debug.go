//go:build lumendebug

package framegraph

import "fmt"

// DebugAsserts reports whether DebugAssert is live. Guard assertions whose
// arguments cost something with it.
const DebugAsserts = true

// DebugAssert stops the process when cond is false. Only compiled into
// builds tagged lumendebug.
func DebugAssert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("framegraph: assertion failed: "+format, args...))
	}
}
