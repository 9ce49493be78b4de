//go:build !lumendebug

package framegraph

// DebugAsserts reports whether DebugAssert is live.
const DebugAsserts = false

// DebugAssert is a no-op outside lumendebug builds.
func DebugAssert(bool, string, ...any) {}
