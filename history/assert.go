//go:build !levelscopedebug

package history

// Debug is true when the package is built with the levelscopedebug tag. In
// release builds, out of range offsets wrap modulo the capacity instead of
// panicking.
const Debug = false

func assert(cond bool, msg string) {}
