//go:build levelscopedebug

package history

const Debug = true

func assert(cond bool, msg string) {
	if !cond {
		panic("history: " + msg)
	}
}
