package diffsquare

import (
	"os"

	"golang.org/x/term"
)

// pick returns the first non-zero value of cli, local and global.
func pick[T comparable](cli T, local, global *T) T {
	var zero T
	if cli != zero {
		return cli
	}
	if local != nil && *local != zero {
		return *local
	}
	if global != nil && *global != zero {
		return *global
	}
	return zero
}

// pickBool differs from pick in that an explicit false in a file wins over
// the file below it.
func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled reports whether output to f may carry ANSI colors.
func colorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}
