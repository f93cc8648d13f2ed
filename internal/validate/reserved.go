package validate

// shellReserved is the POSIX shell reserved-word set (XBD §2.4) plus the
// handful of special parameters and runtime helper names this compiler's
// emitted prelude relies on. A source name colliding with any of these would
// either fail to parse as emitted shell or silently shadow something the
// generated script depends on, so the validator rejects them up front rather
// than producing broken output.
var shellReserved = map[string]bool{
	"if": true, "then": true, "else": true, "elif": true, "fi": true,
	"do": true, "done": true, "case": true, "esac": true, "while": true,
	"until": true, "for": true, "in": true, "function": true, "select": true,
	"time": true, "coproc": true,
	"!": true, "{": true, "}": true,

	// Special parameters: reassigning these at the shell level is either
	// illegal or meaningless, so they're rejected as source identifiers too.
	"0": true, "1": true, "2": true, "3": true, "4": true, "5": true,
	"6": true, "7": true, "8": true, "9": true,
	"#": true, "@": true, "*": true, "?": true, "$": true, "-": true, "_": true,

	// Reserved by this compiler's own emitted prelude.
	"rash_require": true, "rash_cleanup": true,
}

func isShellReserved(name string) bool {
	return shellReserved[name]
}
