// Package dialect bundles the small set of emit-time knobs the emitter
// (internal/emit) is allowed to vary: shebang, the `[`/`[[` test form, and
// whether the prelude adds a dialect-specific strict-mode line on top of
// the `set -eu` every profile shares. The IR itself never varies by
// dialect; only these presentation choices do.
//
// POSIX is the only profile the verifier and the shellcheck-compliance
// property hold to — it is also the default. The other three names exist
// so a caller can opt into the bashisms their target interpreter actually
// supports, the same way a build accepts a named preset that bundles a
// handful of independent flags into one choice.
package dialect

import "fmt"

// Name identifies one of the four emission dialects a Profile may select.
type Name string

const (
	POSIX Name = "posix"
	Bash  Name = "bash"
	Dash  Name = "dash"
	Ash   Name = "ash"
)

// Profile bundles the emit decisions that vary across dialects. Every field
// has a meaningful default under POSIX; other dialects override only what
// they need to.
type Profile struct {
	Name Name

	// Shebang is the interpreter line the emitted script starts with.
	Shebang string

	// TestOpen/TestClose wrap a boolean test: "[ ... ]" under posix/dash/ash,
	// "[[ ... ]]" under bash. The difference only matters for the pattern-
	// match and regex extensions bash's [[ supports; rash never lowers to
	// those extensions, so the two forms are semantically interchangeable
	// for every test this emitter ever produces — the knob exists because a
	// reader of bash output expects to see [[ there, not because [ would be
	// wrong.
	TestOpen  string
	TestClose string

	// ExtraPrelude is dialect-specific text appended after the shared
	// `set -eu`/IFS/LC_ALL lines, before the runtime helpers. Empty under
	// POSIX, which defines the common baseline every other dialect extends.
	ExtraPrelude string
}

// Named resolves one of the four fixed profile names. An unknown name
// (including the empty string) is an error — callers that want the default
// ask for POSIX explicitly rather than relying on zero-value behavior.
func Named(n Name) (*Profile, error) {
	switch n {
	case POSIX:
		return posixProfile, nil
	case Bash:
		return bashProfile, nil
	case Dash:
		return dashProfile, nil
	case Ash:
		return ashProfile, nil
	default:
		return nil, fmt.Errorf("dialect: unknown profile %q (use posix|bash|dash|ash)", n)
	}
}

var posixProfile = &Profile{
	Name:      POSIX,
	Shebang:   "#!/bin/sh",
	TestOpen:  "[",
	TestClose: "]",
}

var bashProfile = &Profile{
	Name:      Bash,
	Shebang:   "#!/bin/bash",
	TestOpen:  "[[",
	TestClose: "]]",
	// pipefail has no POSIX equivalent; bash is the one target dialect able
	// to express it, so a bash-dialect script gets the stronger guarantee.
	ExtraPrelude: "set -o pipefail\n",
}

var dashProfile = &Profile{
	Name:      Dash,
	Shebang:   "#!/bin/dash",
	TestOpen:  "[",
	TestClose: "]",
}

var ashProfile = &Profile{
	Name:      Ash,
	Shebang:   "#!/bin/ash",
	TestOpen:  "[",
	TestClose: "]",
}

// Default returns the POSIX profile, the only one required to pass the
// shellcheck-compliance property and the one every entry point falls back
// to when no dialect is requested.
func Default() *Profile {
	return posixProfile
}
