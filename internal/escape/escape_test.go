package escape

import (
	"strings"
	"testing"
)

func TestIsSafeBare(t *testing.T) {
	cases := []struct {
		in   string
		safe bool
	}{
		{"", false},
		{"hello", true},
		{"hello_world123", true},
		{"Hello, World", false},
		{"a b", false},
		{"a'b", false},
		{`a"b`, false},
		{"a$b", false},
		{"a`b", false},
		{"a*b", false},
		{"a;b", false},
		{"a&b", false},
		{"a#b", false},
		{"/usr/local/bin", true},
	}
	for _, c := range cases {
		if got := IsSafeBare(c.in); got != c.safe {
			t.Errorf("IsSafeBare(%q) = %v, want %v", c.in, got, c.safe)
		}
	}
}

func TestQuoteBare(t *testing.T) {
	if got := Quote("World"); got != "World" {
		t.Errorf("Quote(\"World\") = %q, want bare World", got)
	}
}

func TestQuoteMeta(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello, World", "'Hello, World'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
		{"$(rm -rf /)", `'$(rm -rf /)'`},
		{"a\nb", "'a\nb'"},
	}
	for _, c := range cases {
		if got := Quote(c.in); got != c.want {
			t.Errorf("Quote(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestQuoteRoundTrip verifies the quoting contract: for every printable
// ASCII string plus newline/tab/single-quote, Quote(s) single-quoted (with
// embedded quotes escaped) reconstructs to exactly s when interpreted by
// POSIX single-quote semantics.
func TestQuoteRoundTrip(t *testing.T) {
	for r := rune(0x20); r <= 0x7e; r++ {
		s := "x" + string(r) + "y"
		if got := reconstruct(Quote(s)); got != s {
			t.Errorf("round trip failed for %q: got %q", s, got)
		}
	}
	for _, s := range []string{"\n", "\t", "'", "a\tb\nc'd"} {
		if got := reconstruct(Quote(s)); got != s {
			t.Errorf("round trip failed for %q: got %q", s, got)
		}
	}
}

// reconstruct interprets the literal the way a POSIX shell would: bare text
// is copied verbatim, a single-quoted run contributes its interior verbatim,
// and '\'' contributes a literal single quote.
func reconstruct(q string) string {
	var b strings.Builder
	i := 0
	for i < len(q) {
		if q[i] == '\\' && i+1 < len(q) {
			b.WriteByte(q[i+1])
			i += 2
			continue
		}
		if q[i] != '\'' {
			b.WriteByte(q[i])
			i++
			continue
		}
		// entered a single-quoted run
		i++
		for i < len(q) && q[i] != '\'' {
			b.WriteByte(q[i])
			i++
		}
		i++ // closing quote
	}
	return b.String()
}

func TestCasePattern(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"a*b", `a\*b`},
		{"a?b", `a\?b`},
		{"a[b]c", `a\[b]c`},
		{`a\b`, `a\\b`},
		{"foo bar", "foo bar"},
	}
	for _, c := range cases {
		if got := CasePattern(c.in); got != c.want {
			t.Errorf("CasePattern(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
