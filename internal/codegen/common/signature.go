package common

import (
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout formats the capture time of a run signature.
const TimestampLayout = "2006-01-02 15:04:05"

// Signature identifies the program, version and time of a run. It is
// computed once at startup and handed to renderers for artifact headers.
type Signature string

// NewSignature builds "<program> <version> at: <timestamp>" from the
// invoking program path.
func NewSignature(program, version string, at time.Time) Signature {
	return Signature(filepath.Base(program) + " " + version + " at: " + at.Format(TimestampLayout))
}

func (s Signature) String() string { return string(s) }

// FileHeader renders the signature as a comment block using the given line
// comment prefix ("//", "#"). XML style comments are produced for "<!--".
func (s Signature) FileHeader(prefix string) string {
	if s == "" {
		return ""
	}
	if prefix == "<!--" {
		return "<!-- " + strings.ReplaceAll(string(s), "--", "- -") + " -->\n"
	}
	return prefix + " " + string(s) + "\n"
}
