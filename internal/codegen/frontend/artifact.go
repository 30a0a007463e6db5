package frontend

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Artifact is one rendered file. Header carries the run signature and is
// kept apart from Body so that bodies can be compared across runs.
type Artifact struct {
	Path   string
	Header string
	Body   []byte
}

// Content is the header followed by the body, as written to disk.
func (a Artifact) Content() []byte {
	out := make([]byte, 0, len(a.Header)+len(a.Body))
	out = append(out, a.Header...)
	return append(out, a.Body...)
}

// Digest is the hex encoded BLAKE2b-256 hash of Body.
func (a Artifact) Digest() string {
	sum := blake2b.Sum256(a.Body)
	return hex.EncodeToString(sum[:])
}
