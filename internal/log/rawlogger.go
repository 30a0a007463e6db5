package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw descriptor payloads as received from the backend.
type RawLogger interface {
	Log(name string, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log emits a timestamped header line followed by the payload, each payload
// line indented by two spaces.
func (r *rawLogger) Log(name string, data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s payload: %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		name,
		len(data))
	for _, line := range bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n")) {
		buf.WriteString("  ")
		buf.Write(line)
		buf.WriteByte('\n')
	}

	r.mu.Lock()
	_, _ = r.w.Write(buf.Bytes())
	r.mu.Unlock()
}
