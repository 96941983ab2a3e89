// Package sink writes received telemetry to a shared output stream, one entry at a time.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

const closingDelimiter = "---------------------------------------------------"

// Entry is one received telemetry payload.
type Entry struct {
	// ReceivedAt is the ISO-8601 timestamp printed in the opening delimiter.
	ReceivedAt string
	Headers    map[string]string
	Body       string
}

// Sink serializes entries onto a writer so that the lines of one entry are never interleaved with another's.
type Sink struct {
	mu    sync.Mutex
	w     io.Writer
	count atomic.Uint64
}

// New returns a Sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write renders e and writes it with a single call, flushing the writer afterwards when it supports it.
func (s *Sink) Write(e Entry) error {
	buf := render(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write telemetry entry")
	}
	flush(s.w)
	s.count.Add(1)
	return nil
}

// Count returns the number of entries written so far.
func (s *Sink) Count() uint64 {
	return s.count.Load()
}

func render(e Entry) []byte {
	headers, err := json.Marshal(e.Headers)
	if err != nil || e.Headers == nil {
		headers = []byte("{}")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "----- Received telemetry @ %s -----\n", e.ReceivedAt)
	fmt.Fprintf(&buf, "Headers: %s\n", headers)
	fmt.Fprintf(&buf, "Body: %s\n", e.Body)
	buf.WriteString(closingDelimiter + "\n")
	return buf.Bytes()
}

// flush pushes buffered output down to the OS. Errors are ignored: stdout may be a pipe or a terminal, which reject Sync.
func flush(w io.Writer) {
	switch f := w.(type) {
	case interface{ Flush() error }:
		_ = f.Flush()
	case interface{ Sync() error }:
		_ = f.Sync()
	}
}
