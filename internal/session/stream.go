package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// errHalt is the internal sentinel the onToken bridge returns to stop the
// engine once max tokens or a stop sequence is reached. It never escapes.
var errHalt = errors.New("halt generation")

// Stream is a pull-based view of one generation turn. Fragments arrive in
// order; ok=false from Next signals end of stream, after which Err reports
// the terminal error, if any. A Stream is single-use.
type Stream struct {
	ch     chan string
	cancel context.CancelFunc

	mu     sync.Mutex
	text   strings.Builder
	err    error
	closed bool
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{ch: make(chan string), cancel: cancel}
}

// Next blocks for the next fragment. ok is false once the stream is exhausted.
func (s *Stream) Next() (fragment string, ok bool) {
	tok, ok := <-s.ch
	if ok {
		s.mu.Lock()
		s.text.WriteString(tok)
		s.mu.Unlock()
	}
	return tok, ok
}

// Text returns the concatenation of all fragments consumed so far.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Err returns the terminal error after the stream is exhausted, or nil for a
// clean end (max tokens or stop sequence).
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the stream, cancels the underlying generation, and drains
// remaining fragments. Idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	for range s.ch {
	}
	return nil
}

// setErr records the terminal error before the channel is closed.
func (s *Stream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
