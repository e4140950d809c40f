// Package testutil provides in-memory fakes for the harness ports.
package testutil

import (
	"bytes"
	"io"
	"time"
)

// EventKind tags an entry in a Recorder log.
type EventKind int

const (
	EventWrite EventKind = iota
	EventSleep
	EventAck
)

// Event is one observable action: a write, a pacing sleep or an operator acknowledgement.
type Event struct {
	Kind  EventKind
	Data  []byte
	Delay time.Duration
	Msg   string
}

// Recorder is a Transport and Sleeper that logs everything in order.
type Recorder struct {
	Events  []Event
	Flushes int
	Closed  bool

	// FailAfter makes the Nth write (1-based) fail with WriteErr. Zero disables.
	FailAfter int
	WriteErr  error
	// CloseErr is returned by Close.
	CloseErr error

	writes int
}

// Write records p.
func (r *Recorder) Write(p []byte) (int, error) {
	r.writes++
	if r.FailAfter > 0 && r.writes >= r.FailAfter {
		err := r.WriteErr
		if err == nil {
			err = io.ErrClosedPipe
		}
		return 0, err
	}
	r.Events = append(r.Events, Event{Kind: EventWrite, Data: append([]byte(nil), p...)})
	return len(p), nil
}

// Flush counts flushes.
func (r *Recorder) Flush() error {
	r.Flushes++
	return nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.Closed = true
	return r.CloseErr
}

// Sleep records d without blocking.
func (r *Recorder) Sleep(d time.Duration) {
	r.Events = append(r.Events, Event{Kind: EventSleep, Delay: d})
}

// Bytes returns every written byte in order.
func (r *Recorder) Bytes() []byte {
	var buf bytes.Buffer
	for _, e := range r.Events {
		if e.Kind == EventWrite {
			buf.Write(e.Data)
		}
	}
	return buf.Bytes()
}

// Writes returns each write call's payload.
func (r *Recorder) Writes() [][]byte {
	var out [][]byte
	for _, e := range r.Events {
		if e.Kind == EventWrite {
			out = append(out, e.Data)
		}
	}
	return out
}

// Sleeps returns each recorded delay.
func (r *Recorder) Sleeps() []time.Duration {
	var out []time.Duration
	for _, e := range r.Events {
		if e.Kind == EventSleep {
			out = append(out, e.Delay)
		}
	}
	return out
}
