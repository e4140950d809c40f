// Package pacing writes to the device with fixed post-write delays so the
// receiving terminal's input buffer is never overrun.
//
// There is no flow control: nothing is read back from the receiver. The
// delays are policy values tuned to the target device.
package pacing

import (
	"fmt"
	"time"

	"github.com/bft-labs/vtcheck/internal/domain"
	"github.com/bft-labs/vtcheck/internal/ports"
)

// Default pacing values.
const (
	DefaultLineDelay    = 50 * time.Millisecond
	DefaultCellDelay    = 10 * time.Millisecond
	DefaultClearSettle  = 200 * time.Millisecond
	DefaultStepPause    = 300 * time.Millisecond
	DefaultObservePause = 500 * time.Millisecond
)

// Unit is the granularity a delay is applied at.
type Unit int

const (
	// Line is one CRLF-terminated line or chunk.
	Line Unit = iota
	// Cell is one color cell or fill row.
	Cell
)

// String returns a human-readable representation of the unit.
func (u Unit) String() string {
	switch u {
	case Line:
		return "line"
	case Cell:
		return "cell"
	default:
		return "unknown"
	}
}

// Policy holds the delays applied by a Pacer. A zero value disables that delay.
type Policy struct {
	// LineDelay follows each line or chunk.
	LineDelay time.Duration

	// CellDelay follows each color cell or fill row.
	CellDelay time.Duration

	// ClearSettle follows the clear-and-home preamble.
	ClearSettle time.Duration

	// StepPause separates explicit steps within a case.
	StepPause time.Duration

	// ObservePause gives the operator time to see transient output.
	ObservePause time.Duration
}

// DefaultPolicy returns the policy tuned for a 115200 baud ESP32 terminal.
func DefaultPolicy() Policy {
	return Policy{
		LineDelay:    DefaultLineDelay,
		CellDelay:    DefaultCellDelay,
		ClearSettle:  DefaultClearSettle,
		StepPause:    DefaultStepPause,
		ObservePause: DefaultObservePause,
	}
}

// Validate rejects negative delays.
func (p Policy) Validate() error {
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"line delay", p.LineDelay},
		{"cell delay", p.CellDelay},
		{"clear settle", p.ClearSettle},
		{"step pause", p.StepPause},
		{"observe pause", p.ObservePause},
	} {
		if d.v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidConfig, d.name)
		}
	}
	return nil
}

// Delay returns the delay for u.
func (p Policy) Delay(u Unit) time.Duration {
	switch u {
	case Line:
		return p.LineDelay
	case Cell:
		return p.CellDelay
	default:
		return 0
	}
}

// Pacer writes through a Transport and inserts policy delays.
// Writes are issued in call order and each one is flushed before returning,
// so delays land exactly between the writes they separate.
type Pacer struct {
	transport ports.Transport
	policy    Policy
	sleeper   ports.Sleeper
	written   int64
}

// New creates a Pacer. A nil sleeper uses the wall clock.
func New(transport ports.Transport, policy Policy, sleeper ports.Sleeper) *Pacer {
	if sleeper == nil {
		sleeper = ports.RealSleeper
	}
	return &Pacer{
		transport: transport,
		policy:    policy,
		sleeper:   sleeper,
	}
}

// Write sends b and flushes it. Failures wrap domain.ErrRuntimeTransport.
func (p *Pacer) Write(b []byte) error {
	n, err := p.transport.Write(b)
	p.written += int64(n)
	if err != nil {
		return fmt.Errorf("%w: write: %w", domain.ErrRuntimeTransport, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write %d of %d bytes", domain.ErrRuntimeTransport, n, len(b))
	}
	if err := p.transport.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", domain.ErrRuntimeTransport, err)
	}
	return nil
}

// WriteString sends s as bytes.
func (p *Pacer) WriteString(s string) error {
	return p.Write([]byte(s))
}

// Pace sleeps for the policy delay of u.
func (p *Pacer) Pace(u Unit) {
	p.Pause(p.policy.Delay(u))
}

// Pause sleeps for d. Non-positive durations return immediately.
func (p *Pacer) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	p.sleeper.Sleep(d)
}

// Policy returns the active policy.
func (p *Pacer) Policy() Policy {
	return p.policy
}

// SetPolicy replaces the active policy. Callers swap it only between cases.
func (p *Pacer) SetPolicy(policy Policy) {
	p.policy = policy
}

// Written returns the number of bytes accepted by the transport so far.
func (p *Pacer) Written() int64 {
	return p.written
}
