package app

import (
	"fmt"

	"github.com/bft-labs/vtcheck/internal/domain"
	"github.com/bft-labs/vtcheck/internal/ports"
)

// State represents the harness state.
type State int

const (
	StateMenuWait State = iota
	StateRunning
	StateTerminated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateMenuWait:
		return "MenuWait"
	case StateRunning:
		return "Running"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when the harness state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle is the harness state machine. It is driven from a single
// goroutine and holds no locks.
//
// Valid transitions:
//   - MenuWait -> Running, Terminated
//   - Running -> MenuWait, Terminated
type Lifecycle struct {
	state        State
	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a state machine in MenuWait.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateMenuWait,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// TransitionTo moves to newState or returns domain.ErrInvalidTransition.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	oldState := l.state

	valid := false
	switch oldState {
	case StateMenuWait:
		valid = newState == StateRunning || newState == StateTerminated
	case StateRunning:
		valid = newState == StateMenuWait || newState == StateTerminated
	}
	if !valid {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, oldState, newState)
	}

	l.state = newState

	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// Terminated reports whether the harness has quit.
func (l *Lifecycle) Terminated() bool {
	return l.state == StateTerminated
}
