package app

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/bft-labs/vtcheck/internal/catalog"
	"github.com/bft-labs/vtcheck/internal/domain"
	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/internal/ports"
)

// Config contains the harness settings fixed at startup.
type Config struct {
	Line   ports.LineConfig
	Policy pacing.Policy
}

// Harness presents the catalog, dispatches operator choices and owns the
// transport for the whole session.
type Harness struct {
	config    Config
	registry  *catalog.Registry
	dialer    ports.Dialer
	console   ports.Console
	logger    ports.Logger
	sleeper   ports.Sleeper
	lifecycle *Lifecycle

	transport ports.Transport
	pacer     *pacing.Pacer

	// written by the config watcher, read between cases
	policy atomic.Pointer[pacing.Policy]
}

// Option configures optional behavior of a Harness.
type Option func(*options)

type options struct {
	logger  ports.Logger
	sleeper ports.Sleeper
	emitter EventEmitter
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSleeper replaces the wall-clock sleeper used for pacing.
func WithSleeper(s ports.Sleeper) Option {
	return func(o *options) {
		o.sleeper = s
	}
}

// WithEventEmitter registers a state change observer.
func WithEventEmitter(e EventEmitter) Option {
	return func(o *options) {
		o.emitter = e
	}
}

// NewHarness creates a harness in MenuWait. The transport is opened by Run.
func NewHarness(cfg Config, registry *catalog.Registry, dialer ports.Dialer, console ports.Console, opts ...Option) *Harness {
	o := options{
		logger:  ports.NopLogger{},
		sleeper: ports.RealSleeper,
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Harness{
		config:    cfg,
		registry:  registry,
		dialer:    dialer,
		console:   console,
		logger:    o.logger,
		sleeper:   o.sleeper,
		lifecycle: NewLifecycle(o.logger, o.emitter),
	}
	policy := cfg.Policy
	h.policy.Store(&policy)
	return h
}

// State returns the harness state.
func (h *Harness) State() State {
	return h.lifecycle.State()
}

// UpdatePolicy replaces the pacing policy. It takes effect when the next
// case starts; a running case keeps its policy. Safe for concurrent use.
func (h *Harness) UpdatePolicy(p pacing.Policy) {
	h.policy.Store(&p)
	h.logger.Info("pacing policy updated",
		ports.Duration("line_delay", p.LineDelay),
		ports.Duration("cell_delay", p.CellDelay),
	)
}

// Policy returns the policy the next case will use.
func (h *Harness) Policy() pacing.Policy {
	return *h.policy.Load()
}

// Open dials the transport and programs the line discipline.
// Failures wrap domain.ErrStartupTransport.
func (h *Harness) Open() error {
	t, err := h.dialer.Dial(h.config.Line)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", domain.ErrStartupTransport, h.config.Line.Address, err)
	}
	h.transport = t
	h.pacer = pacing.New(t, h.Policy(), h.sleeper)
	h.logger.Info("transport open", ports.String("line", h.config.Line.String()))
	return nil
}

// Close releases the transport.
func (h *Harness) Close() error {
	if h.transport == nil {
		return nil
	}
	err := h.transport.Close()
	h.transport = nil
	if err != nil {
		h.logger.Warn("transport close failed", ports.Err(err))
		return err
	}
	h.logger.Info("transport closed", ports.Int64("bytes_written", h.pacer.Written()))
	return nil
}

// Run opens the transport, serves the menu until the operator quits and
// closes the transport. Startup failures wrap domain.ErrStartupTransport;
// a failed case aborts the session with its error. A failure to close the
// transport is joined into the returned error.
func (h *Harness) Run() (err error) {
	if err := h.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close transport: %w", cerr))
		}
	}()

	for !h.lifecycle.Terminated() {
		h.showMenu()
		choice, err := h.console.Select(h.registry.IDs())
		if err != nil {
			h.terminate("input closed")
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read selection: %w", err)
		}
		if err := h.Dispatch(choice); err != nil {
			if errors.Is(err, domain.ErrInvalidSelection) {
				continue
			}
			return err
		}
	}
	h.console.Report("bye")
	return nil
}

// Dispatch acts on one menu choice. An unknown choice is reported to the
// operator and returned as domain.ErrInvalidSelection with the harness
// still in MenuWait.
func (h *Harness) Dispatch(choice string) error {
	if h.pacer == nil || h.transport == nil {
		return fmt.Errorf("%w: transport not open", domain.ErrInvalidTransition)
	}
	tc, ok := h.registry.Lookup(choice)
	if !ok {
		h.logger.Warn("invalid selection", ports.String("choice", choice))
		h.console.Report("unknown choice")
		return fmt.Errorf("%w: %q", domain.ErrInvalidSelection, choice)
	}

	switch tc.Kind {
	case catalog.KindQuit:
		return h.lifecycle.TransitionTo(StateTerminated, "quit")
	case catalog.KindRunAll:
		return h.run("run all", h.registry.Cases(), true)
	default:
		return h.run("case "+tc.ID, []catalog.TestCase{tc}, false)
	}
}

// run executes cases back to back. Each case still waits for its own
// acknowledgements.
func (h *Harness) run(reason string, cases []catalog.TestCase, banners bool) error {
	if err := h.lifecycle.TransitionTo(StateRunning, reason); err != nil {
		return err
	}
	bench := catalog.NewBench(h.pacer, h.console)
	for _, tc := range cases {
		// reloaded pacing takes effect between cases, never mid-case
		h.pacer.SetPolicy(h.Policy())
		if err := h.runCase(bench, tc, banners); err != nil {
			if errors.Is(err, io.EOF) && !errors.Is(err, domain.ErrRuntimeTransport) {
				h.terminate("input closed")
				return nil
			}
			h.terminate("case " + tc.ID + " failed")
			return fmt.Errorf("case %s (%s): %w", tc.ID, tc.Label, err)
		}
	}
	return h.lifecycle.TransitionTo(StateMenuWait, reason+" done")
}

func (h *Harness) runCase(bench *catalog.Bench, tc catalog.TestCase, banner bool) error {
	if banner {
		h.console.Heading(tc.Label)
	}
	h.console.Report("TEST: " + tc.Description)

	start := time.Now()
	before := h.pacer.Written()
	h.logger.Info("case started", ports.String("id", tc.ID), ports.String("label", tc.Label))

	err := tc.Run(bench)

	fields := []ports.Field{
		ports.String("id", tc.ID),
		ports.Int64("bytes", h.pacer.Written()-before),
		ports.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		h.logger.Error("case aborted", append(fields, ports.Err(err))...)
		return err
	}
	h.logger.Info("case finished", fields...)
	return nil
}

func (h *Harness) showMenu() {
	h.console.Heading("tests")
	for _, tc := range h.registry.Entries() {
		h.console.Report(fmt.Sprintf("  %s  %s", tc.ID, tc.Label))
	}
}

func (h *Harness) terminate(reason string) {
	if h.lifecycle.Terminated() {
		return
	}
	if err := h.lifecycle.TransitionTo(StateTerminated, reason); err != nil {
		h.logger.Error("terminate", ports.Err(err))
	}
}
