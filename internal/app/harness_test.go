package app

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/vtcheck/internal/catalog"
	"github.com/bft-labs/vtcheck/internal/domain"
	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/internal/ports"
	"github.com/bft-labs/vtcheck/internal/testutil"
)

type fixture struct {
	rec     *testutil.Recorder
	dialer  *testutil.Dialer
	console *testutil.Console
	emitter *mockEmitter
	harness *Harness
}

func newFixture(t *testing.T, registry *catalog.Registry, choices ...string) *fixture {
	t.Helper()
	rec := &testutil.Recorder{}
	f := &fixture{
		rec:     rec,
		dialer:  &testutil.Dialer{Transport: rec},
		console: &testutil.Console{Choices: choices, Log: rec},
		emitter: &mockEmitter{},
	}
	cfg := Config{
		Line:   ports.DefaultLineConfig("/dev/ttyUSB0", 115200),
		Policy: pacing.DefaultPolicy(),
	}
	f.harness = NewHarness(cfg, registry, f.dialer, f.console,
		WithSleeper(rec),
		WithEventEmitter(f.emitter),
		WithLogger(&mockLogger{}),
	)
	return f
}

// tracer builds a registry whose cases record their ids into order.
func tracer(order *[]string, ids ...string) *catalog.Registry {
	cases := make([]catalog.TestCase, 0, len(ids))
	for _, id := range ids {
		id := id
		cases = append(cases, catalog.TestCase{
			ID:          id,
			Label:       "case " + id,
			Description: "trace " + id,
			Run: func(b *catalog.Bench) error {
				*order = append(*order, id)
				if err := b.Text(id); err != nil {
					return err
				}
				return b.Confirm("done " + id)
			},
		})
	}
	r, err := catalog.NewRegistry(cases...)
	if err != nil {
		panic(err)
	}
	return r
}

func TestHarness_RunSingleCaseThenQuit(t *testing.T) {
	f := newFixture(t, catalog.Default(), "1", "q")

	require.NoError(t, f.harness.Run())

	assert.Equal(t, 1, f.dialer.Dials)
	assert.Equal(t, ports.DefaultLineConfig("/dev/ttyUSB0", 115200), f.dialer.Config)
	assert.True(t, f.rec.Closed)
	assert.Equal(t, StateTerminated, f.harness.State())

	// the stream equals the scroll vector run on its own
	solo := &testutil.Recorder{}
	require.NoError(t, catalog.Scroll(catalog.NewBench(pacing.New(solo, pacing.DefaultPolicy(), solo), &testutil.Console{})))
	assert.Equal(t, solo.Bytes(), f.rec.Bytes())

	assert.Equal(t, []string{"check scroll looked clean"}, f.console.Acks)
	assert.Contains(t, f.console.Reports, "TEST: scroll, sending 60 numbered lines to force multiple scrolls")
	assert.Equal(t, "bye", f.console.Reports[len(f.console.Reports)-1])

	assert.Equal(t, []stateChangeEvent{
		{StateMenuWait, StateRunning, "case 1"},
		{StateRunning, StateMenuWait, "case 1 done"},
		{StateMenuWait, StateTerminated, "quit"},
	}, f.emitter.events)
}

func TestHarness_MenuListsEntriesInOrder(t *testing.T) {
	f := newFixture(t, catalog.Default(), "q")

	require.NoError(t, f.harness.Run())

	assert.Equal(t, []string{"tests"}, f.console.Headings)
	require.GreaterOrEqual(t, len(f.console.Reports), 9)
	assert.Equal(t, []string{
		"  1  Scroll (60 lines)",
		"  2  ANSI 16 colours",
		"  3  xterm-256 colour cube",
		"  4  Cursor movement",
		"  5  Erase sequences (EL/ED)",
		"  6  Full clear ESC[2J",
		"  7  DECSC/DECRC save/restore",
		"  a  Run ALL tests",
		"  q  Quit",
	}, f.console.Reports[:9])
	assert.Empty(t, f.rec.Writes(), "quitting writes nothing to the device")
}

func TestHarness_UnknownChoiceStaysAtMenu(t *testing.T) {
	var order []string
	f := newFixture(t, tracer(&order, "x"), "zz", "x", "q")

	require.NoError(t, f.harness.Run())

	assert.Contains(t, f.console.Reports, "unknown choice")
	assert.Equal(t, []string{"x"}, order)
	assert.Equal(t, 3, f.console.Selects)
}

func TestHarness_DispatchInvalidSelection(t *testing.T) {
	f := newFixture(t, catalog.Default())
	require.NoError(t, f.harness.Open())

	err := f.harness.Dispatch("8")

	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, StateMenuWait, f.harness.State())
	assert.Empty(t, f.rec.Writes())
}

func TestHarness_RunAllExecutesEveryCaseOnceInOrder(t *testing.T) {
	var order []string
	f := newFixture(t, tracer(&order, "x", "y", "z"), "a", "q")

	require.NoError(t, f.harness.Run())

	assert.Equal(t, []string{"x", "y", "z"}, order)
	assert.Equal(t, []string{"done x", "done y", "done z"}, f.console.Acks)
	assert.Equal(t, []string{"tests", "case x", "case y", "case z", "tests"}, f.console.Headings)
	assert.Equal(t, "xyz", string(f.rec.Bytes()))
}

func TestHarness_RunAllDefaultBattery(t *testing.T) {
	f := newFixture(t, catalog.Default(), "a", "q")

	require.NoError(t, f.harness.Run())

	var want []byte
	acks := 0
	for _, tc := range catalog.Vectors() {
		solo := &testutil.Recorder{}
		con := &testutil.Console{}
		require.NoError(t, tc.Run(catalog.NewBench(pacing.New(solo, pacing.DefaultPolicy(), solo), con)))
		want = append(want, solo.Bytes()...)
		acks += len(con.Acks)
	}

	assert.Equal(t, want, f.rec.Bytes())
	assert.Len(t, f.console.Acks, acks)
	assert.Equal(t, 8, acks, "erase asks twice, every other case once")
}

func TestHarness_StartupFailure(t *testing.T) {
	f := newFixture(t, catalog.Default(), "1")
	f.dialer.Err = errors.New("no such file or directory")

	err := f.harness.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStartupTransport)
	assert.Contains(t, err.Error(), "/dev/ttyUSB0")
	assert.Zero(t, f.console.Selects)
}

func TestHarness_RuntimeFailureAborts(t *testing.T) {
	var order []string
	f := newFixture(t, tracer(&order, "x", "y"), "a", "q")
	f.rec.FailAfter = 1

	err := f.harness.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuntimeTransport)
	assert.Equal(t, []string{"x"}, order, "run all stops at the failing case")
	assert.Equal(t, StateTerminated, f.harness.State())
	assert.True(t, f.rec.Closed)
	assert.Equal(t, 1, f.console.Selects)
}

func TestHarness_TransportEOFIsNotInputClosed(t *testing.T) {
	f := newFixture(t, catalog.Default(), "1", "q")
	f.rec.FailAfter = 1
	f.rec.WriteErr = io.EOF

	err := f.harness.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuntimeTransport)
	assert.Equal(t, StateTerminated, f.harness.State())
	assert.True(t, f.rec.Closed)
}

func TestHarness_CloseErrorIsReturned(t *testing.T) {
	closeErr := errors.New("rename capture: disk full")
	f := newFixture(t, catalog.Default(), "q")
	f.rec.CloseErr = closeErr

	err := f.harness.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, f.rec.Closed)
}

func TestHarness_CloseErrorJoinsCaseError(t *testing.T) {
	closeErr := errors.New("close failed")
	var order []string
	f := newFixture(t, tracer(&order, "x"), "x")
	f.rec.FailAfter = 1
	f.rec.CloseErr = closeErr

	err := f.harness.Run()

	assert.ErrorIs(t, err, domain.ErrRuntimeTransport)
	assert.ErrorIs(t, err, closeErr)
}

func TestHarness_InputClosedAtMenu(t *testing.T) {
	f := newFixture(t, catalog.Default())

	require.NoError(t, f.harness.Run())

	assert.Equal(t, StateTerminated, f.harness.State())
	assert.True(t, f.rec.Closed)
}

func TestHarness_InputClosedDuringCase(t *testing.T) {
	var order []string
	f := newFixture(t, tracer(&order, "x", "y"), "a")
	f.console.AckErr = io.EOF

	require.NoError(t, f.harness.Run())

	assert.Equal(t, []string{"x"}, order)
	assert.Equal(t, StateTerminated, f.harness.State())
	assert.True(t, f.rec.Closed)
}

func TestHarness_UpdatePolicyAppliesToNextCase(t *testing.T) {
	f := newFixture(t, catalog.Default())
	require.NoError(t, f.harness.Open())

	f.harness.UpdatePolicy(pacing.Policy{LineDelay: time.Second})
	require.NoError(t, f.harness.Dispatch("1"))

	sleeps := f.rec.Sleeps()
	require.Len(t, sleeps, 60, "clear settle disabled by the new policy")
	for _, d := range sleeps {
		assert.Equal(t, time.Second, d)
	}
	assert.Equal(t, time.Second, f.harness.Policy().LineDelay)
}

func TestHarness_UpdatePolicyDuringRunAll(t *testing.T) {
	var h *Harness
	var seen []time.Duration
	probe := func(update bool) catalog.Procedure {
		return func(b *catalog.Bench) error {
			seen = append(seen, b.Out.Policy().StepPause)
			if update {
				h.UpdatePolicy(pacing.Policy{StepPause: time.Minute})
				seen = append(seen, b.Out.Policy().StepPause)
			}
			return nil
		}
	}
	r, err := catalog.NewRegistry(
		catalog.TestCase{ID: "1", Label: "first", Run: probe(true)},
		catalog.TestCase{ID: "2", Label: "second", Run: probe(false)},
	)
	require.NoError(t, err)

	f := newFixture(t, r)
	h = f.harness
	require.NoError(t, h.Open())
	require.NoError(t, h.Dispatch(catalog.RunAllID))

	assert.Equal(t, []time.Duration{
		pacing.DefaultStepPause,
		pacing.DefaultStepPause, // unchanged mid-case
		time.Minute,
	}, seen)
}

func TestHarness_DispatchBeforeOpen(t *testing.T) {
	f := newFixture(t, catalog.Default())

	err := f.harness.Dispatch("1")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, f.dialer.Dials)
}
