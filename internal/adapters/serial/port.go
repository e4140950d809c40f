// Package serial implements ports.Transport on a host serial device.
package serial

import (
	"fmt"

	bugserial "go.bug.st/serial"

	"github.com/bft-labs/vtcheck/internal/ports"
)

// port is the subset of go.bug.st/serial.Port the transport needs.
type port interface {
	Write(p []byte) (int, error)
	Drain() error
	SetMode(mode *bugserial.Mode) error
	Close() error
}

type openFunc func(name string, mode *bugserial.Mode) (port, error)

func openDevice(name string, mode *bugserial.Mode) (port, error) {
	p, err := bugserial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Dialer opens serial devices. The zero value is ready to use.
type Dialer struct {
	open openFunc
}

// NewDialer returns a Dialer backed by go.bug.st/serial.
func NewDialer() *Dialer {
	return &Dialer{open: openDevice}
}

// Dial opens cfg.Address at the configured baud, then programs the full
// line discipline. The device is left in raw mode without echo.
func (d *Dialer) Dial(cfg ports.LineConfig) (ports.Transport, error) {
	mode, err := modeFor(cfg)
	if err != nil {
		return nil, err
	}
	open := d.open
	if open == nil {
		open = openDevice
	}

	p, err := open(cfg.Address, &bugserial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := p.SetMode(mode); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("configure %s: %w", cfg, err)
	}
	return &Transport{port: p}, nil
}

// modeFor maps a line discipline onto a serial mode. The library always
// opens devices raw and without echo, so other settings are rejected.
func modeFor(cfg ports.LineConfig) (*bugserial.Mode, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("serial: empty device address")
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("serial: invalid baud rate %d", cfg.BaudRate)
	}
	if !cfg.RawMode || cfg.LocalEcho {
		return nil, fmt.Errorf("serial: only raw mode without echo is supported")
	}
	if cfg.DataBits < 5 || cfg.DataBits > 8 {
		return nil, fmt.Errorf("serial: invalid data bits %d", cfg.DataBits)
	}

	mode := &bugserial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}
	switch cfg.Parity {
	case ports.ParityNone:
		mode.Parity = bugserial.NoParity
	case ports.ParityOdd:
		mode.Parity = bugserial.OddParity
	case ports.ParityEven:
		mode.Parity = bugserial.EvenParity
	default:
		return nil, fmt.Errorf("serial: invalid parity %s", cfg.Parity)
	}
	switch cfg.StopBits {
	case 1:
		mode.StopBits = bugserial.OneStopBit
	case 2:
		mode.StopBits = bugserial.TwoStopBits
	default:
		return nil, fmt.Errorf("serial: invalid stop bits %d", cfg.StopBits)
	}
	return mode, nil
}

// Transport writes to an open serial device.
type Transport struct {
	port port
}

// Write sends p to the device.
func (t *Transport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

// Flush waits until the output buffer has been transmitted.
func (t *Transport) Flush() error {
	return t.port.Drain()
}

// Close closes the device.
func (t *Transport) Close() error {
	return t.port.Close()
}

var (
	_ ports.Dialer    = (*Dialer)(nil)
	_ ports.Transport = (*Transport)(nil)
)
