package ports

import "fmt"

// Transport is an open, configured connection to the device under test.
// Exactly one owner writes to it; implementations need not be safe for
// concurrent use.
type Transport interface {
	// Write sends p to the device. A short write is an error.
	Write(p []byte) (int, error)

	// Flush blocks until written bytes have left the host.
	Flush() error

	// Close releases the connection.
	Close() error
}

// Dialer opens a Transport and programs its line discipline.
type Dialer interface {
	Dial(cfg LineConfig) (Transport, error)
}

// Parity selects the parity bit setting of the serial line.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// String returns a human-readable representation of the parity.
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "unknown"
	}
}

func (p Parity) letter() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	default:
		return "?"
	}
}

// LineConfig is the line discipline programmed once at startup.
type LineConfig struct {
	// Address is the device path, e.g. /dev/ttyUSB0.
	Address string

	BaudRate int
	DataBits int
	Parity   Parity
	StopBits int

	// RawMode disables input/output processing by the host tty layer.
	RawMode bool

	// LocalEcho echoes received bytes back on the host side.
	LocalEcho bool
}

// DefaultLineConfig returns 8N1 raw mode without echo at the given address and baud.
func DefaultLineConfig(address string, baud int) LineConfig {
	return LineConfig{
		Address:   address,
		BaudRate:  baud,
		DataBits:  8,
		Parity:    ParityNone,
		StopBits:  1,
		RawMode:   true,
		LocalEcho: false,
	}
}

// String renders the discipline in stty-like shorthand.
func (c LineConfig) String() string {
	mode := "raw"
	if !c.RawMode {
		mode = "cooked"
	}
	echo := "-echo"
	if c.LocalEcho {
		echo = "echo"
	}
	return fmt.Sprintf("%s %d %d%s%d %s %s", c.Address, c.BaudRate, c.DataBits,
		c.Parity.letter(), c.StopBits, mode, echo)
}
