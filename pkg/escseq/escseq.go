package escseq

import (
	"strconv"
	"strings"
)

// ESC is the escape control byte that introduces every sequence.
const ESC byte = 0x1b

// Kind selects the framing of a sequence.
type Kind int

const (
	// SimpleEscape frames the body as ESC <body>.
	SimpleEscape Kind = iota
	// CSI frames the body as ESC '[' <body>.
	CSI
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case SimpleEscape:
		return "ESC"
	case CSI:
		return "CSI"
	default:
		return "Unknown"
	}
}

// Build returns the framed bytes for body. Any body is accepted verbatim.
// An unknown kind is framed as a simple escape.
func Build(kind Kind, body string) []byte {
	if kind == CSI {
		out := make([]byte, 0, len(body)+2)
		out = append(out, ESC, '[')
		return append(out, body...)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, ESC)
	return append(out, body...)
}

// Sequence is a typed descriptor for one escape sequence.
// Params are rendered as decimal and joined with ';' ahead of Final.
type Sequence struct {
	Kind   Kind
	Params []int
	Final  string
}

// Body returns the sequence body without the framing prefix.
func (s Sequence) Body() string {
	if len(s.Params) == 0 {
		return s.Final
	}
	var b strings.Builder
	for i, p := range s.Params {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(p))
	}
	b.WriteString(s.Final)
	return b.String()
}

// Bytes renders the sequence through Build.
func (s Sequence) Bytes() []byte {
	return Build(s.Kind, s.Body())
}

// String returns the sequence in a printable form, e.g. "CSI 5;10H".
func (s Sequence) String() string {
	return s.Kind.String() + " " + s.Body()
}

func csi(final string, params ...int) Sequence {
	return Sequence{Kind: CSI, Params: params, Final: final}
}

// CUP moves the cursor to the 1-based row and column.
func CUP(row, col int) Sequence { return csi("H", row, col) }

// Home moves the cursor to the top-left corner.
func Home() Sequence { return csi("H") }

// CUU moves the cursor up n rows.
func CUU(n int) Sequence { return csi("A", n) }

// CUD moves the cursor down n rows.
func CUD(n int) Sequence { return csi("B", n) }

// CUF moves the cursor right n columns.
func CUF(n int) Sequence { return csi("C", n) }

// CUB moves the cursor left n columns.
func CUB(n int) Sequence { return csi("D", n) }

// Erase modes shared by ED and EL.
const (
	EraseToEnd   = 0
	EraseToStart = 1
	EraseAll     = 2
)

// ED erases in display. The mode is always emitted, including 0.
func ED(mode int) Sequence { return csi("J", mode) }

// EL erases in line. The mode is always emitted, including 0.
func EL(mode int) Sequence { return csi("K", mode) }

// SGR sets graphic rendition attributes.
func SGR(params ...int) Sequence { return csi("m", params...) }

// Reset returns SGR 0.
func Reset() Sequence { return SGR(0) }

// DECSC saves the cursor position and attributes.
func DECSC() Sequence { return Sequence{Kind: SimpleEscape, Final: "7"} }

// DECRC restores the state saved by DECSC.
func DECRC() Sequence { return Sequence{Kind: SimpleEscape, Final: "8"} }
