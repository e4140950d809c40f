package catalog

import (
	"fmt"

	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/internal/ports"
	"github.com/bft-labs/vtcheck/pkg/escseq"
)

// Bench is what a Procedure drives: the paced device output and the operator console.
type Bench struct {
	Out     *pacing.Pacer
	Console ports.Console
}

// NewBench creates a Bench.
func NewBench(out *pacing.Pacer, console ports.Console) *Bench {
	return &Bench{Out: out, Console: console}
}

// Seq writes one or more sequences in order.
func (b *Bench) Seq(seqs ...escseq.Sequence) error {
	for _, s := range seqs {
		if err := b.Out.Write(s.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Text writes visible content verbatim.
func (b *Bench) Text(s string) error {
	return b.Out.WriteString(s)
}

// Emit writes each part as its own write, in order. Parts may be
// escseq.Sequence, string or []byte.
func (b *Bench) Emit(parts ...interface{}) error {
	for _, part := range parts {
		var err error
		switch v := part.(type) {
		case escseq.Sequence:
			err = b.Out.Write(v.Bytes())
		case string:
			err = b.Out.WriteString(v)
		case []byte:
			err = b.Out.Write(v)
		default:
			return fmt.Errorf("catalog: cannot emit %T", part)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CRLF ends a line.
func (b *Bench) CRLF() error {
	return b.Out.WriteString(crlf)
}

// Clear erases the whole screen, homes the cursor and waits for the device to settle.
func (b *Bench) Clear() error {
	if err := b.Seq(escseq.ED(escseq.EraseAll), escseq.Home()); err != nil {
		return err
	}
	b.Out.Pause(b.Out.Policy().ClearSettle)
	return nil
}

// Confirm blocks until the operator acknowledges msg.
func (b *Bench) Confirm(msg string) error {
	return b.Console.Acknowledge(msg)
}

const crlf = "\r\n"
