package catalog

import (
	"fmt"
	"strings"

	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/pkg/escseq"
)

// Vectors returns the battery in declaration order.
func Vectors() []TestCase {
	return []TestCase{
		{ID: "1", Label: "Scroll (60 lines)", Description: "scroll, sending 60 numbered lines to force multiple scrolls", Run: Scroll},
		{ID: "2", Label: "ANSI 16 colours", Description: "ANSI 16 colours, fg and bg", Run: ANSI16},
		{ID: "3", Label: "xterm-256 colour cube", Description: "xterm-256 colour cube", Run: Cube256},
		{ID: "4", Label: "Cursor movement", Description: "cursor movement and positioning", Run: CursorMovement},
		{ID: "5", Label: "Erase sequences (EL/ED)", Description: "erase sequences EL and ED", Run: Erase},
		{ID: "6", Label: "Full clear ESC[2J", Description: "full clear ESC[2J", Run: FullClear},
		{ID: "7", Label: "DECSC/DECRC save/restore", Description: "DECSC / DECRC save and restore cursor", Run: SaveRestore},
	}
}

// Default returns the registry of the built-in battery.
func Default() *Registry {
	r, err := NewRegistry(Vectors()...)
	if err != nil {
		// the built-in ids are fixed
		panic(err)
	}
	return r
}

const (
	scrollLines = 60
	scrollDots  = 20
)

// Scroll sends enough numbered lines to scroll any viewport of 60 rows or fewer.
func Scroll(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	dots := strings.Repeat(".", scrollDots)
	for i := 0; i < scrollLines; i++ {
		if err := b.Text(fmt.Sprintf("scroll line %02d %s%s", i, dots, crlf)); err != nil {
			return err
		}
		b.Out.Pace(pacing.Line)
	}
	return b.Confirm("check scroll looked clean")
}

// ANSI16 prints the eight normal and eight bright colours, first as
// foreground then as background.
func ANSI16(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	if err := colourBlock(b, "fg", 30, 90); err != nil {
		return err
	}
	if err := b.CRLF(); err != nil {
		return err
	}
	if err := colourBlock(b, "bg", 40, 100); err != nil {
		return err
	}
	if err := b.Seq(escseq.Reset()); err != nil {
		return err
	}
	return b.Confirm("check 16 colours look right")
}

func colourBlock(b *Bench, tag string, normal, bright int) error {
	for i := 0; i < 8; i++ {
		err := b.Emit(
			escseq.SGR(normal+i), fmt.Sprintf(" %s%02d ", tag, i),
			escseq.SGR(bright+i), fmt.Sprintf(" %s%02d ", tag, i+8),
			escseq.Reset(), crlf,
		)
		if err != nil {
			return err
		}
		b.Out.Pace(pacing.Line)
	}
	return nil
}

// 256-colour palette layout.
const (
	cubeBase    = 16
	cubeCells   = 216
	cubeRowSize = 36
	greyBase    = 232
	greyCells   = 24
	swatch      = "  "
)

// Cube256 paints the 6x6x6 colour cube followed by the greyscale ramp.
func Cube256(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	for i := 0; i < cubeCells; i++ {
		if err := b.Emit(escseq.SGR(48, 5, cubeBase+i), swatch); err != nil {
			return err
		}
		if (i+1)%cubeRowSize == 0 {
			if err := b.Emit(escseq.Reset(), crlf); err != nil {
				return err
			}
		}
		b.Out.Pace(pacing.Cell)
	}
	if err := b.Emit(escseq.Reset(), crlf); err != nil {
		return err
	}
	for i := 0; i < greyCells; i++ {
		if err := b.Emit(escseq.SGR(48, 5, greyBase+i), swatch); err != nil {
			return err
		}
		b.Out.Pace(pacing.Cell)
	}
	if err := b.Emit(escseq.Reset(), crlf); err != nil {
		return err
	}
	return b.Confirm("check 256 colour cube and greyscale ramp")
}

type anchor struct {
	row, col int
	label    string
}

// corners and midpoints of a 24x40 box
var boxAnchors = []anchor{
	{1, 1, "TL"},
	{1, 38, "TR"},
	{12, 1, "ML"},
	{12, 38, "MR"},
	{24, 1, "BL"},
	{24, 38, "BR"},
}

// CursorMovement labels absolute anchors, then walks the cursor with the
// relative up/down/right/left forms.
func CursorMovement(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	for _, a := range boxAnchors {
		if err := b.Emit(escseq.CUP(a.row, a.col), a.label); err != nil {
			return err
		}
	}
	err := b.Emit(
		escseq.CUP(10, 20), "CENTER",
		escseq.CUU(3), "UP3  ",
		escseq.CUD(3), "DN3  ",
		escseq.CUF(5), "R5",
		escseq.CUB(5),
	)
	if err != nil {
		return err
	}
	return b.Confirm("check cursor positioning looks right")
}

const (
	fillRows = 24
	fillCols = 40
)

type eraseStep struct {
	row, col int
	mode     int
}

// one step per erase-in-line mode
var eraseLineSteps = []eraseStep{
	{5, 20, escseq.EraseToEnd},
	{10, 20, escseq.EraseToStart},
	{15, 1, escseq.EraseAll},
}

// Erase fills the screen, exercises each erase-in-line mode on its own row,
// then erases from row 12 to the end of the screen.
func Erase(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	row := strings.Repeat("X", fillCols)
	for r := 0; r < fillRows; r++ {
		if err := b.Emit(row, crlf); err != nil {
			return err
		}
		b.Out.Pace(pacing.Cell)
	}
	b.Out.Pause(b.Out.Policy().StepPause)

	for _, s := range eraseLineSteps {
		if err := b.Seq(escseq.CUP(s.row, s.col), escseq.EL(s.mode)); err != nil {
			return err
		}
		b.Out.Pause(b.Out.Policy().StepPause)
	}
	if err := b.Confirm("check erases: partial line 5, partial line 10, full line 15"); err != nil {
		return err
	}

	if err := b.Seq(escseq.CUP(12, 1), escseq.ED(escseq.EraseToEnd)); err != nil {
		return err
	}
	return b.Confirm("check bottom half cleared")
}

// FullClear writes a canary line, clears, and writes a success line.
// The canary must not be visible afterwards.
func FullClear(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	if err := b.Text("if you can read this, clear failed" + crlf); err != nil {
		return err
	}
	b.Out.Pause(b.Out.Policy().ObservePause)
	if err := b.Clear(); err != nil {
		return err
	}
	if err := b.Text("clear worked" + crlf); err != nil {
		return err
	}
	return b.Confirm("check screen cleared properly")
}

// SaveRestore saves the cursor at row 5 col 10, writes elsewhere, and
// continues from the restored position.
func SaveRestore(b *Bench) error {
	if err := b.Clear(); err != nil {
		return err
	}
	err := b.Emit(
		escseq.CUP(5, 10), "SAVED HERE",
		escseq.DECSC(),
		escseq.CUP(20, 1), "moved away...",
	)
	if err != nil {
		return err
	}
	b.Out.Pause(b.Out.Policy().ObservePause)
	if err := b.Emit(escseq.DECRC(), " <-- restored"); err != nil {
		return err
	}
	return b.Confirm("check cursor restored to row 5 col 10")
}
