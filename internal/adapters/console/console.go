// Package console implements ports.Console for the operator's terminal.
//
// When stdin is a terminal, input is read with ergochat/readline so the
// operator gets line editing. Otherwise (pipes, scripts, tests) lines are
// read with a bufio.Scanner.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bft-labs/vtcheck/internal/ports"
)

const ruleWidth = 40

// Console talks to the operator.
type Console struct {
	out    io.Writer
	styles *termenv.Output

	// interactive mode
	rl *readline.Instance

	// non-interactive mode
	scanner *bufio.Scanner
}

// New returns a non-interactive console reading lines from in.
func New(in io.Reader, out io.Writer) *Console {
	return newConsole(in, out, termenv.NewOutput(out))
}

func newConsole(in io.Reader, out io.Writer, styles *termenv.Output) *Console {
	return &Console{
		out:     out,
		styles:  styles,
		scanner: bufio.NewScanner(in),
	}
}

// NewTerminal returns a console on stdin/stdout, with line editing when
// stdin is a terminal.
func NewTerminal() *Console {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""
	if !interactive {
		return New(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 "",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return New(os.Stdin, os.Stdout)
	}
	return &Console{
		out:    os.Stdout,
		styles: termenv.NewOutput(os.Stdout),
		rl:     rl,
	}
}

// Select prompts for a menu choice. The answer is trimmed and lower-cased;
// validating it is the caller's job.
func (c *Console) Select(validIDs []string) (string, error) {
	line, err := c.readLine("choice: ")
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// Acknowledge blocks until the operator presses enter.
func (c *Console) Acknowledge(msg string) error {
	fmt.Fprintln(c.out)
	_, err := c.readLine(fmt.Sprintf("  [ENTER] %s> ", msg))
	return err
}

// Report prints msg on its own line.
func (c *Console) Report(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Heading prints a ruled, bold title.
func (c *Console) Heading(title string) {
	label := "── " + title + " "
	if pad := ruleWidth - len([]rune(label)); pad > 0 {
		label += strings.Repeat("─", pad)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.String(label).Bold().String())
}

// Close releases the line editor.
func (c *Console) Close() {
	if c.rl != nil {
		c.rl.Close()
		c.rl = nil
	}
}

// readLine returns io.EOF on end of input or interrupt.
func (c *Console) readLine(prompt string) (string, error) {
	if c.rl != nil {
		c.rl.SetPrompt(prompt)
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}

	fmt.Fprint(c.out, prompt)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

var _ ports.Console = (*Console)(nil)
