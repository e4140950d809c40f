package ports

// Console is the operator-facing side of the harness.
// Every method blocks the caller; there is no timeout on operator input.
type Console interface {
	// Select shows the menu prompt and returns the operator's raw choice.
	// Returns io.EOF when input is closed.
	Select(validIDs []string) (string, error)

	// Acknowledge prints msg and blocks until the operator confirms.
	// Returns io.EOF when input is closed.
	Acknowledge(msg string) error

	// Report prints a line of text for the operator.
	Report(msg string)

	// Heading prints a visually separated title.
	Heading(title string)
}
