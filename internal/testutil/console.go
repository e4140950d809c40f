package testutil

import "io"

// Console is a scripted ports.Console.
type Console struct {
	// Choices are returned by Select in order; io.EOF once exhausted.
	Choices []string

	// AckErr is returned by Acknowledge when set.
	AckErr error

	// Log receives an EventAck for each acknowledgement when set.
	Log *Recorder

	Acks     []string
	Reports  []string
	Headings []string
	Selects  int
}

// Select pops the next scripted choice.
func (c *Console) Select(validIDs []string) (string, error) {
	c.Selects++
	if len(c.Choices) == 0 {
		return "", io.EOF
	}
	choice := c.Choices[0]
	c.Choices = c.Choices[1:]
	return choice, nil
}

// Acknowledge records msg and returns AckErr.
func (c *Console) Acknowledge(msg string) error {
	c.Acks = append(c.Acks, msg)
	if c.Log != nil {
		c.Log.Events = append(c.Log.Events, Event{Kind: EventAck, Msg: msg})
	}
	return c.AckErr
}

// Report records msg.
func (c *Console) Report(msg string) {
	c.Reports = append(c.Reports, msg)
}

// Heading records title.
func (c *Console) Heading(title string) {
	c.Headings = append(c.Headings, title)
}
