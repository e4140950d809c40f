// Package fs records the transmitted byte stream to a file.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/vtcheck/internal/ports"
)

// CaptureDialer wraps a Dialer so that every byte written to the device is
// also written to a capture file. The file appears at its final path only
// when the transport is closed.
type CaptureDialer struct {
	next ports.Dialer
	path string
}

// NewCaptureDialer creates a CaptureDialer writing to path.
func NewCaptureDialer(next ports.Dialer, path string) *CaptureDialer {
	return &CaptureDialer{next: next, path: path}
}

// Dial opens the underlying transport and the temporary capture file.
func (d *CaptureDialer) Dial(cfg ports.LineConfig) (ports.Transport, error) {
	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("capture dir: %w", err)
		}
	}
	tmp := d.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("capture file: %w", err)
	}

	t, err := d.next.Dial(cfg)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, err
	}
	return &captureTransport{next: t, file: f, tmp: tmp, path: d.path}, nil
}

// Path returns the final capture path.
func (d *CaptureDialer) Path() string {
	return d.path
}

type captureTransport struct {
	next ports.Transport
	file *os.File
	tmp  string
	path string
	err  error
}

// Write records only what the device accepted.
func (c *captureTransport) Write(p []byte) (int, error) {
	n, err := c.next.Write(p)
	if n > 0 && c.err == nil {
		_, c.err = c.file.Write(p[:n])
	}
	return n, err
}

func (c *captureTransport) Flush() error {
	return c.next.Flush()
}

// Close closes the device, then moves the capture into place atomically.
func (c *captureTransport) Close() error {
	closeErr := c.next.Close()

	err := c.err
	if err == nil {
		err = c.file.Sync()
	}
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(c.tmp, c.path)
	}
	if err != nil {
		err = fmt.Errorf("capture %s: %w", c.path, err)
	}
	return errors.Join(closeErr, err)
}

var _ ports.Dialer = (*CaptureDialer)(nil)
