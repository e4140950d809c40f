package testutil

import "github.com/bft-labs/vtcheck/internal/ports"

// Dialer hands out a fixed Transport and remembers the requested config.
type Dialer struct {
	Transport ports.Transport
	Err       error

	Dials  int
	Config ports.LineConfig
}

// Dial returns Transport or Err.
func (d *Dialer) Dial(cfg ports.LineConfig) (ports.Transport, error) {
	d.Dials++
	d.Config = cfg
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Transport, nil
}
