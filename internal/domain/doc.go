// Package domain contains the error taxonomy shared by every vtcheck layer.
//
// It has no dependencies on infrastructure concerns (serial ports, consoles,
// logging) so any package can import it without pulling in adapters.
//
// # Error classes
//
//   - [ErrStartupTransport]: the transport could not be opened or configured.
//     Fatal; the process exits non-zero without retrying.
//   - [ErrRuntimeTransport]: a write or flush failed while a case was running.
//     Fatal for the run; propagated to the top unchanged.
//   - [ErrInvalidSelection]: the operator entered an unknown menu key.
//     Recovered locally; the harness stays at the menu.
package domain
