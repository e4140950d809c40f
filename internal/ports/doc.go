// Package ports defines the interfaces (ports) that connect the harness core
// to infrastructure adapters.
//
// Ports are the boundaries between the test battery and the outside world.
// They describe what the core needs from a serial line and an operator
// console without saying how those needs are met.
//
// # Port Interfaces
//
//   - [Transport]: Writes bytes to the device and drains them
//   - [Dialer]: Opens a Transport with a programmed line discipline
//   - [Console]: Reads operator choices and acknowledgements, prints messages
//   - [Sleeper]: Blocks for a pacing delay
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app, internal/catalog, internal/pacing)
// depends only on these interfaces. Infrastructure adapters
// (internal/adapters) implement them with a serial port, readline and
// zerolog.
package ports
