// Package catalog holds the fixed battery of terminal test vectors and the
// ordered registry the harness menu is built from.
//
// Every vector follows the same shape: clear the screen and home the cursor,
// emit a deterministic payload with pacing delays between atomic units, then
// block until the operator acknowledges what the device shows.
//
// Registry order is declaration order. It is the menu display order and the
// order "run all" executes in.
package catalog
