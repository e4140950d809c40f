// Package escseq renders terminal escape sequences into exact output bytes.
//
// Two framings are supported: a simple escape (ESC followed by the body) and a
// control sequence (ESC '[' followed by the body). Bodies are never validated or
// interpreted, so the same input always produces the same bytes.
//
// # Usage
//
// Build raw framings directly:
//
//	escseq.Build(escseq.CSI, "2J")          // 1b 5b 32 4a
//	escseq.Build(escseq.SimpleEscape, "7")  // 1b 37
//
// Or use typed descriptors so call sites never hand-format parameters:
//
//	escseq.CUP(5, 10).Bytes()    // ESC [ 5 ; 1 0 H
//	escseq.SGR(48, 5, 200).Bytes() // ESC [ 4 8 ; 5 ; 2 0 0 m
//	escseq.DECSC().Bytes()       // ESC 7
package escseq
