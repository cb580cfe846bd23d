// arcmap.go: package-wide constants for the arcmap library
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap

import "runtime"

const (
	// Version of the arcmap library.
	Version = "v0.1.0-dev"

	// n is the number of open-addressed slots per virtual bucket. With
	// every field a 64-bit word, hashes[n] + entries[n] + next take 15
	// words (120 bytes) per bucket; see bucket.go.
	n = 7

	// chunkSize is the number of source buckets a single resizer marker
	// covers.
	chunkSize = 8

	// minLoadFactorForResize is the load factor at and above which a
	// bucket chain that has run out of local slots asks the map to grow
	// instead of growing its own overflow chain further.
	minLoadFactorForResize = 0.5

	// depthThreshold is the minimum overflow-chain depth before a bucket
	// is willing to request a resize rather than allocate another
	// overflow link.
	depthThreshold = 1

	// outerCountMax bounds the transient per-cell load count; reaching it
	// aborts the process (see cell.go).
	outerCountMax = (1 << 20) - 1

	// ptrShift is kept only as a historical constant: the reference
	// design (see original_source/) shifts a compressed pointer by this
	// amount to share a 64-bit word with the outer count. This port does
	// not pack a pointer into an integer (see SPEC_FULL.md, "Go memory
	// model adaptation"), so ptrShift is not used in any arithmetic here;
	// it is retained so the configuration constants named by the
	// specification all have a named home.
	ptrShift = 4
)

func init() {
	// The reference design's Non-goals explicitly exclude 32-bit and
	// non-little-endian targets and address spaces wider than 48 bits.
	// Go gives us no portable way to inspect pointer width or endianness
	// at runtime the way the original's allocator hook does, so the
	// closest equivalent is a GOARCH allowlist at package init.
	switch runtime.GOARCH {
	case "amd64", "arm64":
	default:
		panic("arcmap: unsupported architecture " + runtime.GOARCH + " (requires a 64-bit little-endian target)")
	}
}
