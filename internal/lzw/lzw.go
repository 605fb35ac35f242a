// Package lzw implements the GIF flavour of LZW decompression: a
// variable-width code stream expanded through a string table seeded with
// one root code per palette index. Two interchangeable table
// representations are provided — SafeTable, a compact chain-of-suffixes
// model, and TurboTable, a flat offset+length model over an emission pool.
// Code-width and next-code bookkeeping belong to the caller; the tables
// only expand codes and record entries.
package lzw

import "errors"

const (
	// MaxCodeSize is the widest LZW code in bits.
	MaxCodeSize = 12
	// TableEntries is the number of slots in the string table.
	TableEntries = 1 << MaxCodeSize
	// Sentinel terminates a chain of parent links in SafeTable.
	Sentinel = 0xFFFF
)

// ErrCorrupt reports a code stream that references undefined table state
// or overruns the table's scratch bounds.
var ErrCorrupt = errors.New("gif: corrupt LZW stream")

// LineSink receives completed scan lines of pixel indices.
type LineSink interface {
	FlushLine(line []byte) error
}

// Assembler gathers emitted pixel indices into scan lines and hands each
// completed line to the sink. A single code expansion may span several
// lines; Write splits it at line boundaries.
type Assembler struct {
	line  []byte
	width int
	n     int
	sink  LineSink
}

// Reset binds the assembler to a line buffer of at least width bytes and
// a sink for completed lines.
func (a *Assembler) Reset(line []byte, width int, sink LineSink) {
	a.line = line
	a.width = width
	a.n = 0
	a.sink = sink
}

// WriteByte appends one pixel index, flushing if it completes a line.
func (a *Assembler) WriteByte(b byte) error {
	a.line[a.n] = b
	a.n++
	if a.n >= a.width {
		a.n = 0
		return a.sink.FlushLine(a.line[:a.width])
	}
	return nil
}

// Write appends a run of pixel indices, flushing each completed line.
func (a *Assembler) Write(p []byte) error {
	for len(p) > 0 {
		c := copy(a.line[a.n:a.width], p)
		a.n += c
		p = p[c:]
		if a.n >= a.width {
			a.n = 0
			if err := a.sink.FlushLine(a.line[:a.width]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pending returns the number of indices buffered in the current line.
func (a *Assembler) Pending() int { return a.n }

// Table is the abstract LZW string table. The caller drives the decode
// loop: it filters clear and end-of-information codes, tracks the next
// free slot, and grows the code width. Implementations hide their
// representation entirely.
type Table interface {
	// Reset re-seeds the root entries for a stream whose clear code is
	// clear and invalidates all grown entries. Called at frame start and
	// on every mid-stream clear code.
	Reset(clear uint16)

	// First emits the first code after a clear, which the caller has
	// verified to be a root.
	First(code uint16, a *Assembler) error

	// Step emits the expansion of one subsequent code and, when
	// next < TableEntries, records slot next as the expansion of old
	// followed by the first byte of the current emission. code == next is
	// the self-referential case; code > next is corrupt input.
	Step(code, old, next uint16, a *Assembler) error
}
