package lzw

import "encoding/binary"

// Scratch region sizes for TurboTable, in bytes. The pool region is sized
// by the caller from its canvas limits; PoolOverhead is the part of that
// region not available for emitted pixels.
const (
	TurboSymbolBytes = TableEntries * 4 // little-endian uint32 per slot
	TurboLengthBytes = TableEntries * 2 // little-endian uint16 per slot
	TurboFixedBytes  = TurboSymbolBytes + TurboLengthBytes

	// PoolOverhead reserves the root region at the front of the pool plus
	// slack for one maximal expansion detected past the frame edge.
	PoolOverhead = 2 * TableEntries
)

// Symbol word layout: low 23 bits are the offset of the entry's string in
// the pool, bit 23 flags a lazily appended suffix, and the top 8 bits hold
// that suffix byte.
const (
	offsetMask = 0x7FFFFF
	appendFlag = 0x800000
)

// TurboTable is the flat string-table representation: every byte emitted
// for the current frame is appended to a pool, and each slot stores an
// offset+length into it. A new entry usually inherits its parent's offset
// with the extra byte carried in the symbol word, so no prefix copy is
// needed at insert time; the string is materialised on first emission.
type TurboTable struct {
	symbols []byte // TableEntries uint32 LE
	lengths []byte // TableEntries uint16 LE
	pool    []byte // roots in [0,TableEntries), emissions after
	poolN   int
}

// Bind carves the table's arrays out of a scratch region of at least
// TurboFixedBytes and binds the emission pool. The pool must be at least
// PoolOverhead plus one frame of pixels.
func (t *TurboTable) Bind(scratch, pool []byte) {
	t.symbols = scratch[:TurboSymbolBytes]
	t.lengths = scratch[TurboSymbolBytes : TurboSymbolBytes+TurboLengthBytes]
	t.pool = pool
}

func (t *TurboTable) symbol(code uint16) uint32 {
	return binary.LittleEndian.Uint32(t.symbols[4*int(code):])
}

func (t *TurboTable) setSymbol(code uint16, v uint32) {
	binary.LittleEndian.PutUint32(t.symbols[4*int(code):], v)
}

func (t *TurboTable) length(code uint16) int {
	return int(binary.LittleEndian.Uint16(t.lengths[2*int(code):]))
}

func (t *TurboTable) setLength(code uint16, n int) {
	binary.LittleEndian.PutUint16(t.lengths[2*int(code):], uint16(n))
}

// Reset seeds the root bytes at the front of the pool, zeroes every other
// slot's length, and rewinds the emission cursor. Pool data emitted before
// a mid-stream clear is dead once the entries referencing it are gone, so
// the cursor restarts right after the root region.
func (t *TurboTable) Reset(clear uint16) {
	for i := uint16(0); i < clear; i++ {
		t.pool[i] = byte(i)
		t.setSymbol(i, uint32(i))
		t.setLength(i, 1)
	}
	for i := 2 * int(clear); i < len(t.lengths); i++ {
		t.lengths[i] = 0
	}
	t.poolN = TableEntries
}

// First emits a root code. The byte is also appended to the pool, which
// holds every index emitted for the frame; entries built on the root
// reference its slot in the root region.
func (t *TurboTable) First(code uint16, a *Assembler) error {
	if t.poolN >= len(t.pool) {
		return ErrCorrupt
	}
	t.pool[t.poolN] = byte(code)
	t.poolN++
	return a.WriteByte(byte(code))
}

// Step expands code into the assembler and records slot next.
func (t *TurboTable) Step(code, old, next uint16, a *Assembler) error {
	if code > next {
		return ErrCorrupt
	}

	start := t.poolN
	if code == next {
		// Self-referential case: materialise old's string, then append
		// its own first byte. The new entry points at this fresh copy.
		if err := t.materialize(old); err != nil {
			return err
		}
		if t.poolN >= len(t.pool) {
			return ErrCorrupt
		}
		t.pool[t.poolN] = t.pool[start]
		t.poolN++
		if next < TableEntries {
			t.setSymbol(next, uint32(start))
			t.setLength(next, t.poolN-start)
		}
	} else {
		if err := t.materialize(code); err != nil {
			return err
		}
		if next < TableEntries {
			// Inherit old's string by offset; the appended first byte
			// rides in the symbol word until the entry is emitted.
			t.setSymbol(next, t.symbol(old)|appendFlag|uint32(t.pool[start])<<24)
			t.setLength(next, t.length(old))
		}
	}
	return a.Write(t.pool[start:t.poolN])
}

// materialize appends the expansion of a known code to the pool. When the
// entry carries a lazily appended suffix it is written out too and the
// entry is re-pointed at the materialised copy, so inheriting entries
// always see a plain offset.
func (t *TurboTable) materialize(code uint16) error {
	ln := t.length(code)
	if ln == 0 {
		return ErrCorrupt
	}
	sym := t.symbol(code)
	off := int(sym & offsetMask)
	start := t.poolN
	if start+ln+1 > len(t.pool) {
		return ErrCorrupt
	}
	copy(t.pool[start:], t.pool[off:off+ln])
	t.poolN += ln
	if sym&appendFlag != 0 {
		t.pool[t.poolN] = byte(sym >> 24)
		t.poolN++
		t.setSymbol(code, uint32(start))
		t.setLength(code, ln+1)
	}
	return nil
}
