package lzw

import "encoding/binary"

// Scratch region sizes for SafeTable, in bytes.
const (
	SafeParentBytes = TableEntries * 2 // little-endian uint16 per slot
	SafeSuffixBytes = TableEntries
	SafeStackBytes  = TableEntries // longest possible chain
	SafeBytes       = SafeParentBytes + SafeSuffixBytes + SafeStackBytes
)

// SafeTable is the compact string-table representation: each slot stores a
// parent code and the single byte it appends. Expansion walks the parent
// chain, collecting suffix bytes right to left on a stack.
type SafeTable struct {
	parents  []byte // TableEntries uint16 LE; Sentinel marks a root or unused slot
	suffixes []byte // TableEntries
	stack    []byte // reversal scratch, TableEntries
}

// Bind carves the table's arrays out of a scratch region of at least
// SafeBytes.
func (t *SafeTable) Bind(scratch []byte) {
	t.parents = scratch[:SafeParentBytes]
	t.suffixes = scratch[SafeParentBytes : SafeParentBytes+SafeSuffixBytes]
	t.stack = scratch[SafeParentBytes+SafeSuffixBytes : SafeBytes]
}

func (t *SafeTable) parent(code uint16) uint16 {
	return binary.LittleEndian.Uint16(t.parents[2*int(code):])
}

func (t *SafeTable) setParent(code, parent uint16) {
	binary.LittleEndian.PutUint16(t.parents[2*int(code):], parent)
}

// Reset seeds one root per palette index and marks every grown slot
// unused.
func (t *SafeTable) Reset(clear uint16) {
	for i := uint16(0); i < clear; i++ {
		t.setParent(i, Sentinel)
		t.suffixes[i] = byte(i)
	}
	for i := 2 * int(clear); i < len(t.parents); i++ {
		t.parents[i] = 0xFF
	}
}

// First emits a root code.
func (t *SafeTable) First(code uint16, a *Assembler) error {
	return a.WriteByte(byte(code))
}

// Step expands code into the assembler and records slot next.
func (t *SafeTable) Step(code, old, next uint16, a *Assembler) error {
	if code > next {
		return ErrCorrupt
	}

	var first byte
	var err error
	if code == next {
		// Self-referential case: the string is old's expansion followed
		// by its own first byte.
		first, err = t.emit(old, a)
		if err == nil {
			err = a.WriteByte(first)
		}
	} else {
		first, err = t.emit(code, a)
	}
	if err != nil {
		return err
	}

	if next < TableEntries {
		t.setParent(next, old)
		t.suffixes[next] = first
	}
	return nil
}

// emit expands one known code into the assembler and returns its first
// byte. Suffix bytes are written right to left into the stack, then
// copied out in order.
func (t *SafeTable) emit(code uint16, a *Assembler) (byte, error) {
	top := len(t.stack)
	for c := code; c != Sentinel; c = t.parent(c) {
		if top == 0 {
			return 0, ErrCorrupt
		}
		top--
		t.stack[top] = t.suffixes[c]
	}
	if top == len(t.stack) {
		return 0, ErrCorrupt
	}
	return t.stack[top], a.Write(t.stack[top:])
}
