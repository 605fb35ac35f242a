// Package bitio implements the LZW code reader for GIF image data: it
// reassembles the length-prefixed sub-block chain into a contiguous window
// and extracts variable-width codes from a 32-bit little-endian
// accumulator over that window.
package bitio

import (
	"encoding/binary"
	"errors"

	"github.com/deepteams/gif/internal/container"
)

const (
	// ChunkSize is the maximum payload of a single GIF sub-block.
	ChunkSize = 255
	// WindowSize is the usable capacity of the reassembly window. Refills
	// stop once fewer than ChunkSize bytes of headroom remain, so a whole
	// sub-block always fits.
	WindowSize = 6 * ChunkSize
	// AccSlack pads the window region so the 32-bit accumulator reload
	// never reads past the valid tail. The slack bytes are kept zero.
	AccSlack = 4
	// WindowBytes is the scratch region size for one reader.
	WindowBytes = WindowSize + AccSlack
)

// ErrStreamEnd reports that the frame's sub-block chain was fully consumed
// before an end-of-information code was seen. Callers treat it as an
// implicit end of the frame's code stream.
var ErrStreamEnd = errors.New("gif: lzw code stream exhausted")

// CodeReader pulls variable-width LZW codes from a frame's sub-block
// chain. The chain is reassembled on demand into window; codes are
// extracted from a 32-bit accumulator loaded at the current read offset.
type CodeReader struct {
	cur    *container.Cursor
	window []byte // len == WindowBytes

	dataSize   int  // valid bytes in window
	readOff    int  // consumed bytes in window
	endOfFrame bool // zero-length terminator seen

	acc      uint32 // little-endian accumulator at window[readOff:]
	bitPos   int    // bits of acc already consumed
	codeSize int
	mask     uint32
}

// Reset binds the reader to a cursor and a scratch window of at least
// WindowBytes.
func (r *CodeReader) Reset(cur *container.Cursor, window []byte) {
	r.cur = cur
	r.window = window[:WindowBytes]
}

// BeginFrame clears the windowing state and performs the initial fill for
// a new frame's code stream. The cursor must be positioned at the first
// sub-block length byte.
func (r *CodeReader) BeginFrame() error {
	r.readOff = 0
	r.dataSize = 0
	r.endOfFrame = false
	r.bitPos = 0
	if err := r.fill(); err != nil {
		return err
	}
	r.loadAcc()
	return nil
}

// ClearFrameState drops any buffered window state, e.g. on rewind.
func (r *CodeReader) ClearFrameState() {
	r.readOff = 0
	r.dataSize = 0
	r.endOfFrame = false
}

// SetCodeSize sets the width in bits of subsequently read codes.
func (r *CodeReader) SetCodeSize(bits int) {
	r.codeSize = bits
	r.mask = 1<<bits - 1
}

// EndOfFrame reports whether the sub-block terminator has been consumed.
func (r *CodeReader) EndOfFrame() bool { return r.endOfFrame }

// ReadCode extracts the next code. When the accumulator runs low it
// advances the byte position, refills the window from the sub-block chain
// and reloads. Returns ErrStreamEnd once the chain is exhausted.
func (r *CodeReader) ReadCode() (uint16, error) {
	if r.bitPos+r.codeSize > 32 {
		r.readOff += r.bitPos >> 3
		r.bitPos &= 7
		if err := r.fill(); err != nil {
			return 0, err
		}
		if r.readOff >= r.dataSize {
			return 0, ErrStreamEnd
		}
		r.loadAcc()
	}
	code := uint16((r.acc >> uint(r.bitPos)) & r.mask)
	r.bitPos += r.codeSize
	return code, nil
}

func (r *CodeReader) loadAcc() {
	r.acc = binary.LittleEndian.Uint32(r.window[r.readOff:])
}

// fill compacts the unread tail to the start of the window and appends
// sub-block payloads until the window is nearly full or the chain's
// zero-length terminator is reached. A declared payload cut short by the
// end of input is an early-EOF error.
func (r *CodeReader) fill() error {
	if !r.endOfFrame {
		if r.readOff > 0 {
			n := r.dataSize - r.readOff
			if n > 0 {
				copy(r.window, r.window[r.readOff:r.dataSize])
			} else {
				// The accumulator ran into the zero slack of a chain cut
				// short before its terminator; nothing unread remains.
				n = 0
			}
			r.dataSize = n
			r.readOff = 0
		}
		for r.dataSize <= WindowSize-ChunkSize && !r.cur.AtEnd() {
			n, err := r.cur.ReadByte()
			if err != nil {
				return err
			}
			if n == 0 {
				r.endOfFrame = true
				break
			}
			blk, err := r.cur.ReadSlice(int(n))
			if err != nil {
				return err
			}
			copy(r.window[r.dataSize:], blk)
			r.dataSize += len(blk)
		}
	}
	for i := 0; i < AccSlack; i++ {
		r.window[r.dataSize+i] = 0
	}
	return nil
}
