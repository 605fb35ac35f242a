// Package container defines constants and parsing primitives for the GIF
// data stream: the logical screen descriptor, colour tables, extension
// blocks, image descriptors, and the length-prefixed sub-block chains that
// carry extension and LZW payloads.
package container

import "errors"

// Block separators. Every top-level block in a GIF file starts with one of
// these bytes (after the header and the optional global colour table).
const (
	ExtensionIntroducer = 0x21 // '!' extension block follows
	ImageSeparator      = 0x2C // ',' image descriptor follows
	TrailerMarker       = 0x3B // ';' end of data stream
)

// Extension labels (the byte following an extension introducer).
const (
	PlainTextLabel      = 0x01
	GraphicControlLabel = 0xF9
	CommentLabel        = 0xFE
	ApplicationLabel    = 0xFF
)

// Packed-field bit masks shared by the logical screen descriptor and the
// image descriptor.
const (
	ColorTableFlag     = 0x80 // bit 7: a colour table follows the descriptor
	InterlaceFlag      = 0x40 // bit 6 (image descriptor): four-pass interlace
	ColorTableSizeMask = 0x07 // low 3 bits: table size = 1 << (bits + 1)
)

// Graphic control extension packed-field layout.
const (
	TransparencyFlag = 0x01
	DisposalShift    = 2
	DisposalMask     = 0x03
)

// Structure sizes.
const (
	HeaderSize              = 13 // signature + version + logical screen descriptor
	SignatureSize           = 6  // "GIF87a" / "GIF89a"
	GraphicControlBlockSize = 4
	ApplicationBlockSize    = 11 // identifier (8) + authentication code (3)
	NetscapeSubBlockSize    = 3  // sub-block ID + 16-bit loop count
	NetscapeSubBlockID      = 1
)

// Common errors.
var (
	ErrEarlyEOF     = errors.New("gif: unexpected end of data")
	ErrBadSignature = errors.New("gif: invalid GIF signature")
	ErrBadBlock     = errors.New("gif: malformed block")
	ErrColorDepth   = errors.New("gif: colour table exceeds configured maximum")
)
