package gif

import (
	"errors"
	"fmt"

	"github.com/deepteams/gif/internal/bitio"
	"github.com/deepteams/gif/internal/container"
	"github.com/deepteams/gif/internal/lzw"
)

// Compile-time decoding limits. They bound the scratch buffer size, so a
// caller can size its memory once and reject any file that exceeds them.
const (
	// MaxWidth is the largest supported canvas width in pixels.
	MaxWidth = 480
	// MaxHeight is the largest supported canvas height in pixels.
	MaxHeight = 480
	// MaxColors is the largest supported palette size.
	MaxColors = 256
	// MaxCodeSize is the widest LZW code in bits.
	MaxCodeSize = lzw.MaxCodeSize
)

// Mode selects the LZW string-table strategy.
type Mode int

const (
	// ModeSafe uses the compact chain-of-suffixes table. Smallest
	// scratch footprint.
	ModeSafe Mode = iota
	// ModeTurbo uses the flat offset+length table over an emission pool.
	// Faster expansion at the cost of a much larger scratch buffer.
	ModeTurbo
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSafe:
		return "safe"
	case ModeTurbo:
		return "turbo"
	default:
		return "unknown"
	}
}

// turboPoolSize is the emission-pool region for ModeTurbo: every pixel
// index emitted for a frame lands in the pool, so it must hold one full
// frame plus detection slack.
const turboPoolSize = lzw.PoolOverhead + MaxWidth*(MaxHeight+1)

// RequiredScratchSize returns the scratch buffer size Init requires for
// the given mode. It is a pure function of the package limits.
func RequiredScratchSize(mode Mode) int {
	n := bitio.WindowBytes + MaxWidth
	if mode == ModeTurbo {
		return n + lzw.TurboFixedBytes + turboPoolSize
	}
	return n + lzw.SafeBytes
}

// ErrorKind identifies the class of a decoding failure.
type ErrorKind int

const (
	// KindDecode is a malformed LZW stream or corrupt interior state.
	KindDecode ErrorKind = iota
	// KindInvalidParam is a nil or zero argument at the API boundary.
	KindInvalidParam
	// KindBadFile is a wrong signature, unexpected separator, or
	// malformed extension.
	KindBadFile
	// KindEarlyEOF is input exhausted before a required field.
	KindEarlyEOF
	// KindNoFrame is a request for a frame when none exists.
	KindNoFrame
	// KindBufferTooSmall is an under-sized scratch buffer at Init.
	KindBufferTooSmall
	// KindInvalidFrameDimensions is a zero dimension or a frame that
	// extends beyond the canvas.
	KindInvalidFrameDimensions
	// KindUnsupportedColorDepth is a palette larger than MaxColors.
	KindUnsupportedColorDepth
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindInvalidParam:
		return "invalid-param"
	case KindBadFile:
		return "bad-file"
	case KindEarlyEOF:
		return "early-eof"
	case KindNoFrame:
		return "no-frame"
	case KindBufferTooSmall:
		return "buffer-too-small"
	case KindInvalidFrameDimensions:
		return "invalid-frame-dimensions"
	case KindUnsupportedColorDepth:
		return "unsupported-color-depth"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by Decoder methods.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string { return "gif: " + e.Msg }

// ErrorCallback receives the kind and message of every error before the
// failing call returns. It is installed per decoder, never globally.
type ErrorCallback func(kind ErrorKind, msg string)

// Decoder is a streaming GIF decoder over caller-provided memory. All
// state lives in the struct and the scratch buffer bound at Init; no
// method allocates. A Decoder must not be copied after Init and is not
// safe for concurrent use; distinct decoders over distinct buffers are
// independent.
type Decoder struct {
	cur    container.Cursor
	reader bitio.CodeReader
	mode   Mode
	ready  bool

	// Canvas, fixed at Init.
	canvasWidth     int
	canvasHeight    int
	backgroundIndex byte
	globalPalette   []byte
	animStart       int

	// Per-frame geometry and graphic control.
	frameX, frameY          int
	frameWidth, frameHeight int
	interlaced              bool
	delayMS                 int
	disposal                int
	hasTransparency         bool
	transparentIndex        byte
	activePalette           []byte

	// Animation.
	loopCount    int
	loopCountSet bool

	// LZW tables; only the one matching mode is bound.
	safe    lzw.SafeTable
	turbo   lzw.TurboTable
	table   lzw.Table
	asm     lzw.Assembler
	lineBuf []byte

	// Compositing state for the frame being decoded.
	frameBuf   []byte
	curLine    int
	pass       int
	lineInPass int

	errCB ErrorCallback
}

// Init prepares the decoder for data using ModeSafe. See InitMode.
func (d *Decoder) Init(data, scratch []byte) error {
	return d.InitMode(data, scratch, ModeSafe)
}

// InitMode prepares the decoder to decode the complete GIF file in data.
// scratch must be at least RequiredScratchSize(mode) bytes and is owned
// by the decoder until Close; data must stay valid and unmodified for the
// decoder's lifetime. InitMode reads the header, the logical screen
// descriptor and the optional global colour table, and records the
// animation start position. An installed error callback survives
// re-initialisation.
func (d *Decoder) InitMode(data, scratch []byte, mode Mode) error {
	cb := d.errCB
	*d = Decoder{errCB: cb}

	if len(data) == 0 || scratch == nil {
		return d.fail(KindInvalidParam, "nil or empty source or scratch buffer")
	}
	if mode != ModeSafe && mode != ModeTurbo {
		return d.fail(KindInvalidParam, fmt.Sprintf("unknown mode %d", mode))
	}
	if need := RequiredScratchSize(mode); len(scratch) < need {
		return d.fail(KindBufferTooSmall,
			fmt.Sprintf("scratch buffer too small: have %d, need %d bytes", len(scratch), need))
	}

	// Carve the scratch into the per-component regions.
	window := scratch[:bitio.WindowBytes]
	line := scratch[bitio.WindowBytes : bitio.WindowBytes+MaxWidth]
	rest := scratch[bitio.WindowBytes+MaxWidth:]
	d.mode = mode
	if mode == ModeTurbo {
		d.turbo.Bind(rest[:lzw.TurboFixedBytes], rest[lzw.TurboFixedBytes:lzw.TurboFixedBytes+turboPoolSize])
		d.table = &d.turbo
	} else {
		d.safe.Bind(rest[:lzw.SafeBytes])
		d.table = &d.safe
	}

	d.cur.Reset(data)
	d.reader.Reset(&d.cur, window)
	d.lineBuf = line

	sd, err := container.ReadScreenDescriptor(&d.cur, MaxColors)
	if err != nil {
		return d.failFrom(err, KindBadFile)
	}
	if sd.Width == 0 || sd.Height == 0 || sd.Width > MaxWidth || sd.Height > MaxHeight {
		return d.fail(KindInvalidFrameDimensions,
			fmt.Sprintf("canvas %dx%d outside supported range", sd.Width, sd.Height))
	}

	d.canvasWidth = sd.Width
	d.canvasHeight = sd.Height
	d.backgroundIndex = sd.BackgroundIndex
	d.globalPalette = sd.GlobalPalette
	d.activePalette = sd.GlobalPalette
	d.animStart = d.cur.Pos()
	d.ready = true
	return nil
}

// Mode returns the LZW table strategy selected at Init.
func (d *Decoder) Mode() Mode { return d.mode }

// Info returns the canvas dimensions, or zeros before Init.
func (d *Decoder) Info() (width, height int) {
	return d.canvasWidth, d.canvasHeight
}

// LoopCount returns the animation loop count: -1 for infinite looping,
// 0 for a single play, n for n additional repetitions. A stream without a
// Netscape/Animexts extension plays once; the extension is consumed
// during the first NextFrame call, where a wire value of zero selects
// infinite looping.
func (d *Decoder) LoopCount() int { return d.loopCount }

// SetLoopCount overrides the animation loop count. Any later looping
// extension in the stream is then ignored.
func (d *Decoder) SetLoopCount(n int) {
	d.loopCount = n
	d.loopCountSet = true
}

// FrameBounds returns the geometry of the most recently decoded frame as
// x, y offsets and dimensions within the canvas.
func (d *Decoder) FrameBounds() (x, y, width, height int) {
	return d.frameX, d.frameY, d.frameWidth, d.frameHeight
}

// FrameDisposal returns the disposal method of the most recently decoded
// frame (0..3).
func (d *Decoder) FrameDisposal() int { return d.disposal }

// Rewind repositions the decoder at the first post-header byte so the
// animation plays again from its first frame. The loop count and all
// header state are preserved.
func (d *Decoder) Rewind() {
	if !d.ready {
		return
	}
	d.cur.SeekTo(d.animStart)
	d.reader.ClearFrameState()
}

// Close zeroes the decoder. The source and scratch buffers are the
// caller's to reclaim; nothing is held afterwards.
func (d *Decoder) Close() {
	*d = Decoder{}
}

// SetErrorCallback installs cb to receive (kind, message) for every error
// before the failing call returns, or nil to disable reporting. The
// decoder itself never writes to standard streams.
func (d *Decoder) SetErrorCallback(cb ErrorCallback) {
	d.errCB = cb
}

// fail builds a classified error and reports it through the callback.
func (d *Decoder) fail(kind ErrorKind, msg string) error {
	if d.errCB != nil {
		d.errCB(kind, msg)
	}
	return &Error{Kind: kind, Msg: msg}
}

// failFrom classifies an internal error into its public kind. Errors that
// are already classified pass through untouched.
func (d *Decoder) failFrom(err error, fallback ErrorKind) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind := fallback
	switch {
	case errors.Is(err, container.ErrEarlyEOF):
		kind = KindEarlyEOF
	case errors.Is(err, container.ErrBadSignature):
		kind = KindBadFile
	case errors.Is(err, container.ErrColorDepth):
		kind = KindUnsupportedColorDepth
	case errors.Is(err, lzw.ErrCorrupt):
		kind = KindDecode
	}
	return d.fail(kind, err.Error())
}
