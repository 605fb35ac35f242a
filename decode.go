package gif

import (
	"errors"
	"fmt"
	"io"

	"github.com/deepteams/gif/internal/bitio"
	"github.com/deepteams/gif/internal/container"
	"github.com/deepteams/gif/internal/lzw"
)

// Frame disposal methods, as carried by the graphic control extension.
const (
	// DisposalNone leaves the handling of the frame region unspecified.
	DisposalNone = 0
	// DisposalKeep keeps the frame's pixels in place for the next frame.
	DisposalKeep = 1
	// DisposalBackground restores the frame region to the background
	// colour before the next frame.
	DisposalBackground = 2
	// DisposalPrevious restores the frame region to its previous content
	// before the next frame.
	DisposalPrevious = 3
)

// NextFrame decodes the next animation frame into frame, which must hold
// at least canvasWidth*canvasHeight*3 bytes of 24-bit RGB. It returns the
// frame's display delay in milliseconds, io.EOF once the animation has
// finished (honouring the loop count; a trailer with loops remaining
// rewinds and decodes the first frame again), or a classified *Error.
//
// Transparent pixels whose frame does not use background disposal leave
// the destination bytes untouched: the caller is expected to pass a
// buffer still holding the previous frame (or its chosen background), as
// the decoder never clears the output buffer itself.
func (d *Decoder) NextFrame(frame []byte) (delayMS int, err error) {
	if !d.ready {
		return 0, d.fail(KindInvalidParam, "decoder not initialised")
	}
	if frame == nil {
		return 0, d.fail(KindInvalidParam, "nil frame buffer")
	}
	if need := d.canvasWidth * d.canvasHeight * 3; len(frame) < need {
		return 0, d.fail(KindInvalidParam,
			fmt.Sprintf("frame buffer too small: have %d, need %d bytes", len(frame), need))
	}

	// Graphic control applies to the one image that follows it.
	d.delayMS = 0
	d.disposal = DisposalNone
	d.hasTransparency = false
	d.transparentIndex = 0

	rewound := false
	for {
		if d.cur.AtEnd() {
			if !d.loopAgain() {
				return 0, io.EOF
			}
			if rewound {
				return 0, d.fail(KindNoFrame, "no image data in stream")
			}
			rewound = true
			continue
		}
		sep, _ := d.cur.ReadByte()
		switch sep {
		case container.TrailerMarker:
			if !d.loopAgain() {
				return 0, io.EOF
			}
			if rewound {
				return 0, d.fail(KindNoFrame, "no image data in stream")
			}
			rewound = true
		case container.ExtensionIntroducer:
			if err := d.readExtension(); err != nil {
				return 0, d.failFrom(err, KindBadFile)
			}
		case container.ImageSeparator:
			if err := d.decodeFrame(frame); err != nil {
				return 0, err
			}
			return d.delayMS, nil
		default:
			return 0, d.fail(KindBadFile, fmt.Sprintf("unexpected separator 0x%02X", sep))
		}
	}
}

// loopAgain consumes one remaining repetition and rewinds, or reports
// that the animation is done.
func (d *Decoder) loopAgain() bool {
	if d.loopCount == -1 || d.loopCount > 0 {
		if d.loopCount > 0 {
			d.loopCount--
		}
		d.Rewind()
		return true
	}
	return false
}

// readExtension dispatches on the extension label. Comment, plain text
// and unrecognised extensions are discarded.
func (d *Decoder) readExtension() error {
	label, err := d.cur.ReadByte()
	if err != nil {
		return err
	}
	switch label {
	case container.GraphicControlLabel:
		gc, err := container.ReadGraphicControl(&d.cur)
		if err != nil {
			return err
		}
		d.delayMS = gc.DelayMS
		d.disposal = gc.Disposal
		d.hasTransparency = gc.HasTransparency
		d.transparentIndex = gc.TransparentIndex
		return nil
	case container.ApplicationLabel:
		loop, ok, err := container.ReadLoopCount(&d.cur)
		if err != nil {
			return err
		}
		// Latch the loop count once; the same extension is re-read after
		// every rewind and must not refill repetitions already spent.
		// A wire value of zero means loop forever.
		if ok && !d.loopCountSet {
			if loop == 0 {
				d.loopCount = -1
			} else {
				d.loopCount = loop
			}
			d.loopCountSet = true
		}
		return nil
	default:
		return container.DiscardSubBlocks(&d.cur)
	}
}

// decodeFrame parses one image descriptor and decodes its LZW data into
// the output buffer.
func (d *Decoder) decodeFrame(frame []byte) error {
	id, err := container.ReadImageDescriptor(&d.cur, MaxColors)
	if err != nil {
		return d.failFrom(err, KindBadFile)
	}
	if id.Width == 0 || id.Height == 0 {
		return d.fail(KindInvalidFrameDimensions, "frame has zero width or height")
	}
	if id.X+id.Width > d.canvasWidth || id.Y+id.Height > d.canvasHeight {
		return d.fail(KindInvalidFrameDimensions,
			fmt.Sprintf("frame %dx%d at (%d,%d) extends beyond %dx%d canvas",
				id.Width, id.Height, id.X, id.Y, d.canvasWidth, d.canvasHeight))
	}

	d.frameX, d.frameY = id.X, id.Y
	d.frameWidth, d.frameHeight = id.Width, id.Height
	d.interlaced = id.Interlaced()
	if id.LocalPalette != nil {
		d.activePalette = id.LocalPalette
	} else {
		d.activePalette = d.globalPalette
	}
	if d.activePalette == nil {
		return d.fail(KindBadFile, "frame has no colour table")
	}

	minCode, err := d.cur.ReadByte()
	if err != nil {
		return d.failFrom(err, KindEarlyEOF)
	}
	if minCode < 2 || int(minCode) >= MaxCodeSize {
		return d.fail(KindDecode, fmt.Sprintf("bad LZW minimum code size %d", minCode))
	}

	d.frameBuf = frame
	d.curLine = 0
	d.pass = 0
	d.lineInPass = 0
	d.asm.Reset(d.lineBuf, d.frameWidth, d)

	if err := d.decodeImage(int(minCode)); err != nil {
		d.frameBuf = nil
		return d.failFrom(err, KindDecode)
	}
	d.frameBuf = nil
	return nil
}

// decodeImage runs the LZW code loop for one frame. The loop owns the
// code-width and next-code bookkeeping; string expansion lives in the
// bound table. A mid-stream clear code restarts the segment from the
// initial state.
func (d *Decoder) decodeImage(minCodeSize int) error {
	if err := d.reader.BeginFrame(); err != nil {
		return err
	}

	clear := uint16(1) << uint(minCodeSize)
	eoi := clear + 1

	var (
		codeSize   int
		nextLim    uint16
		next       uint16
		old        uint16
		newSegment = true
	)

	for {
		if newSegment {
			codeSize = minCodeSize + 1
			nextLim = 1 << uint(codeSize)
			next = eoi + 1
			d.reader.SetCodeSize(codeSize)
			d.table.Reset(clear)

			code, err := d.reader.ReadCode()
			for err == nil && code == clear {
				code, err = d.reader.ReadCode()
			}
			if err != nil {
				if errors.Is(err, bitio.ErrStreamEnd) {
					return d.finishFrame()
				}
				return err
			}
			if code == eoi {
				return d.finishFrame()
			}
			if code >= clear {
				return lzw.ErrCorrupt
			}
			if err := d.table.First(code, &d.asm); err != nil {
				return err
			}
			old = code
			newSegment = false
			continue
		}

		code, err := d.reader.ReadCode()
		if err != nil {
			if errors.Is(err, bitio.ErrStreamEnd) {
				return d.finishFrame()
			}
			return err
		}
		if code == eoi {
			return d.finishFrame()
		}
		if code == clear {
			newSegment = true
			continue
		}

		if err := d.table.Step(code, old, next, &d.asm); err != nil {
			return err
		}
		if next < lzw.TableEntries {
			next++
		}
		if next >= nextLim && codeSize < MaxCodeSize {
			codeSize++
			nextLim <<= 1
			d.reader.SetCodeSize(codeSize)
		}
		old = code
	}
}

// finishFrame skips any sub-block bytes trailing the end-of-information
// code, up to the chain's zero-length terminator.
func (d *Decoder) finishFrame() error {
	if !d.reader.EndOfFrame() {
		return container.DiscardSubBlocks(&d.cur)
	}
	return nil
}
