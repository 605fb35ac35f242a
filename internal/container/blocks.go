package container

import "bytes"

// ScreenDescriptor holds the parsed GIF header and logical screen
// descriptor, plus the optional global colour table.
type ScreenDescriptor struct {
	Width           int
	Height          int
	BackgroundIndex byte
	GlobalPalette   []byte // RGB triples, view into the source; nil if absent
}

var (
	sigGIF = []byte("GIF")
	ver87a = []byte("87a")
	ver89a = []byte("89a")
)

// ReadScreenDescriptor parses the 13-byte header block and the optional
// global colour table. maxColors bounds the accepted palette size; larger
// tables return ErrColorDepth. The pixel-aspect-ratio byte is ignored.
func ReadScreenDescriptor(c *Cursor, maxColors int) (ScreenDescriptor, error) {
	hdr, err := c.ReadSlice(HeaderSize)
	if err != nil {
		return ScreenDescriptor{}, err
	}

	if !bytes.Equal(hdr[0:3], sigGIF) ||
		(!bytes.Equal(hdr[3:6], ver87a) && !bytes.Equal(hdr[3:6], ver89a)) {
		return ScreenDescriptor{}, ErrBadSignature
	}

	sd := ScreenDescriptor{
		Width:           int(hdr[6]) | int(hdr[7])<<8,
		Height:          int(hdr[8]) | int(hdr[9])<<8,
		BackgroundIndex: hdr[11],
	}

	packed := hdr[10]
	if packed&ColorTableFlag != 0 {
		size := 1 << ((packed & ColorTableSizeMask) + 1)
		if size > maxColors {
			return ScreenDescriptor{}, ErrColorDepth
		}
		sd.GlobalPalette, err = c.ReadSlice(size * 3)
		if err != nil {
			return ScreenDescriptor{}, err
		}
	}
	return sd, nil
}

// GraphicControl holds the fields of a graphic control extension.
type GraphicControl struct {
	DelayMS          int // wire value is hundredths of a second
	Disposal         int // 0..3
	HasTransparency  bool
	TransparentIndex byte
}

// ReadGraphicControl parses a graphic control extension body. The cursor
// must be positioned just after the 0xF9 label.
func ReadGraphicControl(c *Cursor) (GraphicControl, error) {
	body, err := c.ReadSlice(1 + GraphicControlBlockSize + 1)
	if err != nil {
		return GraphicControl{}, err
	}
	// body[0] is the block size (4), body[5] the terminator; both skipped.
	packed := body[1]
	return GraphicControl{
		Disposal:         int(packed>>DisposalShift) & DisposalMask,
		HasTransparency:  packed&TransparencyFlag != 0,
		DelayMS:          (int(body[2]) | int(body[3])<<8) * 10,
		TransparentIndex: body[4],
	}, nil
}

// ImageDescriptor holds a frame's geometry, its packed descriptor byte,
// and the optional local colour table.
type ImageDescriptor struct {
	X, Y          int
	Width, Height int
	Packed        byte
	LocalPalette  []byte // RGB triples, view into the source; nil if absent
}

// Interlaced reports whether the frame rows are stored in four-pass
// interlaced order.
func (d *ImageDescriptor) Interlaced() bool { return d.Packed&InterlaceFlag != 0 }

// ReadImageDescriptor parses an image descriptor. The cursor must be
// positioned just after the 0x2C separator.
func ReadImageDescriptor(c *Cursor, maxColors int) (ImageDescriptor, error) {
	body, err := c.ReadSlice(9)
	if err != nil {
		return ImageDescriptor{}, err
	}
	d := ImageDescriptor{
		X:      int(body[0]) | int(body[1])<<8,
		Y:      int(body[2]) | int(body[3])<<8,
		Width:  int(body[4]) | int(body[5])<<8,
		Height: int(body[6]) | int(body[7])<<8,
		Packed: body[8],
	}
	if d.Packed&ColorTableFlag != 0 {
		size := 1 << ((d.Packed & ColorTableSizeMask) + 1)
		if size > maxColors {
			return ImageDescriptor{}, ErrColorDepth
		}
		d.LocalPalette, err = c.ReadSlice(size * 3)
		if err != nil {
			return ImageDescriptor{}, err
		}
	}
	return d, nil
}

var (
	netscapeID = []byte("NETSCAPE2.0")
	animextsID = []byte("ANIMEXTS1.0")
)

// ReadLoopCount parses an application extension body, returning the
// animation loop count if the block is a Netscape or Animexts looping
// extension. ok is false for any other application extension; those are
// discarded either way. The cursor must be positioned just after the
// 0xFF label.
func ReadLoopCount(c *Cursor) (loop int, ok bool, err error) {
	size, err := c.ReadByte()
	if err != nil {
		return 0, false, err
	}
	if int(size) != ApplicationBlockSize {
		// Unknown shape; skip the declared block and its sub-blocks.
		c.Skip(int(size))
		return 0, false, DiscardSubBlocks(c)
	}

	id, err := c.ReadSlice(ApplicationBlockSize)
	if err != nil {
		return 0, false, err
	}
	if bytes.Equal(id, netscapeID) || bytes.Equal(id, animextsID) {
		subSize, err := c.ReadByte()
		if err != nil {
			return 0, false, err
		}
		if int(subSize) == NetscapeSubBlockSize {
			sub, err := c.ReadSlice(NetscapeSubBlockSize)
			if err != nil {
				return 0, false, err
			}
			if sub[0] == NetscapeSubBlockID {
				loop = int(sub[1]) | int(sub[2])<<8
				ok = true
			}
		} else {
			c.Skip(int(subSize))
		}
	}
	return loop, ok, DiscardSubBlocks(c)
}

// DiscardSubBlocks consumes a sub-block chain up to and including its
// zero-length terminator.
func DiscardSubBlocks(c *Cursor) error {
	for {
		size, err := c.ReadByte()
		if err != nil {
			return err
		}
		if size == 0 {
			return nil
		}
		if c.Remaining() < int(size) {
			c.Skip(int(size))
			return ErrEarlyEOF
		}
		c.Skip(int(size))
	}
}
