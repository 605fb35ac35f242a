package gif

import "fmt"

// Interlaced frames store their rows in four passes; pass p covers rows
// interlaceOffset[p], interlaceOffset[p]+interlaceStride[p], ...
var (
	interlaceOffset = [4]int{0, 4, 2, 1}
	interlaceStride = [4]int{8, 8, 4, 2}
)

// FlushLine maps one assembled line of pixel indices through the active
// palette into the output canvas. It implements lzw.LineSink; the line
// assembler calls it each time frameWidth indices have accumulated.
//
// Transparent pixels are skipped unless the frame uses background
// disposal, in which case they take the background colour. Everything
// else is a straight palette lookup into 24-bit RGB.
func (d *Decoder) FlushLine(line []byte) error {
	y := d.curLine
	if d.interlaced {
		y = interlaceOffset[d.pass] + d.lineInPass*interlaceStride[d.pass]
		for y >= d.frameHeight && d.pass < 3 {
			d.pass++
			d.lineInPass = 0
			y = interlaceOffset[d.pass]
		}
		if y >= d.frameHeight {
			return d.fail(KindDecode, "interlaced row outside frame")
		}
		d.lineInPass++
	} else {
		if y >= d.frameHeight {
			return d.fail(KindDecode, "more pixel data than frame rows")
		}
		d.curLine++
	}

	pal := d.activePalette
	row := (d.frameY+y)*d.canvasWidth + d.frameX
	dst := d.frameBuf[row*3 : (row+d.frameWidth)*3]
	for i, idx := range line {
		if d.hasTransparency && idx == d.transparentIndex {
			if d.disposal == DisposalBackground {
				p := int(d.backgroundIndex) * 3
				if p+3 > len(pal) {
					return d.fail(KindDecode, "background index outside active palette")
				}
				copy(dst[i*3:i*3+3], pal[p:p+3])
			}
			continue
		}
		p := int(idx) * 3
		if p+3 > len(pal) {
			return d.fail(KindDecode,
				fmt.Sprintf("pixel index %d outside %d-colour palette", idx, len(pal)/3))
		}
		copy(dst[i*3:i*3+3], pal[p:p+3])
	}
	return nil
}
