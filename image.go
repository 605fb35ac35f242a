package gif

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/deepteams/gif/animation"
	"github.com/deepteams/gif/internal/pool"
)

func init() {
	image.RegisterFormat("gif", "GIF8?a", Decode, DecodeConfig)
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a GIF image from r and returns its first frame as an
// *image.RGBA. Pixels that the first frame leaves transparent are black.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("gif: reading data: %w", err)
	}

	var d Decoder
	scratch := pool.Get(RequiredScratchSize(ModeSafe))
	defer pool.Put(scratch)
	if err := d.Init(data, scratch); err != nil {
		return nil, err
	}

	w, h := d.Info()
	buf := make([]byte, w*h*3)
	if _, err := d.NextFrame(buf); err != nil {
		if err == io.EOF {
			return nil, &Error{Kind: KindNoFrame, Msg: "no image frames found"}
		}
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rgbToRGBA(buf, img)
	return img, nil
}

// DecodeConfig returns the colour model and canvas dimensions of a GIF
// image without decoding any pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("gif: reading data: %w", err)
	}

	var d Decoder
	scratch := pool.Get(RequiredScratchSize(ModeSafe))
	defer pool.Put(scratch)
	if err := d.Init(data, scratch); err != nil {
		return image.Config{}, err
	}

	w, h := d.Info()
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      w,
		Height:     h,
	}, nil
}

// DecodeAll reads a GIF from r and decodes one full pass of its animation:
// every frame composited onto the canvas in order, with delays, offsets
// and disposal methods. The reported loop count is the stream's, even
// though only one pass is decoded.
func DecodeAll(r io.Reader) (*animation.Animation, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("gif: reading data: %w", err)
	}

	var d Decoder
	scratch := pool.Get(RequiredScratchSize(ModeSafe))
	defer pool.Put(scratch)
	if err := d.Init(data, scratch); err != nil {
		return nil, err
	}

	w, h := d.Info()
	buf := make([]byte, w*h*3)
	anim := &animation.Animation{
		CanvasWidth:  w,
		CanvasHeight: h,
	}

	for {
		delay, err := d.NextFrame(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(anim.Frames) == 0 {
			// Capture the stream's loop count, then pin looping off so a
			// single pass ends at the trailer.
			anim.LoopCount = d.LoopCount()
			d.SetLoopCount(0)
		}

		x, y, fw, fh := d.FrameBounds()
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		rgbToRGBA(buf, img)
		anim.Frames = append(anim.Frames, animation.Frame{
			Image:   img,
			Delay:   time.Duration(delay) * time.Millisecond,
			Bounds:  image.Rect(x, y, x+fw, y+fh),
			Dispose: animation.DisposeMethod(d.FrameDisposal()),
		})
	}

	if len(anim.Frames) == 0 {
		return nil, &Error{Kind: KindNoFrame, Msg: "no image frames found"}
	}
	return anim, nil
}

// rgbToRGBA expands packed 24-bit RGB into the image's RGBA pixels with
// full opacity.
func rgbToRGBA(rgb []byte, img *image.RGBA) {
	for i, o := 0, 0; i+3 <= len(rgb); i, o = i+3, o+4 {
		img.Pix[o+0] = rgb[i+0]
		img.Pix[o+1] = rgb[i+1]
		img.Pix[o+2] = rgb[i+2]
		img.Pix[o+3] = 0xFF
	}
}
