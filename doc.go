// Package gif provides a pure Go streaming decoder for the GIF87a and
// GIF89a image formats, designed around caller-provided memory.
//
// The core type is Decoder: it is initialised against a complete GIF file
// held in memory plus a scratch buffer sized by RequiredScratchSize, and
// then produces one RGB frame per NextFrame call without allocating. This
// makes the decoder usable in embedded and allocation-sensitive settings;
// the caller owns every buffer.
//
// The package supports:
//   - GIF87a and GIF89a
//   - Animation: frame delays, Netscape/Animexts loop counts, rewind
//   - Transparency and background disposal
//   - Interlaced frames
//   - Global and per-frame local colour tables
//   - Two LZW string-table strategies (ModeSafe, ModeTurbo)
//
// Basic usage against caller-owned buffers:
//
//	var d gif.Decoder
//	scratch := make([]byte, gif.RequiredScratchSize(gif.ModeSafe))
//	if err := d.Init(data, scratch); err != nil { ... }
//	w, h := d.Info()
//	frame := make([]byte, w*h*3)
//	for {
//		delay, err := d.NextFrame(frame)
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// For convenience the package also registers itself with the standard
// library's image package, so image.Decode can transparently read GIF
// files; Decode, DecodeConfig and DecodeAll wrap the core decoder with
// internally managed buffers.
package gif
