package animation

import "time"

// Animation holds one decoded pass of an animated GIF.
type Animation struct {
	// Frames holds the ordered animation frames, each a full canvas.
	Frames []Frame

	// LoopCount is the stream's loop count: -1 for infinite looping,
	// 0 for a single play, n for n additional repetitions.
	LoopCount int

	// CanvasWidth is the canvas width in pixels.
	CanvasWidth int

	// CanvasHeight is the canvas height in pixels.
	CanvasHeight int
}

// TotalDuration returns the sum of all frame delays.
func (a *Animation) TotalDuration() time.Duration {
	var total time.Duration
	for i := range a.Frames {
		total += a.Frames[i].Delay
	}
	return total
}

// FrameAt returns the frame visible at time t into a single pass, or nil
// if the animation has no frames. Times past the end return the last
// frame.
func (a *Animation) FrameAt(t time.Duration) *Frame {
	if len(a.Frames) == 0 {
		return nil
	}
	var elapsed time.Duration
	for i := range a.Frames {
		elapsed += a.Frames[i].Delay
		if t < elapsed {
			return &a.Frames[i]
		}
	}
	return &a.Frames[len(a.Frames)-1]
}
