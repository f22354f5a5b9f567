package timecode

import "math"

// Metadata describes a loaded video file. Derived once per video.
type Metadata struct {
	Path       string
	Duration   float64 // seconds
	FPS        float64
	FrameCount int
	Width      int
	Height     int
}

// FrameCount picks the authoritative frame count when the source reports
// one, and falls back to round(duration * fps) when it does not. The
// fallback never corrects a reported value.
func FrameCount(reported int, duration, fps float64) int {
	if reported > 0 {
		return reported
	}
	return int(math.Round(duration * fps))
}
