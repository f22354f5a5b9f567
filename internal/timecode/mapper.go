// Package timecode is the single source of truth for the relationship
// between timeline positions and discrete frame indices. No other package
// recomputes this mapping.
package timecode

import (
	"errors"
	"math"
)

// ErrInvalidRate is returned when a non-positive frame rate is supplied.
var ErrInvalidRate = errors.New("frame rate must be positive")

// frameEpsilon absorbs float64 rounding in timestamp*fps. For rates like
// 29.97 the product frame/fps*fps can land one ULP below the whole frame
// number and a bare floor would drift down a full frame on round-trip.
const frameEpsilon = 1e-9

// TimeToFrame converts a timestamp in seconds to a frame index:
// floor(timestamp * fps). The mapping is lossy; many timestamps share one
// frame index.
func TimeToFrame(timestamp, fps float64) (int, error) {
	if fps <= 0 {
		return 0, ErrInvalidRate
	}
	return int(math.Floor(timestamp*fps + frameEpsilon)), nil
}

// FrameToTime converts a frame index back to its timestamp in seconds.
// TimeToFrame(FrameToTime(f, fps), fps) == f for all f >= 0.
func FrameToTime(frame int, fps float64) (float64, error) {
	if fps <= 0 {
		return 0, ErrInvalidRate
	}
	return float64(frame) / fps, nil
}
