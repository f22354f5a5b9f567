package timecode

import (
	"errors"
	"testing"
)

func TestTimeToFrame(t *testing.T) {
	tests := []struct {
		timestamp float64
		fps       float64
		want      int
	}{
		{2.5, 30, 75},
		{0, 30, 0},
		{0.0333, 30, 0},
		{2.4999, 30, 74},
		{1.0, 29.97, 29},
		{10.0, 23.976, 239},
	}

	for _, tt := range tests {
		got, err := TimeToFrame(tt.timestamp, tt.fps)
		if err != nil {
			t.Fatalf("TimeToFrame(%v, %v) failed: %v", tt.timestamp, tt.fps, err)
		}
		if got != tt.want {
			t.Errorf("TimeToFrame(%v, %v) = %d, want %d", tt.timestamp, tt.fps, got, tt.want)
		}
	}
}

func TestFrameToTime(t *testing.T) {
	got, err := FrameToTime(75, 30)
	if err != nil {
		t.Fatalf("FrameToTime failed: %v", err)
	}
	if got != 2.5 {
		t.Errorf("FrameToTime(75, 30) = %v, want 2.5", got)
	}
}

func TestRoundTripNoDrift(t *testing.T) {
	// frame -> time -> frame must be exact, including non-terminating
	// rates such as NTSC 29.97.
	rates := []float64{23.976, 24, 25, 29.97, 30, 59.94, 60}
	frames := []int{0, 1, 2, 29, 30, 999, 1000, 123456}

	for _, fps := range rates {
		for _, f := range frames {
			ts, err := FrameToTime(f, fps)
			if err != nil {
				t.Fatalf("FrameToTime(%d, %v): %v", f, fps, err)
			}
			back, err := TimeToFrame(ts, fps)
			if err != nil {
				t.Fatalf("TimeToFrame(%v, %v): %v", ts, fps, err)
			}
			if back != f {
				t.Errorf("fps=%v: frame %d -> %v -> %d drifted", fps, f, ts, back)
			}
		}
	}
}

func TestInvalidRate(t *testing.T) {
	for _, fps := range []float64{0, -1, -29.97} {
		if _, err := TimeToFrame(1.0, fps); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("TimeToFrame fps=%v: want ErrInvalidRate, got %v", fps, err)
		}
		if _, err := FrameToTime(10, fps); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("FrameToTime fps=%v: want ErrInvalidRate, got %v", fps, err)
		}
	}
}

func TestFrameCountFallback(t *testing.T) {
	// Reported counts are authoritative, even when duration*fps disagrees.
	if got := FrameCount(450, 10.0, 30); got != 450 {
		t.Errorf("FrameCount(reported) = %d, want 450", got)
	}
	// Fallback rounds rather than truncates.
	if got := FrameCount(0, 10.0, 29.97); got != 300 {
		t.Errorf("FrameCount(fallback) = %d, want 300", got)
	}
	if got := FrameCount(0, 10.0, 30); got != 300 {
		t.Errorf("FrameCount(fallback, exact) = %d, want 300", got)
	}
}
