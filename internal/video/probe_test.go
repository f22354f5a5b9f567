package video

import (
	"math"
	"testing"
)

const probeFixture = `{
  "streams": [
    {"codec_type": "audio", "codec_name": "aac"},
    {"codec_type": "video", "r_frame_rate": "30000/1001", "nb_frames": "300", "width": 1920, "height": 1080}
  ],
  "format": {"duration": "10.010000"}
}`

func TestParseProbeOutput(t *testing.T) {
	meta, err := parseProbeOutput("clip.mp4", []byte(probeFixture))
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}

	if meta.Path != "clip.mp4" {
		t.Errorf("Path = %q", meta.Path)
	}
	if math.Abs(meta.FPS-29.97002997) > 1e-6 {
		t.Errorf("FPS = %v, want ~29.97", meta.FPS)
	}
	if meta.FrameCount != 300 {
		t.Errorf("FrameCount = %d, want reported 300", meta.FrameCount)
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", meta.Width, meta.Height)
	}
	if math.Abs(meta.Duration-10.01) > 1e-9 {
		t.Errorf("Duration = %v, want 10.01", meta.Duration)
	}
}

func TestParseProbeOutputFrameCountFallback(t *testing.T) {
	fixture := `{
	  "streams": [{"codec_type": "video", "r_frame_rate": "30/1", "width": 640, "height": 480}],
	  "format": {"duration": "10.0"}
	}`

	meta, err := parseProbeOutput("clip.mp4", []byte(fixture))
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}
	if meta.FrameCount != 300 {
		t.Errorf("FrameCount = %d, want computed 300", meta.FrameCount)
	}
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	fixture := `{"streams": [{"codec_type": "audio"}], "format": {"duration": "5.0"}}`
	if _, err := parseProbeOutput("clip.mp4", []byte(fixture)); err == nil {
		t.Error("want error for missing video stream")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 25},
	}
	for _, tt := range tests {
		got, err := parseFrameRate(tt.in)
		if err != nil {
			t.Fatalf("parseFrameRate(%q) failed: %v", tt.in, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "x/1", "30/0", "abc"} {
		if _, err := parseFrameRate(bad); err == nil {
			t.Errorf("parseFrameRate(%q): want error", bad)
		}
	}
}

func TestFramePath(t *testing.T) {
	got := FramePath("frames", "/videos/run cycle.mp4", 2.5)
	want := "frames/run cycle_2.500.png"
	if got != want {
		t.Errorf("FramePath = %q, want %q", got, want)
	}
}
