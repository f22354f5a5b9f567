// Package video wraps the external ffmpeg/ffprobe/yt-dlp binaries for
// metadata probing, frame extraction and video acquisition.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ivlev/vid2sprite/internal/timecode"
)

// Probe extracts video metadata using ffprobe.
func Probe(ctx context.Context, path string) (timecode.Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return timecode.Metadata{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(path, out)
}

// ffprobe reports numeric fields as strings in its JSON output.
type probeData struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	RFrameRate string `json:"r_frame_rate"`
	NBFrames   string `json:"nb_frames"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func parseProbeOutput(path string, raw []byte) (timecode.Metadata, error) {
	var data probeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return timecode.Metadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var stream *probeStream
	for i := range data.Streams {
		if data.Streams[i].CodecType == "video" {
			stream = &data.Streams[i]
			break
		}
	}
	if stream == nil {
		return timecode.Metadata{}, fmt.Errorf("no video stream in %s", path)
	}

	fps, err := parseFrameRate(stream.RFrameRate)
	if err != nil {
		return timecode.Metadata{}, err
	}

	duration, _ := strconv.ParseFloat(data.Format.Duration, 64)
	reported, _ := strconv.Atoi(stream.NBFrames)

	return timecode.Metadata{
		Path:       path,
		Duration:   duration,
		FPS:        fps,
		FrameCount: timecode.FrameCount(reported, duration, fps),
		Width:      stream.Width,
		Height:     stream.Height,
	}, nil
}

// parseFrameRate handles ffprobe rate strings like "30/1" and "30000/1001".
func parseFrameRate(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty frame rate")
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("frame rate %q has zero denominator", s)
		}
		return n / d, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	return f, nil
}
