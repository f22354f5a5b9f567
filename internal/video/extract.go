package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FramePath builds the default output name for a frame extracted from
// videoPath at the given timestamp: {stem}_{timestamp:.3f}.png in dir.
func FramePath(dir, videoPath string, timestamp float64) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(dir, fmt.Sprintf("%s_%.3f.png", stem, timestamp))
}

// ExtractFrame extracts a single frame at the given timestamp to outPath,
// creating parent directories as needed.
func ExtractFrame(ctx context.Context, videoPath string, timestamp float64, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract at %.3fs: %v, output: %s", timestamp, err, out)
	}
	return nil
}

// ExtractFrames extracts frames at multiple timestamps into outDir as
// frame_0000.png, frame_0001.png, ... The returned paths follow the order
// of times, which is the row-major placement order downstream. workers
// caps the number of concurrent ffmpeg processes; <1 means NumCPU.
func ExtractFrames(ctx context.Context, videoPath string, times []float64, outDir string, workers int) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	paths := make([]string, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, t := range times {
		t := t
		paths[i] = filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", i))
		out := paths[i]
		g.Go(func() error {
			return ExtractFrame(gctx, videoPath, t, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
