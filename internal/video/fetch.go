package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

// ProgressFunc receives ordered download status updates. Percent runs
// 0..100 and the sequence terminates at 100 on success.
type ProgressFunc func(percent float64, status string)

// Prefer H.264 (avc1) for compatibility - avoids AV1/VP9 hardware decode issues.
const formatPreference = "bestvideo[vcodec^=avc1]+bestaudio[ext=m4a]/bestvideo[vcodec^=avc]+bestaudio/best[vcodec^=avc1]/best"

var (
	progressRe    = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%`)
	destinationRe = regexp.MustCompile(`\[download\] Destination: (.+)`)
	mergeRe       = regexp.MustCompile(`\[Merger\] Merging formats into "(.+)"`)
	alreadyRe     = regexp.MustCompile(`\[download\] (.+) has already been downloaded`)
)

// fetchParser interprets yt-dlp's line-oriented output, tracking the
// destination path and forwarding progress updates.
type fetchParser struct {
	report ProgressFunc
	dest   string
}

func (p *fetchParser) parseLine(line string) {
	if m := progressRe.FindStringSubmatch(line); m != nil {
		if percent, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.report(percent, fmt.Sprintf("Downloading: %.1f%%", percent))
		}
	}
	if m := destinationRe.FindStringSubmatch(line); m != nil {
		p.dest = m[1]
	}
	if m := mergeRe.FindStringSubmatch(line); m != nil {
		p.dest = m[1]
		p.report(99.0, "Merging audio/video...")
	}
	if m := alreadyRe.FindStringSubmatch(line); m != nil {
		p.dest = m[1]
		p.report(100.0, "Already downloaded")
	}
}

// Fetch downloads a video via yt-dlp into destDir and returns the local
// file path. Progress lines from yt-dlp are parsed and forwarded to the
// progress callback; pass nil to ignore them.
func Fetch(ctx context.Context, url, destDir string, progress ProgressFunc) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	report := func(percent float64, status string) {
		if progress != nil {
			progress(percent, status)
		}
	}

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-f", formatPreference,
		"--merge-output-format", "mp4",
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--newline",
		"--no-playlist",
		url,
	)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return "", fmt.Errorf("yt-dlp start: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		pw.Close()
	}()

	parser := &fetchParser{report: report}
	scanner := bufio.NewScanner(pr)
	for scanner.Scan() {
		parser.parseLine(scanner.Text())
	}

	if err := <-waitErr; err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w", err)
	}
	if parser.dest == "" {
		return "", fmt.Errorf("could not determine downloaded file path")
	}

	report(100.0, "Complete")
	return parser.dest, nil
}
