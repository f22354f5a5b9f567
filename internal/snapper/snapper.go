// Package snapper wraps the external pixel-snapper binary, an opaque
// image-to-image filter that snaps AI-generated output onto a clean pixel
// grid with a limited palette.
package snapper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// DefaultExecutable is the binary name looked up in PATH.
const DefaultExecutable = "pixel-snapper"

// Snapper invokes the pixel-snapper CLI.
type Snapper struct {
	executable string
	log        hclog.Logger
}

// New creates a Snapper. An empty executable selects the default name; if
// it is not in PATH, common install locations are tried.
func New(executable string, logger hclog.Logger) *Snapper {
	if executable == "" {
		executable = DefaultExecutable
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if _, err := exec.LookPath(executable); err != nil {
		home, _ := os.UserHomeDir()
		for _, candidate := range []string{
			filepath.Join(home, ".cargo", "bin", DefaultExecutable),
			filepath.Join("/usr/local/bin", DefaultExecutable),
		} {
			if _, err := os.Stat(candidate); err == nil {
				executable = candidate
				break
			}
		}
	}

	return &Snapper{executable: executable, log: logger}
}

// Available reports whether the binary can be invoked.
func (s *Snapper) Available() bool {
	if _, err := exec.LookPath(s.executable); err == nil {
		return true
	}
	_, err := os.Stat(s.executable)
	return err == nil
}

// Process quantizes inputPath into outputPath with the given palette size.
func (s *Snapper) Process(ctx context.Context, inputPath, outputPath string, paletteSize int) error {
	if !s.Available() {
		return fmt.Errorf("%s not found; install from https://github.com/Hugo-Dz/spritefusion-pixel-snapper", s.executable)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}

	s.log.Debug("quantizing", "input", inputPath, "palette", paletteSize)

	cmd := exec.CommandContext(ctx, s.executable, inputPath, outputPath, fmt.Sprintf("%d", paletteSize))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pixel-snapper failed: %v, output: %s", err, out)
	}
	return nil
}
