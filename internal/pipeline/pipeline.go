// Package pipeline sequences the full run: extract frames, build the
// reference composite, call the generation service, optionally quantize,
// persist the result. Cancellation applies between stages; a compose or
// slice, once started, runs to completion.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/ivlev/vid2sprite/internal/config"
	"github.com/ivlev/vid2sprite/internal/genai"
	"github.com/ivlev/vid2sprite/internal/grid"
	"github.com/ivlev/vid2sprite/internal/imaging"
	"github.com/ivlev/vid2sprite/internal/video"
)

// Generator is the external generation collaborator: prompt plus ordered
// images in, one image out. Failures are never retried here.
type Generator interface {
	Generate(ctx context.Context, prompt string, images []image.Image, resolution int) (image.Image, error)
}

// Quantizer is the external pixel-quantization collaborator.
type Quantizer interface {
	Available() bool
	Process(ctx context.Context, inputPath, outputPath string, paletteSize int) error
}

// FrameExtractor pulls frames out of a video at the given timestamps and
// returns their paths in timestamp order. Defaults to video.ExtractFrames.
type FrameExtractor func(ctx context.Context, videoPath string, times []float64, outDir string, workers int) ([]string, error)

// ProgressFunc receives human-readable stage updates.
type ProgressFunc func(status string)

// Pipeline orchestrates one sprite-sheet workflow. It holds no mutable
// state between runs; concurrent runs are safe because every run writes
// unique artifact paths.
type Pipeline struct {
	cfg     config.Config
	gen     Generator
	quant   Quantizer
	extract FrameExtractor
	log     hclog.Logger
}

// New creates a pipeline around the given collaborators.
func New(cfg config.Config, gen Generator, quant Quantizer, logger hclog.Logger) *Pipeline {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pipeline{cfg: cfg, gen: gen, quant: quant, extract: video.ExtractFrames, log: logger}
}

// TemplateRequest drives GenerateTemplate.
type TemplateRequest struct {
	VideoPath        string
	Timestamps       []float64 // row-major frame order
	GenericCharacter string
	Shape            grid.Shape
	Resolution       int
	Prompt           string // empty selects the default
	OutputPath       string // empty selects templates/template_{c}x{r}_{res}.png
	Progress         ProgressFunc
}

// GenerateTemplate extracts keyframes, composes the reference grid, and
// asks the generation service for a pose-template grid. Returns the saved
// template path. Extracted frames and the reference composite stay under
// the workspace temp directory for inspection; nothing cleans them up.
func (p *Pipeline) GenerateTemplate(ctx context.Context, req TemplateRequest) (string, error) {
	stats := newRunStats()
	report := reporter(req.Progress)
	runID := uuid.NewString()

	report("Extracting frames...")
	framesDir := filepath.Join(p.cfg.TempDir(), "frames_"+runID)
	framePaths, err := p.extract(ctx, req.VideoPath, req.Timestamps, framesDir, p.cfg.Workers)
	if err != nil {
		return "", fmt.Errorf("extract frames: %w", err)
	}
	stats.mark("extract")

	report("Preparing reference images...")
	composite, err := grid.ComposeFiles(framePaths, req.Shape, req.Resolution, grid.ModeReference)
	if err != nil {
		return "", fmt.Errorf("compose reference grid: %w", err)
	}

	// Keep the composite on disk for inspection; unique name per run.
	refPath := filepath.Join(p.cfg.TempDir(), fmt.Sprintf("reference_%s.png", runID))
	if err := imaging.Encode(composite, refPath); err != nil {
		return "", err
	}

	character, err := imaging.Decode(req.GenericCharacter)
	if err != nil {
		return "", fmt.Errorf("load generic character: %w", err)
	}
	stats.mark("compose")

	prompt := req.Prompt
	if prompt == "" {
		prompt = genai.DefaultTemplatePrompt(req.Shape.Cols, req.Shape.Rows)
	}

	report("Generating template...")
	// Service contract: composite reference first, character second.
	generated, err := p.gen.Generate(ctx, prompt, []image.Image{composite, character}, req.Resolution)
	if err != nil {
		return "", fmt.Errorf("generate template: %w", err)
	}
	stats.mark("generate")

	out := req.OutputPath
	if out == "" {
		out = filepath.Join(p.cfg.TemplatesDir(),
			fmt.Sprintf("template_%dx%d_%d.png", req.Shape.Cols, req.Shape.Rows, req.Resolution))
	}
	if err := imaging.Encode(generated, out); err != nil {
		return "", err
	}
	stats.mark("save")
	report("Template saved")

	if p.cfg.ShowStats {
		stats.report(p.log, "template")
	}
	return out, nil
}

// ApplyRequest drives ApplySheet.
type ApplyRequest struct {
	TemplatePath  string
	CharacterPath string
	Shape         grid.Shape
	Resolution    int
	Prompt        string
	OutputPath    string
	Quantize      bool
	PaletteSize   int
	Progress      ProgressFunc
}

// Result reports where the final artifacts landed. When quantization was
// requested but failed, SheetPath still holds the valid unquantized output
// and QuantizeErr carries the failure.
type Result struct {
	SheetPath     string
	QuantizedPath string
	QuantizeErr   error
}

// ApplySheet renders a character through a previously generated template
// and optionally quantizes the result. A quantization failure downgrades
// gracefully: the unquantized sheet remains the final artifact.
func (p *Pipeline) ApplySheet(ctx context.Context, req ApplyRequest) (Result, error) {
	stats := newRunStats()
	report := reporter(req.Progress)

	report("Preparing images...")
	template, err := imaging.Decode(req.TemplatePath)
	if err != nil {
		return Result{}, fmt.Errorf("load template: %w", err)
	}
	character, err := imaging.Decode(req.CharacterPath)
	if err != nil {
		return Result{}, fmt.Errorf("load character: %w", err)
	}
	stats.mark("load")

	prompt := req.Prompt
	if prompt == "" {
		prompt = genai.DefaultSheetPrompt(req.Shape.Cols, req.Shape.Rows)
	}

	report("Generating sprite sheet...")
	generated, err := p.gen.Generate(ctx, prompt, []image.Image{template, character}, req.Resolution)
	if err != nil {
		return Result{}, fmt.Errorf("generate sheet: %w", err)
	}
	stats.mark("generate")

	out := req.OutputPath
	if out == "" {
		stem := strings.TrimSuffix(filepath.Base(req.CharacterPath), filepath.Ext(req.CharacterPath))
		out = filepath.Join(p.cfg.OutputDir(),
			fmt.Sprintf("%s_%dx%d_%d.png", stem, req.Shape.Cols, req.Shape.Rows, req.Resolution))
	}
	if err := imaging.Encode(generated, out); err != nil {
		return Result{}, err
	}
	stats.mark("save")

	result := Result{SheetPath: out}
	if req.Quantize {
		report("Quantizing...")
		result.QuantizedPath, result.QuantizeErr = p.quantize(ctx, out, req.PaletteSize)
		if result.QuantizeErr != nil {
			p.log.Warn("quantization failed, keeping unquantized sheet",
				"sheet", out, "error", result.QuantizeErr)
		}
		stats.mark("quantize")
	}
	report("Sheet saved")

	if p.cfg.ShowStats {
		stats.report(p.log, "apply")
	}
	return result, nil
}

func (p *Pipeline) quantize(ctx context.Context, sheetPath string, paletteSize int) (string, error) {
	if p.quant == nil || !p.quant.Available() {
		return "", fmt.Errorf("quantizer not available")
	}
	if paletteSize < 1 {
		paletteSize = p.cfg.SnapperPalette
	}

	ext := filepath.Ext(sheetPath)
	out := strings.TrimSuffix(sheetPath, ext) + "_snapped" + ext
	if err := p.quant.Process(ctx, sheetPath, out, paletteSize); err != nil {
		return "", err
	}
	return out, nil
}

// SliceSheet splits a saved sheet into per-frame files.
func (p *Pipeline) SliceSheet(sheetPath string, shape grid.Shape, outDir string) ([]string, error) {
	if outDir == "" {
		stem := strings.TrimSuffix(filepath.Base(sheetPath), filepath.Ext(sheetPath))
		outDir = filepath.Join(p.cfg.OutputDir(), stem+"_frames")
	}
	return grid.SliceFile(sheetPath, shape, outDir)
}

func reporter(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(string) {}
	}
	return fn
}
