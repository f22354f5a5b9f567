package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ivlev/vid2sprite/internal/config"
	"github.com/ivlev/vid2sprite/internal/genai"
	"github.com/ivlev/vid2sprite/internal/grid"
	"github.com/ivlev/vid2sprite/internal/imaging"
	"github.com/ivlev/vid2sprite/internal/pipeline"
	"github.com/ivlev/vid2sprite/internal/snapper"
	"github.com/ivlev/vid2sprite/internal/system"
	"github.com/ivlev/vid2sprite/internal/timecode"
	"github.com/ivlev/vid2sprite/internal/video"
)

func main() {
	system.InitResourceLimits()

	opPtr := flag.String("op", "template", "Operation: fetch, probe, extract, compose, slice, template, apply")
	workspacePtr := flag.String("workspace", "workspace", "Workspace directory")
	urlPtr := flag.String("url", "", "Video URL for -op fetch")
	videoPtr := flag.String("video", "", "Video path (default: newest file in workspace/videos)")
	timesPtr := flag.String("times", "", "Comma-separated timestamps in seconds, row-major order")
	framesPtr := flag.Int("frames", 0, "Sample N evenly spaced frames instead of explicit -times")
	gridPtr := flag.String("grid", "", "Grid shape as COLSxROWS, e.g. 4x4")
	resolutionPtr := flag.Int("resolution", 0, "Output resolution (1024, 2048, 4096)")
	genericPtr := flag.String("generic", "", "Generic character reference (default: workspace/generic_character.png)")
	characterPtr := flag.String("character", "", "Character reference (default: newest in workspace/characters)")
	templatePtr := flag.String("template", "", "Template grid path (default: newest in workspace/templates)")
	inputPtr := flag.String("input", "", "Input path for compose (frame dir) and slice (sheet image)")
	outputPtr := flag.String("output", "", "Output path (auto-generated if empty)")
	modePtr := flag.String("mode", "reference", "Compose mode: reference or sheet")
	quantizePtr := flag.Bool("quantize", false, "Run pixel-snapper on the generated sheet")
	palettePtr := flag.Int("palette", 0, "Palette size for quantization (0 = config default)")
	promptPtr := flag.String("prompt", "", "Override the generation prompt")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	cfg, err := config.Load(*workspacePtr)
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}
	if *resolutionPtr > 0 {
		cfg.Resolution = *resolutionPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}

	shape := grid.Shape{Cols: cfg.Cols, Rows: cfg.Rows}
	if *gridPtr != "" {
		shape, err = parseShape(*gridPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
	}

	for _, d := range []string{cfg.VideosDir(), cfg.FramesDir(), cfg.TemplatesDir(), cfg.CharactersDir(), cfg.OutputDir(), cfg.TempDir()} {
		os.MkdirAll(d, 0755)
	}

	logger := hclog.New(&hclog.LoggerOptions{Name: "vid2sprite", Level: hclog.Info})
	ctx := context.Background()

	switch *opPtr {
	case "fetch":
		if *urlPtr == "" {
			log.Fatal("[-] -url is required for fetch")
		}
		path, err := video.Fetch(ctx, *urlPtr, cfg.VideosDir(), func(percent float64, status string) {
			fmt.Printf("[>] %5.1f%% %s\n", percent, status)
		})
		if err != nil {
			log.Fatalf("[-] Fetch failed: %v", err)
		}
		fmt.Printf("[+++] Saved: %s\n", path)

	case "probe":
		videoPath := resolveVideo(*videoPtr, cfg)
		meta, err := video.Probe(ctx, videoPath)
		if err != nil {
			log.Fatalf("[-] Probe failed: %v", err)
		}
		fmt.Printf("[*] %s: %dx%d @ %.3f fps, %.2fs, %d frames\n",
			meta.Path, meta.Width, meta.Height, meta.FPS, meta.Duration, meta.FrameCount)

	case "extract":
		videoPath := resolveVideo(*videoPtr, cfg)
		times, err := resolveTimes(ctx, videoPath, *timesPtr, *framesPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		outDir := *outputPtr
		if outDir == "" {
			stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
			outDir = filepath.Join(cfg.FramesDir(), stem)
		}
		paths, err := video.ExtractFrames(ctx, videoPath, times, outDir, cfg.Workers)
		if err != nil {
			log.Fatalf("[-] Extraction failed: %v", err)
		}
		fmt.Printf("[+++] Extracted %d frames to %s\n", len(paths), outDir)

	case "compose":
		if *inputPtr == "" {
			log.Fatal("[-] -input frame directory is required for compose")
		}
		mode := grid.ModeReference
		if *modePtr == "sheet" {
			mode = grid.ModeSheet
		}
		paths, err := listFrames(*inputPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		composite, err := grid.ComposeFiles(paths, shape, cfg.Resolution, mode)
		if err != nil {
			log.Fatalf("[-] Compose failed: %v", err)
		}
		out := *outputPtr
		if out == "" {
			out = filepath.Join(cfg.OutputDir(),
				fmt.Sprintf("%s_%dx%d_%d.png", mode, shape.Cols, shape.Rows, cfg.Resolution))
		}
		if err := imaging.Encode(composite, out); err != nil {
			log.Fatalf("[-] Save failed: %v", err)
		}
		fmt.Printf("[+++] Composite: %s\n", out)

	case "slice":
		if *inputPtr == "" {
			log.Fatal("[-] -input sheet image is required for slice")
		}
		p := newPipeline(cfg, logger)
		paths, err := p.SliceSheet(*inputPtr, shape, *outputPtr)
		if err != nil {
			log.Fatalf("[-] Slice failed: %v", err)
		}
		fmt.Printf("[+++] Sliced %d cells\n", len(paths))

	case "template":
		videoPath := resolveVideo(*videoPtr, cfg)
		times, err := resolveTimes(ctx, videoPath, *timesPtr, *framesPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		generic := *genericPtr
		if generic == "" {
			generic = filepath.Join(cfg.Workspace, "generic_character.png")
		}
		p := newPipeline(cfg, logger)
		out, err := p.GenerateTemplate(ctx, pipeline.TemplateRequest{
			VideoPath:        videoPath,
			Timestamps:       times,
			GenericCharacter: generic,
			Shape:            shape,
			Resolution:       cfg.Resolution,
			Prompt:           *promptPtr,
			OutputPath:       *outputPtr,
			Progress:         printStatus,
		})
		if err != nil {
			log.Fatalf("[-] Template generation failed: %v", err)
		}
		fmt.Printf("[+++] Template: %s\n", out)

	case "apply":
		templatePath := *templatePtr
		if templatePath == "" {
			templatePath, err = system.FindLatestImage(cfg.TemplatesDir())
			if err != nil {
				log.Fatalf("[-] No template: %v", err)
			}
			fmt.Printf("[*] Using template: %s\n", templatePath)
		}
		characterPath := *characterPtr
		if characterPath == "" {
			characterPath, err = system.FindLatestImage(cfg.CharactersDir())
			if err != nil {
				log.Fatalf("[-] No character reference: %v", err)
			}
			fmt.Printf("[*] Using character: %s\n", characterPath)
		}
		p := newPipeline(cfg, logger)
		result, err := p.ApplySheet(ctx, pipeline.ApplyRequest{
			TemplatePath:  templatePath,
			CharacterPath: characterPath,
			Shape:         shape,
			Resolution:    cfg.Resolution,
			Prompt:        *promptPtr,
			OutputPath:    *outputPtr,
			Quantize:      *quantizePtr,
			PaletteSize:   *palettePtr,
			Progress:      printStatus,
		})
		if err != nil {
			log.Fatalf("[-] Sheet generation failed: %v", err)
		}
		fmt.Printf("[+++] Sheet: %s\n", result.SheetPath)
		if result.QuantizedPath != "" {
			fmt.Printf("[+++] Quantized: %s\n", result.QuantizedPath)
		}
		if result.QuantizeErr != nil {
			fmt.Printf("[!] Quantization failed, unquantized sheet kept: %v\n", result.QuantizeErr)
		}

	default:
		log.Fatalf("[-] Unknown operation: %s", *opPtr)
	}
}

func newPipeline(cfg config.Config, logger hclog.Logger) *pipeline.Pipeline {
	if cfg.APIKey == "" {
		log.Fatal("[-] GOOGLE_API_KEY not set")
	}
	gen := genai.NewClient(cfg.APIKey, cfg.Model, logger.Named("genai"))
	quant := snapper.New(cfg.SnapperExecutable, logger.Named("snapper"))
	return pipeline.New(cfg, gen, quant, logger)
}

func printStatus(status string) {
	fmt.Printf("[*] %s\n", status)
}

func resolveVideo(flagValue string, cfg config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	latest, err := system.FindLatestVideo(cfg.VideosDir())
	if err != nil {
		log.Fatalf("[-] %v. Put a video in %s or pass -video", err, cfg.VideosDir())
	}
	fmt.Printf("[*] Using video: %s\n", latest)
	return latest
}

// resolveTimes returns explicit -times, or samples count evenly spaced
// frames across the video and converts them through the time mapper.
func resolveTimes(ctx context.Context, videoPath, timesCSV string, count int) ([]float64, error) {
	if timesCSV != "" {
		return parseTimes(timesCSV)
	}
	if count < 1 {
		return nil, fmt.Errorf("pass -times or -frames")
	}

	meta, err := video.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	times := make([]float64, count)
	for i := 0; i < count; i++ {
		frame := i * meta.FrameCount / count
		t, err := timecode.FrameToTime(frame, meta.FPS)
		if err != nil {
			return nil, err
		}
		times[i] = t
	}
	return times, nil
}

func parseTimes(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	times := make([]float64, 0, len(parts))
	for _, p := range parts {
		t, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", p, err)
		}
		times = append(times, t)
	}
	return times, nil
}

func parseShape(s string) (grid.Shape, error) {
	cols, rows, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return grid.Shape{}, fmt.Errorf("bad grid %q, want COLSxROWS", s)
	}
	c, err := strconv.Atoi(cols)
	if err != nil {
		return grid.Shape{}, fmt.Errorf("bad grid %q: %w", s, err)
	}
	r, err := strconv.Atoi(rows)
	if err != nil {
		return grid.Shape{}, fmt.Errorf("bad grid %q: %w", s, err)
	}
	shape := grid.Shape{Cols: c, Rows: r}
	if !shape.Valid() {
		return grid.Shape{}, fmt.Errorf("bad grid %q: cols and rows must be >= 1", s)
	}
	return shape, nil
}

// listFrames collects image files from a directory in name order, which is
// the row-major placement order.
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frame images in %s", dir)
	}
	return paths, nil
}
