package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"engrave-prep/internal/config"
	"engrave-prep/internal/history"
	"engrave-prep/internal/logger"
	"engrave-prep/internal/pipeline"
	"engrave-prep/internal/raster"
	"engrave-prep/internal/settings"
	"engrave-prep/internal/shutdown"
)

const appVersion = "1.0.0"

type options struct {
	input         string
	output        string
	format        string
	preset        string
	brightness    int
	contrast      int
	threshold     int
	removeBG      bool
	bgSensitivity int
	stats         bool
	clearSettings bool
	version       bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.input, "in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	flag.StringVar(&opts.output, "out", "", "output file (default: <in>_engrave.png)")
	flag.StringVar(&opts.format, "format", "", "output format: png or jpeg (default: from -out extension)")
	flag.StringVar(&opts.preset, "preset", "", "preset: default, photo, sketch or text")
	flag.IntVar(&opts.brightness, "brightness", 0, "brightness adjustment, -100..100")
	flag.IntVar(&opts.contrast, "contrast", 0, "contrast adjustment, -100..100")
	flag.IntVar(&opts.threshold, "threshold", -1, "manual threshold, 0..255 (default: computed)")
	flag.BoolVar(&opts.removeBG, "remove-background", false, "remove the dominant background region")
	flag.IntVar(&opts.bgSensitivity, "background-sensitivity", -1, "background match tolerance, 0..255")
	flag.BoolVar(&opts.stats, "stats", false, "print black/white pixel statistics")
	flag.BoolVar(&opts.clearSettings, "clear-settings", false, "erase persisted adjustment settings and exit")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "engrave-prep: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.version {
		fmt.Printf("engrave-prep %s\n", appVersion)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))

	store, err := settings.NewFileStore(cfg.SettingsDir)
	if err != nil {
		return fmt.Errorf("open settings storage: %w", err)
	}
	repo := settings.NewRepository(store, log)

	if opts.clearSettings {
		repo.Clear()
		return nil
	}
	if opts.input == "" {
		flag.Usage()
		return fmt.Errorf("missing required -in flag")
	}

	coordinator := pipeline.NewCoordinator(
		pipeline.NewBaselineManager(log),
		history.New(history.DefaultCapacity),
		repo,
		log,
		pipeline.CoordinatorOptions{
			RecomputeDelay: cfg.RecomputeDelay,
			PersistDelay:   cfg.PersistDelay,
		},
	)

	manager := shutdown.NewManager(log)
	manager.Register(coordinator)
	manager.Listen()
	defer manager.Shutdown()

	input, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	loader := pipeline.NewImageLoader(log, cfg.MaxDimension)
	buf, _, err := loader.LoadFromReader(input)
	input.Close()
	if err != nil {
		return err
	}
	if err := coordinator.LoadImage(buf); err != nil {
		return err
	}

	if err := applyAdjustments(coordinator, opts); err != nil {
		return err
	}
	coordinator.FlushPending()

	output := coordinator.CurrentOutputBuffer()
	outPath, format := resolveOutput(opts)
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	saver := pipeline.NewImageSaver(log)
	saver.JPEGQuality = cfg.JPEGQuality
	if err := saver.Save(file, output, format); err != nil {
		return err
	}

	if opts.stats {
		printStats(output)
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func applyAdjustments(c *pipeline.Coordinator, opts options) error {
	if opts.preset != "" {
		if err := c.ApplyPreset(opts.preset); err != nil {
			return err
		}
	}
	if opts.brightness != 0 {
		c.SetBrightness(opts.brightness)
	}
	if opts.contrast != 0 {
		c.SetContrast(opts.contrast)
	}
	if opts.threshold >= 0 {
		c.SetThreshold(opts.threshold)
	}
	if opts.bgSensitivity >= 0 {
		c.SetBackgroundRemovalSensitivity(opts.bgSensitivity)
	}
	if opts.removeBG {
		c.SetBackgroundRemovalEnabled(true)
	}
	return nil
}

func resolveOutput(opts options) (string, string) {
	outPath := opts.output
	if outPath == "" {
		base := strings.TrimSuffix(opts.input, filepath.Ext(opts.input))
		outPath = base + "_engrave.png"
	}

	format := strings.ToLower(opts.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(outPath)) {
		case ".jpg", ".jpeg":
			format = "jpeg"
		default:
			format = "png"
		}
	}
	return outPath, format
}

func printStats(buf *raster.PixelBuffer) {
	stats := pipeline.MeasureBinarization(buf)
	fmt.Printf("pixels: %d total, %d black, %d white (%.1f%% engraved)\n",
		stats.TotalPixels, stats.BlackPixels, stats.WhitePixels, stats.BlackRatio*100)
}
