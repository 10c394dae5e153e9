package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"quadcraft/internal/config"
	"quadcraft/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		out        = flag.String("out", "quadmap.png", "output PNG path")
		samples    = flag.Int("size", 256, "samples per side")
		step       = flag.Float64("step", 2, "world units per sample")
		scale      = flag.Int("scale", 2, "pixels per sample")
		cx         = flag.Float64("x", 0, "center x")
		cz         = flag.Float64("z", 0, "center z")
		legend     = flag.Bool("legend", true, "draw a legend below the map")
		o          config.Overrides
	)
	flag.Int64Var(&o.Seed, "seed", 0, "world seed")
	flag.Parse()
	o.Set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(*configPath, *out, o, previewOptions{
		CenterX: *cx,
		CenterZ: *cz,
		Samples: *samples,
		Step:    *step,
		Scale:   *scale,
		Legend:  *legend,
	}, log); err != nil {
		log.Error("quadmap failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, out string, o config.Overrides, opts previewOptions, log *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	cfg = cfg.Merge(o)
	if opts.Samples <= 0 || opts.Step <= 0 {
		return fmt.Errorf("size and step must be positive")
	}

	gen := world.NewGenerator(cfg.Seed, cfg.Generator)
	opts.SeaLevel = cfg.Generator.SeaLevel
	img := renderPreview(gen, opts)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Info("wrote preview", "path", out, "seed", cfg.Seed, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
