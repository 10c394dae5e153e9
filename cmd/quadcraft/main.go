package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"quadcraft/internal/config"
	"sync"

	"github.com/xlab/closer"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		frames     = flag.Int("frames", 600, "number of frames to simulate, 0 runs until interrupted")
		dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
		o          config.Overrides
	)
	flag.Int64Var(&o.Seed, "seed", 0, "world seed")
	flag.IntVar(&o.GenerationRadius, "radius", 0, "chunk generation radius")
	flag.IntVar(&o.Workers, "workers", 0, "chunk streamer workers")
	flag.BoolVar(&o.Streaming, "stream", false, "generate chunks on a worker pool")
	flag.BoolVar(&o.Evict, "evict", false, "evict chunks beyond the evict radius")
	flag.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	o.Set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })

	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dumpConfig {
		raw, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(raw)
		return
	}

	log := newLogger(os.Stdout, cfg.Log)
	config.Apply(cfg)

	d := newDriver(cfg, log)
	stop := make(chan struct{})
	finished := make(chan struct{})
	var stopOnce sync.Once

	closer.Bind(func() {
		stopOnce.Do(func() { close(stop) })
		<-finished
		d.Close()
		log.Info("shutdown complete", "chunks", d.world.ChunkCount())
	})

	go func() {
		d.Run(*frames, stop)
		close(finished)
		closer.Close()
	}()
	closer.Hold()
}

func loadConfig(path string, o config.Overrides) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	cfg = cfg.Merge(o)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, s config.LogSettings) *slog.Logger {
	// Validate already rejected unknown levels.
	lvl, _ := config.ParseLevel(s.Level)
	opts := &slog.HandlerOptions{Level: lvl}
	if s.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
