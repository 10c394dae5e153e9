package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"quadcraft/internal/world"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration of the engine driver.
type Config struct {
	Seed      int64                 `yaml:"seed"`
	Generator world.GeneratorParams `yaml:"generator"`
	World     WorldSettings         `yaml:"world"`
	Streaming StreamingSettings     `yaml:"streaming"`
	Mesh      MeshSettings          `yaml:"mesh"`
	Camera    CameraSettings        `yaml:"camera"`
	Log       LogSettings           `yaml:"log"`
}

// WorldSettings controls chunk loading around the camera.
type WorldSettings struct {
	GenerationRadius int  `yaml:"generation_radius"`
	EvictRadius      int  `yaml:"evict_radius"`
	Evict            bool `yaml:"evict"`
	// Adaptive widens generation far from the origin and eviction when the
	// camera is high.
	Adaptive bool `yaml:"adaptive"`
}

// StreamingSettings configures the asynchronous chunk streamer. When
// disabled, chunks are generated synchronously on the frame goroutine.
type StreamingSettings struct {
	Enabled        bool `yaml:"enabled"`
	Workers        int  `yaml:"workers"`
	MaxJobsPerCall int  `yaml:"max_jobs_per_call"`
	MaxPending     int  `yaml:"max_pending"`
	CollectLimit   int  `yaml:"collect_limit"`
}

type MeshSettings struct {
	Workers int `yaml:"workers"`
}

// CameraSettings is the starting pose and lens of the driver camera.
type CameraSettings struct {
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
	Pitch    float64    `yaml:"pitch"`
	FOV      float64    `yaml:"fov"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Speed    float64    `yaml:"speed"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:      1337,
		Generator: world.DefaultGeneratorParams(),
		World: WorldSettings{
			GenerationRadius: 2,
			EvictRadius:      4,
		},
		Streaming: StreamingSettings{
			Workers:        4,
			MaxJobsPerCall: 256,
			MaxPending:     1024,
			CollectLimit:   32,
		},
		Mesh: MeshSettings{Workers: 1},
		Camera: CameraSettings{
			Position: [3]float64{0, 40, 0},
			Pitch:    -20,
			FOV:      45,
			Near:     0.1,
			Far:      1000,
			Speed:    4,
		},
		Log: LogSettings{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var problems []string
	g := c.Generator
	if g.Resolution <= 0 || world.ChunkSize%g.Resolution != 0 {
		problems = append(problems, fmt.Sprintf("generator.resolution %d must divide chunk size %d", g.Resolution, world.ChunkSize))
	}
	if g.Octaves <= 0 {
		problems = append(problems, "generator.octaves must be positive")
	}
	if c.World.GenerationRadius < 0 {
		problems = append(problems, "world.generation_radius must not be negative")
	}
	if c.World.Evict && c.World.EvictRadius <= c.World.GenerationRadius {
		problems = append(problems, "world.evict_radius must exceed generation_radius")
	}
	if c.Streaming.Workers < 0 || c.Streaming.MaxJobsPerCall < 0 || c.Streaming.MaxPending < 0 {
		problems = append(problems, "streaming limits must not be negative")
	}
	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		problems = append(problems, fmt.Sprintf("camera.fov %v out of range", cam.FOV))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		problems = append(problems, "camera planes need 0 < near < far")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("log.level %q: %w", s, err)
	}
	return lvl, nil
}

// Overrides holds command-line values. Only fields whose flag was set
// explicitly are applied by Merge.
type Overrides struct {
	Set map[string]bool

	Seed             int64
	GenerationRadius int
	Workers          int
	Streaming        bool
	Evict            bool
	LogLevel         string
}

// Merge applies explicitly set overrides on top of c.
func (c Config) Merge(o Overrides) Config {
	if o.Set["seed"] {
		c.Seed = o.Seed
	}
	if o.Set["radius"] {
		c.World.GenerationRadius = o.GenerationRadius
		if c.World.EvictRadius <= o.GenerationRadius {
			c.World.EvictRadius = o.GenerationRadius + 2
		}
	}
	if o.Set["workers"] {
		c.Streaming.Workers = o.Workers
	}
	if o.Set["stream"] {
		c.Streaming.Enabled = o.Streaming
	}
	if o.Set["evict"] {
		c.World.Evict = o.Evict
	}
	if o.Set["log-level"] {
		c.Log.Level = o.LogLevel
	}
	return c
}
