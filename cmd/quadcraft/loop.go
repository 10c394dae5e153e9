package main

import (
	"log/slog"
	"quadcraft/internal/config"
	"quadcraft/internal/culling"
	"quadcraft/internal/meshing"
	"quadcraft/internal/physics"
	"quadcraft/internal/profiling"
	"quadcraft/internal/world"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	frameDelta     = 1.0 / 60
	slowFrame      = 16 * time.Millisecond
	evictInterval  = 30 // frames
	statsInterval  = 120
	turnRatePerSec = 6.0 // degrees
	hoverHeight    = 8.0
	cameraRadius   = 0.5
	maxLiftSteps   = 64
)

// driver runs the headless frame loop: move the camera, stream terrain
// around it, cull, rebuild meshes and evict.
type driver struct {
	cfg       config.Config
	log       *slog.Logger
	world     *world.World
	streamer  *world.ChunkStreamer
	rebuilder *meshing.Rebuilder
	camera    *culling.Camera
	frustum   *culling.Frustum
}

func newDriver(cfg config.Config, log *slog.Logger) *driver {
	w := world.New(world.Options{
		Seed:   cfg.Seed,
		Params: cfg.Generator,
		Logger: log,
	})

	cc := cfg.Camera
	cam := culling.NewCamera(mgl64.Vec3(cc.Position), cc.Yaw, cc.Pitch)
	cam.FOV = cc.FOV
	cam.Near = cc.Near
	cam.Far = cc.Far

	d := &driver{
		cfg:       cfg,
		log:       log,
		world:     w,
		rebuilder: meshing.NewRebuilder(meshing.CPUBuilder{}, cfg.Mesh.Workers, log),
		camera:    cam,
		frustum:   culling.NewFrustum(cam),
	}
	if cfg.Streaming.Enabled {
		d.streamer = world.NewChunkStreamer(w, world.StreamerOptions{
			Workers:        cfg.Streaming.Workers,
			MaxJobsPerCall: cfg.Streaming.MaxJobsPerCall,
			MaxPending:     cfg.Streaming.MaxPending,
			Logger:         log,
		})
	}
	log.Info("world created",
		"seed", cfg.Seed,
		"cell_size", w.CellSize(),
		"streaming", cfg.Streaming.Enabled,
		"radius", config.GetGenerationRadius(),
	)
	return d
}

// Run simulates frames until the count is reached or stop is closed. A
// frame count of zero runs until stop.
func (d *driver) Run(frames int, stop <-chan struct{}) {
	for frame := 0; frames == 0 || frame < frames; frame++ {
		select {
		case <-stop:
			d.log.Info("stopping", "frame", frame)
			return
		default:
		}
		d.tick(frame)
	}
	d.log.Info("run finished", "frames", frames, "chunks", d.world.ChunkCount(), "meshes", d.rebuilder.Len())
}

func (d *driver) tick(frame int) {
	profiling.ResetFrame()
	start := time.Now()

	d.moveCamera()
	pos := d.camera.Position
	radius, evictRadius := d.radii(pos)

	if d.streamer != nil {
		d.streamer.RequestChunksAround(pos, radius)
		d.streamer.Collect(d.cfg.Streaming.CollectLimit)
	} else {
		d.world.GenerateChunksAround(pos, radius)
	}

	d.frustum.Update(d.camera)
	visible := culling.UpdateChunkVisibility(d.world, d.frustum)

	stats := d.rebuilder.Rebuild(d.world, d.world.GetDirtyChunks())
	if stats.Placeholders > 0 {
		d.log.Warn("placeholder meshes", "frame", frame, "count", stats.Placeholders)
	}

	if d.cfg.World.Evict && frame%evictInterval == 0 {
		evicted := d.world.EvictFarChunks(pos, evictRadius)
		if len(evicted) > 0 {
			d.rebuilder.PruneMeshes(d.world)
		}
	}

	if dur := time.Since(start); dur > slowFrame {
		d.log.Debug("slow frame", "frame", frame, "duration", dur, "top", profiling.TopN(5))
	}
	if frame%statsInterval == 0 {
		pending := 0
		if d.streamer != nil {
			pending = d.streamer.Pending()
		}
		d.log.Info("frame stats",
			"frame", frame,
			"position", pos,
			"chunks", d.world.ChunkCount(),
			"visible", len(visible),
			"meshes", d.rebuilder.Len(),
			"built", stats.Built,
			"vertices", stats.Vertices,
			"pending", pending,
		)
	}
}

// radii returns the generation and evict radii for a camera at pos.
func (d *driver) radii(pos mgl64.Vec3) (gen, evict int) {
	gen, evict = config.GetGenerationRadius(), config.GetEvictRadius()
	if !d.cfg.World.Adaptive {
		return gen, evict
	}
	gen = world.AdaptiveRadius(pos, gen)
	evict = world.HeightScaledRadius(evict, pos.Y())
	if evict <= gen {
		evict = gen + 1
	}
	return gen, evict
}

// moveCamera flies forward at the configured speed while turning slowly,
// keeping a fixed height above the terrain surface and lifting out of any
// solid cell it ends up in.
func (d *driver) moveCamera() {
	cam := d.camera
	cam.Rotate(turnRatePerSec*frameDelta, 0)
	step := mgl64.Vec3{cam.Front.X(), 0, cam.Front.Z()}
	if step.Len() > 0 {
		step = step.Normalize().Mul(d.cfg.Camera.Speed * frameDelta)
	}
	cam.Translate(step)
	ground := d.world.Generator().HeightAt(cam.Position.X(), cam.Position.Z())
	if floor := ground + hoverHeight; cam.Position[1] < floor {
		cam.Position[1] = floor
	}
	if pos, free := physics.ResolveVertical(d.world, cam.Position, cameraRadius, d.world.CellSize(), maxLiftSteps); free {
		cam.Position = pos
	} else {
		d.log.Warn("camera stuck in terrain", "position", cam.Position)
	}
}

// Close releases the worker pools.
func (d *driver) Close() {
	if d.streamer != nil {
		d.streamer.Close()
	}
	d.rebuilder.Close()
}
