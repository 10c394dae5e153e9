package meshing

import (
	"errors"
	"fmt"
	"log/slog"
	"quadcraft/internal/profiling"
	"quadcraft/internal/world"
	"sync"

	"github.com/alitto/pond/v2"
)

// Builder turns one chunk into vertex data.
type Builder interface {
	Build(w *world.World, c *world.Chunk) ([]float32, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(w *world.World, c *world.Chunk) ([]float32, error)

func (f BuilderFunc) Build(w *world.World, c *world.Chunk) ([]float32, error) { return f(w, c) }

// CPUBuilder builds meshes with BuildChunkMesh.
type CPUBuilder struct{}

func (CPUBuilder) Build(w *world.World, c *world.Chunk) ([]float32, error) {
	return BuildChunkMesh(w, c), nil
}

// ErrBuilderPanic wraps a panic raised by a Builder.
var ErrBuilderPanic = errors.New("mesh builder panicked")

// Mesh is the latest vertex data for one chunk.
type Mesh struct {
	Coord       world.ChunkCoord
	Vertices    []float32
	Placeholder bool
}

// RebuildStats summarizes one Rebuild call.
type RebuildStats struct {
	Built        int
	Placeholders int
	Vertices     int
}

// Rebuilder consumes dirty chunks, builds their meshes and marks them
// clean. A failing build is replaced by PlaceholderMesh; the chunk is
// marked clean either way.
type Rebuilder struct {
	builder Builder
	log     *slog.Logger
	pool    pond.Pool

	meshes map[world.ChunkCoord]Mesh
}

// NewRebuilder creates a rebuilder. With workers > 1, builds for one call
// run in parallel on a pool; nil builder means CPUBuilder.
func NewRebuilder(builder Builder, workers int, log *slog.Logger) *Rebuilder {
	if builder == nil {
		builder = CPUBuilder{}
	}
	if log == nil {
		log = slog.Default()
	}
	r := &Rebuilder{
		builder: builder,
		log:     log,
		meshes:  make(map[world.ChunkCoord]Mesh),
	}
	if workers > 1 {
		r.pool = pond.NewPool(workers)
	}
	return r
}

// Close stops the worker pool, if any.
func (r *Rebuilder) Close() {
	if r.pool != nil {
		r.pool.StopAndWait()
	}
}

type buildResult struct {
	vertices []float32
	err      error
}

// Rebuild builds meshes for dirty and marks each chunk clean in w. Call it
// from the goroutine that owns the world.
func (r *Rebuilder) Rebuild(w *world.World, dirty []*world.Chunk) RebuildStats {
	defer profiling.Track("meshing.Rebuild")()
	results := make([]buildResult, len(dirty))
	if r.pool != nil && len(dirty) > 1 {
		var wg sync.WaitGroup
		for i, c := range dirty {
			i, c := i, c
			wg.Add(1)
			r.pool.Submit(func() {
				defer wg.Done()
				results[i] = r.safeBuild(w, c)
			})
		}
		wg.Wait()
	} else {
		for i, c := range dirty {
			results[i] = r.safeBuild(w, c)
		}
	}

	var stats RebuildStats
	for i, c := range dirty {
		res := results[i]
		m := Mesh{Coord: c.Coord(), Vertices: res.vertices}
		if res.err != nil {
			r.log.Warn("mesh build failed, using placeholder", "chunk", c.Coord(), "error", res.err)
			m.Vertices = PlaceholderMesh(c)
			m.Placeholder = true
			stats.Placeholders++
		} else {
			stats.Built++
		}
		stats.Vertices += len(m.Vertices) / VertexStride
		r.meshes[m.Coord] = m
		w.MarkChunkAsClean(m.Coord)
	}
	return stats
}

func (r *Rebuilder) safeBuild(w *world.World, c *world.Chunk) (res buildResult) {
	defer func() {
		if p := recover(); p != nil {
			res = buildResult{err: fmt.Errorf("%w: %v", ErrBuilderPanic, p)}
		}
	}()
	v, err := r.builder.Build(w, c)
	if err != nil {
		return buildResult{err: fmt.Errorf("build chunk %v: %w", c.Coord(), err)}
	}
	return buildResult{vertices: v}
}

// Mesh returns the stored mesh for coord.
func (r *Rebuilder) Mesh(coord world.ChunkCoord) (Mesh, bool) {
	m, ok := r.meshes[coord]
	return m, ok
}

// Len returns the number of stored meshes.
func (r *Rebuilder) Len() int {
	return len(r.meshes)
}

// PruneMeshes drops meshes of chunks that are no longer loaded in w and
// returns how many were removed.
func (r *Rebuilder) PruneMeshes(w *world.World) int {
	defer profiling.Track("meshing.PruneMeshes")()
	removed := 0
	for coord := range r.meshes {
		if !w.HasChunk(coord.X, coord.Y, coord.Z) {
			delete(r.meshes, coord)
			removed++
		}
	}
	return removed
}
