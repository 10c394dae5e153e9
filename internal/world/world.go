package world

import (
	"log/slog"
	"math"
	"quadcraft/internal/profiling"
	"quadcraft/internal/quadray"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEvictLimit caps how many chunks one EvictFarChunks call removes.
const DefaultEvictLimit = 5

// Distances from the origin beyond which AdaptiveRadius adds a chunk ring,
// and the camera height above which HeightScaledRadius stretches eviction.
const (
	adaptiveNear      = 100.0
	adaptiveFar       = 200.0
	evictHeightStart  = 50.0
	evictHeightCap    = 2.0
)

// Options configures a World.
type Options struct {
	Seed   int64
	Params GeneratorParams
	// Generator overrides the noise generator built from Seed and Params.
	Generator TerrainGenerator
	Registry  *Registry
	Logger    *slog.Logger
}

// World owns the chunk directory, the block registry and the terrain
// generator. It assumes a single writer; only the chunk directory itself is
// safe for concurrent lookups.
type World struct {
	store    *ChunkStore
	registry *Registry
	gen      TerrainGenerator
	seed     int64
	cellSize float64
	log      *slog.Logger
}

// New creates a world from opts. Zero-valued Params fall back to
// DefaultGeneratorParams.
func New(opts Options) *World {
	params := opts.Params
	if params.Resolution == 0 {
		params = DefaultGeneratorParams()
	}
	gen := opts.Generator
	if gen == nil {
		gen = NewGenerator(opts.Seed, params)
	}
	cellSize := gen.CellSize()
	if cellSize <= 0 {
		cellSize = params.CellSize()
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &World{
		store:    NewChunkStore(),
		registry: reg,
		gen:      gen,
		seed:     opts.Seed,
		cellSize: cellSize,
		log:      log,
	}
}

// GetChunk returns the chunk at chunk coordinates, creating an empty,
// ungenerated one if absent.
func (w *World) GetChunk(cx, cy, cz int) *Chunk {
	return w.store.GetChunk(ChunkCoord{X: cx, Y: cy, Z: cz}, true)
}

// HasChunk reports whether a chunk exists, without creating it.
func (w *World) HasChunk(cx, cy, cz int) bool {
	return w.store.HasChunk(ChunkCoord{X: cx, Y: cy, Z: cz})
}

// WorldToChunkCoords floor-divides a Cartesian position by the chunk size.
func WorldToChunkCoords(p mgl64.Vec3) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(p[0] / ChunkSize)),
		Y: int(math.Floor(p[1] / ChunkSize)),
		Z: int(math.Floor(p[2] / ChunkSize)),
	}
}

// WorldToChunkCoords is the method form of the package function.
func (w *World) WorldToChunkCoords(p mgl64.Vec3) ChunkCoord {
	return WorldToChunkCoords(p)
}

// GetBlock returns the block at a world quadray. Missing chunks read as air
// and are not created.
func (w *World) GetBlock(pos quadray.Quadray) BlockType {
	c := w.store.GetChunk(WorldToChunkCoords(pos.ToCartesian()), false)
	if c == nil {
		return BlockTypeAir
	}
	return c.GetBlock(c.WorldToChunkSpace(pos))
}

// SetBlock stores block at a world quadray, creating the owning chunk if
// needed. The chunk is marked dirty.
func (w *World) SetBlock(pos quadray.Quadray, block BlockType) {
	c := w.store.GetChunk(WorldToChunkCoords(pos.ToCartesian()), true)
	c.SetBlock(c.WorldToChunkSpace(pos), block)
}

// ElementAt returns the block of the lattice cell containing the Cartesian
// point p, with the world position of the cell centroid.
func (w *World) ElementAt(p mgl64.Vec3) (quadray.Quadray, BlockType) {
	pos := quadray.FromCartesian(LocateCell(p, w.cellSize).Centroid())
	return pos, w.GetBlock(pos)
}

// GenerateChunk generates the chunk at coord if it has not been generated.
// It reports whether generation ran.
func (w *World) GenerateChunk(coord ChunkCoord) bool {
	c := w.store.GetChunk(coord, true)
	if !c.casState(StateEmpty, StateGenerating) {
		return false
	}
	c.Generate(w.gen)
	return true
}

// GenerateChunksAround generates every chunk in the inclusive cube of the
// given radius around the chunk containing center. It returns how many
// chunks were newly generated.
func (w *World) GenerateChunksAround(center mgl64.Vec3, radius int) int {
	defer profiling.Track("world.GenerateChunksAround")()
	cc := WorldToChunkCoords(center)
	generated := 0
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				coord := ChunkCoord{X: cc.X + dx, Y: cc.Y + dy, Z: cc.Z + dz}
				c := w.store.GetChunk(coord, true)
				if c.IsGenerated() {
					continue
				}
				if w.GenerateChunk(coord) {
					generated++
				}
			}
		}
	}
	if generated > 0 {
		w.log.Debug("generated chunks", "center", cc, "radius", radius, "count", generated)
	}
	return generated
}

// GetDirtyChunks returns every dirty chunk ordered by coordinate.
func (w *World) GetDirtyChunks() []*Chunk {
	defer profiling.Track("world.GetDirtyChunks")()
	var out []*Chunk
	for _, c := range w.store.All() {
		if c.IsDirty() {
			out = append(out, c)
		}
	}
	return out
}

// MarkChunkAsClean clears the dirty flag of the chunk at coord, if loaded.
func (w *World) MarkChunkAsClean(coord ChunkCoord) {
	if c := w.store.GetChunk(coord, false); c != nil {
		c.SetClean()
	}
}

// MarkAllChunksDirty forces every loaded chunk to be rebuilt.
func (w *World) MarkAllChunksDirty() {
	for _, c := range w.store.All() {
		c.MarkDirty()
	}
}

// Chunks returns every loaded chunk ordered by coordinate.
func (w *World) Chunks() []*Chunk {
	return w.store.All()
}

// ChunksAround returns the loaded chunks in the inclusive cube of the given
// radius around the chunk containing center.
func (w *World) ChunksAround(center mgl64.Vec3, radius int) []*Chunk {
	out := w.store.AppendChunksInBox(WorldToChunkCoords(center), radius, nil)
	sortChunks(out)
	return out
}

// ChunkCount returns the number of loaded chunks.
func (w *World) ChunkCount() int {
	return w.store.Len()
}

// ModCount changes whenever a chunk is added or removed.
func (w *World) ModCount() uint64 {
	return w.store.GetModCount()
}

// EvictFarChunks unloads chunks farther than radius chunks from center,
// skipping visible ones and removing at most DefaultEvictLimit per call.
// Chunk existence is otherwise monotonic; nothing calls this implicitly.
func (w *World) EvictFarChunks(center mgl64.Vec3, radius int) []ChunkCoord {
	removed := w.store.EvictFarChunks(WorldToChunkCoords(center), radius, DefaultEvictLimit)
	if len(removed) > 0 {
		w.log.Debug("evicted chunks", "count", len(removed), "remaining", w.store.Len())
	}
	return removed
}

// AdaptiveRadius widens a generation radius by one chunk when center is more
// than 100 units from the origin and by another beyond 200.
func AdaptiveRadius(center mgl64.Vec3, radius int) int {
	d := center.Len()
	if d > adaptiveNear {
		radius++
	}
	if d > adaptiveFar {
		radius++
	}
	return radius
}

// HeightScaledRadius stretches an evict radius for a camera above y=50. The
// squared distance limit grows by 1+(y-50)/50, capped at twice the base.
func HeightScaledRadius(radius int, y float64) int {
	if y <= evictHeightStart {
		return radius
	}
	f := math.Min(1+(y-evictHeightStart)/evictHeightStart, evictHeightCap)
	return int(math.Floor(float64(radius) * math.Sqrt(f)))
}

// Registry returns the block registry.
func (w *World) Registry() *Registry { return w.registry }

// Generator returns the terrain generator.
func (w *World) Generator() TerrainGenerator { return w.gen }

// Seed returns the world seed.
func (w *World) Seed() int64 { return w.seed }

// CellSize returns the edge length of the generator's sub-grid cubes.
func (w *World) CellSize() float64 { return w.cellSize }

// Logger returns the world's logger.
func (w *World) Logger() *slog.Logger { return w.log }
