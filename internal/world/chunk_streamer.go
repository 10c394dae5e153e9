package world

import (
	"fmt"
	"log/slog"
	"quadcraft/internal/profiling"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// ChunkStreamer generates chunks on a worker pool instead of the calling
// goroutine. Workers populate detached scratch chunks and hand them back
// through a completion queue; Collect installs them on the caller's
// goroutine, so chunk contents keep a single writer.
//
// Chunk states move Empty -> Queued (RequestChunksAround) -> Generating
// (worker picks it up) -> Generated (Collect).
type ChunkStreamer struct {
	world *World
	pool  pond.Pool
	log   *slog.Logger

	maxJobsPerCall int
	maxPending     int

	inflight atomic.Int64
	wg       sync.WaitGroup

	doneMu sync.Mutex
	done   []generated
}

type generated struct {
	coord ChunkCoord
	chunk *Chunk
}

// StreamerOptions tunes a ChunkStreamer. Zero values pick defaults.
type StreamerOptions struct {
	Workers        int
	MaxJobsPerCall int
	MaxPending     int
	Logger         *slog.Logger
}

// NewChunkStreamer starts a worker pool generating chunks for w.
func NewChunkStreamer(w *World, opts StreamerOptions) *ChunkStreamer {
	workers := opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	log := opts.Logger
	if log == nil {
		log = w.log
	}
	cs := &ChunkStreamer{
		world:          w,
		pool:           pond.NewPool(workers),
		log:            log,
		maxJobsPerCall: opts.MaxJobsPerCall,
		maxPending:     opts.MaxPending,
	}
	if cs.maxJobsPerCall <= 0 {
		cs.maxJobsPerCall = 256
	}
	if cs.maxPending <= 0 {
		cs.maxPending = 1024
	}
	return cs
}

// Close stops the pool after queued jobs finish.
func (cs *ChunkStreamer) Close() {
	cs.pool.StopAndWait()
}

// Pending returns how many requested chunks have not been collected yet.
func (cs *ChunkStreamer) Pending() int {
	return int(cs.inflight.Load())
}

// RequestChunksAround queues every ungenerated chunk in the inclusive cube
// of the given radius around the chunk containing center, nearest first.
// It returns the number of chunks queued by this call.
func (cs *ChunkStreamer) RequestChunksAround(center mgl64.Vec3, radius int) int {
	defer profiling.Track("world.RequestChunksAround")()
	cc := WorldToChunkCoords(center)

	coords := make([]ChunkCoord, 0, (2*radius+1)*(2*radius+1)*(2*radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				coords = append(coords, ChunkCoord{X: cc.X + dx, Y: cc.Y + dy, Z: cc.Z + dz})
			}
		}
	}
	sort.Slice(coords, func(i, j int) bool {
		di, dj := distSq(coords[i], cc), distSq(coords[j], cc)
		if di != dj {
			return di < dj
		}
		return coords[i].Less(coords[j])
	})

	queued := 0
	for _, coord := range coords {
		if queued >= cs.maxJobsPerCall || cs.Pending() >= cs.maxPending {
			break
		}
		if cs.request(coord) {
			queued++
		}
	}
	return queued
}

// request queues one chunk if it is still empty.
func (cs *ChunkStreamer) request(coord ChunkCoord) bool {
	c := cs.world.store.GetChunk(coord, true)
	if !c.casState(StateEmpty, StateQueued) {
		return false
	}
	cs.inflight.Add(1)
	cs.wg.Add(1)
	cs.pool.Submit(func() {
		defer cs.wg.Done()
		cs.generate(coord, c)
	})
	return true
}

func (cs *ChunkStreamer) generate(coord ChunkCoord, target *Chunk) {
	defer func() {
		if r := recover(); r != nil {
			cs.log.Error("chunk generation failed", "chunk", coord, "error", fmt.Sprint(r))
			target.setState(StateEmpty)
			cs.inflight.Add(-1)
		}
	}()
	if !target.casState(StateQueued, StateGenerating) {
		cs.inflight.Add(-1)
		return
	}
	scratch := NewChunk(coord.X, coord.Y, coord.Z)
	cs.world.gen.PopulateChunk(scratch)

	cs.doneMu.Lock()
	cs.done = append(cs.done, generated{coord: coord, chunk: scratch})
	cs.doneMu.Unlock()
}

// Collect installs up to limit finished chunks (all if limit <= 0) and
// returns them. Call it from the goroutine that owns the world.
func (cs *ChunkStreamer) Collect(limit int) []*Chunk {
	defer profiling.Track("world.CollectChunks")()
	cs.doneMu.Lock()
	n := len(cs.done)
	if limit > 0 {
		n = min(n, limit)
	}
	batch := make([]generated, n)
	copy(batch, cs.done[:n])
	cs.done = append(cs.done[:0], cs.done[n:]...)
	cs.doneMu.Unlock()

	out := make([]*Chunk, 0, len(batch))
	for _, g := range batch {
		c := cs.world.store.GetChunk(g.coord, false)
		if c == nil {
			// Evicted while generating; install the scratch chunk as is.
			c = cs.world.store.AddChunk(g.coord, g.chunk)
		}
		if c != g.chunk {
			c.adopt(g.chunk)
		} else {
			c.setState(StateGenerated)
		}
		cs.inflight.Add(-1)
		out = append(out, c)
	}
	if len(out) > 0 {
		cs.log.Debug("collected chunks", "count", len(out), "pending", cs.Pending())
	}
	return out
}

// Flush waits for every submitted job and collects all results.
func (cs *ChunkStreamer) Flush() []*Chunk {
	cs.wg.Wait()
	return cs.Collect(0)
}

func distSq(a, b ChunkCoord) int {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
