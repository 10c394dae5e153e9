package world

import (
	"quadcraft/internal/profiling"
	"sort"
	"sync"
)

// ChunkStore is the chunk directory: at most one chunk per coordinate.
type ChunkStore struct {
	chunks   map[ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty chunk directory.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// GetChunk returns the chunk at coord. If it doesn't exist and create is
// true, an empty ungenerated chunk is created; otherwise nil is returned.
func (cs *ChunkStore) GetChunk(coord ChunkCoord, create bool) *Chunk {
	cs.mu.RLock()
	chunk, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	if exists || !create {
		return chunk
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	// Another goroutine may have created it while we waited for the lock.
	if existing, ok := cs.chunks[coord]; ok {
		return existing
	}
	chunk = NewChunk(coord.X, coord.Y, coord.Z)
	cs.chunks[coord] = chunk
	cs.modCount++
	return chunk
}

// HasChunk checks if a chunk exists without creating it.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// AddChunk installs chunk at coord unless one is already present. It returns
// the chunk that ends up in the directory.
func (cs *ChunkStore) AddChunk(coord ChunkCoord, chunk *Chunk) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if existing, ok := cs.chunks[coord]; ok {
		return existing
	}
	cs.chunks[coord] = chunk
	cs.modCount++
	return chunk
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// All returns every loaded chunk ordered by coordinate.
func (cs *ChunkStore) All() []*Chunk {
	cs.mu.RLock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	sortChunks(out)
	return out
}

// AppendChunksInBox appends the loaded chunks within an inclusive cube of
// the given radius around center to dst.
func (cs *ChunkStore) AppendChunksInBox(center ChunkCoord, radius int, dst []*Chunk) []*Chunk {
	defer profiling.Track("world.AppendChunksInBox")()
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				coord := ChunkCoord{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}
				if c, ok := cs.chunks[coord]; ok {
					dst = append(dst, c)
				}
			}
		}
	}
	return dst
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes up to limit chunks whose Chebyshev distance from
// center exceeds radius, farthest first. Visible chunks and chunks still
// queued or generating are kept. A limit <= 0 means no cap. It returns the
// coordinates removed.
func (cs *ChunkStore) EvictFarChunks(center ChunkCoord, radius, limit int) []ChunkCoord {
	defer profiling.Track("world.EvictFarChunks")()
	cs.mu.Lock()
	defer cs.mu.Unlock()

	type candidate struct {
		coord ChunkCoord
		dist  int
	}
	var far []candidate
	for coord, c := range cs.chunks {
		d := chebyshev(coord, center)
		if d <= radius || c.IsVisible() {
			continue
		}
		if s := c.State(); s == StateQueued || s == StateGenerating {
			continue
		}
		far = append(far, candidate{coord, d})
	}
	sort.Slice(far, func(i, j int) bool {
		if far[i].dist != far[j].dist {
			return far[i].dist > far[j].dist
		}
		return far[i].coord.Less(far[j].coord)
	})
	if limit > 0 && len(far) > limit {
		far = far[:limit]
	}

	removed := make([]ChunkCoord, 0, len(far))
	for _, f := range far {
		delete(cs.chunks, f.coord)
		cs.modCount++
		removed = append(removed, f.coord)
	}
	return removed
}

func chebyshev(a, b ChunkCoord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortChunks(cs []*Chunk) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Coord().Less(cs[j].Coord()) })
}
