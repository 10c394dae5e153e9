package world

import (
	"quadcraft/internal/quadray"
	"sort"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkSize is the edge length of a chunk's cubic region in world units.
const ChunkSize = 16

// ChunkState tracks where a chunk is in the generation pipeline.
type ChunkState int32

const (
	StateEmpty ChunkState = iota
	StateQueued
	StateGenerating
	StateGenerated
)

func (s ChunkState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateQueued:
		return "queued"
	case StateGenerating:
		return "generating"
	case StateGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// ChunkCoord identifies a chunk by integer chunk coordinates.
type ChunkCoord struct {
	X, Y, Z int
}

// Less orders coordinates by x, then y, then z.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// Chunk is a sparse store of tetrahedral elements for one cubic region.
// Positions passed to a chunk are chunk-local quadrays; absence means air.
//
// The element map assumes a single writer. Only the generation state is
// safe to read from other goroutines.
type Chunk struct {
	X, Y, Z int

	origin   quadray.Quadray
	elements map[quadray.Key]Element
	state    atomic.Int32
	dirty    bool
	visible  bool
}

// NewChunk creates an empty, ungenerated chunk at the given chunk coordinates.
func NewChunk(x, y, z int) *Chunk {
	return &Chunk{
		X:        x,
		Y:        y,
		Z:        z,
		origin:   quadray.FromCartesian(chunkOriginCartesian(x, y, z)),
		elements: make(map[quadray.Key]Element),
		dirty:    true,
	}
}

func chunkOriginCartesian(x, y, z int) mgl64.Vec3 {
	return mgl64.Vec3{float64(x * ChunkSize), float64(y * ChunkSize), float64(z * ChunkSize)}
}

// Coord returns the chunk's coordinates.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Y: c.Y, Z: c.Z}
}

// GetBlock returns the block at a local position, or air if nothing is stored.
func (c *Chunk) GetBlock(local quadray.Quadray) BlockType {
	if e, ok := c.elements[local.Key()]; ok {
		return e.Block
	}
	return BlockTypeAir
}

// SetBlock stores block at a local position. Air deletes the entry so the
// map only ever holds non-air elements. The chunk is marked dirty either way.
func (c *Chunk) SetBlock(local quadray.Quadray, block BlockType) {
	key := local.Key()
	if block == BlockTypeAir {
		delete(c.elements, key)
	} else {
		c.elements[key] = NewElement(local, block)
	}
	c.dirty = true
}

// Has reports whether a non-air element is stored at local.
func (c *Chunk) Has(local quadray.Quadray) bool {
	_, ok := c.elements[local.Key()]
	return ok
}

// Len returns the number of stored (non-air) elements.
func (c *Chunk) Len() int {
	return len(c.elements)
}

// Elements returns the stored elements ordered by lattice key.
func (c *Chunk) Elements() []Element {
	keys := make([]quadray.Key, 0, len(c.elements))
	for k := range c.elements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	out := make([]Element, len(keys))
	for i, k := range keys {
		out[i] = c.elements[k]
	}
	return out
}

// WorldToChunkSpace converts a world quadray to this chunk's local frame by
// subtracting the chunk origin in quadray space.
func (c *Chunk) WorldToChunkSpace(world quadray.Quadray) quadray.Quadray {
	return world.Sub(c.origin).Normalized()
}

// ChunkToWorldSpace is the inverse of WorldToChunkSpace.
func (c *Chunk) ChunkToWorldSpace(local quadray.Quadray) quadray.Quadray {
	return local.Add(c.origin)
}

// Origin returns the chunk's minimum corner as a world quadray.
func (c *Chunk) Origin() quadray.Quadray {
	return c.origin
}

// Bounds returns the chunk's axis-aligned world-space box.
func (c *Chunk) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	lo := chunkOriginCartesian(c.X, c.Y, c.Z)
	return lo, lo.Add(mgl64.Vec3{ChunkSize, ChunkSize, ChunkSize})
}

// Center returns the world-space center of the chunk's cube.
func (c *Chunk) Center() mgl64.Vec3 {
	lo, hi := c.Bounds()
	return lo.Add(hi).Mul(0.5)
}

// Contains reports whether a local position lies inside the chunk's cube.
func (c *Chunk) Contains(local quadray.Quadray) bool {
	return inLocalBounds(local.ToCartesian())
}

func inLocalBounds(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < 0 || p[i] >= ChunkSize {
			return false
		}
	}
	return true
}

// GetNeighbors returns the positions reached by reflecting the element at
// local across each of its four faces: the face-center direction, doubled.
// Reflections that leave the chunk are dropped, so the result has 0 to 4
// entries in face order.
func (c *Chunk) GetNeighbors(local quadray.Quadray) []quadray.Quadray {
	out := make([]quadray.Quadray, 0, 4)
	for _, n := range faceNeighbors(local) {
		if inLocalBounds(n.ToCartesian()) {
			out = append(out, n)
		}
	}
	return out
}

// faceNeighbors returns all four reflected positions without bounds filtering.
func faceNeighbors(pos quadray.Quadray) [4]quadray.Quadray {
	center := pos.ToCartesian()
	var out [4]quadray.Quadray
	for i, off := range faceCenterOffsets() {
		out[i] = quadray.FromCartesian(center.Add(off.Mul(2)))
	}
	return out
}

// Generate fills the chunk with gen and marks it generated and dirty.
func (c *Chunk) Generate(gen TerrainGenerator) {
	c.setState(StateGenerating)
	gen.PopulateChunk(c)
	c.setState(StateGenerated)
	c.dirty = true
}

// adopt takes over the contents of a chunk populated elsewhere.
func (c *Chunk) adopt(src *Chunk) {
	for k, e := range src.elements {
		c.elements[k] = e
	}
	c.setState(StateGenerated)
	c.dirty = true
}

// State returns the generation state. Safe for concurrent use.
func (c *Chunk) State() ChunkState {
	return ChunkState(c.state.Load())
}

func (c *Chunk) setState(s ChunkState) {
	c.state.Store(int32(s))
}

func (c *Chunk) casState(from, to ChunkState) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}

// IsGenerated reports whether terrain generation has completed.
func (c *Chunk) IsGenerated() bool {
	return c.State() == StateGenerated
}

// IsDirty returns whether derived geometry is stale.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetClean marks derived geometry as rebuilt.
func (c *Chunk) SetClean() {
	c.dirty = false
}

// MarkDirty forces a geometry rebuild.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// IsVisible returns the last frustum test result.
func (c *Chunk) IsVisible() bool {
	return c.visible
}

// SetVisible records a frustum test result.
func (c *Chunk) SetVisible(v bool) {
	c.visible = v
}
