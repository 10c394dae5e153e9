package culling

import (
	"quadcraft/internal/profiling"
	"quadcraft/internal/world"
)

// UpdateChunkVisibility tests every loaded chunk against f, records the
// result on the chunk and returns the visible ones in coordinate order.
func UpdateChunkVisibility(w *world.World, f *Frustum) []*world.Chunk {
	defer profiling.Track("culling.UpdateChunkVisibility")()
	r := ChunkBoundingRadius(world.ChunkSize)
	var visible []*world.Chunk
	for _, c := range w.Chunks() {
		v := f.SphereInFrustum(c.Center(), r)
		c.SetVisible(v)
		if v {
			visible = append(visible, c)
		}
	}
	return visible
}
