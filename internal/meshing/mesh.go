package meshing

import (
	"quadcraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz)
const VertexStride = 6

// FloatsPerFace is the size of one emitted triangle.
const FloatsPerFace = 3 * VertexStride

// BuildChunkMesh builds a triangle list (pos+normal interleaved, world space)
// for every element face of c whose neighbor does not hide it. Neighbors are
// looked up through the world so faces on chunk borders see adjacent chunks.
func BuildChunkMesh(w *world.World, c *world.Chunk) []float32 {
	if c == nil {
		return nil
	}
	reg := w.Registry()
	lo, _ := c.Bounds()

	elements := c.Elements()
	vertices := make([]float32, 0, len(elements)*4*FloatsPerFace)
	for _, e := range elements {
		verts := e.Vertices()
		neighbors := e.FaceNeighbors()
		for i, f := range e.Faces() {
			nb := w.GetBlock(c.ChunkToWorldSpace(neighbors[i]))
			if hidesFace(reg, e.Block, nb) {
				continue
			}
			n := e.FaceNormal(i)
			for _, vi := range f {
				p := verts[vi].Add(lo)
				vertices = appendVertex(vertices, p, n)
			}
		}
	}
	return vertices
}

// hidesFace reports whether a neighbor block covers a face of self. Opaque
// neighbors hide everything; transparent ones only hide faces between two
// blocks of the same type.
func hidesFace(reg *world.Registry, self, neighbor world.BlockType) bool {
	if neighbor == world.BlockTypeAir {
		return false
	}
	if !reg.Get(neighbor).IsTransparent {
		return true
	}
	return neighbor == self
}

func appendVertex(dst []float32, p, n mgl64.Vec3) []float32 {
	return append(dst,
		float32(p[0]), float32(p[1]), float32(p[2]),
		float32(n[0]), float32(n[1]), float32(n[2]),
	)
}

// PlaceholderMesh returns the chunk's bounding box as 12 triangles, used
// when the real mesh cannot be built.
func PlaceholderMesh(c *world.Chunk) []float32 {
	lo, hi := c.Bounds()
	corner := func(i int) mgl64.Vec3 {
		p := lo
		if i&1 != 0 {
			p[0] = hi[0]
		}
		if i&2 != 0 {
			p[1] = hi[1]
		}
		if i&4 != 0 {
			p[2] = hi[2]
		}
		return p
	}
	faces := [6]struct {
		quad   [4]int
		normal mgl64.Vec3
	}{
		{[4]int{1, 3, 7, 5}, mgl64.Vec3{1, 0, 0}},
		{[4]int{0, 4, 6, 2}, mgl64.Vec3{-1, 0, 0}},
		{[4]int{2, 6, 7, 3}, mgl64.Vec3{0, 1, 0}},
		{[4]int{0, 1, 5, 4}, mgl64.Vec3{0, -1, 0}},
		{[4]int{4, 5, 7, 6}, mgl64.Vec3{0, 0, 1}},
		{[4]int{0, 2, 3, 1}, mgl64.Vec3{0, 0, -1}},
	}
	vertices := make([]float32, 0, 6*2*FloatsPerFace)
	for _, f := range faces {
		q := f.quad
		for _, vi := range [6]int{q[0], q[1], q[2], q[2], q[3], q[0]} {
			vertices = appendVertex(vertices, corner(vi), f.normal)
		}
	}
	return vertices
}
