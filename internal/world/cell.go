package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cube corners are indexed by bit pattern: bit 0 is +x, bit 1 is +y, bit 2 is +z.
var cubeCorners = [8]mgl64.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// cubeTetrahedra splits a cube into five tetrahedra: four corner tetrahedra
// cut at corners 0, 3, 5 and 6, and the central one spanning 1, 2, 4, 7.
// Together they cover the cube exactly once.
var cubeTetrahedra = [5][4]int{
	{0, 1, 2, 4},
	{3, 1, 2, 7},
	{5, 1, 4, 7},
	{6, 2, 4, 7},
	{1, 2, 4, 7},
}

// TetraPerCell is the number of tetrahedra each lattice cube is split into.
const TetraPerCell = len(cubeTetrahedra)

// Cell is one tetrahedron of the lattice: the cube it belongs to and its
// index in the cube decomposition.
type Cell struct {
	Corner mgl64.Vec3
	Size   float64
	Tetra  int
}

// Vertices returns the cell's four world-space corners.
func (c Cell) Vertices() [4]mgl64.Vec3 {
	var out [4]mgl64.Vec3
	for i, ci := range cubeTetrahedra[c.Tetra] {
		out[i] = c.Corner.Add(cubeCorners[ci].Mul(c.Size))
	}
	return out
}

// Centroid returns the mean of the cell's corners. Generated elements are
// stored at their cell centroid.
func (c Cell) Centroid() mgl64.Vec3 {
	v := c.Vertices()
	return v[0].Add(v[1]).Add(v[2]).Add(v[3]).Mul(0.25)
}

// CubeCells returns the five cells of the cube with minimum corner at corner.
func CubeCells(corner mgl64.Vec3, size float64) [TetraPerCell]Cell {
	var out [TetraPerCell]Cell
	for i := range out {
		out[i] = Cell{Corner: corner, Size: size, Tetra: i}
	}
	return out
}

// LocateCell returns the lattice cell containing p for a cube lattice of the
// given size anchored at the world origin. Points on shared faces resolve to
// the first matching tetrahedron in decomposition order.
func LocateCell(p mgl64.Vec3, size float64) Cell {
	corner := mgl64.Vec3{
		math.Floor(p[0]/size) * size,
		math.Floor(p[1]/size) * size,
		math.Floor(p[2]/size) * size,
	}
	u := p.Sub(corner).Mul(1 / size)
	x, y, z := u[0], u[1], u[2]

	tetra := 4
	switch {
	case x+y+z < 1:
		tetra = 0
	case (1-x)+(1-y)+z < 1:
		tetra = 1
	case (1-x)+y+(1-z) < 1:
		tetra = 2
	case x+(1-y)+(1-z) < 1:
		tetra = 3
	}
	return Cell{Corner: corner, Size: size, Tetra: tetra}
}
