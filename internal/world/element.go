package world

import (
	"math"
	"quadcraft/internal/quadray"

	"github.com/go-gl/mathgl/mgl64"
)

// ElementSize is the circumradius of the rendered tetrahedron around an
// element's center.
const ElementSize = 0.5

// Element is one tetrahedral content unit. Position is normalized on
// construction and never changes; the block type is the only mutable part
// and setting it to air removes the element from its chunk.
type Element struct {
	Position quadray.Quadray
	Block    BlockType
}

// NewElement returns an element at the normalized form of pos.
func NewElement(pos quadray.Quadray, block BlockType) Element {
	return Element{Position: pos.Normalized(), Block: block}
}

// IsAir reports whether the element holds the air sentinel.
func (e Element) IsAir() bool {
	return e.Block == BlockTypeAir
}

// IsSolid looks the block up in reg.
func (e Element) IsSolid(reg *Registry) bool {
	return reg.Get(e.Block).IsSolid
}

// IsTransparent looks the block up in reg.
func (e Element) IsTransparent(reg *Registry) bool {
	return reg.Get(e.Block).IsTransparent
}

// tetraOffsets is the fixed vertex pattern around an element center: a
// regular tetrahedron with circumradius ElementSize, apex up and base
// parallel to the XZ plane. It is a visual stand-in and does not follow the
// lattice adjacency.
var tetraOffsets = func() [4]mgl64.Vec3 {
	const r = ElementSize
	base := r * 2 * quadray.Root2 / 3 // base circumradius
	return [4]mgl64.Vec3{
		{0, r, 0},
		{base, -r / 3, 0},
		{-base / 2, -r / 3, base * math.Sqrt(3) / 2},
		{-base / 2, -r / 3, -base * math.Sqrt(3) / 2},
	}
}()

// tetraFaces lists the vertex indices of each triangular face.
var tetraFaces = [4][3]int{
	{0, 1, 2},
	{0, 2, 3},
	{0, 3, 1},
	{1, 3, 2},
}

// Center returns the Cartesian center of the element.
func (e Element) Center() mgl64.Vec3 {
	return e.Position.ToCartesian()
}

// Vertices returns the four Euclidean corners of the rendered tetrahedron.
func (e Element) Vertices() [4]mgl64.Vec3 {
	return vertsAround(e.Position.ToCartesian())
}

// Faces returns the vertex index triple of each face. Independent of position.
func (e Element) Faces() [4][3]int {
	return tetraFaces
}

// FaceNormal returns the unit normal of face i, oriented by vertex winding.
func (e Element) FaceNormal(i int) mgl64.Vec3 {
	v := e.Vertices()
	f := tetraFaces[i]
	return v[f[1]].Sub(v[f[0]]).Cross(v[f[2]].Sub(v[f[0]])).Normalize()
}

// FaceNeighbors returns the position reached through each face, in face
// order, in the same frame as Position.
func (e Element) FaceNeighbors() [4]quadray.Quadray {
	return faceNeighbors(e.Position)
}

func vertsAround(center mgl64.Vec3) [4]mgl64.Vec3 {
	var out [4]mgl64.Vec3
	for i, off := range tetraOffsets {
		out[i] = center.Add(off)
	}
	return out
}

// faceCenterOffsets returns, per face, the vector from the element center
// to the face centroid.
func faceCenterOffsets() [4]mgl64.Vec3 {
	var out [4]mgl64.Vec3
	for i, f := range tetraFaces {
		out[i] = tetraOffsets[f[0]].Add(tetraOffsets[f[1]]).Add(tetraOffsets[f[2]]).Mul(1.0 / 3)
	}
	return out
}
