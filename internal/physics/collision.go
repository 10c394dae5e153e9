package physics

import (
	"quadcraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// probeOffsets are the sample directions used by Collides: the center and
// the six axis extremes of the probe sphere.
var probeOffsets = [7]mgl64.Vec3{
	{0, 0, 0},
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Collides reports whether a probe sphere of the given radius at pos touches
// a solid lattice cell. Only the center and six axis extremes are sampled,
// so cells thinner than the radius can slip between probes.
func Collides(w *world.World, pos mgl64.Vec3, radius float64) bool {
	reg := w.Registry()
	for _, off := range probeOffsets {
		_, block := w.ElementAt(pos.Add(off.Mul(radius)))
		if block != world.BlockTypeAir && reg.Get(block).IsSolid {
			return true
		}
	}
	return false
}

// ResolveVertical pushes pos upward in steps of step until the probe sphere
// no longer collides, giving up after maxSteps. It returns the adjusted
// position and whether it is free.
func ResolveVertical(w *world.World, pos mgl64.Vec3, radius, step float64, maxSteps int) (mgl64.Vec3, bool) {
	for i := 0; i <= maxSteps; i++ {
		if !Collides(w, pos, radius) {
			return pos, true
		}
		pos = pos.Add(mgl64.Vec3{0, step, 0})
	}
	return pos, false
}
