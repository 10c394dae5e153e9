package physics

import (
	"quadcraft/internal/profiling"
	"quadcraft/internal/quadray"
	"quadcraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 8.0

	stepSize = 0.05
)

// RaycastResult stores the result of a raycast operation. Positions are
// world quadrays of lattice cell centroids.
type RaycastResult struct {
	HitPosition      quadray.Quadray
	AdjacentPosition quadray.Quadray
	Block            world.BlockType
	Distance         float64
	Hit              bool
	// HasAdjacent is false when the ray starts inside the hit cell.
	HasAdjacent bool
}

// Raycast marches from start along direction and returns the first non-air
// lattice cell between minDist and maxDist. AdjacentPosition is the last
// empty cell the ray passed through, where a placed block would go.
func Raycast(w *world.World, start, direction mgl64.Vec3, minDist, maxDist float64) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	result := RaycastResult{}
	if direction.Len() == 0 {
		return result
	}
	direction = direction.Normalize()

	var lastEmpty quadray.Quadray
	haveLast := false
	steps := int(maxDist / stepSize)
	for i := 0; i <= steps; i++ {
		dist := float64(i) * stepSize
		if dist < minDist {
			continue
		}
		pos, block := w.ElementAt(start.Add(direction.Mul(dist)))
		if block != world.BlockTypeAir {
			result.HitPosition = pos
			result.Block = block
			result.Distance = dist
			result.Hit = true
			if haveLast {
				result.AdjacentPosition = lastEmpty
				result.HasAdjacent = true
			}
			return result
		}
		lastEmpty = pos
		haveLast = true
	}
	return result
}
