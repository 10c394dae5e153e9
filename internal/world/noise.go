package world

import (
	"math"
)

// Deterministic closed-form noise: a weighted sum of plane waves with seeded
// directions, frequencies and phases. The value depends only on (x, y, z) and
// the seed, never on evaluation order, so chunks sampling shared boundary
// positions agree exactly.

const noiseWaves = 6

type wave struct {
	kx, ky, kz float64
	phase      float64
	weight     float64
}

// Noise is a seeded 3D noise field with values in [0,1].
type Noise struct {
	seed   int64
	waves  [noiseWaves]wave
	norm   float64
	shifts [maxOctaves][3]float64
}

// maxOctaves bounds how many decorrelated octave offsets are precomputed.
const maxOctaves = 16

// splitmix64 advances state and returns the next output. Stable across runs
// and platforms for the same seed.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	v := *state
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func unitFloat(state *uint64) float64 {
	return float64(splitmix64(state)>>11) / (1 << 53)
}

// NewNoise derives wave parameters from seed.
func NewNoise(seed int64) *Noise {
	n := &Noise{seed: seed}
	state := uint64(seed)
	for i := range n.waves {
		// Each wave gets its own frequency per axis, kept in [0.6, 1.4] with a random sign.
		axis := func() float64 {
			f := 0.6 + 0.8*unitFloat(&state)
			if unitFloat(&state) < 0.5 {
				f = -f
			}
			return f
		}
		w := wave{kx: axis(), ky: axis(), kz: axis()}
		w.phase = 2 * math.Pi * unitFloat(&state)
		w.weight = 1.0 / float64(i+1)
		n.waves[i] = w
		n.norm += w.weight
	}
	for o := range n.shifts {
		for a := 0; a < 3; a++ {
			n.shifts[o][a] = 1024 * unitFloat(&state)
		}
	}
	return n
}

// Seed returns the seed the field was built from.
func (n *Noise) Seed() int64 {
	return n.seed
}

// Sample evaluates the field at (x, y, z). The result is in [0,1].
func (n *Noise) Sample(x, y, z float64) float64 {
	sum := 0.0
	for i := range n.waves {
		w := &n.waves[i]
		sum += w.weight * math.Sin(w.kx*x+w.ky*y+w.kz*z+w.phase)
	}
	v := 0.5 + 0.5*sum/n.norm
	return math.Min(1, math.Max(0, v))
}

// Fractal sums octaves of Sample at increasing frequency (lacunarity) and
// decreasing amplitude (persistence), normalized back to [0,1]. Each octave
// is shifted by a seeded offset so octaves do not line up at the origin.
func (n *Noise) Fractal(x, y, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < min(octaves, maxOctaves); i++ {
		s := &n.shifts[i]
		v := n.Sample(x*frequency+s[0], y*frequency+s[1], z*frequency+s[2])
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
