package quadray

import (
	"fmt"
	"math"
)

// LatticeResolution is the number of key steps per quadray unit. Positions
// closer than 1/LatticeResolution along every component share a key.
const LatticeResolution = 4096

// Key is an integer lattice index for a normalized quadray. Sparse storage
// is keyed by Key so equality never depends on raw float comparison.
type Key struct {
	A, B, C, D int64
}

// Key rounds the normalized form of q onto the storage lattice.
func (q Quadray) Key() Key {
	n := q.Normalized()
	return Key{
		A: quantize(n.A),
		B: quantize(n.B),
		C: quantize(n.C),
		D: quantize(n.D),
	}
}

func quantize(v float64) int64 {
	return int64(math.Round(v * LatticeResolution))
}

// Quadray returns the lattice point the key stands for.
func (k Key) Quadray() Quadray {
	return Quadray{
		A: float64(k.A) / LatticeResolution,
		B: float64(k.B) / LatticeResolution,
		C: float64(k.C) / LatticeResolution,
		D: float64(k.D) / LatticeResolution,
	}
}

// Less orders keys lexicographically by a, b, c, d.
func (k Key) Less(o Key) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	if k.B != o.B {
		return k.B < o.B
	}
	if k.C != o.C {
		return k.C < o.C
	}
	return k.D < o.D
}

func (k Key) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", k.A, k.B, k.C, k.D)
}
