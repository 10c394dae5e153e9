package quadray

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestKeySharedByEquivalentForms(t *testing.T) {
	q := New(0.25, 1.5, 0, 2)
	shifted := New(3.25, 4.5, 3, 5)
	if q.Key() != shifted.Key() {
		t.Errorf("Key(%v)=%v differs from Key(%v)=%v", q, q.Key(), shifted, shifted.Key())
	}
}

func TestKeyAbsorbsFloatDrift(t *testing.T) {
	p := mgl64.Vec3{3.5, 7.25, -1.75}
	q1 := FromCartesian(p)
	// Same point reached through a lossy path.
	q2 := FromCartesian(FromCartesian(p.Add(mgl64.Vec3{1e-9, -1e-9, 1e-9})).ToCartesian())
	if q1.Key() != q2.Key() {
		t.Errorf("keys differ for drifted positions: %v vs %v", q1.Key(), q2.Key())
	}
}

func TestKeyDistinguishesNeighbors(t *testing.T) {
	a := New(1, 0, 0, 0)
	b := New(1+4.0/LatticeResolution, 0, 0, 0)
	if a.Key() == b.Key() {
		t.Errorf("points 4 lattice steps apart share key %v", a.Key())
	}
}

func TestKeyQuadrayRoundTrip(t *testing.T) {
	q := New(2.125, 0, 0.5, 1.75)
	back := q.Key().Quadray()
	for i, v := range back.Components() {
		if math.Abs(v-q.Components()[i]) > 1.0/LatticeResolution {
			t.Errorf("component %d: %f vs %f", i, v, q.Components()[i])
		}
	}
}

func TestKeyLess(t *testing.T) {
	a := Key{0, 1, 2, 3}
	b := Key{0, 1, 3, 0}
	if !a.Less(b) || b.Less(a) {
		t.Errorf("expected %v < %v", a, b)
	}
	if a.Less(a) {
		t.Errorf("key should not be less than itself")
	}
}
