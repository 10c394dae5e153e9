package world

import (
	"math"
	"quadcraft/internal/quadray"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// vecNear compares vectors with an absolute tolerance.
func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestElementNormalizesPosition(t *testing.T) {
	e := NewElement(quadray.New(5, 3, 4, 2), BlockTypeStone)
	want := quadray.New(3, 1, 2, 0)
	if !e.Position.Equals(want, 1e-12) || e.Position.D != 0 {
		t.Errorf("expected normalized position %v, got %v", want, e.Position)
	}
}

func TestElementIsAir(t *testing.T) {
	if !NewElement(quadray.Origin, BlockTypeAir).IsAir() {
		t.Error("air element should report IsAir")
	}
	if NewElement(quadray.Origin, BlockTypeDirt).IsAir() {
		t.Error("dirt element should not report IsAir")
	}
}

func TestElementVerticesAroundCenter(t *testing.T) {
	e := NewElement(quadray.FromCartesian(mgl64.Vec3{3, 4, 5}), BlockTypeStone)
	center := e.Center()
	v := e.Vertices()

	mean := v[0].Add(v[1]).Add(v[2]).Add(v[3]).Mul(0.25)
	if !vecNear(mean, center, 1e-9) {
		t.Errorf("vertex mean %v, want center %v", mean, center)
	}

	// Regular tetrahedron: all six edges share one length.
	edge := v[0].Sub(v[1]).Len()
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if d := v[i].Sub(v[j]).Len(); math.Abs(d-edge) > 1e-9 {
				t.Errorf("edge %d-%d has length %v, want %v", i, j, d, edge)
			}
		}
	}
}

func TestElementFacesIndependentOfPosition(t *testing.T) {
	a := NewElement(quadray.Origin, BlockTypeStone).Faces()
	b := NewElement(quadray.New(7, 1, 0, 3), BlockTypeSand).Faces()
	if a != b {
		t.Errorf("faces differ between positions: %v vs %v", a, b)
	}
	seen := map[int]int{}
	for _, f := range a {
		for _, idx := range f {
			seen[idx]++
		}
	}
	for i := 0; i < 4; i++ {
		if seen[i] != 3 {
			t.Errorf("vertex %d used by %d faces, want 3", i, seen[i])
		}
	}
}

func TestElementFaceNormals(t *testing.T) {
	e := NewElement(quadray.FromCartesian(mgl64.Vec3{1, 1, 1}), BlockTypeStone)
	v := e.Vertices()
	for i, f := range e.Faces() {
		n := e.FaceNormal(i)
		if math.Abs(n.Len()-1) > 1e-9 {
			t.Errorf("face %d normal not unit: %v", i, n)
		}
		if math.Abs(n.Dot(v[f[1]].Sub(v[f[0]]))) > 1e-9 || math.Abs(n.Dot(v[f[2]].Sub(v[f[0]]))) > 1e-9 {
			t.Errorf("face %d normal %v not perpendicular to face", i, n)
		}
	}
}

func TestElementRegistryLookups(t *testing.T) {
	reg := NewRegistry()
	water := NewElement(quadray.Origin, BlockTypeWater)
	if water.IsSolid(reg) || !water.IsTransparent(reg) {
		t.Error("water should be non-solid and transparent")
	}
	stone := NewElement(quadray.Origin, BlockTypeStone)
	if !stone.IsSolid(reg) || stone.IsTransparent(reg) {
		t.Error("stone should be solid and opaque")
	}
}
