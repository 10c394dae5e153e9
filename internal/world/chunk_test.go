package world

import (
	"math"
	"math/rand"
	"quadcraft/internal/quadray"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestChunkSetGetBlock(t *testing.T) {
	c := NewChunk(0, 0, 0)
	c.SetClean()
	p := quadray.FromCartesian(mgl64.Vec3{3, 4, 5})

	if b := c.GetBlock(p); b != BlockTypeAir {
		t.Fatalf("expected air in empty chunk, got %v", b)
	}
	c.SetBlock(p, BlockTypeStone)
	if b := c.GetBlock(p); b != BlockTypeStone {
		t.Errorf("expected stone, got %v", b)
	}
	if !c.IsDirty() {
		t.Error("SetBlock should mark the chunk dirty")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 stored element, got %d", c.Len())
	}
}

func TestChunkAirRemovesElement(t *testing.T) {
	c := NewChunk(0, 0, 0)
	p := quadray.FromCartesian(mgl64.Vec3{1, 2, 3})
	c.SetBlock(p, BlockTypeDirt)
	c.SetClean()

	c.SetBlock(p, BlockTypeAir)
	if b := c.GetBlock(p); b != BlockTypeAir {
		t.Errorf("expected air after removal, got %v", b)
	}
	if c.Has(p) || c.Len() != 0 {
		t.Errorf("expected sparse store to be empty, has=%v len=%d", c.Has(p), c.Len())
	}
	if !c.IsDirty() {
		t.Error("removing a block should mark the chunk dirty")
	}
}

func TestChunkKeysAreToleranceStable(t *testing.T) {
	c := NewChunk(0, 0, 0)
	p := quadray.FromCartesian(mgl64.Vec3{5, 6, 7})
	c.SetBlock(p, BlockTypeGrass)

	// Same point reached through a different float path.
	q := quadray.FromCartesian(p.ToCartesian())
	if b := c.GetBlock(q); b != BlockTypeGrass {
		t.Errorf("expected grass through recomputed position, got %v", b)
	}
	// A non-normalized form of the same point.
	shifted := quadray.New(p.A+2, p.B+2, p.C+2, p.D+2)
	if b := c.GetBlock(shifted); b != BlockTypeGrass {
		t.Errorf("expected grass through shifted representation, got %v", b)
	}
}

func TestChunkSpaceRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for _, cc := range []ChunkCoord{{0, 0, 0}, {1, -2, 3}, {-5, 0, -1}} {
		c := NewChunk(cc.X, cc.Y, cc.Z)
		lo, _ := c.Bounds()
		for i := 0; i < 200; i++ {
			p := lo.Add(mgl64.Vec3{rng.Float64() * ChunkSize, rng.Float64() * ChunkSize, rng.Float64() * ChunkSize})
			w := quadray.FromCartesian(p)
			local := c.WorldToChunkSpace(w)
			back := c.ChunkToWorldSpace(local)
			if !back.Equals(w, quadray.Epsilon) {
				t.Fatalf("chunk %v: round trip %v -> %v -> %v", cc, w, local, back)
			}
			if !vecNear(local.ToCartesian(), p.Sub(lo), 1e-9) {
				t.Fatalf("chunk %v: local %v is not offset from origin", cc, local.ToCartesian())
			}
			if !c.Contains(local) {
				t.Fatalf("chunk %v: local %v should be inside", cc, local.ToCartesian())
			}
		}
	}
}

func TestChunkNeighborsInterior(t *testing.T) {
	c := NewChunk(0, 0, 0)
	p := quadray.FromCartesian(mgl64.Vec3{8, 8, 8})
	n := c.GetNeighbors(p)
	if len(n) != 4 {
		t.Fatalf("interior element should have 4 neighbors, got %d", len(n))
	}

	// Each neighbor is the element center pushed twice the face-center distance.
	e := NewElement(p, BlockTypeStone)
	v := e.Vertices()
	center := e.Center()
	for i, f := range e.Faces() {
		fc := v[f[0]].Add(v[f[1]]).Add(v[f[2]]).Mul(1.0 / 3)
		want := center.Add(fc.Sub(center).Mul(2))
		if !vecNear(n[i].ToCartesian(), want, 1e-9) {
			t.Errorf("neighbor %d at %v, want %v", i, n[i].ToCartesian(), want)
		}
		if d := n[i].ToCartesian().Sub(center).Len(); math.Abs(d-2*fc.Sub(center).Len()) > 1e-9 {
			t.Errorf("neighbor %d at distance %v", i, d)
		}
	}
}

func TestChunkNeighborsCorner(t *testing.T) {
	c := NewChunk(0, 0, 0)
	n := c.GetNeighbors(quadray.Origin)
	if len(n) >= 4 {
		t.Errorf("corner element should lose neighbors outside the chunk, got %d", len(n))
	}
	for _, q := range n {
		if !c.Contains(q) {
			t.Errorf("neighbor %v outside chunk bounds", q.ToCartesian())
		}
	}
}

// Reflection neighbors stay well inside one generator cell, so they never
// land on another cell's centroid.
func TestNeighborsShorterThanCell(t *testing.T) {
	cell := DefaultGeneratorParams().CellSize()
	p := quadray.FromCartesian(mgl64.Vec3{8, 8, 8})
	for _, n := range faceNeighbors(p) {
		if d := n.ToCartesian().Sub(p.ToCartesian()).Len(); d > cell/4 {
			t.Errorf("neighbor distance %v exceeds a quarter cell (%v)", d, cell/4)
		}
	}
}

func TestChunkElementsSorted(t *testing.T) {
	c := NewChunk(0, 0, 0)
	for _, p := range []mgl64.Vec3{{9, 1, 1}, {1, 1, 1}, {4, 7, 2}} {
		c.SetBlock(quadray.FromCartesian(p), BlockTypeStone)
	}
	els := c.Elements()
	if len(els) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(els))
	}
	for i := 1; i < len(els); i++ {
		if !els[i-1].Position.Key().Less(els[i].Position.Key()) {
			t.Errorf("elements not sorted at %d", i)
		}
	}
}

func TestChunkGenerateSetsFlags(t *testing.T) {
	c := NewChunk(0, 0, 0)
	c.SetClean()
	if c.State() != StateEmpty || c.IsGenerated() {
		t.Fatalf("new chunk should be empty, got %v", c.State())
	}
	c.Generate(NewFlatGenerator(4))
	if !c.IsGenerated() || !c.IsDirty() {
		t.Errorf("expected generated and dirty, got state=%v dirty=%v", c.State(), c.IsDirty())
	}
	if c.Len() == 0 {
		t.Error("flat generator left the chunk empty")
	}
}

func TestChunkCenterAndBounds(t *testing.T) {
	c := NewChunk(-1, 0, 2)
	lo, hi := c.Bounds()
	if lo != (mgl64.Vec3{-16, 0, 32}) || hi != (mgl64.Vec3{0, 16, 48}) {
		t.Errorf("unexpected bounds %v %v", lo, hi)
	}
	if c.Center() != (mgl64.Vec3{-8, 8, 40}) {
		t.Errorf("unexpected center %v", c.Center())
	}
}
