package meshing

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"quadcraft/internal/quadray"
	"quadcraft/internal/world"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEmptyWorld() *world.World {
	return world.New(world.Options{
		Generator: world.NewFlatGenerator(0),
		Logger:    quietLogger(),
	})
}

func TestBuildChunkMeshSingleElement(t *testing.T) {
	w := newEmptyWorld()
	c := w.GetChunk(1, 0, 0)
	local := quadray.FromCartesian(mgl64.Vec3{4, 4, 4})
	c.SetBlock(local, world.BlockTypeStone)

	v := BuildChunkMesh(w, c)
	if len(v) != 4*FloatsPerFace {
		t.Fatalf("got %d floats, want %d", len(v), 4*FloatsPerFace)
	}

	lo, hi := c.Bounds()
	center := local.ToCartesian().Add(lo)
	for i := 0; i < len(v); i += VertexStride {
		p := mgl64.Vec3{float64(v[i]), float64(v[i+1]), float64(v[i+2])}
		for axis := 0; axis < 3; axis++ {
			if p[axis] < lo[axis] || p[axis] > hi[axis] {
				t.Fatalf("vertex %v outside chunk bounds", p)
			}
		}
		if d := p.Sub(center).Len(); math.Abs(d-world.ElementSize) > 1e-5 {
			t.Errorf("vertex %v is %v from center, want %v", p, d, world.ElementSize)
		}
		n := mgl64.Vec3{float64(v[i+3]), float64(v[i+4]), float64(v[i+5])}
		if math.Abs(n.Len()-1) > 1e-5 {
			t.Errorf("normal %v is not unit length", n)
		}
	}
}

func TestBuildChunkMeshEmpty(t *testing.T) {
	w := newEmptyWorld()
	if v := BuildChunkMesh(w, w.GetChunk(0, 0, 0)); len(v) != 0 {
		t.Errorf("empty chunk produced %d floats", len(v))
	}
	if v := BuildChunkMesh(w, nil); v != nil {
		t.Error("nil chunk should produce no mesh")
	}
}

func TestBuildChunkMeshHidesCoveredFace(t *testing.T) {
	w := newEmptyWorld()
	c := w.GetChunk(0, 0, 0)
	e := world.NewElement(quadray.FromCartesian(mgl64.Vec3{8, 8, 8}), world.BlockTypeStone)
	c.SetBlock(e.Position, e.Block)
	c.SetBlock(e.FaceNeighbors()[0], world.BlockTypeDirt)

	// 4 faces of the neighbor plus 3 uncovered faces of the element.
	v := BuildChunkMesh(w, c)
	if got := len(v) / FloatsPerFace; got != 7 {
		t.Errorf("emitted %d faces, want 7", got)
	}
}

func TestBuildChunkMeshTransparentNeighbor(t *testing.T) {
	w := newEmptyWorld()
	c := w.GetChunk(0, 0, 0)
	e := world.NewElement(quadray.FromCartesian(mgl64.Vec3{8, 8, 8}), world.BlockTypeStone)
	c.SetBlock(e.Position, e.Block)
	c.SetBlock(e.FaceNeighbors()[0], world.BlockTypeWater)

	if got := len(BuildChunkMesh(w, c)) / FloatsPerFace; got != 8 {
		t.Errorf("water should not hide stone faces: %d faces, want 8", got)
	}
}

func TestHidesFace(t *testing.T) {
	reg := world.NewRegistry()
	cases := []struct {
		self, neighbor world.BlockType
		want           bool
	}{
		{world.BlockTypeStone, world.BlockTypeAir, false},
		{world.BlockTypeStone, world.BlockTypeDirt, true},
		{world.BlockTypeStone, world.BlockTypeWater, false},
		{world.BlockTypeWater, world.BlockTypeWater, true},
		{world.BlockTypeWater, world.BlockTypeStone, true},
	}
	for _, c := range cases {
		if got := hidesFace(reg, c.self, c.neighbor); got != c.want {
			t.Errorf("hidesFace(%v, %v) = %v, want %v", c.self, c.neighbor, got, c.want)
		}
	}
}

func TestPlaceholderMesh(t *testing.T) {
	c := world.NewChunk(-1, 2, 0)
	v := PlaceholderMesh(c)
	if len(v) != 36*VertexStride {
		t.Fatalf("placeholder has %d floats, want %d", len(v), 36*VertexStride)
	}
	lo, hi := c.Bounds()
	for i := 0; i < len(v); i += VertexStride {
		for axis := 0; axis < 3; axis++ {
			f := float64(v[i+axis])
			if f != lo[axis] && f != hi[axis] {
				t.Fatalf("placeholder vertex component %v not on the box", f)
			}
		}
	}
}

func TestRebuildMarksClean(t *testing.T) {
	w := world.New(world.Options{Generator: world.NewFlatGenerator(6), Logger: quietLogger()})
	w.GenerateChunksAround(mgl64.Vec3{}, 1)
	dirty := w.GetDirtyChunks()
	if len(dirty) == 0 {
		t.Fatal("expected dirty chunks after generation")
	}

	r := NewRebuilder(nil, 1, quietLogger())
	defer r.Close()
	stats := r.Rebuild(w, dirty)
	if stats.Built != len(dirty) || stats.Placeholders != 0 {
		t.Errorf("stats = %+v, want %d built", stats, len(dirty))
	}
	if rest := w.GetDirtyChunks(); len(rest) != 0 {
		t.Errorf("%d chunks still dirty", len(rest))
	}
	if r.Len() != len(dirty) {
		t.Errorf("stored %d meshes, want %d", r.Len(), len(dirty))
	}
}

func TestRebuildFailureUsesPlaceholder(t *testing.T) {
	w := newEmptyWorld()
	bad := w.GetChunk(0, 0, 0)
	good := w.GetChunk(1, 0, 0)
	good.SetBlock(quadray.FromCartesian(mgl64.Vec3{4, 4, 4}), world.BlockTypeStone)

	builder := BuilderFunc(func(w *world.World, c *world.Chunk) ([]float32, error) {
		if c == bad {
			return nil, errors.New("boom")
		}
		return BuildChunkMesh(w, c), nil
	})
	r := NewRebuilder(builder, 1, quietLogger())
	defer r.Close()

	stats := r.Rebuild(w, []*world.Chunk{bad, good})
	if stats.Built != 1 || stats.Placeholders != 1 {
		t.Errorf("stats = %+v", stats)
	}
	m, ok := r.Mesh(bad.Coord())
	if !ok || !m.Placeholder || len(m.Vertices) != 36*VertexStride {
		t.Errorf("failed chunk mesh = %+v", m)
	}
	if bad.IsDirty() || good.IsDirty() {
		t.Error("both chunks should be clean after rebuild")
	}
}

func TestRebuildRecoversPanic(t *testing.T) {
	w := newEmptyWorld()
	c := w.GetChunk(0, 0, 0)
	r := NewRebuilder(BuilderFunc(func(*world.World, *world.Chunk) ([]float32, error) {
		panic("mesh exploded")
	}), 1, quietLogger())
	defer r.Close()

	stats := r.Rebuild(w, []*world.Chunk{c})
	if stats.Placeholders != 1 {
		t.Fatalf("expected a placeholder, got %+v", stats)
	}
	res := r.safeBuild(w, c)
	if !errors.Is(res.err, ErrBuilderPanic) {
		t.Errorf("error %v should wrap ErrBuilderPanic", res.err)
	}
	if c.IsDirty() {
		t.Error("chunk should be clean after a panicking build")
	}
}

func TestRebuildParallel(t *testing.T) {
	w := world.New(world.Options{Generator: world.NewFlatGenerator(6), Logger: quietLogger()})
	w.GenerateChunksAround(mgl64.Vec3{}, 1)
	dirty := w.GetDirtyChunks()

	var calls atomic.Int64
	r := NewRebuilder(BuilderFunc(func(w *world.World, c *world.Chunk) ([]float32, error) {
		calls.Add(1)
		return BuildChunkMesh(w, c), nil
	}), 4, quietLogger())
	defer r.Close()

	stats := r.Rebuild(w, dirty)
	if int(calls.Load()) != len(dirty) || stats.Built != len(dirty) {
		t.Errorf("built %d of %d chunks (%d calls)", stats.Built, len(dirty), calls.Load())
	}

	serial := NewRebuilder(nil, 1, quietLogger())
	defer serial.Close()
	w.MarkAllChunksDirty()
	serial.Rebuild(w, w.GetDirtyChunks())
	for _, c := range dirty {
		a, _ := r.Mesh(c.Coord())
		b, _ := serial.Mesh(c.Coord())
		if len(a.Vertices) != len(b.Vertices) {
			t.Errorf("chunk %v: parallel %d floats, serial %d", c.Coord(), len(a.Vertices), len(b.Vertices))
		}
	}
}

func TestPruneMeshes(t *testing.T) {
	w := world.New(world.Options{Generator: world.NewFlatGenerator(6), Logger: quietLogger()})
	w.GenerateChunksAround(mgl64.Vec3{}, 2)
	r := NewRebuilder(nil, 1, quietLogger())
	defer r.Close()
	r.Rebuild(w, w.GetDirtyChunks())
	before := r.Len()

	evicted := w.EvictFarChunks(mgl64.Vec3{}, 0)
	if len(evicted) != world.DefaultEvictLimit {
		t.Fatalf("evicted %d chunks, want %d", len(evicted), world.DefaultEvictLimit)
	}
	if removed := r.PruneMeshes(w); removed != len(evicted) {
		t.Errorf("pruned %d meshes, want %d", removed, len(evicted))
	}
	if r.Len() != before-len(evicted) {
		t.Errorf("Len = %d, want %d", r.Len(), before-len(evicted))
	}
}
