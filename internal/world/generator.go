package world

import (
	"math"
	"quadcraft/internal/profiling"
	"quadcraft/internal/quadray"

	"github.com/go-gl/mathgl/mgl64"
)

// TerrainGenerator fills a chunk with terrain. Implementations must be pure
// functions of the chunk coordinates and their own parameters so that
// regenerating a chunk yields the same content.
type TerrainGenerator interface {
	PopulateChunk(c *Chunk)
	HeightAt(x, z float64) float64
	// CellSize is the edge of the sub-grid cubes whose tetrahedra hold the
	// generated elements. World lookups locate cells with it.
	CellSize() float64
}

// GeneratorParams controls terrain shape. The zero value is not useful; start
// from DefaultGeneratorParams.
type GeneratorParams struct {
	// Resolution is the number of sub-grid cubes per chunk axis.
	Resolution int `yaml:"resolution"`

	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`

	TerrainScale     float64 `yaml:"terrain_scale"`
	TerrainAmplitude float64 `yaml:"terrain_amplitude"`

	MountainScale     float64 `yaml:"mountain_scale"`
	MountainAmplitude float64 `yaml:"mountain_amplitude"`
	MountainThreshold float64 `yaml:"mountain_threshold"`

	Caves         bool    `yaml:"caves"`
	CaveScale     float64 `yaml:"cave_scale"`
	CaveThreshold float64 `yaml:"cave_threshold"`

	OreScale     float64 `yaml:"ore_scale"`
	OreThreshold float64 `yaml:"ore_threshold"`
	OreMinDepth  float64 `yaml:"ore_min_depth"`

	SeaLevel        float64 `yaml:"sea_level"`
	SurfaceDepth    float64 `yaml:"surface_depth"`
	SubsurfaceDepth float64 `yaml:"subsurface_depth"`
	BeachMargin     float64 `yaml:"beach_margin"`
}

// DefaultGeneratorParams returns the stock terrain settings.
func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{
		Resolution:        8,
		Octaves:           4,
		Persistence:       0.5,
		Lacunarity:        2.0,
		TerrainScale:      0.05,
		TerrainAmplitude:  32,
		MountainScale:     0.01,
		MountainAmplitude: 48,
		MountainThreshold: 0.6,
		Caves:             true,
		CaveScale:         0.1,
		CaveThreshold:     0.7,
		OreScale:          0.2,
		OreThreshold:      0.8,
		OreMinDepth:       12,
		SeaLevel:          12,
		SurfaceDepth:      2,
		SubsurfaceDepth:   4,
		BeachMargin:       1,
	}
}

// CellSize returns the edge length of one sub-grid cube.
func (p GeneratorParams) CellSize() float64 {
	if p.Resolution <= 0 {
		return ChunkSize
	}
	return float64(ChunkSize) / float64(p.Resolution)
}

// Per-field salts keep the four noise fields independent under one seed.
const (
	saltTerrain  = 0
	saltMountain = 0x6d6f756e
	saltCave     = 0x63617665
	saltOre      = 0x6f726573
)

// Generator is the noise-driven terrain generator.
type Generator struct {
	seed   int64
	params GeneratorParams

	terrain  *Noise
	mountain *Noise
	cave     *Noise
	ore      *Noise
}

// NewGenerator creates a generator for seed.
func NewGenerator(seed int64, params GeneratorParams) *Generator {
	return &Generator{
		seed:     seed,
		params:   params,
		terrain:  NewNoise(seed ^ saltTerrain),
		mountain: NewNoise(seed ^ saltMountain),
		cave:     NewNoise(seed ^ saltCave),
		ore:      NewNoise(seed ^ saltOre),
	}
}

// Seed returns the generator seed.
func (g *Generator) Seed() int64 { return g.seed }

// Params returns a copy of the generator parameters.
func (g *Generator) Params() GeneratorParams { return g.params }

// CellSize returns the sub-grid cube edge of the parameters.
func (g *Generator) CellSize() float64 { return g.params.CellSize() }

// HeightAt returns the terrain surface height at world (x, z): a fractal base
// plus sparse mountains. Mountain noise below the threshold contributes
// nothing; above it the excess is squared so peaks stay narrow.
func (g *Generator) HeightAt(x, z float64) float64 {
	p := &g.params
	base := p.TerrainAmplitude * g.terrain.Fractal(x*p.TerrainScale, 0, z*p.TerrainScale,
		p.Octaves, p.Persistence, p.Lacunarity)

	m := g.mountain.Fractal(x*p.MountainScale, 0, z*p.MountainScale,
		p.Octaves, p.Persistence, p.Lacunarity)
	mountain := 0.0
	if m > p.MountainThreshold && p.MountainThreshold < 1 {
		t := (m - p.MountainThreshold) / (1 - p.MountainThreshold)
		mountain = t * t * p.MountainAmplitude
	}
	return base + mountain
}

// DetermineBlockType classifies a world-space point.
func (g *Generator) DetermineBlockType(pos mgl64.Vec3) BlockType {
	return g.blockAt(pos, g.HeightAt(pos[0], pos[2]))
}

func (g *Generator) blockAt(pos mgl64.Vec3, height float64) BlockType {
	p := &g.params
	y := pos[1]

	if y >= height {
		if y < p.SeaLevel {
			return BlockTypeWater
		}
		return BlockTypeAir
	}

	if p.Caves {
		c := g.cave.Fractal(pos[0]*p.CaveScale, y*p.CaveScale, pos[2]*p.CaveScale,
			p.Octaves, p.Persistence, p.Lacunarity)
		if c > p.CaveThreshold {
			return BlockTypeAir
		}
	}

	depth := height - y
	switch {
	case depth <= p.SurfaceDepth:
		if height < p.SeaLevel+p.BeachMargin {
			return BlockTypeSand
		}
		return BlockTypeGrass
	case depth <= p.SurfaceDepth+p.SubsurfaceDepth:
		return BlockTypeDirt
	}

	if depth >= p.OreMinDepth {
		o := g.ore.Sample(pos[0]*p.OreScale, y*p.OreScale, pos[2]*p.OreScale)
		if o > p.OreThreshold {
			return BlockTypeOre
		}
	}
	return BlockTypeStone
}

// PopulateChunk walks the chunk's sub-grid, splits each cube into its five
// tetrahedra and stores a block at every non-air centroid.
func (g *Generator) PopulateChunk(c *Chunk) {
	defer profiling.Track("world.PopulateChunk")()

	res := g.params.Resolution
	if res <= 0 {
		res = 1
	}
	size := g.params.CellSize()
	lo, _ := c.Bounds()

	// Heights depend on (x, z) only; cache per column of centroids.
	heights := make(map[[2]float64]float64, res*res*TetraPerCell)
	height := func(x, z float64) float64 {
		k := [2]float64{x, z}
		if h, ok := heights[k]; ok {
			return h
		}
		h := g.HeightAt(x, z)
		heights[k] = h
		return h
	}

	for ix := 0; ix < res; ix++ {
		for iy := 0; iy < res; iy++ {
			for iz := 0; iz < res; iz++ {
				corner := lo.Add(mgl64.Vec3{float64(ix) * size, float64(iy) * size, float64(iz) * size})
				for _, cell := range CubeCells(corner, size) {
					center := cell.Centroid()
					block := g.blockAt(center, height(center[0], center[2]))
					if block == BlockTypeAir {
						continue
					}
					c.SetBlock(c.WorldToChunkSpace(quadray.FromCartesian(center)), block)
				}
			}
		}
	}
	c.dirty = true
}

// FlatGenerator fills everything below a fixed height with stone and caps it
// with one layer of grass. Used by tools and tests that need predictable
// content.
type FlatGenerator struct {
	Height float64
	Cell   float64
}

// NewFlatGenerator returns a flat generator at height using the default
// sub-grid.
func NewFlatGenerator(height float64) *FlatGenerator {
	return &FlatGenerator{Height: height, Cell: DefaultGeneratorParams().CellSize()}
}

// HeightAt returns the fixed surface height.
func (f *FlatGenerator) HeightAt(_, _ float64) float64 { return f.Height }

// CellSize returns Cell, or the default sub-grid when unset.
func (f *FlatGenerator) CellSize() float64 {
	if f.Cell <= 0 {
		return DefaultGeneratorParams().CellSize()
	}
	return f.Cell
}

// PopulateChunk fills the chunk using the same cell decomposition as Generator.
func (f *FlatGenerator) PopulateChunk(c *Chunk) {
	size := f.CellSize()
	res := int(math.Round(ChunkSize / size))
	lo, _ := c.Bounds()
	for ix := 0; ix < res; ix++ {
		for iy := 0; iy < res; iy++ {
			for iz := 0; iz < res; iz++ {
				corner := lo.Add(mgl64.Vec3{float64(ix) * size, float64(iy) * size, float64(iz) * size})
				for _, cell := range CubeCells(corner, size) {
					center := cell.Centroid()
					if center[1] >= f.Height {
						continue
					}
					block := BlockTypeStone
					if f.Height-center[1] <= size {
						block = BlockTypeGrass
					}
					c.SetBlock(c.WorldToChunkSpace(quadray.FromCartesian(center)), block)
				}
			}
		}
	}
	c.dirty = true
}
