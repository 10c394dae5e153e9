package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"quadcraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// previewOptions describes the sampled area. Each sample covers Step world
// units and is drawn as Scale x Scale pixels.
type previewOptions struct {
	CenterX, CenterZ float64
	Samples          int
	Step             float64
	Scale            int
	SeaLevel         float64
	Legend           bool
}

// blockColors is the base color of each surface block.
var blockColors = map[world.BlockType]color.RGBA{
	world.BlockTypeStone: {128, 128, 128, 255},
	world.BlockTypeDirt:  {121, 85, 58, 255},
	world.BlockTypeGrass: {86, 160, 60, 255},
	world.BlockTypeWater: {48, 96, 200, 255},
	world.BlockTypeSand:  {218, 204, 150, 255},
	world.BlockTypeOre:   {190, 120, 60, 255},
}

var legendOrder = []world.BlockType{
	world.BlockTypeGrass,
	world.BlockTypeSand,
	world.BlockTypeDirt,
	world.BlockTypeStone,
	world.BlockTypeWater,
}

const (
	legendRow  = 14
	legendPad  = 4
	legendSwat = 10
)

type classifier interface {
	DetermineBlockType(pos mgl64.Vec3) world.BlockType
}

// surfaceBlock returns the block drawn for a column with the given height.
func surfaceBlock(gen world.TerrainGenerator, x, z, height, seaLevel float64) world.BlockType {
	if height < seaLevel {
		return world.BlockTypeWater
	}
	if c, ok := gen.(classifier); ok {
		if b := c.DetermineBlockType(mgl64.Vec3{x, height - 0.5, z}); b != world.BlockTypeAir {
			return b
		}
	}
	return world.BlockTypeGrass
}

// renderHeightmap samples gen on a square grid and returns one pixel per
// sample, shaded by height relative to the sampled range.
func renderHeightmap(gen world.TerrainGenerator, o previewOptions) (*image.RGBA, float64, float64) {
	n := o.Samples
	heights := make([]float64, n*n)
	minH, maxH := math.Inf(1), math.Inf(-1)
	half := float64(n) / 2
	for iz := 0; iz < n; iz++ {
		for ix := 0; ix < n; ix++ {
			x := o.CenterX + (float64(ix)-half)*o.Step
			z := o.CenterZ + (float64(iz)-half)*o.Step
			h := gen.HeightAt(x, z)
			heights[iz*n+ix] = h
			minH = math.Min(minH, h)
			maxH = math.Max(maxH, h)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, n, n))
	span := maxH - minH
	for iz := 0; iz < n; iz++ {
		for ix := 0; ix < n; ix++ {
			x := o.CenterX + (float64(ix)-half)*o.Step
			z := o.CenterZ + (float64(iz)-half)*o.Step
			h := heights[iz*n+ix]
			base := blockColors[surfaceBlock(gen, x, z, h, o.SeaLevel)]
			t := 0.5
			if span > 0 {
				t = (h - minH) / span
			}
			img.SetRGBA(ix, iz, shade(base, 0.6+0.6*t))
		}
	}
	return img, minH, maxH
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*f)))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// renderPreview builds the final image: the upscaled heightmap with an
// optional legend strip below it.
func renderPreview(gen world.TerrainGenerator, o previewOptions) *image.RGBA {
	src, minH, maxH := renderHeightmap(gen, o)
	scale := max(o.Scale, 1)
	w := src.Bounds().Dx() * scale
	h := src.Bounds().Dy() * scale

	legendH := 0
	lines := legendLines(minH, maxH)
	if o.Legend {
		legendH = legendPad*2 + legendRow*len(lines)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h+legendH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{24, 24, 24, 255}), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, image.Rect(0, 0, w, h), src, src.Bounds(), draw.Src, nil)

	if o.Legend {
		drawLegend(dst, h, lines)
	}
	return dst
}

type legendLine struct {
	swatch *color.RGBA
	text   string
}

func legendLines(minH, maxH float64) []legendLine {
	lines := make([]legendLine, 0, len(legendOrder)+1)
	for _, b := range legendOrder {
		c := blockColors[b]
		lines = append(lines, legendLine{swatch: &c, text: b.String()})
	}
	lines = append(lines, legendLine{text: fmt.Sprintf("height %.1f .. %.1f", minH, maxH)})
	return lines
}

func drawLegend(dst *image.RGBA, top int, lines []legendLine) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	for i, l := range lines {
		y := top + legendPad + i*legendRow
		x := legendPad
		if l.swatch != nil {
			r := image.Rect(x, y+2, x+legendSwat, y+2+legendSwat)
			draw.Draw(dst, r, image.NewUniform(*l.swatch), image.Point{}, draw.Src)
			x += legendSwat + legendPad
		}
		d.Dot = fixed.P(x, y+basicfont.Face7x13.Ascent)
		d.DrawString(l.text)
	}
}
