package culling

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is n·p + D = 0 with a unit normal pointing into the frustum.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Distance returns the signed distance from p; positive is inside.
func (pl Plane) Distance(p mgl64.Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Plane order in Frustum.Planes.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

// Corner order in Frustum.Corners.
const (
	NearTopLeft = iota
	NearTopRight
	NearBottomLeft
	NearBottomRight
	FarTopLeft
	FarTopRight
	FarBottomLeft
	FarBottomRight
)

// Frustum is the camera's view volume, rebuilt by Update whenever the camera
// moves.
type Frustum struct {
	Planes  [6]Plane
	Corners [8]mgl64.Vec3
}

// NewFrustum builds a frustum for cam.
func NewFrustum(cam *Camera) *Frustum {
	f := &Frustum{}
	f.Update(cam)
	return f
}

// Update rebuilds corners and planes from the camera basis and lens.
func (f *Frustum) Update(cam *Camera) {
	tanHalf := math.Tan(mgl64.DegToRad(cam.FOV) / 2)
	nh := tanHalf * cam.Near
	nw := nh * cam.Aspect
	fh := tanHalf * cam.Far
	fw := fh * cam.Aspect

	nc := cam.Position.Add(cam.Front.Mul(cam.Near))
	fc := cam.Position.Add(cam.Front.Mul(cam.Far))
	up, right := cam.Up, cam.Right

	f.Corners[NearTopLeft] = nc.Add(up.Mul(nh)).Sub(right.Mul(nw))
	f.Corners[NearTopRight] = nc.Add(up.Mul(nh)).Add(right.Mul(nw))
	f.Corners[NearBottomLeft] = nc.Sub(up.Mul(nh)).Sub(right.Mul(nw))
	f.Corners[NearBottomRight] = nc.Sub(up.Mul(nh)).Add(right.Mul(nw))
	f.Corners[FarTopLeft] = fc.Add(up.Mul(fh)).Sub(right.Mul(fw))
	f.Corners[FarTopRight] = fc.Add(up.Mul(fh)).Add(right.Mul(fw))
	f.Corners[FarBottomLeft] = fc.Sub(up.Mul(fh)).Sub(right.Mul(fw))
	f.Corners[FarBottomRight] = fc.Sub(up.Mul(fh)).Add(right.Mul(fw))

	interior := nc.Add(fc).Mul(0.5)
	c := &f.Corners
	f.Planes[PlaneNear] = planeFromPoints(c[NearTopLeft], c[NearTopRight], c[NearBottomLeft], interior)
	f.Planes[PlaneFar] = planeFromPoints(c[FarTopLeft], c[FarTopRight], c[FarBottomLeft], interior)
	f.Planes[PlaneLeft] = planeFromPoints(c[NearTopLeft], c[NearBottomLeft], c[FarTopLeft], interior)
	f.Planes[PlaneRight] = planeFromPoints(c[NearTopRight], c[NearBottomRight], c[FarTopRight], interior)
	f.Planes[PlaneTop] = planeFromPoints(c[NearTopLeft], c[NearTopRight], c[FarTopLeft], interior)
	f.Planes[PlaneBottom] = planeFromPoints(c[NearBottomLeft], c[NearBottomRight], c[FarBottomLeft], interior)
}

// planeFromPoints returns the plane through a, b, c facing inside.
func planeFromPoints(a, b, c, inside mgl64.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	pl := normalizePlane(Plane{Normal: n, D: -n.Dot(a)})
	if pl.Distance(inside) < 0 {
		pl = Plane{Normal: pl.Normal.Mul(-1), D: -pl.D}
	}
	return pl
}

func normalizePlane(p Plane) Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), D: p.D / l}
}

// SphereInFrustum reports whether a sphere may be visible. A sphere is
// culled only when it lies entirely behind one plane, so spheres near
// corners can pass while outside.
func (f *Frustum) SphereInFrustum(center mgl64.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].Distance(center) < -radius {
			return false
		}
	}
	return true
}

// PointInFrustum is SphereInFrustum with zero radius.
func (f *Frustum) PointInFrustum(p mgl64.Vec3) bool {
	return f.SphereInFrustum(p, 0)
}

// ChunkBoundingRadius returns the culling radius for a cubic chunk of the
// given edge: the circumscribing sphere inflated by half again, since
// rendered tetrahedra can poke past the cube.
func ChunkBoundingRadius(size float64) float64 {
	return 1.5 * (math.Sqrt(3) / 2 * size)
}
