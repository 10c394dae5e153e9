package quadray

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Root2 is √2, the scale between quadray units and Cartesian units.
	Root2 = 1.4142135623730951

	// S3 converts tetravolumes to cubic volumes (√(9/8)).
	S3 = 1.0606601717798212

	// Epsilon is the default tolerance for Equals.
	Epsilon = 1e-5
)

// Quadray is a point expressed as projections onto the four vertex
// directions of a regular tetrahedron. The representation carries one
// redundant degree of freedom: adding the same amount to every component
// does not move the point.
type Quadray struct {
	A, B, C, D float64
}

var (
	Origin = Quadray{}

	// Basis vectors, one per tetrahedron vertex.
	BasisA = Quadray{1, 0, 0, 0}
	BasisB = Quadray{0, 1, 0, 0}
	BasisC = Quadray{0, 0, 1, 0}
	BasisD = Quadray{0, 0, 0, 1}
)

// New returns the quadray (a, b, c, d) as given, without normalizing.
func New(a, b, c, d float64) Quadray {
	return Quadray{A: a, B: b, C: c, D: d}
}

// Normalized returns the canonical form: the minimum component subtracted
// from all four, so at least one component is zero.
func (q Quadray) Normalized() Quadray {
	m := min(q.A, q.B, q.C, q.D)
	return Quadray{q.A - m, q.B - m, q.C - m, q.D - m}
}

// ToCartesian maps the quadray to Euclidean space.
func (q Quadray) ToCartesian() mgl64.Vec3 {
	const s = 1.0 / Root2
	return mgl64.Vec3{
		s * (q.A - q.B - q.C + q.D),
		s * (q.A - q.B + q.C - q.D),
		s * (q.A + q.B - q.C - q.D),
	}
}

// FromCartesian projects v onto the four basis directions, clamping each
// axis contribution into the positive cone, and returns the normalized result.
func FromCartesian(v mgl64.Vec3) Quadray {
	const s = 1.0 / Root2
	px, nx := math.Max(0, v[0]), math.Max(0, -v[0])
	py, ny := math.Max(0, v[1]), math.Max(0, -v[1])
	pz, nz := math.Max(0, v[2]), math.Max(0, -v[2])

	return Quadray{
		A: s * (px + py + pz),
		B: s * (nx + ny + pz),
		C: s * (nx + py + nz),
		D: s * (px + ny + nz),
	}.Normalized()
}

// Length is the quadray norm √((a²+b²+c²+d²)/2). The ½ factor compensates
// for the redundant component; the result equals the Cartesian length only
// for zero-sum representatives, so compare ToCartesian values when exact
// Euclidean distances matter.
func (q Quadray) Length() float64 {
	return math.Sqrt((q.A*q.A + q.B*q.B + q.C*q.C + q.D*q.D) / 2)
}

// Distance returns the length of q1-q2. Neither argument is normalized first.
func Distance(q1, q2 Quadray) float64 {
	return q1.Sub(q2).Length()
}

// DistanceTo is the method form of Distance.
func (q Quadray) DistanceTo(o Quadray) float64 {
	return Distance(q, o)
}

// Add returns the normalized componentwise sum.
func (q Quadray) Add(o Quadray) Quadray {
	return Quadray{q.A + o.A, q.B + o.B, q.C + o.C, q.D + o.D}.Normalized()
}

// Sub returns the raw componentwise difference. It is not normalized so the
// sign information survives for Length.
func (q Quadray) Sub(o Quadray) Quadray {
	return Quadray{q.A - o.A, q.B - o.B, q.C - o.C, q.D - o.D}
}

// Scale multiplies every component by f.
func (q Quadray) Scale(f float64) Quadray {
	return Quadray{q.A * f, q.B * f, q.C * f, q.D * f}
}

// Neg flips every component.
func (q Quadray) Neg() Quadray {
	return Quadray{-q.A, -q.B, -q.C, -q.D}
}

// Equals compares the normalized forms componentwise within eps.
func (q Quadray) Equals(o Quadray, eps float64) bool {
	n1, n2 := q.Normalized(), o.Normalized()
	return math.Abs(n1.A-n2.A) < eps &&
		math.Abs(n1.B-n2.B) < eps &&
		math.Abs(n1.C-n2.C) < eps &&
		math.Abs(n1.D-n2.D) < eps
}

// ApproxEqual is Equals with the default tolerance.
func (q Quadray) ApproxEqual(o Quadray) bool {
	return q.Equals(o, Epsilon)
}

// IsFinite reports whether every component is a finite number. The core
// does not validate input; callers that take coordinates from untrusted
// sources should check this first.
func (q Quadray) IsFinite() bool {
	for _, v := range [4]float64{q.A, q.B, q.C, q.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Components returns the four components in a, b, c, d order.
func (q Quadray) Components() [4]float64 {
	return [4]float64{q.A, q.B, q.C, q.D}
}

func (q Quadray) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)", q.A, q.B, q.C, q.D)
}
