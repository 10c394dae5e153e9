package culling

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is the view state consumed by chunk streaming and culling. Angles
// are in degrees; yaw 0 looks down +X and yaw -90 down -Z.
type Camera struct {
	Position mgl64.Vec3
	Front    mgl64.Vec3
	Up       mgl64.Vec3
	Right    mgl64.Vec3
	WorldUp  mgl64.Vec3

	Yaw   float64
	Pitch float64

	FOV    float64 // vertical field of view
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera at pos with the given angles and default lens.
func NewCamera(pos mgl64.Vec3, yaw, pitch float64) *Camera {
	c := &Camera{
		Position: pos,
		WorldUp:  mgl64.Vec3{0, 1, 0},
		FOV:      45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
	c.SetAngles(yaw, pitch)
	return c
}

// SetAngles updates yaw and pitch and recomputes the basis. Pitch is
// clamped to ±89 degrees.
func (c *Camera) SetAngles(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = max(-89, min(89, pitch))
	c.updateVectors()
}

// Rotate adds to yaw and pitch.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.SetAngles(c.Yaw+dYaw, c.Pitch+dPitch)
}

// Translate moves the camera by delta in world space.
func (c *Camera) Translate(delta mgl64.Vec3) {
	c.Position = c.Position.Add(delta)
}

func (c *Camera) updateVectors() {
	y := mgl64.DegToRad(c.Yaw)
	p := mgl64.DegToRad(c.Pitch)
	c.Front = mgl64.Vec3{
		math.Cos(y) * math.Cos(p),
		math.Sin(p),
		math.Sin(y) * math.Cos(p),
	}.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// ViewMatrix returns the look-at matrix for the current pose.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns the perspective projection for the lens.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}
