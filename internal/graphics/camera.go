package graphics

import (
	"math"

	"blockrender/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// ProjectionMode selects how view rays are generated.
type ProjectionMode int

const (
	// Parallel casts rays with a common direction from a plane; FoV is the
	// plane height in blocks.
	Parallel ProjectionMode = iota
	// Pinhole casts rays from a single eye point; FoV is the vertical angle
	// in degrees.
	Pinhole
)

func (m ProjectionMode) String() string {
	switch m {
	case Parallel:
		return "parallel"
	case Pinhole:
		return "pinhole"
	}
	return "unknown"
}

// parallelBackoff moves parallel ray origins behind the eye so that the whole
// voxel lies in front of the image plane.
const parallelBackoff = 4.0

// Camera generates view rays. The default looks along +Z with +Y up.
type Camera struct {
	mode     ProjectionMode
	fov      float64
	position mgl64.Vec3

	transform mgl64.Mat3
	forward   mgl64.Vec3
	right     mgl64.Vec3
	up        mgl64.Vec3
}

// NewCamera returns a parallel camera at the origin with FoV 2.
func NewCamera() *Camera {
	c := &Camera{mode: Parallel, fov: 2}
	c.SetView(0, 0, 0)
	return c
}

func (c *Camera) SetProjectionMode(m ProjectionMode) { c.mode = m }
func (c *Camera) ProjectionMode() ProjectionMode     { return c.mode }
func (c *Camera) SetFoV(fov float64)                 { c.fov = fov }
func (c *Camera) FoV() float64                       { return c.fov }
func (c *Camera) SetPosition(p mgl64.Vec3)           { c.position = p }
func (c *Camera) Position() mgl64.Vec3               { return c.position }

// SetView orients the camera. Angles are in degrees and compose as
// yaw about Y, then pitch about X, then roll about Z (applied innermost).
func (c *Camera) SetView(yaw, pitch, roll float64) {
	c.transform = mgl64.Rotate3DY(mgl64.DegToRad(yaw)).
		Mul3(mgl64.Rotate3DX(mgl64.DegToRad(pitch))).
		Mul3(mgl64.Rotate3DZ(mgl64.DegToRad(roll)))
	c.forward = c.transform.Mul3x1(mgl64.Vec3{0, 0, 1})
	c.right = c.transform.Mul3x1(mgl64.Vec3{1, 0, 0})
	c.up = c.transform.Mul3x1(mgl64.Vec3{0, 1, 0})
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 { return c.forward }

// Up returns the world direction that increasing image y moves along.
func (c *Camera) Up() mgl64.Vec3 { return c.up }

// CalcViewRay sets ray for normalised image coordinates (x, y). The image
// is one unit high; y grows down the image and x to the right.
func (c *Camera) CalcViewRay(ray *physics.Ray, x, y float64) {
	switch c.mode {
	case Pinhole:
		scale := math.Tan(mgl64.DegToRad(c.fov) / 2)
		dir := c.forward.
			Add(c.right.Mul(2 * x * scale)).
			Add(c.up.Mul(2 * y * scale)).
			Normalize()
		ray.Set(c.position, dir)
	default:
		origin := c.position.
			Add(c.right.Mul(c.fov * x)).
			Add(c.up.Mul(c.fov * y)).
			Sub(c.forward.Mul(parallelBackoff))
		ray.Set(origin, c.forward)
	}
}
