package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockFace identifies a face of an axis-aligned box. North is -Z, east is +X.
type BlockFace int

const (
	FaceNorth BlockFace = iota
	FaceSouth
	FaceEast
	FaceWest
	FaceTop
	FaceBottom
)

var faceNames = [...]string{"north", "south", "east", "west", "up", "down"}

// String returns the face name as used in block model JSON.
func (f BlockFace) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "unknown"
	}
	return faceNames[f]
}

// ParseFace maps a model face name to a BlockFace.
func ParseFace(name string) (BlockFace, bool) {
	for i, n := range faceNames {
		if n == name {
			return BlockFace(i), true
		}
	}
	return 0, false
}

// Ray is a reusable ray. Origin and Dir are set by the camera; the
// intersection code writes the hit distance, face, point and the shaded
// linear color back onto it.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3

	Distance float64
	Face     BlockFace
	Point    mgl64.Vec3
	Color    mgl64.Vec4
}

// Set reinitialises the ray for a new cast.
func (r *Ray) Set(origin, dir mgl64.Vec3) {
	r.Origin = origin
	r.Dir = dir
	r.Distance = 0
	r.Face = FaceNorth
	r.Point = mgl64.Vec3{}
	r.Color = mgl64.Vec4{}
}

// At returns the point at distance t along the ray.
func (r *Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// BoxHit is the span of a ray inside a box.
type BoxHit struct {
	Near, Far         float64
	NearFace, FarFace BlockFace
}

// IntersectBox intersects the ray with the box [min, max] using the slab
// method and reports the entry distance and the face crossed on entry.
// Hits behind the origin are misses.
func IntersectBox(r *Ray, min, max mgl64.Vec3) (float64, BlockFace, bool) {
	h, ok := IntersectSpan(r, min, max)
	if !ok || h.Near < 0 {
		return 0, 0, false
	}
	return h.Near, h.NearFace, true
}

// IntersectSpan returns both the entry and the exit of the ray through the
// box. A ray starting inside the box has a negative Near.
func IntersectSpan(r *Ray, min, max mgl64.Vec3) (BoxHit, bool) {
	h := BoxHit{Near: math.Inf(-1), Far: math.Inf(1)}

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		if d == 0 {
			if o < min[axis] || o > max[axis] {
				return BoxHit{}, false
			}
			continue
		}
		inv := 1 / d
		t0 := (min[axis] - o) * inv
		t1 := (max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > h.Near {
			h.Near = t0
			h.NearFace = entryFace(axis, d)
		}
		if t1 < h.Far {
			h.Far = t1
			h.FarFace = entryFace(axis, -d)
		}
		if h.Near > h.Far {
			return BoxHit{}, false
		}
	}
	if h.Far < 0 {
		return BoxHit{}, false
	}
	return h, true
}

// entryFace is the face a ray travelling with sign(d) along axis enters through.
func entryFace(axis int, d float64) BlockFace {
	switch axis {
	case 0:
		if d > 0 {
			return FaceWest
		}
		return FaceEast
	case 1:
		if d > 0 {
			return FaceBottom
		}
		return FaceTop
	default:
		if d > 0 {
			return FaceNorth
		}
		return FaceSouth
	}
}
