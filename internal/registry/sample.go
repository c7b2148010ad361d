package registry

import (
	"image/color"
	"math"

	"blockrender/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// FaceCoords maps a point on the given face of the element to (s, t) in
// [0,1], oriented the same way as the automatic face UVs: s runs left to
// right and t top to bottom as seen from outside the face.
func (e *Element) FaceCoords(face physics.BlockFace, p mgl64.Vec3) (s, t float64) {
	frac := func(v, lo, hi float64) float64 {
		if hi-lo <= 0 {
			return 0
		}
		return (v - lo) / (hi - lo)
	}
	lo, hi := e.Min, e.Max
	switch face {
	case physics.FaceTop:
		return frac(p[0], lo[0], hi[0]), frac(p[2], lo[2], hi[2])
	case physics.FaceBottom:
		return frac(p[0], lo[0], hi[0]), 1 - frac(p[2], lo[2], hi[2])
	case physics.FaceNorth:
		return 1 - frac(p[0], lo[0], hi[0]), 1 - frac(p[1], lo[1], hi[1])
	case physics.FaceSouth:
		return frac(p[0], lo[0], hi[0]), 1 - frac(p[1], lo[1], hi[1])
	case physics.FaceWest:
		return frac(p[2], lo[2], hi[2]), 1 - frac(p[1], lo[1], hi[1])
	default:
		return 1 - frac(p[2], lo[2], hi[2]), 1 - frac(p[1], lo[1], hi[1])
	}
}

// Sample returns the texel at face coordinates (s, t) with nearest filtering.
func (f *FaceTexture) Sample(s, t float64) color.NRGBA {
	u := (f.UV[0] + s*(f.UV[2]-f.UV[0])) / 16
	v := (f.UV[1] + t*(f.UV[3]-f.UV[1])) / 16

	b := f.Texture.Bounds()
	x := clampIndex(int(math.Floor(u*float64(b.Dx()))), b.Dx())
	y := clampIndex(int(math.Floor(v*float64(b.Dy()))), b.Dy())
	return f.Texture.NRGBAAt(b.Min.X+x, b.Min.Y+y)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Tint returns the tint color as linear-ish [0,1] multipliers.
func Tint(c uint32) mgl64.Vec3 {
	return mgl64.Vec3{
		float64((c>>16)&0xFF) / 255,
		float64((c>>8)&0xFF) / 255,
		float64(c&0xFF) / 255,
	}
}
