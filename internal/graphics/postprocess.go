package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const gamma = 2.2

// PreviewFilter maps a linear color to display space: clamp to [0,1] and
// apply gamma correction. Alpha is passed through clamped.
func PreviewFilter(c mgl64.Vec4) mgl64.Vec4 {
	return mgl64.Vec4{
		math.Pow(mgl64.Clamp(c[0], 0, 1), 1/gamma),
		math.Pow(mgl64.Clamp(c[1], 0, 1), 1/gamma),
		math.Pow(mgl64.Clamp(c[2], 0, 1), 1/gamma),
		mgl64.Clamp(c[3], 0, 1),
	}
}

// ToByte converts a [0,1] channel to 0..255 with rounding.
func ToByte(v float64) uint8 {
	return uint8(math.Round(mgl64.Clamp(v, 0, 1) * 255))
}
