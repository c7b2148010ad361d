package render

import (
	"image"
	"image/color"

	"blockrender/internal/graphics"
	"blockrender/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSize is the edge length of one view in pixels.
const DefaultSize = 256

const cameraFoV = 2.0

var voxelCenter = mgl64.Vec3{0.5, 0.5, 0.5}

// Renderer draws single blocks at a fixed image size.
type Renderer struct {
	Width, Height int
}

// NewRenderer returns a renderer for square views of the given size.
func NewRenderer(size int) Renderer {
	return Renderer{Width: size, Height: size}
}

// Render draws block id seen from o into a new Width x Height image. Pixels
// whose ray misses the block are fully transparent. An id outside the
// palette panics.
func (r Renderer) Render(ctx *Context, id int, palette *world.Palette, o Orientation) *image.NRGBA {
	palette.Get(id)
	ctx.Grid.Set(id)

	cam := ctx.Camera
	cam.SetProjectionMode(graphics.Parallel)
	cam.SetFoV(cameraFoV)
	cam.SetPosition(voxelCenter)
	o.Apply(cam)

	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	invHeight := 1 / float64(r.Height)
	halfWidth := float64(r.Width) / (2 * float64(r.Height))
	ray := &ctx.Ray

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			cam.CalcViewRay(ray, -halfWidth+float64(x)*invHeight, -0.5+float64(y)*invHeight)
			if !ctx.Grid.EnterBlock(ray, palette) {
				continue
			}
			c := graphics.PreviewFilter(mgl64.Vec4{ray.Color[0], ray.Color[1], ray.Color[2], 1})
			img.SetNRGBA(x, y, color.NRGBA{
				R: graphics.ToByte(c[0]),
				G: graphics.ToByte(c[1]),
				B: graphics.ToByte(c[2]),
				A: 255,
			})
		}
	}
	return img
}
