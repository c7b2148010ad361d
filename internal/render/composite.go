package render

import (
	"image"

	"blockrender/internal/world"

	"golang.org/x/image/draw"
)

// Composite renders the two thumbnail views of block id side by side on a
// 2*Width x Height canvas.
func (r Renderer) Composite(ctx *Context, id int, palette *world.Palette) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, 2*r.Width, r.Height))
	for i, o := range CompositePair {
		view := r.Render(ctx, id, palette, o)
		draw.Copy(canvas, image.Pt(i*r.Width, 0), view, view.Bounds(), draw.Src, nil)
	}
	return canvas
}
