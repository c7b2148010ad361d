package world

import (
	"math"
	"slices"

	"blockrender/internal/physics"
	"blockrender/internal/registry"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	voxelMin = mgl64.Vec3{0, 0, 0}
	voxelMax = mgl64.Vec3{1, 1, 1}
)

// faceShade darkens faces by direction the way the game's flat lighting does.
var faceShade = [6]float64{
	physics.FaceNorth:  0.8,
	physics.FaceSouth:  0.8,
	physics.FaceEast:   0.6,
	physics.FaceWest:   0.6,
	physics.FaceTop:    1.0,
	physics.FaceBottom: 0.5,
}

type faceHit struct {
	t    float64
	elem *registry.Element
	face physics.BlockFace
}

// Grid is a one-voxel world occupying [0,1]^3. A grid belongs to a single
// render context and is rewritten before every block; it is not safe for
// concurrent use.
type Grid struct {
	id   int
	hits []faceHit
}

// NewGrid returns an empty grid holding block id 0.
func NewGrid() *Grid {
	return &Grid{hits: make([]faceHit, 0, 16)}
}

// Set places block id in the voxel, replacing the previous one.
func (g *Grid) Set(id int) {
	g.id = id
}

// Block returns the id currently in the voxel.
func (g *Grid) Block() int {
	return g.id
}

// EnterBlock traces ray through the voxel. On a hit it records the
// distance, face, point and the shaded linear color on the ray and returns
// true. Texels with alpha below one half are cut out and the ray continues
// to the next face behind them.
func (g *Grid) EnterBlock(ray *physics.Ray, palette *Palette) bool {
	def := palette.Get(g.id).Def
	if def == nil || len(def.Elements) == 0 {
		return false
	}
	if _, ok := physics.IntersectSpan(ray, voxelMin, voxelMax); !ok {
		return false
	}

	g.hits = g.hits[:0]
	for i := range def.Elements {
		e := &def.Elements[i]
		span, ok := physics.IntersectSpan(ray, e.Min, e.Max)
		if !ok {
			continue
		}
		if span.Near >= 0 {
			g.hits = append(g.hits, faceHit{t: span.Near, elem: e, face: span.NearFace})
		}
		g.hits = append(g.hits, faceHit{t: span.Far, elem: e, face: span.FarFace})
	}
	slices.SortFunc(g.hits, func(a, b faceHit) int {
		switch {
		case a.t < b.t:
			return -1
		case a.t > b.t:
			return 1
		}
		return 0
	})

	for _, h := range g.hits {
		tex := h.elem.Faces[h.face]
		if tex == nil {
			continue
		}
		p := ray.At(h.t)
		s, t := h.elem.FaceCoords(h.face, p)
		texel := tex.Sample(s, t)
		if texel.A < 128 {
			continue
		}

		c := mgl64.Vec3{srgbToLinear(texel.R), srgbToLinear(texel.G), srgbToLinear(texel.B)}
		c = c.Mul(faceShade[h.face])
		if tex.Tinted {
			tint := registry.Tint(def.TintColor)
			c = mgl64.Vec3{c[0] * tint[0], c[1] * tint[1], c[2] * tint[2]}
		}

		ray.Distance = h.t
		ray.Face = h.face
		ray.Point = p
		ray.Color = mgl64.Vec4{c[0], c[1], c[2], 1}
		return true
	}
	return false
}

func srgbToLinear(v uint8) float64 {
	return math.Pow(float64(v)/255, 2.2)
}
