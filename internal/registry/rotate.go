package registry

import (
	"blockrender/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// faceRotX maps each face to where a quarter turn about X carries it:
// north goes down, down goes south.
var faceRotX = [6]physics.BlockFace{
	physics.FaceNorth:  physics.FaceBottom,
	physics.FaceSouth:  physics.FaceTop,
	physics.FaceEast:   physics.FaceEast,
	physics.FaceWest:   physics.FaceWest,
	physics.FaceTop:    physics.FaceNorth,
	physics.FaceBottom: physics.FaceSouth,
}

// faceRotY is a quarter turn about Y, clockwise seen from above.
var faceRotY = [6]physics.BlockFace{
	physics.FaceNorth:  physics.FaceEast,
	physics.FaceSouth:  physics.FaceWest,
	physics.FaceEast:   physics.FaceSouth,
	physics.FaceWest:   physics.FaceNorth,
	physics.FaceTop:    physics.FaceTop,
	physics.FaceBottom: physics.FaceBottom,
}

// rotateElement applies a blockstate rotation: x degrees about the X axis,
// then y degrees about the Y axis, both around the block centre. Angles
// are rounded down to quarter turns. Face textures move with their faces;
// their UV orientation is not rotated.
func rotateElement(e Element, x, y int) Element {
	for i := 0; i < quarterTurns(x); i++ {
		e = turn(e, func(p mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{p[0], p[2], 1 - p[1]} }, &faceRotX)
	}
	for i := 0; i < quarterTurns(y); i++ {
		e = turn(e, func(p mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{1 - p[2], p[1], p[0]} }, &faceRotY)
	}
	return e
}

func quarterTurns(deg int) int {
	return ((deg/90)%4 + 4) % 4
}

func turn(e Element, move func(mgl64.Vec3) mgl64.Vec3, faces *[6]physics.BlockFace) Element {
	a, b := move(e.Min), move(e.Max)
	out := Element{
		Min: mgl64.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl64.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
	for f, tex := range e.Faces {
		out.Faces[faces[f]] = tex
	}
	return out
}
