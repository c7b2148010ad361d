package render

import "blockrender/internal/graphics"

// Orientation is a named camera view. Angles are in degrees.
type Orientation struct {
	Name             string
	Yaw, Pitch, Roll float64
}

// The two production views look along opposite diagonals, so together they
// show all six faces of a block upright.
var (
	IsoTopWestNorth    = Orientation{Name: "top-west-north", Yaw: 45, Pitch: 45, Roll: 180}
	IsoBottomEastSouth = Orientation{Name: "bottom-east-south", Yaw: 45, Pitch: 225, Roll: 0}
	// IsoZeros looks straight along +Z; used for debugging only.
	IsoZeros = Orientation{Name: "zeros"}
)

// CompositePair lists the views placed left and right in a thumbnail.
var CompositePair = [2]Orientation{IsoTopWestNorth, IsoBottomEastSouth}

// Orientations returns the whole catalog.
func Orientations() []Orientation {
	return []Orientation{IsoTopWestNorth, IsoBottomEastSouth, IsoZeros}
}

// Lookup finds an orientation by name.
func Lookup(name string) (Orientation, bool) {
	for _, o := range Orientations() {
		if o.Name == name {
			return o, true
		}
	}
	return Orientation{}, false
}

// Apply points the camera along the orientation.
func (o Orientation) Apply(c *graphics.Camera) {
	c.SetView(o.Yaw, o.Pitch, o.Roll)
}
