package registry

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"blockrender/internal/physics"
	"blockrender/internal/texturepack"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	// mark the top-left texel so UV orientation is observable
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testPack(t *testing.T) *texturepack.Pack {
	return texturepack.FromFS(fstest.MapFS{
		"blockstates/stone.json": {Data: []byte(`{"variants": {"": {"model": "minecraft:block/stone"}}}`)},
		"blockstates/slab.json": {Data: []byte(`{"variants": {
			"type=bottom": {"model": "block/slab"},
			"type=top": {"model": "block/slab_top"}
		}}`)},
		"blockstates/stairs.json": {Data: []byte(`{"variants": {
			"facing=north": {"model": "block/wall_plate"},
			"facing=east": {"model": "block/wall_plate", "y": 90}
		}}`)},
		"blockstates/fence.json": {Data: []byte(`{"multipart": [
			{"apply": {"model": "block/fence_post"}},
			{"when": {"north": "true"}, "apply": {"model": "block/wall_plate"}},
			{"when": {"east": "true"}, "apply": {"model": "block/wall_plate", "y": 90}}
		]}`)},
		"blockstates/broken.json": {Data: []byte(`{"variants": {"": {"model": "block/does_not_exist"}}}`)},
		"models/block/cube_all.json": {Data: []byte(`{
			"elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {
				"up": {"texture": "#all", "tintindex": 0}, "down": {"texture": "#all"},
				"north": {"texture": "#all"}, "south": {"texture": "#all"},
				"east": {"texture": "#all"}, "west": {"texture": "#all"}
			}}]
		}`)},
		"models/block/stone.json":    {Data: []byte(`{"parent": "block/cube_all", "textures": {"all": "block/stone"}}`)},
		"models/block/slab.json":     {Data: []byte(`{"elements": [{"from": [0,0,0], "to": [16,8,16], "faces": {"up": {"texture": "block/stone"}}}]}`)},
		"models/block/slab_top.json": {Data: []byte(`{"elements": [{"from": [0,8,0], "to": [16,16,16], "faces": {"up": {"texture": "block/missing"}}}]}`)},
		"models/block/wall_plate.json": {Data: []byte(`{"elements": [{"from": [0,0,0], "to": [16,16,4], "faces": {"north": {"texture": "block/stone"}}}]}`)},
		"models/block/fence_post.json": {Data: []byte(`{"elements": [{"from": [6,0,6], "to": [10,16,10], "faces": {"up": {"texture": "block/stone"}}}]}`)},
		"textures/block/stone.png":   {Data: pngBytes(t, color.NRGBA{100, 100, 100, 255})},
	})
}

func TestResolveFromPack(t *testing.T) {
	r := New(testPack(t))
	def := r.Resolve("minecraft:stone", nil)
	require.NotNil(t, def)
	assert.False(t, def.Fallback)
	assert.True(t, def.IsFullBlock)
	require.Len(t, def.Elements, 1)

	up := def.Elements[0].Faces[physics.FaceTop]
	require.NotNil(t, up)
	assert.True(t, up.Tinted)
	assert.Equal(t, [4]float64{0, 0, 16, 16}, up.UV)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, up.Sample(0, 0))
	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, up.Sample(0.5, 0.5))
	assert.False(t, def.Elements[0].Faces[physics.FaceNorth].Tinted)

	// cached per state
	assert.Same(t, def, r.Resolve("minecraft:stone", nil))
	assert.Equal(t, 1, r.Len())
}

func TestResolveVariantByProperties(t *testing.T) {
	r := New(testPack(t))
	bottom := r.Resolve("minecraft:slab", map[string]string{"type": "bottom"})
	top := r.Resolve("minecraft:slab", map[string]string{"type": "top"})
	require.Len(t, bottom.Elements, 1)
	require.Len(t, top.Elements, 1)
	assert.Equal(t, 0.5, bottom.Elements[0].Max[1])
	assert.Equal(t, 0.5, top.Elements[0].Min[1])
	assert.False(t, bottom.IsFullBlock)

	// texture missing from the pack degrades to a flat color
	tex := top.Elements[0].Faces[physics.FaceTop].Texture
	assert.Equal(t, image.Rect(0, 0, 1, 1), tex.Bounds())
}

func TestResolveRotatedVariant(t *testing.T) {
	r := New(testPack(t))
	north := r.Resolve("minecraft:stairs", map[string]string{"facing": "north"})
	east := r.Resolve("minecraft:stairs", map[string]string{"facing": "east"})
	require.Len(t, north.Elements, 1)
	require.Len(t, east.Elements, 1)

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, north.Elements[0].Min)
	assert.Equal(t, mgl64.Vec3{1, 1, 0.25}, north.Elements[0].Max)
	assert.NotNil(t, north.Elements[0].Faces[physics.FaceNorth])

	assert.Equal(t, mgl64.Vec3{0.75, 0, 0}, east.Elements[0].Min)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, east.Elements[0].Max)
	assert.Nil(t, east.Elements[0].Faces[physics.FaceNorth])
	assert.NotNil(t, east.Elements[0].Faces[physics.FaceEast])
}

func TestResolveMultipart(t *testing.T) {
	r := New(testPack(t))
	post := r.Resolve("minecraft:fence", map[string]string{"north": "false", "east": "false"})
	require.Len(t, post.Elements, 1)
	assert.False(t, post.Fallback)

	both := r.Resolve("minecraft:fence", map[string]string{"north": "true", "east": "true"})
	require.Len(t, both.Elements, 3)
	assert.Equal(t, mgl64.Vec3{1, 1, 0.25}, both.Elements[1].Max)
	assert.Equal(t, mgl64.Vec3{0.75, 0, 0}, both.Elements[2].Min)
	assert.False(t, both.IsFullBlock)
}

func TestResolveFallbacks(t *testing.T) {
	r := New(testPack(t))
	for _, name := range []string{"minecraft:unknown_block", "minecraft:broken"} {
		def := r.Resolve(name, nil)
		assert.True(t, def.Fallback, name)
		require.Len(t, def.Elements, 1, name)
		for f := range def.Elements[0].Faces {
			require.NotNil(t, def.Elements[0].Faces[f], name)
		}
	}
}

func TestResolveWithoutPack(t *testing.T) {
	r := New(nil)
	def := r.Resolve("minecraft:dirt", nil)
	assert.True(t, def.Fallback)
	c := def.Elements[0].Faces[physics.FaceTop].Sample(0.3, 0.7)
	assert.Equal(t, FallbackColor("minecraft:dirt"), c)
	assert.Equal(t, FallbackColor("dirt"), c, "namespace does not change the color")
	assert.Equal(t, uint8(255), c.A)

	for _, air := range []string{"minecraft:air", "minecraft:cave_air", "void_air"} {
		assert.Empty(t, r.Resolve(air, nil).Elements, air)
	}
}

func TestStateKeyIsOrderIndependent(t *testing.T) {
	a := stateKey("minecraft:stairs", map[string]string{"facing": "north", "half": "top"})
	b := stateKey("minecraft:stairs", map[string]string{"half": "top", "facing": "north"})
	assert.Equal(t, a, b)
	assert.Equal(t, "minecraft:stairs[facing=north,half=top]", a)
	assert.Equal(t, "minecraft:stone", stateKey("minecraft:stone", nil))
}

func TestFaceCoords(t *testing.T) {
	e := Element{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	s, tt := e.FaceCoords(physics.FaceTop, mgl64.Vec3{0.25, 1, 0.75})
	assert.InDelta(t, 0.25, s, 1e-12)
	assert.InDelta(t, 0.75, tt, 1e-12)

	// on a side face the top edge of the block is t=0
	s, tt = e.FaceCoords(physics.FaceSouth, mgl64.Vec3{0.25, 1, 1})
	assert.InDelta(t, 0.25, s, 1e-12)
	assert.InDelta(t, 0.0, tt, 1e-12)

	s, _ = e.FaceCoords(physics.FaceNorth, mgl64.Vec3{0.25, 0.5, 0})
	assert.InDelta(t, 0.75, s, 1e-12)
}

func TestTint(t *testing.T) {
	v := Tint(0xFF8000)
	assert.InDelta(t, 1.0, v[0], 1e-12)
	assert.InDelta(t, 128.0/255, v[1], 1e-12)
	assert.InDelta(t, 0.0, v[2], 1e-12)
}
