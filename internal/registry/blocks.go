package registry

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"blockrender/internal/physics"
	"blockrender/internal/texturepack"
	"blockrender/pkg/blockmodel"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// GrassTint is applied to tinted faces of grass-like blocks.
	GrassTint uint32 = 0x91BD59
	// FoliageTint is applied to tinted faces of leaves and vines.
	FoliageTint uint32 = 0x77AB2F
)

// FaceTexture is one textured face of a model element.
type FaceTexture struct {
	Texture *image.NRGBA
	// UV is the texture rectangle (u0, v0, u1, v1) in 1/16 texture units.
	UV     [4]float64
	Tinted bool
}

// Element is an axis-aligned box of a block model in block units ([0,1]).
type Element struct {
	Min, Max mgl64.Vec3
	Faces    [6]*FaceTexture
}

// BlockDefinition is the shading and geometry of one block state.
type BlockDefinition struct {
	Name      string
	Elements  []Element
	TintColor uint32
	// IsFullBlock is set when one element covers the whole voxel.
	IsFullBlock bool
	// Fallback is set when the definition was synthesised instead of
	// loaded from a texture pack.
	Fallback bool
}

// Registry resolves block names to definitions. It is built once at startup,
// before any rendering goroutine exists; definitions it hands out are never
// mutated afterwards.
type Registry struct {
	pack   *texturepack.Pack
	loader *blockmodel.Loader

	mu       sync.Mutex
	defs     map[string]*BlockDefinition
	textures map[string]*image.NRGBA
}

// New creates a registry. A nil pack makes every block a flat-colored cube.
func New(pack *texturepack.Pack) *Registry {
	r := &Registry{
		pack:     pack,
		defs:     make(map[string]*BlockDefinition),
		textures: make(map[string]*image.NRGBA),
	}
	if pack != nil {
		r.loader = blockmodel.NewLoader(pack.FS)
	}
	return r
}

// Resolve returns the definition for the given block state. Blocks that
// cannot be loaded from the pack degrade to a fallback cube; this never fails.
func (r *Registry) Resolve(name string, props map[string]string) *BlockDefinition {
	key := stateKey(name, props)

	r.mu.Lock()
	defer r.mu.Unlock()
	if def, ok := r.defs[key]; ok {
		return def
	}

	var def *BlockDefinition
	switch {
	case IsAir(name):
		def = &BlockDefinition{Name: name}
	case r.loader != nil:
		var err error
		def, err = r.loadFromModel(name, props)
		if err != nil {
			slog.Warn("falling back to flat block", "block", name, "err", err)
			def = fallbackDefinition(name)
		}
	default:
		def = fallbackDefinition(name)
	}

	r.defs[key] = def
	return def
}

// Len reports how many distinct block states have been resolved.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.defs)
}

func (r *Registry) loadFromModel(name string, props map[string]string) (*BlockDefinition, error) {
	bs, err := r.loader.LoadBlockState(name)
	if err != nil {
		return nil, err
	}
	parts := bs.Parts(props)
	if len(parts) == 0 {
		return nil, fmt.Errorf("blockstate %s has no variants", name)
	}

	def := &BlockDefinition{Name: name, TintColor: tintFor(name)}
	for _, variant := range parts {
		if variant.Model == "" {
			return nil, fmt.Errorf("blockstate %s has a part without a model", name)
		}
		model, err := r.loader.LoadModel(variant.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s for block %s: %w", variant.Model, name, err)
		}
		for _, e := range model.Elements {
			elem := rotateElement(r.element(e, model, name), variant.X, variant.Y)
			if elem.Min == (mgl64.Vec3{0, 0, 0}) && elem.Max == (mgl64.Vec3{1, 1, 1}) {
				def.IsFullBlock = true
			}
			def.Elements = append(def.Elements, elem)
		}
	}
	return def, nil
}

func (r *Registry) element(e blockmodel.Element, model *blockmodel.Model, block string) Element {
	elem := Element{
		Min: mgl64.Vec3{float64(e.From[0]) / 16, float64(e.From[1]) / 16, float64(e.From[2]) / 16},
		Max: mgl64.Vec3{float64(e.To[0]) / 16, float64(e.To[1]) / 16, float64(e.To[2]) / 16},
	}
	for faceName, face := range e.Faces {
		bf, ok := physics.ParseFace(faceName)
		if !ok {
			continue
		}
		texName := r.loader.ResolveTexture(face.Texture, model)
		elem.Faces[bf] = &FaceTexture{
			Texture: r.texture(texName, block),
			UV:      faceUV(face, bf, e),
			Tinted:  face.TintIndex != nil,
		}
	}
	return elem
}

// texture loads and caches a texture, substituting a flat color when the
// pack does not provide it. Must be called with r.mu held.
func (r *Registry) texture(texName, block string) *image.NRGBA {
	if tex, ok := r.textures[texName]; ok {
		return tex
	}
	tex, err := r.pack.LoadTexture(texName)
	if err != nil {
		slog.Warn("missing texture", "block", block, "texture", texName, "err", err)
		tex = flatTexture(block)
	}
	r.textures[texName] = tex
	return tex
}

// faceUV returns the explicit UV rectangle of a face, or the automatic one
// Minecraft derives from the element bounds.
func faceUV(face blockmodel.Face, bf physics.BlockFace, e blockmodel.Element) [4]float64 {
	if face.UV != nil {
		uv := *face.UV
		return [4]float64{float64(uv[0]), float64(uv[1]), float64(uv[2]), float64(uv[3])}
	}
	from, to := e.From, e.To
	switch bf {
	case physics.FaceTop:
		return [4]float64{float64(from[0]), float64(from[2]), float64(to[0]), float64(to[2])}
	case physics.FaceBottom:
		return [4]float64{float64(from[0]), float64(16 - to[2]), float64(to[0]), float64(16 - from[2])}
	case physics.FaceNorth:
		return [4]float64{float64(16 - to[0]), float64(16 - to[1]), float64(16 - from[0]), float64(16 - from[1])}
	case physics.FaceSouth:
		return [4]float64{float64(from[0]), float64(16 - to[1]), float64(to[0]), float64(16 - from[1])}
	case physics.FaceWest:
		return [4]float64{float64(from[2]), float64(16 - to[1]), float64(to[2]), float64(16 - from[1])}
	default: // east
		return [4]float64{float64(16 - to[2]), float64(16 - to[1]), float64(16 - from[2]), float64(16 - from[1])}
	}
}

// IsAir reports whether the block has no geometry at all.
func IsAir(name string) bool {
	switch blockmodel.StripNamespace(name) {
	case "air", "cave_air", "void_air":
		return true
	}
	return false
}

func tintFor(name string) uint32 {
	n := blockmodel.StripNamespace(name)
	if strings.Contains(n, "leaves") || strings.Contains(n, "vine") {
		return FoliageTint
	}
	return GrassTint
}

// fallbackDefinition is a full cube with one flat color on every face.
func fallbackDefinition(name string) *BlockDefinition {
	tex := flatTexture(name)
	elem := Element{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	for f := range elem.Faces {
		elem.Faces[f] = &FaceTexture{Texture: tex, UV: [4]float64{0, 0, 16, 16}}
	}
	return &BlockDefinition{
		Name:        name,
		Elements:    []Element{elem},
		IsFullBlock: true,
		Fallback:    true,
	}
}

// FallbackColor derives a stable opaque color from a block name.
func FallbackColor(name string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(blockmodel.StripNamespace(name)))
	v := h.Sum32()
	// keep channels away from pure black so faces stay distinguishable
	return color.NRGBA{
		R: uint8(v>>16)/2 + 64,
		G: uint8(v>>8)/2 + 64,
		B: uint8(v)/2 + 64,
		A: 255,
	}
}

func flatTexture(name string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, FallbackColor(name))
	return img
}

func stateKey(name string, props map[string]string) string {
	if len(props) == 0 {
		return name
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(props[k])
	}
	sb.WriteByte(']')
	return sb.String()
}
