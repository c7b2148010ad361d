package blockmodel

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

type Model struct {
	Parent           string            `json:"parent"`
	AmbientOcclusion *bool             `json:"ambientocclusion"`
	Textures         map[string]string `json:"textures"`
	Elements         []Element         `json:"elements"`
}

type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Shade    *bool           `json:"shade"`
	Faces    map[string]Face `json:"faces"`
}

type Rotation struct {
	Origin  [3]float32 `json:"origin"`
	Angle   float32    `json:"angle"`
	Axis    string     `json:"axis"`
	Rescale bool       `json:"rescale"`
}

type Face struct {
	UV        *[4]float32 `json:"uv"`
	Texture   string      `json:"texture"`
	CullFace  string      `json:"cullface"`
	Rotation  int         `json:"rotation"`
	TintIndex *int        `json:"tintindex"`
}

// BlockState defines the blockstate JSON structure. It maps variants of a block to their corresponding models.
type BlockState struct {
	// Variants is a map of variant names to a list of models.
	Variants map[string]BlockStateVariants `json:"variants"`
	// Multipart is used instead of Variants by blocks assembled from parts,
	// such as fences and walls.
	Multipart []MultipartCase `json:"multipart"`
}

// MultipartCase applies a model when its condition holds. A nil When
// always applies.
type MultipartCase struct {
	When  Condition          `json:"when"`
	Apply BlockStateVariants `json:"apply"`
}

// Condition is a multipart "when" clause: property tests such as
// {"north": "true", "east": "low|tall"}, or {"OR": [...]} / {"AND": [...]}.
type Condition map[string]json.RawMessage

// Matches reports whether props satisfy the condition. Missing properties
// only match an explicit empty value.
func (c Condition) Matches(props map[string]string) bool {
	for key, raw := range c {
		switch key {
		case "OR", "AND":
			var subs []Condition
			if err := json.Unmarshal(raw, &subs); err != nil {
				return false
			}
			matched := 0
			for _, sub := range subs {
				if sub.Matches(props) {
					matched++
				}
			}
			if key == "OR" && matched == 0 || key == "AND" && matched != len(subs) {
				return false
			}
		default:
			var want any
			if err := json.Unmarshal(raw, &want); err != nil {
				return false
			}
			if !slices.Contains(strings.Split(fmt.Sprint(want), "|"), props[key]) {
				return false
			}
		}
	}
	return true
}

// BlockStateVariants is a custom type to handle the fact that the "variants" field can contain either a single object or an array of objects.
type BlockStateVariants []Variant

func (v *BlockStateVariants) UnmarshalJSON(data []byte) error {
	// First, try to unmarshal as an array
	var variants []Variant
	if err := json.Unmarshal(data, &variants); err == nil {
		*v = variants
		return nil
	}

	// If that fails, try to unmarshal as a single object
	var singleVariant Variant
	if err := json.Unmarshal(data, &singleVariant); err != nil {
		return err
	}

	*v = []Variant{singleVariant}
	return nil
}

// Variant names a model and its rotation in degrees (multiples of 90)
// around the X axis, then the Y axis.
type Variant struct {
	Model string `json:"model"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Parts returns the models to combine for a block state: one per matching
// multipart case, or the single selected variant.
func (bs *BlockState) Parts(props map[string]string) []Variant {
	if len(bs.Multipart) > 0 {
		var parts []Variant
		for _, c := range bs.Multipart {
			if (c.When == nil || c.When.Matches(props)) && len(c.Apply) > 0 {
				parts = append(parts, c.Apply[0])
			}
		}
		return parts
	}
	if v, ok := bs.Select(props); ok {
		return []Variant{v}
	}
	return nil
}

// Select picks the variant for the given block properties. A variant key
// such as "facing=north,half=top" matches when every listed property has
// that value. Without a match it falls back to "" or "normal", then to the
// first key in sorted order so the choice is deterministic.
func (bs *BlockState) Select(props map[string]string) (Variant, bool) {
	keys := make([]string, 0, len(bs.Variants))
	for k := range bs.Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(props) > 0 {
		for _, k := range keys {
			if k == "" || k == "normal" {
				continue
			}
			if matchVariant(k, props) && len(bs.Variants[k]) > 0 {
				return bs.Variants[k][0], true
			}
		}
	}
	for _, k := range []string{"", "normal"} {
		if v, ok := bs.Variants[k]; ok && len(v) > 0 {
			return v[0], true
		}
	}
	for _, k := range keys {
		if v := bs.Variants[k]; len(v) > 0 {
			return v[0], true
		}
	}
	return Variant{}, false
}

func matchVariant(key string, props map[string]string) bool {
	for _, kv := range strings.Split(key, ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || props[name] != value {
			return false
		}
	}
	return true
}
