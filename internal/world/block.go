package world

import (
	"fmt"
	"sort"
	"strings"

	"blockrender/internal/registry"
)

// Block is one palette entry: a block state and its resolved definition.
type Block struct {
	Name       string
	Properties map[string]string
	Def        *registry.BlockDefinition
}

// String formats the block state as name[key=value,...].
func (b *Block) String() string {
	if len(b.Properties) == 0 {
		return b.Name
	}
	keys := make([]string, 0, len(b.Properties))
	for k := range b.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + b.Properties[k]
	}
	return b.Name + "[" + strings.Join(pairs, ",") + "]"
}

// Palette is the ordered, read-only list of block states to render. Block
// ids are indices into it.
type Palette struct {
	blocks []*Block
}

// NewPalette wraps blocks in a palette. The slice is not copied.
func NewPalette(blocks []*Block) *Palette {
	return &Palette{blocks: blocks}
}

// Size returns the number of entries.
func (p *Palette) Size() int {
	return len(p.blocks)
}

// Get returns the block with the given id. Ids outside [0, Size) are a
// programming error and panic.
func (p *Palette) Get(id int) *Block {
	if id < 0 || id >= len(p.blocks) {
		panic(fmt.Sprintf("world: block id %d out of range [0,%d)", id, len(p.blocks)))
	}
	return p.blocks[id]
}
