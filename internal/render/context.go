package render

import (
	"blockrender/internal/graphics"
	"blockrender/internal/physics"
	"blockrender/internal/world"
)

// Context is the mutable scratch state one worker renders with.
type Context struct {
	Grid   *world.Grid
	Camera *graphics.Camera
	Ray    physics.Ray
}

// NewContext allocates a fresh render context.
func NewContext() *Context {
	return &Context{
		Grid:   world.NewGrid(),
		Camera: graphics.NewCamera(),
	}
}

// Contexts holds one lazily created Context per worker slot. A slot must
// only ever be used by one goroutine.
type Contexts struct {
	slots []*Context
}

// NewContexts reserves n slots.
func NewContexts(n int) *Contexts {
	return &Contexts{slots: make([]*Context, n)}
}

// Acquire returns the context of slot, creating it on first use.
func (c *Contexts) Acquire(slot int) *Context {
	if c.slots[slot] == nil {
		c.slots[slot] = NewContext()
	}
	return c.slots[slot]
}

// Created counts the slots that have a context. Not safe while workers run.
func (c *Contexts) Created() int {
	n := 0
	for _, s := range c.slots {
		if s != nil {
			n++
		}
	}
	return n
}
