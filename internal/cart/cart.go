// Package cart holds a shopper's cart lines and persists them after every mutation.
package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/state"
)

const container = "cart"

// Line is one product in the cart. There is at most one line per product id.
type Line struct {
	ID       int    `json:"id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required"`
	Price    int    `json:"price" validate:"gte=0"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// Cart is hydrated from storage when opened. It is not safe for concurrent use.
type Cart struct {
	slot  *state.Slot[Line]
	lines []Line
}

// Open reads the stored cart under key. A read failure yields an empty cart that
// stays in memory only: its mutations are never written.
func Open(ctx context.Context, deps state.Deps, key string) *Cart {
	slot := state.NewSlot(deps, container, key, state.UniqueIDs(func(l Line) int { return l.ID }))
	lines, _ := slot.Load(ctx)
	return &Cart{slot: slot, lines: lines}
}

// Degraded reports whether the stored cart could not be read.
func (c *Cart) Degraded() bool {
	return c.slot.Degraded()
}

// Add increments the quantity of an existing line or appends a new one. A ref that
// would not survive a reload (no title, negative price) is ignored.
func (c *Cart) Add(ctx context.Context, ref catalog.ProductRef) bool {
	if i := c.index(ref.ID); i >= 0 {
		c.lines[i].Quantity++
		return c.commit(ctx, "add")
	}
	line := Line{
		ID:       ref.ID,
		Title:    ref.Title,
		Price:    ref.Price,
		Image:    ref.Image,
		Quantity: 1,
	}
	if !c.slot.Accepts(ctx, line) {
		return !c.slot.Degraded()
	}
	c.lines = append(c.lines, line)
	return c.commit(ctx, "add")
}

// Remove drops the line for id. Removing an absent id leaves the cart unchanged.
func (c *Cart) Remove(ctx context.Context, id int) bool {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return c.commit(ctx, "remove")
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes the line.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(ctx context.Context, id, quantity int) bool {
	i := c.index(id)
	if i < 0 {
		return c.commit(ctx, "set_quantity")
	}
	if quantity <= 0 {
		return c.Remove(ctx, id)
	}
	c.lines[i].Quantity = quantity
	return c.commit(ctx, "set_quantity")
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) bool {
	c.lines = []Line{}
	return c.commit(ctx, "clear")
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Total is the sum of line subtotals.
func (c *Cart) Total() int {
	total := 0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the quantity for id, or zero.
func (c *Cart) Quantity(id int) int {
	if i := c.index(id); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) index(id int) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) commit(ctx context.Context, op string) bool {
	c.slot.Mutated(op)
	return c.slot.Save(ctx, c.lines)
}
