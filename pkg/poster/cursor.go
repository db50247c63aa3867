package poster

// Cursor tracks where the next layout block is drawn. Y only moves down
// within one render. LastWidth carries the width of the most recent logo or
// title so the following tag line can centre under it; it is consumed by the
// tag line and cleared when a new canvas is created.
type Cursor struct {
	X, Y      int
	LastWidth int

	originX, originY int
}

// NewCursor returns a cursor positioned at the layout origin.
func NewCursor(x, y int) Cursor {
	return Cursor{X: x, Y: y, originX: x, originY: y}
}

// Reset moves the cursor back to the origin and forgets the last width.
func (c *Cursor) Reset() {
	c.X, c.Y = c.originX, c.originY
	c.LastWidth = 0
}

// Advance moves the cursor down by dy. Negative values are ignored.
func (c *Cursor) Advance(dy int) {
	if dy > 0 {
		c.Y += dy
	}
}

// TakeLastWidth returns the remembered width and clears it.
func (c *Cursor) TakeLastWidth() int {
	w := c.LastWidth
	c.LastWidth = 0
	return w
}
