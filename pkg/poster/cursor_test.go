package poster

import "testing"

func TestCursor(t *testing.T) {
	c := NewCursor(210, 200)

	c.Advance(50)
	c.Advance(-20)
	if c.Y != 250 {
		t.Errorf("Y = %d, want 250", c.Y)
	}

	c.LastWidth = 800
	if got := c.TakeLastWidth(); got != 800 {
		t.Errorf("TakeLastWidth() = %d, want 800", got)
	}
	if got := c.TakeLastWidth(); got != 0 {
		t.Errorf("second TakeLastWidth() = %d, want 0", got)
	}

	c.X = 999
	c.LastWidth = 10
	c.Reset()
	if c.X != 210 || c.Y != 200 || c.LastWidth != 0 {
		t.Errorf("after Reset = (%d, %d, %d), want (210, 200, 0)", c.X, c.Y, c.LastWidth)
	}
}
