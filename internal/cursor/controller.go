package cursor

import "github.com/ayusman/mudra/internal/filter"

// Controller is the motion half of the tick pipeline: it maps the control
// landmark onto the screen and smooths the result. It holds the filter's
// state, so one Controller belongs to exactly one tracking session.
type Controller struct {
	mapper Mapper
	smooth filter.Filter
}

// NewController creates a Controller over the given mapper and filter.
func NewController(mapper Mapper, smooth filter.Filter) *Controller {
	return &Controller{mapper: mapper, smooth: smooth}
}

// Update converts a normalized hand position into the pointer position for
// this tick: map, then filter, then clamp back into the screen bounds.
func (c *Controller) Update(nx, ny float64) (int, int) {
	rawX, rawY := c.mapper.Map(nx, ny)

	p := c.smooth.Filter(filter.Point{X: float64(rawX), Y: float64(rawY)})

	x := clampInt(int(p.X), 0, c.mapper.Width-1)
	y := clampInt(int(p.Y), 0, c.mapper.Height-1)
	return x, y
}

// Reset clears the smoothing history for a fresh session.
func (c *Controller) Reset() {
	c.smooth.Reset()
}
