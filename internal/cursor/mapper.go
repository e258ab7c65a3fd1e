// Package cursor maps normalized hand positions onto the screen and
// smooths them into pointer coordinates.
package cursor

import "fmt"

// Mapper converts normalized [0,1] coordinates into bounded screen
// coordinates. The margin keeps the usable input range away from the frame
// edges, where hand tracking is least reliable. Mapper is stateless and
// safe for concurrent use.
type Mapper struct {
	Width  int
	Height int
	Margin int
}

// NewMapper validates the screen geometry and returns a Mapper.
func NewMapper(width, height, margin int) (Mapper, error) {
	if width <= 0 || height <= 0 {
		return Mapper{}, fmt.Errorf("screen dimensions must be positive, got %dx%d", width, height)
	}
	if margin < 0 || 2*margin >= width || 2*margin >= height {
		return Mapper{}, fmt.Errorf("margin %d does not fit %dx%d screen", margin, width, height)
	}
	return Mapper{Width: width, Height: height, Margin: margin}, nil
}

// Map interpolates (nx, ny) from [0,1] onto [margin, dim-margin] per axis,
// then clamps into [0, dim-1] to guard against interpolation overshoot
// when the input leaves the normalized range.
func (m Mapper) Map(nx, ny float64) (int, int) {
	x := lerp(nx, float64(m.Margin), float64(m.Width-m.Margin))
	y := lerp(ny, float64(m.Margin), float64(m.Height-m.Margin))

	return clampInt(int(x), 0, m.Width-1), clampInt(int(y), 0, m.Height-1)
}

func lerp(t, lo, hi float64) float64 {
	return lo + t*(hi-lo)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
