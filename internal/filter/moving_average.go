package filter

import "fmt"

// MovingAverage smooths points by averaging a fixed-size FIFO window of
// recent inputs. With fewer points than the window it averages what it has,
// so the first call returns the input unchanged.
type MovingAverage struct {
	windowSize int
	points     []Point
}

// NewMovingAverage creates a moving-average filter holding the last
// windowSize points. A window size below 1 is a configuration error.
func NewMovingAverage(windowSize int) (*MovingAverage, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("moving average window size must be at least 1, got %d", windowSize)
	}
	return &MovingAverage{
		windowSize: windowSize,
		points:     make([]Point, 0, windowSize),
	}, nil
}

// Filter adds p to the window, evicting the oldest point on overflow, and
// returns the arithmetic mean of the points currently held.
func (m *MovingAverage) Filter(p Point) Point {
	if len(m.points) == m.windowSize {
		copy(m.points, m.points[1:])
		m.points = m.points[:m.windowSize-1]
	}
	m.points = append(m.points, p)

	var sumX, sumY float64
	for _, q := range m.points {
		sumX += q.X
		sumY += q.Y
	}
	n := float64(len(m.points))
	return Point{X: sumX / n, Y: sumY / n}
}

// Reset empties the window.
func (m *MovingAverage) Reset() {
	m.points = m.points[:0]
}
