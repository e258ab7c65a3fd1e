// Package filter provides position smoothing for the pointer pipeline.
package filter

// Point is a 2D position in output (screen) coordinates.
type Point struct {
	X float64
	Y float64
}

// Filter smooths a stream of points, one call per tick. Implementations
// are stateful across calls, never fail mid-stream, and fall back to the
// raw input until enough history has accumulated. A Filter is owned by a
// single tracking session and is not safe for concurrent use.
type Filter interface {
	// Filter consumes the current raw point and returns the smoothed one.
	Filter(p Point) Point

	// Reset discards accumulated history, as required on session restart.
	Reset()
}
