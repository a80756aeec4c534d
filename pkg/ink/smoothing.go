package ink

import (
	"fmt"

	"github.com/aretw0/inkjournal/pkg/core"
)

// DefaultWindow is the window size applied to freshly captured strokes.
const DefaultWindow = 4

// Smooth applies a centered moving average to points.
//
// Each output point i is the mean of the input points in the inclusive range
// [max(0, i-windowSize/2), min(n-1, i+windowSize/2)]. Timestamps are averaged
// the same way and truncated toward zero. Near the edges the window is
// clamped, so it shrinks instead of padding.
//
// When len(points) < windowSize the input slice is returned as is.
// Otherwise a new slice of the same length is returned and points is not
// modified.
//
// Smooth panics if windowSize is not positive.
func Smooth(points []core.Point, windowSize int) []core.Point {
	if windowSize <= 0 {
		panic(fmt.Sprintf("ink: smoothing window must be positive, got %d", windowSize))
	}
	n := len(points)
	if n < windowSize {
		return points
	}

	half := windowSize / 2
	out := make([]core.Point, n)
	for i := range points {
		lo := max(0, i-half)
		hi := min(n-1, i+half)

		var sx, sy, st float64
		for _, p := range points[lo : hi+1] {
			sx += float64(p.X)
			sy += float64(p.Y)
			st += float64(p.Timestamp)
		}
		count := float64(hi - lo + 1)
		out[i] = core.Point{
			X:         float32(sx / count),
			Y:         float32(sy / count),
			Timestamp: int64(st / count),
		}
	}
	return out
}

// SmoothStroke returns a new stroke with smoothed points.
func SmoothStroke(s core.Stroke, windowSize int) core.Stroke {
	return core.Stroke{Points: Smooth(s.Points, windowSize)}
}

// SmoothStrokes smooths every stroke, preserving order.
func SmoothStrokes(strokes []core.Stroke, windowSize int) []core.Stroke {
	out := make([]core.Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = SmoothStroke(s, windowSize)
	}
	return out
}
