package ink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
)

func line(n int) []core.Point {
	pts := make([]core.Point, n)
	for i := range pts {
		pts[i] = core.Point{X: float32(i * 10), Y: 0, Timestamp: int64(i * 10)}
	}
	return pts
}

func TestSmooth_Example(t *testing.T) {
	out := ink.Smooth(line(5), ink.DefaultWindow)
	require.Len(t, out, 5)

	// index 0 averages [0,2]
	assert.Equal(t, core.Point{X: 10, Y: 0, Timestamp: 10}, out[0])
	// index 1 averages [0,3]
	assert.Equal(t, core.Point{X: 15, Y: 0, Timestamp: 15}, out[1])
	// index 2 averages the whole input
	assert.Equal(t, core.Point{X: 20, Y: 0, Timestamp: 20}, out[2])
	assert.Equal(t, core.Point{X: 25, Y: 0, Timestamp: 25}, out[3])
	assert.Equal(t, core.Point{X: 30, Y: 0, Timestamp: 30}, out[4])
}

func TestSmooth_ShortInputIsIdentity(t *testing.T) {
	cases := map[string][]core.Point{
		"nil":   nil,
		"one":   {{X: 1, Y: 2, Timestamp: 3}},
		"three": line(3),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out := ink.Smooth(in, 4)
			assert.Equal(t, in, out)
			if len(in) > 0 {
				assert.Same(t, &in[0], &out[0], "short input should be returned as is")
			}
		})
	}
}

func TestSmooth_DoesNotMutateInput(t *testing.T) {
	in := line(6)
	orig := append([]core.Point(nil), in...)

	out := ink.Smooth(in, 4)

	assert.Equal(t, orig, in)
	assert.NotEqual(t, in, out)
}

func TestSmooth_TimestampTruncates(t *testing.T) {
	in := []core.Point{
		{Timestamp: -1},
		{Timestamp: 0},
		{Timestamp: 0},
		{Timestamp: 2},
	}
	out := ink.Smooth(in, 4)

	// [-1,0,0] / 3 = -0.33 truncates to 0, not -1
	assert.Equal(t, int64(0), out[0].Timestamp)
	// [-1,0,0,2] / 4 = 0.25
	assert.Equal(t, int64(0), out[1].Timestamp)
	// [0,0,2] / 3 = 0.66
	assert.Equal(t, int64(0), out[3].Timestamp)
}

func TestSmooth_WindowOfOne(t *testing.T) {
	in := line(4)
	assert.Equal(t, in, ink.Smooth(in, 1))
}

func TestSmooth_PanicsOnInvalidWindow(t *testing.T) {
	assert.Panics(t, func() { ink.Smooth(line(5), 0) })
	assert.Panics(t, func() { ink.Smooth(line(5), -3) })
}

func TestSmoothStrokes_PreservesOrder(t *testing.T) {
	strokes := []core.Stroke{
		{Points: line(5)},
		{},
		{Points: []core.Point{{X: 7}}},
	}
	out := ink.SmoothStrokes(strokes, 4)

	require.Len(t, out, 3)
	assert.Equal(t, float32(10), out[0].Points[0].X)
	assert.Empty(t, out[1].Points)
	assert.Equal(t, strokes[2].Points, out[2].Points)
}

// windowMean recomputes the mean of the clamped window independently.
func windowMean(pts []core.Point, i, window int) (float64, float64) {
	half := window / 2
	lo, hi := i-half, i+half
	if lo < 0 {
		lo = 0
	}
	if hi > len(pts)-1 {
		hi = len(pts) - 1
	}
	var sx, sy float64
	for j := lo; j <= hi; j++ {
		sx += float64(pts[j].X)
		sy += float64(pts[j].Y)
	}
	c := float64(hi - lo + 1)
	return sx / c, sy / c
}

func TestSmooth_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		window := rapid.IntRange(1, 12).Draw(t, "window")
		pts := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) core.Point {
			return core.Point{
				X:         float32(rapid.IntRange(-2000, 2000).Draw(t, "x")),
				Y:         float32(rapid.IntRange(-2000, 2000).Draw(t, "y")),
				Timestamp: rapid.Int64Range(0, 1<<40).Draw(t, "ts"),
			}
		}), 0, 64).Draw(t, "points")

		out := ink.Smooth(pts, window)
		if len(out) != len(pts) {
			t.Fatalf("length changed: %d -> %d", len(pts), len(out))
		}
		if len(pts) < window {
			for i := range pts {
				if out[i] != pts[i] {
					t.Fatalf("short input modified at %d", i)
				}
			}
			return
		}

		minX, maxX := pts[0].X, pts[0].X
		for _, p := range pts {
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
		}
		for i, p := range out {
			wantX, wantY := windowMean(pts, i, window)
			if float32(wantX) != p.X || float32(wantY) != p.Y {
				t.Fatalf("point %d: got (%v,%v), want (%v,%v)", i, p.X, p.Y, wantX, wantY)
			}
			if p.X < minX || p.X > maxX {
				t.Fatalf("point %d escapes input bounds", i)
			}
		}
	})
}
