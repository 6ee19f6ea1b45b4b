package dots

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Point is one sample of the grid. X and Y never change after the grid is
// built; everything else is per-frame state.
type Point struct {
	X, Y float64

	Size       float64
	TargetSize float64

	Color       colorful.Color
	TargetColor colorful.Color

	// Alpha is the entry-animation opacity, 1 once the point has appeared.
	Alpha float64

	WaveOffset float64
	EntryDelay float64
	EntryPhase float64
}

// ease moves size and color a fixed fraction k toward their targets.
func (p *Point) ease(k float64) {
	p.Size += (p.TargetSize - p.Size) * k
	p.Color = p.Color.BlendRgb(p.TargetColor, k)
}

// Rect is an axis-aligned box in surface coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{Left: r.Left - dx, Top: r.Top - dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Contains is inclusive on every edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Influence is the ripple-shaped proximity score in [0,1]. phase is the
// point's wave offset plus the time drift.
func Influence(distance, maxDistance, phase float64) float64 {
	if maxDistance <= 0 || distance >= maxDistance {
		return 0
	}
	nd := distance / maxDistance
	wave := math.Sin(nd*math.Pi*3-phase)*0.5 + 0.5
	return (1 - nd) * (1 - nd) * wave
}

func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
