package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// glowRings is how many stacked translucent discs approximate a radial gradient.
const glowRings = 8

// screenSurface draws into whatever image Draw was handed this frame.
type screenSurface struct {
	dst *ebiten.Image
	bg  color.Color
}

func (s *screenSurface) Clear() {
	if s.dst == nil {
		return
	}
	s.dst.Fill(s.bg)
}

func (s *screenSurface) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	if s.dst == nil {
		return
	}
	vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r), toNRGBA(c, alpha), true)
}

func (s *screenSurface) Glow(x, y, r float64, c colorful.Color, alpha float64) {
	if s.dst == nil || r <= 0 {
		return
	}
	// Outer discs first; the center ends up covered by every ring.
	for i := glowRings; i >= 1; i-- {
		rr := r * float64(i) / glowRings
		vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(rr), toNRGBA(c, ringAlpha(alpha)), true)
	}
}

// ringAlpha is the per-ring opacity so that glowRings stacked rings reach
// roughly alpha at the center.
func ringAlpha(alpha float64) float64 {
	return 1 - math.Pow(1-clamp01(alpha), 1.0/glowRings)
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha) * 255)}
}
