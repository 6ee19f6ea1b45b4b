package dots

import "github.com/lucasb-eyer/go-colorful"

// Surface is where a Field draws. Coordinates are in the same units the field
// was sized with.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c colorful.Color, alpha float64)
	// Glow draws a soft radial gradient, opaque at alpha in the center and
	// fully transparent at radius r.
	Glow(x, y, r float64, c colorful.Color, alpha float64)
}
