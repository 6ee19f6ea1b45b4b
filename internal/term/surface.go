// Package term draws the dot field into a terminal.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Field units per terminal cell. Cells are roughly twice as tall as wide.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	ch rune
	fg colorful.Color
	bg colorful.Color
}

// Surface buffers one frame and writes it to the screen on Flush.
type Surface struct {
	screen tcell.Screen
	bg     colorful.Color
	cells  []cell
	cols   int
	rows   int
}

func NewSurface(screen tcell.Screen, bg colorful.Color) *Surface {
	s := &Surface{screen: screen, bg: bg}
	s.Resize(screen.Size())
	return s
}

func (s *Surface) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s.cols, s.rows = cols, rows
	s.cells = make([]cell, cols*rows)
	s.Clear()
}

// Extent is the surface size in field units.
func (s *Surface) Extent() (width, height float64) {
	return float64(s.cols * CellWidth), float64(s.rows * CellHeight)
}

func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = cell{ch: ' ', fg: s.bg, bg: s.bg}
	}
}

func (s *Surface) at(x, y float64) (*cell, bool) {
	cx := int(math.Floor(x / CellWidth))
	cy := int(math.Floor(y / CellHeight))
	if cx < 0 || cy < 0 || cx >= s.cols || cy >= s.rows {
		return nil, false
	}
	return &s.cells[cy*s.cols+cx], true
}

func (s *Surface) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	cl, ok := s.at(x, y)
	if !ok {
		return
	}
	cl.ch = glyph(r)
	cl.fg = cl.bg.BlendRgb(c, clamp01(alpha))
}

// Glow tints cell backgrounds with a linear falloff from the center.
func (s *Surface) Glow(x, y, r float64, c colorful.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	x0 := int(math.Floor((x - r) / CellWidth))
	x1 := int(math.Floor((x + r) / CellWidth))
	y0 := int(math.Floor((y - r) / CellHeight))
	y1 := int(math.Floor((y + r) / CellHeight))
	for cy := max(y0, 0); cy <= min(y1, s.rows-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, s.cols-1); cx++ {
			px := float64(cx*CellWidth) + CellWidth/2
			py := float64(cy*CellHeight) + CellHeight/2
			d := math.Hypot(px-x, py-y)
			if d >= r {
				continue
			}
			cl := &s.cells[cy*s.cols+cx]
			cl.bg = cl.bg.BlendRgb(c, alpha*(1-d/r))
		}
	}
}

// Flush writes the buffered frame and shows it.
func (s *Surface) Flush() {
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			cl := s.cells[y*s.cols+x]
			style := tcell.StyleDefault.Foreground(rgb(cl.fg)).Background(rgb(cl.bg))
			s.screen.SetContent(x, y, cl.ch, nil, style)
		}
	}
	s.screen.Show()
}

func glyph(r float64) rune {
	switch {
	case r < 0.8:
		return '·'
	case r < 2:
		return '•'
	case r < 4:
		return '●'
	default:
		return '⬤'
	}
}

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
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
