package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/iburimskiy/dotfield/internal/dots"
)

const (
	homeSection = "#home"
	iconSize    = 40
	iconGap     = 24
)

type sidebarIcon struct {
	label   string
	section string
}

// sidebar is the icon strip on the left. Its box is kept free of dots.
type sidebar struct {
	x, y, w, h int
	icons      []sidebarIcon
	active     int
}

func newSidebar() sidebar {
	return sidebar{
		x: config.SidebarX,
		y: config.SidebarY,
		w: config.SidebarWidth,
		h: config.SidebarHeight,
		icons: []sidebarIcon{
			{"H", homeSection},
			{"W", "#work"},
			{"E", "#education"},
			{"C", "#contact"},
		},
	}
}

func (s *sidebar) bounds() (dots.Rect, bool) {
	return dots.Rect{
		Left:   float64(s.x),
		Top:    float64(s.y),
		Right:  float64(s.x + s.w),
		Bottom: float64(s.y + s.h),
	}, true
}

func (s *sidebar) iconRect(i int) (x, y int) {
	x = s.x + (s.w-iconSize)/2
	y = s.y + iconGap + i*(iconSize+iconGap)
	return x, y
}

// click returns the section of the icon under (mx, my).
func (s *sidebar) click(mx, my int) (string, bool) {
	for i, icon := range s.icons {
		x, y := s.iconRect(i)
		if inRect(mx, my, x, y, iconSize, iconSize) {
			return icon.section, true
		}
	}
	return "", false
}

// activate marks the icon for section as active. Unknown sections are ignored.
func (s *sidebar) activate(section string) {
	for i, icon := range s.icons {
		if icon.section == section {
			s.active = i
			return
		}
	}
}

func (s *sidebar) draw(screen *ebiten.Image, alpha float64) {
	a := uint8(clamp01(alpha) * 255)
	drawPanel(screen, s.x, s.y, s.w, s.h, color.RGBA{R: 20, G: 20, B: 26, A: uint8(clamp01(alpha) * 230)})
	for i, icon := range s.icons {
		x, y := s.iconRect(i)
		bg := color.NRGBA{R: 40, G: 40, B: 48, A: a}
		if i == s.active {
			bg = color.NRGBA{R: 99, G: 102, B: 241, A: a}
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), iconSize, iconSize, bg, true)
		if alpha >= 1 {
			ebitenutil.DebugPrintAt(screen, icon.label, x+iconSize/2-3, y+iconSize/2-8)
		}
	}
}

func drawPanel(screen *ebiten.Image, x, y, w, h int, bg color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bg, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, color.RGBA{R: 60, G: 62, B: 90, A: 255}, false)
}
