package game

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/iburimskiy/dotfield/internal/dots"
	"github.com/iburimskiy/dotfield/internal/session"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"
)

// introDuration is how long the sidebar takes to fade in on a fresh page load.
const introDuration = 600 * time.Millisecond

type Options struct {
	ConfigPath string
	Watcher    *config.Watcher
	Rand       *rand.Rand
}

type Game struct {
	cfg        *config.Config
	configPath string
	watchPath  string
	watcher    *config.Watcher
	store      *session.Store

	field   *dots.Field
	surface *screenSurface
	width   int
	height  int

	sidebar    sidebar
	introStart time.Time
	start      time.Time

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
	now     func() time.Time
}

func NewGame(cfg *config.Config, store *session.Store, opts Options) *Game {
	bg, err := colorful.Hex(config.DefaultBackground)
	if err != nil {
		bg = colorful.Color{}
	}
	g := &Game{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		watchPath:  opts.ConfigPath,
		watcher:    opts.Watcher,
		store:      store,
		surface:    &screenSurface{bg: toNRGBA(bg, 1)},
		sidebar:    newSidebar(),
		prevKey:    map[ebiten.Key]bool{},
		now:        time.Now,
	}
	g.start = g.now()
	g.introStart = g.start
	g.field = dots.New(g.surface, cfg, dots.Options{
		EntryPlayed:     store.DotsAnimated(),
		OnEntryComplete: store.MarkDotsAnimated,
		Exclusion:       g.sidebar.bounds,
		Rand:            opts.Rand,
	})
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	if inRect(mouseX, mouseY, 0, 0, g.width-1, g.height-1) {
		g.field.PointerMove(float64(mouseX), float64(mouseY))
	} else {
		g.field.PointerLeave()
	}

	g.buttonHovered = inRect(mouseX, mouseY, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight)
	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openPresetDialog(); err != nil {
				g.lastErr = err
			}
		}
		g.buttonPressed = false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if dest, ok := g.sidebar.click(mouseX, mouseY); ok {
			g.navigate(dest)
		}
	}

	if justPressed(ebiten.KeyT) {
		g.field.SetTorch(!g.field.Torch())
	}
	if justPressed(ebiten.KeyR) {
		g.replay()
	}
	if justPressed(ebiten.KeyH) {
		g.navigate(homeSection)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.drainWatcher()

	if !g.store.AnimationsPlayed() && g.now().Sub(g.introStart) >= introDuration {
		g.store.MarkAnimationsPlayed()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.dst = screen
	g.field.Frame(g.now())
	g.surface.dst = nil

	g.drawSidebar(screen)
	g.drawButton(screen)

	status := fmt.Sprintf("%s | dots %d | torch %v | T torch, R replay, H home, Esc/Q quit",
		formatDuration(g.now().Sub(g.start)), g.field.Len(), g.field.Torch())
	if g.field.Entering() {
		status += " | entering"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout follows the window size; every change rebuilds the grid.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.field.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Close stops the field and the config watcher.
func (g *Game) Close() {
	g.field.Close()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) replay() {
	g.store.Reset()
	g.introStart = g.now()
	g.field.Replay()
}

func (g *Game) navigate(dest string) {
	g.sidebar.activate(dest)
	if g.store.Navigate(dest) {
		g.introStart = g.now()
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			// Only the file the watcher was started for reloads, even after
			// the preset dialog switched configPath elsewhere.
			if g.watchPath != "" && filepath.Clean(path) != filepath.Clean(g.watchPath) {
				continue
			}
			if err := g.loadConfig(path); err != nil {
				g.lastErr = err
			}
		case err := <-g.watcher.Errors:
			log.Printf("config watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) loadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.configPath = path
	g.lastErr = nil
	g.field.Reconfigure(cfg)
	log.Printf("loaded config %s", path)
	return nil
}

func (g *Game) openPresetDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Dot Field Preset"),
		zenity.FileFilters{{
			Name:     "Preset",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return g.loadConfig(filename)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 62, B: 150, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 82, B: 190, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 99, G: 102, B: 241, A: 255} // Normal
	}
	drawPanel(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor)

	text := "Open Preset"
	textWidth := len(text) * 6 // debug font glyph width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) drawSidebar(screen *ebiten.Image) {
	alpha := 1.0
	if !g.store.AnimationsPlayed() {
		alpha = clamp01(float64(g.now().Sub(g.introStart)) / float64(introDuration))
	}
	g.sidebar.draw(screen, alpha)
}
