// Package dots renders a pointer-reactive grid of points.
//
// A Field is not safe for concurrent use. Pointer, resize and frame calls must
// come from one goroutine; hosts that receive input elsewhere go through Loop.
package dots

import (
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

type Options struct {
	// EntryPlayed skips the entry animation, e.g. when the session flag is set.
	EntryPlayed bool
	// OnEntryComplete is called once, the first frame after the entry
	// animation's full duration has elapsed.
	OnEntryComplete func()
	// Exclusion returns the sidebar box to keep clear of points. It is
	// queried on every rebuild; ok=false means there is no sidebar.
	Exclusion func() (r Rect, ok bool)
	Rand      *rand.Rand
}

type Field struct {
	surface Surface
	cfg     config.Config
	opts    Options
	rng     *rand.Rand

	resting   colorful.Color
	highlight colorful.Color

	points        []Point
	width, height float64

	pointerX, pointerY float64
	hasPointer         bool

	start     time.Time
	started   bool
	entryDone bool
	frames    int
}

// New returns nil when surface is nil. A nil *Field accepts every call and
// does nothing.
func New(surface Surface, cfg *config.Config, opts Options) *Field {
	if surface == nil {
		return nil
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Field{
		surface:   surface,
		opts:      opts,
		rng:       rng,
		entryDone: opts.EntryPlayed,
	}
	f.setConfig(cfg)
	return f
}

func (f *Field) setConfig(cfg *config.Config) {
	f.cfg = *cfg
	f.resting, f.highlight = cfg.Colors()
}

// Reconfigure swaps the knobs and rebuilds the grid at the current size.
// Entry state is kept.
func (f *Field) Reconfigure(cfg *config.Config) {
	if f == nil || f.surface == nil || cfg == nil {
		return
	}
	f.setConfig(cfg)
	f.Resize(f.width, f.height)
}

func (f *Field) SetTorch(enabled bool) {
	if f == nil {
		return
	}
	f.cfg.Torch.Enabled = enabled
}

func (f *Field) Torch() bool {
	return f != nil && f.cfg.Torch.Enabled
}

// Resize discards the grid and builds a new one covering width x height.
func (f *Field) Resize(width, height float64) {
	if f == nil || f.surface == nil {
		return
	}
	f.width, f.height = width, height
	f.points = f.points[:0]
	spacing := f.cfg.Spacing
	// Configs that skipped Validate must not turn into an unbounded grid.
	if !(width > 0 && height > 0 && spacing >= config.MinSpacing) || math.IsInf(spacing, 0) {
		return
	}

	rows := int(math.Ceil(height / spacing))
	cols := int(math.Ceil(width / spacing))

	var (
		exclude  Rect
		excluded bool
	)
	if f.opts.Exclusion != nil {
		if r, ok := f.opts.Exclusion(); ok {
			exclude = r.Expand(f.cfg.Margin.X, f.cfg.Margin.Y)
			excluded = true
		}
	}

	cx, cy := width/2, height/2
	maxCenter := math.Hypot(cx, cy)

	size, alpha := f.cfg.BaseSize, 1.0
	if !f.entryDone {
		size, alpha = 0, 0
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := float64(j)*spacing + spacing/2
			y := float64(i)*spacing + spacing/2
			if excluded && exclude.Contains(x, y) {
				continue
			}

			nd := 0.0
			if maxCenter > 0 {
				nd = math.Hypot(x-cx, y-cy) / maxCenter
			}
			f.points = append(f.points, Point{
				X:           x,
				Y:           y,
				Size:        size,
				TargetSize:  size,
				Color:       f.resting,
				TargetColor: f.resting,
				Alpha:       alpha,
				WaveOffset:  f.rng.Float64() * math.Pi * 2,
				EntryDelay:  nd * f.cfg.Entry.Stagger,
				EntryPhase:  nd * math.Pi * 2,
			})
		}
	}
}

func (f *Field) PointerMove(x, y float64) {
	if f == nil {
		return
	}
	f.pointerX, f.pointerY = x, y
	f.hasPointer = true
}

// PointerLeave forgets the pointer; points relax to their resting state.
func (f *Field) PointerLeave() {
	if f == nil {
		return
	}
	f.hasPointer = false
}

// Frame advances every point one step and draws the field.
func (f *Field) Frame(now time.Time) {
	if f == nil || f.surface == nil {
		return
	}
	if !f.started {
		f.start = now
		f.started = true
	}
	t := now.Sub(f.start).Seconds()

	if !f.entryDone && t >= f.cfg.Entry.Duration {
		f.entryDone = true
		if f.opts.OnEntryComplete != nil {
			f.opts.OnEntryComplete()
		}
	}
	entering := !f.entryDone

	f.surface.Clear()
	if f.cfg.Torch.Enabled && f.hasPointer {
		f.surface.Glow(f.pointerX, f.pointerY, f.cfg.Torch.Radius, f.highlight, f.cfg.Torch.Alpha)
	}

	drift := t * f.cfg.WaveSpeed
	for i := range f.points {
		p := &f.points[i]

		influence := 0.0
		if f.hasPointer {
			d := math.Hypot(f.pointerX-p.X, f.pointerY-p.Y)
			influence = Influence(d, f.cfg.MaxDistance, p.WaveOffset+drift)
		}
		p.TargetSize = f.cfg.BaseSize + influence*f.cfg.Amplitude
		p.TargetColor = f.resting.BlendRgb(f.highlight, influence)

		p.Alpha = 1
		if entering {
			p.Alpha, p.TargetSize = f.entry(p, t)
		}

		p.ease(f.cfg.Ease)
		f.draw(p)
	}
	f.frames++
}

// entry returns the opacity and modulated target size of p at t seconds into
// the entry animation.
func (f *Field) entry(p *Point, t float64) (alpha, size float64) {
	if t < p.EntryDelay {
		return 0, 0
	}
	progress := 1.0
	if f.cfg.Entry.Fade > 0 {
		progress = clamp01((t - p.EntryDelay) / f.cfg.Entry.Fade)
	}
	alpha = EaseOutCubic(progress)
	shimmer := math.Sin(progress*f.cfg.Entry.ShimmerCycles*math.Pi+p.EntryPhase) * (1 - progress) * f.cfg.Entry.ShimmerAmplitude
	size = p.TargetSize * alpha * (1 + shimmer)
	if size < 0 {
		size = 0
	}
	return alpha, size
}

func (f *Field) draw(p *Point) {
	if p.Alpha <= 0 || p.Size <= 0 {
		return
	}
	if p.Size > f.cfg.GlowThreshold {
		f.surface.Glow(p.X, p.Y, p.Size*4, p.Color, 0.3*p.Alpha)
	}
	f.surface.FillCircle(p.X, p.Y, p.Size, p.Color, p.Alpha)
}

// Replay restarts the entry animation on a fresh grid. The caller is expected
// to have cleared the session flag.
func (f *Field) Replay() {
	if f == nil || f.surface == nil {
		return
	}
	f.entryDone = false
	f.started = false
	f.Resize(f.width, f.height)
}

// Points returns a copy of the current grid.
func (f *Field) Points() []Point {
	if f == nil {
		return nil
	}
	out := make([]Point, len(f.points))
	copy(out, f.points)
	return out
}

func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.points)
}

func (f *Field) Size() (width, height float64) {
	if f == nil {
		return 0, 0
	}
	return f.width, f.height
}

// Entering reports whether the entry animation is still running.
func (f *Field) Entering() bool {
	return f != nil && !f.entryDone
}

// Elapsed is the time since the first frame.
func (f *Field) Elapsed(now time.Time) time.Duration {
	if f == nil || !f.started {
		return 0
	}
	return now.Sub(f.start)
}

func (f *Field) Frames() int {
	if f == nil {
		return 0
	}
	return f.frames
}

// Close drops the surface and the grid. Later calls do nothing.
func (f *Field) Close() {
	if f == nil {
		return
	}
	f.surface = nil
	f.points = nil
}
