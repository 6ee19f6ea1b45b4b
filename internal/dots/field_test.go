package dots

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

type recorder struct {
	ops     []string
	circles int
	glows   int
}

func (r *recorder) Clear() { r.ops = append(r.ops, "clear") }

func (r *recorder) FillCircle(x, y, rad float64, c colorful.Color, alpha float64) {
	r.circles++
	r.ops = append(r.ops, "circle")
}

func (r *recorder) Glow(x, y, rad float64, c colorful.Color, alpha float64) {
	r.glows++
	r.ops = append(r.ops, "glow")
}

var epoch = time.Unix(1700000000, 0)

func newTestField(t *testing.T, cfg *config.Config, opts Options) (*Field, *recorder) {
	t.Helper()
	rec := &recorder{}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	f := New(rec, cfg, opts)
	if f == nil {
		t.Fatal("New returned nil for a non-nil surface")
	}
	return f, rec
}

func TestResizeGridCount(t *testing.T) {
	tests := []struct {
		name          string
		spacing       float64
		width, height float64
		expected      int
	}{
		{"800x600 spacing 40", 40, 800, 600, 300},
		{"partial column", 40, 801, 600, 315},
		{"spacing 50", 50, 1000, 1000, 400},
		{"empty", 40, 0, 0, 0},
		{"smaller than one cell", 40, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Spacing = tt.spacing
			f, _ := newTestField(t, cfg, Options{})
			f.Resize(tt.width, tt.height)
			if f.Len() != tt.expected {
				t.Errorf("expected %d points, got %d", tt.expected, f.Len())
			}
		})
	}
}

func TestResizeRejectsDegenerateSpacing(t *testing.T) {
	for _, spacing := range []float64{0, 0.001, -40, math.NaN(), math.Inf(1)} {
		cfg := config.DefaultConfig()
		cfg.Spacing = spacing
		f, _ := newTestField(t, cfg, Options{})
		f.Resize(800, 600)
		if f.Len() != 0 {
			t.Errorf("spacing %v built %d points", spacing, f.Len())
		}
	}
}

func TestResizePlacesPointsAtCellCenters(t *testing.T) {
	f, _ := newTestField(t, config.DefaultConfig(), Options{})
	f.Resize(80, 80)
	want := [][2]float64{{20, 20}, {60, 20}, {20, 60}, {60, 60}}
	pts := f.Points()
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(pts))
	}
	for i, p := range pts {
		if p.X != want[i][0] || p.Y != want[i][1] {
			t.Errorf("point %d at (%v,%v), want %v", i, p.X, p.Y, want[i])
		}
		if p.WaveOffset < 0 || p.WaveOffset >= 2*math.Pi {
			t.Errorf("point %d wave offset %v out of range", i, p.WaveOffset)
		}
	}
}

func TestResizeExcludesSidebar(t *testing.T) {
	sidebar := Rect{Left: 0, Top: 0, Right: 60, Bottom: 200}
	f, _ := newTestField(t, config.DefaultConfig(), Options{
		Exclusion: func() (Rect, bool) { return sidebar, true },
	})
	f.Resize(800, 600)

	// Expanded box is x in [-50,110], y in [-100,300]: 3 columns x 8 rows.
	if f.Len() != 300-24 {
		t.Fatalf("expected %d points, got %d", 300-24, f.Len())
	}
	box := sidebar.Expand(config.DefaultMarginX, config.DefaultMarginY)
	for _, p := range f.Points() {
		if box.Contains(p.X, p.Y) {
			t.Fatalf("point (%v,%v) inside exclusion box", p.X, p.Y)
		}
	}
}

func TestResizeQueriesExclusionEachRebuild(t *testing.T) {
	calls := 0
	f, _ := newTestField(t, config.DefaultConfig(), Options{
		Exclusion: func() (Rect, bool) {
			calls++
			return Rect{}, false
		},
	})
	f.Resize(800, 600)
	f.Resize(400, 300)
	if calls != 2 {
		t.Errorf("expected 2 exclusion queries, got %d", calls)
	}
	if f.Len() != 10*8 {
		t.Errorf("expected rebuilt grid of 80, got %d", f.Len())
	}
}

func TestNilSurfaceIsNoop(t *testing.T) {
	f := New(nil, config.DefaultConfig(), Options{})
	if f != nil {
		t.Fatal("expected nil field for nil surface")
	}
	f.Resize(800, 600)
	f.PointerMove(10, 10)
	f.Frame(epoch)
	f.Close()
	if f.Len() != 0 || f.Points() != nil {
		t.Error("nil field should have no points")
	}
}

func TestFarPointerLeavesPointsAtRest(t *testing.T) {
	cfg := config.DefaultConfig()
	f, _ := newTestField(t, cfg, Options{EntryPlayed: true})
	f.Resize(800, 600)
	resting, _ := cfg.Colors()

	f.PointerMove(100, 100)
	for i := 0; i < 10; i++ {
		f.Frame(epoch.Add(time.Duration(i) * 16 * time.Millisecond))
	}

	f.PointerMove(5000, 5000)
	for i := 10; i < 200; i++ {
		f.Frame(epoch.Add(time.Duration(i) * 16 * time.Millisecond))
	}

	for _, p := range f.Points() {
		if p.TargetSize != cfg.BaseSize {
			t.Fatalf("target size %v, want %v", p.TargetSize, cfg.BaseSize)
		}
		if p.TargetColor != resting {
			t.Fatalf("target color %v, want resting %v", p.TargetColor, resting)
		}
		if math.Abs(p.Size-cfg.BaseSize) > 1e-6 {
			t.Fatalf("size %v did not settle to %v", p.Size, cfg.BaseSize)
		}
	}
}

func TestPointerLeaveRelaxes(t *testing.T) {
	cfg := config.DefaultConfig()
	f, _ := newTestField(t, cfg, Options{EntryPlayed: true})
	f.Resize(200, 200)
	f.PointerMove(20, 20)
	f.Frame(epoch)
	f.PointerLeave()
	f.Frame(epoch)
	for _, p := range f.Points() {
		if p.TargetSize != cfg.BaseSize {
			t.Fatalf("target size %v after leave, want %v", p.TargetSize, cfg.BaseSize)
		}
	}
}

func TestSizeConvergesExponentially(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Amplitude = 2.5
	f, _ := newTestField(t, cfg, Options{EntryPlayed: true})
	f.Resize(800, 600)

	// Pointer on top of the first point with the wave at its crest.
	f.points[0].WaveOffset = -math.Pi / 2
	f.PointerMove(f.points[0].X, f.points[0].Y)
	_, highlight := cfg.Colors()

	f.Frame(epoch)
	p := f.points[0]
	if math.Abs(p.TargetSize-2.9) > 1e-9 {
		t.Fatalf("target size %v, want 2.9", p.TargetSize)
	}
	if p.TargetColor.DistanceRgb(highlight) > 1e-9 {
		t.Fatalf("target color %v, want highlight %v", p.TargetColor, highlight)
	}

	remaining := p.TargetSize - p.Size
	for i := 0; i < 60; i++ {
		f.Frame(epoch)
		next := f.points[0].TargetSize - f.points[0].Size
		if next < 0 || next > remaining {
			t.Fatalf("frame %d: size not monotone, remaining %v -> %v", i, remaining, next)
		}
		if math.Abs(next-remaining*(1-cfg.Ease)) > 1e-9 {
			t.Fatalf("frame %d: remaining %v, want %v", i, next, remaining*(1-cfg.Ease))
		}
		remaining = next
	}
	if remaining > 1e-3 {
		t.Errorf("size did not converge, remaining %v", remaining)
	}
}

func TestEntryAnimationRunsOnce(t *testing.T) {
	completed := 0
	cfg := config.DefaultConfig()
	f, _ := newTestField(t, cfg, Options{OnEntryComplete: func() { completed++ }})
	f.Resize(800, 600)

	for _, p := range f.Points() {
		if p.Size != 0 || p.Alpha != 0 {
			t.Fatalf("point starts at size %v alpha %v, want 0", p.Size, p.Alpha)
		}
	}

	f.Frame(epoch)
	f.Frame(epoch.Add(100 * time.Millisecond))
	pts := f.Points()
	corner := pts[len(pts)-1]
	if corner.Alpha != 0 {
		t.Errorf("far corner should still be hidden, alpha %v", corner.Alpha)
	}
	if !f.Entering() {
		t.Fatal("entry should still be running")
	}

	f.Frame(epoch.Add(2400 * time.Millisecond))
	if completed != 0 {
		t.Fatal("entry completed early")
	}
	f.Frame(epoch.Add(2500 * time.Millisecond))
	f.Frame(epoch.Add(3 * time.Second))
	if completed != 1 {
		t.Fatalf("expected one completion, got %d", completed)
	}
	for _, p := range f.Points() {
		if p.Alpha != 1 {
			t.Fatalf("alpha %v after entry, want 1", p.Alpha)
		}
	}

	// Rebuilt grids start at rest once the entry has played.
	f.Resize(400, 400)
	for _, p := range f.Points() {
		if p.Size != cfg.BaseSize || p.Alpha != 1 {
			t.Fatalf("rebuilt point size %v alpha %v, want %v and 1", p.Size, p.Alpha, cfg.BaseSize)
		}
	}
}

func TestEntryClockStartsAtFirstFrame(t *testing.T) {
	f, _ := newTestField(t, config.DefaultConfig(), Options{})
	f.Resize(800, 600)
	if got := f.Elapsed(epoch.Add(time.Hour)); got != 0 {
		t.Fatalf("elapsed %v before the first frame, want 0", got)
	}

	f.Frame(epoch.Add(10 * time.Second))
	if !f.Entering() {
		t.Fatal("entry should start at the first frame, not at Resize")
	}

	f.Resize(1000, 700)
	f.Frame(epoch.Add(11 * time.Second))
	if got := f.Elapsed(epoch.Add(11 * time.Second)); got != time.Second {
		t.Errorf("elapsed %v after resize, want 1s", got)
	}
}

func TestEntryStaggerFollowsDistanceFromCenter(t *testing.T) {
	f, _ := newTestField(t, config.DefaultConfig(), Options{})
	f.Resize(800, 600)
	var near, far Point
	nearest, farthest := math.Inf(1), -1.0
	for _, p := range f.Points() {
		d := math.Hypot(p.X-400, p.Y-300)
		if d < nearest {
			nearest, near = d, p
		}
		if d > farthest {
			farthest, far = d, p
		}
	}
	if near.EntryDelay >= far.EntryDelay {
		t.Errorf("center delay %v should precede corner delay %v", near.EntryDelay, far.EntryDelay)
	}
	if far.EntryDelay > config.EntryStagger {
		t.Errorf("delay %v exceeds stagger %v", far.EntryDelay, config.EntryStagger)
	}
}

func TestEntryPlayedSkipsAnimation(t *testing.T) {
	completed := 0
	cfg := config.DefaultConfig()
	f, _ := newTestField(t, cfg, Options{EntryPlayed: true, OnEntryComplete: func() { completed++ }})
	f.Resize(800, 600)
	f.Frame(epoch)
	f.Frame(epoch.Add(3 * time.Second))

	if f.Entering() {
		t.Error("entry should be skipped")
	}
	if completed != 0 {
		t.Error("callback must not fire when entry already played")
	}
	for _, p := range f.Points() {
		if p.Alpha != 1 || math.Abs(p.Size-cfg.BaseSize) > 1e-9 {
			t.Fatalf("point at alpha %v size %v, want full rest", p.Alpha, p.Size)
		}
	}
}

func TestTorchDrawnBeforePoints(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Torch.Enabled = true
	f, rec := newTestField(t, cfg, Options{EntryPlayed: true})
	f.Resize(80, 80)
	f.PointerMove(1000, 1000)
	f.Frame(epoch)

	if len(rec.ops) < 2 || rec.ops[0] != "clear" || rec.ops[1] != "glow" {
		t.Fatalf("expected clear then torch glow, got %v", rec.ops)
	}
	if rec.circles != 4 {
		t.Errorf("expected 4 circles, got %d", rec.circles)
	}

	f.SetTorch(false)
	rec.ops = nil
	f.Frame(epoch)
	for _, op := range rec.ops {
		if op == "glow" {
			t.Fatal("torch drawn while disabled")
		}
	}
}

func TestHaloAboveGlowThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ease = 1
	f, rec := newTestField(t, cfg, Options{EntryPlayed: true})
	f.Resize(40, 40)
	f.points[0].WaveOffset = -math.Pi / 2
	f.PointerMove(20, 20)
	f.Frame(epoch)

	if rec.glows != 1 || rec.circles != 1 {
		t.Errorf("expected one halo and one circle, got %d glows %d circles", rec.glows, rec.circles)
	}
}

func TestReconfigureRebuilds(t *testing.T) {
	f, _ := newTestField(t, config.DefaultConfig(), Options{})
	f.Resize(800, 600)
	cfg := config.GetPreset("compact")
	f.Reconfigure(cfg)
	if f.Len() != 12*16 {
		t.Errorf("expected %d points at spacing 50, got %d", 12*16, f.Len())
	}
	if !f.Torch() {
		t.Error("compact preset enables the torch")
	}
}

func TestCloseStopsDrawing(t *testing.T) {
	f, rec := newTestField(t, config.DefaultConfig(), Options{EntryPlayed: true})
	f.Resize(80, 80)
	f.Close()
	f.Frame(epoch)
	if len(rec.ops) != 0 {
		t.Errorf("closed field drew %v", rec.ops)
	}
}

func TestReplayRestartsEntry(t *testing.T) {
	completed := 0
	f, _ := newTestField(t, config.DefaultConfig(), Options{EntryPlayed: true, OnEntryComplete: func() { completed++ }})
	f.Resize(800, 600)
	f.Frame(epoch)

	f.Replay()
	if !f.Entering() {
		t.Fatal("Replay should restart the entry")
	}
	for _, p := range f.Points() {
		if p.Size != 0 {
			t.Fatalf("replayed point starts at %v, want 0", p.Size)
		}
	}
	later := epoch.Add(10 * time.Second)
	f.Frame(later)
	f.Frame(later.Add(time.Duration(config.EntryDuration * float64(time.Second))))
	if completed != 1 {
		t.Errorf("expected one completion after replay, got %d", completed)
	}
}
