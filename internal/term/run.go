package term

import (
	"context"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/iburimskiy/dotfield/internal/dots"
	"github.com/iburimskiy/dotfield/internal/session"
	"github.com/lucasb-eyer/go-colorful"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// Run draws the field on an initialized screen until the user quits or ctx
// is done. The caller owns the screen and calls Fini afterwards. reload, if
// non-nil, delivers replacement configs.
func Run(ctx context.Context, screen tcell.Screen, cfg *config.Config, store *session.Store, rng *rand.Rand, reload <-chan *config.Config) error {
	screen.EnableMouse()
	screen.HideCursor()

	bg, err := colorful.Hex(config.DefaultBackground)
	if err != nil {
		return err
	}
	surf := NewSurface(screen, bg)
	field := dots.New(surf, cfg, dots.Options{
		EntryPlayed:     store.DotsAnimated(),
		OnEntryComplete: store.MarkDotsAnimated,
		Rand:            rng,
	})
	field.Resize(surf.Extent())

	loop := dots.Start(field, frameInterval, surf.Flush)
	defer loop.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-loop.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case next := <-reload:
			loop.Post(func(f *dots.Field) { f.Reconfigure(next) })
		case ev := <-events:
			if !handleEvent(ev, screen, surf, store, loop) {
				return nil
			}
		}
	}
}

func handleEvent(ev tcell.Event, screen tcell.Screen, surf *Surface, store *session.Store, loop *dots.Loop) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 't':
			loop.Post(func(f *dots.Field) { f.SetTorch(!f.Torch()) })
		case 'r':
			store.Reset()
			loop.Post(func(f *dots.Field) { f.Replay() })
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		px := float64(x*CellWidth) + CellWidth/2
		py := float64(y*CellHeight) + CellHeight/2
		loop.Post(func(f *dots.Field) { f.PointerMove(px, py) })

	case *tcell.EventResize:
		cols, rows := screen.Size()
		loop.Post(func(f *dots.Field) {
			surf.Resize(cols, rows)
			f.Resize(surf.Extent())
		})
		screen.Sync()
	}
	return true
}
