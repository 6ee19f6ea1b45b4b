package dots

import (
	"sync"
	"time"
)

// Loop drives a Field from its own goroutine. Input is handed over with Post
// so it never runs while a frame is being drawn.
type Loop struct {
	field *Field
	inbox chan func(*Field)
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Start begins producing a frame every interval and calls present after each
// one. A nil field yields a loop that is already stopped.
func Start(field *Field, interval time.Duration, present func()) *Loop {
	l := &Loop{
		field: field,
		inbox: make(chan func(*Field), 64),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if field == nil || interval <= 0 {
		l.once.Do(func() { close(l.stop) })
		close(l.done)
		return l
	}
	go l.run(interval, present)
	return l
}

func (l *Loop) run(interval time.Duration, present func()) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			l.field.Close()
			return
		case fn := <-l.inbox:
			fn(l.field)
		case now := <-ticker.C:
			l.field.Frame(now)
			if present != nil {
				present()
			}
		}
	}
}

// Post queues fn to run on the loop goroutine. It returns false once the
// loop is stopping.
func (l *Loop) Post(fn func(*Field)) bool {
	select {
	case <-l.stop:
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		return true
	case <-l.stop:
		return false
	}
}

// Stop halts frame scheduling, releases the field's surface and waits for
// the loop goroutine to exit. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}
