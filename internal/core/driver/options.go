package driver

import (
	"time"

	"github.com/rgscene/viewer/internal/core/controller"
)

// Option configures a Runner.
type Option func(*Runner)

// WithFrameRate paces frames with a ticker. Zero runs frames back to back.
func WithFrameRate(d time.Duration) Option {
	return func(r *Runner) { r.frameRate = d }
}

// WithMaxFrames stops the loop after n frames. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(r *Runner) { r.maxFrames = n }
}

// WithObserver receives timing for every hook invocation.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithClock replaces time.Now for phase timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Observer is notified as the runner invokes hooks. Calls arrive on the
// driver goroutine.
type Observer interface {
	ObservePhase(p controller.Phase, name string, d time.Duration)
	ObserveSkip(p controller.Phase, name string)
	ObserveFrame(frame uint64, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObservePhase(controller.Phase, string, time.Duration) {}
func (nopObserver) ObserveSkip(controller.Phase, string)                 {}
func (nopObserver) ObserveFrame(uint64, time.Duration)                   {}
