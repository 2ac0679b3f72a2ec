// Package driver runs the controller lifecycle: initialize everything in the
// resolved order, drive the per-frame phases until a controller asks to stop,
// then terminate everything in reverse.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"go.uber.org/zap"
)

// Runner executes controllers phase by phase each frame.
type Runner struct {
	order     []controller.Controller
	log       *zap.Logger
	observer  Observer
	frameRate time.Duration
	maxFrames uint64
	now       func() time.Time

	frame uint64
	stop  StopReason
	ran   bool
}

// NewRunner resolves the registry's order. Configuration errors (cycles)
// surface here, before any controller is initialized.
func NewRunner(reg *registry.Registry, log *zap.Logger, opts ...Option) (*Runner, error) {
	order, err := reg.Resolve()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		order:    order,
		log:      log,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Run initializes all controllers, runs frames until stopped and terminates
// all controllers. It returns nil on a clean stop.
func (r *Runner) Run(ctx context.Context) error {
	if r.ran {
		return errors.New("runner: Run called twice")
	}
	r.ran = true

	if err := r.initialize(); err != nil {
		return err
	}

	r.loop(ctx)
	r.log.Info("frame loop stopped",
		zap.Stringer("reason", r.stop),
		zap.Uint64("frames", r.frame),
	)

	return r.terminate(r.order)
}

// Frame returns the number of completed frames.
func (r *Runner) Frame() uint64 { return r.frame }

// StopReason reports why the frame loop ended.
func (r *Runner) StopReason() StopReason { return r.stop }

// Order returns the controllers in execution order.
func (r *Runner) Order() []controller.Controller {
	out := make([]controller.Controller, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Runner) initialize() error {
	for i, c := range r.order {
		start := r.now()
		err := c.Initialize()
		r.observer.ObservePhase(controller.PhaseInitialize, c.Name(), r.now().Sub(start))
		if err != nil {
			r.log.Error("controller initialize failed",
				zap.String("controller", c.Name()),
				zap.Error(err),
			)
			// only the controllers that finished Initialize are torn down
			teardown := r.terminate(r.order[:i])
			return &InitError{Controller: c.Name(), Err: err, Teardown: teardown}
		}
		r.log.Info("controller initialized", zap.String("controller", c.Name()))
	}
	return nil
}

func (r *Runner) loop(ctx context.Context) {
	var tick <-chan time.Time
	if r.frameRate > 0 {
		ticker := time.NewTicker(r.frameRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if r.maxFrames > 0 && r.frame >= r.maxFrames {
			r.stop = StopReason{Kind: StopMaxFrames}
			return
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				r.stop = StopReason{Kind: StopCancelled}
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			r.stop = StopReason{Kind: StopCancelled}
			return
		}

		if !r.runFrame() {
			return
		}
	}
}

// runFrame runs one full frame and then asks every controller whether to
// continue. It reports false once a controller has asked to stop.
func (r *Runner) runFrame() bool {
	frameStart := r.now()

	for _, p := range controller.FramePhases() {
		for _, c := range r.order {
			// read per invocation so a toggle applies to the next call
			if p.Gated() && !c.Enabled() {
				r.observer.ObserveSkip(p, c.Name())
				continue
			}
			start := r.now()
			controller.Invoke(c, p)
			r.observer.ObservePhase(p, c.Name(), r.now().Sub(start))
		}
	}

	r.frame++
	r.observer.ObserveFrame(r.frame, r.now().Sub(frameStart))

	for _, c := range r.order {
		if !c.Loop() {
			r.stop = StopReason{Kind: StopRequested, Controller: c.Name()}
			return false
		}
	}
	return true
}

// terminate calls Terminate on cs in reverse order. A failure is logged and
// does not stop the remaining controllers from being terminated.
func (r *Runner) terminate(cs []controller.Controller) error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		start := r.now()
		err := c.Terminate()
		r.observer.ObservePhase(controller.PhaseTerminate, c.Name(), r.now().Sub(start))
		if err != nil {
			r.log.Error("controller terminate failed",
				zap.String("controller", c.Name()),
				zap.Error(err),
			)
			errs = append(errs, &ControllerError{Controller: c.Name(), Err: err})
			continue
		}
		r.log.Info("controller terminated", zap.String("controller", c.Name()))
	}
	if len(errs) == 0 {
		return nil
	}
	return &TeardownError{Errs: errs}
}
