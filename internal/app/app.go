// Package app wires the viewer: it registers the engine and application
// controllers, declares their ordering constraints and runs the driver.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/driver"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/gui"
	"github.com/rgscene/viewer/internal/instance"
	"github.com/rgscene/viewer/internal/metrics"
	"github.com/rgscene/viewer/internal/persist"
	"github.com/rgscene/viewer/internal/platform"
	"github.com/rgscene/viewer/internal/resources"
	"github.com/rgscene/viewer/internal/scene"
	"github.com/rgscene/viewer/internal/scripting"
)

var _ controller.Controller = (*EngineControllersEnd)(nil)

// EngineControllersEnd has no behaviour. Engine controllers run before it
// and application controllers after it, so an application controller needs
// one constraint instead of one per engine controller.
type EngineControllersEnd struct {
	controller.Base
}

func (*EngineControllersEnd) Name() string { return "engine::core::EngineControllersEnd" }

// App owns one viewer instance.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	reg     *registry.Registry
	prom    *prometheus.Registry
	source  platform.Source
	opener  persist.Opener
	runOpts []driver.Option

	ready  bool
	runner *driver.Runner
}

// Option configures an App.
type Option func(*App)

// WithInputSource replaces the source selected by the [input] section.
func WithInputSource(src platform.Source) Option {
	return func(a *App) { a.source = src }
}

// WithStoreOpener enables settings persistence with the given store, even
// without a configured DSN.
func WithStoreOpener(o persist.Opener) Option {
	return func(a *App) { a.opener = o }
}

// WithPrometheusRegistry collects metrics into reg instead of a private
// registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(a *App) { a.prom = reg }
}

// WithDriverOptions passes extra options to the frame driver.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(a *App) { a.runOpts = append(a.runOpts, opts...) }
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		cfg:  cfg,
		log:  log,
		reg:  registry.New(log),
		prom: prometheus.NewRegistry(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.opener == nil && cfg.Database.DSN != "" {
		a.opener = persist.PostgresOpener(cfg.Database, log)
	}
	return a
}

// Registry exposes the controller registry, mainly for inspection.
func (a *App) Registry() *registry.Registry { return a.reg }

// Gatherer returns the metrics registry.
func (a *App) Gatherer() prometheus.Gatherer { return a.prom }

// binder registers controllers and constraints, keeping the first error.
type binder struct {
	reg *registry.Registry
	err error
}

func register[T controller.Controller](b *binder, c T) *registry.Handle {
	if b.err != nil {
		return nil
	}
	h, err := registry.Register(b.reg, c)
	b.err = err
	return h
}

func handle[T controller.Controller](b *binder) *registry.Handle {
	if b.err != nil {
		return nil
	}
	h, err := registry.HandleOf[T](b.reg)
	b.err = err
	return h
}

func (b *binder) before(h, other *registry.Handle) {
	if b.err == nil {
		b.err = h.Before(other)
	}
}

func (b *binder) after(h, other *registry.Handle) {
	if b.err == nil {
		b.err = h.After(other)
	}
}

// Setup registers every controller and declares the ordering constraints.
// It runs once; later calls are no-ops.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	src := a.source
	if src == nil {
		var err error
		if src, err = platform.NewSource(a.cfg.Input); err != nil {
			return err
		}
	}

	b := &binder{reg: a.reg}
	a.setupEngine(b, src)
	a.setupApplication(b)

	if b.err != nil {
		return fmt.Errorf("setup controllers: %w", b.err)
	}
	a.ready = true
	a.log.Debug("controllers registered", zap.Strings("controllers", a.reg.Names()))
	return nil
}

// setupEngine registers the engine controllers, chained so they all run
// before the EngineControllersEnd marker.
func (a *App) setupEngine(b *binder, src platform.Source) {
	platformH := register(b, platform.New(src, a.log))
	graphicsH := register(b, graphics.New(a.cfg.Window, a.log))
	resourcesH := register(b, resources.New(a.cfg.Assets.Manifest, a.log))
	endH := register(b, &EngineControllersEnd{})
	b.before(platformH, graphicsH)
	b.before(graphicsH, resourcesH)
	b.before(resourcesH, endH)
}

// setupApplication registers the application controllers. Engine handles
// are looked up by type.
func (a *App) setupApplication(b *binder) {
	endH := handle[*EngineControllersEnd](b)

	mainH := register(b, scene.New(a.reg, a.log))
	guiH := register(b, gui.New(a.reg, a.log))
	instanceH := register(b, instance.New(a.reg, a.log))
	bloomH := register(b, bloom.New(a.reg, a.cfg.Bloom, a.log))

	b.after(mainH, endH)
	b.before(mainH, guiH)
	b.after(instanceH, endH)
	b.before(instanceH, mainH)
	b.after(bloomH, endH)
	b.before(bloomH, mainH)

	if a.cfg.Scripting.Enabled {
		scriptH := register(b, scripting.New(a.reg, a.cfg.Scripting, a.log))
		b.after(scriptH, endH)
		b.before(scriptH, mainH)
	}
	if a.opener != nil {
		persistH := register(b, persist.New(a.reg, a.opener, a.log))
		b.after(persistH, guiH)
		b.after(persistH, bloomH)
		b.after(persistH, handle[*graphics.Controller](b))
	}
}

// Order resolves the controller order and returns the names in execution
// order.
func (a *App) Order() ([]string, error) {
	if err := a.Setup(); err != nil {
		return nil, err
	}
	order, err := a.reg.Resolve()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(order))
	for i, c := range order {
		names[i] = c.Name()
	}
	return names, nil
}

// Run sets up the controllers and drives them until a controller stops the
// loop, the frame limit is reached or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}
	observer, err := metrics.NewObserver(a.prom)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	opts := []driver.Option{
		driver.WithFrameRate(a.cfg.Viewer.FrameRate),
		driver.WithMaxFrames(a.cfg.Viewer.MaxFrames),
		driver.WithObserver(observer),
	}
	runner, err := driver.NewRunner(a.reg, a.log, append(opts, a.runOpts...)...)
	if err != nil {
		return err
	}
	a.runner = runner

	if addr := a.cfg.Metrics.Listen; addr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := metrics.Serve(srvCtx, addr, a.prom, a.log); err != nil {
				a.log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	return runner.Run(ctx)
}

// Frames returns the number of frames completed by Run.
func (a *App) Frames() uint64 {
	if a.runner == nil {
		return 0
	}
	return a.runner.Frame()
}

// StopReason reports why Run's frame loop ended.
func (a *App) StopReason() driver.StopReason {
	if a.runner == nil {
		return driver.StopReason{}
	}
	return a.runner.StopReason()
}
