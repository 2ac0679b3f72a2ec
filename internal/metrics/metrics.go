// Package metrics exports frame and hook timing from the driver to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/core/controller"
)

const namespace = "viewer"

// Observer implements driver.Observer.
type Observer struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	phaseDuration *prometheus.HistogramVec
	phaseSkipped  *prometheus.CounterVec
}

// NewObserver creates the viewer metrics and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Number of completed frames.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time of one frame, from poll_events to the last end_draw.",
			Buckets:   []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Time spent in one controller hook.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"phase", "controller"}),
		phaseSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_skipped_total",
			Help:      "Draw hooks skipped because the controller was disabled.",
		}, []string{"phase", "controller"}),
	}
	for _, c := range []prometheus.Collector{o.frames, o.frameDuration, o.phaseDuration, o.phaseSkipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) ObservePhase(p controller.Phase, name string, d time.Duration) {
	o.phaseDuration.WithLabelValues(p.String(), name).Observe(d.Seconds())
}

func (o *Observer) ObserveSkip(p controller.Phase, name string) {
	o.phaseSkipped.WithLabelValues(p.String(), name).Inc()
}

func (o *Observer) ObserveFrame(_ uint64, d time.Duration) {
	o.frames.Inc()
	o.frameDuration.Observe(d.Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
