package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rgscene/viewer/internal/core/controller"
)

func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)

	o.ObservePhase(controller.PhaseUpdate, "app::MainController", 2*time.Millisecond)
	o.ObservePhase(controller.PhaseDraw, "app::MainController", time.Millisecond)
	o.ObserveSkip(controller.PhaseDraw, "app::GuiController")
	o.ObserveSkip(controller.PhaseDraw, "app::GuiController")
	o.ObserveFrame(1, 10*time.Millisecond)
	o.ObserveFrame(2, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(o.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.phaseSkipped.WithLabelValues("draw", "app::GuiController")))
	assert.Equal(t, 2, testutil.CollectAndCount(o.phaseDuration, "viewer_phase_duration_seconds"))

	expected := `
# HELP viewer_frames_total Number of completed frames.
# TYPE viewer_frames_total counter
viewer_frames_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "viewer_frames_total"))
}

func TestNewObserverDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewObserver(reg)
	require.NoError(t, err)
	_, err = NewObserver(reg)
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)
	o.ObserveFrame(1, time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, reg, zaptest.NewLogger(t)) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, "viewer_frames_total 1")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
