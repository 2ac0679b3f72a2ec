package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgscene/viewer/internal/config"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

type recordingObserver struct {
	BaseObserver
	keys  []string
	moves []MousePosition
}

func (r *recordingObserver) OnKey(id KeyID, state KeyState) {
	r.keys = append(r.keys, id.String()+":"+state.String())
}

func (r *recordingObserver) OnMouseMove(pos MousePosition) { r.moves = append(r.moves, pos) }

func mustScript(t *testing.T, yaml string) *ScriptSource {
	t.Helper()
	src, err := ParseScript([]byte(yaml))
	require.NoError(t, err)
	return src
}

func TestKeyStateCycle(t *testing.T) {
	src := mustScript(t, `
- {frame: 1, key: w, action: press}
- {frame: 3, key: w, action: release}
`)
	c := New(src, nil)
	require.NoError(t, c.Initialize())

	var states []KeyState
	for i := 0; i < 4; i++ {
		c.PollEvents()
		states = append(states, c.Key(KeyW).State)
	}
	assert.Equal(t, []KeyState{KeyJustPressed, KeyDown, KeyReleased, KeyUp}, states)
	assert.True(t, src.Done())
}

func TestPressWhileDownIsIgnored(t *testing.T) {
	src := mustScript(t, `
- {frame: 1, key: escape}
- {frame: 2, key: escape}
`)
	obs := &recordingObserver{}
	c := New(src, nil)
	c.RegisterObserver(obs)
	require.NoError(t, c.Initialize())

	c.PollEvents()
	c.PollEvents()
	assert.Equal(t, KeyDown, c.Key(KeyEscape).State)
	assert.Equal(t, []string{"escape:just_pressed"}, obs.keys)
}

func TestMouseDeltasResetEachFrame(t *testing.T) {
	src := mustScript(t, `
- {frame: 1, dx: 3, dy: -2}
- {frame: 1, dx: 1}
`)
	obs := &recordingObserver{}
	c := New(src, nil)
	c.RegisterObserver(obs)
	require.NoError(t, c.Initialize())

	c.PollEvents()
	assert.Equal(t, MousePosition{X: 4, Y: -2, DX: 4, DY: -2}, c.Mouse())
	require.Len(t, obs.moves, 1)

	c.PollEvents()
	assert.Equal(t, MousePosition{X: 4, Y: -2}, c.Mouse())
	assert.Len(t, obs.moves, 1)
}

func TestDtFromClock(t *testing.T) {
	clk := &fakeClock{t: time.Unix(100, 0)}
	c := New(NoneSource{}, nil, WithClock(clk.now))
	require.NoError(t, c.Initialize())

	clk.advance(20 * time.Millisecond)
	c.PollEvents()
	assert.InDelta(t, 0.02, c.Dt(), 1e-6)

	clk.advance(5 * time.Millisecond)
	c.PollEvents()
	assert.InDelta(t, 0.005, c.Dt(), 1e-6)
}

func TestCursorAndSwapBuffers(t *testing.T) {
	c := New(nil, nil)
	assert.True(t, c.CursorEnabled())
	c.SetCursorEnabled(false)
	assert.False(t, c.CursorEnabled())

	c.SwapBuffers()
	c.SwapBuffers()
	assert.Equal(t, uint64(2), c.FramesPresented())
	assert.Equal(t, "engine::platform::PlatformController", c.Name())
	assert.Equal(t, KeyUnknown, c.Key(KeyID(99)).ID)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"frame zero", `- {frame: 0, key: w}`, "start at 1"},
		{"unknown key", `- {frame: 1, key: f13}`, "unknown key"},
		{"unknown action", `- {frame: 1, key: w, action: tap}`, "unknown action"},
		{"bad yaml", `- {frame: [`, "parse input script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.InputConfig{Source: "none"})
	require.NoError(t, err)
	assert.IsType(t, NoneSource{}, src)

	src, err = NewSource(config.InputConfig{Source: "terminal"})
	require.NoError(t, err)
	assert.IsType(t, &TerminalSource{}, src)

	_, err = NewSource(config.InputConfig{Source: "script", Script: "does/not/exist.yaml"})
	assert.ErrorContains(t, err, "read input script")

	_, err = NewSource(config.InputConfig{Source: "joystick"})
	assert.Error(t, err)
}

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Event
	}{
		{"letters", "wD", []Event{{Key: KeyW, Action: ActionPress}, {Key: KeyD, Action: ActionPress}}},
		{"lone escape", "\x1b", []Event{{Key: KeyEscape, Action: ActionPress}}},
		{"ctrl-c", "\x03", []Event{{Key: KeyEscape, Action: ActionPress}}},
		{"f2", "\x1bOQ", []Event{{Key: KeyF2, Action: ActionPress}}},
		{"f2 vt", "\x1b[12~", []Event{{Key: KeyF2, Action: ActionPress}}},
		{"arrows", "\x1b[A\x1b[C", []Event{{DY: -mouseStep}, {DX: mouseStep}}},
		{"ignored", "z9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeKeys([]byte(tt.in)))
		})
	}
}

func TestTerminalSourceReleasesAfterHold(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	ts := NewTerminalSource()
	ts.now = clk.now

	ts.chunks <- []byte("w")
	assert.Equal(t, []Event{{Key: KeyW, Action: ActionPress}}, ts.Poll())

	clk.advance(keyHold / 2)
	ts.chunks <- []byte("w")
	assert.Equal(t, []Event{{Key: KeyW, Action: ActionPress}}, ts.Poll())

	clk.advance(keyHold / 2)
	assert.Empty(t, ts.Poll())

	clk.advance(keyHold)
	assert.Equal(t, []Event{{Key: KeyW, Action: ActionRelease}}, ts.Poll())
	assert.Empty(t, ts.Poll())
	assert.NoError(t, ts.Close())
}

func TestTapWithinOneFrameIsSeenAsPress(t *testing.T) {
	src := mustScript(t, `
- {frame: 1, key: f2, action: press}
- {frame: 1, key: f2, action: release}
`)
	obs := &recordingObserver{}
	c := New(src, nil)
	c.RegisterObserver(obs)
	require.NoError(t, c.Initialize())

	var states []KeyState
	for i := 0; i < 3; i++ {
		c.PollEvents()
		states = append(states, c.Key(KeyF2).State)
	}
	assert.Equal(t, []KeyState{KeyJustPressed, KeyReleased, KeyUp}, states)
	assert.Equal(t, []string{"f2:just_pressed", "f2:released"}, obs.keys)
}

func TestNewScriptSourceLeavesEntriesAlone(t *testing.T) {
	entries := []ScriptEntry{
		{Frame: 3, Key: "w"},
		{Frame: 1, Key: "a"},
		{Frame: 2, Key: "s"},
	}
	src, err := NewScriptSource(entries)
	require.NoError(t, err)

	assert.Equal(t, []uint64{3, 1, 2}, []uint64{entries[0].Frame, entries[1].Frame, entries[2].Frame})
	assert.Equal(t, KeyA, src.Poll()[0].Key)
	assert.Equal(t, KeyS, src.Poll()[0].Key)
	assert.Equal(t, KeyW, src.Poll()[0].Key)
	assert.True(t, src.Done())
}
