package platform

import (
	"bytes"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// keyHold is how long a terminal key counts as held after its last byte.
// Terminals report no key-up, so a key is released once auto-repeat stops
// arriving; the window covers the usual initial repeat delay.
const keyHold = 550 * time.Millisecond

// mouseStep is the pointer delta produced by one arrow key.
const mouseStep = 12

// TerminalSource reads keystrokes from a raw-mode terminal. A reader
// goroutine feeds a buffered channel; Poll drains it without blocking.
type TerminalSource struct {
	in     *os.File
	state  *term.State
	chunks chan []byte
	done   chan struct{}
	once   sync.Once
	held   map[KeyID]time.Time
	now    func() time.Time
}

func NewTerminalSource() *TerminalSource {
	return &TerminalSource{
		in:     os.Stdin,
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
		held:   make(map[KeyID]time.Time),
		now:    time.Now,
	}
}

// Open switches the terminal to raw mode (when stdin is a terminal) and
// starts the reader.
func (t *TerminalSource) Open() error {
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		t.state = state
	}
	go t.read()
	return nil
}

// read blocks on stdin. A pending Read cannot be interrupted, so after Close
// the goroutine exits on its next chunk or at process exit.
func (t *TerminalSource) read() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if err != nil {
			return
		}
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		select {
		case t.chunks <- chunk:
		case <-t.done:
			return
		}
	}
}

func (t *TerminalSource) Poll() []Event {
	var events []Event
	now := t.now()
	for {
		select {
		case chunk := <-t.chunks:
			for _, ev := range decodeKeys(chunk) {
				if ev.Action == ActionPress {
					t.held[ev.Key] = now
				}
				events = append(events, ev)
			}
		default:
			goto drained
		}
	}
drained:
	for id, at := range t.held {
		if now.Sub(at) >= keyHold {
			delete(t.held, id)
			events = append(events, Event{Key: id, Action: ActionRelease})
		}
	}
	return events
}

// Close restores the terminal mode saved by Open.
func (t *TerminalSource) Close() error {
	t.once.Do(func() { close(t.done) })
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(int(t.in.Fd()), state)
}

var escapeSeqs = []struct {
	seq []byte
	ev  Event
}{
	{[]byte("\x1b[A"), Event{DY: -mouseStep}},
	{[]byte("\x1b[B"), Event{DY: mouseStep}},
	{[]byte("\x1b[C"), Event{DX: mouseStep}},
	{[]byte("\x1b[D"), Event{DX: -mouseStep}},
	{[]byte("\x1bOQ"), Event{Key: KeyF2, Action: ActionPress}},
	{[]byte("\x1b[12~"), Event{Key: KeyF2, Action: ActionPress}},
}

var byteKeys = map[byte]KeyID{
	'w': KeyW, 'W': KeyW,
	'a': KeyA, 'A': KeyA,
	's': KeyS, 'S': KeyS,
	'd': KeyD, 'D': KeyD,
	'i': KeyI, 'I': KeyI,
	'l': KeyL, 'L': KeyL,
	' ':  KeySpace,
	'x':  KeyLeftShift,
	'X':  KeyLeftShift,
	'\t': KeyF2,
	'q':  KeyEscape,
	0x03: KeyEscape, // Ctrl-C: raw mode swallows SIGINT
}

// decodeKeys turns raw terminal bytes into events. Arrow keys move the
// pointer; a lone ESC byte is the Escape key.
func decodeKeys(b []byte) []Event {
	var out []Event
	for i := 0; i < len(b); {
		if b[i] == 0x1b {
			matched := false
			for _, s := range escapeSeqs {
				if bytes.HasPrefix(b[i:], s.seq) {
					out = append(out, s.ev)
					i += len(s.seq)
					matched = true
					break
				}
			}
			if !matched {
				out = append(out, Event{Key: KeyEscape, Action: ActionPress})
				i++
			}
			continue
		}
		if id, ok := byteKeys[b[i]]; ok {
			out = append(out, Event{Key: id, Action: ActionPress})
		}
		i++
	}
	return out
}
