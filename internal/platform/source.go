package platform

import (
	"fmt"

	"github.com/rgscene/viewer/internal/config"
)

// Action is what happened to a key.
type Action int

const (
	ActionNone Action = iota
	ActionPress
	ActionRelease
)

// Event is one input event. Key events carry a KeyID and Action; mouse
// motion carries a non-zero delta.
type Event struct {
	Key    KeyID
	Action Action
	DX, DY float32
}

// Source delivers input events to the platform controller. Poll is called
// once per frame from PollEvents and must not block.
type Source interface {
	Open() error
	Poll() []Event
	Close() error
}

// NewSource builds the input source selected by the [input] config section.
func NewSource(cfg config.InputConfig) (Source, error) {
	switch cfg.Source {
	case "terminal":
		return NewTerminalSource(), nil
	case "script":
		return LoadScriptSource(cfg.Script)
	case "none", "":
		return NoneSource{}, nil
	}
	return nil, fmt.Errorf("unknown input source %q", cfg.Source)
}

// NoneSource never produces input. Used for headless runs bounded by
// max_frames.
type NoneSource struct{}

func (NoneSource) Open() error   { return nil }
func (NoneSource) Poll() []Event { return nil }
func (NoneSource) Close() error  { return nil }
