package platform

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ScriptEntry is one line of an input script.
type ScriptEntry struct {
	Frame  uint64  `yaml:"frame"`
	Key    string  `yaml:"key"`
	Action string  `yaml:"action"` // "press" or "release"
	DX     float32 `yaml:"dx"`
	DY     float32 `yaml:"dy"`
}

// ScriptSource replays recorded input frame by frame. The first Poll is
// frame 1.
type ScriptSource struct {
	events map[uint64][]Event
	frame  uint64
	last   uint64
}

// LoadScriptSource reads an input script from a YAML file.
func LoadScriptSource(path string) (*ScriptSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input script: %w", err)
	}
	return ParseScript(raw)
}

// ParseScript builds a ScriptSource from YAML.
func ParseScript(raw []byte) (*ScriptSource, error) {
	var entries []ScriptEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	return NewScriptSource(entries)
}

// NewScriptSource orders entries by frame, keeping file order within a
// frame. entries is not modified.
func NewScriptSource(entries []ScriptEntry) (*ScriptSource, error) {
	entries = slices.Clone(entries)
	slices.SortStableFunc(entries, func(a, b ScriptEntry) int { return cmp.Compare(a.Frame, b.Frame) })

	s := &ScriptSource{events: make(map[uint64][]Event, len(entries))}
	for i, e := range entries {
		if e.Frame == 0 {
			return nil, fmt.Errorf("input script entry %d: frame numbers start at 1", i)
		}
		ev := Event{DX: e.DX, DY: e.DY}
		if e.Key != "" {
			id, ok := ParseKey(e.Key)
			if !ok {
				return nil, fmt.Errorf("input script entry %d: unknown key %q", i, e.Key)
			}
			ev.Key = id
			switch e.Action {
			case "press", "":
				ev.Action = ActionPress
			case "release":
				ev.Action = ActionRelease
			default:
				return nil, fmt.Errorf("input script entry %d: unknown action %q", i, e.Action)
			}
		}
		s.events[e.Frame] = append(s.events[e.Frame], ev)
		s.last = e.Frame
	}
	return s, nil
}

func (s *ScriptSource) Open() error { return nil }

func (s *ScriptSource) Poll() []Event {
	s.frame++
	return s.events[s.frame]
}

func (s *ScriptSource) Close() error { return nil }

// Done reports whether every scripted event has been delivered.
func (s *ScriptSource) Done() bool { return s.frame >= s.last }
