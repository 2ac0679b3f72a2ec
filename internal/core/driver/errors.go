package driver

import (
	"errors"
	"fmt"
	"strings"
)

// StopKind says why the frame loop ended.
type StopKind int

const (
	StopNone      StopKind = iota
	StopRequested          // a controller's Loop returned false
	StopMaxFrames
	StopCancelled // context cancelled, e.g. SIGINT
)

// StopReason describes the end of the frame loop.
type StopReason struct {
	Kind       StopKind
	Controller string // set for StopRequested
}

func (s StopReason) String() string {
	switch s.Kind {
	case StopRequested:
		return "requested by " + s.Controller
	case StopMaxFrames:
		return "frame limit reached"
	case StopCancelled:
		return "context cancelled"
	}
	return "running"
}

// ControllerError ties an error to the controller hook that returned it.
type ControllerError struct {
	Controller string
	Err        error
}

func (e *ControllerError) Error() string { return e.Controller + ": " + e.Err.Error() }
func (e *ControllerError) Unwrap() error { return e.Err }

// InitError aborts startup. Teardown holds any error from terminating the
// controllers initialized before the failure.
type InitError struct {
	Controller string
	Err        error
	Teardown   error
}

func (e *InitError) Error() string {
	msg := fmt.Sprintf("initialize %s: %v", e.Controller, e.Err)
	if e.Teardown != nil {
		msg += "; " + e.Teardown.Error()
	}
	return msg
}

func (e *InitError) Unwrap() []error {
	if e.Teardown == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Teardown}
}

// TeardownError collects every Terminate failure.
type TeardownError struct {
	Errs []error
}

func (e *TeardownError) Error() string {
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Error()
	}
	return "terminate: " + strings.Join(parts, "; ")
}

func (e *TeardownError) Unwrap() []error { return e.Errs }

// ExitCode maps a Run result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// IsConfigError reports whether err is a setup problem detected before any
// controller ran (cycle, duplicate, missing dependency).
func IsConfigError(err error) bool {
	var ie *InitError
	var te *TeardownError
	return err != nil && !errors.As(err, &ie) && !errors.As(err, &te)
}
