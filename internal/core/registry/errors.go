package registry

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnregistered  = errors.New("unregistered dependency")
	ErrFrozen        = errors.New("controller order is frozen")
	ErrForeignHandle = errors.New("handle belongs to another registry")
	ErrNilHandle     = errors.New("nil handle")
	ErrNilController = errors.New("nil controller")
)

// DuplicateError is returned when a controller type is registered twice.
type DuplicateError struct {
	Type reflect.Type
	Name string // name of the instance already registered
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("controller %s (%s) is already registered", e.Name, e.Type)
}

// LookupError is returned when no controller is registered for a type.
type LookupError struct {
	Type reflect.Type
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnregistered, e.Type)
}

func (e *LookupError) Unwrap() error { return ErrUnregistered }
