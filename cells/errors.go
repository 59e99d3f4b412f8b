package cells

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidGraph  = errors.New("invalid cell graph")
	ErrCycle         = errors.New("cycle detected")
	ErrUnknownCell   = errors.New("unknown cell")
	ErrNotInput      = errors.New("not an input cell")
	ErrComputeFailed = errors.New("compute failed")
)

// GraphError wraps deterministic graph construction and lookup failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

// ComputeError reports a compute function that returned an error or panicked
// during propagation. The staged update it belonged to was discarded whole.
type ComputeError struct {
	Cell string
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrComputeFailed.Error(), e.Cell, e.Err.Error())
}

func (e *ComputeError) Unwrap() []error { return []error{ErrComputeFailed, e.Err} }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrCycle, Msg: msg}
}

func computeError(cell string, err error) error {
	return &ComputeError{Cell: cell, Err: err}
}
