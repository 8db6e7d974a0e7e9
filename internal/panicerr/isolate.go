// Package panicerr runs the compiler's internal passes under a goroutine
// boundary that converts a panic into a distinguishable error value,
// adapted from gothird's main-package isolate.go: internal errors
// (unbound handle at emission, structurally impossible IR state) are
// programmer bugs per §7, never ordinary diagnostics, so they're
// kept on a separate channel from the diag.List the rest of the
// pipeline reports through.
package panicerr

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
)

// Isolate runs f on its own goroutine and recovers any panic, wrapping it
// as a PanicError with a captured stack trace. A runtime.Goexit (e.g. from
// a misplaced testing.T.FailNow in test code reusing this path) surfaces
// as ExitError instead.
func Isolate(name string, f func() error) (err error) {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExit(name, errch)
		defer recoverPanic(name, errch)
		errch <- f()
	}()
	return <-errch
}

func recoverExit(name string, errch chan<- error) {
	select {
	case errch <- ExitError(name):
	default:
	}
}

func recoverPanic(name string, errch chan<- error) {
	var pe PanicError
	if pe.Value = recover(); pe.Value != nil {
		pe.Name = name
		pe.Stack = debug.Stack()
		select {
		case errch <- errors.WithStack(pe):
		default:
		}
	}
}

// ExitError reports that f called runtime.Goexit instead of returning.
type ExitError string

func (name ExitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// PanicError wraps a recovered panic value with the pass name and stack,
// matching spec §7's "internal errors abort immediately with a distinct
// message" requirement.
type PanicError struct {
	Name  string
	Value interface{}
	Stack []byte
}

func (pe PanicError) Error() string {
	if pe.Name == "" {
		return fmt.Sprintf("internal error: %v", pe.Value)
	}
	return fmt.Sprintf("internal error in %s: %v", pe.Name, pe.Value)
}
