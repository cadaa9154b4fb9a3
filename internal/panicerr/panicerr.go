// Package panicerr runs a function in isolation, turning any panic or
// runtime.Goexit into an Error that records where the function was at the time.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Error is a recovered panic, or a recovered runtime.Goexit if Exit is true.
type Error struct {
	Name  string      // what was running
	At    string      // where it was, as reported by its locator
	Value interface{} // passed to panic
	Exit  bool
	Stack []byte
}

func (e Error) Error() string { return fmt.Sprint(e) }

func (e Error) Format(f fmt.State, c rune) {
	if e.Exit {
		fmt.Fprintf(f, "%v called runtime.Goexit", e.Name)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", e.Name, e.Value)
	}
	if e.At != "" {
		fmt.Fprintf(f, " at %v", e.At)
	}
	if c == 'v' && f.Flag('+') && len(e.Stack) > 0 {
		fmt.Fprintf(f, "\npanic stack: %s", e.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (e Error) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recover runs f in a new goroutine and waits for it. If f panics or calls
// runtime.Goexit, the returned Error is located by calling at, if non-nil,
// before Recover returns; f's state is still intact then.
func Recover(name string, at func() string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		returned := false
		defer func() {
			if returned {
				return
			}
			e := Error{Name: name}
			if e.Value = recover(); e.Value != nil {
				e.Stack = debug.Stack()
			} else {
				e.Exit = true
			}
			if at != nil {
				e.At = at()
			}
			errch <- e
		}()
		err := f()
		returned = true
		errch <- err
	}()
	return <-errch
}

// As returns the recovered Error within err, if any.
func As(err error) (Error, bool) {
	var e Error
	ok := errors.As(err, &e)
	return e, ok
}

// PanicStack returns the stack trace of a recovered panic within err, or "".
func PanicStack(err error) string {
	if e, ok := As(err); ok {
		return string(e.Stack)
	}
	return ""
}
