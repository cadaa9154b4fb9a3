package main

import (
	"context"
	"io"

	"github.com/jcorbin/goforth/internal/panicerr"
)

// New creates an interpreter session with the primitive dictionary installed.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.apply(opts...)
	return &vm
}

// Eval parses and runs one chunk of program text against the session. On
// failure the stack is left as the failing word's own restoration rule
// leaves it, and definitions completed by the chunk are kept.
func (vm *VM) Eval(text string) error {
	return vm.EvalContext(context.Background(), text)
}

// EvalContext is like Eval, but stops any word or loop body once ctx is done.
func (vm *VM) EvalContext(ctx context.Context, text string) error {
	vm.ctx, vm.at = ctx, nil
	defer func() { vm.ctx = nil }()
	err := panicerr.Recover("eval", vm.where, func() error {
		return vm.evalText(text)
	})
	if ferr := vm.out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		vm.logf("!", "error: %v", err)
	}
	return err
}

// Defining returns true while a word definition is open across chunks.
func (vm *VM) Defining() bool { return vm.parser.state != parseNormal }

// Stack returns a copy of the stack, bottom first.
func (vm *VM) Stack() []Value {
	return append([]Value(nil), vm.stack...)
}

func WithOutput(w io.Writer) VMOption   { return withOutput(w) }
func WithTee(w io.Writer) VMOption      { return withTee(w) }
func WithDepthLimit(limit int) VMOption { return depthLimitOption(limit) }
func WithCellLimit(limit uint) VMOption { return cellLimitOption(limit) }
func WithCloser(cl io.Closer) VMOption  { return closerOption{cl} }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
