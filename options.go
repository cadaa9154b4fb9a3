package main

import (
	"io"

	"github.com/jcorbin/goforth/internal/flushio"
)

type VMOption interface{ apply(vm *VM) }

var defaults = []VMOption{
	withOutput(io.Discard),
	depthLimitOption(defaultDepthLimit),
}

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(vm)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

// VMOptions combines any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type closerOption struct{ io.Closer }
type depthLimitOption int
type cellLimitOption uint

func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withTee(w io.Writer) teeOption       { return teeOption{w} }

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (o closerOption) apply(vm *VM) {
	vm.closers = append(vm.closers, o.Closer)
}

func (lim depthLimitOption) apply(vm *VM) { vm.depthLimit = int(lim) }
func (lim cellLimitOption) apply(vm *VM)  { vm.cells.Limit = uint(lim) }
