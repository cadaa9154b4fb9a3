package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/goforth/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestInput struct {
	text    string
	wantErr error
}

type vmTestCase struct {
	name    string
	opts    []interface{}
	inputs  []vmTestInput
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withStack(values ...Value) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.stack = append(vm.stack, values...)
	}))
	return vmt
}

func (vmt vmTestCase) withDepthLimit(limit int) vmTestCase {
	vmt.opts = append(vmt.opts, WithDepthLimit(limit))
	return vmt
}

func (vmt vmTestCase) withCellLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithCellLimit(limit))
	return vmt
}

// withInput adds a chunk of program text, evaluated by its own Eval call.
func (vmt vmTestCase) withInput(text string) vmTestCase {
	vmt.inputs = append(vmt.inputs, vmTestInput{text: text})
	return vmt
}

// withFailingInput adds a chunk that must fail with err; later inputs still
// run against the same session.
func (vmt vmTestCase) withFailingInput(err error, text string) vmTestCase {
	vmt.inputs = append(vmt.inputs, vmTestInput{text: text, wantErr: err})
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if len(values) == 0 {
			assert.Empty(t, vm.stack, "expected empty stack")
		} else {
			assert.Equal(t, values, vm.stack, "expected stack values")
		}
	})
	return vmt
}

func (vmt vmTestCase) expectVariable(name string, value Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		got, err := vm.cells.Load(name)
		if assert.NoError(t, err, "expected variable %v", name) {
			assert.Equal(t, value, got, "expected variable %v value", name)
			assert.False(t, vm.cells.Fixed(name), "expected %v to be writable", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectConstant(name string, value Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		got, err := vm.cells.Load(name)
		if assert.NoError(t, err, "expected constant %v", name) {
			assert.Equal(t, value, got, "expected constant %v value", name)
			assert.True(t, vm.cells.Fixed(name), "expected %v to be read only", name)
		}
		b, _ := vm.dict.lookup(Op{Kind: OpConstant, Name: name})
		assert.Equal(t, Composite{Literal(value)}, b, "expected constant %v binding", name)
	})
	return vmt
}

func (vmt vmTestCase) expectWord(name string, body string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		b, defined := vm.dict.lookup(Op{Kind: OpWord, Name: name})
		if assert.True(t, defined, "expected word %v to be defined", name) {
			comp, _ := b.(Composite)
			assert.Equal(t, body, exprsString(comp), "expected word %v body", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectUndefined(name string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		_, _, err := vm.dict.resolve(nameOp(name))
		assert.True(t, errors.Is(err, ErrUndefined), "expected %v to be undefined, got: %v", name, err)
	})
	return vmt
}

func (vmt vmTestCase) expectDefining(defining bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, defining, vm.Defining(), "expected definition state")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestDump() vmTestCase {
	vmt.expect = append(vmt.expect, vmt.dumpToTest)
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
			t.Logf("out: "+mess, args...)
		}}
		return VMOptions(WithTee(lw), WithCloser(lw))
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		WithLogf(t.Logf).apply(vm)
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM eval error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()

	for i, in := range vmt.inputs {
		vm.logf(">", "input[%v] %q", i, in.text)
		err := vm.EvalContext(ctx, in.text)
		if in.wantErr == nil {
			if err != nil {
				return err
			}
		} else if !errors.Is(err, in.wantErr) {
			return fmt.Errorf("input[%v] %q expected error %v, got: %v", i, in.text, in.wantErr, err)
		}
	}
	return nil
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var opt VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opt = VMOptions(opt, impl(&vmt, t))
		case VMOption:
			opt = VMOptions(opt, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	return New(opt)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw, constructs: true}.dump()
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
