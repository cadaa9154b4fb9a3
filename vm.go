package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/goforth/internal/mem"
)

//// Environment

// VM is one interpreter session. Its dictionary, variable cells and stack
// persist across Eval calls; only the parser's open definition (if any) is
// dropped when a chunk fails to parse or commit.
type VM struct {
	ioCore

	parser parser
	dict   dictionary

	// Variables and bound constants live in named cells, separate from the
	// stack.
	cells mem.Cells

	// The stack is the only operand storage; every primitive takes its
	// arguments from it and leaves its results on it.
	stack []Value

	nesting    int // current evaluation depth
	depthLimit int // 0 means unbounded

	// last expression evaluated, and at what depth; locates recovered panics
	at      Expr
	atDepth int

	ctx context.Context
}

const defaultDepthLimit = 4096

func (vm *VM) push(vals ...Value) {
	vm.stack = append(vm.stack, vals...)
}

func (vm *VM) pop() (Value, error) {
	i := len(vm.stack) - 1
	if i < 0 {
		return 0, ErrEmptyStack
	}
	val := vm.stack[i]
	vm.stack = vm.stack[:i]
	return val, nil
}

// popN pops n values, returning them in push order; if fewer than n values
// are available nothing is popped.
func (vm *VM) popN(n int) ([]Value, error) {
	i := len(vm.stack) - n
	if i < 0 {
		return nil, ErrEmptyStack
	}
	vals := make([]Value, n)
	copy(vals, vm.stack[i:])
	vm.stack = vm.stack[:i]
	return vals, nil
}

// commit applies everything a successfully parsed chunk declared, or none of
// it. A bound constant may not be redeclared as a variable.
func (vm *VM) commit(res parsed) error {
	for _, name := range res.variables {
		if vm.cells.Fixed(name) {
			return fmt.Errorf("%w %v", ErrConstantReset, name)
		}
	}
	if err := vm.cells.Reserve(res.variables...); err != nil {
		return err
	}
	for _, name := range res.variables {
		if _, err := vm.cells.Declare(name); err != nil {
			return err
		}
	}
	for _, op := range res.order {
		vm.dict.define(op, res.entries[op])
		vm.logf("+", "%v %v", op, describe(res.entries[op]))
	}
	return nil
}

// evalText parses and runs one chunk of program text. A chunk that cannot be
// committed is dropped like one that fails to parse, open definition and all.
func (vm *VM) evalText(text string) error {
	res, err := vm.parser.parse(text)
	if err != nil {
		return err
	}
	if err := vm.commit(res); err != nil {
		vm.parser.reset()
		return err
	}
	for _, e := range res.program {
		if err := vm.eval(e); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) eval(e Expr) error {
	vm.at, vm.atDepth = e, vm.nesting
	switch e := e.(type) {
	case Literal:
		vm.push(Value(e))
		return nil
	case Op:
		return vm.call(e)
	default:
		panic(fmt.Sprintf("invalid expression type %T", e))
	}
}

// run evaluates a body, bounding nesting depth and checking for cancellation.
func (vm *VM) run(body []Expr) error {
	vm.nesting++
	defer func() { vm.nesting-- }()
	if lim := vm.depthLimit; lim != 0 && vm.nesting > lim {
		return ErrTooDeep
	}
	if vm.ctx != nil {
		if err := vm.ctx.Err(); err != nil {
			return err
		}
	}
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	for _, e := range body {
		if err := vm.eval(e); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) call(op Op) error {
	key, b, err := vm.dict.resolve(op)
	if err != nil {
		return err
	}
	if vm.logfn != nil {
		vm.logf(">", "%v -- s:%v", key, vm.stack)
	}

	switch b := b.(type) {
	case Primitive:
		return b.Fn(vm)

	case Composite:
		return vm.run(b)

	case VariableSlot:
		return nil

	case ConstantPending:
		if key.Kind != OpDeclare {
			return fmt.Errorf("%w for %v", ErrNoConstantValue, b.Name)
		}
		val, err := vm.pop()
		if err != nil {
			return fmt.Errorf("%w for %v", ErrNoConstantValue, b.Name)
		}
		return vm.bindConstant(key, b.Name, val)

	case VariableGet:
		if vm.dict.isConstant(b.Name) && !vm.cells.Fixed(b.Name) {
			return fmt.Errorf("%w for %v", ErrNoConstantValue, b.Name)
		}
		val, err := vm.cells.Load(b.Name)
		if err != nil {
			return cellError(b.Name, err)
		}
		vm.push(val)
		return nil

	case VariableSet:
		if vm.dict.isConstant(b.Name) || vm.cells.Fixed(b.Name) {
			return fmt.Errorf("%w %v", ErrConstantReset, b.Name)
		}
		if !vm.cells.Has(b.Name) {
			return UndefinedError{"variable", b.Name}
		}
		val, err := vm.pop()
		if err != nil {
			return err
		}
		return cellError(b.Name, vm.cells.Stor(b.Name, val))

	case Conditional:
		cond, err := vm.pop()
		if err != nil {
			return err
		}
		if cond != 0 {
			return vm.run(b.Then)
		}
		if b.Else != nil {
			return vm.run(b.Else)
		}
		return nil

	case LoopUntil:
		for {
			if err := vm.run(b.Body); err != nil {
				return err
			}
			if done, err := vm.pop(); err != nil {
				return err
			} else if done != 0 {
				return nil
			}
		}

	case LoopWhile:
		for {
			if err := vm.run(b.Head); err != nil {
				return err
			}
			if more, err := vm.pop(); err != nil {
				return err
			} else if more == 0 {
				return nil
			}
			if err := vm.run(b.Body); err != nil {
				return err
			}
		}

	default:
		panic(fmt.Sprintf("unhandled behavior %T for %v", b, key))
	}
}

// bindConstant permanently rebinds both the declaration site and the
// constant's name to push val.
func (vm *VM) bindConstant(site Op, name string, val Value) error {
	if _, err := vm.cells.Fix(name, val); err != nil {
		vm.push(val)
		return err
	}
	body := Composite{Literal(val)}
	vm.dict.define(site, body)
	vm.dict.define(Op{Kind: OpConstant, Name: name}, body)
	vm.logf("=", "constant %v = %v", name, val)
	return nil
}

// where describes the expression last evaluated.
func (vm *VM) where() string {
	if vm.at == nil {
		return ""
	}
	return fmt.Sprintf("%v (depth %v)", vm.at, vm.atDepth)
}

func cellError(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mem.ErrUndeclared):
		return UndefinedError{"variable", name}
	case errors.Is(err, mem.ErrReadOnly):
		return fmt.Errorf("%w %v", ErrConstantReset, name)
	}
	return err
}
