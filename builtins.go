package main

import (
	"fmt"
	"sort"
)

//// Primitives

// The primitive table is fixed at startup. Operands are popped in reverse of
// push order, so for binary words the deeper value is the left hand side:
// `7 2 -` is 5. Truth is 1, falsehood 0; any non-zero value counts as true.
var primitives map[string]Primitive

func init() {
	primitives = make(map[string]Primitive)
	for _, prim := range []Primitive{
		// Integer arithmetic wraps on overflow.
		binary("+", func(a, b Value) Value { return a + b }),
		binary("-", func(a, b Value) Value { return a - b }),
		binary("*", func(a, b Value) Value { return a * b }),

		// Division truncates toward zero; a zero divisor leaves every operand
		// back on the stack.
		dividing("/", 2, func(x []Value) []Value { return []Value{x[0] / x[1]} }),
		dividing("mod", 2, func(x []Value) []Value { return []Value{x[0] % x[1]} }),
		dividing("/mod", 2, func(x []Value) []Value { return []Value{x[0] % x[1], x[0] / x[1]} }),
		dividing("*/", 3, func(x []Value) []Value { return []Value{x[0] * x[1] / x[2]} }),
		dividing("*/mod", 3, func(x []Value) []Value {
			n := x[0] * x[1]
			return []Value{n % x[2], n / x[2]}
		}),

		unary("abs", func(a Value) Value {
			if a < 0 {
				return -a
			}
			return a
		}),
		unary("negate", func(a Value) Value { return -a }),
		unary("1+", func(a Value) Value { return a + 1 }),
		unary("1-", func(a Value) Value { return a - 1 }),
		unary("2+", func(a Value) Value { return a + 2 }),
		unary("2-", func(a Value) Value { return a - 2 }),
		unary("2*", func(a Value) Value { return a * 2 }),
		unary("2/", func(a Value) Value { return a / 2 }),

		// Logic is boolean, not bitwise.
		binary("and", func(a, b Value) Value { return boolValue(a != 0 && b != 0) }),
		binary("or", func(a, b Value) Value { return boolValue(a != 0 || b != 0) }),
		binary("xor", func(a, b Value) Value { return boolValue((a != 0) != (b != 0)) }),
		unary("not", func(a Value) Value { return boolValue(a == 0) }),
		unary("invert", func(a Value) Value { return boolValue(a == 0) }),

		binary("<", func(a, b Value) Value { return boolValue(a < b) }),
		binary("=", func(a, b Value) Value { return boolValue(a == b) }),
		binary(">", func(a, b Value) Value { return boolValue(a > b) }),
		binary("<=", func(a, b Value) Value { return boolValue(a <= b) }),
		binary(">=", func(a, b Value) Value { return boolValue(a >= b) }),
		binary("<>", func(a, b Value) Value { return boolValue(a != b) }),
		unary("0<", func(a Value) Value { return boolValue(a < 0) }),
		unary("0=", func(a Value) Value { return boolValue(a == 0) }),
		unary("0>", func(a Value) Value { return boolValue(a > 0) }),

		// Stack shuffling; indices name popped values bottom first.
		permute("dup", 1, 0, 0),
		permute("drop", 1),
		permute("swap", 2, 1, 0),
		permute("over", 2, 0, 1, 0),
		permute("rot", 3, 1, 2, 0),
		permute("2dup", 2, 0, 1, 0, 1),
		permute("2drop", 2),
		permute("2swap", 4, 2, 3, 0, 1),
		permute("2over", 4, 0, 1, 2, 3, 0, 1),

		{"pick", (*VM).pick},
		{"roll", (*VM).roll},
		{"depth", (*VM).depth},
		{".", (*VM).print},
	} {
		primitives[prim.Name] = prim
	}
}

func unary(name string, f func(a Value) Value) Primitive {
	return Primitive{name, func(vm *VM) error {
		a, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(f(a))
		return nil
	}}
}

func binary(name string, f func(a, b Value) Value) Primitive {
	return Primitive{name, func(vm *VM) error {
		x, err := vm.popN(2)
		if err != nil {
			return err
		}
		vm.push(f(x[0], x[1]))
		return nil
	}}
}

// dividing builds a word over n operands whose last one is a divisor.
func dividing(name string, n int, f func(x []Value) []Value) Primitive {
	return Primitive{name, func(vm *VM) error {
		x, err := vm.popN(n)
		if err != nil {
			return err
		}
		if x[n-1] == 0 {
			vm.push(x...)
			return ErrDivisionByZero
		}
		vm.push(f(x)...)
		return nil
	}}
}

func permute(name string, n int, idx ...int) Primitive {
	return Primitive{name, func(vm *VM) error {
		x, err := vm.popN(n)
		if err != nil {
			return err
		}
		for _, i := range idx {
			vm.push(x[i])
		}
		return nil
	}}
}

// Name    Function
// pick    pop n, copy the value n below the top onto the top; 0 pick is dup
func (vm *VM) pick() error {
	n, i, err := vm.popIndex()
	if err != nil {
		return err
	}
	vm.push(vm.stack[i])
	vm.logf("#", "pick %v", n)
	return nil
}

// Name    Function
// roll    pop n, move the value n below the top onto the top; 2 roll is rot
func (vm *VM) roll() error {
	n, i, err := vm.popIndex()
	if err != nil {
		return err
	}
	val := vm.stack[i]
	copy(vm.stack[i:], vm.stack[i+1:])
	vm.stack[len(vm.stack)-1] = val
	vm.logf("#", "roll %v", n)
	return nil
}

// popIndex pops n and returns the stack index n values below the new top; an
// out of range n is pushed back.
func (vm *VM) popIndex() (n Value, i int, err error) {
	n, err = vm.pop()
	if err != nil {
		return 0, 0, err
	}
	if n < 0 || n >= Value(len(vm.stack)) {
		vm.push(n)
		return n, 0, fmt.Errorf("%w for index %v", ErrNotEnoughValues, n)
	}
	return n, len(vm.stack) - 1 - int(n), nil
}

// Name    Function
// depth   push the number of values on the stack
func (vm *VM) depth() error { vm.push(Value(len(vm.stack))); return nil }

// Name    Function
// .       pop and print the top of the stack
func (vm *VM) print() error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(vm.out, "%d ", a)
	return err
}

// primitiveNames returns the sorted names of all primitives.
func primitiveNames() []string {
	names := make([]string, 0, len(primitives))
	for name := range primitives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
