package main

import (
	"fmt"
	"io"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	// include position keyed construct bindings
	constructs bool
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	dump.dumpStack()
	dump.dumpWords()
	dump.dumpCells()
	if dump.constructs {
		dump.dumpConstructs()
	}
}

func (dump vmDumper) dumpStack() {
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.vm.stack)
	if dump.vm.parser.state != parseNormal {
		fmt.Fprintf(dump.out, "  defining: %v %v\n", dump.vm.parser.wordName, dump.vm.parser.wordBody)
	}
}

func (dump vmDumper) dumpWords() {
	words := dump.vm.dict.keys(OpWord)
	if len(words) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Words\n")
	for _, op := range words {
		b, _ := dump.vm.dict.lookup(op)
		if body, ok := b.(Composite); ok && len(body) > 0 {
			fmt.Fprintf(dump.out, "  : %v %v ;\n", op.Name, exprsString(body))
		} else {
			fmt.Fprintf(dump.out, "  : %v ;\n", op.Name)
		}
	}
}

func (dump vmDumper) dumpCells() {
	cells := dump.vm.cells.Dump()
	var pending []Op
	for _, op := range dump.vm.dict.keys(OpConstant) {
		if b, _ := dump.vm.dict.lookup(op); isPending(b) {
			pending = append(pending, op)
		}
	}
	if len(cells.Names) == 0 && len(pending) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Cells\n")
	for i, name := range cells.Names {
		if cells.Fixed[i] {
			fmt.Fprintf(dump.out, "  constant %v = %v\n", name, cells.Values[i])
		} else {
			fmt.Fprintf(dump.out, "  variable %v = %v\n", name, cells.Values[i])
		}
	}
	for _, op := range pending {
		fmt.Fprintf(dump.out, "  constant %v pending\n", op.Name)
	}
}

func (dump vmDumper) dumpConstructs() {
	ops := dump.vm.dict.keys(OpDeclare, OpGet, OpSet, OpIf, OpUntil, OpWhile)
	if len(ops) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Constructs\n")
	for _, op := range ops {
		b, _ := dump.vm.dict.lookup(op)
		fmt.Fprintf(dump.out, "  %v %v\n", op, describe(b))
	}
}

func isPending(b Behavior) bool {
	_, is := b.(ConstantPending)
	return is
}

// describe formats a behavior for logs and dumps.
func describe(b Behavior) string {
	switch b := b.(type) {
	case Primitive:
		return "primitive " + b.Name
	case Composite:
		return "{ " + exprsString(b) + " }"
	case VariableSlot:
		return "variable"
	case ConstantPending:
		return "pending constant " + b.Name
	case VariableGet:
		return b.Name + " @"
	case VariableSet:
		return b.Name + " !"
	case Conditional:
		if b.Else != nil {
			return fmt.Sprintf("if { %v } else { %v } then", exprsString(b.Then), exprsString(b.Else))
		}
		return fmt.Sprintf("if { %v } then", exprsString(b.Then))
	case LoopUntil:
		return fmt.Sprintf("begin { %v } until", exprsString(b.Body))
	case LoopWhile:
		return fmt.Sprintf("begin { %v } while { %v } repeat", exprsString(b.Head), exprsString(b.Body))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", b)
	}
}
