package main

import (
	"fmt"
	"strconv"
	"strings"
)

//// Values and Expressions

// The stack is made up of signed 64-bit cells; arithmetic wraps, nothing else
// ever lives on the stack.
type Value = int64

// Expr is one element of a program: either a Literal that pushes itself, or
// an Op that is resolved through the dictionary when evaluated.
type Expr interface {
	expr()
	String() string
}

// Literal pushes its value when evaluated.
type Literal Value

func (Literal) expr()              {}
func (lit Literal) String() string { return strconv.FormatInt(int64(lit), 10) }

// OpKind distinguishes named operations from the synthetic, position keyed,
// ones that the parser creates for each textual occurrence of a construct.
type OpKind uint8

const (
	// OpName is a bare identifier as written in a program; resolution tries
	// OpConstant, OpVariable, OpWord and then the primitive table.
	OpName OpKind = iota + 1

	// Dictionary keys for named bindings.
	OpConstant
	OpVariable
	OpWord

	// Keyed by token position.
	OpDeclare // constant declaration site
	OpGet     // @
	OpSet     // !
	OpIf      // if ... else ... then
	OpUntil   // begin ... until
	OpWhile   // begin ... while ... repeat
)

var opKindNames = [...]string{
	OpName:     "name",
	OpConstant: "constant",
	OpVariable: "variable",
	OpWord:     "word",
	OpDeclare:  "declare",
	OpGet:      "@",
	OpSet:      "!",
	OpIf:       "if",
	OpUntil:    "until",
	OpWhile:    "while",
}

func (kind OpKind) String() string {
	if int(kind) < len(opKindNames) && opKindNames[kind] != "" {
		return opKindNames[kind]
	}
	return fmt.Sprintf("OpKind(%d)", uint8(kind))
}

// Op identifies an operation: by name for OpName and the named binding kinds,
// by token position for everything else.
type Op struct {
	Kind OpKind
	Name string
	Pos  int
}

func (Op) expr() {}

func (op Op) String() string {
	if op.Pos == 0 {
		return op.Name
	}
	if op.Name != "" {
		return fmt.Sprintf("%v(%v)@%v", op.Kind, op.Name, op.Pos)
	}
	return fmt.Sprintf("%v@%v", op.Kind, op.Pos)
}

func nameOp(name string) Op { return Op{Kind: OpName, Name: name} }

func exprsString(exprs []Expr) string {
	var sb strings.Builder
	for i, e := range exprs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

//// Behaviors

// Behavior is what an Op resolves to in the dictionary; the set of
// implementations is closed, and eval switches over all of them.
type Behavior interface{ behavior() }

// Primitive is a native word with fixed stack effect.
type Primitive struct {
	Name string
	Fn   func(vm *VM) error
}

// Composite is a sequence of expressions: a user word body, or the pushing
// body of a bound constant.
type Composite []Expr

// VariableSlot marks a name as a variable; evaluating it does nothing.
type VariableSlot struct{}

// ConstantPending is the declaration of a constant whose value will be popped
// the first time the declaration is evaluated.
type ConstantPending struct{ Name string }

// VariableGet pushes the named cell.
type VariableGet struct{ Name string }

// VariableSet pops into the named cell.
type VariableSet struct{ Name string }

// Conditional runs Then if the popped value is non-zero, Else otherwise.
type Conditional struct {
	Then []Expr
	Else []Expr
}

// LoopUntil runs Body, then pops; stops once the popped value is non-zero.
type LoopUntil struct{ Body []Expr }

// LoopWhile runs Head, then pops; stops if zero, otherwise runs Body and
// starts over.
type LoopWhile struct {
	Head []Expr
	Body []Expr
}

func (Primitive) behavior()       {}
func (Composite) behavior()       {}
func (VariableSlot) behavior()    {}
func (ConstantPending) behavior() {}
func (VariableGet) behavior()     {}
func (VariableSet) behavior()     {}
func (Conditional) behavior()     {}
func (LoopUntil) behavior()       {}
func (LoopWhile) behavior()       {}

func boolValue(b bool) Value {
	if b {
		return 1
	}
	return 0
}
