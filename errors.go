package main

import (
	"errors"
	"fmt"
)

var (
	ErrParse     = errors.New("parse error")
	ErrUndefined = errors.New("undefined")

	ErrEmptyStack      = errors.New("empty stack")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNotEnoughValues = errors.New("not enough values")
	ErrNoConstantValue = errors.New("no constant value")
	ErrConstantReset   = errors.New("cannot reset constant")
	ErrTooDeep         = errors.New("recursion too deep")
)

// ParseError reports malformed program text at a token position.
type ParseError struct {
	Pos   int
	Token string
	Mess  string
}

func (err ParseError) Error() string {
	if err.Token == "" {
		return fmt.Sprintf("parse error: %v", err.Mess)
	}
	return fmt.Sprintf("parse error at %q #%v: %v", err.Token, err.Pos, err.Mess)
}

func (err ParseError) Is(target error) bool { return target == ErrParse }

func parseErrorf(tok token, mess string, args ...interface{}) error {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	return ParseError{Pos: tok.pos, Token: tok.text, Mess: mess}
}

// UndefinedError reports a name that did not resolve; Kind is "word" or
// "variable".
type UndefinedError struct {
	Kind string
	Name string
}

func (err UndefinedError) Error() string {
	return fmt.Sprintf("undefined %v %v", err.Kind, err.Name)
}

func (err UndefinedError) Is(target error) bool { return target == ErrUndefined }
