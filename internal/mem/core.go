package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrUndeclared is returned when loading or storing a name that was never
	// declared.
	ErrUndeclared = errors.New("undeclared cell")

	// ErrReadOnly is returned when storing into a fixed cell.
	ErrReadOnly = errors.New("read only cell")
)

// LimitError indicates that declaring cells would exceed Cells.Limit.
type LimitError struct {
	Need  uint
	Limit uint
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("cell limit exceeded, need %v of %v", lim.Need, lim.Limit)
}

// NameError wraps ErrUndeclared or ErrReadOnly with the offending name.
type NameError struct {
	Name string
	Op   string
	Err  error
}

func (ne NameError) Error() string { return fmt.Sprintf("%v %v: %v", ne.Op, ne.Name, ne.Err) }
func (ne NameError) Unwrap() error { return ne.Err }
