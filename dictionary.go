package main

import (
	"sort"
	"strings"
)

//// Dictionary

// The dictionary binds operation identities to behaviors. Named bindings
// (constants, variables and words) and the position keyed bindings created
// for constructs share one map; primitives live in a separate static table
// that is consulted last.
type dictionary struct {
	entries map[Op]Behavior
}

var nameResolution = [...]OpKind{OpConstant, OpVariable, OpWord}

// resolve returns the dictionary key and behavior for op. Bare names resolve
// with precedence constant, variable, word, primitive; the primitive table is
// matched case-insensitively.
func (dict *dictionary) resolve(op Op) (Op, Behavior, error) {
	if op.Kind != OpName {
		if b, ok := dict.entries[op]; ok {
			return op, b, nil
		}
		return op, nil, UndefinedError{"word", op.String()}
	}

	for _, kind := range nameResolution {
		key := Op{Kind: kind, Name: op.Name}
		if b, ok := dict.entries[key]; ok {
			return key, b, nil
		}
	}

	if prim, ok := primitives[strings.ToLower(op.Name)]; ok {
		return op, prim, nil
	}
	return op, nil, UndefinedError{"word", op.Name}
}

func (dict *dictionary) lookup(op Op) (Behavior, bool) {
	b, ok := dict.entries[op]
	return b, ok
}

func (dict *dictionary) define(op Op, b Behavior) {
	if dict.entries == nil {
		dict.entries = make(map[Op]Behavior)
	}
	dict.entries[op] = b
}

// isConstant returns true if name is bound, or pending binding, as a constant.
func (dict *dictionary) isConstant(name string) bool {
	_, ok := dict.entries[Op{Kind: OpConstant, Name: name}]
	return ok
}

// keys returns all keys of the given kinds, ordered by position then name.
func (dict *dictionary) keys(kinds ...OpKind) []Op {
	var ops []Op
	for op := range dict.entries {
		for _, kind := range kinds {
			if op.Kind == kind {
				ops = append(ops, op)
				break
			}
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Pos != ops[j].Pos {
			return ops[i].Pos < ops[j].Pos
		}
		if ops[i].Name != ops[j].Name {
			return ops[i].Name < ops[j].Name
		}
		return ops[i].Kind < ops[j].Kind
	})
	return ops
}
