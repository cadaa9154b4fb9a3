package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	var tz tokenizer
	assert.Equal(t, []token{
		{"1", 1}, {"2", 2}, {"+", 3},
	}, tz.tokenize("  1\t2\n+ "))
	assert.Equal(t, []token{{"dup", 4}}, tz.tokenize("dup"), "positions continue")
	assert.Empty(t, tz.tokenize(" \r\n"))
}

func TestTokenLiteral(t *testing.T) {
	for _, tc := range []struct {
		text string
		val  Value
		ok   bool
	}{
		{"0", 0, true},
		{"-7", -7, true},
		{"+3", 3, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"1+", 0, false},
		{"dup", 0, false},
		{"0x10", 0, false},
	} {
		val, ok := token{text: tc.text}.literal()
		assert.Equal(t, tc.ok, ok, "literal(%q) ok", tc.text)
		if tc.ok {
			assert.Equal(t, tc.val, val, "literal(%q) value", tc.text)
		}
	}
}

type parseTestCase struct {
	name    string
	inputs  []string
	program string
	entries []string
	err     string
}

func parseTest(name string, inputs ...string) parseTestCase {
	return parseTestCase{name: name, inputs: inputs}
}

func (ptc parseTestCase) expectProgram(program string, entries ...string) parseTestCase {
	ptc.program = program
	ptc.entries = entries
	return ptc
}

func (ptc parseTestCase) expectError(err string) parseTestCase {
	ptc.err = err
	return ptc
}

func (ptc parseTestCase) run(t *testing.T) {
	var p parser
	var res parsed
	var err error
	for _, in := range ptc.inputs {
		if res, err = p.parse(in); err != nil {
			break
		}
	}
	if ptc.err != "" {
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse), "expected a parse error")
		assert.Equal(t, ptc.err, err.Error())
		assert.Equal(t, parseNormal, p.state, "expected parser reset")
		return
	}
	require.NoError(t, err)
	assert.Equal(t, ptc.program, exprsString(res.program), "expected program")
	var entries []string
	for _, op := range res.order {
		entries = append(entries, fmt.Sprintf("%v %v", op, describe(res.entries[op])))
	}
	assert.Equal(t, ptc.entries, entries, "expected entries")
}

func TestParse(t *testing.T) {
	for _, ptc := range []parseTestCase{
		parseTest("literals and names", "1 -2 dup +").
			expectProgram("1 -2 dup +"),

		parseTest("word", ": sq dup * ;").
			expectProgram("", "sq { dup * }"),
		parseTest("word then program", ": sq dup * ; 3 sq").
			expectProgram("3 sq", "sq { dup * }"),
		parseTest("word across inputs", ": sq", "dup", "* ;").
			expectProgram("", "sq { dup * }"),
		parseTest("word with loop", ": f begin 1 until ;").
			expectProgram("",
				"until@3 begin { 1 } until",
				"f { until@3 }"),

		parseTest("variable", "variable x 5 x !").
			expectProgram("5 x !(x)@5",
				"x variable",
				"!(x)@5 x !"),
		parseTest("fetch", "variable x x @").
			expectProgram("x @(x)@4",
				"x variable",
				"@(x)@4 x @"),
		parseTest("constant", "10 constant ten").
			expectProgram("10 declare(ten)@2",
				"declare(ten)@2 pending constant ten",
				"ten pending constant ten"),

		parseTest("if else", "1 if 2 else 3 then").
			expectProgram("1 if@2", "if@2 if { 2 } else { 3 } then"),
		parseTest("nested if", "1 if 0 if 5 then else 6 then").
			expectProgram("1 if@2",
				"if@4 if { 5 } then",
				"if@2 if { 0 if@4 } else { 6 } then"),
		parseTest("while", "begin dup while 1- repeat").
			expectProgram("while@1", "while@1 begin { dup } while { 1- } repeat"),
		parseTest("keywords fold case", "1 IF 2 ELSE 3 THEN").
			expectProgram("1 if@2", "if@2 if { 2 } else { 3 } then"),

		parseTest("invalid word name", ": ;").
			expectError(`parse error at ";" #2: invalid word name`),
		parseTest("numeric word name", ": 5 ;").
			expectError(`parse error at "5" #2: invalid word name`),
		parseTest("missing then", "if 1").
			expectError(`parse error at "if" #1: missing else or then`),
		parseTest("missing else then", "1 if 2 else 3").
			expectError(`parse error at "else" #4: missing then`),
		parseTest("stray then", "then").
			expectError(`parse error at "then" #1: unexpected then`),
		parseTest("stray else", "else").
			expectError(`parse error at "else" #1: unexpected else`),
		parseTest("stray semicolon", ";").
			expectError(`parse error at ";" #1: unexpected ;`),
		parseTest("nested colon", ": a : b ;").
			expectError(`parse error at ":" #3: unexpected :`),
		parseTest("repeat without while", "begin 1 repeat").
			expectError(`parse error at "repeat" #3: unexpected repeat`),
		parseTest("until after while", "begin 1 while 2 until").
			expectError(`parse error at "until" #5: unexpected until`),
		parseTest("missing loop end", "begin 1").
			expectError(`parse error at "begin" #1: missing until or while or repeat`),
		parseTest("missing variable name", "variable").
			expectError(`parse error at "variable" #1: missing variable name`),
		parseTest("invalid variable name", "variable 5").
			expectError(`parse error at "5" #2: invalid variable name`),
		parseTest("invalid constant name", "1 constant if").
			expectError(`parse error at "if" #3: invalid constant name`),
		parseTest("constant name follows", "42 answer constant").
			expectError(`parse error at "constant" #3: missing constant name`),
		parseTest("no variable name", "@").
			expectError(`parse error at "@" #1: no variable name`),
		parseTest("error in buffered body", ": bad", "if ;").
			expectError(`parse error at "if" #3: missing else or then`),
	} {
		t.Run(ptc.name, ptc.run)
	}
}

func TestParse_reset(t *testing.T) {
	var p parser
	_, err := p.parse(": f 1")
	require.NoError(t, err)
	assert.Equal(t, parseWordBody, p.state)

	_, err = p.parse("then ;")
	assert.True(t, errors.Is(err, ErrParse), "expected parse error, got: %v", err)
	assert.Equal(t, parseNormal, p.state)
	assert.Empty(t, p.wordBody)

	res, err := p.parse("2")
	require.NoError(t, err)
	assert.Equal(t, "2", exprsString(res.program))
	assert.Empty(t, res.entries)
}
