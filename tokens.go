package main

import (
	"strconv"
	"strings"
	"unicode"
)

// token is one whitespace delimited word of program text, stamped with its
// position in the session-wide token sequence.
type token struct {
	text string
	pos  int
}

func (tok token) String() string { return tok.text }

// folded returns the case-folded text used for keyword and primitive matching.
func (tok token) folded() string { return strings.ToLower(tok.text) }

func (tok token) literal() (Value, bool) {
	n, err := strconv.ParseInt(tok.text, 10, 64)
	return n, err == nil
}

type tokenizer struct {
	pos int
}

func isBreak(r rune) bool { return unicode.IsControl(r) || unicode.IsSpace(r) }

// tokenize splits text into tokens, continuing the position count from any
// prior call.
func (tz *tokenizer) tokenize(text string) []token {
	fields := strings.FieldsFunc(text, isBreak)
	tokens := make([]token, len(fields))
	for i, field := range fields {
		tz.pos++
		tokens[i] = token{text: field, pos: tz.pos}
	}
	return tokens
}
