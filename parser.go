package main

import (
	"strings"
)

//// Parsing

// Program text is parsed a chunk (one Eval call) at a time. Words may span
// chunks: while a definition is open, its body tokens are buffered and only
// parsed as a whole once the closing ";" arrives.
type parseState uint8

const (
	parseNormal parseState = iota
	parseWordName
	parseWordBody
)

var keywords = map[string]struct{}{
	":": {}, ";": {},
	"variable": {}, "constant": {},
	"@": {}, "!": {},
	"if": {}, "else": {}, "then": {},
	"begin": {}, "until": {}, "while": {}, "repeat": {},
}

func isKeyword(tok token) bool {
	_, is := keywords[tok.folded()]
	return is
}

type parser struct {
	tokenizer

	state    parseState
	wordName token
	wordBody []token

	// last consumed token, names the cell for a following @ or !
	prev    token
	hasPrev bool
}

// parsed holds the program of one chunk along with every dictionary entry
// and cell that it declares; none of it takes effect until committed.
type parsed struct {
	program   []Expr
	entries   map[Op]Behavior
	order     []Op
	variables []string
}

func (res *parsed) define(op Op, b Behavior) {
	if res.entries == nil {
		res.entries = make(map[Op]Behavior)
	}
	if _, had := res.entries[op]; !had {
		res.order = append(res.order, op)
	}
	res.entries[op] = b
}

func (res *parsed) declareVariable(name string) {
	res.define(Op{Kind: OpVariable, Name: name}, VariableSlot{})
	res.variables = append(res.variables, name)
}

// reset abandons any definition in progress.
func (p *parser) reset() {
	p.state = parseNormal
	p.wordName = token{}
	p.wordBody = nil
}

func (p *parser) consume(tok token) {
	p.prev = tok
	p.hasPrev = true
}

// parse parses one chunk of program text. On error the parser drops back to
// normal state, discarding any open definition.
func (p *parser) parse(text string) (res parsed, err error) {
	defer func() {
		if err != nil {
			p.reset()
		}
	}()

	toks := p.tokenize(text)
	for i := 0; i < len(toks); {
		tok := toks[i]
		switch p.state {
		case parseWordName:
			i++
			p.consume(tok)
			if !validName(tok) {
				return res, parseErrorf(tok, "invalid word name")
			}
			p.wordName = tok
			p.wordBody = nil
			p.state = parseWordBody

		case parseWordBody:
			i++
			switch tok.folded() {
			case ":":
				return res, parseErrorf(tok, "unexpected :")
			case ";":
				body, err := p.parseBody(&res)
				if err != nil {
					return res, err
				}
				res.define(Op{Kind: OpWord, Name: p.wordName.text}, Composite(body))
				p.consume(tok)
				p.reset()
			default:
				p.wordBody = append(p.wordBody, tok)
			}

		default:
			if tok.folded() == ":" {
				i++
				p.consume(tok)
				p.state = parseWordName
				continue
			}
			e, err := p.parseItem(&res, toks, &i)
			if err != nil {
				return res, err
			}
			if e != nil {
				res.program = append(res.program, e)
			}
		}
	}
	return res, nil
}

// parseBody parses the buffered tokens of the word being defined.
func (p *parser) parseBody(res *parsed) (body []Expr, err error) {
	p.consume(p.wordName)
	toks := p.wordBody
	for i := 0; i < len(toks); {
		e, err := p.parseItem(res, toks, &i)
		if err != nil {
			return nil, err
		}
		if e != nil {
			body = append(body, e)
		}
	}
	return body, nil
}

// parseItem consumes one item starting at toks[*i]: a literal, a name, a
// declaration, or a whole control construct. Declarations of variables
// produce no expression.
func (p *parser) parseItem(res *parsed, toks []token, i *int) (Expr, error) {
	tok := toks[*i]
	*i++
	prev, hasPrev := p.prev, p.hasPrev
	p.consume(tok)

	switch tok.folded() {
	case "variable":
		name, err := p.next(toks, i, tok, "variable name")
		if err != nil {
			return nil, err
		}
		res.declareVariable(name.text)
		return nil, nil

	case "constant":
		name, err := p.next(toks, i, tok, "constant name")
		if err != nil {
			return nil, err
		}
		op := Op{Kind: OpDeclare, Name: name.text, Pos: tok.pos}
		res.define(op, ConstantPending{Name: name.text})
		res.define(Op{Kind: OpConstant, Name: name.text}, ConstantPending{Name: name.text})
		return op, nil

	case "@", "!":
		if !hasPrev {
			return nil, parseErrorf(tok, "no variable name")
		}
		if tok.text == "@" {
			op := Op{Kind: OpGet, Name: prev.text, Pos: tok.pos}
			res.define(op, VariableGet{Name: prev.text})
			return op, nil
		}
		op := Op{Kind: OpSet, Name: prev.text, Pos: tok.pos}
		res.define(op, VariableSet{Name: prev.text})
		return op, nil

	case "if":
		return p.parseIf(res, toks, i, tok)

	case "begin":
		return p.parseBegin(res, toks, i, tok)

	case ":", ";", "else", "then", "until", "while", "repeat":
		return nil, parseErrorf(tok, "unexpected %v", tok.folded())
	}

	if val, ok := tok.literal(); ok {
		return Literal(val), nil
	}
	return nameOp(tok.text), nil
}

// next consumes the name token that must follow a declaring keyword.
func (p *parser) next(toks []token, i *int, after token, what string) (token, error) {
	if *i >= len(toks) {
		return token{}, parseErrorf(after, "missing %v", what)
	}
	tok := toks[*i]
	*i++
	p.consume(tok)
	if !validName(tok) {
		return tok, parseErrorf(tok, "invalid %v", what)
	}
	return tok, nil
}

// parseSeq parses items until one of the given terminator keywords, which is
// consumed and returned.
func (p *parser) parseSeq(res *parsed, toks []token, i *int, opener token, terms ...string) (body []Expr, term token, err error) {
	for {
		if *i >= len(toks) {
			return nil, token{}, parseErrorf(opener, "missing %v", strings.Join(terms, " or "))
		}
		tok := toks[*i]
		for _, t := range terms {
			if tok.folded() == t {
				*i++
				p.consume(tok)
				return body, tok, nil
			}
		}
		e, err := p.parseItem(res, toks, i)
		if err != nil {
			return nil, token{}, err
		}
		if e != nil {
			body = append(body, e)
		}
	}
}

func (p *parser) parseIf(res *parsed, toks []token, i *int, ifTok token) (Expr, error) {
	var cond Conditional
	body, term, err := p.parseSeq(res, toks, i, ifTok, "else", "then")
	if err != nil {
		return nil, err
	}
	cond.Then = body
	if term.folded() == "else" {
		if cond.Else, _, err = p.parseSeq(res, toks, i, term, "then"); err != nil {
			return nil, err
		}
	}
	op := Op{Kind: OpIf, Pos: ifTok.pos}
	res.define(op, cond)
	return op, nil
}

func (p *parser) parseBegin(res *parsed, toks []token, i *int, beginTok token) (Expr, error) {
	head, term, err := p.parseSeq(res, toks, i, beginTok, "until", "while", "repeat")
	if err != nil {
		return nil, err
	}
	switch term.folded() {
	case "until":
		op := Op{Kind: OpUntil, Pos: beginTok.pos}
		res.define(op, LoopUntil{Body: head})
		return op, nil
	case "repeat":
		return nil, parseErrorf(term, "unexpected repeat")
	}

	body, term, err := p.parseSeq(res, toks, i, term, "repeat", "until")
	if err != nil {
		return nil, err
	}
	if term.folded() == "until" {
		return nil, parseErrorf(term, "unexpected until")
	}
	op := Op{Kind: OpWhile, Pos: beginTok.pos}
	res.define(op, LoopWhile{Head: head, Body: body})
	return op, nil
}

func validName(tok token) bool {
	if isKeyword(tok) {
		return false
	}
	_, isNum := tok.literal()
	return !isNum
}
