package algebra

import (
	"fmt"
	"math/big"
)

// functions lists the single-argument functions the grammar accepts.
// ln and log are both the natural logarithm.
var functions = map[string]bool{
	"sin":  true,
	"cos":  true,
	"tan":  true,
	"exp":  true,
	"ln":   true,
	"log":  true,
	"sqrt": true,
	"abs":  true,
}

// Parse turns an expression string into a tree. The grammar covers the
// submission forms the practice banks use: + - * / ^ with conventional
// precedence, unary minus, parentheses, function calls, the constants pi
// and e, and implicit multiplication (2x, 3(x+1), (x+1)(x-1), x(x+2)).
func Parse(input string) (Node, error) {
	src := normalize(input)
	if src == "" {
		return nil, &ParseError{Input: input, Pos: 0, Msg: "empty expression"}
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	n, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.kind != tokEOF {
		return nil, p.errorf(tok.pos, "unexpected %q", tok.text)
	}
	return n, nil
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) cur() token { return p.toks[p.i] }

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseAdd() (Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.advance()
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: tok.text[0], X: left, Y: right}
	}
}

func (p *parser) parseMul() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		switch {
		case tok.kind == tokOp && (tok.text == "*" || tok.text == "/"):
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: tok.text[0], X: left, Y: right}
		case tok.kind == tokIdent || tok.kind == tokLParen:
			// Implicit multiplication: 2x, 3(x+1), (x+1)(x-1).
			right, err := p.parsePow()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: '*', X: left, Y: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Node, error) {
	tok := p.cur()
	if tok.kind == tokOp && tok.text == "-" {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{X: x}, nil
	}
	if tok.kind == tokOp && tok.text == "+" {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePow()
}

func (p *parser) parsePow() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	if tok.kind == tokOp && tok.text == "^" {
		p.advance()
		// Right-associative, and the exponent may carry its own sign.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: '^', X: base, Y: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur()
	switch tok.kind {
	case tokNum:
		p.advance()
		val, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, p.errorf(tok.pos, "malformed number %q", tok.text)
		}
		return &Num{Val: val}, nil
	case tokIdent:
		p.advance()
		if functions[tok.text] {
			open := p.cur()
			if open.kind != tokLParen {
				return nil, p.errorf(open.pos, "function %s requires parentheses", tok.text)
			}
			p.advance()
			arg, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			if closing := p.cur(); closing.kind != tokRParen {
				return nil, p.errorf(closing.pos, "missing ) after %s(", tok.text)
			}
			p.advance()
			return &Call{Fn: tok.text, Arg: arg}, nil
		}
		return &Var{Name: tok.text}, nil
	case tokLParen:
		p.advance()
		n, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		if closing := p.cur(); closing.kind != tokRParen {
			return nil, p.errorf(closing.pos, "missing )")
		}
		p.advance()
		return n, nil
	case tokEOF:
		return nil, p.errorf(tok.pos, "unexpected end of expression")
	default:
		return nil, p.errorf(tok.pos, "unexpected %q", tok.text)
	}
}
