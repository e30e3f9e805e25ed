package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses an expression string into an AST.
// A failed parse returns a *ParseError; the input is never partially
// evaluated.
func Parse(input string) (Expr, error) {
	p := &parser{input: input, lexer: NewLexer(input)}
	p.next()

	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %q", p.tok.Value)
	}
	return e, nil
}

type parser struct {
	input string
	lexer *Lexer
	tok   Token
}

func (p *parser) next() {
	p.tok = p.lexer.NextToken()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Input: p.input, Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

// keyword checks for a case-insensitive keyword identifier without consuming.
func (p *parser) keyword(kw string) bool {
	return p.tok.Type == TokenIdent && strings.EqualFold(p.tok.Value, kw)
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	kids := []Expr{left}
	for p.keyword("or") {
		p.next()
		kid, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		kids = append(kids, kid)
	}
	if len(kids) == 1 {
		return left, nil
	}
	return &Or{Kids: kids}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	kids := []Expr{left}
	for p.keyword("and") {
		p.next()
		kid, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		kids = append(kids, kid)
	}
	if len(kids) == 1 {
		return left, nil
	}
	return &And{Kids: kids}, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.keyword("not") || p.tok.Type == TokenBang {
		p.next()
		kid, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Kid: kid}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var op CompareOp
	switch {
	case p.tok.Type == TokenEq:
		op = CompareEq
	case p.tok.Type == TokenNeq:
		op = CompareNeq
	case p.tok.Type == TokenLt:
		op = CompareLt
	case p.tok.Type == TokenLte:
		op = CompareLte
	case p.tok.Type == TokenGt:
		op = CompareGt
	case p.tok.Type == TokenGte:
		op = CompareGte
	case p.keyword("contains"):
		op = CompareContains
	default:
		return left, nil
	}
	p.next()

	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.tok.Type == TokenPlus || p.tok.Type == TokenMinus {
		op := ArithAdd
		if p.tok.Type == TokenMinus {
			op = ArithSub
		}
		p.next()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Arith{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.tok.Type == TokenStar || p.tok.Type == TokenSlash {
		op := ArithMul
		if p.tok.Type == TokenSlash {
			op = ArithDiv
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Arith{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.Type == TokenMinus {
		p.next()
		kid, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Neg{Kid: kid}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.Type {
	case TokenNumber:
		n, err := strconv.ParseFloat(p.tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", p.tok.Value)
		}
		p.next()
		return &Literal{Val: Number(n)}, nil

	case TokenString:
		s := p.tok.Value
		p.next()
		return &Literal{Val: String(s)}, nil

	case TokenLParen:
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != TokenRParen {
			return nil, p.errorf("expected ')'")
		}
		p.next()
		return e, nil

	case TokenIdent:
		name := p.tok.Value
		p.next()

		switch strings.ToLower(name) {
		case "true":
			return &Literal{Val: Bool(true)}, nil
		case "false":
			return &Literal{Val: Bool(false)}, nil
		case "empty", "null":
			return &Literal{Val: Empty()}, nil
		}

		// Function call.
		if p.tok.Type == TokenLParen {
			return p.parseCall(name)
		}

		// Dotted property path: file.name, meta.score.
		for p.tok.Type == TokenDot {
			p.next()
			if p.tok.Type != TokenIdent {
				return nil, p.errorf("expected property name after '.'")
			}
			name += "." + p.tok.Value
			p.next()
		}
		return &Property{Name: name}, nil

	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected %q", p.tok.Value)
	}
}

func (p *parser) parseCall(name string) (Expr, error) {
	// Consume '('.
	p.next()

	var args []Expr
	if p.tok.Type != TokenRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Type != TokenComma {
				break
			}
			p.next()
		}
	}
	if p.tok.Type != TokenRParen {
		return nil, p.errorf("expected ')' in call to %s", name)
	}
	p.next()

	return &Call{Name: strings.ToLower(name), Args: args}, nil
}
