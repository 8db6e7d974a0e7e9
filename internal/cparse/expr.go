package cparse

import (
	"github.com/chschnell/pcc/internal/ast"
)

// parseExpr parses a full expression, including top-level assignment,
// which in this dialect is always dst = rhs or dst op= rhs with dst a
// bare identifier (§4.4 no pointers/arrays).
func (p *parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if op, ok := p.assignOp(); ok {
		pos := p.lx.next().pos
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Pos: pos, Op: op, Dst: lhs, Val: rhs}, nil
	}
	return lhs, nil
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *parser) assignOp() (string, bool) {
	t := p.lx.peek()
	if t.kind == tokPunct && assignOps[t.text] {
		return t.text, true
	}
	return "", false
}

// binaryLevel describes one precedence tier of left-associative binary
// operators, lowest precedence first.
type binaryLevel struct {
	ops  []string
	next func(p *parser) (ast.Expr, error)
}

func (p *parser) parseLogicalOr() (ast.Expr, error)  { return p.parseBinary([]string{"||"}, (*parser).parseLogicalAnd) }
func (p *parser) parseLogicalAnd() (ast.Expr, error) { return p.parseBinary([]string{"&&"}, (*parser).parseBitOr) }
func (p *parser) parseBitOr() (ast.Expr, error)      { return p.parseBinary([]string{"|"}, (*parser).parseBitXor) }
func (p *parser) parseBitXor() (ast.Expr, error)     { return p.parseBinary([]string{"^"}, (*parser).parseBitAnd) }
func (p *parser) parseBitAnd() (ast.Expr, error)     { return p.parseBinary([]string{"&"}, (*parser).parseEquality) }
func (p *parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary([]string{"==", "!="}, (*parser).parseRelational)
}
func (p *parser) parseRelational() (ast.Expr, error) {
	return p.parseBinary([]string{"<", "<=", ">", ">="}, (*parser).parseShift)
}
func (p *parser) parseShift() (ast.Expr, error) {
	return p.parseBinary([]string{"<<", ">>"}, (*parser).parseAdditive)
}
func (p *parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinary([]string{"+", "-"}, (*parser).parseMultiplicative)
}
func (p *parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinary([]string{"*", "/", "%"}, (*parser).parseUnary)
}

func (p *parser) parseBinary(ops []string, next func(p *parser) (ast.Expr, error)) (ast.Expr, error) {
	lhs, err := next(p)
	if err != nil {
		return nil, err
	}
	for {
		t := p.lx.peek()
		matched := false
		if t.kind == tokPunct {
			for _, op := range ops {
				if t.text == op {
					matched = true
					break
				}
			}
		}
		if !matched {
			return lhs, nil
		}
		p.lx.next()
		rhs, err := next(p)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Pos: t.pos, Op: t.text, X: lhs, Y: rhs}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	t := p.lx.peek()
	if t.kind == tokPunct {
		switch t.text {
		case "++", "--", "!", "~", "-", "+":
			p.lx.next()
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Pos: t.pos, Op: t.text, X: x}, nil
		}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.lx.peek()
		if t.kind == tokPunct && (t.text == "++" || t.text == "--") {
			p.lx.next()
			x = &ast.UnaryExpr{Pos: t.pos, Op: t.text, Postfix: true, X: x}
			continue
		}
		return x, nil
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t := p.lx.next()
	switch {
	case t.kind == tokInt:
		return &ast.IntLit{Pos: t.pos, Lit: t.text}, nil

	case t.kind == tokString && t.text[0] == '\'' && len(t.text) >= 3:
		// character literal, e.g. 'a': lower to its rune's ordinal so it
		// can be used anywhere a term is expected (spec terms are
		// integer-valued).
		r := []rune(trimQuotes(t.text))
		val := 0
		if len(r) > 0 {
			val = int(r[0])
		}
		return &ast.IntLit{Pos: t.pos, Lit: itoa(val)}, nil

	case t.kind == tokIdent:
		if t.text == "asm" {
			return nil, p.errorf(t.pos, "asm(...) is a statement, not an expression")
		}
		if p.atPunct("(") {
			p.lx.next()
			call := &ast.CallExpr{Pos: t.pos, Func: t.text}
			if !p.atPunct(")") {
				for {
					a, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					call.Args = append(call.Args, a)
					if p.atPunct(",") {
						p.lx.next()
						continue
					}
					break
				}
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return call, nil
		}
		return &ast.Ident{Pos: t.pos, Name: t.text}, nil

	case t.kind == tokPunct && t.text == "(":
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.errorf(t.pos, "unexpected token %q in expression", t.text)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
