package cparse

import (
	"fmt"

	"github.com/chschnell/pcc/internal/ast"
)

// typeKeywords is the set of tokens that begin a type specifier; extern
// declarations additionally accept the unsigned spellings (§4.2).
var typeKeywords = map[string]bool{
	"int": true, "long": true, "void": true, "unsigned": true,
}

type parser struct {
	lx   *lexer
	file string
}

// Parse tokenizes and parses one already comment-stripped source file into
// a TranslationUnit. The caller is responsible for concatenating multiple
// files into one flat-line document when that's the desired behavior (§9
// multi-source coordinate mapping); here each file parses independently
// and the caller merges the resulting Decls, since flat-line numbering is
// purely a diagnostic-layer concern (internal/diag.Bundle), not a parsing
// one.
func Parse(file, src string) (*ast.TranslationUnit, error) {
	p := &parser{lx: newLexer(file, src), file: file}
	tu := &ast.TranslationUnit{File: file}
	for p.lx.peek().kind != tokEOF {
		d, err := p.parseTopDecl()
		if err != nil {
			return tu, err
		}
		tu.Decls = append(tu.Decls, d)
	}
	return tu, nil
}

func (p *parser) errorf(pos ast.Pos, format string, args ...interface{}) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expectPunct(s string) (ast.Pos, error) {
	t := p.lx.next()
	if t.kind != tokPunct || t.text != s {
		return t.pos, p.errorf(t.pos, "expected %q, got %q", s, t.text)
	}
	return t.pos, nil
}

func (p *parser) atPunct(s string) bool {
	t := p.lx.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) atKeyword(s string) bool {
	t := p.lx.peek()
	return t.kind == tokIdent && t.text == s
}

// parseType consumes a type specifier starting at the current token,
// which must be a keyword in typeKeywords. "unsigned int" and "unsigned
// long" are two-token spellings (§4.2).
func (p *parser) parseType() (ast.Type, error) {
	t := p.lx.next()
	if t.kind != tokIdent || !typeKeywords[t.text] {
		return ast.Type{}, p.errorf(t.pos, "expected a type, got %q", t.text)
	}
	name := t.text
	if name == "unsigned" {
		if p.atKeyword("int") {
			p.lx.next()
			name = "unsigned int"
		} else if p.atKeyword("long") {
			p.lx.next()
			name = "unsigned long"
		}
	}
	return ast.Type{Name: name, Pos: t.pos}, nil
}

func (p *parser) parseTopDecl() (ast.Decl, error) {
	start := p.lx.peek().pos

	if p.atKeyword("enum") {
		return p.parseEnumDecl()
	}

	extern := false
	if p.atKeyword("extern") {
		p.lx.next()
		extern = true
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	nameTok := p.lx.next()
	if nameTok.kind != tokIdent {
		return nil, p.errorf(nameTok.pos, "expected an identifier, got %q", nameTok.text)
	}

	if p.atPunct("(") {
		return p.parseFuncDecl(start, typ, nameTok.text, extern)
	}

	decl := &ast.VarDecl{Pos: start, Type: typ, Name: nameTok.text, Extern: extern}
	if p.atPunct("=") {
		p.lx.next()
		decl.Init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseEnumDecl() (ast.Decl, error) {
	start := p.lx.next().pos // consume "enum"
	decl := &ast.EnumDecl{Pos: start}
	if t := p.lx.peek(); t.kind == tokIdent {
		decl.Name = t.text
		p.lx.next()
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") {
		nameTok := p.lx.next()
		if nameTok.kind != tokIdent {
			return nil, p.errorf(nameTok.pos, "expected enum member name, got %q", nameTok.text)
		}
		m := ast.EnumMember{Pos: nameTok.pos, Name: nameTok.text}
		if p.atPunct("=") {
			p.lx.next()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			m.Value = v
		}
		decl.Members = append(decl.Members, m)
		if p.atPunct(",") {
			p.lx.next()
			continue
		}
		break
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseFuncDecl(start ast.Pos, ret ast.Type, name string, extern bool) (ast.Decl, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	decl := &ast.FuncDecl{Pos: start, ReturnType: ret, Name: name, Extern: extern}
	if !p.atPunct(")") {
		for {
			if p.atKeyword("void") && len(decl.ArgTypes) == 0 {
				// "(void)" with nothing following means zero arguments.
				save := *p.lx
				p.lx.next()
				if p.atPunct(")") {
					break
				}
				*p.lx = save
			}
			argType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			decl.ArgTypes = append(decl.ArgTypes, argType)
			argName := ""
			if t := p.lx.peek(); t.kind == tokIdent {
				argName = t.text
				p.lx.next()
			}
			decl.ArgNames = append(decl.ArgNames, argName)
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

	if p.atPunct(";") {
		p.lx.next()
		return decl, nil
	}

	body, err := p.parseCompoundStmt()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func (p *parser) parseCompoundStmt() (*ast.CompoundStmt, error) {
	start, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	cs := &ast.CompoundStmt{Pos: start}
	for !p.atPunct("}") {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		cs.Items = append(cs.Items, item)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return cs, nil
}

func (p *parser) parseBlockItem() (ast.BlockItem, error) {
	if p.atKeyword("int") || p.atKeyword("long") || p.atKeyword("extern") || p.atKeyword("enum") {
		d, err := p.parseLocalDecl()
		return ast.BlockItem{Decl: d}, err
	}
	s, err := p.parseStmt()
	return ast.BlockItem{Stmt: s}, err
}

func (p *parser) parseLocalDecl() (ast.Decl, error) {
	if p.atKeyword("enum") {
		return p.parseEnumDecl()
	}
	start := p.lx.peek().pos
	extern := false
	if p.atKeyword("extern") {
		p.lx.next()
		extern = true
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok := p.lx.next()
	if nameTok.kind != tokIdent {
		return nil, p.errorf(nameTok.pos, "expected an identifier, got %q", nameTok.text)
	}
	decl := &ast.VarDecl{Pos: start, Type: typ, Name: nameTok.text, Extern: extern}
	if p.atPunct("=") {
		p.lx.next()
		decl.Init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	t := p.lx.peek()

	switch {
	case t.kind == tokPunct && t.text == "{":
		return p.parseCompoundStmt()
	case t.kind == tokPunct && t.text == ";":
		p.lx.next()
		return &ast.ExprStmt{Pos: t.pos}, nil
	case t.kind == tokIdent && t.text == "if":
		return p.parseIfStmt()
	case t.kind == tokIdent && t.text == "while":
		return p.parseWhileStmt()
	case t.kind == tokIdent && t.text == "do":
		return p.parseDoWhileStmt()
	case t.kind == tokIdent && t.text == "for":
		return p.parseForStmt()
	case t.kind == tokIdent && t.text == "return":
		return p.parseReturnStmt()
	case t.kind == tokIdent && t.text == "continue":
		p.lx.next()
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Pos: t.pos}, nil
	case t.kind == tokIdent && t.text == "break":
		p.lx.next()
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Pos: t.pos}, nil
	case t.kind == tokIdent && t.text == "asm":
		return p.parseAsmStmt()
	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Pos: t.pos, Expr: e}, nil
	}
}

func (p *parser) parseIfStmt() (ast.Stmt, error) {
	start := p.lx.next().pos // "if"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	ifs := &ast.IfStmt{Pos: start, Cond: cond, Then: then}
	if p.atKeyword("else") {
		p.lx.next()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		ifs.Else = els
	}
	return ifs, nil
}

func (p *parser) parseWhileStmt() (ast.Stmt, error) {
	start := p.lx.next().pos
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: start, Cond: cond, Body: body}, nil
}

func (p *parser) parseDoWhileStmt() (ast.Stmt, error) {
	start := p.lx.next().pos
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("while") {
		t := p.lx.peek()
		return nil, p.errorf(t.pos, "expected 'while' after do-block, got %q", t.text)
	}
	p.lx.next()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Pos: start, Body: body, Cond: cond}, nil
}

func (p *parser) parseForStmt() (ast.Stmt, error) {
	start := p.lx.next().pos
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	fs := &ast.ForStmt{Pos: start}

	if !p.atPunct(";") {
		if p.atKeyword("int") || p.atKeyword("long") {
			d, err := p.parseLocalDecl()
			if err != nil {
				return nil, err
			}
			fs.Init = append(fs.Init, ast.BlockItem{Decl: d})
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(";"); err != nil {
				return nil, err
			}
			fs.Init = append(fs.Init, ast.BlockItem{Stmt: &ast.ExprStmt{Pos: start, Expr: e}})
		}
	} else {
		p.lx.next() // consume ";"
	}

	if !p.atPunct(";") {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fs.Cond = cond
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	if !p.atPunct(")") {
		iter, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fs.Iter = iter
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	fs.Body = body
	return fs, nil
}

func (p *parser) parseReturnStmt() (ast.Stmt, error) {
	start := p.lx.next().pos
	rs := &ast.ReturnStmt{Pos: start}
	if !p.atPunct(";") {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rs.Value = v
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return rs, nil
}

func (p *parser) parseAsmStmt() (ast.Stmt, error) {
	start := p.lx.next().pos // "asm"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	mnemTok := p.lx.next()
	if mnemTok.kind != tokString {
		return nil, p.errorf(mnemTok.pos, "expected a string literal mnemonic, got %q", mnemTok.text)
	}
	as := &ast.AsmStmt{Pos: start, Mnemonic: trimQuotes(mnemTok.text)}
	for p.atPunct(",") {
		p.lx.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		as.Args = append(as.Args, e)
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return as, nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
