package lower

import (
	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

// compileBlockItems lowers a sequence of block items, warning on anything
// following a terminator per §4.5 ("warns on statements following a
// terminator").
func (c *Compiler) compileBlockItems(items []ast.BlockItem) {
	warned := false
	for _, item := range items {
		if c.terminated && !warned {
			pos := blockItemPos(item)
			c.Diags.Warnf(pos, c.curFuncName(), "unreachable code")
			warned = true
		}
		if item.Decl != nil {
			c.compileLocalDecl(item.Decl)
			continue
		}
		c.compileStmt(item.Stmt)
	}
}

func blockItemPos(item ast.BlockItem) ast.Pos {
	if item.Decl != nil {
		if vd, ok := item.Decl.(*ast.VarDecl); ok {
			return vd.Pos
		}
		return ast.Pos{}
	}
	return stmtPos(item.Stmt)
}

func stmtPos(s ast.Stmt) ast.Pos {
	switch v := s.(type) {
	case *ast.CompoundStmt:
		return v.Pos
	case *ast.ExprStmt:
		return v.Pos
	case *ast.IfStmt:
		return v.Pos
	case *ast.WhileStmt:
		return v.Pos
	case *ast.DoWhileStmt:
		return v.Pos
	case *ast.ForStmt:
		return v.Pos
	case *ast.ReturnStmt:
		return v.Pos
	case *ast.ContinueStmt:
		return v.Pos
	case *ast.BreakStmt:
		return v.Pos
	case *ast.AsmStmt:
		return v.Pos
	}
	return ast.Pos{}
}

// compileLocalDecl handles a block-scope declaration: a local VarDecl (the
// only Decl kind legal inside a function body).
func (c *Compiler) compileLocalDecl(d ast.Decl) {
	vd, ok := d.(*ast.VarDecl)
	if !ok {
		c.Diags.Errorf(ast.Pos{}, c.curFuncName(), "declaration not supported inside a function body")
		return
	}
	if vd.Extern {
		c.Diags.Errorf(vd.Pos, c.curFuncName(), "extern declarations are only valid at file scope")
		return
	}
	c.declareVar(vd, c.curFunc)
}

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.CompoundStmt:
		c.compileCompound(v)
	case *ast.ExprStmt:
		c.compileExprStmt(v)
	case *ast.IfStmt:
		c.compileIf(v)
	case *ast.WhileStmt:
		c.compileWhile(v)
	case *ast.DoWhileStmt:
		c.compileDoWhile(v)
	case *ast.ForStmt:
		c.compileFor(v)
	case *ast.ReturnStmt:
		c.compileReturn(v)
	case *ast.ContinueStmt:
		c.compileContinue(v)
	case *ast.BreakStmt:
		c.compileBreak(v)
	case *ast.AsmStmt:
		c.compileAsm(v)
	default:
		c.Diags.Errorf(ast.Pos{}, c.curFuncName(), "unsupported statement")
	}
}

func (c *Compiler) compileCompound(s *ast.CompoundStmt) {
	c.scope.Push()
	defer c.scope.Pop()
	c.compileBlockItems(s.Items)
}

func (c *Compiler) compileExprStmt(s *ast.ExprStmt) {
	if s.Expr == nil {
		return // empty statement: no-op
	}
	if assign, ok := s.Expr.(*ast.AssignExpr); ok {
		c.compileAssignExpr(assign, false)
		return
	}
	if call, ok := s.Expr.(*ast.CallExpr); ok {
		c.compileCall(call, false)
		return
	}
	c.compileExpression(s.Expr)
}

func (c *Compiler) compileIf(s *ast.IfStmt) {
	c.compileExpression(s.Cond)
	c.fixFlag()

	elseOrEnd := c.Pool.NewTag()
	c.curBuf.Append("JZ", ir.TagOperand(elseOrEnd))

	c.compileStmt(s.Then)
	thenTerminated := c.terminated

	if s.Else == nil {
		c.curBuf.Tag(elseOrEnd)
		c.terminated = false
		return
	}

	var end ir.TagHandle
	if !thenTerminated {
		end = c.Pool.NewTag()
		c.curBuf.Append("JMP", ir.TagOperand(end))
	}
	c.curBuf.Tag(elseOrEnd)
	c.terminated = false
	c.compileStmt(s.Else)
	elseTerminated := c.terminated

	if !thenTerminated {
		c.curBuf.Tag(end)
		c.terminated = false
	} else {
		c.terminated = elseTerminated
	}
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) {
	begin := c.Pool.NewTag()
	end := c.Pool.NewTag()
	c.curBuf.Tag(begin)
	c.compileExpression(s.Cond)
	c.fixFlag()
	c.curBuf.Append("JZ", ir.TagOperand(end))

	c.loops = append(c.loops, loopLabels{continueTag: begin, breakTag: end})
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]
	c.terminated = false

	c.curBuf.Append("JMP", ir.TagOperand(begin))
	c.curBuf.Tag(end)
}

func (c *Compiler) compileDoWhile(s *ast.DoWhileStmt) {
	begin := c.Pool.NewTag()
	end := c.Pool.NewTag()
	c.curBuf.Tag(begin)

	c.loops = append(c.loops, loopLabels{continueTag: begin, breakTag: end})
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]
	c.terminated = false

	c.compileExpression(s.Cond)
	c.fixFlag()
	c.curBuf.Append("JNZ", ir.TagOperand(begin))
	c.curBuf.Tag(end)
}

func (c *Compiler) compileFor(s *ast.ForStmt) {
	opened := len(s.Init) > 0
	if opened {
		c.scope.Push()
		defer c.scope.Pop()
		for _, item := range s.Init {
			if item.Decl != nil {
				c.compileLocalDecl(item.Decl)
			} else {
				c.compileStmt(item.Stmt)
			}
		}
	}

	begin := c.Pool.NewTag()
	next := c.Pool.NewTag()
	end := c.Pool.NewTag()
	c.curBuf.Tag(begin)
	if s.Cond != nil {
		c.compileExpression(s.Cond)
		c.fixFlag()
		c.curBuf.Append("JZ", ir.TagOperand(end))
	}

	c.loops = append(c.loops, loopLabels{continueTag: next, breakTag: end})
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]
	c.terminated = false

	c.curBuf.Tag(next)
	if s.Iter != nil {
		if assign, ok := s.Iter.(*ast.AssignExpr); ok {
			c.compileAssignExpr(assign, false)
		} else if call, ok := s.Iter.(*ast.CallExpr); ok {
			c.compileCall(call, false)
		} else {
			c.compileExpression(s.Iter)
		}
	}
	c.curBuf.Append("JMP", ir.TagOperand(begin))
	c.curBuf.Tag(end)
}

func (c *Compiler) compileReturn(s *ast.ReturnStmt) {
	if c.curFunc != nil {
		hasValue := s.Value != nil
		wantsValue := c.curFunc.Proto.Return != symtab.TypeVoid
		if hasValue && !wantsValue {
			c.Diags.Warnf(s.Pos, c.curFuncName(), "return with a value in a void function")
		} else if !hasValue && wantsValue {
			c.Diags.Warnf(s.Pos, c.curFuncName(), "return with no value in a non-void function")
		}
	}
	if s.Value != nil {
		c.compileExpression(s.Value)
	}
	c.curBuf.Append("RET")
	c.terminated = true
}

func (c *Compiler) compileContinue(s *ast.ContinueStmt) {
	if len(c.loops) == 0 {
		c.Diags.Errorf(s.Pos, c.curFuncName(), "continue statement not within a loop")
		return
	}
	top := c.loops[len(c.loops)-1]
	c.curBuf.Append("JMP", ir.TagOperand(top.continueTag))
	c.terminated = true
}

func (c *Compiler) compileBreak(s *ast.BreakStmt) {
	if len(c.loops) == 0 {
		c.Diags.Errorf(s.Pos, c.curFuncName(), "break statement not within a loop")
		return
	}
	top := c.loops[len(c.loops)-1]
	c.curBuf.Append("JMP", ir.TagOperand(top.breakTag))
	c.terminated = true
}

// compileAsm lowers the asm("MNEM", args...) inline-assembly builtin
// (SPEC_FULL.md supplemented feature 1). Each arg must resolve to a term;
// the mnemonic is emitted verbatim, uppercased by InstrBuffer.Append.
func (c *Compiler) compileAsm(s *ast.AsmStmt) {
	operands := make([]ir.Operand, 0, len(s.Args))
	for _, a := range s.Args {
		if term, ok := c.tryParseTerm(a); ok {
			operands = append(operands, term)
			continue
		}
		c.Diags.Errorf(posOf(a), c.curFuncName(), "asm() argument must be a constant, variable, or parameter")
		return
	}
	c.curBuf.Append(s.Mnemonic, operands...)
	if s.Mnemonic == "HALT" || s.Mnemonic == "RET" {
		c.terminated = true
	}
}
