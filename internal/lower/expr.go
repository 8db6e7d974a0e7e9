package lower

import (
	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/helpers"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

var nativeBinOp = map[string]string{
	"+": "ADD", "-": "SUB", "*": "MLT", "/": "DIV", "%": "MOD",
	"&": "AND", "|": "OR", "^": "XOR", "<<": "RLA", ">>": "RRA",
}

var helperBinOp = map[string]helpers.Name{
	"&&": helpers.ANDL, "||": helpers.ORL,
	"==": helpers.EQ, "!=": helpers.NE,
	">": helpers.GT, ">=": helpers.GE, "<": helpers.LT, "<=": helpers.LE,
}

// fixFlag emits "OR 0" to re-establish F==A before any conditional branch,
// per §4.4's flag-preservation rule. In the extended-ISA dialect (Open
// Question iii), flag-setting mnemonics already guarantee F==A, so this
// fixup is skipped entirely (SPEC_FULL.md supplemented feature 3).
func (c *Compiler) fixFlag() {
	if c.Dialect == DialectExtended {
		return
	}
	c.curBuf.Append("OR", ir.IntOperand("0"))
}

// compileExpression implements §4.4 compile_expression: try_parse_term
// first, else dispatch by node kind. Leaves the result in A.
func (c *Compiler) compileExpression(e ast.Expr) {
	if op, ok := c.tryParseTerm(e); ok {
		c.curBuf.Append("LDA", op)
		return
	}
	switch v := e.(type) {
	case *ast.UnaryExpr:
		c.compileUnary(v)
	case *ast.BinaryExpr:
		c.compileBinary(v)
	case *ast.AssignExpr:
		c.compileAssignExpr(v, true)
	case *ast.CallExpr:
		c.compileCall(v, true)
	default:
		// e had no term form and isn't a recognized node: already reported
		// by tryParseTerm if it was an undeclared Ident, otherwise this is
		// an unsupported expression shape.
		if id, wasIdent := e.(*ast.Ident); wasIdent {
			if _, declared := c.scope.Lookup(id.Name); !declared {
				return
			}
		}
		c.Diags.Errorf(posOf(e), c.curFuncName(), "unsupported expression")
	}
}

func posOf(e ast.Expr) ast.Pos {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Pos
	case *ast.Ident:
		return v.Pos
	case *ast.UnaryExpr:
		return v.Pos
	case *ast.BinaryExpr:
		return v.Pos
	case *ast.AssignExpr:
		return v.Pos
	case *ast.CallExpr:
		return v.Pos
	}
	return ast.Pos{}
}

func (c *Compiler) compileUnary(e *ast.UnaryExpr) {
	switch e.Op {
	case "++", "--":
		id, ok := e.X.(*ast.Ident)
		if !ok {
			c.Diags.Errorf(e.Pos, c.curFuncName(), "operand of %s must be a variable", e.Op)
			return
		}
		dst, ok := c.lvalueOperand(id)
		if !ok {
			return
		}
		mnem := "INR"
		if e.Op == "--" {
			mnem = "DCR"
		}
		if e.Postfix {
			c.curBuf.Append("LD", ir.VarOperand(c.scr0), dst)
			c.curBuf.Append(mnem, dst)
			c.curBuf.Append("LDA", ir.VarOperand(c.scr0))
		} else {
			c.curBuf.Append(mnem, dst)
			c.curBuf.Append("LDA", dst)
		}

	case "!":
		c.compileExpression(e.X)
		c.curBuf.Append("CALL", ir.TagOperand(c.helpers.Entry(helpers.NOTL)))

	case "~":
		c.compileExpression(e.X)
		if c.Dialect == DialectExtended {
			c.curBuf.Append("NOT")
		} else {
			c.curBuf.Append("XOR", ir.IntOperand("0xffffffff"))
		}

	case "-":
		c.compileExpression(e.X)
		if c.Dialect == DialectExtended {
			c.curBuf.Append("NEG")
		} else {
			c.curBuf.Append("CALL", ir.TagOperand(c.helpers.Entry(helpers.NEG)))
		}

	case "+":
		c.compileExpression(e.X)

	default:
		c.Diags.Errorf(e.Pos, c.curFuncName(), "unsupported unary operator %q", e.Op)
	}
}

// lvalueOperand resolves id to a Var or Param operand suitable as an INR/DCR/
// LD/STA destination; errors on anything else (enum constants, functions).
func (c *Compiler) lvalueOperand(id *ast.Ident) (ir.Operand, bool) {
	sym, ok := c.scope.Lookup(id.Name)
	if !ok {
		c.Diags.Errorf(id.Pos, c.curFuncName(), "undeclared identifier %q", id.Name)
		return ir.Operand{}, false
	}
	switch sym.Kind {
	case symtab.KindVar:
		return ir.VarOperand(sym.Var.Handle), true
	case symtab.KindParam:
		return ir.ParamOperand(sym.Param), true
	default:
		c.Diags.Errorf(id.Pos, c.curFuncName(), "%q is not assignable", id.Name)
		return ir.Operand{}, false
	}
}

func (c *Compiler) compileBinary(e *ast.BinaryExpr) {
	if native, ok := nativeBinOp[e.Op]; ok {
		c.compileLHSThenOp(e.X, e.Y, func(operand ir.Operand) {
			c.curBuf.Append(native, operand)
		})
		return
	}
	if name, ok := helperBinOp[e.Op]; ok {
		c.compileLHSThenOp(e.X, e.Y, func(operand ir.Operand) {
			c.curBuf.Append("LD", ir.VarOperand(c.scr0), operand)
			c.curBuf.Append("CALL", ir.TagOperand(c.helpers.Entry(name)))
		})
		return
	}
	c.Diags.Errorf(e.Pos, c.curFuncName(), "unsupported binary operator %q", e.Op)
}

// compileLHSThenOp implements §4.4 binary lowering steps 1-3: compile lhs
// into A, then either apply op directly to rhs's term form, or stage rhs
// through SCR0 via PUSHA/POPA when it isn't a term. op receives the final
// right-hand operand (a term, or SCR0 once staged).
func (c *Compiler) compileLHSThenOp(lhs, rhs ast.Expr, op func(ir.Operand)) {
	c.compileExpression(lhs)
	if term, ok := c.tryParseTerm(rhs); ok {
		op(term)
		return
	}
	c.curBuf.Append("PUSHA")
	c.compileExpression(rhs)
	c.curBuf.Append("STA", ir.VarOperand(c.scr0))
	c.curBuf.Append("POPA")
	op(ir.VarOperand(c.scr0))
}

// compileAssignExpr lowers dst = rhs / dst op= rhs. wantValue controls
// whether the result is re-loaded into A for an enclosing expression
// (§4.4: "plus LDA dst if the assignment's result is consumed").
func (c *Compiler) compileAssignExpr(e *ast.AssignExpr, wantValue bool) {
	id, ok := e.Dst.(*ast.Ident)
	if !ok {
		c.Diags.Errorf(e.Pos, c.curFuncName(), "assignment target must be a variable")
		return
	}
	dst, ok := c.lvalueOperand(id)
	if !ok {
		return
	}

	if e.Op == "=" {
		c.compileAssignTo(e.Pos, dst, e.Val, wantValue)
		return
	}

	// Compound assignment: LDA dst; OP operand; STA dst.
	opSym := e.Op[:len(e.Op)-1] // strip trailing '='
	c.curBuf.Append("LDA", dst)
	applyCompound := func(operand ir.Operand) {
		if native, ok := nativeBinOp[opSym]; ok {
			c.curBuf.Append(native, operand)
			return
		}
		if name, ok := helperBinOp[opSym]; ok {
			c.curBuf.Append("LD", ir.VarOperand(c.scr0), operand)
			c.curBuf.Append("CALL", ir.TagOperand(c.helpers.Entry(name)))
			return
		}
		c.Diags.Errorf(e.Pos, c.curFuncName(), "unsupported compound-assignment operator %q", e.Op)
	}
	if term, ok := c.tryParseTerm(e.Val); ok {
		applyCompound(term)
	} else {
		c.curBuf.Append("PUSHA")
		c.compileExpression(e.Val)
		c.curBuf.Append("STA", ir.VarOperand(c.scr0))
		c.curBuf.Append("POPA")
		applyCompound(ir.VarOperand(c.scr0))
	}
	c.curBuf.Append("STA", dst)
	if wantValue {
		c.curBuf.Append("LDA", dst)
	}
}

// compileAssignTo is the shared "dst = expr" lowering used by both plain
// assignment and variable-declaration initializers.
func (c *Compiler) compileAssignTo(pos ast.Pos, dst ir.Operand, rhs ast.Expr, wantValue bool) {
	if term, ok := c.tryParseTerm(rhs); ok {
		c.curBuf.Append("LD", dst, term)
		if wantValue {
			c.curBuf.Append("LDA", dst)
		}
		return
	}
	c.compileExpression(rhs)
	c.curBuf.Append("STA", dst)
}

// compileCall lowers a VM-API or user function call (§4.4). wantValue
// reports whether an enclosing expression consumes the result; calling a
// void user function in that position is an error. A VM-API call whose
// mnemonic is HALT always marks the rest of the block unreachable.
func (c *Compiler) compileCall(e *ast.CallExpr, wantValue bool) {
	sym, ok := c.scope.Lookup(e.Func)
	if !ok {
		c.Diags.Errorf(e.Pos, c.curFuncName(), "call to undeclared function %q", e.Func)
		return
	}
	switch sym.Kind {
	case symtab.KindVMFunc:
		c.compileVMCall(e, sym.VMFunc)
	case symtab.KindUserFunc:
		c.compileUserCall(e, sym.User, wantValue)
	default:
		c.Diags.Errorf(e.Pos, c.curFuncName(), "%q is not callable", e.Func)
	}
}

func (c *Compiler) compileVMCall(e *ast.CallExpr, f *symtab.VMFunc) {
	if len(e.Args) != len(f.Proto.Args) {
		c.Diags.Errorf(e.Pos, c.curFuncName(), "%q expects %d argument(s), got %d", e.Func, len(f.Proto.Args), len(e.Args))
		return
	}
	operands := make([]ir.Operand, len(e.Args))
	for i, arg := range e.Args {
		if remap, ok := f.RemapFor(i); ok {
			lit, ok := c.tryParseConstant(arg)
			if !ok {
				c.Diags.Errorf(posOf(arg), c.curFuncName(), "argument %d of %q must be a compile-time constant", i+1, e.Func)
				continue
			}
			n, err := parseIntAuto(lit)
			if err != nil {
				c.Diags.Errorf(posOf(arg), c.curFuncName(), "argument %d of %q is not a valid integer", i+1, e.Func)
				continue
			}
			ch, ok := remap.Table[int(n)]
			if !ok {
				c.Diags.Errorf(posOf(arg), c.curFuncName(), "argument %d of %q is out of range", i+1, e.Func)
				continue
			}
			operands[i] = ir.StringOperand(ch)
			continue
		}
		if term, ok := c.tryParseTerm(arg); ok {
			operands[i] = term
			continue
		}
		c.compileExpression(arg)
		c.curBuf.Append("STA", ir.VarOperand(c.arg[i]))
		operands[i] = ir.VarOperand(c.arg[i])
	}
	c.curBuf.Append(f.Mnemonic, operands...)
	if f.Mnemonic == "HALT" {
		c.terminated = true
	}
}

func (c *Compiler) compileUserCall(e *ast.CallExpr, f *symtab.UserFunc, wantValue bool) {
	if len(e.Args) != len(f.Args) {
		c.Diags.Errorf(e.Pos, c.curFuncName(), "%q expects %d argument(s), got %d", e.Func, len(f.Args), len(e.Args))
		return
	}
	if wantValue && f.Proto.Return == symtab.TypeVoid {
		c.Diags.Errorf(e.Pos, c.curFuncName(), "void function %q's result used in an expression", e.Func)
	}
	for i, arg := range e.Args {
		c.compileAssignTo(posOf(arg), ir.VarOperand(f.Args[i]), arg, false)
	}
	c.curBuf.Append("CALL", ir.TagOperand(f.Entry))
	if c.curFunc != nil {
		f.AddCaller(c.curFunc.Name)
	} else {
		f.AddCaller("")
	}
}
