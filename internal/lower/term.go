package lower

import (
	"strconv"

	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

// tryParseConstant implements §4.3: integer literals, enum-constant
// identifiers, and unary '-' applied to either. Returns the decimal/hex
// literal text verbatim (preserving radix) or, for negation, a decimal
// string per "str(-int(v,0))".
func (c *Compiler) tryParseConstant(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Lit, true
	case *ast.Ident:
		sym, ok := c.scope.Lookup(v.Name)
		if !ok || sym.Kind != symtab.KindEnumConst {
			return "", false
		}
		return sym.EnumValue, true
	case *ast.UnaryExpr:
		if v.Op != "-" || v.Postfix {
			return "", false
		}
		inner, ok := c.tryParseConstant(v.X)
		if !ok {
			return "", false
		}
		n, err := parseIntAuto(inner)
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(-n, 10), true
	}
	return "", false
}

// tryParseTerm extends tryParseConstant with variable and parameter
// identifiers (§4.3): terms denote values directly usable as operand
// syllables without an intervening LDA. Reports an undeclared-identifier
// error for any Ident that resolves to nothing at all.
func (c *Compiler) tryParseTerm(e ast.Expr) (ir.Operand, bool) {
	if lit, ok := c.tryParseConstant(e); ok {
		return ir.IntOperand(lit), true
	}
	id, isIdent := e.(*ast.Ident)
	if !isIdent {
		return ir.Operand{}, false
	}
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
		return ir.Operand{}, false
	}
}

func (c *Compiler) curFuncName() string {
	if c.curFunc == nil {
		return ""
	}
	return c.curFunc.Name
}

func parseIntAuto(s string) (int64, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var n int64
	var err error
	if len(s) > 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		n, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return n, nil
}
