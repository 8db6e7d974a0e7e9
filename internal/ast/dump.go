package ast

import (
	"fmt"
)

// dumpInto renders n as a parenthesized S-expression, matching the shape
// the Python original prints under its debug flag (SPEC_FULL.md
// supplemented feature 2). It is a diagnostic aid only; never consumed by
// the lowering pipeline.
func dumpInto(b []byte, n interface{}) []byte {
	switch v := n.(type) {
	case nil:
		return append(b, "nil"...)

	case *TranslationUnit:
		b = append(b, "(unit "...)
		for i, d := range v.Decls {
			if i > 0 {
				b = append(b, ' ')
			}
			b = dumpInto(b, d)
		}
		return append(b, ')')

	case *VarDecl:
		b = append(b, "(var "...)
		if v.Extern {
			b = append(b, "extern "...)
		}
		b = append(b, v.Type.Name...)
		b = append(b, ' ')
		b = append(b, v.Name...)
		if v.Init != nil {
			b = append(b, " = "...)
			b = dumpInto(b, v.Init)
		}
		return append(b, ')')

	case *EnumDecl:
		b = append(b, "(enum "...)
		b = append(b, v.Name...)
		for _, m := range v.Members {
			b = append(b, ' ')
			b = append(b, m.Name...)
			if m.Value != nil {
				b = append(b, '=')
				b = dumpInto(b, m.Value)
			}
		}
		return append(b, ')')

	case *FuncDecl:
		b = append(b, "(func "...)
		if v.Extern {
			b = append(b, "extern "...)
		}
		b = append(b, fmt.Sprintf("%s %s(", v.ReturnType.Name, v.Name)...)
		for i, t := range v.ArgTypes {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = append(b, t.Name...)
		}
		b = append(b, ')')
		if v.Body != nil {
			b = append(b, ' ')
			b = dumpInto(b, v.Body)
		}
		return append(b, ')')

	case *CompoundStmt:
		b = append(b, "(block"...)
		for _, it := range v.Items {
			b = append(b, ' ')
			if it.Decl != nil {
				b = dumpInto(b, it.Decl)
			} else {
				b = dumpInto(b, it.Stmt)
			}
		}
		return append(b, ')')

	case *ExprStmt:
		if v.Expr == nil {
			return append(b, "(empty)"...)
		}
		b = append(b, "(expr "...)
		b = dumpInto(b, v.Expr)
		return append(b, ')')

	case *IfStmt:
		b = append(b, "(if "...)
		b = dumpInto(b, v.Cond)
		b = append(b, ' ')
		b = dumpInto(b, v.Then)
		if v.Else != nil {
			b = append(b, ' ')
			b = dumpInto(b, v.Else)
		}
		return append(b, ')')

	case *WhileStmt:
		b = append(b, "(while "...)
		b = dumpInto(b, v.Cond)
		b = append(b, ' ')
		b = dumpInto(b, v.Body)
		return append(b, ')')

	case *DoWhileStmt:
		b = append(b, "(do-while "...)
		b = dumpInto(b, v.Body)
		b = append(b, ' ')
		b = dumpInto(b, v.Cond)
		return append(b, ')')

	case *ForStmt:
		b = append(b, "(for"...)
		for _, it := range v.Init {
			b = append(b, ' ')
			if it.Decl != nil {
				b = dumpInto(b, it.Decl)
			} else {
				b = dumpInto(b, it.Stmt)
			}
		}
		b = append(b, " ; "...)
		b = dumpInto(b, v.Cond)
		b = append(b, " ; "...)
		b = dumpInto(b, v.Iter)
		b = append(b, ' ')
		b = dumpInto(b, v.Body)
		return append(b, ')')

	case *ReturnStmt:
		if v.Value == nil {
			return append(b, "(return)"...)
		}
		b = append(b, "(return "...)
		b = dumpInto(b, v.Value)
		return append(b, ')')

	case *ContinueStmt:
		return append(b, "(continue)"...)
	case *BreakStmt:
		return append(b, "(break)"...)

	case *AsmStmt:
		b = append(b, fmt.Sprintf("(asm %q", v.Mnemonic)...)
		for _, a := range v.Args {
			b = append(b, ' ')
			b = dumpInto(b, a)
		}
		return append(b, ')')

	case *IntLit:
		return append(b, v.Lit...)
	case *Ident:
		return append(b, v.Name...)

	case *UnaryExpr:
		if v.Postfix {
			b = append(b, '(')
			b = dumpInto(b, v.X)
			b = append(b, ' ')
			b = append(b, v.Op...)
			return append(b, ')')
		}
		b = append(b, '(')
		b = append(b, v.Op...)
		b = append(b, ' ')
		b = dumpInto(b, v.X)
		return append(b, ')')

	case *BinaryExpr:
		b = append(b, '(')
		b = append(b, v.Op...)
		b = append(b, ' ')
		b = dumpInto(b, v.X)
		b = append(b, ' ')
		b = dumpInto(b, v.Y)
		return append(b, ')')

	case *AssignExpr:
		b = append(b, '(')
		b = append(b, v.Op...)
		b = append(b, ' ')
		b = dumpInto(b, v.Dst)
		b = append(b, ' ')
		b = dumpInto(b, v.Val)
		return append(b, ')')

	case *CallExpr:
		b = append(b, '(')
		b = append(b, v.Func...)
		for _, a := range v.Args {
			b = append(b, ' ')
			b = dumpInto(b, a)
		}
		return append(b, ')')

	default:
		return append(b, fmt.Sprintf("<%T>", v)...)
	}
}
