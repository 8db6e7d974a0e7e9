package lower

import (
	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
	"github.com/chschnell/pcc/internal/vmapi"
)

func resolveType(t ast.Type) (symtab.Type, bool) {
	switch t.Name {
	case "int":
		return symtab.TypeInt, true
	case "long":
		return symtab.TypeLong, true
	case "void":
		return symtab.TypeVoid, true
	case "unsigned":
		return symtab.TypeUnsigned, true
	case "unsigned int":
		return symtab.TypeUnsignedInt, true
	case "unsigned long":
		return symtab.TypeUnsignedLong, true
	}
	return symtab.TypeVoid, false
}

// integerLike reports whether t is usable where an int/long is expected;
// the three extern-only unsigned spellings are accepted as plain integers
// for prototype matching purposes (§4.2 notes they're "also accepted" for
// extern declarations, without defining a distinct arithmetic type).
func integerLike(t symtab.Type) bool {
	switch t {
	case symtab.TypeInt, symtab.TypeLong, symtab.TypeUnsigned, symtab.TypeUnsignedInt, symtab.TypeUnsignedLong:
		return true
	}
	return false
}

func (c *Compiler) compileTopDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.EnumDecl:
		c.compileEnumDecl(v)
	case *ast.VarDecl:
		c.compileFileVarDecl(v)
	case *ast.FuncDecl:
		c.compileFuncDecl(v)
	}
}

func (c *Compiler) compileEnumDecl(d *ast.EnumDecl) {
	c.enumCursor = 0
	for _, m := range d.Members {
		if m.Value != nil {
			lit, ok := c.tryParseConstant(m.Value)
			if !ok {
				c.Diags.Errorf(m.Pos, "", "enum member %q's value is not a compile-time integer constant", m.Name)
				continue
			}
			n, err := parseIntAuto(lit)
			if err != nil {
				c.Diags.Errorf(m.Pos, "", "enum member %q's value %q is not a valid integer", m.Name, lit)
				continue
			}
			c.enumCursor = int(n)
		}
		value := itoa64(int64(c.enumCursor))
		if err := c.scope.Bind(symtab.Symbol{Name: m.Name, Kind: symtab.KindEnumConst, EnumValue: value}); err != nil {
			c.Diags.Errorf(m.Pos, "", "%v", err)
		}
		c.enumCursor++
	}
}

func itoa64(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		if neg {
			return "-0"
		}
		return "0"
	}
	var buf [24]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// compileFileVarDecl handles a file-scope declaration: either a parameter
// (extern, name matches pN pattern) or a global variable (§4.2).
func (c *Compiler) compileFileVarDecl(d *ast.VarDecl) {
	typ, ok := resolveType(d.Type)
	if !ok || !integerLike(typ) {
		c.Diags.Errorf(d.Pos, "", "unsupported type %q for variable %q", d.Type.Name, d.Name)
		return
	}

	if d.Extern {
		m := paramPattern.FindStringSubmatch(d.Name)
		if m == nil {
			c.Diags.Errorf(d.Pos, "", "extern declaration %q does not match the parameter name pattern (?:.*_)?p[0-9](?:_.*)?", d.Name)
			return
		}
		param := m[1]
		if err := c.scope.Bind(symtab.Symbol{Name: d.Name, Kind: symtab.KindParam, Param: param}); err != nil {
			c.Diags.Errorf(d.Pos, "", "%v", err)
			return
		}
		c.paramsSeen[param] = true
		return
	}

	c.declareVar(d, nil)
}

// declareVar allocates a fresh VarHandle for d, owned by owner (nil for
// file scope), and binds it in the current scope.
func (c *Compiler) declareVar(d *ast.VarDecl, owner *symtab.UserFunc) *symtab.Var {
	typ, ok := resolveType(d.Type)
	if !ok || !integerLike(typ) {
		c.Diags.Errorf(d.Pos, c.curFuncName(), "unsupported type %q for variable %q", d.Type.Name, d.Name)
		return nil
	}
	handle := c.Pool.NewVar()
	sv := &symtab.Var{Handle: handle, Name: d.Name, Type: typ, Owner: owner, File: d.Pos.File, Line: d.Pos.Line, Col: d.Pos.Col}
	c.allVars[handle] = sv
	if owner == nil {
		c.globals[d.Name] = sv
	} else {
		c.localVarOwners[handle] = true
	}
	if err := c.scope.Bind(symtab.Symbol{Name: d.Name, Kind: symtab.KindVar, Var: sv}); err != nil {
		c.Diags.Errorf(d.Pos, c.curFuncName(), "%v", err)
		return nil
	}
	if d.Init != nil {
		c.compileAssignTo(d.Pos, ir.VarOperand(handle), d.Init, false)
	}
	return sv
}

func protoOf(ret ast.Type, argTypes []ast.Type) (symtab.Prototype, bool) {
	r, ok := resolveType(ret)
	if !ok {
		return symtab.Prototype{}, false
	}
	proto := symtab.Prototype{Return: r}
	for _, a := range argTypes {
		t, ok := resolveType(a)
		if !ok || !integerLike(t) {
			return symtab.Prototype{}, false
		}
		proto.Args = append(proto.Args, t)
	}
	return proto, true
}

func (c *Compiler) compileFuncDecl(d *ast.FuncDecl) {
	proto, ok := protoOf(d.ReturnType, d.ArgTypes)
	if !ok {
		c.Diags.Errorf(d.Pos, "", "unsupported prototype for %q", d.Name)
		return
	}

	if d.Name == "main" {
		if proto.Return != symtab.TypeVoid || len(proto.Args) != 0 {
			c.Diags.Errorf(d.Pos, "", "\"main\" must be declared \"void main(void)\"")
			return
		}
	}

	if d.Extern {
		c.compileVMDecl(d, proto)
		return
	}

	existing, seen := c.funcs[d.Name]
	if !seen {
		if _, isVM := vmapi.Lookup(d.Name); isVM {
			c.Diags.Errorf(d.Pos, "", "conflicting declaration: %q is already a VM-API function", d.Name)
			return
		}
		uf := symtab.NewUserFunc(d.Name, proto, c.Pool)
		uf.DeclFile, uf.DeclLine, uf.DeclCol = d.Pos.File, d.Pos.Line, d.Pos.Col
		c.funcs[d.Name] = uf
		if err := c.scope.Bind(symtab.Symbol{Name: d.Name, Kind: symtab.KindUserFunc, User: uf}); err != nil {
			c.Diags.Errorf(d.Pos, "", "%v", err)
		}
		existing = uf
	} else if !existing.Proto.Equal(proto) {
		c.Diags.Errorf(d.Pos, "", "conflicting declaration of %q", d.Name)
		return
	}

	if d.Body == nil {
		return
	}
	if existing.Impl {
		c.Diags.Errorf(d.Pos, "", "redefinition of function %q", d.Name)
		return
	}

	c.compileFuncBody(existing, d)
}

func (c *Compiler) compileVMDecl(d *ast.FuncDecl, proto symtab.Prototype) {
	entry, isVM := vmapi.Lookup(d.Name)
	if !isVM {
		c.Diags.Errorf(d.Pos, "", "%q is not a recognized VM-API function", d.Name)
		return
	}
	want := symtab.Prototype{Return: entry.Return, Args: entry.Args}
	if !proto.Equal(want) {
		c.Diags.Errorf(d.Pos, "", "conflicting declaration of extern %q: expected %d argument(s)", d.Name, len(entry.Args))
	}
}

func (c *Compiler) compileFuncBody(uf *symtab.UserFunc, d *ast.FuncDecl) {
	uf.Impl = true
	c.curFunc = uf
	c.curBuf = uf.Body
	c.terminated = false
	c.scope.Push()
	defer func() {
		c.scope.Pop()
		c.curFunc = nil
		c.curBuf = nil
	}()

	for i, name := range d.ArgNames {
		argHandle := c.Pool.NewVar()
		uf.Args = append(uf.Args, argHandle)
		if name == "" {
			continue
		}
		t, _ := resolveType(d.ArgTypes[i])
		sv := &symtab.Var{Handle: argHandle, Name: name, Type: t, Owner: uf, File: d.Pos.File, Line: d.Pos.Line, Col: d.Pos.Col}
		c.allVars[argHandle] = sv
		c.localVarOwners[argHandle] = true
		if err := c.scope.Bind(symtab.Symbol{Name: name, Kind: symtab.KindVar, Var: sv}); err != nil {
			c.Diags.Errorf(d.Pos, uf.Name, "%v", err)
		}
	}

	uf.Body.Tag(uf.Entry)
	c.compileBlockItems(d.Body.Items)
	if !c.terminated {
		c.curBuf.Append("RET")
	}
}
