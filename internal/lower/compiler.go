// Package lower implements the AST compiler: traversal of the restricted-C
// AST producing IR into the current buffer, scope management, loop-label
// stacks, and the "in-expression" flag governing flag-preservation choices
// (spec §4.2-§4.5). This is the largest single component of PCC (~40% of
// core, per spec §2).
package lower

import (
	"regexp"

	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/diag"
	"github.com/chschnell/pcc/internal/helpers"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
	"github.com/chschnell/pcc/internal/vmapi"
)

// Dialect selects between the classic lowering in spec §4.4-§4.6 and the
// extended-ISA mode from Open Question (iii) (SPEC_FULL.md supplemented
// feature 3): no OR 0 fixups, and native NEG/NOT instead of the emulated
// NEG helper and the XOR 0xffffffff sequence. No other mnemonic differs.
type Dialect int

const (
	DialectClassic Dialect = iota
	DialectExtended
)

// loopLabels is one (continue_tag, break_tag) pair pushed per loop, per
// §4.5.
type loopLabels struct {
	continueTag ir.TagHandle
	breakTag    ir.TagHandle
}

// paramPattern is the regex capturing pN from extern parameter
// declarations (§4.2, §6): (?:.*_)?p[0-9](?:_.*)?
var paramPattern = regexp.MustCompile(`^(?:.*_)?(p[0-9])(?:_.*)?$`)

// Compiler holds all state shared across an entire compilation session
// (§5: single-threaded, synchronous, no shared state beyond one session).
type Compiler struct {
	Pool    *ir.Pool
	Diags   *diag.List
	Dialect Dialect

	scope   *symtab.Scope
	helpers *helpers.Library

	scr0 ir.VarHandle
	arg  [3]ir.VarHandle // ARG0..ARG2 = v1..v3

	funcs map[string]*symtab.UserFunc
	// globals records every file-scope Var by name. Local/global ownership
	// for CollectVars comes from localVarOwners (see IsLocal), not from here.
	globals map[string]*symtab.Var

	paramsSeen map[string]bool // "p0".."p9" already declared, for diagnostics only

	localVarOwners map[ir.VarHandle]bool // true for any non-parameter local variable

	// allVars records every symtab.Var ever declared (global or local), for
	// the emitter's -c variable-slot header block (SPEC_FULL.md
	// supplemented feature 4).
	allVars map[ir.VarHandle]*symtab.Var

	enumCursor int // running value cursor while lowering one enum block

	curFunc  *symtab.UserFunc
	curBuf   *ir.InstrBuffer
	loops    []loopLabels
	terminated bool // true once the current statement sequence hit return/HALT/unreachable
}

// New constructs a Compiler. pool must be shared with the link pass and
// helper library that follow.
func New(pool *ir.Pool, dialect Dialect) *Compiler {
	c := &Compiler{
		Pool:       pool,
		Diags:      &diag.List{},
		Dialect:    dialect,
		scope:      symtab.NewScope(),
		funcs:      make(map[string]*symtab.UserFunc),
		globals:    make(map[string]*symtab.Var),
		paramsSeen: make(map[string]bool),
		localVarOwners: make(map[ir.VarHandle]bool),
		allVars:    make(map[ir.VarHandle]*symtab.Var),
	}
	c.scr0 = pool.NewVar()
	for i := range c.arg {
		c.arg[i] = pool.NewVar()
	}
	c.helpers = helpers.New(pool, c.scr0)

	for _, e := range vmapi.Table {
		vf := &symtab.VMFunc{Name: e.Name, Proto: symtab.Prototype{Return: e.Return, Args: e.Args}, Mnemonic: e.Mnemonic, Remaps: e.Remaps}
		_ = c.scope.Bind(symtab.Symbol{Name: e.Name, Kind: symtab.KindVMFunc, VMFunc: vf})
	}
	return c
}

// Helpers exposes the emulated-helper library for the link pass.
func (c *Compiler) Helpers() *helpers.Library { return c.helpers }

// Funcs returns every user function declared so far, keyed by name.
func (c *Compiler) Funcs() map[string]*symtab.UserFunc { return c.funcs }

// AllVars returns every declared variable (global or local), keyed by
// handle, for the emitter's -c header block.
func (c *Compiler) AllVars() map[ir.VarHandle]*symtab.Var { return c.allVars }

// ReservedVars returns SCR0 and ARG0..ARG2, for the linker's reserved-slot
// binding (§3: "variable namespace reserves v0 ... and v1..v3").
func (c *Compiler) ReservedVars() (scr0 ir.VarHandle, args [3]ir.VarHandle) {
	return c.scr0, c.arg
}

// IsLocal reports whether v is owned by some user function, for
// ir.InstrBuffer.CollectVars's ownership predicate.
func (c *Compiler) IsLocal(v ir.VarHandle) bool {
	if v == c.scr0 || v == c.arg[0] || v == c.arg[1] || v == c.arg[2] {
		return false
	}
	for _, f := range c.funcs {
		for _, a := range f.Args {
			if a == v {
				return true
			}
		}
	}
	return c.localVarOwners[v]
}

// CompileUnit lowers every top-level declaration in tu in order.
func (c *Compiler) CompileUnit(tu *ast.TranslationUnit) {
	for _, d := range tu.Decls {
		c.compileTopDecl(d)
	}
}

// Finish validates whole-program invariants once every translation unit
// has been lowered (main's "void main(void)" prototype is checked
// per-declaration; this catches the "main missing entirely" case).
func (c *Compiler) Finish() {
	if _, ok := c.funcs["main"]; !ok {
		c.Diags.Errorf(ast.Pos{}, "", "no definition of function \"main\" found")
	}
}

// Main returns the distinguished main function, or nil if none was
// declared (Finish already reported that as an error).
func (c *Compiler) Main() *symtab.UserFunc { return c.funcs["main"] }
