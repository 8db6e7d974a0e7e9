package symtab

import (
	"github.com/chschnell/pcc/internal/ir"
)

// Type is a restricted-C type: int/long/void for user declarations, plus
// the extern-only unsigned variants accepted for VM-API prototypes (§4.2).
type Type int

const (
	TypeVoid Type = iota
	TypeInt
	TypeLong
	TypeUnsigned
	TypeUnsignedInt
	TypeUnsignedLong
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeUnsigned:
		return "unsigned"
	case TypeUnsignedInt:
		return "unsigned int"
	case TypeUnsignedLong:
		return "unsigned long"
	default:
		return "?"
	}
}

// Prototype is a function's return type and argument type list. Two
// prototypes are compatible (§4.2 "identical return and argument type
// lists") iff they compare equal via Equal.
type Prototype struct {
	Return Type
	Args   []Type
}

func (p Prototype) Equal(o Prototype) bool {
	if p.Return != o.Return || len(p.Args) != len(o.Args) {
		return false
	}
	for i := range p.Args {
		if p.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// Var is a non-parameter variable declaration: identity plus provenance.
// Each Var is owned by exactly one source declaration, and is associated
// with an owning UserFunc unless it is a global (Owner == nil).
type Var struct {
	Handle ir.VarHandle
	Name   string
	Type   Type
	Owner  *UserFunc // nil means file-scope global
	File   string
	Line   int
	Col    int
}

// QualifiedName renders "function.local" for a function-owned variable or
// the bare name for a global, matching the -c variable-slot header (§4.8,
// SPEC_FULL.md supplemented feature 4).
func (v *Var) QualifiedName() string {
	if v.Owner == nil {
		return v.Name
	}
	return v.Owner.Name + "." + v.Name
}

// UserFunc is a user-defined function: the "core" artifact that owns an
// IR buffer, argument variables, static labels, and the set of callers
// used by the link pass's reachability closure (§3, §4.7).
type UserFunc struct {
	Name       string
	Proto      Prototype
	DeclFile   string
	DeclLine   int
	DeclCol    int
	Impl       bool // true once a function body has been lowered
	Entry      ir.TagHandle
	Args       []ir.VarHandle
	Body       *ir.InstrBuffer
	// StaticLabels maps user-defined label names to tags. Lowering does not
	// populate it: asm(...) arguments are resolved as terms only.
	StaticLabels map[string]ir.TagHandle
	// Callers is the set of other user function names that CALL this one;
	// the link pass iterates this to a fixpoint to find the reachable set
	// from main (§4.7 step 2).
	Callers map[string]struct{}
}

func NewUserFunc(name string, proto Prototype, pool *ir.Pool) *UserFunc {
	return &UserFunc{
		Name:         name,
		Proto:        proto,
		Entry:        pool.NewTag(),
		Body:         ir.NewBuffer(name),
		StaticLabels: make(map[string]ir.TagHandle),
		Callers:      make(map[string]struct{}),
	}
}

// AddCaller records that caller invokes this function.
func (f *UserFunc) AddCaller(caller string) { f.Callers[caller] = struct{}{} }

// Reachable reports whether this function has any recorded caller. The
// link pass does not use it: there a function is retained only when one
// of its callers is itself retained (main always is).
func (f *UserFunc) Reachable() bool { return len(f.Callers) > 0 }

// ArgLiteralRemap maps a compile-time-constant literal argument value to
// a short string operand, e.g. gpioSetMode's 0..7 -> "RW540123" and
// gpioSetPullUpDown's 0..2 -> "ODU" (§4.4, §6).
type ArgLiteralRemap struct {
	// ArgIndex is the zero-based argument position this remap applies to.
	ArgIndex int
	// Table maps an integer argument value to its single-character
	// operand string. An argument that is not a compile-time constant, or
	// whose value is outside the table, is a semantic error (§4.4 case a).
	Table map[int]string
}

// VMFunc is a VM-API function: a fixed mnemonic plus optional per-argument
// literal remappers (§3, §6).
type VMFunc struct {
	Name   string
	Proto  Prototype
	Mnemonic string
	Remaps []ArgLiteralRemap // usually empty; at most one or two entries
}

func (f *VMFunc) RemapFor(argIndex int) (ArgLiteralRemap, bool) {
	for _, r := range f.Remaps {
		if r.ArgIndex == argIndex {
			return r, true
		}
	}
	return ArgLiteralRemap{}, false
}
