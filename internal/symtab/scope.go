// Package symtab implements the scoped symbol table, the lexical symbol
// kinds, and the user/VM-API function models described in spec §3 and
// §4.2: enum constant, local variable, external parameter, user function,
// VM-API function.
package symtab

import "fmt"

// Kind discriminates what a Symbol denotes.
type Kind int

const (
	KindEnumConst Kind = iota
	KindVar
	KindParam
	KindUserFunc
	KindVMFunc
)

func (k Kind) String() string {
	switch k {
	case KindEnumConst:
		return "enum constant"
	case KindVar:
		return "variable"
	case KindParam:
		return "parameter"
	case KindUserFunc:
		return "function"
	case KindVMFunc:
		return "VM-API function"
	default:
		return "symbol"
	}
}

// Symbol is a name binding in some Scope frame.
type Symbol struct {
	Name string
	Kind Kind

	// Populated depending on Kind.
	EnumValue string       // KindEnumConst: decimal string value
	Var       *Var         // KindVar
	Param     string       // KindParam: "p0".."p9"
	User      *UserFunc    // KindUserFunc
	VMFunc    *VMFunc      // KindVMFunc
}

// frame is one insertion-ordered name -> Symbol map.
type frame struct {
	names []string
	syms  map[string]Symbol
}

func newFrame() *frame { return &frame{syms: make(map[string]Symbol)} }

func (f *frame) bind(sym Symbol) error {
	if _, exists := f.syms[sym.Name]; exists {
		return fmt.Errorf("redefinition of %q", sym.Name)
	}
	f.syms[sym.Name] = sym
	f.names = append(f.names, sym.Name)
	return nil
}

// Scope is a stack of frames with lexical-parent lookup but
// insertion-into-innermost-only definition, per §4.2.
type Scope struct {
	frames []*frame
}

// NewScope returns a Scope with a single (file) frame pushed.
func NewScope() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

// Push opens a new innermost frame.
func (s *Scope) Push() { s.frames = append(s.frames, newFrame()) }

// Pop closes the innermost frame. Popping when no frame is open is a
// compiler-internal error and panics (every Push must be paired).
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		panic("symtab: Pop on empty Scope")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Bind defines name in the innermost frame, failing with a redefinition
// error if that frame already has it (§4.2: "bind(name, sym) fails with
// redefinition when the innermost frame already has name").
func (s *Scope) Bind(sym Symbol) error {
	return s.frames[len(s.frames)-1].bind(sym)
}

// Lookup searches from the innermost frame outward, returning the first
// match and whether one was found.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i].syms[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupLocal searches only the innermost frame.
func (s *Scope) LookupLocal(name string) (Symbol, bool) {
	f := s.frames[len(s.frames)-1]
	sym, ok := f.syms[name]
	return sym, ok
}

// Depth reports the current nesting depth (1 = file scope only).
func (s *Scope) Depth() int { return len(s.frames) }

// AtFileScope reports whether only the outermost frame is open.
func (s *Scope) AtFileScope() bool { return len(s.frames) == 1 }
