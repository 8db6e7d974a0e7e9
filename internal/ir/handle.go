// Package ir defines the linear intermediate representation that PCC lowers
// the restricted-C AST into: symbolic variables and tags, instructions, and
// the ordered buffer that holds a function (or the emulated-helper, or init)
// body until the linker binds everything to the VM's finite namespace.
package ir

import "fmt"

// VarHandle is an opaque, unbound-until-link-time identity for a variable.
// Two handles are the same variable iff they compare equal; the zero value
// is never a valid handle.
type VarHandle struct{ id uint32 }

// Valid reports whether h was ever minted by a Pool.
func (h VarHandle) Valid() bool { return h.id != 0 }

// Bound reports whether h has been assigned a numeric slot by the linker.
func (h VarHandle) Bound(b *Bindings) bool {
	_, ok := b.Vars[h]
	return ok
}

func (h VarHandle) String() string { return fmt.Sprintf("var#%d", h.id) }

// TagHandle is the branch-target analogue of VarHandle: opaque until
// BindTags assigns it a positive integer.
type TagHandle struct{ id uint32 }

func (h TagHandle) Valid() bool { return h.id != 0 }

func (h TagHandle) String() string { return fmt.Sprintf("tag#%d", h.id) }

// Pool mints fresh VarHandle and TagHandle values. A Pool is shared across
// every InstrBuffer in a compilation session so identities never collide.
type Pool struct {
	nextVar uint32
	nextTag uint32
}

// NewVar mints a fresh, distinct VarHandle.
func (p *Pool) NewVar() VarHandle {
	p.nextVar++
	return VarHandle{id: p.nextVar}
}

// NewTag mints a fresh, distinct TagHandle.
func (p *Pool) NewTag() TagHandle {
	p.nextTag++
	return TagHandle{id: p.nextTag}
}
