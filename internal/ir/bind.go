package ir

// Bindings is the final assignment of symbolic handles to the VM's numeric
// namespaces, produced by the link pass (§4.7) and consumed by the emitter.
type Bindings struct {
	Vars map[VarHandle]int
	Tags map[TagHandle]int
}

func NewBindings() *Bindings {
	return &Bindings{Vars: make(map[VarHandle]int), Tags: make(map[TagHandle]int)}
}

func (b *Bindings) BindVar(v VarHandle, slot int) { b.Vars[v] = slot }
func (b *Bindings) BindTag(t TagHandle, n int)    { b.Tags[t] = n }

func (b *Bindings) VarSlot(v VarHandle) (int, bool) { s, ok := b.Vars[v]; return s, ok }
func (b *Bindings) TagNumber(t TagHandle) (int, bool) { n, ok := b.Tags[t]; return n, ok }

// BindTags walks buf in order and assigns each not-yet-bound label TagHandle
// consecutive integers starting at base. It returns the number of tags
// bound from this buffer.
func (buf *InstrBuffer) BindTags(base int, bindings *Bindings) int {
	next := base
	bound := 0
	for _, st := range buf.stmts {
		if !st.IsLabel() {
			continue
		}
		if _, already := bindings.TagNumber(st.Tag); already {
			continue
		}
		bindings.BindTag(st.Tag, next)
		next++
		bound++
	}
	return bound
}

// CollectVars partitions every VarHandle referenced by this buffer's
// operands into global or local, in first-appearance order, according to
// isLocal (which the caller derives from the symbol table's function
// ownership). Handles already present in either set are left untouched so
// repeated calls across buffers accumulate a single global ordering.
func (buf *InstrBuffer) CollectVars(isLocal func(VarHandle) bool, global, local *VarSet) {
	for _, st := range buf.stmts {
		if st.IsLabel() {
			continue
		}
		for _, op := range st.Instr.Operands {
			if op.Kind != OperandVar {
				continue
			}
			if isLocal(op.Var) {
				local.Add(op.Var)
			} else {
				global.Add(op.Var)
			}
		}
	}
}
