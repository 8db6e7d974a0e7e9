// Package link implements the link pass (spec §4.7): find main, compute
// the reachable function set, reduce each retained buffer, sequence them,
// and bind every tag and variable to its final VM-namespace integer.
package link

import (
	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/diag"
	"github.com/chschnell/pcc/internal/helpers"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

// Limits are the script VM's fixed namespace ceilings (§4.7 step 8, §8).
const (
	MaxVars = 150
	MaxTags = 50
)

// Result is everything the emitter needs: the sequenced, bound buffers and
// the final counts report.
type Result struct {
	Buffers   []*ir.InstrBuffer
	Bindings  *ir.Bindings
	VarCount  int
	TagCount  int
	Overshoot bool
}

// Options controls optional link-pass behavior.
type Options struct {
	Reduce bool // run the peephole reducer; disabled by -n
}

// Link runs §4.7 steps 1-8 over every user function declared during
// lowering, plus whichever helpers were actually materialized.
func Link(funcs map[string]*symtab.UserFunc, lib *helpers.Library, scr0 ir.VarHandle, arg [3]ir.VarHandle, isLocal func(ir.VarHandle) bool, pool *ir.Pool, diags *diag.List, opts Options) *Result {
	main, ok := funcs["main"]
	if !ok || !main.Impl {
		diags.Errorf(ast.Pos{}, "", "no definition of function \"main\" found")
		return nil
	}

	retained := reachableFrom(main, funcs)

	// Sequence: init, then retained user functions in declaration order,
	// then helpers in materialization order (§4.7 step 5).
	ordered := orderedRetained(funcs, retained)

	init := ir.NewBuffer("init")
	init.Append("CALL", ir.TagOperand(main.Entry))
	init.Append("HALT")

	seed := seedMap(ordered, lib)

	for _, f := range ordered {
		f.Body.DropUnusedTags(seed)
		if opts.Reduce {
			renames := f.Body.Reduce()
			applyRenamesEverywhere(ordered, lib, init, renames)
		}
	}
	for _, buf := range lib.Materialized() {
		buf.DropUnusedTags(seed)
		if opts.Reduce {
			renames := buf.Reduce()
			applyRenamesEverywhere(ordered, lib, init, renames)
		}
	}

	buffers := make([]*ir.InstrBuffer, 0, len(ordered)+len(lib.Materialized())+1)
	buffers = append(buffers, init)
	for _, f := range ordered {
		buffers = append(buffers, f.Body)
	}
	buffers = append(buffers, lib.Materialized()...)

	bindings := ir.NewBindings()

	// Tags: packed per buffer, base 10, with the next buffer's base always
	// advancing a full decade past this one's last tag (base+n+10, floored
	// to ten) even when base+n already lands on a multiple of 10 (§4.7
	// step 6).
	cursor := 10
	for _, buf := range buffers {
		n := buf.BindTags(cursor, bindings)
		cursor = ((cursor + n + 10) / 10) * 10
	}

	// Variables: reserved v0..v3, then globals, then locals, all in
	// first-appearance order (§4.7 step 7).
	bindings.BindVar(scr0, 0)
	for i, a := range arg {
		bindings.BindVar(a, i+1)
	}

	var globalSet, localSet ir.VarSet
	globalSet.Add(scr0)
	for _, a := range arg {
		globalSet.Add(a)
	}
	for _, buf := range buffers {
		buf.CollectVars(isLocal, &globalSet, &localSet)
	}

	slot := 4
	for _, v := range globalSet.Items() {
		if v == scr0 || v == arg[0] || v == arg[1] || v == arg[2] {
			continue
		}
		bindings.BindVar(v, slot)
		slot++
	}
	for _, v := range localSet.Items() {
		bindings.BindVar(v, slot)
		slot++
	}

	tagCount := len(bindings.Tags)
	varCount := len(bindings.Vars)

	return &Result{
		Buffers:   buffers,
		Bindings:  bindings,
		VarCount:  varCount,
		TagCount:  tagCount,
		Overshoot: varCount > MaxVars || tagCount > MaxTags,
	}
}

// reachableFrom computes the transitive caller-set closure from main
// (§4.7 step 2): main is always retained; an implemented function is
// retained once any name in its Callers set is retained (iterated to
// fixpoint), so a function called only from dropped functions is dropped.
func reachableFrom(main *symtab.UserFunc, funcs map[string]*symtab.UserFunc) map[string]bool {
	retained := map[string]bool{main.Name: true}
	for {
		changed := false
		for name, f := range funcs {
			if retained[name] || !f.Impl {
				continue
			}
			for caller := range f.Callers {
				if retained[caller] {
					retained[name] = true
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}
	return retained
}

// orderedRetained returns the retained implemented user functions with
// main first, then the rest in declaration order (by DeclLine, the order
// lowering saw them), since main seeds the init buffer's CALL target but
// its body is sequenced alongside its siblings per step 5.
func orderedRetained(funcs map[string]*symtab.UserFunc, retained map[string]bool) []*symtab.UserFunc {
	all := make([]*symtab.UserFunc, 0, len(funcs))
	for _, f := range funcs {
		if f.Impl && retained[f.Name] {
			all = append(all, f)
		}
	}
	// Stable declaration-order sort by (DeclLine, DeclCol); main first.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && less(all[j], all[j-1]); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	return all
}

func less(a, b *symtab.UserFunc) bool {
	if a.Name == "main" {
		return true
	}
	if b.Name == "main" {
		return false
	}
	if a.DeclLine != b.DeclLine {
		return a.DeclLine < b.DeclLine
	}
	return a.DeclCol < b.DeclCol
}

// seedMap pre-credits every retained function's and helper's entry tag
// with one use, per §4.7 step 3 ("seed: one use per function entry tag,
// for all retained functions/helpers").
func seedMap(ordered []*symtab.UserFunc, lib *helpers.Library) map[ir.TagHandle]int {
	seed := make(map[ir.TagHandle]int)
	for _, f := range ordered {
		seed[f.Entry] = 1
	}
	for _, t := range lib.EntryTags() {
		seed[t] = 1
	}
	return seed
}

// applyRenamesEverywhere propagates a single buffer's Reduce() tag renames
// to every other buffer's branch operands, since a CALL in one function
// may target a tag collapsed inside another (§4.1: "tag-operand rewrites
// walk the same buffer" locally, but cross-buffer CALL targets must track
// renames from whichever buffer owned the collapsed label).
func applyRenamesEverywhere(ordered []*symtab.UserFunc, lib *helpers.Library, init *ir.InstrBuffer, renames map[ir.TagHandle]ir.TagHandle) {
	if len(renames) == 0 {
		return
	}
	rewrite := func(buf *ir.InstrBuffer) {
		for from, to := range renames {
			buf.RewriteTagOperands(from, to)
		}
	}
	rewrite(init)
	for _, f := range ordered {
		rewrite(f.Body)
	}
	for _, buf := range lib.Materialized() {
		rewrite(buf)
	}
}
