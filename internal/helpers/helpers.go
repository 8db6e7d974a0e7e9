// Package helpers implements the lazily-materialized emulated
// logical/comparison helper library (spec §4.6): NEG, NOT, NOTL, ANDL,
// ORL, EQ, NE, GT, GE, LT, LE. The VM has no native opcodes for these, so
// PCC synthesizes them once per compilation and CALLs into the shared
// body thereafter.
package helpers

import "github.com/chschnell/pcc/internal/ir"

// Name enumerates the emulated helper routines.
type Name string

const (
	NEG  Name = "NEG"
	NOT  Name = "NOT"
	NOTL Name = "NOTL"
	ANDL Name = "ANDL"
	ORL  Name = "ORL"
	EQ   Name = "EQ"
	NE   Name = "NE"
	GT   Name = "GT"
	GE   Name = "GE"
	LT   Name = "LT"
	LE   Name = "LE"
)

// Library lazily materializes helper bodies on first use and remembers
// their entry tags so later calls just emit CALL.
type Library struct {
	pool    *ir.Pool
	scratch ir.VarHandle // SCR0 = v0, RHS staging per §4.6 call convention
	entries map[Name]ir.TagHandle
	buffers map[Name]*ir.InstrBuffer
	order   []Name // materialization order, preserved for deterministic linking
}

// New constructs a Library. scratch must be the reserved SCR0 variable
// (v0) shared across the whole compilation.
func New(pool *ir.Pool, scratch ir.VarHandle) *Library {
	return &Library{
		pool:    pool,
		scratch: scratch,
		entries: make(map[Name]ir.TagHandle),
		buffers: make(map[Name]*ir.InstrBuffer),
	}
}

// Entry returns the entry tag for name, materializing its body on first
// request (lazy singleton, per design note 9).
func (lib *Library) Entry(name Name) ir.TagHandle {
	if tag, ok := lib.entries[name]; ok {
		return tag
	}
	tag := lib.pool.NewTag()
	lib.entries[name] = tag
	lib.order = append(lib.order, name)

	buf := ir.NewBuffer("helper:" + string(name))
	buf.Tag(tag)
	build(buf, name, lib.pool, lib.scratch)
	lib.buffers[name] = buf

	return tag
}

// Materialized returns every helper buffer instantiated so far, in first-
// request order, for the link pass to append after user functions (§4.7
// step 5).
func (lib *Library) Materialized() []*ir.InstrBuffer {
	bufs := make([]*ir.InstrBuffer, len(lib.order))
	for i, name := range lib.order {
		bufs[i] = lib.buffers[name]
	}
	return bufs
}

// EntryTags returns every materialized helper's entry tag, for link-pass
// seeding of drop_unused_tags (each helper's own entry must never be
// collected as unused within its own buffer).
func (lib *Library) EntryTags() []ir.TagHandle {
	tags := make([]ir.TagHandle, 0, len(lib.entries))
	for _, name := range lib.order {
		tags = append(tags, lib.entries[name])
	}
	return tags
}

func build(buf *ir.InstrBuffer, name Name, pool *ir.Pool, scr0 ir.VarHandle) {
	switch name {
	case NEG:
		buf.Append("XOR", ir.IntOperand("0xffffffff"))
		buf.Append("ADD", ir.IntOperand("1"))
		buf.Append("RET")

	case NOT:
		buf.Append("XOR", ir.IntOperand("0xffffffff"))
		buf.Append("RET")

	case NOTL:
		// if A == 0 return 1 else 0
		isZero := pool.NewTag()
		end := pool.NewTag()
		buf.Append("OR", ir.IntOperand("0")) // LDA doesn't set F; assert F := A
		buf.Append("JZ", ir.TagOperand(isZero))
		buf.Append("LDA", ir.IntOperand("0"))
		buf.Append("JMP", ir.TagOperand(end))
		buf.Tag(isZero)
		buf.Append("LDA", ir.IntOperand("1"))
		buf.Tag(end)
		buf.Append("RET")

	case ANDL:
		// if A == 0 return 0; else if SCR0 == 0 return 0; else return 1
		falseTag := pool.NewTag()
		trueTag := pool.NewTag()
		end := pool.NewTag()
		buf.Append("OR", ir.IntOperand("0")) // LDA doesn't set F; assert F := A
		buf.Append("JZ", ir.TagOperand(falseTag))
		buf.Append("LDA", ir.VarOperand(scr0))
		buf.Append("OR", ir.IntOperand("0")) // LDA doesn't set F; assert F := A
		buf.Append("JZ", ir.TagOperand(falseTag))
		buf.Append("JMP", ir.TagOperand(trueTag))
		buf.Tag(falseTag)
		buf.Append("LDA", ir.IntOperand("0"))
		buf.Append("JMP", ir.TagOperand(end))
		buf.Tag(trueTag)
		buf.Append("LDA", ir.IntOperand("1"))
		buf.Tag(end)
		buf.Append("RET")

	case ORL:
		// OR SCR0; nonzero -> 1, else -> 0
		zero := pool.NewTag()
		end := pool.NewTag()
		buf.Append("OR", ir.VarOperand(scr0))
		buf.Append("JZ", ir.TagOperand(zero))
		buf.Append("LDA", ir.IntOperand("1"))
		buf.Append("JMP", ir.TagOperand(end))
		buf.Tag(zero)
		buf.Append("LDA", ir.IntOperand("0"))
		buf.Tag(end)
		buf.Append("RET")

	case EQ:
		buildCompare(buf, pool, scr0, "JZ", "1", "0")
	case NE:
		buildCompare(buf, pool, scr0, "JNZ", "1", "0")

	case GT:
		// CMP SCR0; JZ false; JM false; else 1, else 0
		falseTag := pool.NewTag()
		end := pool.NewTag()
		buf.Append("CMP", ir.VarOperand(scr0))
		buf.Append("JZ", ir.TagOperand(falseTag))
		buf.Append("JM", ir.TagOperand(falseTag))
		buf.Append("LDA", ir.IntOperand("1"))
		buf.Append("JMP", ir.TagOperand(end))
		buf.Tag(falseTag)
		buf.Append("LDA", ir.IntOperand("0"))
		buf.Tag(end)
		buf.Append("RET")

	case GE:
		buildCompare(buf, pool, scr0, "JP", "1", "0")
	case LT:
		buildCompare(buf, pool, scr0, "JM", "1", "0")

	case LE:
		// CMP SCR0; JZ true; JM true; else 0, else 1
		trueTag := pool.NewTag()
		end := pool.NewTag()
		buf.Append("CMP", ir.VarOperand(scr0))
		buf.Append("JZ", ir.TagOperand(trueTag))
		buf.Append("JM", ir.TagOperand(trueTag))
		buf.Append("LDA", ir.IntOperand("0"))
		buf.Append("JMP", ir.TagOperand(end))
		buf.Tag(trueTag)
		buf.Append("LDA", ir.IntOperand("1"))
		buf.Tag(end)
		buf.Append("RET")
	}
}

// buildCompare implements the common "CMP SCR0; Jcc true_tag; return
// else/then" shape shared by EQ, NE, GE, LT.
func buildCompare(buf *ir.InstrBuffer, pool *ir.Pool, scr0 ir.VarHandle, jcc, thenVal, elseVal string) {
	trueTag := pool.NewTag()
	end := pool.NewTag()
	buf.Append("CMP", ir.VarOperand(scr0))
	buf.Append(jcc, ir.TagOperand(trueTag))
	buf.Append("LDA", ir.IntOperand(elseVal))
	buf.Append("JMP", ir.TagOperand(end))
	buf.Tag(trueTag)
	buf.Append("LDA", ir.IntOperand(thenVal))
	buf.Tag(end)
	buf.Append("RET")
}
