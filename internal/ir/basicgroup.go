package ir

import "strings"

// BasicGroup is a basic block: a doubly linked list of instructions
// with a single entry and single exit, owning the Label that names it
// (the "merge invariant" of spec §4.5.4 — label ownership moves from
// the block's first instruction onto the block itself once CFG
// construction finishes).
type BasicGroup struct {
	Label    *Label
	Precedes []*BasicGroup
	Follows  []*BasicGroup

	head, tail Instruction
	count      int

	// Index is this block's position in its Function's block list,
	// assigned once by BuildFunction; the dominator tree builder
	// additionally assigns a DFS preorder index of its own.
	Index int
}

func newBasicGroup(label *Label) *BasicGroup {
	g := &BasicGroup{Label: label}
	if label != nil {
		label.Dest = nil
	}
	return g
}

// PushBack appends instr at the tail of the instruction list.
func (g *BasicGroup) PushBack(instr Instruction) {
	instr.setBlock(g)
	instr.setPrev(g.tail)
	instr.setNext(nil)
	if g.tail != nil {
		g.tail.setNext(instr)
	} else {
		g.head = instr
	}
	g.tail = instr
	g.count++
}

// PushFront inserts instr at the head of the instruction list in O(1),
// as required by φ-insertion (spec §4.8 Phase 2).
func (g *BasicGroup) PushFront(instr Instruction) {
	instr.setBlock(g)
	instr.setNext(g.head)
	instr.setPrev(nil)
	if g.head != nil {
		g.head.setPrev(instr)
	} else {
		g.tail = instr
	}
	g.head = instr
	g.count++
}

// InsertBefore inserts instr immediately before mark.
func (g *BasicGroup) InsertBefore(mark, instr Instruction) {
	if mark == nil {
		g.PushBack(instr)
		return
	}
	prev := mark.Prev()
	instr.setBlock(g)
	instr.setPrev(prev)
	instr.setNext(mark)
	if prev != nil {
		prev.setNext(instr)
	} else {
		g.head = instr
	}
	mark.setPrev(instr)
	g.count++
}

// Erase removes instr from the list. It does not detach instr's
// operand Uses; callers that want to fully discard an instruction call
// DetachOperands as well.
func (g *BasicGroup) Erase(instr Instruction) {
	prev, next := instr.Prev(), instr.Next()
	if prev != nil {
		prev.setNext(next)
	} else {
		g.head = next
	}
	if next != nil {
		next.setPrev(prev)
	} else {
		g.tail = prev
	}
	instr.setBlock(nil)
	instr.setPrev(nil)
	instr.setNext(nil)
	g.count--
}

// DetachOperands removes every Use instr owns from its operands'
// user-lists, e.g. when instr is being permanently discarded (mem2reg
// erases Loads/Stores this way).
func DetachOperands(instr Instruction) {
	for _, u := range instr.Operands() {
		if u.Value != nil {
			u.Value.removeUse(u)
		}
	}
}

// Head returns the first instruction, or nil if the block is empty.
func (g *BasicGroup) Head() Instruction { return g.head }

// Tail returns the last instruction, or nil if the block is empty.
func (g *BasicGroup) Tail() Instruction { return g.tail }

// Len returns the number of instructions currently in the block.
func (g *BasicGroup) Len() int { return g.count }

// Instructions returns a snapshot slice of the instruction list, in
// order. Safe to use for read-only traversal; passes that mutate the
// list while iterating walk Next() explicitly instead (see mem2reg).
func (g *BasicGroup) Instructions() []Instruction {
	out := make([]Instruction, 0, g.count)
	for i := g.head; i != nil; i = i.Next() {
		out = append(out, i)
	}
	return out
}

// Terminator returns the block's terminating instruction, or nil if
// the block has not been terminated yet.
func (g *BasicGroup) Terminator() Instruction {
	if g.tail != nil && IsTerminator(g.tail) {
		return g.tail
	}
	return nil
}

// PredIndex returns the index of pred within g.Precedes, or -1. Used
// to pick out a Phi's source slot for a given incoming edge (spec
// §4.8 Phase 3).
func (g *BasicGroup) PredIndex(pred *BasicGroup) int {
	for i, p := range g.Precedes {
		if p == pred {
			return i
		}
	}
	return -1
}

func addEdge(from, to *BasicGroup) {
	from.Follows = append(from.Follows, to)
	to.Precedes = append(to.Precedes, from)
}

// String renders the block per spec §6's textual dump grammar.
func (g *BasicGroup) String() string {
	var sb strings.Builder
	sb.WriteString("Label.")
	sb.WriteString(g.Label.Name)
	sb.WriteString(":          ; pred: ")
	for i, p := range g.Precedes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("Label.")
		sb.WriteString(p.Label.Name)
	}
	sb.WriteString(";\n")
	for i := g.head; i != nil; i = i.Next() {
		sb.WriteString("  ")
		sb.WriteString(i.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
