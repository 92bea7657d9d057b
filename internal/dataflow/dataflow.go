// Package dataflow computes dominance frontiers and their iterated
// closure over a function's dominator tree (spec component G),
// grounded on original_source/src/IR/IDF_builder.cpp.
package dataflow

import (
	"sort"

	"github.com/hassandahiru/ccompiler/internal/dominator"
	"github.com/hassandahiru/ccompiler/internal/ir"
)

// Builder answers dominance-frontier and iterated-dominance-frontier
// queries for one function's dominator tree.
type Builder struct {
	Tree *dominator.Tree
	df   map[*dominator.Node]map[*dominator.Node]bool
}

// NewBuilder computes every node's dominance frontier up front.
func NewBuilder(tree *dominator.Tree) *Builder {
	b := &Builder{Tree: tree, df: make(map[*dominator.Node]map[*dominator.Node]bool)}
	b.build(tree.Root)
	return b
}

// build computes DF(node) per spec §4.7: CFG-successors not strictly
// dominated by node, plus each child's frontier promoted up when node
// does not strictly dominate it either.
func (b *Builder) build(node *dominator.Node) {
	frontier := make(map[*dominator.Node]bool)
	for _, succBlock := range node.Block.Follows {
		succNode := b.Tree.ByBlock[succBlock]
		if !dominator.StrictlyDominates(node, succNode) {
			frontier[succNode] = true
		}
	}
	for _, child := range node.Children {
		b.build(child)
		for df := range b.df[child] {
			if !dominator.StrictlyDominates(node, df) {
				frontier[df] = true
			}
		}
	}
	b.df[node] = frontier
}

// DF returns the dominance frontier of block, in a deterministic order
// (sorted by label name) so callers that feed it into phi placement
// produce the same IR dump on every run.
func (b *Builder) DF(block *ir.BasicGroup) []*ir.BasicGroup {
	node := b.Tree.ByBlock[block]
	out := make([]*ir.BasicGroup, 0, len(b.df[node]))
	for n := range b.df[node] {
		out = append(out, n.Block)
	}
	sortBlocks(out)
	return out
}

// IDF returns the iterated dominance frontier of a set of blocks,
// computed with a worklist (spec §4.7).
func (b *Builder) IDF(blocks []*ir.BasicGroup) []*ir.BasicGroup {
	visited := make(map[*dominator.Node]bool)
	var worklist []*dominator.Node
	for _, block := range blocks {
		worklist = append(worklist, b.Tree.ByBlock[block])
	}
	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		for df := range b.df[n] {
			if !visited[df] {
				visited[df] = true
				worklist = append(worklist, df)
			}
		}
	}
	out := make([]*ir.BasicGroup, 0, len(visited))
	for n := range visited {
		out = append(out, n.Block)
	}
	sortBlocks(out)
	return out
}

func sortBlocks(blocks []*ir.BasicGroup) {
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Label.Name < blocks[j].Label.Name
	})
}
