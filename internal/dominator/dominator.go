// Package dominator builds a dominator tree over a function's CFG using
// the Lengauer–Tarjan semi-dominator algorithm (spec component F),
// grounded on original_source/src/IR/dominator_tree.cpp.
package dominator

import (
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// Node is one entry of the dominator tree.
type Node struct {
	Block    *ir.BasicGroup
	Parent   *Node
	Level    int // depth below root; the original source declares this
	          // field but never assigns it (dominator_tree.cpp), which
	          // silently breaks IsDominatorOf's level-climb. This port
	          // computes it correctly: see DESIGN.md.
	Children []*Node
}

// Tree is the dominator tree of one function's CFG.
type Tree struct {
	Root    *Node
	ByBlock map[*ir.BasicGroup]*Node
}

// Build runs Lengauer–Tarjan from entry over every block reachable from
// it, using an explicit worklist for the initial DFS rather than
// recursion (spec §9).
func Build(entry *ir.BasicGroup, pos lexer.Position) (*Tree, error) {
	order, dfnum, parent := dfsNumber(entry)
	n := len(order)

	semi := make([]int, n)
	ancestor := make([]int, n) // -1 == no ancestor (forest root)
	label := make([]int, n)
	idom := make([]int, n)
	buckets := make([][]int, n)
	for i := range order {
		semi[i] = i
		ancestor[i] = -1
		label[i] = i
	}

	var compress func(v int)
	compress = func(v int) {
		// iterative path compression, tracking the minimal-semidominator
		// label encountered along the compressed path.
		var path []int
		for ancestor[ancestor[v]] != -1 {
			path = append(path, v)
			v = ancestor[v]
		}
		for i := len(path) - 1; i >= 0; i-- {
			w := path[i]
			if semi[label[ancestor[w]]] < semi[label[w]] {
				label[w] = label[ancestor[w]]
			}
			ancestor[w] = ancestor[v]
		}
	}

	eval := func(v int) int {
		if ancestor[v] == -1 {
			return v
		}
		compress(v)
		return label[v]
	}

	link := func(parentIdx, childIdx int) {
		ancestor[childIdx] = parentIdx
	}

	for i := n - 1; i >= 1; i-- {
		w := order[i]
		for _, predBlock := range w.Precedes {
			pi, ok := dfnum[predBlock]
			if !ok {
				continue // unreachable predecessor (dead edge), ignore
			}
			u := eval(pi)
			if semi[u] < semi[i] {
				semi[i] = semi[u]
			}
		}
		buckets[semi[i]] = append(buckets[semi[i]], i)
		link(parent[i], i)
		for _, v := range buckets[parent[i]] {
			u := eval(v)
			if semi[u] < semi[v] {
				idom[v] = u
			} else {
				idom[v] = parent[i]
			}
		}
		buckets[parent[i]] = nil
	}
	for i := 1; i < n; i++ {
		if idom[i] != semi[i] {
			idom[i] = idom[idom[i]]
		}
	}

	nodes := make([]*Node, n)
	for i, b := range order {
		nodes[i] = &Node{Block: b}
	}
	for i := 1; i < n; i++ {
		p := nodes[idom[i]]
		nodes[i].Parent = p
		nodes[i].Level = p.Level + 1
		p.Children = append(p.Children, nodes[i])
	}

	byBlock := make(map[*ir.BasicGroup]*Node, n)
	for i, b := range order {
		byBlock[b] = nodes[i]
	}

	if nodes[0].Block != entry {
		return nil, diagnostics.New(diagnostics.InternalInvariant, pos, "dominator tree root is not the entry block")
	}

	return &Tree{Root: nodes[0], ByBlock: byBlock}, nil
}

// dfsNumber performs an iterative preorder DFS from entry, returning
// blocks in visitation order, a block->index map, and the DFS-tree
// parent index of every block (parent[0] is unused, the root has none).
func dfsNumber(entry *ir.BasicGroup) ([]*ir.BasicGroup, map[*ir.BasicGroup]int, []int) {
	dfnum := map[*ir.BasicGroup]int{}
	var order []*ir.BasicGroup
	var parent []int

	type frame struct {
		block     *ir.BasicGroup
		parentIdx int
	}
	stack := []frame{{entry, -1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := dfnum[top.block]; seen {
			continue
		}
		idx := len(order)
		dfnum[top.block] = idx
		order = append(order, top.block)
		if top.parentIdx == -1 {
			parent = append(parent, 0)
		} else {
			parent = append(parent, top.parentIdx)
		}
		for i := len(top.block.Follows) - 1; i >= 0; i-- {
			s := top.block.Follows[i]
			if _, seen := dfnum[s]; !seen {
				stack = append(stack, frame{s, idx})
			}
		}
	}
	return order, dfnum, parent
}

// IsDominatorOf reports whether dom dominates node (not necessarily
// strictly): climb node toward the root by Level until levels match,
// then compare identity.
func IsDominatorOf(dom, node *Node) bool {
	for node.Level > dom.Level {
		node = node.Parent
	}
	return node == dom
}

// StrictlyDominates reports whether dom strictly dominates node (dom
// dominates node and dom != node).
func StrictlyDominates(dom, node *Node) bool {
	return dom != node && IsDominatorOf(dom, node)
}
