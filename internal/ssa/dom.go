package ssa

import "slices"

// DomTree is the dominator tree over the reachable blocks of a function.
// Blocks are numbered in reverse postorder, so a block's immediate
// dominator always has a smaller number than the block itself.
type DomTree struct {
	order []*Block       // reachable blocks, entry first
	num   map[*Block]int // index into order
	idom  []int          // index of the immediate dominator; idom[0] == 0
}

// Dom returns the dominator tree of f. It is built on first use and kept
// until a block or an edge is added or the body is stripped, so the passes
// and the verifier of one pipeline share it.
func (f *Func) Dom() *DomTree {
	if f.dom == nil {
		f.dom = buildDom(f)
	}
	return f.dom
}

// buildDom runs the iterative two-finger intersection of Cooper, Harvey
// and Kennedy over reverse postorder numbers.
func buildDom(f *Func) *DomTree {
	t := &DomTree{num: make(map[*Block]int)}
	if f.Entry == nil {
		return t
	}
	t.order = reversePostorder(f.Entry)
	for i, b := range t.order {
		t.num[b] = i
	}

	const unset = -1
	t.idom = make([]int, len(t.order))
	for i := range t.idom {
		t.idom[i] = unset
	}
	t.idom[0] = 0

	for changed := true; changed; {
		changed = false
		for i := 1; i < len(t.order); i++ {
			d := unset
			for _, p := range t.order[i].Preds {
				pi, ok := t.num[p]
				if !ok || t.idom[pi] == unset {
					continue
				}
				if d == unset {
					d = pi
				} else {
					d = t.meet(pi, d)
				}
			}
			if d != unset && t.idom[i] != d {
				t.idom[i] = d
				changed = true
			}
		}
	}
	return t
}

// meet returns the closest common dominator of blocks a and b.
func (t *DomTree) meet(a, b int) int {
	for a != b {
		for a > b {
			a = t.idom[a]
		}
		for b > a {
			b = t.idom[b]
		}
	}
	return a
}

// reversePostorder numbers the blocks reachable from entry. Successors are
// visited in edge order, so then arms come before else arms.
func reversePostorder(entry *Block) []*Block {
	type frame struct {
		b    *Block
		next int
	}
	seen := map[*Block]bool{entry: true}
	stack := []frame{{b: entry}}
	var post []*Block
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.b.Succs) {
			s := top.b.Succs[top.next]
			top.next++
			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		post = append(post, top.b)
		stack = stack[:len(stack)-1]
	}
	slices.Reverse(post)
	return post
}

// Order returns the reachable blocks in reverse postorder.
func (t *DomTree) Order() []*Block { return t.order }

// Reachable reports whether b can be reached from the entry.
func (t *DomTree) Reachable(b *Block) bool {
	_, ok := t.num[b]
	return ok
}

// Idom returns the immediate dominator of b, or nil for the entry and for
// unreachable blocks.
func (t *DomTree) Idom(b *Block) *Block {
	i, ok := t.num[b]
	if !ok || i == 0 {
		return nil
	}
	return t.order[t.idom[i]]
}

// Children returns the blocks b immediately dominates, in reverse postorder.
func (t *DomTree) Children(b *Block) []*Block {
	i, ok := t.num[b]
	if !ok {
		return nil
	}
	var kids []*Block
	for j := i + 1; j < len(t.order); j++ {
		if t.idom[j] == i {
			kids = append(kids, t.order[j])
		}
	}
	return kids
}

// Dominates reports whether every path from the entry to b passes through
// a. A block dominates itself. Unreachable blocks take part in no dominance
// relation.
func (t *DomTree) Dominates(a, b *Block) bool {
	ai, ok := t.num[a]
	if !ok {
		return false
	}
	bi, ok := t.num[b]
	if !ok {
		return false
	}
	for bi > ai {
		bi = t.idom[bi]
	}
	return bi == ai
}
