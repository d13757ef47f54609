package nfa

import "github.com/onContentStop/compiler-shenanigans/internal/conv"

// arena is the mutable node store used only during construction. Nodes are
// heap-allocated individually and referenced by pointer, exactly like
// original_source/plainc/main.c's `vec_t(nfa_node_t *)`: growing the index
// slice never invalidates a previously obtained *Node, which matters
// because fragment construction (concatenation in particular) holds
// pointers to two live nodes across further allocations.
//
// alloc/discard mirror alloc_nfa/discard_nfa: a discarded index is pushed
// onto a free list and preferred over growing the arena on the next
// allocation.
type arena struct {
	nodes []*Node
	free  []NodeID
}

func newArena() *arena {
	return &arena{}
}

// alloc returns a fresh node, reusing a discarded index when one is
// available.
func (a *arena) alloc() NodeID {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[id] = &Node{Index: id, Next: [2]NodeID{NoNode, NoNode}}
		return id
	}
	id := NodeID(conv.IntToInt32(len(a.nodes)))
	a.nodes = append(a.nodes, &Node{Index: id, Next: [2]NodeID{NoNode, NoNode}})
	return id
}

// discard marks id as dead and pushes it onto the free list for reuse.
// The node pointer at that slot is cleared so a stale retained reference
// reads as obviously wrong rather than silently aliasing whatever node
// reuses the slot next.
func (a *arena) discard(id NodeID) {
	a.nodes[id] = nil
	a.free = append(a.free, id)
}

// get returns the live node at id.
func (a *arena) get(id NodeID) *Node {
	return a.nodes[id]
}

// size returns the number of indices the arena has ever allocated,
// including currently-discarded ones.
func (a *arena) size() int {
	return len(a.nodes)
}

// compact renumbers live nodes to 0..N-1 and rewrites every stored index
// (Next[0], Next[1], start, and each rule's Accept) to match. It returns a
// value slice: once construction is finished there is no further need for
// pointer-stable identity, and a dense []Node — index equals array
// position — is the shape the rest of the pipeline consumes.
func (a *arena) compact(start NodeID, rules []Rule) ([]Node, NodeID, []Rule) {
	mapping := make([]NodeID, len(a.nodes))
	out := make([]Node, 0, len(a.nodes))
	for i, n := range a.nodes {
		if n == nil {
			mapping[i] = NoNode
			continue
		}
		mapping[i] = NodeID(len(out))
		out = append(out, *n)
	}
	for i := range out {
		out[i].Index = NodeID(i)
		if out[i].Next[0] != NoNode {
			out[i].Next[0] = mapping[out[i].Next[0]]
		}
		if out[i].Next[1] != NoNode {
			out[i].Next[1] = mapping[out[i].Next[1]]
		}
	}
	newRules := make([]Rule, len(rules))
	for i, r := range rules {
		newRules[i] = Rule{Accept: mapping[r.Accept], Anchor: r.Anchor}
	}
	return out, mapping[start], newRules
}
