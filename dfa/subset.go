package dfa

import (
	"github.com/onContentStop/compiler-shenanigans/internal/bitset"
	"github.com/onContentStop/compiler-shenanigans/nfa"
)

// closure computes the epsilon-closure of a seed set of NFA indices: the
// smallest superset of seed closed under epsilon successors, found by a
// worklist over NFA indices.
func closure(src *nfa.NFA, seed *bitset.Set) *bitset.Set {
	result := seed.Copy()
	var stack []int
	seed.Each(func(v int) { stack = append(stack, v) })

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := src.Node(nfa.NodeID(i))
		if n.Edge != nfa.Epsilon {
			continue
		}
		for _, nxt := range n.Next {
			if nxt == nfa.NoNode {
				continue
			}
			if !result.Get(int(nxt)) {
				result.Set(int(nxt))
				stack = append(stack, int(nxt))
			}
		}
	}
	return result
}

// move computes the set of NFA nodes reachable by a single transition on
// character c from any member of set. The boolean result reports whether
// any member contributed a successor.
func move(src *nfa.NFA, set *bitset.Set, c byte) (*bitset.Set, bool) {
	var out *bitset.Set
	set.Each(func(i int) {
		n := src.Node(nfa.NodeID(i))
		var hit bool
		switch n.Edge {
		case nfa.Char:
			hit = n.Char == c
		case nfa.ClassRef:
			hit = n.ClassBits.Get(int(c)) != n.Complement
		}
		if hit && n.Next[0] != nfa.NoNode {
			if out == nil {
				out = bitset.New(src.Len())
			}
			out.Set(int(n.Next[0]))
		}
	})
	return out, out != nil
}

// Build runs subset construction over src, producing a DFA whose states
// are epsilon-closures of NFA index sets, deduplicated by bitset equality
// as each new state is discovered.
func Build(src *nfa.NFA) *Graph {
	start := bitset.New(src.Len())
	start.Set(int(src.Start))
	d0 := &State{NFASet: closure(src, start)}

	g := &Graph{Rules: src.Rules, Start: 0}
	g.States = append(g.States, d0)
	work := []*State{d0}

	for len(work) > 0 {
		di := work[len(work)-1]
		work = work[:len(work)-1]

		for c := 1; c < Width; c++ {
			moved, ok := move(src, di.NFASet, byte(c))
			if !ok {
				continue
			}
			djSet := closure(src, moved)

			target := -1
			for i, existing := range g.States {
				if existing.NFASet.Equal(djSet) {
					target = i
					break
				}
			}
			if target == -1 {
				dj := &State{Index: len(g.States), NFASet: djSet}
				g.States = append(g.States, dj)
				work = append(work, dj)
				target = dj.Index
			}

			addTransition(di, target, byte(c))
		}
	}

	for i, s := range g.States {
		s.ID = letterLabel(i)
	}
	return g
}

// addTransition records that di transitions to target on character c,
// consolidating into an existing transition to the same target rather
// than adding one edge per character.
func addTransition(di *State, target int, c byte) {
	for i := range di.Transitions {
		if di.Transitions[i].Target == target {
			di.Transitions[i].Label.Set(int(c))
			return
		}
	}
	label := bitset.New(Width)
	label.Set(int(c))
	di.Transitions = append(di.Transitions, Transition{Label: label, Target: target})
}
