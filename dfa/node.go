// Package dfa implements subset construction, partition-refinement
// minimization, dense table materialization, and DOT debug output over the
// NFA built by package nfa.
package dfa

import (
	"github.com/onContentStop/compiler-shenanigans/internal/bitset"
	"github.com/onContentStop/compiler-shenanigans/nfa"
)

// Width is the ASCII alphabet size this compiler targets.
const Width = nfa.ClassWidth

// Transition is one outgoing edge of a State: a label bitset of ASCII
// codes and the State it leads to. The label bitsets of one state's
// transitions are pairwise disjoint.
type Transition struct {
	Label  *bitset.Set
	Target int
}

// State is one DFA node: an epsilon-closure over a set of NFA node
// indices, plus the transitions discovered out of it.
type State struct {
	Index       int
	ID          string // display label; see letterLabel in dot.go
	NFASet      *bitset.Set
	Transitions []Transition
	Partition   int // transient, used only during Minimize
}

// Accepting reports whether s's NFASet contains the terminal node of any
// of rules. This is NOT the same as s having no outgoing transitions: a
// rule ending in `+` or an unanchored `*` produces a state whose NFASet
// holds both the terminal node and a live class/char node, so subset
// construction still finds a self-loop out of it via move/closure. Such a
// state is accepting and has outgoing transitions at the same time.
func (s *State) Accepting(rules []nfa.Rule) bool {
	for _, r := range rules {
		if s.NFASet.Get(int(r.Accept)) {
			return true
		}
	}
	return false
}

// Goto returns the target of s's unique transition whose label contains
// c, mirroring the reference do_goto.
func (s *State) Goto(c byte) (int, bool) {
	for _, t := range s.Transitions {
		if t.Label.Get(int(c)) {
			return t.Target, true
		}
	}
	return -1, false
}

// Graph is a complete DFA — either the raw subset-construction output or
// its minimized quotient; both share this shape, along with the
// originating NFA's per-rule bookkeeping needed to answer "which rule
// accepts here" after determinization.
type Graph struct {
	States []*State
	Rules  []nfa.Rule
	Start  int
}
