package dfa

import "github.com/onContentStop/compiler-shenanigans/nfa"

// Table is the dense, flattened transition table produced from a Graph.
// Row 0 is the sentinel "error" row: every cell -1. Row i+1 corresponds to
// the i-th state of the source graph; each cell is either target+1 (a
// transition matching that ASCII code exists) or 0 (none).
type Table struct {
	next    [][Width]int
	accept  []bool
	ruleOf  []int
	anchors []nfa.Anchor
}

// Materialize flattens graph into a dense table. It is callable on either
// the raw subset-construction graph or its minimized quotient — the
// reference emitted these from two separate call sites under different
// names; one function serves both here.
func Materialize(graph *Graph) *Table {
	rows := len(graph.States) + 1
	t := &Table{
		next:    make([][Width]int, rows),
		accept:  make([]bool, rows),
		ruleOf:  make([]int, rows),
		anchors: make([]nfa.Anchor, rows),
	}
	for c := 0; c < Width; c++ {
		t.next[0][c] = -1
	}
	t.ruleOf[0] = -1

	for i, s := range graph.States {
		row := i + 1
		for c := 0; c < Width; c++ {
			if target, ok := s.Goto(byte(c)); ok {
				t.next[row][c] = target + 1
			}
		}
		t.accept[row] = s.Accepting(graph.Rules)
		t.ruleOf[row] = -1
		if !t.accept[row] {
			continue
		}
		for ri, r := range graph.Rules {
			if s.NFASet.Get(int(r.Accept)) {
				t.ruleOf[row] = ri
				t.anchors[row] = r.Anchor
				break
			}
		}
	}
	return t
}

// Rows returns the number of rows, including the sentinel row 0.
func (t *Table) Rows() int {
	return len(t.next)
}

// Next returns TABLE[state][c]: 0 means no transition, otherwise the
// 1-based target row.
func (t *Table) Next(state, c int) int {
	return t.next[state][c]
}

// IsAccepting reports whether state (1-based; row 0 is the sentinel and
// never accepting) is an accepting state.
func (t *Table) IsAccepting(state int) bool {
	return t.accept[state]
}

// RuleOf returns the index into the originating NFA's rule list whose
// acceptance this state carries, and whether one was found. When
// minimization has merged more than one rule's acceptance into a single
// state, the lowest rule index wins — the same leftmost-priority
// convention a generated lexer's rule table follows.
func (t *Table) RuleOf(state int) (int, bool) {
	r := t.ruleOf[state]
	return r, r >= 0
}

// Anchor returns the anchor bitmask inherited from the rule identified by
// RuleOf, or nfa.AnchorNone if state is not accepting.
func (t *Table) Anchor(state int) nfa.Anchor {
	return t.anchors[state]
}

// Doc returns the documentation banner the reference emitter
// (emit_yy_next) printed immediately ahead of the table array literal,
// exposed as plain data for an external emitter to reproduce without this
// core depending on a templating library.
func (t *Table) Doc() string {
	return "yy_next(state, c) is given the current state and next character, and evaluates to the next state."
}
