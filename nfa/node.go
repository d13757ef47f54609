// Package nfa implements the regex parser and Thompson-construction NFA
// builder, over the token stream produced by package lexer.
package nfa

import (
	"fmt"

	"github.com/onContentStop/compiler-shenanigans/internal/bitset"
)

// NodeID identifies a node within an NFA's arena by its array position.
type NodeID int32

// NoNode is the absent-successor sentinel. Using a dedicated sentinel
// value, rather than overloading 0 or a negative magic constant embedded
// ad hoc, keeps the tagged-union discipline this node representation
// relies on explicit.
const NoNode NodeID = -1

// EdgeKind selects which member of the next[]/class_bits/complement union
// a node's outgoing edge is carrying.
type EdgeKind uint8

const (
	// Epsilon is a transition consumed without reading input. With both
	// next[0] and next[1] present it is a branch (split); with only
	// next[0] present it is a straight epsilon move.
	Epsilon EdgeKind = iota
	// Char consumes exactly one ASCII code point in [1,126].
	Char
	// ClassRef consumes one ASCII code point admitted by class_bits,
	// subject to complement.
	ClassRef
)

func (k EdgeKind) String() string {
	switch k {
	case Epsilon:
		return "Epsilon"
	case Char:
		return "Char"
	case ClassRef:
		return "ClassRef"
	default:
		return fmt.Sprintf("EdgeKind(%d)", uint8(k))
	}
}

// Anchor is a bitmask of zero-width assertions recorded on a rule's
// terminal node.
type Anchor uint8

const (
	AnchorNone Anchor = 0
	AnchorBOL  Anchor = 1 << 0
	AnchorEOL  Anchor = 1 << 1
	AnchorBoth        = AnchorBOL | AnchorEOL
)

// ClassWidth is the size of the ASCII alphabet this compiler targets:
// codes [0, 126] inclusive.
const ClassWidth = 127

// Node is a single NFA arena entry. Edge selects which of
// Char/ClassBits+Complement is meaningful; callers must not consult the
// inactive member of the union.
type Node struct {
	Index      NodeID
	Edge       EdgeKind
	Char       byte        // valid iff Edge == Char
	ClassBits  *bitset.Set // valid iff Edge == ClassRef, width ClassWidth
	Complement bool        // valid iff Edge == ClassRef
	Anchor     Anchor      // non-None only on a rule's terminal node
	Next       [2]NodeID   // Next[1] meaningful only when Edge == Epsilon
}

// IsTerminal reports whether this node has no outgoing successor. Exactly
// one node has no outgoing edges per constructed fragment; that node is
// the fragment's end marker.
func (n *Node) IsTerminal() bool {
	return n.Next[0] == NoNode
}

// Rule records where one rule's compiled fragment terminates and which
// anchors apply to it, for multi-rule machines.
type Rule struct {
	Accept NodeID
	Anchor Anchor
}

// NFA is a read-only, compacted view of a constructed automaton: an arena
// of nodes plus a start index and the per-rule terminal bookkeeping needed
// to answer "which rule did this match" after determinization.
type NFA struct {
	Nodes []Node
	Start NodeID
	Rules []Rule
}

// Node returns the node at id.
func (a *NFA) Node(id NodeID) *Node {
	return &a.Nodes[id]
}

// Len returns the number of live nodes in the compacted arena.
func (a *NFA) Len() int {
	return len(a.Nodes)
}
