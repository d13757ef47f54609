package nfa

import (
	"fmt"

	"github.com/onContentStop/compiler-shenanigans/internal/bitset"
	"github.com/onContentStop/compiler-shenanigans/lexer"
)

// Parse compiles a set of rule sources into a single NFA by Thompson
// construction, chaining one fragment per rule behind an epsilon-split
// spine exactly like the reference `machine()` production. Each entry of
// rules is parsed independently with its own Lexer — unlike the reference,
// which threads every rule through one shared token stream relying on each
// rule ending in a token that halts `cat_expr` (in practice, an explicit
// trailing `$`). Independent per-rule lexers give the same NFA topology
// without that fragility; see DESIGN.md Open Questions.
//
// maxStates caps the number of NFA nodes the arena may allocate; 0 means
// unlimited.
func Parse(rules []string, maxStates int) (*NFA, error) {
	if len(rules) == 0 {
		return nil, &ParseError{Rule: 0, Offset: 0, Err: fmt.Errorf("no rules provided")}
	}

	ar := newArena()
	spineHead := ar.alloc()
	cur := spineHead

	var ruleInfos []Rule
	for i, src := range rules {
		pr := &parser{lex: lexer.New(src), arena: ar, ruleIdx: i, maxStates: maxStates}
		if err := pr.advance(); err != nil {
			return nil, err
		}
		rStart, rEnd, anchor, err := pr.rule()
		if err != nil {
			return nil, err
		}
		if pr.lex.Kind() != lexer.EOI {
			if pr.lex.Kind() == lexer.RightParen {
				return nil, &ParseError{Rule: i, Offset: pr.lex.Offset(), Err: ErrUnmatchedParen}
			}
			return nil, &ParseError{Rule: i, Offset: pr.lex.Offset(), Err: fmt.Errorf("unexpected trailing %v", pr.lex.Kind())}
		}

		ruleInfos = append(ruleInfos, Rule{Accept: rEnd, Anchor: anchor})

		if i == 0 {
			ar.get(cur).Next[0] = rStart
			continue
		}
		if maxStates > 0 && ar.size() >= maxStates {
			return nil, &ParseError{Rule: i, Offset: pr.lex.Offset(), Err: ErrTooManyStates}
		}
		next := ar.alloc()
		ar.get(cur).Next[1] = next
		cur = next
		ar.get(cur).Next[0] = rStart
	}

	nodes, start, finalRules := ar.compact(spineHead, ruleInfos)
	return &NFA{Nodes: nodes, Start: start, Rules: finalRules}, nil
}

// parser holds the state for parsing a single rule's grammar
// (machine/rule/expr/cat_expr/factor/term/class) against its own token
// stream, sharing the caller's arena so fragments from different rules can
// be stitched into one NFA.
type parser struct {
	lex       *lexer.Lexer
	arena     *arena
	ruleIdx   int
	maxStates int
}

func (p *parser) advance() error {
	if err := p.lex.Advance(); err != nil {
		return &ParseError{Rule: p.ruleIdx, Offset: p.lex.Offset(), Err: err}
	}
	return nil
}

func (p *parser) alloc() (NodeID, error) {
	if p.maxStates > 0 && p.arena.size() >= p.maxStates {
		return NoNode, &ParseError{Rule: p.ruleIdx, Offset: p.lex.Offset(), Err: ErrTooManyStates}
	}
	return p.arena.alloc(), nil
}

func (p *parser) node(id NodeID) *Node {
	return p.arena.get(id)
}

// mergeInto implements concatenation's fragment stitch: dst's content is
// overwritten with src's, dst keeps its own identity as the join point,
// and src is discarded.
func (p *parser) mergeInto(dst, src NodeID) {
	d := p.node(dst)
	s := p.node(src)
	d.Edge = s.Edge
	d.Char = s.Char
	d.ClassBits = s.ClassBits
	d.Complement = s.Complement
	d.Anchor = s.Anchor
	d.Next = s.Next
	p.arena.discard(src)
}

// emptyFragment returns a zero-width epsilon fragment, used when a
// cat_expr has no factors to parse — an empty alternation branch, such as
// the right side of "a|".
func (p *parser) emptyFragment() (start, end NodeID, err error) {
	start, err = p.alloc()
	if err != nil {
		return
	}
	end, err = p.alloc()
	if err != nil {
		return
	}
	p.node(start).Next[0] = end
	return
}

// rule := ['^'] expr ['$']
func (p *parser) rule() (start, end NodeID, anchor Anchor, err error) {
	if p.lex.Kind() == lexer.Caret {
		start, err = p.alloc()
		if err != nil {
			return
		}
		n := p.node(start)
		n.Edge = Char
		n.Char = '\n'
		anchor |= AnchorBOL
		if err = p.advance(); err != nil {
			return
		}
		var exprStart, exprEnd NodeID
		exprStart, exprEnd, err = p.expr()
		if err != nil {
			return
		}
		p.node(start).Next[0] = exprStart
		end = exprEnd
	} else {
		start, end, err = p.expr()
		if err != nil {
			return
		}
	}

	if p.lex.Kind() == lexer.Dollar {
		if err = p.advance(); err != nil {
			return
		}
		var eol NodeID
		eol, err = p.alloc()
		if err != nil {
			return
		}
		oldEnd := p.node(end)
		oldEnd.Next[0] = eol
		oldEnd.Edge = ClassRef
		oldEnd.ClassBits = bitset.New(ClassWidth)
		oldEnd.ClassBits.Set(int('\n'))
		oldEnd.ClassBits.Set(int('\r'))
		end = eol
		anchor |= AnchorEOL
	}
	p.node(end).Anchor = anchor
	return
}

// expr := cat_expr ( '|' cat_expr )*
func (p *parser) expr() (start, end NodeID, err error) {
	start, end, err = p.catExpr()
	if err != nil {
		return
	}
	for p.lex.Kind() == lexer.Pipe {
		if err = p.advance(); err != nil {
			return
		}
		var s2, e2 NodeID
		s2, e2, err = p.catExpr()
		if err != nil {
			return
		}

		var split, join NodeID
		split, err = p.alloc()
		if err != nil {
			return
		}
		sp := p.node(split)
		sp.Next[1] = s2
		sp.Next[0] = start
		start = split

		join, err = p.alloc()
		if err != nil {
			return
		}
		p.node(end).Next[0] = join
		p.node(e2).Next[0] = join
		end = join
	}
	return
}

// cat_expr := factor ( factor )*   // while first_in_cat
func (p *parser) catExpr() (start, end NodeID, err error) {
	first, err := p.firstInCat(p.lex.Kind())
	if err != nil {
		return NoNode, NoNode, err
	}
	if first {
		start, end, err = p.factor()
		if err != nil {
			return
		}
	} else {
		start, end, err = p.emptyFragment()
		if err != nil {
			return
		}
	}

	for {
		first, err = p.firstInCat(p.lex.Kind())
		if err != nil {
			return
		}
		if !first {
			break
		}
		var s2, e2 NodeID
		s2, e2, err = p.factor()
		if err != nil {
			return
		}
		p.mergeInto(end, s2)
		end = e2
	}
	return
}

// firstInCat reports whether token can start a new factor inside a
// cat_expr. The postfix operators and a stray ']'/'^' are fatal when
// encountered here, mirroring the reference first_in_cat's fprintf+exit(1)
// cases.
func (p *parser) firstInCat(k lexer.Kind) (bool, error) {
	switch k {
	case lexer.RightParen, lexer.Dollar, lexer.Pipe, lexer.EOI:
		return false, nil
	case lexer.Star:
		return false, p.fatal(ErrDanglingStar)
	case lexer.Plus:
		return false, p.fatal(ErrDanglingPlus)
	case lexer.Question:
		return false, p.fatal(ErrDanglingQuestion)
	case lexer.RightBracket:
		return false, p.fatal(ErrStrayBracket)
	case lexer.Caret:
		return false, p.fatal(ErrStrayCaret)
	default:
		return true, nil
	}
}

func (p *parser) fatal(err error) error {
	return &ParseError{Rule: p.ruleIdx, Offset: p.lex.Offset(), Err: err}
}

// factor := term [ '*' | '+' | '?' ]
func (p *parser) factor() (start, end NodeID, err error) {
	start, end, err = p.term()
	if err != nil {
		return
	}
	switch p.lex.Kind() {
	case lexer.Star, lexer.Plus, lexer.Question:
		op := p.lex.Kind()
		var newStart, newEnd NodeID
		newStart, err = p.alloc()
		if err != nil {
			return
		}
		newEnd, err = p.alloc()
		if err != nil {
			return
		}
		sNode := p.node(newStart)
		sNode.Next[0] = start
		oldEnd := p.node(end)
		oldEnd.Next[0] = newEnd
		if op == lexer.Star || op == lexer.Question {
			sNode.Next[1] = newEnd
		}
		if op == lexer.Star || op == lexer.Plus {
			oldEnd.Next[1] = start
		}
		start, end = newStart, newEnd
		if err = p.advance(); err != nil {
			return
		}
	}
	return
}

// term := '(' expr ')' | '.' | '[' class ']' | literal
func (p *parser) term() (start, end NodeID, err error) {
	if p.lex.Kind() == lexer.LeftParen {
		if err = p.advance(); err != nil {
			return
		}
		start, end, err = p.expr()
		if err != nil {
			return
		}
		if p.lex.Kind() != lexer.RightParen {
			err = p.fatal(ErrExpectedCloseParen)
			return
		}
		if err = p.advance(); err != nil {
			return
		}
		return
	}

	start, err = p.alloc()
	if err != nil {
		return
	}
	end, err = p.alloc()
	if err != nil {
		return
	}
	sNode := p.node(start)
	sNode.Next[0] = end

	switch p.lex.Kind() {
	case lexer.Dot:
		// Any ASCII character except line terminators.
		sNode.Edge = ClassRef
		sNode.ClassBits = bitset.New(ClassWidth)
		sNode.ClassBits.Set(int('\n'))
		sNode.ClassBits.Set(int('\r'))
		sNode.Complement = true
	case lexer.LeftBracket:
		sNode.Edge = ClassRef
		sNode.ClassBits = bitset.New(ClassWidth)
		if err = p.advance(); err != nil {
			return
		}
		if p.lex.Kind() == lexer.Caret {
			if err = p.advance(); err != nil {
				return
			}
			sNode.ClassBits.Set(int('\n'))
			sNode.ClassBits.Set(int('\r'))
			sNode.Complement = true
		}
		if p.lex.Kind() != lexer.RightBracket {
			if err = p.doDash(sNode.ClassBits); err != nil {
				return
			}
		} else {
			// Empty class [] is the set of all control characters, a
			// legacy compatibility behavior kept verbatim.
			for c := 0; c <= ' '; c++ {
				sNode.ClassBits.Set(c)
			}
		}
	default:
		sNode.Edge = Char
		sNode.Char = p.lex.Lexeme()
	}
	if err = p.advance(); err != nil {
		return
	}
	return
}

// doDash scans the body of a character class: each character either sets
// a single bit, or — when followed by '-' then another character — sets
// the inclusive range [first, last].
func (p *parser) doDash(bits *bitset.Set) error {
	var first byte
	for p.lex.Kind() != lexer.EOI && p.lex.Kind() != lexer.RightBracket {
		if int(p.lex.Lexeme()) >= ClassWidth {
			return p.fatal(fmt.Errorf("class character %#x is outside the ASCII alphabet", p.lex.Lexeme()))
		}
		if p.lex.Kind() != lexer.Dash {
			first = p.lex.Lexeme()
			bits.Set(int(first))
		} else {
			if err := p.advance(); err != nil {
				return err
			}
			last := p.lex.Lexeme()
			if int(last) >= ClassWidth {
				return p.fatal(fmt.Errorf("class character %#x is outside the ASCII alphabet", last))
			}
			for c := int(first); c <= int(last); c++ {
				bits.Set(c)
			}
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}
