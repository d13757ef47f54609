package nfa

import "testing"

// epsilonClosure and step are a minimal NFA simulator used only to exercise
// the fragments Parse builds; the real epsilon-closure/move walk used by
// the compiler lives in package dfa (spec §4.3) and runtime matching is out
// of scope (spec §1).

func epsilonClosure(a *NFA, states map[NodeID]bool) map[NodeID]bool {
	visited := map[NodeID]bool{}
	stack := make([]NodeID, 0, len(states))
	for s := range states {
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		n := a.Node(id)
		if n.Edge == Epsilon {
			if n.Next[0] != NoNode && !visited[n.Next[0]] {
				stack = append(stack, n.Next[0])
			}
			if n.Next[1] != NoNode && !visited[n.Next[1]] {
				stack = append(stack, n.Next[1])
			}
		}
	}
	return visited
}

func step(a *NFA, states map[NodeID]bool, c byte) map[NodeID]bool {
	next := map[NodeID]bool{}
	for id := range states {
		n := a.Node(id)
		var match bool
		switch n.Edge {
		case Char:
			match = n.Char == c
		case ClassRef:
			match = n.ClassBits.Get(int(c)) != n.Complement
		}
		if match && n.Next[0] != NoNode {
			next[n.Next[0]] = true
		}
	}
	return next
}

func accepts(a *NFA, s string) bool {
	states := epsilonClosure(a, map[NodeID]bool{a.Start: true})
	for i := 0; i < len(s); i++ {
		states = epsilonClosure(a, step(a, states, s[i]))
		if len(states) == 0 {
			return false
		}
	}
	for id := range states {
		if a.Node(id).IsTerminal() {
			for _, r := range a.Rules {
				if r.Accept == id {
					return true
				}
			}
		}
	}
	return false
}

func mustParse(t *testing.T, pattern string) *NFA {
	t.Helper()
	n, err := Parse([]string{pattern}, 0)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return n
}

func TestLiteralConcatenation(t *testing.T) {
	n := mustParse(t, "abc")
	for _, s := range []string{"abc"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	for _, s := range []string{"ab", "abcd", "xyz", ""} {
		if accepts(n, s) {
			t.Errorf("expected %q not to match", s)
		}
	}
}

func TestAlternation(t *testing.T) {
	n := mustParse(t, "cat|dog")
	for _, s := range []string{"cat", "dog"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	for _, s := range []string{"ca", "dogs", "catdog"} {
		if accepts(n, s) {
			t.Errorf("expected %q not to match", s)
		}
	}
}

func TestStar(t *testing.T) {
	n := mustParse(t, "ab*c")
	for _, s := range []string{"ac", "abc", "abbbbc"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	if accepts(n, "abb") {
		t.Errorf("expected %q not to match", "abb")
	}
}

func TestPlus(t *testing.T) {
	n := mustParse(t, "ab+c")
	if accepts(n, "ac") {
		t.Error("expected \"ac\" not to match ab+c")
	}
	for _, s := range []string{"abc", "abbc"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
}

func TestQuestion(t *testing.T) {
	n := mustParse(t, "ab?c")
	for _, s := range []string{"ac", "abc"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	if accepts(n, "abbc") {
		t.Error("expected \"abbc\" not to match ab?c")
	}
}

func TestGrouping(t *testing.T) {
	n := mustParse(t, "(ab)+")
	for _, s := range []string{"ab", "abab", "ababab"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	if accepts(n, "a") || accepts(n, "aba") {
		t.Error("expected partial repeats not to match")
	}
}

func TestCharClassRange(t *testing.T) {
	n := mustParse(t, "[a-c]+")
	for _, s := range []string{"a", "abc", "cccbaa"} {
		if !accepts(n, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	if accepts(n, "abd") {
		t.Error("expected \"abd\" not to match [a-c]+")
	}
}

func TestCharClassNegated(t *testing.T) {
	n := mustParse(t, "[^abc]")
	if accepts(n, "a") || accepts(n, "b") || accepts(n, "c") {
		t.Error("negated class matched an excluded member")
	}
	if !accepts(n, "x") {
		t.Error("negated class rejected a non-member")
	}
}

func TestEmptyClassCompat(t *testing.T) {
	// spec §4.2: an empty class [] is the set of control characters 0..' '.
	n := mustParse(t, "[]")
	if !accepts(n, "\t") || !accepts(n, " ") {
		t.Error("empty class should accept control characters up to space")
	}
	if accepts(n, "a") {
		t.Error("empty class should not accept 'a'")
	}
}

func TestDot(t *testing.T) {
	n := mustParse(t, "a.c")
	if !accepts(n, "abc") || !accepts(n, "axc") {
		t.Error("dot should match any non-newline character")
	}
	if accepts(n, "a\nc") || accepts(n, "a\rc") {
		t.Error("dot should not match line terminators")
	}
}

func TestLeadingCaretAnchor(t *testing.T) {
	n := mustParse(t, "^ab")
	if n.Rules[0].Anchor&AnchorBOL == 0 {
		t.Fatal("expected AnchorBOL set on rule")
	}
	if !accepts(n, "\nab") {
		t.Error("expected leading-anchor fragment to require a line-start node before the pattern")
	}
	if accepts(n, "ab") {
		t.Error("expected bare \"ab\" not to match ^ab at the NFA level")
	}
}

func TestTrailingDollarAnchor(t *testing.T) {
	n := mustParse(t, "ab$")
	if n.Rules[0].Anchor&AnchorEOL == 0 {
		t.Fatal("expected AnchorEOL set on rule")
	}
	if !accepts(n, "ab\n") || !accepts(n, "ab\r") {
		t.Error("expected trailing-anchor fragment to consume a line terminator")
	}
	if accepts(n, "ab") {
		t.Error("expected \"ab\" alone not to match ab$ at the NFA level")
	}
}

func TestMultiRuleMachine(t *testing.T) {
	n, err := Parse([]string{"cat", "dog"}, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(n.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(n.Rules))
	}
	if !accepts(n, "cat") || !accepts(n, "dog") {
		t.Error("expected both rules reachable from the shared start")
	}
	if accepts(n, "catdog") {
		t.Error("expected no accidental concatenation across rules")
	}
}

func TestUnmatchedOpenParenIsError(t *testing.T) {
	_, err := Parse([]string{"(ab"}, 0)
	if err == nil {
		t.Fatal("expected an error for an unclosed '('")
	}
}

func TestStrayCloseParenIsError(t *testing.T) {
	_, err := Parse([]string{"ab)"}, 0)
	if err == nil {
		t.Fatal("expected an error for a stray ')'")
	}
}

func TestStrayBracketIsError(t *testing.T) {
	_, err := Parse([]string{"]ab"}, 0)
	if err == nil {
		t.Fatal("expected an error for a stray ']'")
	}
}

func TestStrayCaretIsError(t *testing.T) {
	_, err := Parse([]string{"a^b"}, 0)
	if err == nil {
		t.Fatal("expected an error for a mid-pattern stray '^'")
	}
}

func TestDanglingStarIsError(t *testing.T) {
	_, err := Parse([]string{"*ab"}, 0)
	if err == nil {
		t.Fatal("expected an error for a leading '*' with no preceding term")
	}
}

func TestTooManyStatesIsError(t *testing.T) {
	_, err := Parse([]string{"abcdefgh"}, 3)
	if err == nil {
		t.Fatal("expected a state-budget error")
	}
}

func TestEmptyAlternationBranch(t *testing.T) {
	// spec §7: an empty branch of an alternation is permitted as an
	// epsilon fragment, so "a|" matches either "a" or the empty string.
	n := mustParse(t, "a|")
	if !accepts(n, "a") {
		t.Error(`expected "a" to match`)
	}
	if !accepts(n, "") {
		t.Error("expected the empty string to match the empty branch")
	}
}

func TestNoRulesIsError(t *testing.T) {
	_, err := Parse(nil, 0)
	if err == nil {
		t.Fatal("expected an error when no rules are provided")
	}
}
