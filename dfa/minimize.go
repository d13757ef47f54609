package dfa

import "github.com/onContentStop/compiler-shenanigans/internal/bitset"

// Minimize collapses indistinguishable states of src into the unique
// minimal equivalent DFA, using src.States[*].Partition as scratch space.
//
// Unlike the reference minimize_dfa, which makes one growing-list pass
// over the partitions and relies on later partitions never invalidating
// earlier splits, this iterates full passes over the partition list until
// one completes with no split at all — the reference's single pass is
// sound only by luck, not in general.
func Minimize(src *Graph) *Graph {
	partitions := initialPartitions(src)

	for {
		split := false
		for i := 0; i < len(partitions); i++ {
			pi := partitions[i]
			if len(pi) == 0 {
				continue
			}
			first := pi[0]
			kept := pi[:1:1]
			var moved []*State
			for _, m := range pi[1:] {
				if distinguishable(src, first, m) {
					moved = append(moved, m)
				} else {
					kept = append(kept, m)
				}
			}
			if len(moved) > 0 {
				newID := len(partitions)
				for _, m := range moved {
					m.Partition = newID
				}
				partitions[i] = kept
				partitions = append(partitions, moved)
				split = true
			}
		}
		if !split {
			break
		}
	}

	return quotient(src, partitions)
}

// initialPartitions splits src's states into P0 = accepting, P1 =
// non-accepting, recording each state's class id. A group with no states
// is left out so that partition ids stay dense (when every state accepts,
// as in `a*`, the accepting states alone form P0).
func initialPartitions(src *Graph) [][]*State {
	var accepting, nonaccepting []*State
	for _, s := range src.States {
		if s.Accepting(src.Rules) {
			accepting = append(accepting, s)
		} else {
			nonaccepting = append(nonaccepting, s)
		}
	}
	var partitions [][]*State
	for _, group := range [][]*State{accepting, nonaccepting} {
		if len(group) == 0 {
			continue
		}
		for _, s := range group {
			s.Partition = len(partitions)
		}
		partitions = append(partitions, group)
	}
	return partitions
}

// distinguishable reports whether m must be split from first: for some
// ASCII code, exactly one of them has a transition, or both transition
// into different (current) partitions.
func distinguishable(src *Graph, first, m *State) bool {
	for c := 1; c < Width; c++ {
		t1, ok1 := first.Goto(byte(c))
		t2, ok2 := m.Goto(byte(c))
		if ok1 != ok2 {
			return true
		}
		if ok1 && ok2 && src.States[t1].Partition != src.States[t2].Partition {
			return true
		}
	}
	return false
}

// quotient builds the output DFA: one state per stable partition, with
// transitions taken from an arbitrary representative and remapped to
// partition ids, merging parallel transitions to the same target.
func quotient(src *Graph, partitions [][]*State) *Graph {
	result := &Graph{Rules: src.Rules, Start: src.States[src.Start].Partition}
	result.States = make([]*State, len(partitions))
	for i, pi := range partitions {
		result.States[i] = &State{
			Index:  i,
			NFASet: unionSets(pi),
		}
	}

	for i, pi := range partitions {
		rep := pi[0]
		dest := result.States[i]
		seen := make(map[int]int, len(rep.Transitions))
		for _, tr := range rep.Transitions {
			targetPartition := src.States[tr.Target].Partition
			if j, ok := seen[targetPartition]; ok {
				dest.Transitions[j].Label.Union(tr.Label)
				continue
			}
			seen[targetPartition] = len(dest.Transitions)
			dest.Transitions = append(dest.Transitions, Transition{
				Label:  tr.Label.Copy(),
				Target: targetPartition,
			})
		}
	}

	for i, s := range result.States {
		s.ID = letterLabel(i)
	}
	return result
}

// unionSets combines every member's nfa_set in a partition so a minimized
// state's NFASet still reflects every original rule whose acceptance
// merged into it — the reference only ever copies the first representative
// (irrelevant there, since it never inspects which rule accepted), but
// Table.RuleOf and Accepting here both need the full union.
func unionSets(pi []*State) *bitset.Set {
	out := pi[0].NFASet.Copy()
	for _, s := range pi[1:] {
		out.Union(s.NFASet)
	}
	return out
}
