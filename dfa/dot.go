package dfa

import (
	"fmt"
	"io"
)

// letterLabel formats a 0-based state index the way the reference assigns
// DFA node ids — successive letters 'A', 'B', ... — extended past 'Z' into
// a stable bijective base-26 scheme ('AA', 'AB', ...). The reference's
// single-char id silently wraps past 26 states; see DESIGN.md Open
// Questions for why this implementation extends it instead.
func letterLabel(n int) string {
	n++ // shift to 1-based for bijective base-26
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// WriteDOT renders graph as a single `digraph` block: each transition as
// `source -> target [ label = "'<chars>'" ]`, non-printable label
// characters escaped as `^X` where X = c + '@', and `'`, `"`, `\`
// backslash-escaped. It works unchanged on either the raw
// subset-construction graph or the minimized one.
func WriteDOT(w io.Writer, graph *Graph) error {
	if _, err := fmt.Fprintln(w, "digraph test {"); err != nil {
		return err
	}
	for _, s := range graph.States {
		for _, tr := range s.Transitions {
			if err := writeTransition(w, s, graph.States[tr.Target], tr); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func writeTransition(w io.Writer, from, to *State, tr Transition) error {
	if _, err := fmt.Fprintf(w, "%s -> %s [ label = \"'", from.ID, to.ID); err != nil {
		return err
	}
	var writeErr error
	tr.Label.Each(func(c int) {
		if writeErr != nil {
			return
		}
		ch := byte(c)
		if ch == '\'' || ch == '"' || ch == '\\' {
			if _, err := fmt.Fprint(w, "\\"); err != nil {
				writeErr = err
				return
			}
		}
		if ch < ' ' {
			_, writeErr = fmt.Fprintf(w, "^%c", ch+'@')
		} else {
			_, writeErr = fmt.Fprintf(w, "%c", ch)
		}
	})
	if writeErr != nil {
		return writeErr
	}
	_, err := fmt.Fprint(w, "'\" ]\n")
	return err
}
