package rexc

import "fmt"

// CompileError wraps whichever pipeline stage failed: the lexer,
// nfa.Parse, or a resource limit enforced during construction. It
// identifies the rule (by index into the Compile call's pattern slice)
// and wraps the underlying sentinel error so callers can errors.Is/As
// against the stage-specific errors exported by the lexer and nfa
// packages.
type CompileError struct {
	Stage  string // "lex" or "parse"
	Rule   int
	Offset int
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rexc: %s error in rule %d at offset %d: %v", e.Stage, e.Rule, e.Offset, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
