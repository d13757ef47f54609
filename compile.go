// Package rexc compiles a set of ASCII regular expressions into a
// minimized, densely-tabled DFA: lexer → nfa.Parse (Thompson construction)
// → dfa.Build (subset construction) → dfa.Minimize (partition refinement)
// → dfa.Materialize (dense table).
package rexc

import (
	"errors"
	"fmt"

	"github.com/onContentStop/compiler-shenanigans/dfa"
	"github.com/onContentStop/compiler-shenanigans/lexer"
	"github.com/onContentStop/compiler-shenanigans/nfa"
)

// Result is the output of a successful Compile: the minimized DFA graph
// and its dense transition table, kept together since callers
// frequently need both (the graph for WriteDOT, the table to drive a
// scanner).
type Result struct {
	Graph *dfa.Graph
	Table *dfa.Table
}

// Compile compiles patterns (one regular expression source per rule, in
// priority order) into a Result using DefaultConfig.
//
// Example:
//
//	res, err := rexc.Compile("[a-z]+", "[0-9]+")
func Compile(patterns ...string) (*Result, error) {
	return CompileWithConfig(DefaultConfig(), patterns...)
}

// MustCompile compiles patterns and panics if compilation fails. Useful
// for patterns known to be valid at compile time.
func MustCompile(patterns ...string) *Result {
	res, err := Compile(patterns...)
	if err != nil {
		panic("rexc: Compile: " + err.Error())
	}
	return res
}

// CompileRules compiles rules given as a slice rather than variadic
// arguments, and under an explicit Config — the shape a caller building
// its rule list programmatically (e.g. from a lexer-generator input
// file) needs instead of Compile's spread form.
func CompileRules(config Config, rules []string) (*Result, error) {
	return CompileWithConfig(config, rules...)
}

// CompileWithConfig compiles patterns under an explicit Config, running
// the full pipeline: Thompson construction, subset construction,
// minimization, and table materialization.
func CompileWithConfig(config Config, patterns ...string) (*Result, error) {
	n, err := nfa.Parse(patterns, config.MaxStates)
	if err != nil {
		return nil, wrapStageError(config, err)
	}

	raw := dfa.Build(n)
	min := dfa.Minimize(raw)
	table := dfa.Materialize(min)

	return &Result{Graph: min, Table: table}, nil
}

// wrapStageError classifies a *nfa.ParseError as having failed during
// lexing or parsing proper, and folds in the rule's diagnostic name from
// config when one was supplied.
func wrapStageError(config Config, err error) error {
	var pe *nfa.ParseError
	if !errors.As(err, &pe) {
		return &CompileError{Stage: "parse", Rule: 0, Err: err}
	}

	stage := "parse"
	var le *lexer.Error
	if errors.As(pe.Err, &le) {
		stage = "lex"
	}

	ce := &CompileError{Stage: stage, Rule: pe.Rule, Offset: pe.Offset, Err: pe}
	if name := config.ruleName(pe.Rule); name != "" {
		ce.Err = fmt.Errorf("%s: %w", name, pe)
	}
	return ce
}
