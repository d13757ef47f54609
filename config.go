package rexc

// Config controls resource limits and diagnostic labeling applied during
// Compile. The zero Config is the same as DefaultConfig (no state limit,
// no rule names); override individual fields as needed.
type Config struct {
	// MaxStates caps the number of NFA nodes a single Compile call may
	// allocate, guarding against pathological or runaway patterns the
	// same way the teacher's determinization limits guard the lazy DFA.
	// Zero means unlimited.
	MaxStates int

	// RuleNames labels each pattern passed to Compile for diagnostics
	// (CompileError.Rule is always the numeric index; RuleNames, when
	// non-nil, lets a caller recover a human name for that index). It has
	// no effect on automaton semantics and may be left nil.
	RuleNames []string
}

// DefaultConfig returns the Config Compile uses when none is supplied:
// no state limit, no rule names.
func DefaultConfig() Config {
	return Config{
		MaxStates: 0,
		RuleNames: nil,
	}
}

// ruleName returns the diagnostic name for rule index i, falling back to
// nothing (an empty string) when RuleNames is absent or short.
func (c Config) ruleName(i int) string {
	if i < 0 || i >= len(c.RuleNames) {
		return ""
	}
	return c.RuleNames[i]
}
