// Package conv provides safe integer conversion helpers for the automaton
// compiler.
//
// These functions perform bounds checking before narrowing integer
// conversions to prevent silent overflow. They panic on overflow since this
// indicates a programming error (e.g. an arena growing past the state-ID
// width this implementation chose), not a user-facing compilation error.
package conv

import "math"

// IntToInt32 safely converts an int to int32. Panics if n is outside
// int32's range, which for this compiler's arena means the node count has
// grown past what a NodeID can index — a programming error (the caller
// should have enforced Config.MaxStates well below 2^31), not a
// user-facing compilation failure.
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}
