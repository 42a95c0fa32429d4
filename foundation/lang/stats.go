// File: stats.go
// Title: Token Statistics
// Description: Per-kind token counts used by reports and run history.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15

package lang

import (
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// KindCount is the number of tokens of one kind
type KindCount struct {
	Kind  mllexer.Kind `json:"kind" yaml:"kind"`
	Count int          `json:"count" yaml:"count"`
}

// CountKinds returns counts for the kinds present in tokens, in kind order
func CountKinds(tokens []mllexer.Token) []KindCount {
	counts := make(map[mllexer.Kind]int)
	for _, tok := range tokens {
		counts[tok.Kind]++
	}

	result := make([]KindCount, 0, len(counts))
	for _, kind := range mllexer.Kinds() {
		if n := counts[kind]; n > 0 {
			result = append(result, KindCount{Kind: kind, Count: n})
		}
	}
	return result
}
