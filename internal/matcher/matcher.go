// Package matcher decides whether a spoken word counts as a correct reading
// of an expected word. Speech recognition output is noisy in predictable ways
// (dropped -g endings, collapsed -ed suffixes, th/f confusion), so a small
// fixed set of substitutions is tried in addition to exact equality.
package matcher

import "strings"

// substitutions are the recognition slips tolerated by Match. Each rule is
// applied on its own; rules are never chained.
var substitutions = [][2]string{
	{"ing", "in"},
	{"ed", "d"},
	{"th", "f"},
}

// Match reports whether spoken is an acceptable reading of expected.
// Both inputs must already be lowercased by the caller.
//
// A pair matches when the words are equal, or when applying exactly one
// substitution rule to either word makes them equal. Only one rule may fire
// per comparison; "thinking" never matches "finkin".
func Match(spoken, expected string) bool {
	if spoken == expected {
		return true
	}

	for _, sub := range substitutions {
		if strings.ReplaceAll(spoken, sub[0], sub[1]) == expected {
			return true
		}
		if strings.ReplaceAll(expected, sub[0], sub[1]) == spoken {
			return true
		}
	}

	return false
}
