package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		spoken   string
		expected string
		want     bool
	}{
		{
			name:     "exact match",
			spoken:   "hello",
			expected: "hello",
			want:     true,
		},
		{
			name:     "dropped g ending",
			spoken:   "runnin",
			expected: "running",
			want:     true,
		},
		{
			name:     "collapsed ed suffix",
			spoken:   "walkd",
			expected: "walked",
			want:     true,
		},
		{
			name:     "th read as f",
			spoken:   "free",
			expected: "three",
			want:     true,
		},
		{
			name:     "reverse direction also tolerated",
			spoken:   "running",
			expected: "runnin",
			want:     true,
		},
		{
			name:     "unrelated words",
			spoken:   "hello",
			expected: "world",
			want:     false,
		},
		{
			name:     "rules do not compose",
			spoken:   "finkin",
			expected: "thinking",
			want:     false, // would need both th->f and ing->in
		},
		{
			name:     "single rule fires on every occurrence",
			spoken:   "sinin",
			expected: "singing",
			want:     true, // ing->in rewrites both occurrences at once
		},
		{
			name:     "empty strings match",
			spoken:   "",
			expected: "",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.spoken, tt.expected))
		})
	}
}

func TestMatchIsReflexive(t *testing.T) {
	for _, w := range []string{"a", "reading", "thirty-three", "don't"} {
		assert.True(t, Match(w, w), "word %q should match itself", w)
	}
}
