package patch

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{name: "identical", s1: "hello", s2: "hello", want: 0},
		{name: "both empty", s1: "", s2: "", want: 0},
		{name: "one empty", s1: "abc", s2: "", want: 3},
		{name: "single substitution", s1: "cat", s2: "cut", want: 1},
		{name: "insertion", s1: "cat", s2: "cats", want: 1},
		{name: "deletion", s1: "cats", s2: "cat", want: 1},
		{name: "kitten sitting", s1: "kitten", s2: "sitting", want: 3},
		{name: "completely different", s1: "abc", s2: "xyz", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name    string
		s1      string
		s2      string
		wantMin float64
		wantMax float64
	}{
		{name: "identical", s1: "hello world", s2: "hello world", wantMin: 1.0, wantMax: 1.0},
		{name: "both empty", s1: "", s2: "", wantMin: 1.0, wantMax: 1.0},
		{name: "one empty", s1: "hello", s2: "", wantMin: 0.0, wantMax: 0.0},
		{name: "completely different", s1: "abc", s2: "xyz", wantMin: 0.0, wantMax: 0.01},
		{name: "one char off", s1: "return 42", s2: "return 43", wantMin: 0.85, wantMax: 0.95},
		{
			name:    "indentation difference",
			s1:      "    if err != nil {",
			s2:      "  if err != nil {",
			wantMin: 0.8,
			wantMax: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimilarityRatio(tt.s1, tt.s2)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("SimilarityRatio(%q, %q) = %v, want [%v, %v]", tt.s1, tt.s2, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}
