package charts

import (
	"strings"
	"testing"
)

func TestWordFrequencies_CountsAndOrders(t *testing.T) {
	texts := []string{
		"great battery, great screen",
		"battery died fast",
	}
	freqs := WordFrequencies(texts, 0)
	if len(freqs) == 0 {
		t.Fatalf("expected tokens")
	}
	if freqs[0].Word != "battery" && freqs[0].Word != "great" {
		t.Fatalf("expected a count-2 token first, got %q", freqs[0].Word)
	}
	// Both appear twice; the tie is alphabetical.
	if freqs[0].Word != "battery" || freqs[0].Count != 2 {
		t.Fatalf("expected battery(2) first, got %v", freqs[0])
	}
	if freqs[1].Word != "great" || freqs[1].Count != 2 {
		t.Fatalf("expected great(2) second, got %v", freqs[1])
	}
}

func TestWordFrequencies_DropsStopwordsAndShortTokens(t *testing.T) {
	freqs := WordFrequencies([]string{"it is an ok tv and the tv"}, 0)
	for _, f := range freqs {
		if f.Word == "the" || f.Word == "and" || f.Word == "it" {
			t.Fatalf("stopword %q survived", f.Word)
		}
		if len(f.Word) < 3 {
			t.Fatalf("short token %q survived", f.Word)
		}
	}
}

// The cap truncates the concatenation, not each review.
func TestWordFrequencies_CapAppliesToConcatenation(t *testing.T) {
	first := strings.Repeat("alpha ", 500) // 3000 chars
	second := "zzzunique"
	freqs := WordFrequencies([]string{first, second}, 2000)

	var alphaCount int
	for _, f := range freqs {
		if f.Word == "zzzunique" {
			t.Fatalf("token beyond the 2000-char cap must be dropped")
		}
		if f.Word == "alpha" {
			alphaCount = f.Count
		}
	}
	// 2000 chars of "alpha " holds 333 full tokens; the 334th is cut to
	// "al" and dropped as too short.
	if alphaCount != 333 {
		t.Fatalf("unexpected alpha count under cap: %d", alphaCount)
	}
}

func TestWordFrequencies_ZeroCapMeansUncapped(t *testing.T) {
	long := strings.Repeat("word ", 1000)
	freqs := WordFrequencies([]string{long}, 0)
	if len(freqs) != 1 || freqs[0].Count != 1000 {
		t.Fatalf("expected word(1000), got %v", freqs)
	}
}
