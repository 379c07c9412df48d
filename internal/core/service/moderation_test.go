package service

import (
	"strings"
	"testing"
)

func TestReview_CleanTextHasNoWarnings(t *testing.T) {
	m := NewModerator(DefaultRules()...)
	if w := m.Review("Summer ESOL registration opens next week at the family center."); len(w) != 0 {
		t.Fatalf("unexpected warnings: %v", w)
	}
}

func TestReview_EmptyTextShortCircuits(t *testing.T) {
	m := NewModerator(DefaultRules()...)
	if w := m.Review("   \n  "); w != nil {
		t.Fatalf("blank text should produce nil, got %v", w)
	}
}

func TestKeywordRule(t *testing.T) {
	rule := KeywordRule("scam", "fraud")
	if _, ok := rule("This is definitely not a SCAM"); !ok {
		t.Fatalf("keyword match should be case-insensitive")
	}
	if _, ok := rule("Legitimate job posting"); ok {
		t.Fatalf("clean text flagged")
	}
}

func TestPatternRule_ScamShapes(t *testing.T) {
	m := NewModerator(PatternRule(scamPatterns...))

	flagged := []string{
		"Earn $500 per day per hour work from home",
		"Click here now to claim your money",
		"URGENT: respond immediately to claim",
		"Guaranteed income for everyone",
		"No experience required, start at $90 today",
	}
	for _, text := range flagged {
		if w := m.Review(text); len(w) != 1 {
			t.Fatalf("%q: expected exactly one pattern warning, got %v", text, w)
		}
	}

	if w := m.Review("Part-time cashier, $17/hr, apply in person"); len(w) != 0 {
		t.Fatalf("legitimate posting flagged: %v", w)
	}
}

func TestCapsRule(t *testing.T) {
	rule := CapsRule(0.5, 20)

	if _, ok := rule("OK!"); ok {
		t.Fatalf("short text must be ignored")
	}
	if _, ok := rule("THIS ENTIRE SENTENCE IS SHOUTING AT EVERYONE"); !ok {
		t.Fatalf("shouting not flagged")
	}
	if _, ok := rule("A perfectly normal sentence with mixed case."); ok {
		t.Fatalf("normal text flagged")
	}
}

func TestExclamationRule(t *testing.T) {
	rule := ExclamationRule(5)
	if _, ok := rule("Wow!!!!!!"); !ok {
		t.Fatalf("six exclamation marks should be flagged")
	}
	if _, ok := rule("Great news!!!!!"); ok {
		t.Fatalf("five exclamation marks are within the limit")
	}
}

func TestReview_CollectsEveryMatchingRule(t *testing.T) {
	m := NewModerator(DefaultRules()...)
	text := "GUARANTEED INCOME!!!!!! THIS IS NOT A SCAM AT ALL EVERYONE"
	w := m.Review(text)
	if len(w) < 3 {
		t.Fatalf("expected keyword, pattern, caps and exclamation warnings, got %v", w)
	}
	joined := strings.Join(w, "; ")
	if !strings.Contains(joined, "capital letters") {
		t.Fatalf("caps warning missing from %v", w)
	}
}
