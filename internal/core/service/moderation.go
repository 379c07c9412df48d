package service

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule inspects submitted text and returns a warning when it matches.
// Rules are advisory: they annotate a submission, they never reject it.
type Rule func(text string) (string, bool)

// Moderator runs a pluggable list of content rules over bulletin text.
type Moderator struct {
	rules []Rule
}

func NewModerator(rules ...Rule) *Moderator {
	return &Moderator{rules: rules}
}

// Review returns every warning the rule list produces for the given text.
func (m *Moderator) Review(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var warnings []string
	for _, rule := range m.rules {
		if msg, ok := rule(text); ok {
			warnings = append(warnings, msg)
		}
	}
	return warnings
}

var scamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\d+.*per.*hour.*work.*home`),
	regexp.MustCompile(`(?i)click.*here.*now.*money`),
	regexp.MustCompile(`(?i)urgent.*respond.*immediately`),
	regexp.MustCompile(`(?i)guaranteed.*income`),
	regexp.MustCompile(`(?i)no.*experience.*required.*\$\d+`),
}

// DefaultRules reproduces the board's historical moderation heuristics.
func DefaultRules() []Rule {
	return []Rule{
		KeywordRule("spam", "scam", "fake", "fraud", "illegal", "drugs", "weapons"),
		PatternRule(scamPatterns...),
		CapsRule(0.5, 20),
		ExclamationRule(5),
	}
}

// KeywordRule flags text containing any of the given words.
func KeywordRule(words ...string) Rule {
	return func(text string) (string, bool) {
		lower := strings.ToLower(text)
		for _, w := range words {
			if strings.Contains(lower, strings.ToLower(w)) {
				return fmt.Sprintf("contains potentially inappropriate word: %q", w), true
			}
		}
		return "", false
	}
}

// PatternRule flags text matching any of the given patterns. One warning is
// produced no matter how many patterns match.
func PatternRule(patterns ...*regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		for _, p := range patterns {
			if p.MatchString(text) {
				return "content matches suspicious pattern (possible scam)", true
			}
		}
		return "", false
	}
}

// CapsRule flags text whose uppercase ratio exceeds threshold, ignoring
// short strings below minLen.
func CapsRule(threshold float64, minLen int) Rule {
	return func(text string) (string, bool) {
		if len(text) <= minLen {
			return "", false
		}
		caps := 0
		for _, r := range text {
			if r >= 'A' && r <= 'Z' {
				caps++
			}
		}
		if float64(caps)/float64(len(text)) > threshold {
			return "excessive use of capital letters", true
		}
		return "", false
	}
}

// ExclamationRule flags text with more than limit exclamation marks.
func ExclamationRule(limit int) Rule {
	return func(text string) (string, bool) {
		if strings.Count(text, "!") > limit {
			return "excessive use of exclamation marks", true
		}
		return "", false
	}
}
