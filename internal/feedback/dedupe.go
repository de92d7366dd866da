// Package feedback merges near-duplicate visitor feedback entries using
// token-overlap similarity, keeping the most informative phrasing.
package feedback

import (
	"strings"
	"unicode"

	"github.com/heona1231/2025HciProject/internal/types"
)

const (
	// jaccardThreshold is the Jaccard token-set similarity above which two
	// entries are merged. Chosen empirically; tune with care.
	jaccardThreshold = 0.65
	// overlapThreshold is the token-overlap ratio (intersection over the
	// smaller token count) above which two entries are merged.
	overlapThreshold = 0.75
)

// Dedupe collapses near-duplicate feedback entries. Two entries are judged
// duplicates when their normalized descriptions have Jaccard similarity at or
// above jaccardThreshold, token overlap at or above overlapThreshold, or one
// normalized text contains the other. The longer description survives.
func Dedupe(entries []types.FeedbackItem) []types.FeedbackItem {
	accepted := make([]types.FeedbackItem, 0, len(entries))

	for _, entry := range entries {
		candidate := normalize(entry.Title + " " + entry.Description)
		if candidate == "" {
			continue
		}

		merged := false

		for i, kept := range accepted {
			existing := normalize(kept.Title + " " + kept.Description)

			if !isDuplicate(candidate, existing) {
				continue
			}

			if len(entry.Description) > len(kept.Description) {
				accepted[i] = entry
			}

			merged = true

			break
		}

		if !merged {
			accepted = append(accepted, entry)
		}
	}

	return accepted
}

// DedupeAll applies Dedupe to every feedback list in a past-event result.
func DedupeAll(p *types.PastEventFeedback) {
	if p == nil {
		return
	}

	p.Feedback.Goods = Dedupe(p.Feedback.Goods)
	p.Feedback.Contents.Positive = Dedupe(p.Feedback.Contents.Positive)
	p.Feedback.Contents.Negative = Dedupe(p.Feedback.Contents.Negative)
}

// isDuplicate reports whether two normalized texts describe the same thing.
func isDuplicate(a, b string) bool {
	if a == b {
		return true
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	aTokens := tokens(a)
	bTokens := tokens(b)

	if len(aTokens) == 0 || len(bTokens) == 0 {
		return false
	}

	intersection := 0

	for _, token := range aTokens {
		for _, other := range bTokens {
			if tokensMatch(token, other) {
				intersection++
				break
			}
		}
	}

	union := len(aTokens) + len(bTokens) - intersection

	if float64(intersection)/float64(union) >= jaccardThreshold {
		return true
	}

	smaller := len(aTokens)
	if len(bTokens) < smaller {
		smaller = len(bTokens)
	}

	return float64(intersection)/float64(smaller) >= overlapThreshold
}

// normalize lowercases text, strips punctuation and symbols, and collapses
// whitespace so that superficial phrasing differences do not defeat matching.
func normalize(s string) string {
	var b strings.Builder

	lastSpace := true

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// tokens splits a normalized string into its unique whitespace-separated tokens.
func tokens(s string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)

	for _, token := range strings.Fields(s) {
		if _, ok := seen[token]; ok {
			continue
		}

		seen[token] = struct{}{}
		out = append(out, token)
	}

	return out
}

// minPrefixRunes is the minimum token length for prefix-tolerant matching.
const minPrefixRunes = 2

// tokensMatch reports whether two tokens name the same word. Korean particles
// attach to the noun they follow, so "입장" and "입장이" are the same word
// with different case markers; prefix tolerance absorbs that.
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}

	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}

	if len([]rune(shorter)) < minPrefixRunes {
		return false
	}

	return strings.HasPrefix(longer, shorter)
}
