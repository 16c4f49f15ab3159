// Package similarity scores how close two short text labels are.
//
// It backs the duplicate guard on item creation and the fuzzy resolution of
// user-typed identifiers to stored item titles. Scores are in [0, 1] where 1
// means the strings are identical after normalization. Thresholds are not
// defined here; callers pass the tunables they were configured with.
package similarity

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Score returns the similarity between a and b in [0, 1].
//
// Both inputs are normalized (lowercased, surrounding whitespace trimmed)
// before comparison. Equal strings after normalization score 1.0. Otherwise
// the score is the higher of the edit-distance ratio 1 - editDistance/maxLen
// and, when either normalized string contains the other, a containment score
// in (0.6, 1.0) that grows with the fraction of the longer string covered.
// An empty string compared against a non-empty one scores 0. Score is
// symmetric.
func Score(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	score := editScore(a, b)
	if c := containmentScore(a, b); c > score {
		score = c
	}
	return score
}

func editScore(a, b string) float64 {
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := max(len([]rune(a)), len([]rune(b)))

	return 1.0 - float64(dist)/float64(maxLen)
}

// containmentScore covers partial identifiers such as "jade" against
// "try jade palace", which edit distance alone scores near zero. A pair where
// one normalized string contains the other scores 0.6 plus up to 0.4 for the
// share of the longer string the shorter one covers. Non-containment pairs
// score 0 here and fall back to the edit-distance ratio.
func containmentScore(a, b string) float64 {
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return 0.0
	}

	shorter := len([]rune(a))
	longer := len([]rune(b))
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	return 0.6 + 0.4*float64(shorter)/float64(longer)
}

// BestMatch returns the candidate with the highest score against query that
// meets threshold. Ties keep the earlier candidate; a later candidate must
// score strictly higher to replace the running best. The second return is
// false when no candidate reaches the threshold.
func BestMatch(query string, candidates []string, threshold float64) (string, bool) {
	best := ""
	bestScore := -1.0
	found := false

	for _, c := range candidates {
		s := Score(query, c)
		if s >= threshold && s > bestScore {
			best = c
			bestScore = s
			found = true
		}
	}

	return best, found
}

// AllAboveThreshold returns every candidate whose score against query is at
// least threshold, in the candidates' original order.
func AllAboveThreshold(query string, candidates []string, threshold float64) []string {
	var matches []string
	for _, c := range candidates {
		if Score(query, c) >= threshold {
			matches = append(matches, c)
		}
	}
	return matches
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
