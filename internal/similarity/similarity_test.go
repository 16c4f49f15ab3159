package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Identical(t *testing.T) {
	assert.Equal(t, 1.0, Score("Dune", "Dune"))
}

func TestScore_NormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, 1.0, Score("  DUNE ", "dune"))
	assert.Equal(t, 1.0, Score("Jade Palace", "jade palace"))
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"dune", "dune messiah"},
		{"jade palace", "jade"},
		{"jade", "try jade palace"},
		{"kitchenaid mixer", "kitchen aid mixer"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "Score(%q,%q)", p[0], p[1])
	}
}

func TestScore_EmptyVsNonEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Score("", "dune"))
	assert.Equal(t, 0.0, Score("dune", ""))
	assert.Equal(t, 0.0, Score("   ", "dune"))
}

func TestScore_BothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, Score("", ""))
	assert.Equal(t, 1.0, Score("  ", ""))
}

func TestScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"dune", "the way of kings"},
		{"a", "b"},
		{"espresso machine", "espresso maker"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScore_EditDistanceRatio(t *testing.T) {
	// One substitution over four runes.
	assert.InDelta(t, 0.75, Score("dune", "dane"), 1e-9)
}

func TestScore_ContainmentBeatsEditDistance(t *testing.T) {
	// Edit distance alone rates "jade" against "Try Jade Palace" at
	// 1 - 11/15, far too low for a word the user clearly lifted from the
	// title. Containment lifts it to 0.6 + 0.4*4/15.
	assert.InDelta(t, 0.6+0.4*4.0/15.0, Score("jade", "Try Jade Palace"), 1e-9)

	// The closer the lengths, the higher the containment score.
	assert.Greater(t, Score("jade palace", "try jade palace"), Score("jade", "try jade palace"))

	// "jades" contains "jade", so containment (0.6 + 0.4*4/5) wins over the
	// edit-distance ratio of 0.8.
	assert.InDelta(t, 0.92, Score("jades", "jade"), 1e-9)

	// A near-anagram with no substring relation keeps its edit-distance score.
	assert.Less(t, Score("dune", "nude"), 0.6)
}

func TestBestMatch_PicksHighest(t *testing.T) {
	candidates := []string{"The Way of Kings", "Dune Messiah", "Dune"}

	match, ok := BestMatch("dune", candidates, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "Dune", match)
}

func TestBestMatch_NoneAboveThreshold(t *testing.T) {
	candidates := []string{"espresso machine", "standing desk"}

	match, ok := BestMatch("dune", candidates, 0.6)
	assert.False(t, ok)
	assert.Empty(t, match)
}

func TestBestMatch_TieKeepsFirst(t *testing.T) {
	// Both candidates normalize to the same string, so both score 1.0.
	candidates := []string{"Dune ", "dune"}

	match, ok := BestMatch("dune", candidates, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "Dune ", match)
}

func TestBestMatch_EmptyCandidates(t *testing.T) {
	match, ok := BestMatch("dune", nil, 0.6)
	assert.False(t, ok)
	assert.Empty(t, match)
}

func TestBestMatch_PartialIdentifier(t *testing.T) {
	candidates := []string{"Jade Palace", "Ramen Bar", "Thai Garden"}

	// "jade" alone is short of "jade palace" but still the closest candidate.
	match, ok := BestMatch("jade palace", candidates, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "Jade Palace", match)
}

func TestBestMatch_SingleWordOfLongerTitle(t *testing.T) {
	match, ok := BestMatch("jade", []string{"Try Jade Palace"}, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "Try Jade Palace", match)
}

func TestAllAboveThreshold_PreservesOrder(t *testing.T) {
	candidates := []string{"Dune Messiah", "Dune", "standing desk", "Children of Dune"}

	matches := AllAboveThreshold("dune", candidates, 0.3)
	assert.Equal(t, []string{"Dune Messiah", "Dune", "Children of Dune"}, matches)
}

func TestAllAboveThreshold_NoMatches(t *testing.T) {
	candidates := []string{"espresso machine", "standing desk"}

	matches := AllAboveThreshold("dune", candidates, 0.8)
	assert.Empty(t, matches)
}

func TestAllAboveThreshold_ExactDuplicate(t *testing.T) {
	candidates := []string{"Dune", "The Way of Kings"}

	matches := AllAboveThreshold("Dune", candidates, 0.8)
	assert.Equal(t, []string{"Dune"}, matches)
}
