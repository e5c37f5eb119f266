package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("IdenticalStrings", func(t *testing.T) {
		assert.Equal(t, 0, Distance("smith", "smith"))
		assert.Equal(t, 0, Distance("", ""))
	})

	t.Run("EmptyAgainstNonEmpty", func(t *testing.T) {
		assert.Equal(t, 5, Distance("", "smith"))
		assert.Equal(t, 5, Distance("smith", ""))
	})

	t.Run("SingleEdits", func(t *testing.T) {
		assert.Equal(t, 1, Distance("smith", "smyth"))  // substitution
		assert.Equal(t, 1, Distance("smith", "smiths")) // insertion
		assert.Equal(t, 1, Distance("smith", "smit"))   // deletion
	})

	t.Run("ClassicExamples", func(t *testing.T) {
		assert.Equal(t, 3, Distance("kitten", "sitting"))
		assert.Equal(t, 2, Distance("flaw", "lawn"))
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.Equal(t, Distance("jonathan", "john"), Distance("john", "jonathan"))
	})
}

func TestRatio(t *testing.T) {
	t.Run("BothEmpty", func(t *testing.T) {
		assert.Equal(t, 1.0, Ratio("", ""))
	})

	t.Run("OneEmpty", func(t *testing.T) {
		assert.Equal(t, 0.0, Ratio("smith", ""))
		assert.Equal(t, 0.0, Ratio("", "smith"))
	})

	t.Run("Identical", func(t *testing.T) {
		assert.Equal(t, 1.0, Ratio("john smith", "john smith"))
	})

	t.Run("NormalizedByLongerLength", func(t *testing.T) {
		// distance 1 over max length 5
		assert.InDelta(t, 0.8, Ratio("smith", "smyth"), 1e-9)
		// distance 7 over max length 7
		assert.InDelta(t, 0.0, Ratio("abcdefg", "tuvwxyz"), 1e-9)
	})

	t.Run("Bounded", func(t *testing.T) {
		cases := [][2]string{
			{"john", "jon"},
			{"catherine", "kathryn"},
			{"a", "zzzzzzzzzz"},
			{"", "x"},
		}
		for _, c := range cases {
			r := Ratio(c[0], c[1])
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		// Callers normalize first; the primitive itself compares bytes.
		assert.Less(t, Ratio("Smith", "smith"), 1.0)
	})
}
