// Package similarity provides the normalized edit-distance primitive used
// by every fuzzy comparator in the dedupe engine.
package similarity

// Ratio returns a similarity score between 0.0 and 1.0 computed from the
// Levenshtein distance: 1 - dist/max(len(a), len(b)).
//
// Two empty strings are identical (1.0); one empty string against a
// non-empty one scores 0.0. The primitive performs no case normalization;
// callers normalize before invoking it so it stays usable for exact-byte
// comparisons.
func Ratio(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}

// Distance returns the Levenshtein edit distance between a and b using a
// two-row rolling DP. The grouper evaluates O(n²) pairs, so the primitive
// keeps allocation proportional to the shorter string.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Roll over the shorter string to keep the rows small.
	if len(b) > len(a) {
		a, b = b, a
	}

	prevRow := make([]int, len(b)+1)
	row := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}
