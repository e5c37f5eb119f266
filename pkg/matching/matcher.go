// Package matching implements the pairwise contact matcher: three weighted
// field comparators (name, phone, email) combined into a single similarity
// score with a confidence tier and human-readable reasons.
package matching

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// Matcher scores contact pairs. It holds only configuration and is safe
// for concurrent use.
type Matcher struct {
	cfg Config
}

// NewMatcher creates a matcher with the given weights and thresholds.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Compare runs all three field comparators over a contact pair and combines
// them into a PairwiseMatch.
//
// The overall similarity is the weight-normalized sum over the comparators
// that actually contributed: a comparator scoring 0 (typically a missing
// field) is excluded from the denominator so that absent data is not
// punished like disagreeing data. Reasons are concatenated in comparator
// order (name, phone, email).
func (m *Matcher) Compare(a, b *models.Contact) models.PairwiseMatch {
	name := m.CompareNames(a, b)
	phone := m.ComparePhones(a, b)
	email := m.CompareEmails(a, b)

	var weightedSum, totalWeight float64
	var reasons []string

	for _, fc := range []struct {
		comparison models.FieldComparison
		weight     float64
	}{
		{name, m.cfg.NameWeight},
		{phone, m.cfg.PhoneWeight},
		{email, m.cfg.EmailWeight},
	} {
		if !fc.comparison.Contributed() {
			continue
		}
		weightedSum += fc.comparison.Score * fc.weight
		totalWeight += fc.weight
		reasons = append(reasons, fc.comparison.Reasons...)
	}

	var sim float64
	if totalWeight > 0 {
		sim = weightedSum / totalWeight
	}

	return models.PairwiseMatch{
		ContactA:   a,
		ContactB:   b,
		Similarity: sim,
		Confidence: m.confidence(sim),
		Reasons:    reasons,
	}
}

// normalizeName runs the configured name normalizer over one name part.
func (m *Matcher) normalizeName(s string) string {
	return normalizers.Apply(s, m.cfg.NameNormalizer)
}

// fullName builds the normalized "given family" form the name comparator
// works on. Either part may be empty.
func (m *Matcher) fullName(given, family string) string {
	return m.normalizeName(strings.TrimSpace(given + " " + family))
}

func (m *Matcher) confidence(similarity float64) models.Confidence {
	switch {
	case similarity >= m.cfg.HighConfidence:
		return models.ConfidenceHigh
	case similarity >= m.cfg.MediumConfidence:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
