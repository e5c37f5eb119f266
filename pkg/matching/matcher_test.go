package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

func TestMatcher_Compare(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	t.Run("NameOnlyExactMatchIsHighConfidence", func(t *testing.T) {
		a := &models.Contact{GivenName: "John", FamilyName: "Smith"}
		b := &models.Contact{GivenName: "john", FamilyName: "smith"}

		match := m.Compare(a, b)

		// Only the name comparator contributes, so the weighted average
		// normalizes to its score alone.
		assert.Equal(t, 1.0, match.Similarity)
		assert.Equal(t, models.ConfidenceHigh, match.Confidence)
		assert.Equal(t, []string{ReasonExactName}, match.Reasons)
	})

	t.Run("PhoneOnlyMatch", func(t *testing.T) {
		a := &models.Contact{Phone: "+1 (415) 555-0100"}
		b := &models.Contact{Phone: "415-555-0100"}

		match := m.Compare(a, b)

		assert.Equal(t, 1.0, match.Similarity)
		assert.Equal(t, models.ConfidenceHigh, match.Confidence)
	})

	t.Run("MissingFieldsAreNotPenalized", func(t *testing.T) {
		// Same name, one side has no phone or email. The absent fields
		// must not drag the score down.
		a := &models.Contact{GivenName: "John", FamilyName: "Smith", Phone: "415-555-0100", Email: "john@acme.com"}
		b := &models.Contact{GivenName: "John", FamilyName: "Smith"}

		match := m.Compare(a, b)
		assert.Equal(t, 1.0, match.Similarity)
	})

	t.Run("DisagreeingFieldsArePenalized", func(t *testing.T) {
		// Same name but different phone numbers: unlike a missing phone,
		// a disagreeing phone contributes 0 to the numerator... except a
		// zero-scoring comparator is excluded entirely. Verify the
		// distinction: name + different phone equals name alone.
		sameName := &models.Contact{GivenName: "John", FamilyName: "Smith"}
		differentPhone := &models.Contact{GivenName: "John", FamilyName: "Smith", Phone: "415-666-0199"}
		otherPhone := &models.Contact{GivenName: "John", FamilyName: "Smith", Phone: "415-555-0100"}

		assert.Equal(t, m.Compare(sameName, differentPhone).Similarity, m.Compare(otherPhone, differentPhone).Similarity)
	})

	t.Run("WeightedCombination", func(t *testing.T) {
		// Exact name (1.0 x 0.40) and exact phone (1.0 x 0.35), email
		// absent: (0.40 + 0.35) / 0.75 = 1.0.
		a := &models.Contact{GivenName: "John", FamilyName: "Smith", Phone: "415-555-0100"}
		b := &models.Contact{GivenName: "John", FamilyName: "Smith", Phone: "+1 415 555 0100"}

		match := m.Compare(a, b)
		assert.InDelta(t, 1.0, match.Similarity, 1e-9)
	})

	t.Run("PartialNameWithExactEmail", func(t *testing.T) {
		// Name 0.7 x 0.40 + email 1.0 x 0.25 over 0.65 total weight.
		a := &models.Contact{GivenName: "John", FamilyName: "Smith", Email: "jsmith@acme.com"}
		b := &models.Contact{GivenName: "John", FamilyName: "Abernathy", Email: "jsmith@acme.com"}

		match := m.Compare(a, b)
		expected := (0.7*0.40 + 1.0*0.25) / 0.65
		assert.InDelta(t, expected, match.Similarity, 1e-9)
		assert.Equal(t, models.ConfidenceMedium, match.Confidence)
	})

	t.Run("NoContributingComparators", func(t *testing.T) {
		a := &models.Contact{GivenName: "John"}
		b := &models.Contact{FamilyName: "Smith"}

		match := m.Compare(a, b)
		assert.Equal(t, 0.0, match.Similarity)
		assert.Equal(t, models.ConfidenceLow, match.Confidence)
		assert.Empty(t, match.Reasons)
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := &models.Contact{GivenName: "Jon", FamilyName: "Smith", Email: "jon.smith@acme.com", Phone: "555-0100"}
		b := &models.Contact{GivenName: "John", FamilyName: "Smith", Email: "john.smith@acme.com", Phone: "+1 415 555 0100"}

		ab := m.Compare(a, b)
		ba := m.Compare(b, a)
		assert.Equal(t, ab.Similarity, ba.Similarity)
		assert.Equal(t, ab.Confidence, ba.Confidence)
	})

	t.Run("SymmetricWhenOnlyOneReversedDirectionClearsThreshold", func(t *testing.T) {
		// The reversed-name ratio is direction-sensitive on its own; this
		// pair clears the fuzzy threshold in one direction only.
		a := &models.Contact{GivenName: "axxxxxxxxxx", FamilyName: "aa"}
		b := &models.Contact{GivenName: "a", FamilyName: "aaaxxxxxxxxxx"}

		ab := m.Compare(a, b)
		ba := m.Compare(b, a)
		assert.Equal(t, ab.Similarity, ba.Similarity)
		assert.Equal(t, ab.Confidence, ba.Confidence)
	})

	t.Run("IdentityScoresFull", func(t *testing.T) {
		a := &models.Contact{GivenName: "John", FamilyName: "Smith", Email: "john@acme.com", Phone: "415-555-0100"}
		match := m.Compare(a, a)
		assert.Equal(t, 1.0, match.Similarity)
		assert.Equal(t, models.ConfidenceHigh, match.Confidence)
	})
}

func TestMatcher_ConfidenceTiers(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	t.Run("Boundaries", func(t *testing.T) {
		assert.Equal(t, models.ConfidenceHigh, m.confidence(0.85))
		assert.Equal(t, models.ConfidenceMedium, m.confidence(0.84))
		assert.Equal(t, models.ConfidenceMedium, m.confidence(0.70))
		assert.Equal(t, models.ConfidenceLow, m.confidence(0.69))
		assert.Equal(t, models.ConfidenceLow, m.confidence(0.0))
	})

	t.Run("CustomThresholds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HighConfidence = 0.95
		cfg.MediumConfidence = 0.5
		custom := NewMatcher(cfg)

		assert.Equal(t, models.ConfidenceMedium, custom.confidence(0.9))
		assert.Equal(t, models.ConfidenceMedium, custom.confidence(0.5))
		assert.Equal(t, models.ConfidenceLow, custom.confidence(0.49))
	})
}
