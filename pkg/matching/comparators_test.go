package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

func named(given, family string) *models.Contact {
	return &models.Contact{GivenName: given, FamilyName: family}
}

func TestCompareNames(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	t.Run("ExactMatchIgnoresCaseAndPunctuation", func(t *testing.T) {
		result := m.CompareNames(named("John", "Smith"), named("john", "SMITH"))
		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, []string{ReasonExactName}, result.Reasons)

		result = m.CompareNames(named("Mary-Jane", "O'Connor"), named("MaryJane", "OConnor"))
		assert.Equal(t, 1.0, result.Score)
	})

	t.Run("FuzzyWholeNameMatch", func(t *testing.T) {
		// "john smith" vs "john smyth": distance 1 over length 10
		result := m.CompareNames(named("John", "Smith"), named("John", "Smyth"))
		assert.InDelta(t, 0.9, result.Score, 1e-9)
		assert.NotEmpty(t, result.Reasons)
	})

	t.Run("FamilyOnlyMatchFloorsAtPartialScore", func(t *testing.T) {
		result := m.CompareNames(named("John", "Smith"), named("Margaret", "Smith"))
		assert.Equal(t, m.cfg.PartialNameScore, result.Score)
	})

	t.Run("GivenOnlyMatchFloorsAtPartialScore", func(t *testing.T) {
		result := m.CompareNames(named("John", "Smith"), named("John", "Abernathy"))
		assert.Equal(t, m.cfg.PartialNameScore, result.Score)
	})

	t.Run("PartialFloorNeverLowersFuzzyScore", func(t *testing.T) {
		// Whole-name ratio above the partial floor must survive the
		// partial checks.
		result := m.CompareNames(named("John", "Smith"), named("John", "Smyth"))
		assert.Greater(t, result.Score, m.cfg.PartialNameScore)
	})

	t.Run("ReversedNames", func(t *testing.T) {
		result := m.CompareNames(named("Smith", "John"), named("John", "Smith"))
		assert.Equal(t, m.cfg.ReversedNameScore, result.Score)
		assert.Contains(t, result.Reasons, ReasonReversedNames)
	})

	t.Run("ReversedCheckIsOrderIndependent", func(t *testing.T) {
		// Uneven part lengths make the edit distance to the reversed form
		// differ by direction; the score must not depend on argument order.
		a := named("axxxxxxxxxx", "aa")
		b := named("a", "aaaxxxxxxxxxx")

		ab := m.CompareNames(a, b)
		ba := m.CompareNames(b, a)
		assert.Equal(t, ab.Score, ba.Score)
		assert.Equal(t, m.cfg.ReversedNameScore, ab.Score)
		assert.Contains(t, ba.Reasons, ReasonReversedNames)
	})

	t.Run("MissingNameOnEitherSideScoresZero", func(t *testing.T) {
		result := m.CompareNames(named("", ""), named("John", "Smith"))
		assert.Equal(t, 0.0, result.Score)
		assert.Empty(t, result.Reasons)
	})

	t.Run("UnrelatedNamesScoreZero", func(t *testing.T) {
		result := m.CompareNames(named("John", "Smith"), named("Wilhelmina", "Kaczmarek"))
		assert.Equal(t, 0.0, result.Score)
		assert.False(t, result.Contributed())
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := named("John", "Smith")
		b := named("Jon", "Smith")
		assert.Equal(t, m.CompareNames(a, b).Score, m.CompareNames(b, a).Score)
	})
}

func phones(a, b string) (*models.Contact, *models.Contact) {
	return &models.Contact{Phone: a}, &models.Contact{Phone: b}
}

func TestComparePhones(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	t.Run("IdenticalAfterNormalization", func(t *testing.T) {
		a, b := phones("+1 (415) 555-0100", "415-555-0100")
		result := m.ComparePhones(a, b)
		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, []string{ReasonIdenticalPhone}, result.Reasons)
	})

	t.Run("SubstringMatch", func(t *testing.T) {
		// 7-digit local form is contained in the full normalized number.
		a, b := phones("555-0100", "+1 (415) 555-0100")
		result := m.ComparePhones(a, b)
		assert.Equal(t, m.cfg.PhoneSubstringScore, result.Score)
		assert.Equal(t, []string{ReasonPhoneFormats}, result.Reasons)
	})

	t.Run("SameLastTenAcrossCountryCodes", func(t *testing.T) {
		a, b := phones("+44 415 555 0100", "+1 415 555 0100")
		result := m.ComparePhones(a, b)
		assert.Equal(t, m.cfg.PhoneCountryScore, result.Score)
		assert.Contains(t, result.Reasons, ReasonCountryPhone)
		// The last-7 check fires too; both reasons surface.
		assert.Contains(t, result.Reasons, ReasonLocalPhone)
	})

	t.Run("DifferentNumbersScoreZero", func(t *testing.T) {
		a, b := phones("415-555-0100", "415-666-0199")
		result := m.ComparePhones(a, b)
		assert.Equal(t, 0.0, result.Score)
	})

	t.Run("MissingPhoneScoresZero", func(t *testing.T) {
		a, b := phones("", "415-555-0100")
		assert.False(t, m.ComparePhones(a, b).Contributed())
	})

	t.Run("NonNumericPhoneScoresZero", func(t *testing.T) {
		a, b := phones("n/a", "415-555-0100")
		assert.False(t, m.ComparePhones(a, b).Contributed())
	})

	t.Run("ConfiguredNormalizerKeySelectsRegistryEntry", func(t *testing.T) {
		// Without the country-code heuristics the numbers only match as a
		// substring.
		cfg := DefaultConfig()
		cfg.PhoneNormalizer = "digits_only"
		plain := NewMatcher(cfg)

		a, b := phones("+1 (415) 555-0100", "(415) 555-0100")
		assert.Equal(t, 1.0, m.ComparePhones(a, b).Score)
		result := plain.ComparePhones(a, b)
		assert.Equal(t, plain.cfg.PhoneSubstringScore, result.Score)
		assert.Equal(t, []string{ReasonPhoneFormats}, result.Reasons)
	})
}

func emails(a, b string) (*models.Contact, *models.Contact) {
	return &models.Contact{Email: a}, &models.Contact{Email: b}
}

func TestCompareEmails(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	t.Run("ExactMatchIgnoresCase", func(t *testing.T) {
		a, b := emails("John@Example.com", "john@example.com")
		result := m.CompareEmails(a, b)
		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, []string{ReasonIdenticalEmail}, result.Reasons)
	})

	t.Run("NearMatchOnSharedDomainDiscounted", func(t *testing.T) {
		a, b := emails("jane.doe@acme.com", "janedoe@acme.com")
		result := m.CompareEmails(a, b)
		// local ratio 7/8, discounted by 0.9
		assert.InDelta(t, 0.875*0.9, result.Score, 1e-9)
		assert.Less(t, result.Score, 1.0)
	})

	t.Run("SameLocalDifferentDomainScoresZero", func(t *testing.T) {
		a, b := emails("jane.doe@acme.com", "jane.doe@other.com")
		assert.False(t, m.CompareEmails(a, b).Contributed())
	})

	t.Run("DissimilarLocalsOnSharedDomainScoreZero", func(t *testing.T) {
		a, b := emails("jane.doe@acme.com", "bob@acme.com")
		assert.False(t, m.CompareEmails(a, b).Contributed())
	})

	t.Run("MissingEmailScoresZero", func(t *testing.T) {
		a, b := emails("", "jane.doe@acme.com")
		assert.False(t, m.CompareEmails(a, b).Contributed())
	})
}
