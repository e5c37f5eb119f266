package matching

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
	"github.com/Ramsey-B/sorrel/pkg/similarity"
)

// Reason strings surfaced to review screens. Kept as constants so tests
// and the UI can rely on them.
const (
	ReasonExactName      = "Exact name match"
	ReasonReversedNames  = "Names appear reversed"
	ReasonIdenticalPhone = "Identical phone numbers"
	ReasonPhoneFormats   = "Phone numbers match (different formats)"
	ReasonLocalPhone     = "Same local phone number"
	ReasonCountryPhone   = "Same phone number (different country codes)"
	ReasonIdenticalEmail = "Identical email addresses"
)

// CompareNames scores the name fields of two contacts.
//
// Checks run in order of precedence: an exact normalized match
// short-circuits at 1.0; a whole-name fuzzy match sets the score to the
// ratio; partial (given-only or family-only) matches can only raise the
// score to the partial floor, never lower it; a reversed-order match
// raises it to the reversed floor. Contacts missing both name parts on
// either side score 0 with no reasons.
func (m *Matcher) CompareNames(a, b *models.Contact) models.FieldComparison {
	if (a.GivenName == "" && a.FamilyName == "") || (b.GivenName == "" && b.FamilyName == "") {
		return models.FieldComparison{}
	}

	nameA := m.fullName(a.GivenName, a.FamilyName)
	nameB := m.fullName(b.GivenName, b.FamilyName)

	if nameA == nameB {
		return models.FieldComparison{Score: 1.0, Reasons: []string{ReasonExactName}}
	}

	var score float64
	var reasons []string

	if ratio := similarity.Ratio(nameA, nameB); ratio > m.cfg.FuzzyNameThreshold {
		score = ratio
		reasons = append(reasons, fmt.Sprintf("Similar names (%.0f%% match)", ratio*100))
	}

	if a.GivenName != "" && b.GivenName != "" {
		givenA := m.normalizeName(a.GivenName)
		givenB := m.normalizeName(b.GivenName)
		if ratio := similarity.Ratio(givenA, givenB); ratio > m.cfg.FuzzyNameThreshold {
			score = max(score, m.cfg.PartialNameScore)
			reasons = append(reasons, fmt.Sprintf("Similar first names (%.0f%% match)", ratio*100))
		}
	}

	if a.FamilyName != "" && b.FamilyName != "" {
		familyA := m.normalizeName(a.FamilyName)
		familyB := m.normalizeName(b.FamilyName)
		if ratio := similarity.Ratio(familyA, familyB); ratio > m.cfg.FuzzyNameThreshold {
			score = max(score, m.cfg.PartialNameScore)
			reasons = append(reasons, fmt.Sprintf("Similar last names (%.0f%% match)", ratio*100))
		}
	}

	// Catches "John Smith" vs "Smith John" entry-order mistakes. The ratio
	// is taken in both directions because edit distance against a reversed
	// form is not symmetric on its own, and the comparator must not depend
	// on argument order.
	reversedA := m.fullName(a.FamilyName, a.GivenName)
	reversedB := m.fullName(b.FamilyName, b.GivenName)
	if ratio := max(similarity.Ratio(nameA, reversedB), similarity.Ratio(reversedA, nameB)); ratio > m.cfg.FuzzyNameThreshold {
		score = max(score, m.cfg.ReversedNameScore)
		reasons = append(reasons, ReasonReversedNames)
	}

	if score == 0 {
		return models.FieldComparison{}
	}
	return models.FieldComparison{Score: score, Reasons: reasons}
}

// ComparePhones scores the phone fields of two contacts after country-code
// normalization. Identical and substring forms win outright; otherwise the
// last-7 and last-10 digit checks both run, reasons accumulate from each
// that fires, and the higher score is retained.
func (m *Matcher) ComparePhones(a, b *models.Contact) models.FieldComparison {
	if a.Phone == "" || b.Phone == "" {
		return models.FieldComparison{}
	}

	phoneA := normalizers.Apply(a.Phone, m.cfg.PhoneNormalizer)
	phoneB := normalizers.Apply(b.Phone, m.cfg.PhoneNormalizer)
	if phoneA == "" || phoneB == "" {
		return models.FieldComparison{}
	}

	if phoneA == phoneB {
		return models.FieldComparison{Score: 1.0, Reasons: []string{ReasonIdenticalPhone}}
	}

	if strings.Contains(phoneA, phoneB) || strings.Contains(phoneB, phoneA) {
		return models.FieldComparison{Score: m.cfg.PhoneSubstringScore, Reasons: []string{ReasonPhoneFormats}}
	}

	var score float64
	var reasons []string

	if len(phoneA) >= 7 && len(phoneB) >= 7 && phoneA[len(phoneA)-7:] == phoneB[len(phoneB)-7:] {
		score = m.cfg.PhoneLocalScore
		reasons = append(reasons, ReasonLocalPhone)
	}

	if len(phoneA) >= 10 && len(phoneB) >= 10 && phoneA[len(phoneA)-10:] == phoneB[len(phoneB)-10:] {
		score = max(score, m.cfg.PhoneCountryScore)
		reasons = append(reasons, ReasonCountryPhone)
	}

	if score == 0 {
		return models.FieldComparison{}
	}
	return models.FieldComparison{Score: score, Reasons: reasons}
}

// CompareEmails scores the email fields of two contacts. An exact
// case-insensitive match scores 1.0. Near-matches only count on a shared
// domain, and even then the domain discount applies: a matching domain
// alone is not trusted at full weight.
func (m *Matcher) CompareEmails(a, b *models.Contact) models.FieldComparison {
	if a.Email == "" || b.Email == "" {
		return models.FieldComparison{}
	}

	emailA := normalizers.Apply(a.Email, m.cfg.EmailNormalizer)
	emailB := normalizers.Apply(b.Email, m.cfg.EmailNormalizer)

	if emailA == emailB {
		return models.FieldComparison{Score: 1.0, Reasons: []string{ReasonIdenticalEmail}}
	}

	localA, domainA, okA := strings.Cut(emailA, "@")
	localB, domainB, okB := strings.Cut(emailB, "@")
	if !okA || !okB || domainA != domainB {
		return models.FieldComparison{}
	}

	ratio := similarity.Ratio(localA, localB)
	if ratio <= m.cfg.EmailLocalThreshold {
		return models.FieldComparison{}
	}

	return models.FieldComparison{
		Score:   ratio * m.cfg.EmailDomainDiscount,
		Reasons: []string{fmt.Sprintf("Similar email addresses (%.0f%% match)", ratio*100)},
	}
}
