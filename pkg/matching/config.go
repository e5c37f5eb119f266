package matching

// Config contains the weights and thresholds for the pairwise matcher.
// Defining them in one injected struct (rather than re-declaring constants
// per call site) lets tests override thresholds without touching algorithm
// code.
type Config struct {
	NameWeight  float64 // Share of the overall score carried by the name comparator (default: 0.40)
	PhoneWeight float64 // Share carried by the phone comparator (default: 0.35)
	EmailWeight float64 // Share carried by the email comparator (default: 0.25)

	FuzzyNameThreshold  float64 // Minimum ratio for a fuzzy name signal (default: 0.8)
	PartialNameScore    float64 // Floor applied when only given or family name matches (default: 0.7)
	ReversedNameScore   float64 // Floor applied when names appear entered in reverse order (default: 0.8)
	PhoneSubstringScore float64 // Score when one normalized number contains the other (default: 0.9)
	PhoneLocalScore     float64 // Score when the last 7 digits agree (default: 0.8)
	PhoneCountryScore   float64 // Score when the last 10 digits agree across country codes (default: 0.85)
	EmailLocalThreshold float64 // Minimum local-part ratio on a shared domain (default: 0.8)
	EmailDomainDiscount float64 // Applied to near-match emails; a shared domain alone is not full trust (default: 0.9)

	HighConfidence   float64 // Similarity at or above which a pair is High confidence (default: 0.85)
	MediumConfidence float64 // Similarity at or above which a pair is Medium confidence (default: 0.70)

	// Registry keys selecting the per-field normalizers. Unknown keys fall
	// through to the raw value.
	NameNormalizer  string // default: "name"
	PhoneNormalizer string // default: "phone"
	EmailNormalizer string // default: "email"
}

// DefaultConfig returns the hand-tuned production weights.
func DefaultConfig() Config {
	return Config{
		NameWeight:  0.40,
		PhoneWeight: 0.35,
		EmailWeight: 0.25,

		FuzzyNameThreshold:  0.8,
		PartialNameScore:    0.7,
		ReversedNameScore:   0.8,
		PhoneSubstringScore: 0.9,
		PhoneLocalScore:     0.8,
		PhoneCountryScore:   0.85,
		EmailLocalThreshold: 0.8,
		EmailDomainDiscount: 0.9,

		HighConfidence:   0.85,
		MediumConfidence: 0.70,

		NameNormalizer:  "name",
		PhoneNormalizer: "phone",
		EmailNormalizer: "email",
	}
}
