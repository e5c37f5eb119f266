package models

import (
	"encoding/json"
	"time"
)

// Confidence is the coarse bucket derived from a continuous similarity
// score, used by review screens.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FieldComparison is the result of a single field comparator: a bounded
// score plus human-readable reasons explaining the match. Transient, never
// persisted.
type FieldComparison struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Contributed reports whether the comparator produced a usable signal.
// Non-contributing comparators are excluded from the weighted denominator
// so contacts are not penalized for simply lacking a field.
func (f FieldComparison) Contributed() bool {
	return f.Score > 0
}

// PairwiseMatch is the scored comparison of exactly two contacts.
// Similarity is symmetric: Compare(a, b) and Compare(b, a) produce the
// same score and confidence.
type PairwiseMatch struct {
	ContactA   *Contact   `json:"contact_a"`
	ContactB   *Contact   `json:"contact_b"`
	Similarity float64    `json:"similarity"`
	Confidence Confidence `json:"confidence"`
	Reasons    []string   `json:"reasons,omitempty"`
}

// DuplicateGroup is a set of contacts believed to be the same person, with
// a proposed canonical primary record. Groups partition the input: a
// contact belongs to at most one group per run. Constructed fresh per
// grouping invocation and handed to the caller, which may merge, flag, or
// discard the suggestion.
type DuplicateGroup struct {
	Members             []*Contact `json:"members"`
	Primary             *Contact   `json:"primary"`
	Duplicates          []*Contact `json:"duplicates"`
	AggregateSimilarity float64    `json:"aggregate_similarity"`
	Reasons             []string   `json:"reasons,omitempty"`
}

// SuggestionStatus constants for the duplicate review queue.
const (
	SuggestionStatusPending   = "pending"
	SuggestionStatusApproved  = "approved"
	SuggestionStatusDismissed = "dismissed"
)

// DuplicateSuggestion is a persisted DuplicateGroup awaiting review. The
// engine itself never persists groups; the surrounding service stores them
// so the review UI can page through suggestions.
type DuplicateSuggestion struct {
	ID                  string          `json:"id" db:"id"`
	TenantID            string          `json:"tenant_id" db:"tenant_id"`
	PrimaryContactID    string          `json:"primary_contact_id" db:"primary_contact_id"`
	MemberContactIDs    json.RawMessage `json:"member_contact_ids" db:"member_contact_ids"`
	AggregateSimilarity float64         `json:"aggregate_similarity" db:"aggregate_similarity"`
	Reasons             json.RawMessage `json:"reasons" db:"reasons"`
	Status              string          `json:"status" db:"status"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
	ResolvedAt          *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy          *string         `json:"resolved_by,omitempty" db:"resolved_by"`
}

// SuggestionListResponse is the response for listing duplicate suggestions.
type SuggestionListResponse struct {
	Items      []DuplicateSuggestion `json:"items"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
}

// DedupeRequest carries an ad-hoc record list for the stateless dedupe
// endpoints.
type DedupeRequest struct {
	Contacts []*Contact `json:"contacts" validate:"required,min=2,dive,required"`
}

// MatchListResponse is the response for pairwise scans.
type MatchListResponse struct {
	Matches    []PairwiseMatch `json:"matches"`
	TotalPairs int             `json:"total_pairs"`
}

// GroupListResponse is the response for grouping scans.
type GroupListResponse struct {
	Groups []DuplicateGroup `json:"groups"`
}
