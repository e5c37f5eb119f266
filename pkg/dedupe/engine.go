// Package dedupe implements duplicate detection over contact records:
// pairwise scans across the full record set, transitive grouping of the
// resulting matches, and canonical primary selection per group.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// ErrMissingContactID is returned when a record in the input has no stable
// identity. This is a contract violation rejected before any comparison
// runs; the engine never produces partial results.
var ErrMissingContactID = errors.New("contact record has no id")

// GroupingStrategy selects how pairwise matches are folded into groups.
type GroupingStrategy string

const (
	// GroupingStrategySeeded is the original behavior: groups grow from a
	// seed pair and later candidates are compared against the two seeds
	// only. A contact similar only to a member added after the seeds will
	// not be captured.
	GroupingStrategySeeded GroupingStrategy = "seeded"

	// GroupingStrategyTransitive computes true transitive closure with a
	// union-find over the above-threshold match relation. Chains of weakly
	// linked contacts land in one group.
	GroupingStrategyTransitive GroupingStrategy = "transitive"
)

// Config contains thresholds for the dedupe engine.
type Config struct {
	PairThreshold      float64          // Minimum similarity for a pair to count as a match (default: 0.6)
	NameScanThreshold  float64          // Default threshold for name-only scans (default: 0.8)
	PhoneScanThreshold float64          // Default threshold for phone-only scans (default: 0.8)
	EmailScanThreshold float64          // Default threshold for email-only scans (default: 0.9)
	PairWorkers        int              // Parallelism for the pair matrix; <= 1 runs sequentially
	Strategy           GroupingStrategy // Grouping strategy (default: seeded)
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		PairThreshold:      0.6,
		NameScanThreshold:  0.8,
		PhoneScanThreshold: 0.8,
		EmailScanThreshold: 0.9,
		PairWorkers:        1,
		Strategy:           GroupingStrategySeeded,
	}
}

// Engine runs duplicate detection. It holds only configuration and a
// matcher, keeping FindDuplicates and GroupDuplicates pure with respect to
// their input: no I/O, no clock, no hidden state.
type Engine struct {
	matcher *matching.Matcher
	cfg     Config
}

// NewEngine creates a dedupe engine.
func NewEngine(matcher *matching.Matcher, cfg Config) *Engine {
	if cfg.Strategy == "" {
		cfg.Strategy = GroupingStrategySeeded
	}
	return &Engine{matcher: matcher, cfg: cfg}
}

// Matcher returns the engine's pairwise matcher.
func (e *Engine) Matcher() *matching.Matcher {
	return e.matcher
}

// FindDuplicates compares every unordered contact pair and returns the
// matches above the pair threshold, sorted by similarity descending with
// discovery-order ties.
func (e *Engine) FindDuplicates(ctx context.Context, contacts []*models.Contact) ([]models.PairwiseMatch, error) {
	if err := validateContacts(contacts); err != nil {
		return nil, err
	}

	all, err := e.comparePairs(ctx, contacts)
	if err != nil {
		return nil, err
	}

	matches := make([]models.PairwiseMatch, 0, len(all))
	for _, m := range all {
		if m.Similarity > e.cfg.PairThreshold {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches, nil
}

// fieldComparator adapts a single field comparison for the one-dimensional
// scan entry points.
type fieldComparator func(a, b *models.Contact) models.FieldComparison

// FindDuplicatesByName scans on the name comparator only. A threshold of 0
// uses the configured default.
func (e *Engine) FindDuplicatesByName(ctx context.Context, contacts []*models.Contact, threshold float64) ([]models.PairwiseMatch, error) {
	if threshold <= 0 {
		threshold = e.cfg.NameScanThreshold
	}
	return e.findByField(ctx, contacts, e.matcher.CompareNames, threshold)
}

// FindDuplicatesByPhone scans on the phone comparator only. A threshold of
// 0 uses the configured default.
func (e *Engine) FindDuplicatesByPhone(ctx context.Context, contacts []*models.Contact, threshold float64) ([]models.PairwiseMatch, error) {
	if threshold <= 0 {
		threshold = e.cfg.PhoneScanThreshold
	}
	return e.findByField(ctx, contacts, e.matcher.ComparePhones, threshold)
}

// FindDuplicatesByEmail scans on the email comparator only. A threshold of
// 0 uses the configured default.
func (e *Engine) FindDuplicatesByEmail(ctx context.Context, contacts []*models.Contact, threshold float64) ([]models.PairwiseMatch, error) {
	if threshold <= 0 {
		threshold = e.cfg.EmailScanThreshold
	}
	return e.findByField(ctx, contacts, e.matcher.CompareEmails, threshold)
}

func (e *Engine) findByField(ctx context.Context, contacts []*models.Contact, compare fieldComparator, threshold float64) ([]models.PairwiseMatch, error) {
	if err := validateContacts(contacts); err != nil {
		return nil, err
	}

	var matches []models.PairwiseMatch
	for i := 0; i < len(contacts); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(contacts); j++ {
			fc := compare(contacts[i], contacts[j])
			if fc.Score <= threshold {
				continue
			}
			matches = append(matches, models.PairwiseMatch{
				ContactA:   contacts[i],
				ContactB:   contacts[j],
				Similarity: fc.Score,
				Confidence: confidenceFor(e.matcher, fc.Score),
				Reasons:    fc.Reasons,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches, nil
}

func confidenceFor(m *matching.Matcher, similarity float64) models.Confidence {
	cfg := m.Config()
	switch {
	case similarity >= cfg.HighConfidence:
		return models.ConfidenceHigh
	case similarity >= cfg.MediumConfidence:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// comparePairs evaluates the full pair matrix in discovery order
// (i < j, row major). Each pair is independent, so the matrix can be
// evaluated by a worker pool; results are written by pair index, keeping
// output deterministic regardless of scheduling. Cancellation aborts the
// whole computation rather than dropping pairs.
func (e *Engine) comparePairs(ctx context.Context, contacts []*models.Contact) ([]models.PairwiseMatch, error) {
	n := len(contacts)
	if n < 2 {
		return nil, nil
	}
	pairCount := n * (n - 1) / 2
	results := make([]models.PairwiseMatch, pairCount)

	workers := e.cfg.PairWorkers
	if workers <= 1 || pairCount < workers*2 {
		for idx := 0; idx < pairCount; idx++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			i, j := pairAt(n, idx)
			results[idx] = e.matcher.Compare(contacts[i], contacts[j])
		}
		return results, nil
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				i, j := pairAt(n, idx)
				results[idx] = e.matcher.Compare(contacts[i], contacts[j])
			}
		}()
	}

	var err error
feed:
	for idx := 0; idx < pairCount; idx++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indexes <- idx:
		}
	}
	close(indexes)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// pairAt maps a flat pair index back to its (i, j) coordinates in the
// row-major upper triangle.
func pairAt(n, idx int) (int, int) {
	i := 0
	rowLen := n - 1
	for idx >= rowLen {
		idx -= rowLen
		i++
		rowLen--
	}
	return i, i + 1 + idx
}

func validateContacts(contacts []*models.Contact) error {
	for i, c := range contacts {
		if c == nil || c.ID == "" {
			return fmt.Errorf("contact at index %d: %w", i, ErrMissingContactID)
		}
	}
	return nil
}
