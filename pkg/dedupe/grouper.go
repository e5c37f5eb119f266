package dedupe

import (
	"context"
	"sort"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// GroupDuplicates folds the pairwise matches over a record set into
// disjoint duplicate groups. Each group carries a canonical primary record
// (the most complete member), the remaining duplicates, an aggregate
// similarity, and the deduplicated reasons behind the grouping. Groups are
// returned sorted by aggregate similarity descending.
func (e *Engine) GroupDuplicates(ctx context.Context, contacts []*models.Contact) ([]models.DuplicateGroup, error) {
	matches, err := e.FindDuplicates(ctx, contacts)
	if err != nil {
		return nil, err
	}

	var groups []models.DuplicateGroup
	switch e.cfg.Strategy {
	case GroupingStrategyTransitive:
		groups = e.groupTransitive(contacts, matches)
	default:
		groups = e.groupSeeded(contacts, matches)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].AggregateSimilarity > groups[j].AggregateSimilarity
	})

	return groups, nil
}

// groupSeeded is the original greedy single-pass grouping. Matches are
// consumed in descending-similarity order; each unconsumed match seeds a
// group, and every remaining unprocessed contact is compared against the
// two seed contacts only. Candidates similar only to a member added after
// the seeds are not captured; that is a known limitation kept for
// compatibility (the transitive strategy fixes it).
func (e *Engine) groupSeeded(contacts []*models.Contact, matches []models.PairwiseMatch) []models.DuplicateGroup {
	processed := make(map[string]bool, len(contacts))
	groups := make([]models.DuplicateGroup, 0)

	for _, match := range matches {
		seedA, seedB := match.ContactA, match.ContactB
		if processed[seedA.ID] || processed[seedB.ID] {
			continue
		}

		members := []*models.Contact{seedA, seedB}
		processed[seedA.ID] = true
		processed[seedB.ID] = true

		totalSimilarity := match.Similarity
		reasons := append([]string(nil), match.Reasons...)

		for _, candidate := range contacts {
			if processed[candidate.ID] {
				continue
			}

			toA := e.matcher.Compare(candidate, seedA)
			toB := e.matcher.Compare(candidate, seedB)
			if toA.Similarity <= e.cfg.PairThreshold && toB.Similarity <= e.cfg.PairThreshold {
				continue
			}

			best := toA
			if toB.Similarity > toA.Similarity {
				best = toB
			}

			members = append(members, candidate)
			processed[candidate.ID] = true
			totalSimilarity += best.Similarity
			reasons = append(reasons, best.Reasons...)
		}

		groups = append(groups, e.finalizeGroup(members, totalSimilarity, reasons))
	}

	return groups
}

// groupTransitive unions every above-threshold match into connected
// components, yielding true transitive closure over the match relation.
func (e *Engine) groupTransitive(contacts []*models.Contact, matches []models.PairwiseMatch) []models.DuplicateGroup {
	ds := newDisjointSet()
	for _, match := range matches {
		ds.union(match.ContactA.ID, match.ContactB.ID)
	}

	type component struct {
		members         []*models.Contact
		totalSimilarity float64
		matchCount      int
		reasons         []string
	}

	components := make(map[string]*component)

	// Members in input order keeps output deterministic.
	for _, c := range contacts {
		root, ok := ds.find(c.ID)
		if !ok {
			continue
		}
		comp, ok := components[root]
		if !ok {
			comp = &component{}
			components[root] = comp
		}
		comp.members = append(comp.members, c)
	}

	// Matches arrive sorted by similarity descending, so reasons
	// accumulate strongest-signal first.
	for _, match := range matches {
		root, _ := ds.find(match.ContactA.ID)
		comp := components[root]
		comp.totalSimilarity += match.Similarity
		comp.matchCount++
		comp.reasons = append(comp.reasons, match.Reasons...)
	}

	groups := make([]models.DuplicateGroup, 0, len(components))
	for _, c := range contacts {
		root, ok := ds.find(c.ID)
		if !ok {
			continue
		}
		comp := components[root]
		if comp == nil || comp.members[0] != c || len(comp.members) < 2 {
			continue
		}
		avg := comp.totalSimilarity / float64(comp.matchCount)
		groups = append(groups, e.finalizeGroup(comp.members, avg*float64(len(comp.members)), comp.reasons))
	}

	return groups
}

// finalizeGroup selects the primary via the completeness heuristic and
// assembles the group. Ties on completeness keep the member encountered
// first, so primary selection is deterministic.
func (e *Engine) finalizeGroup(members []*models.Contact, totalSimilarity float64, reasons []string) models.DuplicateGroup {
	primary := members[0]
	bestScore := primary.CompletenessScore()
	for _, m := range members[1:] {
		if score := m.CompletenessScore(); score > bestScore {
			primary = m
			bestScore = score
		}
	}

	duplicates := make([]*models.Contact, 0, len(members)-1)
	for _, m := range members {
		if m != primary {
			duplicates = append(duplicates, m)
		}
	}

	return models.DuplicateGroup{
		Members:             members,
		Primary:             primary,
		Duplicates:          duplicates,
		AggregateSimilarity: totalSimilarity / float64(len(members)),
		Reasons:             dedupeStrings(reasons),
	}
}

// dedupeStrings removes duplicates preserving first-seen order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// disjointSet is a union-find over contact IDs with path compression and
// union by size.
type disjointSet struct {
	parent map[string]string
	size   map[string]int
}

func newDisjointSet() *disjointSet {
	return &disjointSet{
		parent: make(map[string]string),
		size:   make(map[string]int),
	}
}

func (d *disjointSet) add(id string) string {
	if _, ok := d.parent[id]; !ok {
		d.parent[id] = id
		d.size[id] = 1
	}
	return d.root(id)
}

func (d *disjointSet) root(id string) string {
	for d.parent[id] != id {
		d.parent[id] = d.parent[d.parent[id]]
		id = d.parent[id]
	}
	return id
}

// find returns the component root for id, or false if the id never joined
// any match.
func (d *disjointSet) find(id string) (string, bool) {
	if _, ok := d.parent[id]; !ok {
		return "", false
	}
	return d.root(id), true
}

func (d *disjointSet) union(a, b string) {
	ra, rb := d.add(a), d.add(b)
	if ra == rb {
		return
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
}
