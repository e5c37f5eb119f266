package dedupe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// chainContacts builds a a-b-c-d similarity chain: a and b share a phone,
// b and c share an email, c and d share a name. d has no similarity to
// either seed of the a-b group.
func chainContacts() []*models.Contact {
	return []*models.Contact{
		{ID: "a", Phone: "415-555-0100"},
		{ID: "b", Phone: "415-555-0100", Email: "team@acme.com"},
		{ID: "c", Email: "team@acme.com", GivenName: "Zara", FamilyName: "Qureshi"},
		{ID: "d", GivenName: "Zara", FamilyName: "Qureshi"},
	}
}

func TestEngine_GroupDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("GroupsExactDuplicates", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			{ID: "a", GivenName: "John", FamilyName: "Smith", Email: "john@acme.com"},
			{ID: "b", GivenName: "john", FamilyName: "smith", Email: "john@acme.com"},
			{ID: "c", GivenName: "Wilhelmina", FamilyName: "Kaczmarek"},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 1)

		group := groups[0]
		assert.Len(t, group.Members, 2)
		assert.Len(t, group.Duplicates, 1)
		// Two members joined by a similarity-1.0 match: 1.0 / 2.
		assert.InDelta(t, 0.5, group.AggregateSimilarity, 1e-9)
		assert.NotContains(t, contactIDs(group.Members), "c")
	})

	t.Run("PrimaryIsMostCompleteMember", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			{ID: "sparse", GivenName: "John", FamilyName: "Smith", Email: "john@acme.com"},
			{
				ID: "rich", GivenName: "John", FamilyName: "Smith", Email: "john@acme.com",
				Phone: "415-555-0100", Company: "Acme", JobTitle: "Engineer", City: "Oakland",
			},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "rich", groups[0].Primary.ID)
		assert.Equal(t, []string{"sparse"}, contactIDs(groups[0].Duplicates))
	})

	t.Run("PrimaryTieKeepsFirstMember", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			{ID: "first", GivenName: "John", FamilyName: "Smith"},
			{ID: "second", GivenName: "John", FamilyName: "Smith"},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "first", groups[0].Primary.ID)
	})

	t.Run("GroupsPartitionTheInput", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			{ID: "a1", GivenName: "John", FamilyName: "Smith"},
			{ID: "a2", GivenName: "John", FamilyName: "Smith"},
			{ID: "b1", Email: "zq@acme.com", GivenName: "Zara", FamilyName: "Qureshi"},
			{ID: "b2", Email: "zq@acme.com", GivenName: "Zara", FamilyName: "Qureshi"},
			{ID: "lone", GivenName: "Unrelated", FamilyName: "Person"},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		seen := map[string]int{}
		for _, g := range groups {
			assert.GreaterOrEqual(t, len(g.Members), 2)
			for _, id := range contactIDs(g.Members) {
				seen[id]++
			}
		}
		for id, count := range seen {
			assert.Equal(t, 1, count, "contact %s appears in more than one group", id)
		}
		assert.NotContains(t, seen, "lone")
	})

	t.Run("ReasonsDeduplicatedFirstSeenOrder", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			{ID: "a", GivenName: "John", FamilyName: "Smith"},
			{ID: "b", GivenName: "John", FamilyName: "Smith"},
			{ID: "c", GivenName: "John", FamilyName: "Smith"},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 1)

		counts := map[string]int{}
		for _, r := range groups[0].Reasons {
			counts[r]++
		}
		for reason, count := range counts {
			assert.Equal(t, 1, count, "reason %q repeated", reason)
		}
	})

	t.Run("SortedByAggregateSimilarityDescending", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		contacts := []*models.Contact{
			// Exact pair.
			{ID: "a1", GivenName: "John", FamilyName: "Smith", Email: "john@acme.com"},
			{ID: "a2", GivenName: "John", FamilyName: "Smith", Email: "john@acme.com"},
			// Weaker, family-only pair.
			{ID: "b1", GivenName: "Margaret", FamilyName: "Winslow"},
			{ID: "b2", GivenName: "Josephine", FamilyName: "Winslow"},
		}

		groups, err := engine.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Greater(t, groups[0].AggregateSimilarity, groups[1].AggregateSimilarity)
		assert.Contains(t, contactIDs(groups[0].Members), "a1")
	})

	t.Run("MissingIDRejected", func(t *testing.T) {
		engine := newTestEngine(DefaultConfig())
		_, err := engine.GroupDuplicates(ctx, []*models.Contact{{ID: "a"}, {}})
		assert.ErrorIs(t, err, ErrMissingContactID)
	})
}

func TestEngine_GroupingStrategies(t *testing.T) {
	ctx := context.Background()

	t.Run("SeededMissesChainBeyondSeeds", func(t *testing.T) {
		// d is similar only to c, which joined after the a-b seeds. The
		// seeded strategy compares d against the seeds alone and drops it.
		engine := newTestEngine(DefaultConfig())

		groups, err := engine.GroupDuplicates(ctx, chainContacts())
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, contactIDs(groups[0].Members))
	})

	t.Run("TransitiveCapturesFullChain", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = GroupingStrategyTransitive
		engine := newTestEngine(cfg)

		groups, err := engine.GroupDuplicates(ctx, chainContacts())
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, contactIDs(groups[0].Members))
	})

	t.Run("StrategiesAgreeOnDisjointPairs", func(t *testing.T) {
		contacts := []*models.Contact{
			{ID: "a1", GivenName: "John", FamilyName: "Smith"},
			{ID: "a2", GivenName: "John", FamilyName: "Smith"},
			{ID: "b1", GivenName: "Zara", FamilyName: "Qureshi"},
			{ID: "b2", GivenName: "Zara", FamilyName: "Qureshi"},
		}

		seeded := newTestEngine(DefaultConfig())
		cfg := DefaultConfig()
		cfg.Strategy = GroupingStrategyTransitive
		transitive := newTestEngine(cfg)

		seededGroups, err := seeded.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)
		transitiveGroups, err := transitive.GroupDuplicates(ctx, contacts)
		require.NoError(t, err)

		require.Len(t, seededGroups, 2)
		require.Len(t, transitiveGroups, 2)
		for i := range seededGroups {
			assert.ElementsMatch(t, contactIDs(seededGroups[i].Members), contactIDs(transitiveGroups[i].Members))
		}
	})
}

func TestContact_CompletenessScore(t *testing.T) {
	t.Run("EmptyContact", func(t *testing.T) {
		c := &models.Contact{ID: "a", TenantID: "t"}
		assert.Equal(t, 0, c.CompletenessScore())
	})

	t.Run("CountryExcluded", func(t *testing.T) {
		with := &models.Contact{GivenName: "John", Country: "US"}
		without := &models.Contact{GivenName: "John"}
		assert.Equal(t, without.CompletenessScore(), with.CompletenessScore())
	})

	t.Run("CountsPopulatedFields", func(t *testing.T) {
		c := &models.Contact{
			GivenName: "John", FamilyName: "Smith", Email: "j@a.com",
			Phone: "415-555-0100", Company: "Acme",
		}
		assert.Equal(t, 5, c.CompletenessScore())
	})
}

func contactIDs(contacts []*models.Contact) []string {
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	return ids
}
