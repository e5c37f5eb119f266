// Package scanner runs persisted duplicate scans over a tenant's contact
// book and records the resulting suggestions for review.
package scanner

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	contactrepo "github.com/Ramsey-B/sorrel/internal/repositories/contact"
	suggestionrepo "github.com/Ramsey-B/sorrel/internal/repositories/suggestion"
	"github.com/Ramsey-B/sorrel/pkg/dedupe"
	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Config holds scanner settings
type Config struct {
	BatchSize          int
	SuggestionsEnabled bool
}

// Scanner loads a tenant's contacts, groups likely duplicates, and
// persists the groups as pending suggestions.
type Scanner struct {
	logger         ectologger.Logger
	engine         *dedupe.Engine
	contactRepo    *contactrepo.Repository
	suggestionRepo *suggestionrepo.Repository
	emitter        *events.Emitter
	cfg            Config
}

// NewScanner creates a new scanner
func NewScanner(
	logger ectologger.Logger,
	engine *dedupe.Engine,
	contactRepo *contactrepo.Repository,
	suggestionRepo *suggestionrepo.Repository,
	emitter *events.Emitter,
	cfg Config,
) *Scanner {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 500
	}
	return &Scanner{
		logger:         logger,
		engine:         engine,
		contactRepo:    contactRepo,
		suggestionRepo: suggestionRepo,
		emitter:        emitter,
		cfg:            cfg,
	}
}

// ScanResult summarizes a completed tenant scan
type ScanResult struct {
	TenantID           string `json:"tenant_id"`
	ContactsScanned    int    `json:"contacts_scanned"`
	GroupsFound        int    `json:"groups_found"`
	SuggestionsCreated int    `json:"suggestions_created"`
}

// ScanTenant runs a full duplicate scan over one tenant's contacts.
func (s *Scanner) ScanTenant(ctx context.Context, tenantID string) (*ScanResult, error) {
	ctx, span := tracing.StartSpan(ctx, "scanner.Scanner.ScanTenant")
	defer span.End()

	contacts, err := s.loadContacts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		TenantID:        tenantID,
		ContactsScanned: len(contacts),
	}
	if len(contacts) < 2 {
		return result, nil
	}

	groups, err := s.engine.GroupDuplicates(ctx, contacts)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID}).Error("Failed to group duplicates")
		return nil, err
	}
	result.GroupsFound = len(groups)

	if !s.cfg.SuggestionsEnabled || len(groups) == 0 {
		return result, nil
	}

	suggestions := make([]*models.DuplicateSuggestion, 0, len(groups))
	for _, g := range groups {
		suggestion, err := suggestionFromGroup(tenantID, g)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to encode suggestion")
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := s.suggestionRepo.CreateBatch(ctx, suggestions); err != nil {
		return nil, err
	}
	result.SuggestionsCreated = len(suggestions)

	if s.emitter != nil {
		if err := s.emitter.EmitDuplicatesFound(ctx, suggestions); err != nil {
			// The suggestions are already persisted. Reviewers can still see
			// them, so a failed emit does not fail the scan.
			s.logger.WithContext(ctx).WithError(err).Warn("Scan completed but event emission failed")
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":           tenantID,
		"contacts_scanned":    result.ContactsScanned,
		"groups_found":        result.GroupsFound,
		"suggestions_created": result.SuggestionsCreated,
	}).Info("Tenant scan completed")

	return result, nil
}

func (s *Scanner) loadContacts(ctx context.Context, tenantID string) ([]*models.Contact, error) {
	var all []*models.Contact
	offset := 0
	for {
		page, err := s.contactRepo.ListByTenant(ctx, tenantID, s.cfg.BatchSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < s.cfg.BatchSize {
			return all, nil
		}
		offset += len(page)
	}
}

func suggestionFromGroup(tenantID string, g models.DuplicateGroup) (*models.DuplicateSuggestion, error) {
	memberIDs := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		memberIDs = append(memberIDs, m.ID)
	}

	members, err := json.Marshal(memberIDs)
	if err != nil {
		return nil, err
	}
	reasons, err := json.Marshal(g.Reasons)
	if err != nil {
		return nil, err
	}

	return &models.DuplicateSuggestion{
		TenantID:            tenantID,
		PrimaryContactID:    g.Primary.ID,
		MemberContactIDs:    members,
		AggregateSimilarity: g.AggregateSimilarity,
		Reasons:             reasons,
		Status:              models.SuggestionStatusPending,
	}, nil
}
