// Package events handles event emission for duplicate detection results
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for Sorrel
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitDuplicatesFound emits one duplicates.found event per persisted
// suggestion from a scan run.
func (e *Emitter) EmitDuplicatesFound(ctx context.Context, suggestions []*models.DuplicateSuggestion) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDuplicatesFound")
	defer span.End()

	if len(suggestions) == 0 {
		return nil
	}

	events := make([]*kafka.DuplicateEvent, 0, len(suggestions))
	for _, s := range suggestions {
		events = append(events, &kafka.DuplicateEvent{
			EventType:           "duplicates.found",
			TenantID:            s.TenantID,
			SuggestionID:        s.ID,
			PrimaryContactID:    s.PrimaryContactID,
			MemberContactIDs:    decodeIDs(s.MemberContactIDs),
			AggregateSimilarity: s.AggregateSimilarity,
			Reasons:             decodeIDs(s.Reasons),
		})
	}

	if err := e.producer.PublishDuplicateEvents(ctx, events); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit duplicates.found events")
		return err
	}

	return nil
}

// EmitSuggestionResolved emits an event when a reviewer approves or
// dismisses a suggestion.
func (e *Emitter) EmitSuggestionResolved(ctx context.Context, s *models.DuplicateSuggestion) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitSuggestionResolved")
	defer span.End()

	eventType := "suggestion.dismissed"
	if s.Status == models.SuggestionStatusApproved {
		eventType = "suggestion.approved"
	}

	event := &kafka.DuplicateEvent{
		EventType:           eventType,
		TenantID:            s.TenantID,
		SuggestionID:        s.ID,
		PrimaryContactID:    s.PrimaryContactID,
		MemberContactIDs:    decodeIDs(s.MemberContactIDs),
		AggregateSimilarity: s.AggregateSimilarity,
	}

	if err := e.producer.PublishDuplicateEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to emit %s event", eventType)
		return err
	}

	return nil
}

func decodeIDs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}
