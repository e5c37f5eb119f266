// Package processor handles incoming contact change events. Each event
// updates the contact store and triggers a duplicate scan for the tenant.
package processor

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	contactrepo "github.com/Ramsey-B/sorrel/internal/repositories/contact"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/scanner"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Processor handles message processing for contact ingestion
type Processor struct {
	logger      ectologger.Logger
	contactRepo *contactrepo.Repository
	scanner     *scanner.Scanner
}

// NewProcessor creates a new message processor
func NewProcessor(logger ectologger.Logger, contactRepo *contactrepo.Repository, sc *scanner.Scanner) *Processor {
	return &Processor{
		logger:      logger,
		contactRepo: contactRepo,
		scanner:     sc,
	}
}

// ProcessMessage is the kafka.MessageHandler entry point.
func (p *Processor) ProcessMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessMessage")
	defer span.End()

	tenantID := msg.GetTenantID()
	if tenantID == "" {
		// Without a tenant there is nothing to scan. Log and drop so the
		// consumer can commit past the message.
		p.logger.WithContext(ctx).WithFields(map[string]any{
			"topic":  msg.Topic,
			"offset": msg.Offset,
		}).Warn("Dropping contact event without tenant_id")
		return nil
	}

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":  tenantID,
		"event_type": msg.GetEventType(),
	})

	switch msg.GetEventType() {
	case "contact.created", "contact.updated":
		if err := p.upsertContact(ctx, msg); err != nil {
			return err
		}
	case "contact.deleted":
		if err := p.deleteContact(ctx, tenantID, msg); err != nil {
			return err
		}
		// Deleting a contact cannot introduce new duplicates.
		return nil
	default:
		log.Warn("Dropping contact event with unknown event_type")
		return nil
	}

	if _, err := p.scanner.ScanTenant(ctx, tenantID); err != nil {
		return err
	}

	return nil
}

func (p *Processor) upsertContact(ctx context.Context, msg *kafka.IncomingMessage) error {
	evt := msg.ContactEvent
	if evt.Contact == nil {
		return fmt.Errorf("contact event %s has no contact payload", evt.EventType)
	}

	c := evt.Contact
	if c.ID == "" {
		c.ID = evt.ContactID
	}
	if c.TenantID == "" {
		c.TenantID = evt.TenantID
	}

	if _, err := p.contactRepo.Upsert(ctx, c); err != nil {
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":  c.TenantID,
		"contact_id": c.ID,
	}).Debug("Upserted contact from event")
	return nil
}

func (p *Processor) deleteContact(ctx context.Context, tenantID string, msg *kafka.IncomingMessage) error {
	contactID := msg.ContactEvent.ContactID
	if contactID == "" {
		return fmt.Errorf("contact.deleted event has no contact_id")
	}

	err := p.contactRepo.Delete(ctx, tenantID, contactID)
	if err != nil {
		// The contact may already be gone on redelivery. That is fine for
		// at-least-once processing.
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id":  tenantID,
			"contact_id": contactID,
		}).Warn("Failed to delete contact from event")
	}
	return nil
}
