package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// ContactEvent is the upstream CRM change event this service ingests.
type ContactEvent struct {
	EventType string          `json:"event_type"` // contact.created, contact.updated, contact.deleted
	TenantID  string          `json:"tenant_id"`
	ContactID string          `json:"contact_id"`
	Contact   *models.Contact `json:"contact,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	ContactEvent *ContactEvent
}

// ParseContactEvent parses the message value as a contact change event
func (m *IncomingMessage) ParseContactEvent() error {
	var evt ContactEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		return err
	}
	m.ContactEvent = &evt
	return nil
}

// GetTenantID returns the tenant ID from the event, falling back to the
// message header.
func (m *IncomingMessage) GetTenantID() string {
	if m.ContactEvent != nil && m.ContactEvent.TenantID != "" {
		return m.ContactEvent.TenantID
	}
	return m.Headers["tenant_id"]
}

// GetEventType returns the event type from the event, falling back to the
// message header.
func (m *IncomingMessage) GetEventType() string {
	if m.ContactEvent != nil && m.ContactEvent.EventType != "" {
		return m.ContactEvent.EventType
	}
	return m.Headers["event_type"]
}

// IsDelete reports whether the event removes a contact
func (m *IncomingMessage) IsDelete() bool {
	return m.GetEventType() == "contact.deleted"
}
