package ric

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one append-only record in the DataRepository's audit log.
// ID is a correlation identifier, not a storage primary key: it lets an
// audit entry be cross-referenced from logs or traces emitted around the
// same DataRepository call, independent of which backing store assigns it.
type AuditEntry struct {
	ID        uuid.UUID
	Component string
	Name      string // LM or CMM name; empty if not applicable
	Timestamp time.Time
	Text      string
}

// NewAuditEntry constructs an AuditEntry with a freshly generated
// correlation ID.
func NewAuditEntry(component, name, text string, at time.Time) AuditEntry {
	return AuditEntry{ID: uuid.New(), Component: component, Name: name, Timestamp: at, Text: text}
}
