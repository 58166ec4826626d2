package domain

import "time"

// AuditAction names a donation lifecycle transition.
type AuditAction string

const (
	AuditCreated AuditAction = "donation.created"
	AuditUpdated AuditAction = "donation.updated"
	AuditDeleted AuditAction = "donation.deleted"
)

// AuditEntry is one row of the donation audit trail.
type AuditEntry struct {
	DonationID string
	Action     AuditAction
	ActorID    *string
	Payload    []byte
	OccurredAt time.Time
}
