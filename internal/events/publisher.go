// Package events publishes donation lifecycle events to RabbitMQ and consumes
// them for the audit trail.
package events

import (
	"context"
	"fmt"

	"ledger/internal/domain"
)

// Publisher sends donation events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishDonationEvent(ctx context.Context, e *DonationEvent) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishDonationEvent(context.Context, *DonationEvent) error { return nil }

func (Nop) Close() error { return nil }

// Handler processes one consumed event. Returning an error requeues it.
type Handler func(ctx context.Context, e *DonationEvent) error

// AuditHandler stores consumed events in the audit trail.
func AuditHandler(repo domain.AuditRepository) Handler {
	return func(ctx context.Context, e *DonationEvent) error {
		entry, err := e.AuditEntry()
		if err != nil {
			return fmt.Errorf("build audit entry: %w", err)
		}
		return repo.Insert(ctx, entry)
	}
}
