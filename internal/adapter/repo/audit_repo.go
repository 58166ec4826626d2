package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ledger/internal/domain"
	"ledger/internal/infra"
	"ledger/internal/sqlinline"
)

// AuditRepositoryPG persists the donation change trail.
type AuditRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewAuditRepository(sql infra.SQLExecutor) *AuditRepositoryPG {
	return &AuditRepositoryPG{sql: sql}
}

// Insert appends one audit entry.
func (r *AuditRepositoryPG) Insert(ctx context.Context, e domain.AuditEntry) error {
	if _, err := uuid.Parse(e.DonationID); err != nil {
		return fmt.Errorf("audit donation id %q: %w", e.DonationID, err)
	}
	actor := ""
	if e.ActorID != nil {
		actor = *e.ActorID
	}
	var payload any
	if len(e.Payload) > 0 {
		payload = string(e.Payload)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertDonationAudit,
		e.DonationID,
		string(e.Action),
		actor,
		payload,
		e.OccurredAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

var _ domain.AuditRepository = (*AuditRepositoryPG)(nil)
