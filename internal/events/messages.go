package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledger/internal/domain"
)

// Snapshot is the donation state carried by an event.
type Snapshot struct {
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Type          string    `json:"type"`
	DonorName     string    `json:"donorName"`
	RecipientName string    `json:"recipientName"`
	Location      *string   `json:"location,omitempty"`
	DonatedAt     time.Time `json:"donatedAt"`
}

// DonationEvent describes one committed donation mutation.
type DonationEvent struct {
	ID         string             `json:"id"`
	Action     domain.AuditAction `json:"action"`
	DonationID string             `json:"donationId"`
	ActorID    string             `json:"actorId,omitempty"`
	Donation   Snapshot           `json:"donation"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// NewDonationEvent builds the event for action on d performed by actor.
func NewDonationEvent(action domain.AuditAction, d *domain.Donation, actor string, at time.Time) *DonationEvent {
	return &DonationEvent{
		ID:         uuid.NewString(),
		Action:     action,
		DonationID: d.ID,
		ActorID:    actor,
		Donation: Snapshot{
			Amount:        d.Amount.String(),
			Currency:      d.Currency,
			Type:          string(d.Type),
			DonorName:     d.DonorName,
			RecipientName: d.RecipientName,
			Location:      d.Location,
			DonatedAt:     d.DonatedAt,
		},
		OccurredAt: at.UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *DonationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DonationEventFromJSON decodes and checks an event body.
func DonationEventFromJSON(data []byte) (*DonationEvent, error) {
	var e DonationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case domain.AuditCreated, domain.AuditUpdated, domain.AuditDeleted:
	default:
		return nil, fmt.Errorf("unknown action %q", e.Action)
	}
	if _, err := uuid.Parse(e.DonationID); err != nil {
		return nil, fmt.Errorf("donation id: %w", err)
	}
	if e.OccurredAt.IsZero() {
		return nil, errors.New("occurredAt is required")
	}
	return &e, nil
}

// AuditEntry maps the event onto an audit row.
func (e *DonationEvent) AuditEntry() (domain.AuditEntry, error) {
	payload, err := json.Marshal(e.Donation)
	if err != nil {
		return domain.AuditEntry{}, err
	}
	entry := domain.AuditEntry{
		DonationID: e.DonationID,
		Action:     e.Action,
		Payload:    payload,
		OccurredAt: e.OccurredAt,
	}
	if e.ActorID != "" {
		actor := e.ActorID
		entry.ActorID = &actor
	}
	return entry, nil
}
