package handlers

import (
	"time"

	"ledger/internal/domain"
	"ledger/internal/money"
	"ledger/internal/reporting"
)

type donationDTO struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Type          string    `json:"type"`
	DonorName     string    `json:"donorName"`
	RecipientName string    `json:"recipientName"`
	Location      *string   `json:"location"`
	DonatedAt     time.Time `json:"donatedAt"`
	Status        string    `json:"status"`
	Category      string    `json:"category"`
	RecordedBy    *string   `json:"recordedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:            d.ID,
		Amount:        money.Float(d.Amount),
		Currency:      d.Currency,
		Type:          string(d.Type),
		DonorName:     d.DonorName,
		RecipientName: d.RecipientName,
		Location:      d.Location,
		DonatedAt:     d.DonatedAt,
		Status:        d.Status,
		Category:      d.Category,
		RecordedBy:    d.RecordedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDonationDTOs(items []domain.Donation) []donationDTO {
	out := make([]donationDTO, 0, len(items))
	for i := range items {
		out = append(out, toDonationDTO(&items[i]))
	}
	return out
}

type formattedSummary struct {
	TotalGiven    string `json:"totalGiven"`
	TotalReceived string `json:"totalReceived"`
	Balance       string `json:"balance"`
}

type summaryDTO struct {
	TotalGiven    float64          `json:"totalGiven"`
	TotalReceived float64          `json:"totalReceived"`
	Balance       float64          `json:"balance"`
	Formatted     formattedSummary `json:"formatted"`
}

func toSummaryDTO(s reporting.Summary, locale string) summaryDTO {
	return summaryDTO{
		TotalGiven:    money.Float(s.TotalGiven),
		TotalReceived: money.Float(s.TotalReceived),
		Balance:       money.Float(s.Balance),
		Formatted: formattedSummary{
			TotalGiven:    money.Format(s.TotalGiven, locale),
			TotalReceived: money.Format(s.TotalReceived, locale),
			Balance:       money.Format(s.Balance, locale),
		},
	}
}

type leaderboardDTO struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func toLeaderboardDTOs(entries []domain.LeaderboardEntry) []leaderboardDTO {
	out := make([]leaderboardDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardDTO{Name: e.Name, Total: money.Float(e.Total)})
	}
	return out
}

type topDonorDTO struct {
	DonorID    string  `json:"donorId"`
	TotalGiven float64 `json:"total_given"`
}

type topReceiverDTO struct {
	RecipientID   string  `json:"recipientId"`
	TotalReceived float64 `json:"total_received"`
}
