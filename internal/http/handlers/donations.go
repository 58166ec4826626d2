package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"ledger/internal/domain"
	"ledger/internal/middleware"
	"ledger/internal/reporting"
)

const dayLayout = "2006-01-02"

type donationRequest struct {
	ID            *string          `json:"id"`
	Amount        *decimal.Decimal `json:"amount"`
	Type          string           `json:"type"`
	DonorName     string           `json:"donorName"`
	RecipientName string           `json:"recipientName"`
	Location      *string          `json:"location"`
	DonatedAt     *string          `json:"donatedAt"`
}

// input validates the request at the boundary and returns the normalized
// donation fields.
func (req donationRequest) input() (domain.DonationInput, error) {
	if req.Amount == nil || strings.TrimSpace(req.Type) == "" ||
		strings.TrimSpace(req.DonorName) == "" || strings.TrimSpace(req.RecipientName) == "" {
		return domain.DonationInput{}, domain.NewValidationError("", "Amount, type, donor name, and recipient name are required")
	}
	t, err := domain.ParseDonationType(req.Type)
	if err != nil {
		return domain.DonationInput{}, err
	}
	in := domain.DonationInput{
		Amount:        *req.Amount,
		Type:          t,
		DonorName:     req.DonorName,
		RecipientName: req.RecipientName,
		Location:      req.Location,
	}
	if req.DonatedAt != nil && strings.TrimSpace(*req.DonatedAt) != "" {
		at, err := parseDonatedAt(*req.DonatedAt)
		if err != nil {
			return domain.DonationInput{}, err
		}
		in.DonatedAt = &at
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.DonationInput{}, err
	}
	return in, nil
}

func parseDonatedAt(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dayLayout, v); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError("donatedAt", "Donated at must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// CreateDonation handles POST /donations.
func (a *App) CreateDonation(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	d, err := a.Donations.Create(r.Context(), in, userID)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.publish(r, domain.AuditCreated, d, userID)
	a.json(w, http.StatusOK, map[string]any{"donation": toDonationDTO(d)})
}

// ListDonations handles GET /donations?userId=&type=.
func (a *App) ListDonations(w http.ResponseWriter, r *http.Request) {
	scope, subject, ok := a.scope(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	requested := strings.TrimSpace(q.Get("userId"))
	if requested == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "User ID required")
		return
	}
	if err := reporting.CheckRequestedUser(a.Reporting.Visibility(), requested, subject); err != nil {
		a.fail(w, r, err, "")
		return
	}

	ctx := r.Context()
	switch q.Get("type") {
	case "recent":
		recent, err := a.Reporting.Recent(ctx, scope, reporting.DefaultLimit)
		if err != nil {
			a.fail(w, r, err, "")
			return
		}
		a.json(w, http.StatusOK, map[string]any{"recentDonations": map[string]any{
			"given":    toDonationDTOs(recent.Given),
			"received": toDonationDTOs(recent.Received),
		}})
	case "summary":
		summary, err := a.Reporting.Summary(ctx, scope)
		if err != nil {
			a.fail(w, r, err, "")
			return
		}
		a.json(w, http.StatusOK, map[string]any{"summary": toSummaryDTO(summary, middleware.LocaleFromContext(ctx))})
	case "count":
		n, err := a.Reporting.Count(ctx, scope)
		if err != nil {
			a.fail(w, r, err, "")
			return
		}
		a.json(w, http.StatusOK, map[string]any{"totalCount": n})
	case "all", "":
		items, err := a.Reporting.All(ctx, scope)
		if err != nil {
			a.fail(w, r, err, "")
			return
		}
		a.json(w, http.StatusOK, map[string]any{"donations": toDonationDTOs(items)})
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "type must be one of recent, summary, count or all")
	}
}

// UpdateDonation handles PUT /donations; the id travels in the body.
func (a *App) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	scope, userID, ok := a.scope(w, r)
	if !ok {
		return
	}
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.ID == nil || strings.TrimSpace(*req.ID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "ID, amount, type, donor name, and recipient name are required")
		return
	}
	in, err := req.input()
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	d, err := a.Donations.Update(r.Context(), scope, strings.TrimSpace(*req.ID), in)
	if err != nil {
		a.fail(w, r, err, "Donation not found")
		return
	}
	a.publish(r, domain.AuditUpdated, d, userID)
	a.json(w, http.StatusOK, map[string]any{"donation": toDonationDTO(d)})
}

// DeleteDonation handles DELETE /donations?id=.
func (a *App) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	scope, userID, ok := a.scope(w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "Donation ID is required")
		return
	}
	d, err := a.Donations.Delete(r.Context(), scope, id)
	if err != nil {
		a.fail(w, r, err, "Donation not found")
		return
	}
	a.publish(r, domain.AuditDeleted, d, userID)
	a.json(w, http.StatusOK, map[string]any{
		"message":  "Donation deleted successfully",
		"donation": toDonationDTO(d),
	})
}

// GetDonation handles GET /donations/{id}.
func (a *App) GetDonation(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := a.scope(w, r)
	if !ok {
		return
	}
	d, err := a.Donations.GetByID(r.Context(), scope, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "Donation not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"donation": toDonationDTO(d)})
}

type filterDTO struct {
	Type     string `json:"type"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
	Search   string `json:"search,omitempty"`
}

func toFilterDTO(f reporting.Filter) filterDTO {
	out := filterDTO{Type: string(f.Type), Search: f.Search}
	if out.Type == "" {
		out.Type = string(reporting.TypeAll)
	}
	if f.DateFrom != nil {
		out.DateFrom = f.DateFrom.Format(dayLayout)
	}
	if f.DateTo != nil {
		out.DateTo = f.DateTo.Format(dayLayout)
	}
	return out
}

// filterFromQuery reads the shared report filter parameters.
func filterFromQuery(r *http.Request) (reporting.Filter, error) {
	q := r.URL.Query()
	return reporting.ParseFilter(q.Get("type"), q.Get("dateFrom"), q.Get("dateTo"), q.Get("search"))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, name+" must be a whole number")
	}
	return n, nil
}

// DonationReport handles GET /donations/report: one filtered page plus counts
// and leaderboards over the whole filtered set.
func (a *App) DonationReport(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := a.scope(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(r)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	pageSize, err := intParam(r, "pageSize", reporting.DefaultPageSize)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	pager := reporting.Resume(f, page, r.URL.Query().Get("filterKey"))

	rep, err := a.Reporting.Filtered(r.Context(), scope, pager, pageSize)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	totals := reporting.Summary{
		TotalGiven:    rep.Totals.Given,
		TotalReceived: rep.Totals.Received,
		Balance:       rep.Totals.Balance(),
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":        toDonationDTOs(rep.Page.Items),
		"page":         rep.Page.Page,
		"pageSize":     rep.Page.PageSize,
		"totalItems":   rep.Page.TotalItems,
		"totalPages":   rep.Page.TotalPages,
		"pageWindow":   rep.Page.Window,
		"filter":       toFilterDTO(rep.Filter),
		"filterKey":    rep.FilterKey,
		"totalRecords": rep.TotalRecords,
		"counts": map[string]int{
			"given":    rep.GivenCount,
			"received": rep.ReceivedCount,
		},
		"totals":       toSummaryDTO(totals, middleware.LocaleFromContext(r.Context())),
		"topDonors":    toLeaderboardDTOs(rep.TopDonors),
		"topReceivers": toLeaderboardDTOs(rep.TopReceivers),
	})
}
