package handlers

import (
	"net/http"

	"ledger/internal/middleware"
	"ledger/internal/money"
	"ledger/internal/reporting"
)

// ReportOverview handles GET /reporting.
func (a *App) ReportOverview(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := a.scope(w, r)
	if !ok {
		return
	}
	rep, err := a.Reporting.Report(r.Context(), scope)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	donors := make([]topDonorDTO, 0, len(rep.TopDonors))
	for _, e := range rep.TopDonors {
		donors = append(donors, topDonorDTO{DonorID: e.Name, TotalGiven: money.Float(e.Total)})
	}
	receivers := make([]topReceiverDTO, 0, len(rep.TopReceivers))
	for _, e := range rep.TopReceivers {
		receivers = append(receivers, topReceiverDTO{RecipientID: e.Name, TotalReceived: money.Float(e.Total)})
	}
	a.json(w, http.StatusOK, map[string]any{
		"totalAmount":  money.Float(rep.TotalAmount),
		"topDonors":    donors,
		"topReceivers": receivers,
		"summary":      toSummaryDTO(rep.Summary, middleware.LocaleFromContext(r.Context())),
	})
}

// ReportingExport handles GET /reporting/export: a zip holding every record
// that matches the filter and a summary sheet.
func (a *App) ReportingExport(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := a.scope(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(r)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	all, err := a.Reporting.All(r.Context(), scope)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}

	now := a.now()
	body, err := reporting.Export(all, f, now)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+reporting.ExportFilename(now))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
