package reporting

import (
	"fmt"
	"strconv"
	"time"

	"ledger/internal/domain"
	"ledger/pkg/archive"
)

var exportHeader = []string{"id", "donated_at", "type", "amount", "currency", "donor_name", "recipient_name", "location", "status", "category"}

// ExportFilename names the archive produced on the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("donations-%s.zip", now.UTC().Format("20060102"))
}

// Export filters all and packs the matching records plus a summary sheet into
// a zip holding donations.csv and summary.csv.
func Export(all []domain.Donation, f Filter, now time.Time) ([]byte, error) {
	matched := f.Apply(all)
	rep := BuildFilteredReport(all, Pager{Filter: f, Page: 1}, MaxPageSize)

	rows := make([][]string, 0, len(matched))
	for _, d := range matched {
		rows = append(rows, []string{
			d.ID,
			d.DonatedAt.UTC().Format(time.RFC3339),
			string(d.Type),
			d.Amount.StringFixed(2),
			d.Currency,
			d.DonorName,
			d.RecipientName,
			d.LocationOrEmpty(),
			d.Status,
			d.Category,
		})
	}
	donations, err := archive.CSV(exportHeader, rows)
	if err != nil {
		return nil, fmt.Errorf("encode donations csv: %w", err)
	}

	summaryRows := [][]string{
		{"records", strconv.Itoa(len(matched))},
		{"given_count", strconv.Itoa(rep.GivenCount)},
		{"received_count", strconv.Itoa(rep.ReceivedCount)},
		{"total_given", rep.Totals.Given.StringFixed(2)},
		{"total_received", rep.Totals.Received.StringFixed(2)},
		{"balance", rep.Totals.Balance().StringFixed(2)},
	}
	for i, e := range rep.TopDonors {
		summaryRows = append(summaryRows, []string{fmt.Sprintf("top_donor_%d", i+1), e.Name + " (" + e.Total.StringFixed(2) + ")"})
	}
	for i, e := range rep.TopReceivers {
		summaryRows = append(summaryRows, []string{fmt.Sprintf("top_receiver_%d", i+1), e.Name + " (" + e.Total.StringFixed(2) + ")"})
	}
	summary, err := archive.CSV([]string{"metric", "value"}, summaryRows)
	if err != nil {
		return nil, fmt.Errorf("encode summary csv: %w", err)
	}
	return archive.Bytes([]archive.Entry{
		{Filename: "donations.csv", Data: donations, Modified: now},
		{Filename: "summary.csv", Data: summary, Modified: now},
	})
}
