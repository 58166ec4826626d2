package reporting

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"ledger/internal/domain"
)

const (
	// DefaultPageSize is the fixed report page size.
	DefaultPageSize = 10
	// MaxPageSize bounds caller-supplied page sizes.
	MaxPageSize = 100

	windowSize = 5
	dateLayout = "2006-01-02"
)

// TypeFilter selects records by direction. TypeAll passes everything.
type TypeFilter string

const (
	TypeAll      TypeFilter = "ALL"
	TypeGiven    TypeFilter = TypeFilter(domain.DonationGiven)
	TypeReceived TypeFilter = TypeFilter(domain.DonationReceived)
)

// Filter is the set of report filters. All of them compose with AND.
type Filter struct {
	Type     TypeFilter
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

// ParseFilter builds a Filter from raw query values. Empty values disable the
// corresponding filter. Dates use the YYYY-MM-DD layout and are read as UTC days.
func ParseFilter(typ, dateFrom, dateTo, search string) (Filter, error) {
	f := Filter{Type: TypeAll, Search: strings.TrimSpace(search)}

	switch t := TypeFilter(strings.ToUpper(strings.TrimSpace(typ))); t {
	case "", TypeAll:
	case TypeGiven, TypeReceived:
		f.Type = t
	default:
		return Filter{}, domain.NewValidationError("type", "type must be ALL, GIVEN or RECEIVED")
	}

	var err error
	if f.DateFrom, err = parseDay("dateFrom", dateFrom); err != nil {
		return Filter{}, err
	}
	if f.DateTo, err = parseDay("dateTo", dateTo); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseDay(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, domain.NewValidationError(field, "date must use YYYY-MM-DD")
	}
	return &day, nil
}

// Equal reports whether two filters select the same records.
func (f Filter) Equal(o Filter) bool {
	return f.Key() == o.Key()
}

// Key returns a short stable fingerprint of the filter. Clients echo it back so
// the server can tell whether the filters changed since the last page.
func (f Filter) Key() string {
	typ := f.Type
	if typ == "" {
		typ = TypeAll
	}
	parts := []string{string(typ), formatDay(f.DateFrom), formatDay(f.DateTo), f.Search}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:6])
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// Apply returns the records that pass every filter, preserving input order.
func (f Filter) Apply(records []domain.Donation) []domain.Donation {
	m := f.matcher()
	out := make([]domain.Donation, 0, len(records))
	for _, d := range records {
		if m.match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Match reports whether a single record passes the filter.
func (f Filter) Match(d domain.Donation) bool {
	return f.matcher().match(d)
}

type matcher struct {
	typ    TypeFilter
	from   time.Time
	until  time.Time // exclusive: start of the day after DateTo
	search string
	fold   cases.Caser
}

func (f Filter) matcher() *matcher {
	m := &matcher{typ: f.Type, fold: cases.Fold()}
	if f.DateFrom != nil {
		m.from = *f.DateFrom
	}
	if f.DateTo != nil {
		m.until = f.DateTo.AddDate(0, 0, 1)
	}
	if f.Search != "" {
		m.search = m.fold.String(f.Search)
	}
	return m
}

func (m *matcher) match(d domain.Donation) bool {
	if m.typ != "" && m.typ != TypeAll && string(m.typ) != string(d.Type) {
		return false
	}
	if !m.from.IsZero() && d.DonatedAt.Before(m.from) {
		return false
	}
	if !m.until.IsZero() && !d.DonatedAt.Before(m.until) {
		return false
	}
	if m.search == "" {
		return true
	}
	for _, field := range []string{d.DonorName, d.RecipientName, d.LocationOrEmpty()} {
		if field != "" && strings.Contains(m.fold.String(field), m.search) {
			return true
		}
	}
	return false
}

// Page is one page of a filtered record set.
type Page struct {
	Items      []domain.Donation
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	Window     []int
}

// FilterAndPaginate filters records in memory and slices out the requested
// 1-indexed page. Pages past the end are empty.
func FilterAndPaginate(records []domain.Donation, f Filter, page, pageSize int) Page {
	return Paginate(f.Apply(records), page, pageSize)
}

// Paginate slices an already filtered set.
func Paginate(records []domain.Donation, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize

	items := []domain.Donation{}
	start := (page - 1) * pageSize
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		items = records[start:end]
	}

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		Window:     PageWindow(page, totalPages),
	}
}

// PageWindow returns up to five page numbers centred on current: the first five
// near the start, the last five near the end.
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	n := windowSize
	if totalPages < n {
		n = totalPages
	}
	var first int
	switch {
	case totalPages <= windowSize, current <= 3:
		first = 1
	case current >= totalPages-2:
		first = totalPages - windowSize + 1
	default:
		first = current - 2
	}
	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// Pager tracks the current page of a filtered view and resets it to the first
// page whenever the filter changes.
type Pager struct {
	Filter Filter
	Page   int
}

// SetFilter installs f, resetting the page when it differs from the current one.
func (p *Pager) SetFilter(f Filter) {
	if !p.Filter.Equal(f) || p.Page < 1 {
		p.Page = 1
	}
	p.Filter = f
}

// Resume restores a pager from the key a client saw with its previous page.
// A stale key means the filters changed, so paging starts over. Clients that
// send no key get the page they asked for.
func Resume(f Filter, page int, prevKey string) Pager {
	if (prevKey != "" && prevKey != f.Key()) || page < 1 {
		page = 1
	}
	return Pager{Filter: f, Page: page}
}

// Slice applies the pager to records.
func (p Pager) Slice(records []domain.Donation, pageSize int) Page {
	return FilterAndPaginate(records, p.Filter, p.Page, pageSize)
}
