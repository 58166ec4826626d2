package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"ledger/internal/adapter/repo"
	"ledger/internal/domain"
	"ledger/internal/infra"
	"ledger/internal/money"
	"ledger/internal/reporting"
	"ledger/internal/storage"
)

func main() {
	var (
		typeFlag   string
		fromFlag   string
		toFlag     string
		searchFlag string
		ownerFlag  string
		localeFlag string
		exportFlag string
		overwrite  bool
		pageFlag   int
		topFlag    int
	)

	flag.StringVar(&typeFlag, "type", "ALL", "record type to list (ALL, GIVEN, RECEIVED)")
	flag.StringVar(&fromFlag, "from", "", "first donation day to include (YYYY-MM-DD)")
	flag.StringVar(&toFlag, "to", "", "last donation day to include (YYYY-MM-DD)")
	flag.StringVar(&searchFlag, "search", "", "case-insensitive match on donor, recipient or location")
	flag.StringVar(&ownerFlag, "owner", "", "limit the report to records created by this user ID")
	flag.StringVar(&localeFlag, "locale", "en", "locale for amounts (en, id)")
	flag.StringVar(&exportFlag, "export", "", "directory to write a zip export of the matching records into")
	flag.BoolVar(&overwrite, "overwrite", false, "replace an existing export for the same day")
	flag.IntVar(&pageFlag, "page", 1, "page of matching records to print")
	flag.IntVar(&topFlag, "top", reporting.DefaultLimit, "leaderboard size")
	flag.Parse()

	_ = godotenv.Load()

	filter, err := reporting.ParseFilter(typeFlag, fromFlag, toFlag, searchFlag)
	if err != nil {
		exitWithError(err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "report").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	policy := reporting.VisibilityShared
	if strings.TrimSpace(ownerFlag) != "" {
		policy = reporting.VisibilityOwner
	}
	svc := reporting.NewService(repo.NewDonationRepository(runner), policy)
	scope, err := svc.ScopeFor(ownerFlag)
	if err != nil {
		exitWithError(err)
	}

	summary, err := svc.Summary(ctx, scope)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load totals: %w", err))
	}
	all, err := svc.All(ctx, scope)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load records: %w", err))
	}
	filtered := reporting.BuildFilteredReport(all, reporting.Resume(filter, pageFlag, ""), reporting.DefaultPageSize)
	matched := filter.Apply(all)

	fmt.Printf("Total given:    %s\n", money.Format(summary.TotalGiven, localeFlag))
	fmt.Printf("Total received: %s\n", money.Format(summary.TotalReceived, localeFlag))
	fmt.Printf("Balance:        %s\n", money.Format(summary.Balance, localeFlag))

	printBoard("Top donors", reporting.Rank(matched, domain.DonationGiven, topFlag), localeFlag)
	printBoard("Top receivers", reporting.Rank(matched, domain.DonationReceived, topFlag), localeFlag)

	p := filtered.Page
	fmt.Printf("\nRecords %d-%d of %d (page %d/%d, %d given, %d received)\n",
		min(p.TotalItems, (p.Page-1)*p.PageSize+1), min(p.TotalItems, p.Page*p.PageSize), p.TotalItems,
		p.Page, max(p.TotalPages, 1), filtered.GivenCount, filtered.ReceivedCount)
	for _, d := range p.Items {
		fmt.Printf("%s  %-8s %16s  %s -> %s", d.DonatedAt.UTC().Format("2006-01-02"), d.Type,
			money.Format(d.Amount, localeFlag), d.DonorName, d.RecipientName)
		if loc := d.LocationOrEmpty(); loc != "" {
			fmt.Printf(" (%s)", loc)
		}
		fmt.Println()
	}

	if exportFlag != "" {
		store, err := storage.NewFileStore(exportFlag)
		if err != nil {
			exitWithError(err)
		}
		now := time.Now()
		data, err := reporting.Export(all, filter, now)
		if err != nil {
			exitWithError(fmt.Errorf("failed to build export: %w", err))
		}
		path, err := store.Save(ctx, reporting.ExportFilename(now), data, overwrite)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("\nExport written to %s\n", path)
	}
}

func printBoard(title string, entries []domain.LeaderboardEntry, locale string) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("\n%s\n", title)
	for i, e := range entries {
		fmt.Printf("%2d. %-30s %s\n", i+1, e.Name, money.Format(e.Total, locale))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
