// Command staypress-scrape scrapes one Booking.com listing and writes exactly
// one JSON result document to stdout. All diagnostics go to stderr, so the
// parent process can always json-decode stdout regardless of outcome.
//
// Exit code 0 means the listing document has status "success"; any failure
// (bad arguments, browser launch, navigation) still emits a well-formed
// error document before exiting 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rapidbounce/staypress/booking"
	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/models"
	"github.com/rapidbounce/staypress/scraper"
)

// errScrapeFailed signals that the error document was already emitted.
var errScrapeFailed = errors.New("scrape failed")

var (
	flagLanguage  string
	flagFetchMode string
	flagTimeout   int
)

func main() {
	initLogger()

	rootCmd := &cobra.Command{
		Use:   "staypress-scrape <booking-url>",
		Short: "Scrape a Booking.com listing into one JSON document on stdout",
		Long: `Scrapes a Booking.com hotel listing page (name, description, full
gallery image set) and writes the result as a single JSON document to
stdout. Diagnostics are logged to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&flagLanguage, "language", "l", "en", "listing locale: en or el")
	rootCmd.Flags().StringVar(&flagFetchMode, "fetch-mode", "browser", "fetching strategy: browser or http")
	rootCmd.Flags().IntVarP(&flagTimeout, "timeout", "t", 0, "overall timeout in seconds (default from config)")

	if err := rootCmd.Execute(); err != nil {
		// Argument and flag errors never reach run(), so the output
		// contract still owes the caller a document.
		if !errors.Is(err, errScrapeFailed) {
			emit(models.NewListingError("", nil, err.Error()))
		}
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	rawURL := args[0]
	cfg := config.Load()

	timeout := cfg.Scraper.DefaultTimeout
	if flagTimeout > 0 {
		timeout = time.Duration(flagTimeout) * time.Second
	}
	if timeout > cfg.Scraper.MaxTimeout {
		timeout = cfg.Scraper.MaxTimeout
	}

	sc, err := scraper.NewScraper(cfg.Browser, cfg.Gallery, cfg.Scraper)
	if err != nil {
		slog.Error("browser launch failed", "error", err)
		emit(models.NewListingError(rawURL, booking.CanonicalizePtr(rawURL), err.Error()))
		return errScrapeFailed
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var result *models.ListingResult
	if flagFetchMode == "http" {
		result, err = sc.ScrapeListingStatic(ctx, rawURL, flagLanguage)
	} else {
		result, err = sc.ScrapeListing(ctx, rawURL, flagLanguage)
	}
	if err != nil {
		slog.Error("scrape failed", "url", rawURL, "error", err)
		message := err.Error()
		var scrapeErr *models.ScrapeError
		if errors.As(err, &scrapeErr) {
			message = scrapeErr.Message
		}
		emit(models.NewListingError(rawURL, booking.CanonicalizePtr(rawURL), message))
		return errScrapeFailed
	}

	emit(result)
	return nil
}

// emit writes the single output document to stdout.
func emit(result *models.ListingResult) {
	result.Normalize()
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(result); err != nil {
		slog.Error("failed to encode result", "error", err)
	}
}

// initLogger routes all diagnostics to stderr; stdout is reserved for the
// result document.
func initLogger() {
	level := slog.LevelInfo
	if os.Getenv("STAYPRESS_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
