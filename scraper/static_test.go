package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rapidbounce/staypress/config"
)

func TestScrapeListingStatic_ReportsRedirectedURL(t *testing.T) {
	const finalPath = "/hotel/gr/aegean-view.en-gb.html"

	mux := http.NewServeMux()
	mux.HandleFunc("/old-listing", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, finalPath, http.StatusMovedPermanently)
	})
	mux.HandleFunc(finalPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := &Scraper{
		httpFetcher: newHTTPFetcher(""),
		galleryCfg:  config.GalleryConfig{FallbackTotal: 50},
		scraperCfg:  config.ScraperConfig{DefaultTimeout: 30 * time.Second},
	}

	result, err := s.ScrapeListingStatic(context.Background(), srv.URL+"/old-listing", "en")
	if err != nil {
		t.Fatalf("ScrapeListingStatic: %v", err)
	}

	if result.BookingURL == nil || !strings.HasSuffix(*result.BookingURL, finalPath) {
		t.Errorf("BookingURL = %v, want the post-redirect URL ending in %s", result.BookingURL, finalPath)
	}
	if result.HotelName == nil || *result.HotelName != "Aegean View Hotel" {
		t.Errorf("HotelName = %v", result.HotelName)
	}
	if len(result.ImageURLs) != 2 {
		t.Errorf("ImageURLs = %v, want the 2 distinct hotel CDN images", result.ImageURLs)
	}
}

func TestScrapeListingStatic_FetchFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	s := &Scraper{
		httpFetcher: newHTTPFetcher(""),
		galleryCfg:  config.GalleryConfig{FallbackTotal: 50},
		scraperCfg:  config.ScraperConfig{DefaultTimeout: 30 * time.Second},
	}

	if _, err := s.ScrapeListingStatic(context.Background(), srv.URL, "en"); err == nil {
		t.Fatal("expected an error for an HTTP 403 fetch")
	}
}
