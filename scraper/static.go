package scraper

import (
	"context"
	"log/slog"

	"github.com/rapidbounce/staypress/booking"
	"github.com/rapidbounce/staypress/models"
)

// ScrapeListingStatic is the no-browser fallback path: one plain-HTTP fetch
// of the listing page, then static parsing only. Without JS rendering the
// gallery never materialises, so the harvest is limited to the CDN-hosted
// thumbnails present in the initial markup.
func (s *Scraper) ScrapeListingStatic(ctx context.Context, rawURL, language string) (*models.ListingResult, error) {
	targetURL := booking.RewriteLanguage(rawURL, language)

	ctx, cancel := ensureDeadline(ctx, s.scraperCfg.DefaultTimeout)
	defer cancel()

	body, finalURL, err := s.httpFetcher.fetch(ctx, targetURL)
	if err != nil {
		return nil, categorizeError(err, "static fetch of listing page failed")
	}
	if finalURL == "" {
		finalURL = targetURL
	}

	result := models.NewListingResult(finalURL, booking.CanonicalizePtr(finalURL))

	html := string(body)
	name, description := parseListing(html)
	result.HotelName = name
	result.Description = description

	result.ImageURLs = staticImageURLs(html, s.galleryCfg.FallbackTotal)
	if len(result.ImageURLs) == 0 {
		result.DegradedSteps = append(result.DegradedSteps, stepHarvest)
		result.Message = "no hotel images found"
	}
	slog.Info("static scrape complete",
		"url", finalURL,
		"images", len(result.ImageURLs),
	)

	result.Normalize()
	return result, nil
}
