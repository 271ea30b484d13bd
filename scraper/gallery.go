package scraper

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/rapidbounce/staypress/booking"
	"github.com/rapidbounce/staypress/models"
)

// Selectors for the Booking.com property page and its photo gallery. The
// gallery is lazy-loaded and paginated client-side; a static fetch only
// exposes a handful of thumbnails.
const (
	selPhotoGrid   = "div.nha_large_photo_main_content"
	selGalleryTile = "div[data-testid='gallery-modal-grid'] div"
	selCounter     = "div[data-testid='gallery-single-view-counter-text'] div"
	selCurrentImg  = "div[data-testid='gallery-single-view'] picture img"
)

// reCounterTotal pulls the total out of the gallery's "current / total" label.
var reCounterTotal = regexp.MustCompile(`/\s*(\d+)`)

// Gallery interaction step names, recorded in ListingResult.DegradedSteps
// when the step fails without aborting the scrape.
const (
	stepOpenPreview = "open_preview"
	stepOpenGallery = "open_gallery"
	stepCounter     = "read_counter"
	stepHarvest     = "harvest"
)

// ScrapeListing drives one headless-browser session through the listing
// page's gallery and returns the assembled result.
//
// Step sequence (each step after navigation is independently fault-tolerant):
//
//  1. Navigate + load settle     – fatal on error, nothing to extract
//  2. Open the photo preview     – click the main photo block
//  3. Open the full gallery      – click the first modal-grid tile
//  4. Read the "n / total" label – fallback bound when unreadable
//  5. Harvest loop               – read src, dedup, click-advance, settle
//  6. Static parse               – hotel name + description from final HTML
//
// Only navigation failure returns a non-nil error; every later failure
// degrades the result and is logged to the diagnostic stream.
func (s *Scraper) ScrapeListing(ctx context.Context, rawURL, language string) (*models.ListingResult, error) {
	targetURL := booking.RewriteLanguage(rawURL, language)

	// ── Timeout guard ───────────────────────────────────────────────
	ctx, cancel := ensureDeadline(ctx, s.scraperCfg.DefaultTimeout)
	defer cancel()

	// ── Acquire page from pool ──────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// Reset via the ORIGINAL page reference so cleanup succeeds even after
	// the request context has expired. Guarantees pool return on all paths.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	// ── Stealth injection (before navigation) ───────────────────────
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	// ── Bind request context to page ────────────────────────────────
	p := page.Context(ctx)

	// Match the request headers to the locale we rewrote the URL to.
	setHeaders := proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(map[string]string{
		"Accept-Language": acceptLanguage(language),
	})}
	if headerErr := setHeaders.Call(p); headerErr != nil {
		slog.Warn("failed to set extra headers", "error", headerErr)
	}

	// ── 1. Navigate + settle ────────────────────────────────────────
	if navErr := p.Navigate(targetURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to listing page failed")
	}
	settle(ctx, s.galleryCfg.LoadSettle)

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = targetURL
	}
	result := models.NewListingResult(finalURL, booking.CanonicalizePtr(finalURL))

	// ── 2. Open the photo preview overlay ───────────────────────────
	runStep(result, stepOpenPreview, func() error {
		if err := clickFirst(p, selPhotoGrid); err != nil {
			return err
		}
		settle(ctx, s.galleryCfg.StepSettle)
		return nil
	})

	// ── 3. Open the full paginated gallery ──────────────────────────
	runStep(result, stepOpenGallery, func() error {
		if err := clickFirst(p, selGalleryTile); err != nil {
			return err
		}
		settle(ctx, s.galleryCfg.StepSettle)
		return nil
	})

	// ── 4. Discover the harvest bound ───────────────────────────────
	total := s.galleryCfg.FallbackTotal
	runStep(result, stepCounter, func() error {
		el, err := p.Element(selCounter)
		if err != nil {
			return err
		}
		text, err := el.Text()
		if err != nil {
			return err
		}
		n, err := parseGalleryTotal(text)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	slog.Info("gallery bound discovered", "total", total, "url", targetURL)

	// ── 5. Harvest loop ─────────────────────────────────────────────
	// Exactly total iterations, no stop-on-repeat: a gallery shorter than
	// advertised just absorbs extra clicks. A single failed read is logged
	// and the loop moves on.
	images := newImageSet(total)
	harvestFailed := true
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			slog.Warn("harvest loop stopped early", "iteration", i, "error", ctx.Err())
			break
		}

		src, err := s.readCurrentImage(p)
		switch {
		case err != nil:
			slog.Warn("image read failed", "iteration", i, "error", err)
		case images.Add(src):
			harvestFailed = false
			slog.Debug("image harvested", "n", images.Len(), "total", total, "src", src)
		}

		if err := s.advanceGallery(p); err != nil {
			slog.Warn("gallery advance failed", "iteration", i, "error", err)
		}
		settle(ctx, s.galleryCfg.AdvanceSettle)
	}
	result.ImageURLs = images.URLs()
	if harvestFailed {
		result.DegradedSteps = append(result.DegradedSteps, stepHarvest)
		result.Message = "no hotel images found"
	}

	// ── 6. Static parse of the final rendered page ──────────────────
	html, htmlErr := p.HTML()
	if htmlErr != nil {
		slog.Warn("failed to snapshot rendered page", "error", htmlErr)
		result.Normalize()
		return result, nil
	}
	name, description := parseListing(html)
	result.HotelName = name
	result.Description = description

	result.Normalize()
	return result, nil
}

// readCurrentImage returns the src of the full-size image currently shown
// in the gallery single view.
func (s *Scraper) readCurrentImage(p *rod.Page) (string, error) {
	el, err := p.Element(selCurrentImg)
	if err != nil {
		return "", err
	}
	src, err := el.Attribute("src")
	if err != nil {
		return "", err
	}
	if src == nil {
		return "", nil
	}
	return *src, nil
}

// advanceGallery clicks the fixed viewport point that flips the gallery to
// the next image. The gallery has no stable next-button selector across
// experiments, but a click on the image area always advances.
func (s *Scraper) advanceGallery(p *rod.Page) error {
	if err := p.Mouse.MoveTo(proto.NewPoint(float64(s.galleryCfg.AdvanceX), float64(s.galleryCfg.AdvanceY))); err != nil {
		return err
	}
	return p.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

// runStep executes one fault-tolerant gallery step. A failure is logged,
// recorded on the result and swallowed; control flow continues.
func runStep(result *models.ListingResult, name string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("gallery step degraded", "step", name, "error", err)
		result.DegradedSteps = append(result.DegradedSteps, name)
	}
}

// clickFirst clicks the first element matching the selector.
func clickFirst(p *rod.Page, selector string) error {
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// parseGalleryTotal extracts the total from a "current / total" counter label.
func parseGalleryTotal(text string) (int, error) {
	m := reCounterTotal.FindStringSubmatch(text)
	if m == nil {
		return 0, errors.New("counter label has no total: " + strconv.Quote(text))
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, errors.New("counter total is not a positive number: " + strconv.Quote(text))
	}
	return n, nil
}

// ensureDeadline applies the default scrape timeout only when the caller
// did not already bound the context. A caller-supplied deadline always wins,
// even when it is later than the default.
func ensureDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// settle waits the fixed duration, returning early when ctx expires. The
// fixed delay substitutes for a readiness signal the target page never gives.
func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// acceptLanguage maps the listing locale to the Accept-Language header sent
// with every page request.
func acceptLanguage(language string) string {
	if strings.EqualFold(language, "el") {
		return "el-GR,el;q=0.9,en;q=0.5"
	}
	return "en-GB,en;q=0.9"
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
