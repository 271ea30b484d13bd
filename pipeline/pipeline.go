// Package pipeline orchestrates a generate request end to end: scrape the
// listing, optionally distill the hotel's own website, tag the harvested
// images, and turn the lot into ready-to-publish posts.
package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rapidbounce/staypress/booking"
	"github.com/rapidbounce/staypress/cache"
	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/llm"
	"github.com/rapidbounce/staypress/models"
	"github.com/rapidbounce/staypress/scraper"
	"github.com/rapidbounce/staypress/vision"
	"github.com/rapidbounce/staypress/webhook"
	"github.com/rapidbounce/staypress/website"
)

// Pipeline wires the scraper, tagging, caption and website clients together.
type Pipeline struct {
	scraper  *scraper.Scraper
	vision   *vision.Client
	llm      *llm.Client
	website  *website.Ingester
	cache    *cache.Cache
	cfg      *config.Config
	whSecret string
}

// New creates a Pipeline. vision, llm, website and cache may be nil; the
// corresponding phase is then skipped (vision/website) or mandatory
// components fail fast (llm).
func New(sc *scraper.Scraper, vc *vision.Client, lc *llm.Client, wi *website.Ingester, ca *cache.Cache, cfg *config.Config, webhookSecret string) *Pipeline {
	return &Pipeline{
		scraper:  sc,
		vision:   vc,
		llm:      lc,
		website:  wi,
		cache:    ca,
		cfg:      cfg,
		whSecret: webhookSecret,
	}
}

// Generate runs the full pipeline synchronously and always returns a
// well-formed response; errors are carried inside it, never as a bare error.
func (p *Pipeline) Generate(ctx context.Context, req *models.GenerateRequest) *models.GenerateResponse {
	req.Defaults()
	start := time.Now()

	cacheKey := p.cacheKey(req)
	if p.cache != nil {
		if cached, ok := p.cache.Get(cacheKey, req.MaxAge); ok {
			slog.Info("generate served from cache", "booking_url", req.BookingURL)
			hit := *cached
			hit.CacheStatus = "hit"
			return &hit
		}
	}

	resp := p.run(ctx, req)
	resp.Timing.TotalMs = time.Since(start).Milliseconds()
	if req.MaxAge > 0 {
		resp.CacheStatus = "miss"
	}

	if p.cache != nil && resp.Status == models.StatusSuccess {
		p.cache.Set(cacheKey, resp)
	}
	return resp
}

// GenerateAsync runs Generate in the background and delivers the finished
// payload to req.WebhookURL. The returned job id ties the webhook event back
// to the accepted request.
func (p *Pipeline) GenerateAsync(req *models.GenerateRequest) string {
	jobID := newJobID()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Scraper.MaxTimeout)
		defer cancel()

		resp := p.Generate(ctx, req)

		eventType := webhook.EventGenerateCompleted
		if resp.Status != models.StatusSuccess {
			eventType = webhook.EventGenerateFailed
		}
		webhook.DeliverAsync(req.WebhookURL, p.whSecret, &webhook.Event{
			Type:      eventType,
			JobID:     jobID,
			Timestamp: time.Now().Unix(),
			Data:      resp,
		})
	}()

	return jobID
}

func (p *Pipeline) run(ctx context.Context, req *models.GenerateRequest) *models.GenerateResponse {
	scrapeStart := time.Now()
	listing, err := p.scraper.ScrapeListing(ctx, req.BookingURL, req.Language)
	scrapeMs := time.Since(scrapeStart).Milliseconds()
	if err != nil {
		return errorResponse(err, listing, models.TimingInfo{ScrapeMs: scrapeMs})
	}

	// The website digest is pure bonus context. Fetch it while we have the
	// listing in hand; failures surface as an empty digest.
	var digest string
	if p.website != nil && req.WebsiteURL != "" {
		digest = p.website.Digest(ctx, req.WebsiteURL)
	}

	tagStart := time.Now()
	tagged := p.tagImages(ctx, listing.ImageURLs)
	taggingMs := time.Since(tagStart).Milliseconds()

	captionStart := time.Now()
	posts, err := p.llm.GeneratePosts(ctx, llm.CaptionInput{
		HotelName:     derefOr(listing.HotelName, ""),
		Description:   listing.Description,
		WebsiteDigest: digest,
		Images:        tagged,
		MaxPosts:      req.MaxPosts,
	})
	captionMs := time.Since(captionStart).Milliseconds()
	timing := models.TimingInfo{ScrapeMs: scrapeMs, TaggingMs: taggingMs, CaptionMs: captionMs}
	if err != nil {
		return errorResponse(err, listing, timing)
	}

	return &models.GenerateResponse{
		Status:  models.StatusSuccess,
		Data:    posts,
		Listing: listing,
		Timing:  timing,
	}
}

// tagImages runs the vision fan-out with bounded concurrency. A tagging
// failure on one image degrades that image to zero tags; it never fails the
// pipeline.
func (p *Pipeline) tagImages(ctx context.Context, imageURLs []string) []models.TaggedImage {
	tagged := make([]models.TaggedImage, len(imageURLs))
	for i, u := range imageURLs {
		tagged[i] = models.TaggedImage{ImageURL: u, Tags: []string{}}
	}
	if p.vision == nil || len(imageURLs) == 0 {
		return tagged
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Vision.MaxConcurrent)
	for i, u := range imageURLs {
		g.Go(func() error {
			tags, err := p.vision.Tag(gctx, u)
			if err != nil {
				slog.Warn("image tagging failed", "image_url", u, "error", err)
				return nil
			}
			tagged[i].Tags = tags
			return nil
		})
	}
	g.Wait() // workers never return errors
	return tagged
}

func (p *Pipeline) cacheKey(req *models.GenerateRequest) string {
	canon := booking.Canonicalize(req.BookingURL)
	if canon == "" {
		canon = req.BookingURL
	}
	return cache.Key(canon, req.Language)
}

func errorResponse(err error, listing *models.ListingResult, timing models.TimingInfo) *models.GenerateResponse {
	scrapeErr, ok := err.(*models.ScrapeError)
	if !ok {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}
	return &models.GenerateResponse{
		Status:  models.StatusError,
		Data:    []models.Post{},
		Listing: listing,
		Timing:  timing,
		Message: scrapeErr.Message,
		Error:   scrapeErr.ToDetail(),
	}
}

func newJobID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
