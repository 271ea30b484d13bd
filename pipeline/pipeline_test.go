package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/models"
	"github.com/rapidbounce/staypress/vision"
)

func TestTagImages_NoVisionClient(t *testing.T) {
	p := &Pipeline{cfg: &config.Config{}}

	tagged := p.tagImages(context.Background(), []string{"https://x/1.jpg", "https://x/2.jpg"})
	if len(tagged) != 2 {
		t.Fatalf("expected 2 tagged images, got %d", len(tagged))
	}
	for _, ti := range tagged {
		if ti.Tags == nil {
			t.Errorf("tags for %s must be empty, not nil", ti.ImageURL)
		}
		if len(ti.Tags) != 0 {
			t.Errorf("unexpected tags for %s: %v", ti.ImageURL, ti.Tags)
		}
	}
}

func TestTagImages_FailureDegradesToEmptyTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	vc := vision.NewClient(srv.Client(), config.VisionConfig{APIKey: "k", Endpoint: srv.URL})
	p := &Pipeline{
		vision: vc,
		cfg:    &config.Config{Vision: config.VisionConfig{MaxConcurrent: 2}},
	}

	tagged := p.tagImages(context.Background(), []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"})
	if len(tagged) != 3 {
		t.Fatalf("expected 3 tagged images, got %d", len(tagged))
	}
	for i, ti := range tagged {
		if len(ti.Tags) != 0 {
			t.Errorf("image %d: expected zero tags after tagging failure, got %v", i, ti.Tags)
		}
	}
}

func TestTagImages_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"responses":[{"labelAnnotations":[{"description":"Pool","score":0.9}]}]}`))
	}))
	defer srv.Close()

	vc := vision.NewClient(srv.Client(), config.VisionConfig{APIKey: "k", Endpoint: srv.URL})
	p := &Pipeline{
		vision: vc,
		cfg:    &config.Config{Vision: config.VisionConfig{MaxConcurrent: 4}},
	}

	urls := []string{"https://x/a.jpg", "https://x/b.jpg", "https://x/c.jpg"}
	tagged := p.tagImages(context.Background(), urls)
	for i, u := range urls {
		if tagged[i].ImageURL != u {
			t.Errorf("position %d: got %s, want %s", i, tagged[i].ImageURL, u)
		}
		if len(tagged[i].Tags) != 1 || tagged[i].Tags[0] != "Pool" {
			t.Errorf("position %d: unexpected tags %v", i, tagged[i].Tags)
		}
	}
}

func TestCacheKey_CanonicalEquivalence(t *testing.T) {
	p := &Pipeline{}

	a := p.cacheKey(&models.GenerateRequest{
		BookingURL: "https://www.booking.com/hotel/gr/example.en-gb.html",
		Language:   "en",
	})
	b := p.cacheKey(&models.GenerateRequest{
		BookingURL: "HTTP://M.BOOKING.COM/hotel/gr/EXAMPLE.en-gb.html?aid=42#photos",
		Language:   "en",
	})
	if a != b {
		t.Error("surface variants of the same listing must share one cache key")
	}

	el := p.cacheKey(&models.GenerateRequest{
		BookingURL: "https://www.booking.com/hotel/gr/example.en-gb.html",
		Language:   "el",
	})
	if a == el {
		t.Error("different languages must not share a cache key")
	}
}

func TestErrorResponse_Shape(t *testing.T) {
	scrapeErr := models.NewScrapeError(models.ErrCodeTimeout, "scrape timed out", context.DeadlineExceeded)
	resp := errorResponse(scrapeErr, nil, models.TimingInfo{ScrapeMs: 1200})

	if resp.Status != models.StatusError {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Error("data must be an empty, non-nil slice")
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeTimeout {
		t.Errorf("error detail = %+v, want code %s", resp.Error, models.ErrCodeTimeout)
	}
	if resp.Timing.ScrapeMs != 1200 {
		t.Errorf("scrape_ms = %d, want 1200", resp.Timing.ScrapeMs)
	}
}

func TestErrorResponse_WrapsPlainErrors(t *testing.T) {
	resp := errorResponse(context.Canceled, nil, models.TimingInfo{})
	if resp.Error == nil || resp.Error.Code != models.ErrCodeInternal {
		t.Errorf("plain errors must map to %s, got %+v", models.ErrCodeInternal, resp.Error)
	}
}

func TestNewJobID(t *testing.T) {
	a, b := newJobID(), newJobID()
	if len(a) != 32 {
		t.Errorf("job id length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("job ids must be unique")
	}
}
