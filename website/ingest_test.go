package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rapidbounce/staypress/config"
)

const hotelSiteHTML = `<html><head><title>Aegean View</title></head><body>
<nav><a href="/rooms">Rooms</a><a href="/contact">Contact</a></nav>
<article>
<h1>Welcome to Aegean View</h1>
<p>Family-run since 1987, our hotel sits above the caldera with twelve
sea-view rooms, a salt-water pool and a breakfast terrace serving local
produce every morning from seven until eleven.</p>
<p>Guests can book sailing trips, wine tastings and sunset dinners at the
front desk. The old port is a ten minute walk downhill.</p>
</article>
<footer>© Aegean View</footer>
</body></html>`

func TestDigest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(hotelSiteHTML))
	}))
	defer srv.Close()

	in := NewIngester(srv.Client(), config.WebsiteConfig{MaxDigestChars: 4000})
	digest := in.Digest(context.Background(), srv.URL)

	if digest == "" {
		t.Fatal("expected a non-empty digest")
	}
	if !strings.Contains(digest, "Family-run since 1987") {
		t.Errorf("digest missing main content: %q", digest)
	}
}

func TestDigest_Truncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(hotelSiteHTML))
	}))
	defer srv.Close()

	in := NewIngester(srv.Client(), config.WebsiteConfig{MaxDigestChars: 40})
	digest := in.Digest(context.Background(), srv.URL)
	if len(digest) > 40 {
		t.Errorf("digest length %d exceeds cap 40", len(digest))
	}
}

func TestDigest_FetchFailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	srv.Close() // connection refused

	in := NewIngester(nil, config.WebsiteConfig{})
	if digest := in.Digest(context.Background(), srv.URL); digest != "" {
		t.Errorf("expected empty digest on fetch failure, got %q", digest)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	s := "Καλωσήρθατε στο ξενοδοχείο" // 2-byte runes

	for max := 1; max < len(s); max++ {
		got := truncate(s, max)
		if len(got) > max {
			t.Fatalf("truncate(%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%d) split a rune: %q", max, got)
		}
	}

	if got := truncate("short", 100); got != "short" {
		t.Errorf("under-limit string altered: %q", got)
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Errorf("max 0 must mean unlimited, got %q", got)
	}
}

func TestApplySelector(t *testing.T) {
	got, err := applySelector(hotelSiteHTML, "article")
	if err != nil {
		t.Fatalf("applySelector: %v", err)
	}
	if !strings.Contains(got, "Welcome to Aegean View") {
		t.Errorf("selector result missing article content")
	}
	if strings.Contains(got, "<nav>") {
		t.Errorf("selector result still contains nav")
	}
}

func TestApplySelector_NoMatchFallsBack(t *testing.T) {
	got, err := applySelector(hotelSiteHTML, "#does-not-exist")
	if err != nil {
		t.Fatalf("applySelector: %v", err)
	}
	if got != hotelSiteHTML {
		t.Error("no-match case should return input unchanged")
	}
}

func TestApplySelector_BadSelector(t *testing.T) {
	if _, err := applySelector(hotelSiteHTML, "[[["); err == nil {
		t.Fatal("expected parse error for invalid selector")
	}
}
