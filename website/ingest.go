// Package website distills a hotel's own website into a short Markdown
// digest used as extra context for caption generation. Everything here is
// best-effort: a failing website never fails the pipeline.
package website

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	nurl "net/url"
	"strings"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/rapidbounce/staypress/config"
)

// minContentLength is the minimum readability TextContent length (in
// characters) to be considered a real extraction. Below it we assume the
// algorithm missed the main content and fall back to the raw page.
const minContentLength = 50

// Ingester fetches and distills hotel websites.
// The markdown converter is created once and reused (goroutine-safe).
type Ingester struct {
	httpClient  *http.Client
	mdConverter *converter.Converter
	cfg         config.WebsiteConfig
}

// NewIngester creates an Ingester. Pass nil to use a default http.Client.
func NewIngester(httpClient *http.Client, cfg config.WebsiteConfig) *Ingester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Ingester{
		httpClient: httpClient,
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		cfg: cfg,
	}
}

// Digest fetches websiteURL and returns its main content as truncated
// Markdown. Any failure returns "" — callers treat an empty digest as
// "no website context available".
func (in *Ingester) Digest(ctx context.Context, websiteURL string) string {
	rawHTML, err := in.fetch(ctx, websiteURL)
	if err != nil {
		slog.Warn("website fetch failed", "url", websiteURL, "error", err)
		return ""
	}

	if in.cfg.ContentSelector != "" {
		if filtered, err := applySelector(rawHTML, in.cfg.ContentSelector); err == nil {
			rawHTML = filtered
		} else {
			slog.Warn("website content selector failed", "selector", in.cfg.ContentSelector, "error", err)
		}
	}

	content := in.extract(rawHTML, websiteURL)

	md, err := in.mdConverter.ConvertString(content, converter.WithDomain(websiteURL))
	if err != nil {
		slog.Warn("website markdown conversion failed", "url", websiteURL, "error", err)
		return ""
	}

	return truncate(strings.TrimSpace(md), in.cfg.MaxDigestChars)
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
// max <= 0 means no limit.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// fetch retrieves the website HTML with a plain GET.
func (in *Ingester) fetch(ctx context.Context, websiteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := in.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024)) // 5 MB cap
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extract runs the Mozilla Readability algorithm on rawHTML, falling back
// to the raw page when extraction fails or yields too little text.
func (in *Ingester) extract(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return rawHTML
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability extraction failed, using raw HTML", "url", sourceURL, "error", err)
		return rawHTML
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability content too short, using raw HTML",
			"url", sourceURL, "length", len(article.TextContent))
		return rawHTML
	}
	return article.Content
}
