// Package vision tags hotel photos via the Google Cloud Vision REST API.
// It uses net/http directly — no cloud SDK needed for one endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/models"
)

// Confidence floors below which annotations are dropped as noise.
const (
	minLabelScore  = 0.75
	minObjectScore = 0.6
)

// Client calls the images:annotate endpoint.
type Client struct {
	httpClient *http.Client
	cfg        config.VisionConfig
}

// NewClient creates a vision client. Pass nil to use a default http.Client.
func NewClient(httpClient *http.Client, cfg config.VisionConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// annotateRequest is the images:annotate request body.
type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Source struct {
		ImageURI string `json:"imageUri"`
	} `json:"source"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

// annotateResponse is the minimal images:annotate response we need.
type annotateResponse struct {
	Responses []annotateResult `json:"responses"`
}

type annotateResult struct {
	LabelAnnotations []struct {
		Description string  `json:"description"`
		Score       float64 `json:"score"`
	} `json:"labelAnnotations"`
	LocalizedObjectAnnotations []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	} `json:"localizedObjectAnnotations"`
	TextAnnotations []struct {
		Description string `json:"description"`
	} `json:"textAnnotations"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Tag analyzes one publicly reachable image URL and returns descriptive
// marketing tags: confident labels, confident localized objects and any
// single-word detected text.
func (c *Client) Tag(ctx context.Context, imageURL string) ([]string, error) {
	var entry annotateEntry
	entry.Image.Source.ImageURI = imageURL
	entry.Features = []annotateFeature{
		{Type: "LABEL_DETECTION", MaxResults: 10},
		{Type: "OBJECT_LOCALIZATION", MaxResults: 5},
		{Type: "TEXT_DETECTION", MaxResults: 5},
	}

	bodyBytes, err := json.Marshal(annotateRequest{Requests: []annotateEntry{entry}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.cfg.Endpoint
	if c.cfg.APIKey != "" {
		endpoint += "?key=" + c.cfg.APIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure, "vision request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure, "failed to read vision response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure,
			fmt.Sprintf("vision API returned %d", resp.StatusCode), nil)
	}

	var annotated annotateResponse
	if err := json.Unmarshal(respBody, &annotated); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure, "failed to parse vision response", err)
	}
	if len(annotated.Responses) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure, "vision returned no responses", nil)
	}

	r := annotated.Responses[0]
	if r.Error != nil {
		return nil, models.NewScrapeError(models.ErrCodeVisionFailure, r.Error.Message, nil)
	}

	return collectTags(r), nil
}

// collectTags merges the three annotation families into one deduplicated
// tag list, keeping the order annotations arrived in.
func collectTags(r annotateResult) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, l := range r.LabelAnnotations {
		if l.Score > minLabelScore {
			add(l.Description)
		}
	}
	for _, o := range r.LocalizedObjectAnnotations {
		if o.Score > minObjectScore {
			add(o.Name)
		}
	}
	// The first text annotation is the full text block; the rest are
	// individual words. Keep single words only.
	for i, t := range r.TextAnnotations {
		if i == 0 {
			continue
		}
		if !strings.Contains(t.Description, " ") {
			add(t.Description)
		}
	}

	return tags
}
