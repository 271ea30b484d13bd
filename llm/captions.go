// Package llm drafts social media captions via an OpenAI-compatible
// chat-completions API. It uses net/http directly — no third-party SDK needed.
package llm

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

// Client is a lightweight chat-completions client for caption generation.
type Client struct {
	httpClient *http.Client
	cfg        config.LLMConfig
}

// NewClient creates a new LLM client with the given http.Client.
// Pass nil to use a default client.
func NewClient(httpClient *http.Client, cfg config.LLMConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// CaptionInput is everything the caption prompt is built from.
type CaptionInput struct {
	HotelName     string
	Description   string
	WebsiteDigest string
	Images        []models.TaggedImage
	MaxPosts      int
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the minimal chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// postsEnvelope is the JSON object the model is instructed to return.
type postsEnvelope struct {
	Posts []models.Post `json:"posts"`
}

// GeneratePosts asks the model for one caption + hashtag set per image and
// returns them in image order.
func (c *Client) GeneratePosts(ctx context.Context, input CaptionInput) ([]models.Post, error) {
	userPrompt, err := buildUserPrompt(input)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyLLMError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeLLMFailure, "failed to parse LLM response", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	var envelope postsEnvelope
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &envelope); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeLLMFailure, "LLM returned invalid posts JSON", err)
	}

	return sanitizePosts(envelope.Posts, input), nil
}

const systemPrompt = `You are a hospitality social media copywriter. For each image you are given, write one Instagram-ready post.

Return ONLY a JSON object of this exact shape, no markdown fences or explanation:
{"posts": [{"image_url": "...", "caption": "...", "hashtags": ["#...", "#..."]}]}

Rules:
- One post per image, in the order the images are given.
- Captions are 1-2 sentences, warm and concrete, grounded in the image tags and the hotel description. Never invent amenities.
- 5-8 hashtags per post, each starting with '#', mixing the hotel's location and the image content.`

// buildUserPrompt renders the hotel context and image list as the user turn.
func buildUserPrompt(input CaptionInput) (string, error) {
	imagesJSON, err := json.Marshal(input.Images)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hotel: %s\n\nDescription:\n%s\n", input.HotelName, input.Description)
	if input.WebsiteDigest != "" {
		fmt.Fprintf(&b, "\nFrom the hotel's website:\n%s\n", input.WebsiteDigest)
	}
	fmt.Fprintf(&b, "\nImages (with vision tags):\n%s\n", imagesJSON)
	if input.MaxPosts > 0 {
		fmt.Fprintf(&b, "\nGenerate at most %d posts.\n", input.MaxPosts)
	}
	return b.String(), nil
}

// sanitizePosts drops posts for images we never sent, fills missing image
// URLs positionally and enforces the MaxPosts cap.
func sanitizePosts(posts []models.Post, input CaptionInput) []models.Post {
	known := make(map[string]struct{}, len(input.Images))
	for _, img := range input.Images {
		known[img.ImageURL] = struct{}{}
	}

	out := []models.Post{}
	for i, p := range posts {
		if p.ImageURL == "" && i < len(input.Images) {
			p.ImageURL = input.Images[i].ImageURL
		}
		if _, ok := known[p.ImageURL]; !ok {
			continue
		}
		if p.Hashtags == nil {
			p.Hashtags = []string{}
		}
		out = append(out, p)
		if input.MaxPosts > 0 && len(out) >= input.MaxPosts {
			break
		}
	}
	return out
}

// classifyLLMError maps HTTP status codes to appropriate error codes.
func classifyLLMError(statusCode int, body []byte) *models.ScrapeError {
	var errResp chatErrorResponse
	msg := "LLM API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewScrapeError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewScrapeError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewScrapeError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), nil)
	}
}
