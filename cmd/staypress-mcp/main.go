package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the Staypress API request model.
type scrapeRequest struct {
	URL       string `json:"url"`
	Language  string `json:"language,omitempty"`
	FetchMode string `json:"fetch_mode,omitempty"`
}

// listingResponse mirrors the Staypress listing document.
type listingResponse struct {
	Status      string   `json:"status"`
	HotelName   *string  `json:"hotel_name"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	BookingURL  string   `json:"booking_url"`
	Message     string   `json:"message"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// generateRequest mirrors the Staypress generate API request model.
type generateRequest struct {
	BookingURL string `json:"booking_url"`
	WebsiteURL string `json:"website_url,omitempty"`
	Language   string `json:"language,omitempty"`
	MaxPosts   int    `json:"max_posts,omitempty"`
}

// generateResponse mirrors the Staypress generate API response model.
type generateResponse struct {
	Status string `json:"status"`
	Data   []struct {
		ImageURL string   `json:"image_url"`
		Caption  string   `json:"caption"`
		Hashtags []string `json:"hashtags"`
	} `json:"data"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("STAYPRESS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("STAYPRESS_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "STAYPRESS_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"staypress",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	getBookingTool := mcp.NewTool("get_booking_data",
		mcp.WithDescription("Scrape a Booking.com hotel listing and return its name, description and full gallery image set. Drives a headless browser through the photo gallery, so expect a few minutes per listing."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The Booking.com listing URL"),
		),
		mcp.WithString("language",
			mcp.Description("Listing locale: 'en' (default) or 'el'"),
			mcp.Enum("en", "el"),
		),
		mcp.WithString("fetch_mode",
			mcp.Description("'browser' (default, full gallery) or 'http' (fast, thumbnails only)"),
			mcp.Enum("browser", "http"),
		),
	)
	s.AddTool(getBookingTool, handleGetBookingData(apiURL, apiKey))

	generatePostsTool := mcp.NewTool("generate_posts",
		mcp.WithDescription("Scrape a Booking.com hotel listing and generate ready-to-publish social media posts (image + caption + hashtags) from its gallery."),
		mcp.WithString("booking_url",
			mcp.Required(),
			mcp.Description("The Booking.com listing URL"),
		),
		mcp.WithString("website_url",
			mcp.Description("The hotel's own website, used as extra caption context"),
		),
		mcp.WithString("language",
			mcp.Description("Listing locale: 'en' (default) or 'el'"),
			mcp.Enum("en", "el"),
		),
		mcp.WithNumber("max_posts",
			mcp.Description("Maximum number of posts to generate (default: 10)"),
		),
	)
	s.AddTool(generatePostsTool, handleGeneratePosts(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Staypress API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleGetBookingData(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := scrapeRequest{
			URL:       url,
			Language:  request.GetString("language", ""),
			FetchMode: request.GetString("fetch_mode", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var listing listingResponse
		if err := json.Unmarshal(respBody, &listing); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if listing.Status != "success" {
			errMsg := "scrape failed"
			if listing.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", listing.Error.Code, listing.Error.Message)
			} else if listing.Message != "" {
				errMsg = listing.Message
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		name := "(not found)"
		if listing.HotelName != nil {
			name = *listing.HotelName
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Hotel: %s\nURL: %s\n\n%s\n\n", name, listing.BookingURL, listing.Description))
		sb.WriteString(fmt.Sprintf("Images (%d):\n", len(listing.ImageURLs)))
		for _, u := range listing.ImageURLs {
			sb.WriteString(u + "\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleGeneratePosts(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bookingURL, err := request.RequireString("booking_url")
		if err != nil {
			return mcp.NewToolResultError("booking_url is required"), nil
		}

		reqBody := generateRequest{
			BookingURL: bookingURL,
			WebsiteURL: request.GetString("website_url", ""),
			Language:   request.GetString("language", ""),
		}
		if v, ok := request.GetArguments()["max_posts"].(float64); ok {
			reqBody.MaxPosts = int(v)
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/generate", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("generate request failed: %v", err)), nil
		}

		var genResp generateResponse
		if err := json.Unmarshal(respBody, &genResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if genResp.Status != "success" {
			errMsg := "post generation failed"
			if genResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", genResp.Error.Code, genResp.Error.Message)
			} else if genResp.Message != "" {
				errMsg = genResp.Message
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Generated %d posts:\n\n", len(genResp.Data)))
		for i, post := range genResp.Data {
			sb.WriteString(fmt.Sprintf("--- Post %d ---\nImage: %s\nCaption: %s\nHashtags: %s\n\n",
				i+1, post.ImageURL, post.Caption, strings.Join(post.Hashtags, " ")))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
