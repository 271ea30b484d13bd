package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the Booking.com listing page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// Language selects the listing locale. Allowed: "en" (default), "el".
	// When the URL carries the other locale's filename suffix it is
	// rewritten before navigation.
	Language string `json:"language,omitempty" binding:"omitempty,oneof=en el"`

	// FetchMode controls the fetching strategy.
	// "browser" (default): full gallery walk in headless Chrome.
	// "http": single static fetch, thumbnail images only (no Chrome needed).
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=browser http"`

	// Timeout is the maximum duration in seconds for the entire scrape
	// operation. Default: 180. Max: 600.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=600"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Language == "" {
		r.Language = "en"
	}
	if r.FetchMode == "" {
		r.FetchMode = "browser"
	}
	if r.Timeout == 0 {
		r.Timeout = 180
	}
}

// GenerateRequest is the payload for POST /api/v1/generate.
type GenerateRequest struct {
	// BookingURL is the Booking.com listing to build posts from. Required.
	BookingURL string `json:"booking_url" binding:"required,url"`

	// WebsiteURL optionally adds the hotel's own website as caption context.
	WebsiteURL string `json:"website_url,omitempty" binding:"omitempty,url"`

	// Language selects the listing locale, as in ScrapeRequest.
	Language string `json:"language,omitempty" binding:"omitempty,oneof=en el"`

	// MaxPosts caps how many posts are generated. Default: 10.
	MaxPosts int `json:"max_posts,omitempty" binding:"omitempty,min=1,max=50"`

	// MaxAge, in milliseconds, allows serving a cached result no older
	// than this. 0 disables cache lookup.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	// WebhookURL switches the request to asynchronous mode: the API
	// returns a job id immediately and delivers the finished payload to
	// this URL.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// Defaults applies default values to unset fields.
func (r *GenerateRequest) Defaults() {
	if r.Language == "" {
		r.Language = "en"
	}
	if r.MaxPosts == 0 {
		r.MaxPosts = 10
	}
}
