package models

// GenerateResponse is the response for POST /api/v1/generate.
type GenerateResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data holds the generated posts; empty on error.
	Data []Post `json:"data"`

	// Listing is the scrape result the posts were built from.
	Listing *ListingResult `json:"listing,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Message carries a human-readable diagnostic on error paths.
	Message string `json:"message,omitempty"`

	// Error is populated only when Status is "error".
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is the generic error envelope for endpoints that have no
// richer payload to attach.
type ErrorResponse struct {
	Status string       `json:"status"` // always "error"
	Error  *ErrorDetail `json:"error"`
	Timing *TimingInfo  `json:"timing,omitempty"`
}

// JobResponse is the immediate response for an asynchronous generate request.
type JobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "accepted"
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent driving the listing page.
	ScrapeMs int64 `json:"scrape_ms"`

	// TaggingMs is the time spent in the image-tagging fan-out.
	TaggingMs int64 `json:"tagging_ms"`

	// CaptionMs is the time spent on caption generation.
	CaptionMs int64 `json:"caption_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
