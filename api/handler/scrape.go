package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/models"
	"github.com/rapidbounce/staypress/scraper"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Browser mode: full gallery walk. HTTP mode: one static fetch.
//  3. Return the listing document, 200 even when extraction was partial;
//     only a failed page load maps to an error status.
func Scrape(sc *scraper.Scraper, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Status: models.StatusError,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		timeout := time.Duration(req.Timeout) * time.Second
		if timeout > cfg.MaxTimeout {
			timeout = cfg.MaxTimeout
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		var (
			result *models.ListingResult
			err    error
		)
		if req.FetchMode == "http" {
			result, err = sc.ScrapeListingStatic(ctx, req.URL, req.Language)
		} else {
			result, err = sc.ScrapeListing(ctx, req.URL, req.Language)
		}

		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	scrapeErr, ok := err.(*models.ScrapeError)
	if !ok {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.ErrorResponse{
		Status: models.StatusError,
		Error:  scrapeErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited, models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
