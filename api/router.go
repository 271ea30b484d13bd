package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rapidbounce/staypress/api/handler"
	"github.com/rapidbounce/staypress/api/middleware"
	"github.com/rapidbounce/staypress/config"
	"github.com/rapidbounce/staypress/pipeline"
	"github.com/rapidbounce/staypress/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, p *pipeline.Pipeline, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Scrape a single listing.
	protected.POST("/scrape", handler.Scrape(sc, cfg.Scraper))

	// Generate posts (sync, or async via webhook_url).
	protected.POST("/generate", handler.Generate(p))

	return r
}
