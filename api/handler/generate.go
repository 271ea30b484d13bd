package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidbounce/staypress/models"
	"github.com/rapidbounce/staypress/pipeline"
)

// Generate returns a handler for POST /api/v1/generate.
//
// Synchronous mode runs the full pipeline and returns the finished posts.
// When webhook_url is set the request is accepted immediately with a job id
// and the payload is delivered to the webhook when the pipeline finishes.
func Generate(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GenerateRequest
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

		if req.WebhookURL != "" {
			jobID := p.GenerateAsync(&req)
			c.JSON(http.StatusAccepted, models.JobResponse{
				ID:     jobID,
				Status: "accepted",
			})
			return
		}

		resp := p.Generate(c.Request.Context(), &req)
		if resp.Status != models.StatusSuccess {
			status := http.StatusInternalServerError
			if resp.Error != nil {
				status = mapErrorToStatus(&models.ScrapeError{Code: resp.Error.Code})
			}
			c.JSON(status, resp)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
