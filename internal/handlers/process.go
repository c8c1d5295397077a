package handlers

import (
	"fmt"
	"net/http"

	"ticketflow/internal/cache"
	"ticketflow/internal/models"
	"ticketflow/internal/pipeline"

	"github.com/labstack/echo/v4"
)

// ProcessTicketsHandler triggers ticket processing
// @Summary Process pending tickets
// @Description Run the classify, reply, deliver, archive pipeline for the selected tickets or for all eligible tickets
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body models.ProcessRequest true "Selection"
// @Success 200 {object} models.ProcessResponse
// @Failure 400 {object} models.ProcessResponse
// @Failure 500 {object} models.ProcessResponse
// @Router /api/tickets/process [post]
func ProcessTicketsHandler(orch *pipeline.Orchestrator, listCache *cache.Cache[[]models.Ticket]) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ProcessRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ProcessResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		if !req.All && len(req.Keys) == 0 {
			return c.JSON(http.StatusBadRequest, models.ProcessResponse{
				Error: "Select tickets by key or set all to true",
			})
		}

		ctx := c.Request().Context()
		var summary pipeline.Summary
		if req.All {
			var err error
			summary, err = orch.ProcessAll(ctx)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, models.ProcessResponse{
					Error: fmt.Sprintf("Processing failed: %v", err),
				})
			}
		} else {
			summary = orch.ProcessSelected(ctx, req.Keys)
		}

		// Archived tickets change the processed listing.
		listCache.Clear()

		results := make([]models.TicketResult, 0, len(summary.Results))
		for _, r := range summary.Results {
			tr := models.TicketResult{
				Key:     r.Key,
				Email:   r.Email,
				Success: r.Err == nil,
			}
			if r.Err != nil {
				tr.Error = r.Err.Error()
			}
			results = append(results, tr)
		}

		return c.JSON(http.StatusOK, models.ProcessResponse{
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			Results:   results,
		})
	}
}
