package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ticketflow/internal/cache"
	"ticketflow/internal/models"
	"ticketflow/internal/store"

	"github.com/labstack/echo/v4"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// dateLayout is the format of the from/to filter query parameters.
const dateLayout = "2006-01-02"

// processedCacheTTL bounds how stale the processed listing may be.
const processedCacheTTL = 30 * time.Second

// SubmitTicketHandler accepts a new support ticket
// @Summary Submit a support ticket
// @Description Validate and append a new ticket to the pending queue
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body models.SubmitTicketRequest true "Ticket"
// @Success 201 {object} models.SubmitTicketResponse
// @Failure 400 {object} models.SubmitTicketResponse
// @Failure 500 {object} models.SubmitTicketResponse
// @Router /api/tickets [post]
func SubmitTicketHandler(st *store.TicketStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SubmitTicketRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.SubmitTicketResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.IssueType = strings.TrimSpace(req.IssueType)
		req.Message = strings.TrimSpace(req.Message)

		// All four fields are required; nothing is written on rejection.
		for field, value := range map[string]string{
			"name":       req.Name,
			"email":      req.Email,
			"issue_type": req.IssueType,
			"message":    req.Message,
		} {
			if value == "" {
				return c.JSON(http.StatusBadRequest, models.SubmitTicketResponse{
					Error: fmt.Sprintf("Field %q is required", field),
				})
			}
		}

		if !emailRegex.MatchString(req.Email) {
			return c.JSON(http.StatusBadRequest, models.SubmitTicketResponse{
				Error: "Invalid email format. Please provide a valid email address.",
			})
		}

		ticket := models.Ticket{
			Name:               req.Name,
			Email:              req.Email,
			IssueTypeRequested: req.IssueType,
			Message:            req.Message,
		}

		if _, err := st.AppendPending(c.Request().Context(), ticket); err != nil {
			return c.JSON(http.StatusInternalServerError, models.SubmitTicketResponse{
				Error: fmt.Sprintf("Failed to submit ticket: %v", err),
			})
		}

		return c.JSON(http.StatusCreated, models.SubmitTicketResponse{
			Success: true,
			Message: "Ticket submitted successfully",
		})
	}
}

// PendingTicketsHandler lists the pending queue
// @Summary List pending tickets
// @Description Return every ticket that is not yet fully classified and replied
// @Tags tickets
// @Produce json
// @Success 200 {object} models.TicketListResponse
// @Failure 500 {object} models.TicketListResponse
// @Router /api/tickets/pending [get]
func PendingTicketsHandler(st *store.TicketStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		tickets, err := st.FetchPending(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.TicketListResponse{
				Error: fmt.Sprintf("Failed to fetch pending tickets: %v", err),
			})
		}

		return c.JSON(http.StatusOK, models.TicketListResponse{
			Tickets: tickets,
			Count:   len(tickets),
		})
	}
}

// ProcessedTicketsHandler lists the processed queue with optional filters
// @Summary List processed tickets
// @Description Return archived tickets, optionally filtered by issue type and archival date range (inclusive)
// @Tags tickets
// @Produce json
// @Param issue_type query string false "Comma-separated issue type labels"
// @Param from query string false "Start date (2006-01-02)"
// @Param to query string false "End date (2006-01-02)"
// @Success 200 {object} models.TicketListResponse
// @Failure 400 {object} models.TicketListResponse
// @Failure 500 {object} models.TicketListResponse
// @Router /api/tickets/processed [get]
func ProcessedTicketsHandler(st *store.TicketStore, listCache *cache.Cache[[]models.Ticket]) echo.HandlerFunc {
	return func(c echo.Context) error {
		cacheKey := c.QueryString()
		if tickets, ok := listCache.Get(cacheKey); ok {
			return c.JSON(http.StatusOK, models.TicketListResponse{
				Tickets: tickets,
				Count:   len(tickets),
			})
		}

		var issueTypes []string
		if raw := c.QueryParam("issue_type"); raw != "" {
			for _, it := range strings.Split(raw, ",") {
				if it = strings.TrimSpace(it); it != "" {
					issueTypes = append(issueTypes, it)
				}
			}
		}

		var from, to time.Time
		if raw := c.QueryParam("from"); raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.TicketListResponse{
					Error: fmt.Sprintf("Invalid from date %q, expected %s", raw, dateLayout),
				})
			}
			from = parsed
		}
		if raw := c.QueryParam("to"); raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.TicketListResponse{
					Error: fmt.Sprintf("Invalid to date %q, expected %s", raw, dateLayout),
				})
			}
			// The range is inclusive of the end date.
			to = parsed.Add(24*time.Hour - time.Nanosecond)
		}

		tickets, err := st.FilterProcessed(c.Request().Context(), issueTypes, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.TicketListResponse{
				Error: fmt.Sprintf("Failed to fetch processed tickets: %v", err),
			})
		}

		listCache.Set(cacheKey, tickets, processedCacheTTL)

		return c.JSON(http.StatusOK, models.TicketListResponse{
			Tickets: tickets,
			Count:   len(tickets),
		})
	}
}
