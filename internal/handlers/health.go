package handlers

import (
	"context"
	"net/http"
	"time"

	"ticketflow/internal/models"
	"ticketflow/internal/store"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles basic health check requests
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// StoreHealthHandler checks that the ticket row store is reachable by
// timing a pending-queue read.
func StoreHealthHandler(st *store.TicketStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.StoreHealthResponse{
			Status:    "unknown",
			Timestamp: time.Now().UTC(),
		}

		if st == nil {
			response.Status = "unhealthy"
			response.Error = "Ticket store not initialized"
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		_, err := st.FetchPending(ctx)
		response.Latency = time.Since(start)

		if err != nil {
			response.Status = "unhealthy"
			response.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		response.Status = "healthy"
		response.Connected = true
		return c.JSON(http.StatusOK, response)
	}
}

// RootHandler handles requests to the root endpoint
func RootHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Ticketflow API",
			"version": version,
			"status":  "running",
		})
	}
}
