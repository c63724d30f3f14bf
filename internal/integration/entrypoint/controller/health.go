// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	storeHealthChecker func() bool
	storeDriver        string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	LedgerStore string `json:"ledger_store"`
	StoreDriver string `json:"store_driver"`
	Timestamp   string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker, storeHealthChecker func() bool, storeDriver string) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		storeHealthChecker: storeHealthChecker,
		storeDriver:        storeDriver,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := status(h.dbHealthChecker)
	storeStatus := status(h.storeHealthChecker)

	overall := "ok"
	code := http.StatusOK
	if storeStatus != "connected" {
		overall = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:      overall,
		Database:    dbStatus,
		LedgerStore: storeStatus,
		StoreDriver: h.storeDriver,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func status(check func() bool) string {
	if check != nil && check() {
		return "connected"
	}
	return "disconnected"
}
