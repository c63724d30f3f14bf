// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trip-planner/backend/internal/integration/entrypoint/controller"
	"github.com/trip-planner/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	budgetController *controller.BudgetController
	tripController   *controller.TripController
	metricsHandler   http.Handler
	rateLimiter      *middleware.RateLimiter
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	budgetController *controller.BudgetController,
	tripController *controller.TripController,
	metricsHandler http.Handler,
	rateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController: healthController,
		budgetController: budgetController,
		tripController:   tripController,
		metricsHandler:   metricsHandler,
		rateLimiter:      rateLimiter,
		authMiddleware:   authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestLogger())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	// Mutations share one limiter; reads are not limited.
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if r.rateLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{r.rateLimiter.Middleware(), h}
	}

	if r.budgetController != nil {
		budgets := v1.Group("/budgets")
		{
			budgets.GET("", r.budgetController.List)
			budgets.POST("", limited(r.budgetController.Create)...)
			budgets.GET("/:id", r.budgetController.Get)
			budgets.PATCH("/:id", limited(r.budgetController.Update)...)
			budgets.DELETE("/:id", limited(r.budgetController.Delete)...)

			budgets.POST("/:id/expenses", limited(r.budgetController.AddExpense)...)
			budgets.PATCH("/:id/expenses/:expense_id", limited(r.budgetController.UpdateExpense)...)
			budgets.DELETE("/:id/expenses/:expense_id", limited(r.budgetController.DeleteExpense)...)

			budgets.POST("/:id/contributors", limited(r.budgetController.AddContributor)...)
			budgets.DELETE("/:id/contributors/:uid", limited(r.budgetController.RemoveContributor)...)
			budgets.PUT("/:id/contributors/:uid/role", limited(r.budgetController.ChangeRole)...)
			budgets.PUT("/:id/contributors/:uid/contribution", limited(r.budgetController.UpdateContribution)...)
		}
	}

	if r.tripController != nil {
		trips := v1.Group("/trips")
		{
			trips.POST("", limited(r.tripController.Create)...)
			trips.GET("/:id", r.tripController.Get)
			trips.DELETE("/:id", limited(r.tripController.Delete)...)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
