package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"voxform/internal/handler"
	"voxform/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	formH *handler.FormHandler,
	responseH *handler.ResponseHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	forms := v1.Group("/forms")
	forms.POST("", formH.Create)
	forms.GET("", formH.List)
	forms.GET("/owner/:ownerId", formH.ListByOwner)
	forms.GET("/:id", formH.GetByID)
	forms.PATCH("/:id", formH.Update)
	forms.DELETE("/:id", formH.Delete)
	forms.GET("/:id/responses/export", responseH.Export)

	responses := v1.Group("/responses")
	responses.POST("/submit", responseH.Submit)
	responses.GET("", responseH.List)
	responses.GET("/form/:formId", responseH.ListByForm)
	responses.GET("/:id", responseH.GetByID)

	return r
}
