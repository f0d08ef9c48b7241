package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/anayki/biz_erp_app/cmd/docs"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/middleware"
	"github.com/anayki/biz_erp_app/internal/platform/config"
)

// ErrorResponse is the generic error body shared by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes attaches every route of the application to the engine.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, services.Auth)

	// Everything under /api/v1 requires a valid bearer token
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAnalyticalAccountRoutes(v1, services.AnalyticalAccount)
	registerAutoAnalyticalModelRoutes(v1, services.AutoAnalytical)
	registerBudgetRoutes(v1, services.Budget)
	RegisterTransactionRoutes(v1, services.Transaction)
	registerPaymentRoutes(v1, services.Payment)
	registerMasterDataRoutes(v1, services.MasterData)
}

// setupSwaggerRoutes exposes the swagger UI outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	{
		swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
