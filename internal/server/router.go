package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-optimizer/api/swagger"
	"github.com/noah-isme/timetable-optimizer/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-optimizer/internal/middleware"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/config"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-optimizer/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-optimizer/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Optimizer *handler.OptimizerHandler
	Catalog   *handler.CatalogHandler
	Metrics   *handler.MetricsHandler
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens internalmiddleware.TokenValidator, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(internalmiddleware.JWT(tokens))
	}

	api.GET("/metrics/summary", h.Metrics.Summary)

	optimizations := api.Group("/optimizations")
	optimizations.POST("", h.Optimizer.Optimize)
	optimizations.GET("", h.Optimizer.List)
	optimizations.POST("/stored", h.Optimizer.OptimizeStored)
	optimizations.POST("/async", h.Optimizer.Submit)
	optimizations.DELETE("/cache", h.Optimizer.PurgeCache)
	optimizations.GET("/:id", h.Optimizer.Get)
	optimizations.GET("/:id/export", h.Optimizer.Export)

	catalog := api.Group("/catalog")
	catalog.GET("", h.Catalog.Get)
	catalog.PUT("", h.Catalog.Import)

	return r
}
