package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/habittracker/internal/metrics"
	"github.com/polkiloo/habittracker/internal/server/http/handlers"
	"github.com/polkiloo/habittracker/internal/server/http/middleware"
)

const metricsPath = "/metrics"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.TrackerFacade, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest())
	// promhttp negotiates its own compression.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))

	authHandler := handlers.NewAuthHandler(facade)
	habitHandler := handlers.NewHabitHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.POST("/register", authHandler.Register)
	engine.POST("/login", authHandler.Login)
	engine.GET("/healthz", healthHandler.Check)
	engine.GET(metricsPath, gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.Use(middleware.AuthRequired(facade))
	api.GET("/habits", habitHandler.List)
	api.POST("/habits", habitHandler.Create)
	api.PUT("/habits/:id", habitHandler.Update)
	api.DELETE("/habits/:id", habitHandler.Delete)

	return engine
}
