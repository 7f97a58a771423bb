// Package handlers exposes the library service over HTTP with gin.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"library-api/internal/database"
	"library-api/internal/services"
)

// RouterConfig holds what the router needs besides the service.
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	// DB backs /healthz. A nil DB reports healthy.
	DB *gorm.DB
}

// NewRouter builds the engine with middleware, operational endpoints and
// every library route.
func NewRouter(svc services.LibraryService, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gin.New()
	r.Use(
		RequestID(),
		RequestLogger(logger),
		gin.Recovery(),
		Metrics(),
		cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:  []string{"Content-Type", RequestIDHeader},
			ExposeHeaders: []string{RequestIDHeader},
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": defaultErrorMessage})
	})

	r.GET("/healthz", healthz(cfg.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r, svc)
	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := database.Ping(c.Request.Context(), db); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
