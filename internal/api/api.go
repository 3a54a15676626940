// internal/api/api.go
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/api/handlers"
	"github.com/andresuchdata/inventory-dashboard/internal/api/middleware"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
	Drive            handlers.DriveBrowser
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	var inventoryService *service.InventoryService
	if services != nil {
		inventoryService = services.InventoryService
	}
	router.GET("/health", healthHandler(inventoryService))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/dashboard", inventoryHandler.GetDashboard)
				inventoryGroup.GET("/summary", inventoryHandler.GetSummary)
				inventoryGroup.GET("/trend", inventoryHandler.GetTrend)
				inventoryGroup.GET("/movement", inventoryHandler.GetMovement)
				inventoryGroup.GET("/ranking", inventoryHandler.GetRanking)
				inventoryGroup.GET("/forecast", inventoryHandler.GetForecast)
				inventoryGroup.GET("/records", inventoryHandler.GetRecords)
				inventoryGroup.GET("/products", inventoryHandler.GetProducts)
				inventoryGroup.GET("/date_range", inventoryHandler.GetDateRange)
				inventoryGroup.GET("/metadata", inventoryHandler.GetMetadata)
				inventoryGroup.POST("/refresh", inventoryHandler.Refresh)
				inventoryGroup.POST("/upload", inventoryHandler.Upload)
			}
		}

		if services.Drive != nil {
			driveHandler := handlers.NewDriveHandler(services.Drive)
			apiGroup.GET("/drive/files", driveHandler.ListFiles)
		}
	}

	return router
}

// healthHandler reports liveness plus the loaded snapshot. The server is
// healthy before the first load; "ready" tells whether data is available.
func healthHandler(svc *service.InventoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "ready": false}
		if svc != nil {
			status, err := svc.Status()
			switch {
			case err == nil:
				body["ready"] = true
				body["snapshot"] = status
			case !errors.Is(err, domain.ErrNoSnapshot):
				body["error"] = err.Error()
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
