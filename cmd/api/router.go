package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/middleware"
	"partshub-backend/internal/shared/response"
	"partshub-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupProductRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupQuoteRoutes(v1, c)
		setupCrossRefRoutes(v1, c)
		setupImportRoutes(v1, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, fmt.Sprintf("No route for %s %s; see /api/v1/health, /api/v1/products, /api/v1/customers, /api/v1/quotes, /api/v1/cross-references, /api/v1/import-products, /api/v1/import-cross-references",
			ctx.Request.Method, ctx.Request.URL.Path))
	})

	return router
}

func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.GetByID)
		products.GET("/by-sku/:sku", c.ProductHandler.GetBySKU)
		products.POST("", c.ProductHandler.Create)
		products.PUT("/:id", c.ProductHandler.Update)
		products.DELETE("/:id", c.ProductHandler.Delete)
	}
}

func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	customers := v1.Group("/customers")
	{
		customers.GET("", c.CustomerHandler.List)
		customers.GET("/:id", c.CustomerHandler.GetByID)
		customers.POST("", c.CustomerHandler.Create)
		customers.PUT("/:id", c.CustomerHandler.Update)
		customers.DELETE("/:id", c.CustomerHandler.Delete)
	}
}

func setupQuoteRoutes(v1 *gin.RouterGroup, c *container.Container) {
	quotes := v1.Group("/quotes")
	{
		quotes.GET("", c.QuoteHandler.List)
		quotes.GET("/:id", c.QuoteHandler.GetByID)
		quotes.POST("", c.QuoteHandler.Create)
		quotes.PUT("/:id", c.QuoteHandler.Update)
		quotes.DELETE("/:id", c.QuoteHandler.Delete)

		quotes.POST("/:id/items", c.QuoteHandler.AddItem)
		quotes.PUT("/:id/items/:itemId", c.QuoteHandler.UpdateItem)
		quotes.DELETE("/:id/items/:itemId", c.QuoteHandler.RemoveItem)
		quotes.POST("/:id/recompute", c.QuoteHandler.Recompute)
	}
}

func setupCrossRefRoutes(v1 *gin.RouterGroup, c *container.Container) {
	refs := v1.Group("/cross-references")
	{
		refs.GET("", c.CrossRefHandler.List)
		refs.GET("/:id", c.CrossRefHandler.GetByID)
		refs.DELETE("/:id", c.CrossRefHandler.Delete)
	}
}

// Import endpoints carry config-driven auth plus rate limiting.
func setupImportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	importProducts := v1.Group("/import-products")
	importProducts.Use(
		middleware.AuthMiddleware(c.AuthResolver, shared.AuthPrefixImportAPI),
		middleware.RateLimit(c.RateLimiter),
	)
	{
		importProducts.POST("", c.ImportHandler.ImportBatch)
		importProducts.POST("/single", c.ImportHandler.ImportSingle)
		importProducts.POST("/upload", c.ImportHandler.ImportFile)
		importProducts.POST("/async", c.ImportHandler.ImportAsync)
		importProducts.GET("/logs", c.ImportHandler.ListLogs)
		importProducts.DELETE("/all", c.ImportHandler.DeleteAll)
	}

	importRefs := v1.Group("/import-cross-references")
	importRefs.Use(
		middleware.AuthMiddleware(c.AuthResolver, shared.AuthPrefixImportAPI),
		middleware.RateLimit(c.RateLimiter),
	)
	{
		importRefs.POST("", c.CrossRefHandler.ImportBatch)
		importRefs.POST("/single", c.CrossRefHandler.ImportSingle)
		importRefs.POST("/async", c.CrossRefHandler.ImportAsync)
		importRefs.GET("/logs", c.CrossRefHandler.ListLogs)
		importRefs.DELETE("/all", c.CrossRefHandler.DeleteAll)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
