package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-backend/internal/shared/middleware"
	"studio-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares; session resolution runs on every route so the
	// browser pages and the API share one identity.
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIP(),
		middleware.Session(c.SessionStore, c.SessionPolicy, c.SessionCookies, c.Recorder),
	)

	setupWebRoutes(router, c)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/db-health", databaseHealthHandler(c))

		v1.POST("/login", c.UserHandler.Login)
		v1.POST("/logout", c.UserHandler.Logout)

		authed := v1.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/me", c.UserHandler.Me)
			setupAlbumRoutes(authed, c)
		}
	}

	return router
}

// ========================================
// BROWSER ROUTES
// ========================================
func setupWebRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/", c.WebHandler.Landing)
	router.GET("/login", c.WebHandler.LoginPage)
	router.POST("/login", c.WebHandler.Login)
	router.GET("/puzzle", c.WebHandler.Puzzle)

	authed := router.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/dashboard", c.WebHandler.Dashboard)
		authed.GET("/profile", c.WebHandler.ProfilePage)
		authed.POST("/profile", c.WebHandler.UpdateProfile)
		authed.GET("/logout", c.WebHandler.Logout)
	}
}

// ========================================
// ALBUM ROUTES
// ========================================
func setupAlbumRoutes(authed *gin.RouterGroup, c *container.Container) {
	albums := authed.Group("/me/albums")
	{
		albums.GET("", c.AlbumHandler.List)
		albums.POST("", c.AlbumHandler.Create)
		albums.GET("/:id", c.AlbumHandler.Get)
		albums.POST("/:id", c.AlbumHandler.Update)
		albums.DELETE("/:id", c.AlbumHandler.Delete)
		albums.POST("/:id/clone", c.AlbumHandler.Clone)
		albums.GET("/:id/tracks", c.AlbumHandler.ListTracks)
		albums.POST("/:id/tracks", c.AlbumHandler.AddTracks)
		albums.PUT("/:id/tracks/reorder", c.AlbumHandler.ReorderTracks)
		albums.DELETE("/:id/tracks/:track_id", c.AlbumHandler.DeleteTrack)
		albums.POST("/:id/cover", c.AlbumHandler.UploadCover)
	}
}

// ========================================
// HEALTH CHECK HANDLERS
// ========================================
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
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		// Dropped audit writes are otherwise invisible; surface the counter here.
		health["activity_dropped"] = appCtx.Recorder.Dropped()

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

func databaseHealthHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "upstream_unavailable",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var version string
		if err := appCtx.DB.Pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "upstream_unavailable",
			})
			return
		}

		stats := appCtx.DB.Pool.Stat()
		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"postgres_version": version,
				"pool_stats": gin.H{
					"total_connections":    stats.TotalConns(),
					"idle_connections":     stats.IdleConns(),
					"acquired_connections": stats.AcquiredConns(),
					"max_connections":      stats.MaxConns(),
				},
			},
		})
	}
}
