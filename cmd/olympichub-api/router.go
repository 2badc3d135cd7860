package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/discovery"
	"github.com/pevans/olympichub/predictions"
	"github.com/pevans/olympichub/snapshot"
)

// newRouter mounts the snapshot, refresh and prediction routes behind a
// permissive CORS middleware.
func newRouter(cfg *config.Config, store *snapshot.Store, service *discovery.Service, predStore *predictions.Store) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	snapshot.NewAPIServer(store).RegisterRoutes(router)
	discovery.NewAPIServer(service, cfg.Server.CronSecret).RegisterRoutes(router)
	predictions.NewAPIServer(predStore, discovery.RequireBearer(cfg.Server.CronSecret)).RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
