// Package server is the thin HTTP shim over the dashboard pipeline.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"delivery-dashboard/internal/dashboard"
)

// New builds the router. One data endpoint plus a health probe.
func New(pipeline *dashboard.Pipeline) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/dashboard", DashboardHandler(pipeline))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// DashboardHandler runs one full pipeline pass per request. The cache
// header is advisory only; nothing is cached in-process.
func DashboardHandler(pipeline *dashboard.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var year *int
		if raw := c.Query("ano"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro 'ano' inválido"})
				return
			}
			year = &y
		}

		report, err := pipeline.Run(c.Request.Context(), year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Cache-Control", "s-maxage=60, stale-while-revalidate")
		c.JSON(http.StatusOK, report)
	}
}
