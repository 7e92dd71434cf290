package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facteam/blog-api/utils"
)

// Metrics records request count and latency per route pattern.
func Metrics() gin.HandlerFunc {
	utils.InitMetrics()

	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		utils.RequestsTotal.WithLabelValues(route, ctx.Request.Method, status).Inc()
		utils.RequestLatency.WithLabelValues(route, ctx.Request.Method, status).
			Observe(time.Since(start).Seconds())
	}
}
