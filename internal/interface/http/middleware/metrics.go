package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/is216/bookweb/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 记录请求总数、耗时分布和正在处理的请求数
//
// 教学要点:path标签使用路由模板(如/api/v1/books/:id)
// 而非实际URL,避免标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		metrics.DecGauge(metrics.HTTPRequestsInProgress)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, labels)
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
