package middleware

import (
	"time"

	"modkeeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP请求统计中间件
 * @description
 * - 统计HTTP服务器收到的请求数量
 * - 记录请求处理时间
 * - 区分成功和失败的请求
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		services.IncrementRequestCount(path)
		services.RecordRequestDuration(path, time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			services.IncrementErrorCount(path)
		}
	}
}
