package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 令牌桶限流中间件
// rps 为稳态速率,burst 为桶容量。API v1 路由组使用 100 rps / 200 burst:
// 操作员逐条审批远低于该速率,burst 留给仪表盘整页刷新时的并发查询。
// 单桶全局限流,不区分客户端
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    429,
				Message: "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
