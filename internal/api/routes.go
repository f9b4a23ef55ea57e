package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/launch-gin/internal/websocket"
	"gorm.io/gorm"
)

// SetupRoutes 配置路由
func SetupRoutes(
	db *gorm.DB,
	hub *websocket.Hub,
	taskController *TaskController,
	queryController *QueryController,
	webhookController *WebhookController,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 事件流路由
	if hub != nil {
		router.GET("/ws/events", websocket.Handler(hub))
	}

	// API v1 路由组
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(100, 200))
	{
		// 计划管理路由
		v1.POST("/plans", taskController.CreatePlan)

		// 任务管理路由
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", queryController.ListTasks)

			// 具体路径的路由（Gin 会优先匹配更长的路径）
			tasks.POST("/:id/approve", taskController.Approve)
			tasks.POST("/:id/reject", taskController.Reject)
		}

		// 执行日志路由
		v1.GET("/logs", queryController.ListLogs)

		// webhook 探测路由
		v1.POST("/webhooks/test", webhookController.Test)
	}

	// 自定义 NoRoute 处理器,返回 JSON 格式的 404
	// 必须在所有业务路由注册之后设置,确保未匹配的路由返回 JSON 而不是 HTML
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}
