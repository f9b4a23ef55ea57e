package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 计划创建数
	plansCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plans_created_total",
			Help: "Total number of launch plans created",
		},
	)

	// 任务创建数
	tasksCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total number of tasks created",
		},
	)

	// 派发结果数
	dispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatches_total",
			Help: "Total number of task dispatches by outcome",
		},
		[]string{"status"}, // success, failed
	)

	// webhook 调用数（按状态码分类）
	webhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook invocations",
		},
		[]string{"outcome"}, // 2xx, 4xx, 5xx, transport_error
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	registerOnce sync.Once
)

// Register 注册所有指标
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			apiRequestsTotal,
			apiRequestDuration,
			plansCreatedTotal,
			tasksCreatedTotal,
			dispatchesTotal,
			webhookRequestsTotal,
			databaseConnectionsActive,
			databaseConnectionsIdle,
		)
	})
}

// Handler 返回 prometheus HTTP 处理器
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求指标
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordPlanCreated 记录计划创建
func RecordPlanCreated(taskCount int) {
	plansCreatedTotal.Inc()
	tasksCreatedTotal.Add(float64(taskCount))
}

// RecordDispatch 记录派发结果
func RecordDispatch(status string) {
	dispatchesTotal.WithLabelValues(status).Inc()
}

// RecordWebhookRequest 记录 webhook 调用
// statusCode 为 0 表示传输层失败
func RecordWebhookRequest(statusCode int) {
	outcome := "transport_error"
	switch {
	case statusCode >= 200 && statusCode < 300:
		outcome = "2xx"
	case statusCode >= 400 && statusCode < 500:
		outcome = "4xx"
	case statusCode >= 500:
		outcome = "5xx"
	case statusCode > 0:
		outcome = "other"
	}
	webhookRequestsTotal.WithLabelValues(outcome).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}
