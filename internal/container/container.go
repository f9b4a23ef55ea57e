package container

import (
	"fmt"
	"time"

	"github.com/mautops/launch-gin/internal/api"
	"github.com/mautops/launch-gin/internal/config"
	"github.com/mautops/launch-gin/internal/database"
	"github.com/mautops/launch-gin/internal/oracle"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/service"
	"github.com/mautops/launch-gin/internal/websocket"
	"github.com/mautops/launch-gin/internal/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 所有依赖在进程启动时构造一次并显式传递,
// 不依赖进程级隐式缓存
type Container struct {
	db              *gorm.DB
	logger          *logrus.Logger
	oracleClient    oracle.Client
	router          *workflow.Router
	webhookClient   *workflow.Client
	hub             *websocket.Hub
	planService     service.PlanService
	dispatchService service.DispatchService
	queryService    service.QueryService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. 初始化数据库（带重试机制）
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. 初始化仓储
	taskRepo := repository.NewTaskRepository(db)
	logRepo := repository.NewExecutionLogRepository(db)

	// 4. 初始化 Oracle 客户端
	// api_key 缺失时客户端降级,计划创建走默认计划
	oracleClient := oracle.NewClient(cfg.Oracle)

	// 5. 初始化工作流路由器和 webhook 客户端
	router := workflow.NewRouter(cfg.Workflow)
	webhookClient := workflow.NewClient(router, cfg.Workflow, logger)

	// 6. 初始化事件推送 Hub
	hub := websocket.NewHub()
	go hub.Run()

	// 7. 初始化服务
	planService := service.NewPlanService(taskRepo, oracleClient, hub, logger)
	dispatchService := service.NewDispatchService(taskRepo, logRepo, oracleClient, router, webhookClient, hub, logger)
	queryService := service.NewQueryService(taskRepo, logRepo)

	return &Container{
		db:              db,
		logger:          logger,
		oracleClient:    oracleClient,
		router:          router,
		webhookClient:   webhookClient,
		hub:             hub,
		planService:     planService,
		dispatchService: dispatchService,
		queryService:    queryService,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// Oracle 获取内容生成客户端
func (c *Container) Oracle() oracle.Client {
	return c.oracleClient
}

// Router 获取工作流路由器
func (c *Container) Router() *workflow.Router {
	return c.router
}

// WebhookClient 获取 webhook 客户端
func (c *Container) WebhookClient() *workflow.Client {
	return c.webhookClient
}

// Hub 获取事件推送 Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// PlanService 获取计划服务
func (c *Container) PlanService() service.PlanService {
	return c.planService
}

// DispatchService 获取派发服务
func (c *Container) DispatchService() service.DispatchService {
	return c.dispatchService
}

// QueryService 获取查询服务
func (c *Container) QueryService() service.QueryService {
	return c.queryService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
