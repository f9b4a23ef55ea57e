package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubOracle 测试用 Oracle 替身
type stubOracle struct {
	plan       string
	planErr    error
	content    string
	contentErr error
}

func (s *stubOracle) GeneratePlan(ctx context.Context, goal string) (string, error) {
	return s.plan, s.planErr
}

func (s *stubOracle) GenerateContent(ctx context.Context, role, description string) (string, error) {
	return s.content, s.contentErr
}

// setupServiceDB 创建服务层测试数据库
func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.TaskModel{}, &model.ExecutionLogModel{})
	require.NoError(t, err)

	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// TestPlanService_CreatePlan_StructuredPlan 测试结构化计划逐条持久化
func TestPlanService_CreatePlan_StructuredPlan(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	oracle := &stubOracle{plan: `[
		{"role": "marketing", "description": "Write blog post", "priority": "high", "deadline": "2025-10-01"},
		{"role": "developer", "description": "Cut the release"},
		{"role": "legal", "description": "Review terms"},
		{"role": "sales", "description": "Refresh pricing deck"}
	]`}
	svc := service.NewPlanService(taskRepo, oracle, nil, quietLogger())

	tasks, err := svc.CreatePlan(context.Background(), "launch v2")
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	// 每个任务初始为 pending 且 task_id 唯一
	seen := make(map[string]bool)
	for _, task := range tasks {
		assert.Equal(t, string(model.StatusPending), task.Status)
		assert.False(t, seen[task.TaskID], "task_id %s duplicated", task.TaskID)
		seen[task.TaskID] = true
	}

	// 草稿字段在缺省规则下原样往返
	assert.Equal(t, "marketing", tasks[0].Role)
	assert.Equal(t, "Write blog post", tasks[0].Description)
	assert.Equal(t, "high", tasks[0].Priority)
	require.NotNil(t, tasks[0].Deadline)
	assert.Equal(t, "medium", tasks[1].Priority)
	assert.Nil(t, tasks[1].Deadline)

	// 持久化结果与返回值一致
	saved, err := taskRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, saved, 4)
}

// TestPlanService_CreatePlan_OracleFailure 测试 Oracle 失败落入默认计划
// 规划失败从不作为 create-plan 的顶层错误暴露
func TestPlanService_CreatePlan_OracleFailure(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	oracle := &stubOracle{planErr: errors.New("oracle is down")}
	svc := service.NewPlanService(taskRepo, oracle, nil, quietLogger())

	tasks, err := svc.CreatePlan(context.Background(), "launch the app")
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "Product Manager", tasks[0].Role)
	assert.Equal(t, "Clarify goals for: launch the app", tasks[0].Description)
	assert.Equal(t, "Marketing", tasks[1].Role)
	assert.Equal(t, "Data", tasks[2].Role)
}

// TestPlanService_CreatePlan_UnparsablePlan 测试不可解析输出包装为通用任务
func TestPlanService_CreatePlan_UnparsablePlan(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	oracle := &stubOracle{plan: "I think you should focus on marketing first."}
	svc := service.NewPlanService(taskRepo, oracle, nil, quietLogger())

	tasks, err := svc.CreatePlan(context.Background(), "goal")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "General", tasks[0].Role)
	assert.Equal(t, "I think you should focus on marketing first.", tasks[0].Description)
}

// TestPlanService_CreatePlan_EmptyPlan 测试空数组输出落入默认计划
func TestPlanService_CreatePlan_EmptyPlan(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	oracle := &stubOracle{plan: "[]"}
	svc := service.NewPlanService(taskRepo, oracle, nil, quietLogger())

	tasks, err := svc.CreatePlan(context.Background(), "goal")
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}
