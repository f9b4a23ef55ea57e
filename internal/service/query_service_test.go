package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueryService_ListTasks_RoundTrip 测试 createPlan 后列表往返
// 返回的任务反映草稿提供的角色/描述/优先级（经缺省规则处理）
func TestQueryService_ListTasks_RoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	logRepo := repository.NewExecutionLogRepository(db)

	oracle := &stubOracle{plan: `[
		{"role": "Marketing", "description": "Write blog post", "priority": "high"},
		{"title": "Cut release", "role": "developer"}
	]`}
	planSvc := service.NewPlanService(taskRepo, oracle, nil, quietLogger())
	querySvc := service.NewQueryService(taskRepo, logRepo)

	_, err := planSvc.CreatePlan(context.Background(), "launch")
	require.NoError(t, err)

	views, err := querySvc.ListTasks()
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "Marketing", views[0].Role)
	assert.Equal(t, "Write blog post", views[0].Description)
	assert.Equal(t, "high", views[0].Priority)
	assert.Equal(t, "pending", views[0].Status)
	assert.Nil(t, views[0].Deadline)

	// 描述回退到 title,优先级回退到 medium
	assert.Equal(t, "developer", views[1].Role)
	assert.Equal(t, "Cut release", views[1].Description)
	assert.Equal(t, "medium", views[1].Priority)
}

// TestQueryService_ListLogs_NewestFirst 测试日志列表新的在前
func TestQueryService_ListLogs_NewestFirst(t *testing.T) {
	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	logRepo := repository.NewExecutionLogRepository(db)
	querySvc := service.NewQueryService(taskRepo, logRepo)

	base := time.Now().UTC()
	require.NoError(t, logRepo.Append(&model.ExecutionLogModel{
		TaskID: "TASK-a", WorkflowName: "w", ExecutionStatus: "failed", ExecutedAt: base.Add(-time.Minute),
	}))
	require.NoError(t, logRepo.Append(&model.ExecutionLogModel{
		TaskID: "TASK-b", WorkflowName: "w", ExecutionStatus: "success", ExecutedAt: base,
	}))

	views, err := querySvc.ListLogs()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "TASK-b", views[0].TaskID)
	assert.Equal(t, "TASK-a", views[1].TaskID)
}
