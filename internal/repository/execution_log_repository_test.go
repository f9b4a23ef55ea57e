package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLog 构造一条执行日志
func newLog(taskID string, executedAt time.Time) *model.ExecutionLogModel {
	return &model.ExecutionLogModel{
		TaskID:          taskID,
		WorkflowName:    "marketing_general",
		ExecutionStatus: string(model.ExecutionSuccess),
		ExecutedAt:      executedAt,
	}
}

// TestExecutionLogRepository_Append 测试追加执行日志
func TestExecutionLogRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewExecutionLogRepository(db)

	err := repo.Append(newLog("TASK-1-1-aaaa", time.Now().UTC()))
	require.NoError(t, err)

	logs, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "marketing_general", logs[0].WorkflowName)
}

// TestExecutionLogRepository_Append_Invalid 测试非法日志被拒绝
func TestExecutionLogRepository_Append_Invalid(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewExecutionLogRepository(db)

	err := repo.Append(&model.ExecutionLogModel{TaskID: "x", WorkflowName: "w", ExecutionStatus: "bogus"})
	assert.Error(t, err)
}

// TestExecutionLogRepository_FindAll_NewestFirst 测试日志按执行时间倒序
func TestExecutionLogRepository_FindAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewExecutionLogRepository(db)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(newLog(fmt.Sprintf("TASK-1-%d-aaaa", i), base.Add(time.Duration(i)*time.Minute))))
	}

	logs, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].ExecutedAt.After(logs[i-1].ExecutedAt))
	}
}

// TestExecutionLogRepository_FindByTaskID 测试日志可独立于任务查询
// 没有外键级联,任务不存在也能写入和查询日志
func TestExecutionLogRepository_FindByTaskID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewExecutionLogRepository(db)

	require.NoError(t, repo.Append(newLog("TASK-orphan", time.Now().UTC())))
	require.NoError(t, repo.Append(newLog("TASK-other", time.Now().UTC())))

	logs, err := repo.FindByTaskID("TASK-orphan")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "TASK-orphan", logs[0].TaskID)
}
