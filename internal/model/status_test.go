package model_test

import (
	"testing"

	"github.com/mautops/launch-gin/internal/model"
	"github.com/stretchr/testify/assert"
)

// TestTaskStatus_CanTransition 测试状态机迁移规则
func TestTaskStatus_CanTransition(t *testing.T) {
	// 允许的迁移
	assert.True(t, model.StatusPending.CanTransition(model.StatusApproved))
	assert.True(t, model.StatusPending.CanTransition(model.StatusRejected))
	assert.True(t, model.StatusApproved.CanTransition(model.StatusCompleted))
	assert.True(t, model.StatusApproved.CanTransition(model.StatusFailed))

	// 终态不再迁移
	for _, terminal := range []model.TaskStatus{model.StatusCompleted, model.StatusFailed, model.StatusRejected} {
		for _, next := range []model.TaskStatus{model.StatusPending, model.StatusApproved, model.StatusCompleted, model.StatusFailed, model.StatusRejected} {
			assert.False(t, terminal.CanTransition(next), "%s -> %s should be forbidden", terminal, next)
		}
	}

	// 其余非法迁移
	assert.False(t, model.StatusPending.CanTransition(model.StatusCompleted))
	assert.False(t, model.StatusPending.CanTransition(model.StatusFailed))
	assert.False(t, model.StatusApproved.CanTransition(model.StatusRejected))
}

// TestTaskStatus_IsTerminal 测试终态判断
func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusApproved.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusFailed.IsTerminal())
	assert.True(t, model.StatusRejected.IsTerminal())
}

// TestTaskModel_Validate 测试任务模型校验
func TestTaskModel_Validate(t *testing.T) {
	task := &model.TaskModel{
		TaskID:      "TASK-1-1-abc",
		Role:        "Marketing",
		Description: "Write copy",
		Status:      string(model.StatusPending),
	}
	assert.NoError(t, task.Validate())

	assert.Error(t, (&model.TaskModel{}).Validate())
	assert.Error(t, (&model.TaskModel{TaskID: "x", Role: "r", Description: "d", Status: "bogus"}).Validate())
}

// TestExecutionLogModel_Validate 测试执行日志模型校验
func TestExecutionLogModel_Validate(t *testing.T) {
	log := &model.ExecutionLogModel{
		TaskID:          "TASK-1-1-abc",
		WorkflowName:    "marketing_general",
		ExecutionStatus: string(model.ExecutionSuccess),
	}
	assert.NoError(t, log.Validate())

	assert.Error(t, (&model.ExecutionLogModel{TaskID: "x", WorkflowName: "w", ExecutionStatus: "unknown"}).Validate())
}
