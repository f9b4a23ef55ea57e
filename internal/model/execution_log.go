package model

import (
	"errors"
	"time"
)

// ExecutionLogModel 执行日志数据模型
// 仅追加:核心从不更新或删除日志行,日志可独立于任务存在
type ExecutionLogModel struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	TaskID           string    `gorm:"type:varchar(64);not null;index"` // 引用任务,无外键级联
	WorkflowName     string    `gorm:"type:varchar(128);not null"`      // 解析后的派发目标
	ExecutionStatus  string    `gorm:"type:varchar(32);not null"`       // success/failed
	ExecutionDetails string    `gorm:"type:text"`                       // 序列化的诊断信息
	ExecutedAt       time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (ExecutionLogModel) TableName() string {
	return "execution_logs"
}

// Validate 验证执行日志模型
func (lm *ExecutionLogModel) Validate() error {
	if lm.TaskID == "" {
		return errors.New("task ID is required")
	}
	if lm.WorkflowName == "" {
		return errors.New("workflow name is required")
	}
	if lm.ExecutionStatus != string(ExecutionSuccess) && lm.ExecutionStatus != string(ExecutionFailed) {
		return errors.New("execution status is invalid")
	}
	return nil
}
