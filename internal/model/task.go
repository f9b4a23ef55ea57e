package model

import (
	"errors"
	"time"
)

// TaskModel 任务数据模型
type TaskModel struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	TaskID      string     `gorm:"type:varchar(64);uniqueIndex;not null"` // 业务唯一标识,一经分配不再变更
	Role        string     `gorm:"type:varchar(64);not null"`             // 原样存储,路由时再归一化
	Description string     `gorm:"type:text;not null"`
	Deadline    *time.Time `gorm:""`
	Priority    string     `gorm:"type:varchar(16)"`                // high/medium/low
	Status      string     `gorm:"type:varchar(32);not null;index"` // 任务状态
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.TaskID == "" {
		return errors.New("task ID is required")
	}
	if tm.Role == "" {
		return errors.New("task role is required")
	}
	if tm.Description == "" {
		return errors.New("task description is required")
	}
	if !TaskStatus(tm.Status).Valid() {
		return errors.New("task status is invalid")
	}
	return nil
}
