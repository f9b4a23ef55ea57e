package repository

import (
	"fmt"

	"github.com/mautops/launch-gin/internal/model"
	"gorm.io/gorm"
)

// ExecutionLogRepository 执行日志仓储接口
// 仅支持追加和查询,日志一旦写入不再变更
type ExecutionLogRepository interface {
	Append(log *model.ExecutionLogModel) error
	FindAll() ([]*model.ExecutionLogModel, error)
	FindByTaskID(taskID string) ([]*model.ExecutionLogModel, error)
}

// executionLogRepository 执行日志仓储实现
type executionLogRepository struct {
	db *gorm.DB
}

// NewExecutionLogRepository 创建执行日志仓储
func NewExecutionLogRepository(db *gorm.DB) ExecutionLogRepository {
	return &executionLogRepository{db: db}
}

// Append 追加一条执行日志
func (r *executionLogRepository) Append(log *model.ExecutionLogModel) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("invalid execution log: %w", err)
	}
	return r.db.Create(log).Error
}

// FindAll 查找所有执行日志,按执行时间倒序
func (r *executionLogRepository) FindAll() ([]*model.ExecutionLogModel, error) {
	var logs []*model.ExecutionLogModel
	err := r.db.Order("executed_at DESC, id DESC").Find(&logs).Error
	return logs, err
}

// FindByTaskID 查找指定任务的执行日志,按执行时间倒序
func (r *executionLogRepository) FindByTaskID(taskID string) ([]*model.ExecutionLogModel, error) {
	var logs []*model.ExecutionLogModel
	err := r.db.Where("task_id = ?", taskID).Order("executed_at DESC, id DESC").Find(&logs).Error
	return logs, err
}
