package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/mautops/launch-gin/internal/model"
	"gorm.io/gorm"
)

// TaskRepository 任务仓储接口
type TaskRepository interface {
	CreateBatch(tasks []*model.TaskModel) error
	FindByTaskID(taskID string) (*model.TaskModel, error)
	FindAll() ([]*model.TaskModel, error)
	Transition(taskID string, from, to model.TaskStatus) error
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// CreateBatch 在单个事务中批量创建任务
// 任一行失败则整批回滚,不允许部分提交
func (r *taskRepository) CreateBatch(tasks []*model.TaskModel) error {
	if len(tasks) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := task.Validate(); err != nil {
				return fmt.Errorf("invalid task %s: %w", task.TaskID, err)
			}
			if err := tx.Create(task).Error; err != nil {
				return fmt.Errorf("failed to create task %s: %w", task.TaskID, err)
			}
		}
		return nil
	})
}

// FindByTaskID 根据业务标识查找任务
func (r *taskRepository) FindByTaskID(taskID string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAll 查找所有任务
func (r *taskRepository) FindAll() ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Order("created_at ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

// Transition 执行受保护的状态迁移
// 仅当任务当前处于 from 状态时才会提交迁移,每次迁移刷新 updated_at。
// 返回 ErrTaskNotFound 表示任务不存在,ErrInvalidState 表示状态不匹配
// （包括并发迁移中输掉竞争的一方）。
func (r *taskRepository) Transition(taskID string, from, to model.TaskStatus) error {
	if !from.CanTransition(to) {
		return ErrInvalidState
	}

	result := r.db.Model(&model.TaskModel{}).
		Where("task_id = ? AND status = ?", taskID, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分"不存在"与"状态已变"
		if _, err := r.FindByTaskID(taskID); err != nil {
			return err
		}
		return ErrInvalidState
	}
	return nil
}
