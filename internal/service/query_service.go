package service

import (
	"time"

	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/repository"
)

// TaskView 任务的接口表示
// 状态等枚举在此序列化为字符串,时间统一为 ISO-8601
type TaskView struct {
	ID          uint    `json:"id"`
	TaskID      string  `json:"task_id"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ExecutionLogView 执行日志的接口表示
type ExecutionLogView struct {
	ID               uint   `json:"id"`
	TaskID           string `json:"task_id"`
	WorkflowName     string `json:"workflow_name"`
	ExecutionStatus  string `json:"execution_status"`
	ExecutionDetails string `json:"execution_details"`
	ExecutedAt       string `json:"executed_at"`
}

// QueryService 查询服务接口
// 只读,无副作用
type QueryService interface {
	ListTasks() ([]TaskView, error)
	ListLogs() ([]ExecutionLogView, error)
}

// queryService 查询服务实现
type queryService struct {
	taskRepo repository.TaskRepository
	logRepo  repository.ExecutionLogRepository
}

// NewQueryService 创建查询服务
func NewQueryService(taskRepo repository.TaskRepository, logRepo repository.ExecutionLogRepository) QueryService {
	return &queryService{
		taskRepo: taskRepo,
		logRepo:  logRepo,
	}
}

// ListTasks 查询所有任务
func (s *queryService) ListTasks() ([]TaskView, error) {
	tasks, err := s.taskRepo.FindAll()
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, NewTaskView(task))
	}
	return views, nil
}

// ListLogs 查询所有执行日志,新的在前
func (s *queryService) ListLogs() ([]ExecutionLogView, error) {
	logs, err := s.logRepo.FindAll()
	if err != nil {
		return nil, err
	}

	views := make([]ExecutionLogView, 0, len(logs))
	for _, log := range logs {
		views = append(views, ExecutionLogView{
			ID:               log.ID,
			TaskID:           log.TaskID,
			WorkflowName:     log.WorkflowName,
			ExecutionStatus:  log.ExecutionStatus,
			ExecutionDetails: log.ExecutionDetails,
			ExecutedAt:       log.ExecutedAt.Format(time.RFC3339),
		})
	}
	return views, nil
}

// NewTaskView 将任务模型转换为接口表示
func NewTaskView(task *model.TaskModel) TaskView {
	var deadline *string
	if task.Deadline != nil {
		formatted := task.Deadline.Format(time.RFC3339)
		deadline = &formatted
	}
	return TaskView{
		ID:          task.ID,
		TaskID:      task.TaskID,
		Role:        task.Role,
		Description: task.Description,
		Deadline:    deadline,
		Priority:    task.Priority,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
}
