package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/launch-gin/internal/metrics"
	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/oracle"
	"github.com/mautops/launch-gin/internal/planner"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/websocket"
	"github.com/sirupsen/logrus"
)

// PlanService 计划服务接口
type PlanService interface {
	CreatePlan(ctx context.Context, goal string) ([]*model.TaskModel, error)
}

// planService 计划服务实现
type planService struct {
	taskRepo repository.TaskRepository
	oracle   oracle.Client
	hub      *websocket.Hub
	logger   *logrus.Logger
}

// NewPlanService 创建计划服务
func NewPlanService(taskRepo repository.TaskRepository, oracleClient oracle.Client, hub *websocket.Hub, logger *logrus.Logger) PlanService {
	return &planService{
		taskRepo: taskRepo,
		oracle:   oracleClient,
		hub:      hub,
		logger:   logger,
	}
}

// CreatePlan 根据目标创建启动计划
// 规划 Oracle 的任何失败都被吸收:归一化器保证产出非空草稿序列。
// 整批任务在单个事务中持久化,存储失败是唯一向调用方抛出的错误。
func (s *planService) CreatePlan(ctx context.Context, goal string) ([]*model.TaskModel, error) {
	// Oracle 规划,失败时降级为缺失
	raw, err := s.oracle.GeneratePlan(ctx, goal)
	if err != nil {
		s.logger.WithError(err).Warn("Planner oracle unavailable, falling back to default plan")
		raw = ""
	}

	drafts := planner.Normalize(raw, goal)

	now := time.Now().UTC()
	tasks := make([]*model.TaskModel, 0, len(drafts))
	for idx, draft := range drafts {
		tasks = append(tasks, &model.TaskModel{
			TaskID:      newTaskID(now, idx+1),
			Role:        draft.ResolveRole(),
			Description: draft.ResolveDescription(),
			Deadline:    draft.ResolveDeadline(),
			Priority:    draft.ResolvePriority(),
			Status:      string(model.StatusPending),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.taskRepo.CreateBatch(tasks); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}

	metrics.RecordPlanCreated(len(tasks))
	if s.hub != nil {
		s.hub.Notify(websocket.TaskEvent{Type: "plan_created"})
	}

	s.logger.WithFields(logrus.Fields{
		"goal":  goal,
		"tasks": len(tasks),
	}).Info("Launch plan created")

	return tasks, nil
}

// newTaskID 生成任务唯一标识
// 时间戳加序号保证可读性,uuid 后缀保证同一秒内创建的两个计划不会冲突
func newTaskID(now time.Time, idx int) string {
	return fmt.Sprintf("TASK-%d-%d-%s", now.Unix(), idx, uuid.New().String()[:8])
}
