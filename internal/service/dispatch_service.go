package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mautops/launch-gin/internal/metrics"
	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/oracle"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/websocket"
	"github.com/mautops/launch-gin/internal/workflow"
	"github.com/sirupsen/logrus"
)

// Diagnostics 派发诊断信息
// 内容生成和 webhook 两步的失败信息都收集在此,随执行日志留档
type Diagnostics struct {
	OracleError   string           `json:"oracle_error,omitempty"`
	WebhookResult *workflow.Result `json:"webhook_result,omitempty"`
}

// DispatchOutcome 派发结果
type DispatchOutcome struct {
	Status       model.ExecutionStatus `json:"status"`
	WorkflowName string                `json:"workflow_name"`
	Details      Diagnostics           `json:"details"`
}

// DispatchService 派发服务接口
// 审批通过路径的编排引擎:内容生成 → 目标解析 → webhook 调用 →
// 结果解释 → 状态迁移 → 日志追加
type DispatchService interface {
	Approve(ctx context.Context, taskID string) (*DispatchOutcome, error)
	Reject(ctx context.Context, taskID string) error
}

// dispatchService 派发服务实现
type dispatchService struct {
	taskRepo repository.TaskRepository
	logRepo  repository.ExecutionLogRepository
	oracle   oracle.Client
	router   *workflow.Router
	webhook  *workflow.Client
	hub      *websocket.Hub
	logger   *logrus.Logger
}

// NewDispatchService 创建派发服务
func NewDispatchService(
	taskRepo repository.TaskRepository,
	logRepo repository.ExecutionLogRepository,
	oracleClient oracle.Client,
	router *workflow.Router,
	webhookClient *workflow.Client,
	hub *websocket.Hub,
	logger *logrus.Logger,
) DispatchService {
	return &dispatchService{
		taskRepo: taskRepo,
		logRepo:  logRepo,
		oracle:   oracleClient,
		router:   router,
		webhook:  webhookClient,
		hub:      hub,
		logger:   logger,
	}
}

// Approve 审批通过并派发任务
// 上游服务失败（内容生成、webhook）一律吸收为诊断数据和 failed 状态,
// 只有任务不存在、状态不允许和存储失败会作为错误返回。
// 每次成功进入派发的审批都恰好追加一条执行日志,
// 任务最终必然落在 completed 或 failed,不会停留在 approved。
func (s *dispatchService) Approve(ctx context.Context, taskID string) (*DispatchOutcome, error) {
	// 1. 加载任务
	task, err := s.taskRepo.FindByTaskID(taskID)
	if err != nil {
		return nil, err
	}

	// 2. pending → approved 受保护迁移
	// 并发审批同一任务时只有一方能通过,输家观察到 ErrInvalidState
	if err := s.taskRepo.Transition(taskID, model.StatusPending, model.StatusApproved); err != nil {
		return nil, err
	}

	var diag Diagnostics

	// 3. 内容生成,失败不终止派发
	roleKey := strings.ToLower(strings.TrimSpace(task.Role))
	var content *string
	if generated, err := s.oracle.GenerateContent(ctx, roleKey, task.Description); err != nil {
		s.logger.WithField("task_id", taskID).WithError(err).Warn("Content generation failed")
		diag.OracleError = err.Error()
	} else {
		content = &generated
	}

	// 4. 解析工作流目标
	workflowName := s.router.MapTask(task.Role, "default")

	// 5. 调用 webhook
	result := s.webhook.Trigger(ctx, workflowName, workflow.Payload{
		TaskID:      task.TaskID,
		Role:        task.Role,
		Description: task.Description,
		Content:     content,
	})
	diag.WebhookResult = &result
	metrics.RecordWebhookRequest(result.StatusCode)

	// 6. 计算整体执行状态
	// 传输层 2xx 且引擎在响应体中确认 status=success 才算成功
	execStatus := model.ExecutionFailed
	if result.EngineAck() {
		execStatus = model.ExecutionSuccess
	}

	// 7. 追加执行日志
	details, _ := json.Marshal(diag)
	logEntry := &model.ExecutionLogModel{
		TaskID:           task.TaskID,
		WorkflowName:     workflowName,
		ExecutionStatus:  string(execStatus),
		ExecutionDetails: string(details),
		ExecutedAt:       time.Now().UTC(),
	}
	logErr := s.logRepo.Append(logEntry)

	// 8. 落入终态
	final := model.StatusFailed
	if execStatus == model.ExecutionSuccess {
		final = model.StatusCompleted
	}
	if err := s.taskRepo.Transition(taskID, model.StatusApproved, final); err != nil {
		return nil, fmt.Errorf("failed to finalize task %s: %w", taskID, err)
	}
	if logErr != nil {
		return nil, fmt.Errorf("failed to append execution log for task %s: %w", taskID, logErr)
	}

	metrics.RecordDispatch(string(execStatus))
	if s.hub != nil {
		s.hub.Notify(websocket.TaskEvent{
			Type:   "task_" + string(final),
			TaskID: task.TaskID,
			Status: string(final),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":  taskID,
		"workflow": workflowName,
		"status":   execStatus,
	}).Info("Task dispatched")

	return &DispatchOutcome{
		Status:       execStatus,
		WorkflowName: workflowName,
		Details:      diag,
	}, nil
}

// Reject 拒绝任务
// 仅做 pending → rejected 状态迁移,不派发、不写日志
func (s *dispatchService) Reject(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Transition(taskID, model.StatusPending, model.StatusRejected); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Notify(websocket.TaskEvent{
			Type:   "task_rejected",
			TaskID: taskID,
			Status: string(model.StatusRejected),
		})
	}

	s.logger.WithField("task_id", taskID).Info("Task rejected")
	return nil
}
