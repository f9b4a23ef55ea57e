package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/launch-gin/internal/model"
	"github.com/mautops/launch-gin/internal/repository"
	"github.com/mautops/launch-gin/internal/service"
)

// TaskController 任务控制器
type TaskController struct {
	planService     service.PlanService
	dispatchService service.DispatchService
}

// NewTaskController 创建任务控制器
func NewTaskController(planService service.PlanService, dispatchService service.DispatchService) *TaskController {
	return &TaskController{
		planService:     planService,
		dispatchService: dispatchService,
	}
}

// CreatePlanRequest 创建计划请求
// @Description 创建启动计划的请求参数,goal 和 message 二选一
type CreatePlanRequest struct {
	Goal    string `json:"goal" example:"Launch the new mobile app"`
	Message string `json:"message"`
}

// handleTransitionError 统一处理状态迁移相关错误
func handleTransitionError(ctx *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		Error(ctx, http.StatusNotFound, "task not found", err.Error())
	case errors.Is(err, repository.ErrInvalidState):
		Error(ctx, http.StatusConflict, "task is not pending", err.Error())
	default:
		Error(ctx, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
}

// CreatePlan 创建启动计划
// @Summary      创建启动计划
// @Description  将高层目标分解为角色任务并持久化;规划服务不可用时返回默认计划
// @Tags         计划管理
// @Accept       json
// @Produce      json
// @Param        request body CreatePlanRequest true "计划目标"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /plans [post]
func (c *TaskController) CreatePlan(ctx *gin.Context) {
	var req CreatePlanRequest
	// 请求体可选:也接受 ?goal=... 查询参数
	_ = ctx.ShouldBindJSON(&req)

	goal := req.Goal
	if goal == "" {
		goal = req.Message
	}
	if goal == "" {
		goal = ctx.Query("goal")
	}
	if goal == "" {
		Error(ctx, http.StatusBadRequest, "invalid request", "provide 'goal' or 'message'")
		return
	}

	tasks, err := c.planService.CreatePlan(ctx.Request.Context(), goal)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to save tasks", err.Error())
		return
	}

	views := make([]service.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, service.NewTaskView(task))
	}

	SuccessWithMessage(ctx, "Plan created", gin.H{"tasks": views})
}

// Approve 审批通过并派发任务
// @Summary      审批通过
// @Description  审批通过后生成内容、解析工作流目标、触发 webhook 并记录执行日志
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id}/approve [post]
func (c *TaskController) Approve(ctx *gin.Context) {
	id := ctx.Param("id")

	outcome, err := c.dispatchService.Approve(ctx.Request.Context(), id)
	if err != nil {
		handleTransitionError(ctx, err, "approve task")
		return
	}

	SuccessWithMessage(ctx, "Task "+id+" approved and executed", gin.H{
		"execution_result": outcome,
	})
}

// Reject 拒绝任务
// @Summary      拒绝任务
// @Description  将任务置为 rejected,不派发、不记录执行日志
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/reject [post]
func (c *TaskController) Reject(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.dispatchService.Reject(ctx.Request.Context(), id); err != nil {
		handleTransitionError(ctx, err, "reject task")
		return
	}

	SuccessWithMessage(ctx, "Task "+id+" rejected", gin.H{
		"status": string(model.StatusRejected),
	})
}
