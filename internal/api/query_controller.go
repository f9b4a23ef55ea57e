package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/launch-gin/internal/service"
)

// QueryController 查询控制器
type QueryController struct {
	queryService service.QueryService
}

// NewQueryController 创建查询控制器
func NewQueryController(queryService service.QueryService) *QueryController {
	return &QueryController{queryService: queryService}
}

// ListTasks 查询任务列表
// @Summary      查询任务列表
// @Description  返回所有已持久化的任务
// @Tags         任务管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks [get]
func (c *QueryController) ListTasks(ctx *gin.Context) {
	tasks, err := c.queryService.ListTasks()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list tasks", err.Error())
		return
	}

	Success(ctx, tasks)
}

// ListLogs 查询执行日志
// @Summary      查询执行日志
// @Description  返回所有执行日志,按执行时间倒序
// @Tags         执行日志
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /logs [get]
func (c *QueryController) ListLogs(ctx *gin.Context) {
	logs, err := c.queryService.ListLogs()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list logs", err.Error())
		return
	}

	Success(ctx, logs)
}
