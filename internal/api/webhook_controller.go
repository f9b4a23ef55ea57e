package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/launch-gin/internal/workflow"
)

// WebhookController webhook 探测控制器
// 运维验证工作流引擎连通性用,不参与任务生命周期
type WebhookController struct {
	client *workflow.Client
}

// NewWebhookController 创建 webhook 探测控制器
func NewWebhookController(client *workflow.Client) *WebhookController {
	return &WebhookController{client: client}
}

// TestWebhookRequest webhook 探测请求
// @Description workflow 为完整 URL 或符号名,data 为任意载荷
type TestWebhookRequest struct {
	Workflow string                 `json:"workflow" example:"marketing_general"`
	Data     map[string]interface{} `json:"data"`
}

// Test 探测一个工作流 webhook
// @Summary      webhook 连通性探测
// @Description  按派发路径同样的方式触发指定 webhook 并返回原始结果
// @Tags         运维
// @Accept       json
// @Produce      json
// @Param        request body TestWebhookRequest true "探测参数"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /webhooks/test [post]
func (c *WebhookController) Test(ctx *gin.Context) {
	var req TestWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if req.Workflow == "" {
		Error(ctx, http.StatusBadRequest, "invalid request", "workflow is required")
		return
	}

	data := req.Data
	if data == nil {
		data = map[string]interface{}{"ping": "pong"}
	}

	result := c.client.Trigger(ctx.Request.Context(), req.Workflow, data)
	if !result.TransportOK() {
		ctx.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    http.StatusBadGateway,
			Message: "webhook invocation failed",
			Detail:  result.Error,
		})
		return
	}

	Success(ctx, result)
}
