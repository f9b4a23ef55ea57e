package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mautops/launch-gin/internal/config"
	"github.com/sirupsen/logrus"
)

// Payload 发送给外部工作流引擎的 webhook 载荷
type Payload struct {
	TaskID      string  `json:"task_id"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	Content     *string `json:"content"`
}

// Result webhook 调用结果
// 无论成败都完整记录解析后的地址、状态码和响应,供执行日志留档
type Result struct {
	Status     string          `json:"status"` // success 或 error
	StatusCode int             `json:"status_code,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	URL        string          `json:"url"`
}

// TransportOK 传输层是否成功（HTTP 2xx）
func (r Result) TransportOK() bool {
	return r.Status == "success"
}

// EngineAck 工作流引擎是否在响应体中明确确认成功
// 2xx 但响应体缺少 status=success 字段仍视为失败,
// 裸 2xx 只证明传输可达,不代表引擎受理
func (r Result) EngineAck() bool {
	if !r.TransportOK() || len(r.Response) == 0 {
		return false
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(r.Response, &body); err != nil {
		return false
	}
	return body.Status == "success"
}

// Client webhook 触发客户端
type Client struct {
	router     *Router
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建 webhook 触发客户端
func NewClient(router *Router, cfg config.WorkflowConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		router: router,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Trigger 触发一个工作流 webhook
// nameOrURL 可以是符号名或完整地址;HTTP 2xx 记为 success,
// 其余状态码和传输错误记为 error,错误不向调用方抛出
func (c *Client) Trigger(ctx context.Context, nameOrURL string, data interface{}) Result {
	url := c.router.ResolveURL(nameOrURL)

	body, err := json.Marshal(data)
	if err != nil {
		return Result{Status: "error", Error: fmt.Sprintf("failed to marshal payload: %v", err), URL: url}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Status: "error", Error: fmt.Sprintf("failed to build request: %v", err), URL: url}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"workflow": nameOrURL,
			"url":      url,
		}).WithError(err).Warn("Webhook request failed")
		return Result{Status: "error", Error: err.Error(), URL: url}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	result := Result{
		StatusCode: resp.StatusCode,
		URL:        url,
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Status = "success"
	} else {
		result.Status = "error"
	}

	switch {
	case readErr != nil:
		result.Error = fmt.Sprintf("failed to read response: %v", readErr)
	case len(respBody) == 0:
		// 空响应体,仅保留状态码
	case json.Valid(respBody):
		result.Response = json.RawMessage(respBody)
	default:
		// 非 JSON 响应体以字符串形式留档
		quoted, _ := json.Marshal(string(respBody))
		result.Response = json.RawMessage(quoted)
	}

	c.logger.WithFields(logrus.Fields{
		"workflow": nameOrURL,
		"url":      url,
		"status":   result.Status,
		"code":     result.StatusCode,
	}).Debug("Webhook triggered")

	return result
}
