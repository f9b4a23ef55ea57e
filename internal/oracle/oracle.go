package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mautops/launch-gin/internal/config"
)

// ErrUnavailable Oracle 未配置或不可用
// 调用方捕获该错误后走降级路径,不向上层抛出
var ErrUnavailable = errors.New("content oracle is not available")

// Client 内容生成客户端接口
// 规划和内容生成都视为可失败、非确定性的外部调用
type Client interface {
	// GeneratePlan 根据目标生成原始计划文本,解析由调用方负责
	GeneratePlan(ctx context.Context, goal string) (string, error)
	// GenerateContent 根据角色和任务描述生成角色相关内容
	GenerateContent(ctx context.Context, role, description string) (string, error)
}

// geminiClient 基于 Gemini REST API 的实现
type geminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// NewClient 创建内容生成客户端
// api_key 为空时返回的客户端所有调用都立即返回 ErrUnavailable,
// 不阻止进程启动
func NewClient(cfg config.OracleConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &geminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithBaseURL 创建指向指定地址的客户端（用于测试）
func NewClientWithBaseURL(cfg config.OracleConfig, baseURL string) Client {
	c := NewClient(cfg).(*geminiClient)
	c.baseURL = baseURL
	return c
}

// planPrompt 规划提示词
const planPrompt = `You are a launch planning expert. Given a high-level launch goal, break it down into specific, actionable tasks.

Goal: %s

Create a JSON list of tasks with the following structure:
[
    {
        "role": "marketing|developer|legal|sales",
        "description": "specific task description",
        "deadline": "YYYY-MM-DD",
        "priority": "high|medium|low"
    }
]

Consider typical launch activities:
- Marketing: social media campaigns, blog posts, press releases
- Developer: code releases, documentation updates, bug fixes
- Legal: compliance reviews, terms updates, privacy policies
- Sales: customer outreach, pricing updates, sales materials

Return only the JSON array, no additional text.`

// rolePrompts 按角色选择的内容生成提示词
var rolePrompts = map[string]string{
	"marketing": `You are a marketing expert. Create engaging marketing content for the following task:
Task: %s

Provide specific, actionable marketing content (social media posts, email copy, etc.).`,
	"developer": `You are a senior developer. Create technical content for the following task:
Task: %s

Provide specific technical deliverables (release notes, documentation, etc.).`,
	"legal": `You are a legal compliance expert. Create legal content for the following task:
Task: %s

Provide specific legal deliverables (compliance checklists, policy updates, etc.).`,
	"sales": `You are a sales expert. Create sales content for the following task:
Task: %s

Provide specific sales deliverables (email templates, pricing sheets, etc.).`,
}

// GeneratePlan 生成启动计划原始文本
func (c *geminiClient) GeneratePlan(ctx context.Context, goal string) (string, error) {
	return c.invoke(ctx, fmt.Sprintf(planPrompt, goal))
}

// GenerateContent 生成角色相关内容
// 未知角色使用 marketing 提示词
func (c *geminiClient) GenerateContent(ctx context.Context, role, description string) (string, error) {
	prompt, ok := rolePrompts[role]
	if !ok {
		prompt = rolePrompts["marketing"]
	}
	return c.invoke(ctx, fmt.Sprintf(prompt, description))
}

// generateRequest Gemini generateContent 请求体
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse Gemini generateContent 响应体
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// invoke 调用 Gemini generateContent 接口
// 容忍网络失败、非 JSON 响应和空响应,全部以 error 形式返回
func (c *geminiClient) invoke(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to build oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read oracle response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("oracle returned unparsable response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("oracle returned empty response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", errors.New("oracle returned empty text")
	}
	return text, nil
}
