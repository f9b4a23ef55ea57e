// Package workflow 负责把任务映射到外部工作流引擎的目标地址并触发 webhook。
package workflow

import (
	"os"
	"strings"
	"sync"

	"github.com/mautops/launch-gin/internal/config"
)

// roleWorkflows 角色到工作流名称的静态映射
// 按小写角色取每角色默认项,未识别角色落到通用工作流
var roleWorkflows = map[string]map[string]string{
	"marketing": {"default": "marketing_general"},
	"developer": {"default": "developer_general"},
	"sales":     {"default": "sales_general"},
	"legal":     {"default": "legal_general"},
}

// fallbackWorkflow 未识别角色的通用目标
const fallbackWorkflow = "general_workflow"

// Router 工作流路由器
// 将 (role, task_type) 解析为工作流名称,再把符号名解析为 webhook 地址。
// 解析顺序:绝对 URL 原样使用 → 配置/环境变量覆盖 → 约定地址。
type Router struct {
	baseURL   string
	mu        sync.RWMutex
	overrides map[string]string // 按大写符号名索引
	lookupEnv func(string) string
}

// NewRouter 创建工作流路由器
func NewRouter(cfg config.WorkflowConfig) *Router {
	r := &Router{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		lookupEnv: os.Getenv,
	}
	r.SetOverrides(cfg.Webhooks)
	return r
}

// MapTask 将 (role, task_type) 解析为工作流名称
// 角色归一化为去除空白后的小写形式
func (r *Router) MapTask(role, taskType string) string {
	key := strings.ToLower(strings.TrimSpace(role))
	if key == "" {
		key = "general"
	}

	roleMap, ok := roleWorkflows[key]
	if !ok {
		return fallbackWorkflow
	}
	if name, ok := roleMap[taskType]; ok {
		return name
	}
	return roleMap["default"]
}

// ResolveURL 将工作流名称或地址解析为 webhook 地址
func (r *Router) ResolveURL(nameOrURL string) string {
	// 已经是绝对 URL 时原样使用
	if strings.HasPrefix(nameOrURL, "http://") || strings.HasPrefix(nameOrURL, "https://") {
		return nameOrURL
	}

	upper := strings.ToUpper(nameOrURL)

	// 配置覆盖
	r.mu.RLock()
	override, ok := r.overrides[upper]
	r.mu.RUnlock()
	if ok && override != "" {
		return override
	}

	// 环境变量覆盖（如 WEBHOOK_MARKETING_GENERAL）
	if env := r.lookupEnv("WEBHOOK_" + upper); env != "" {
		return env
	}

	// 约定地址
	return r.baseURL + "/webhook/" + nameOrURL
}

// SetOverrides 整体替换覆盖表（配置热更新时调用）
func (r *Router) SetOverrides(overrides map[string]string) {
	normalized := make(map[string]string, len(overrides))
	for name, url := range overrides {
		normalized[strings.ToUpper(name)] = url
	}

	r.mu.Lock()
	r.overrides = normalized
	r.mu.Unlock()
}
