package workflow_test

import (
	"testing"

	"github.com/mautops/launch-gin/internal/config"
	"github.com/mautops/launch-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(overrides map[string]string) *workflow.Router {
	return workflow.NewRouter(config.WorkflowConfig{
		BaseURL:  "http://localhost:5678",
		Webhooks: overrides,
	})
}

// TestRouter_MapTask 测试角色到工作流名称的映射
func TestRouter_MapTask(t *testing.T) {
	router := newTestRouter(nil)

	assert.Equal(t, "marketing_general", router.MapTask("Marketing", "default"))
	assert.Equal(t, "marketing_general", router.MapTask("  marketing  ", "default"))
	assert.Equal(t, "developer_general", router.MapTask("developer", "default"))
	assert.Equal(t, "sales_general", router.MapTask("Sales", "default"))
	assert.Equal(t, "legal_general", router.MapTask("LEGAL", "default"))

	// 未识别角色落到通用工作流
	assert.Equal(t, "general_workflow", router.MapTask("Product Manager", "default"))
	assert.Equal(t, "general_workflow", router.MapTask("", "default"))

	// 未知 task_type 回退到角色默认项
	assert.Equal(t, "marketing_general", router.MapTask("marketing", "social"))
}

// TestRouter_ResolveURL_Convention 测试约定地址解析
func TestRouter_ResolveURL_Convention(t *testing.T) {
	router := newTestRouter(nil)

	assert.Equal(t, "http://localhost:5678/webhook/marketing_general", router.ResolveURL("marketing_general"))
}

// TestRouter_ResolveURL_AbsoluteURL 测试绝对 URL 原样使用
func TestRouter_ResolveURL_AbsoluteURL(t *testing.T) {
	router := newTestRouter(map[string]string{
		"MARKETING_GENERAL": "http://override.example.com/hook",
	})

	// 即使有覆盖,绝对 URL 也不再解析
	assert.Equal(t, "https://engine.example.com/custom", router.ResolveURL("https://engine.example.com/custom"))
	assert.Equal(t, "http://engine.example.com/custom", router.ResolveURL("http://engine.example.com/custom"))
}

// TestRouter_ResolveURL_Override 测试配置覆盖优先于约定地址
func TestRouter_ResolveURL_Override(t *testing.T) {
	router := newTestRouter(map[string]string{
		"marketing_general": "http://override.example.com/hook",
	})

	// 覆盖键不区分大小写
	assert.Equal(t, "http://override.example.com/hook", router.ResolveURL("marketing_general"))
	assert.Equal(t, "http://override.example.com/hook", router.ResolveURL("MARKETING_GENERAL"))

	// 未覆盖的名称仍走约定地址
	assert.Equal(t, "http://localhost:5678/webhook/sales_general", router.ResolveURL("sales_general"))
}

// TestRouter_ResolveURL_EnvOverride 测试环境变量覆盖
func TestRouter_ResolveURL_EnvOverride(t *testing.T) {
	t.Setenv("WEBHOOK_LEGAL_GENERAL", "http://env.example.com/legal")

	router := newTestRouter(nil)
	assert.Equal(t, "http://env.example.com/legal", router.ResolveURL("legal_general"))
}

// TestRouter_SetOverrides 测试覆盖表热更新
func TestRouter_SetOverrides(t *testing.T) {
	router := newTestRouter(nil)
	assert.Equal(t, "http://localhost:5678/webhook/marketing_general", router.ResolveURL("marketing_general"))

	router.SetOverrides(map[string]string{"marketing_general": "http://new.example.com/hook"})
	assert.Equal(t, "http://new.example.com/hook", router.ResolveURL("marketing_general"))

	// 再次整体替换,旧覆盖失效
	router.SetOverrides(map[string]string{})
	assert.Equal(t, "http://localhost:5678/webhook/marketing_general", router.ResolveURL("marketing_general"))
}
