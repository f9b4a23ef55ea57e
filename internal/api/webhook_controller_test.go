package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWebhookTest_Success 测试探测连通的 webhook
func TestWebhookTest_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	f := newAPIFixture(t, &stubOracle{}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	rec := f.do(t, http.MethodPost, "/api/v1/webhooks/test", gin.H{"workflow": "marketing_general"})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, 0, env.Code)

	var result struct {
		Status     string `json:"status"`
		StatusCode int    `json:"status_code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, http.StatusOK, result.StatusCode)

	// 按约定 URL 派发,默认探测载荷
	assert.Equal(t, "/webhook/marketing_general", gotPath)
	assert.Equal(t, "pong", gotBody["ping"])
}

// TestWebhookTest_CustomData 测试携带自定义载荷
func TestWebhookTest_CustomData(t *testing.T) {
	var gotBody map[string]interface{}
	f := newAPIFixture(t, &stubOracle{}, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	rec := f.do(t, http.MethodPost, "/api/v1/webhooks/test", gin.H{
		"workflow": "developer_general",
		"data":     gin.H{"dry_run": true},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, gotBody["dry_run"])
}

// TestWebhookTest_MissingWorkflow 测试缺少 workflow 返回 400
func TestWebhookTest_MissingWorkflow(t *testing.T) {
	f := newAPIFixture(t, &stubOracle{}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/webhooks/test", gin.H{"data": gin.H{"ping": "pong"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "invalid request", env.Message)
}

// TestWebhookTest_TransportFailure 测试目标不可达返回 502
func TestWebhookTest_TransportFailure(t *testing.T) {
	f := newAPIFixture(t, &stubOracle{}, nil)

	// 绝对 URL 原样使用,端口 1 不可连接
	rec := f.do(t, http.MethodPost, "/api/v1/webhooks/test", gin.H{
		"workflow": "http://127.0.0.1:1/webhook/down",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "webhook invocation failed", env.Message)
	assert.NotEmpty(t, env.Detail)
}

// TestWebhookTest_EngineError 测试引擎返回非 2xx 时探测结果为 502
func TestWebhookTest_EngineError(t *testing.T) {
	f := newAPIFixture(t, &stubOracle{}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not registered", http.StatusNotFound)
	})

	rec := f.do(t, http.MethodPost, "/api/v1/webhooks/test", gin.H{"workflow": "sales_general"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "webhook invocation failed", env.Message)
}
