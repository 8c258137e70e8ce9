// internal/server/server_test.go
//
// 本檔為 server 層的整合測試 (Integration Test)。
// 以 httptest.Server 模擬完整 HTTP 請求流程，驗證 REST API 與 registry 之間的整合、
// 錯誤代碼映射、歷史匯出、middleware 與指標。
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"autoshop/internal/archive"
	"autoshop/internal/observability"
	"autoshop/internal/registry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestServer 建立帶指標的測試伺服器，測試結束自動關閉。
func newTestServer(t *testing.T, opts Options) (*httptest.Server, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics()
	opts.Logger = quietLogger
	opts.Metrics = m
	reg := registry.NewRegistry(registry.WithLogger(quietLogger), registry.WithObserver(m))
	ts := httptest.NewServer(NewServer(reg, opts).Router())
	t.Cleanup(ts.Close)
	return ts, m
}

// doJSON 為測試輔助函式：
// 封裝 HTTP JSON 請求邏輯並驗證回傳狀態碼；若 out 非 nil，則解析 JSON 回應。
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantCode, resp.StatusCode, "%s %s", method, url)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

// TestHTTPFlow 驗證建立、查詢、更新、還原、刪除的完整流程。
func TestHTTPFlow(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	cli := ts.Client()

	var id int
	doJSON(t, cli, "POST", ts.URL+"/autos", map[string]any{
		"brand": "Toyota", "model": "Corolla", "color": "Rojo",
		"variant": "sedan", "features": []string{"sunroof", "sport"},
	}, 201, &id)
	assert.Equal(t, 1, id)

	var v registry.View
	doJSON(t, cli, "GET", ts.URL+"/autos/1", nil, 200, &v)
	assert.Equal(t, "Toyota Corolla (Rojo) + Sunroof + Sport Package", v.Description)
	assert.Equal(t, 23700.0, v.Price)

	var ok bool
	doJSON(t, cli, "PUT", ts.URL+"/autos/1", map[string]any{"color": "Azul", "wheels": 5}, 200, &ok)
	assert.True(t, ok)
	doJSON(t, cli, "GET", ts.URL+"/autos/1", nil, 200, &v)
	assert.Equal(t, "Azul", v.Color)
	assert.Equal(t, "Toyota", v.Brand)

	doJSON(t, cli, "POST", ts.URL+"/autos/1/restore/0", nil, 200, &ok)
	assert.True(t, ok)
	doJSON(t, cli, "GET", ts.URL+"/autos/1", nil, 200, &v)
	assert.Equal(t, "Rojo", v.Color)

	doJSON(t, cli, "POST", ts.URL+"/autos/1/restore/2", nil, 200, &ok)
	assert.False(t, ok, "version out of range")

	var all []registry.View
	doJSON(t, cli, "GET", ts.URL+"/autos", nil, 200, &all)
	require.Len(t, all, 1)

	doJSON(t, cli, "DELETE", ts.URL+"/autos/1", nil, 200, &ok)
	assert.True(t, ok)
	doJSON(t, cli, "GET", ts.URL+"/autos/1", nil, 404, nil)
	doJSON(t, cli, "DELETE", ts.URL+"/autos/1", nil, 200, &ok)
	assert.False(t, ok)
	doJSON(t, cli, "POST", ts.URL+"/autos/1/restore/0", nil, 200, &ok)
	assert.False(t, ok)
	doJSON(t, cli, "PUT", ts.URL+"/autos/1", map[string]any{"brand": "X"}, 200, &ok)
	assert.False(t, ok)

	// 刪除後新 ID 不回收
	doJSON(t, cli, "POST", ts.URL+"/api/v1/autos", map[string]any{"brand": "", "model": "", "color": ""}, 201, &id)
	assert.Equal(t, 2, id)
}

func TestListEmpty(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	resp, err := ts.Client().Get(ts.URL + "/autos")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

// TestErrorMapping 驗證錯誤狀況的 HTTP 狀態碼。
func TestErrorMapping(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	cli := ts.Client()
	valid := map[string]any{"brand": "A", "model": "B", "color": "C"}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "unsupported variant", method: "POST", path: "/autos", body: map[string]any{"brand": "A", "model": "B", "color": "C", "variant": "truck"}, want: 422},
		{name: "empty variant", method: "POST", path: "/autos", body: map[string]any{"brand": "A", "model": "B", "color": "C", "variant": ""}, want: 422},
		{name: "missing brand", method: "POST", path: "/autos", body: map[string]any{"model": "B", "color": "C"}, want: 400},
		{name: "oversized color", method: "POST", path: "/autos", body: map[string]any{"brand": "A", "model": "B", "color": strings.Repeat("x", maxFieldBytes+1)}, want: 400},
		{name: "oversized update", method: "PUT", path: "/autos/1", body: map[string]any{"brand": strings.Repeat("x", maxFieldBytes+1)}, want: 400},
		{name: "non-numeric id", method: "GET", path: "/autos/abc", want: 400},
		{name: "non-numeric version", method: "POST", path: "/autos/1/restore/latest", want: 400},
		{name: "unknown id", method: "GET", path: "/autos/999", want: 404},
		{name: "history of unknown id", method: "GET", path: "/autos/999/history", want: 404},
		{name: "bad history format", method: "GET", path: "/autos/1/history?format=xml", want: 400},
		{name: "valid create", method: "POST", path: "/autos", body: valid, want: 201},
	}
	// 先建立 id=1 供後續案例使用
	doJSON(t, cli, "POST", ts.URL+"/autos", valid, 201, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doJSON(t, cli, tt.method, ts.URL+tt.path, tt.body, tt.want, nil)
		})
	}

	// 壞 JSON → 400
	resp, err := cli.Post(ts.URL+"/autos", "application/json", bytes.NewBufferString("{bad json}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUnsupportedVariantDoesNotConsumeID(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	cli := ts.Client()
	var body map[string]string
	doJSON(t, cli, "POST", ts.URL+"/autos", map[string]any{"brand": "A", "model": "B", "color": "C", "variant": "truck"}, 422, &body)
	assert.Contains(t, body["error"], "unsupported vehicle variant")

	var id int
	doJSON(t, cli, "POST", ts.URL+"/autos", map[string]any{"brand": "A", "model": "B", "color": "C", "variant": "suv"}, 201, &id)
	assert.Equal(t, 1, id)
}

// TestHistoryExport 驗證歷史匯出 JSON 與 YAML 兩種格式。
func TestHistoryExport(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	cli := ts.Client()
	doJSON(t, cli, "POST", ts.URL+"/autos", map[string]any{"brand": "Kia", "model": "Rio", "color": "Red", "features": []string{"sport"}}, 201, nil)
	doJSON(t, cli, "PUT", ts.URL+"/autos/1", map[string]any{"color": "Blue"}, 200, nil)

	var doc archive.Document
	doJSON(t, cli, "GET", ts.URL+"/autos/1/history", nil, 200, &doc)
	require.Len(t, doc.Versions, 2)
	assert.Equal(t, "Red", doc.Versions[0].Color)
	assert.Equal(t, "Kia Rio (Blue) + Sport Package", doc.Versions[1].Description)

	resp, err := cli.Get(ts.URL + "/autos/1/history?format=yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	var ydoc archive.Document
	require.NoError(t, yaml.NewDecoder(resp.Body).Decode(&ydoc))
	assert.Equal(t, "yaml", ydoc.Meta.Format)
	assert.Len(t, ydoc.Versions, 2)
}

func TestMiddleware(t *testing.T) {
	ts, m := newTestServer(t, Options{})
	cli := ts.Client()

	// request id 沿用或自動產生
	req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := cli.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	resp, err = cli.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	// CORS preflight
	req, _ = http.NewRequest("OPTIONS", ts.URL+"/autos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err = cli.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	// 一般跨來源請求：回顯 origin 並公開 request id 標頭
	req, _ = http.NewRequest("GET", ts.URL+"/autos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err = cli.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), RequestIDHeader)

	// 指標：registry 操作與 /metrics
	doJSON(t, cli, "POST", ts.URL+"/autos", map[string]any{"brand": "A", "model": "B", "color": "C"}, 201, nil)
	doJSON(t, cli, "GET", ts.URL+"/autos/5", nil, 404, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Vehicles))

	resp, err = cli.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `route="/autos/:id",status="404"`)
}

func TestRequestIDRejected(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	cli := ts.Client()

	tests := []struct {
		name string
		id   string
	}{
		{name: "too long", id: strings.Repeat("a", maxRequestIDLen+1)},
		{name: "space", id: "abc 123"},
		{name: "separator", id: "abc;123"},
		{name: "markup", id: "<script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
			req.Header.Set(RequestIDHeader, tt.id)
			resp, err := cli.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			got := resp.Header.Get(RequestIDHeader)
			assert.NotEqual(t, tt.id, got)
			assert.Len(t, got, 36)
		})
	}

	// 剛好達到上限的 id 仍沿用
	id := strings.Repeat("b", maxRequestIDLen)
	req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := cli.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestRecoveryLogsPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	s := NewServer(registry.NewRegistry(registry.WithLogger(quietLogger)), Options{Logger: logger})
	r := s.Router()
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	logged := buf.String()
	assert.Contains(t, logged, `"msg":"panic recovered"`)
	assert.Contains(t, logged, "kaboom")
	assert.Contains(t, logged, `"request_id":"req-42"`)
}

func TestRateLimit(t *testing.T) {
	ts, _ := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})
	cli := ts.Client()
	doJSON(t, cli, "GET", ts.URL+"/health", nil, 200, nil)
	doJSON(t, cli, "GET", ts.URL+"/health", nil, 429, nil)
}

func TestRoutesRegistered(t *testing.T) {
	s := NewServer(registry.NewRegistry(registry.WithLogger(quietLogger)), Options{Logger: quietLogger})
	r := s.Router()

	want := []struct{ method, path string }{
		{"POST", "/autos"},
		{"GET", "/autos"},
		{"GET", "/autos/:id"},
		{"PUT", "/autos/:id"},
		{"DELETE", "/autos/:id"},
		{"POST", "/autos/:id/restore/:version"},
		{"GET", "/autos/:id/history"},
		{"POST", "/api/v1/autos/:id/restore/:version"},
	}
	routes := r.Routes()
	for _, w := range want {
		found := false
		for _, rt := range routes {
			if rt.Method == w.method && rt.Path == w.path {
				found = true
				break
			}
		}
		assert.True(t, found, "route %s %s not registered", w.method, w.path)
	}

	// 未提供 Metrics 時不註冊 /metrics
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
