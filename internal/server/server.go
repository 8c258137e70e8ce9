// internal/server/server.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 registry 的傳輸層 (Transport Layer)。
// 每個 handler 僅負責：
//  1. 解析路徑參數與驗證請求內容
//  2. 呼叫 registry 執行操作
//  3. 將結果或錯誤轉為 JSON 回應
//
// registry 不依賴 HTTP；server 依賴 registry。
package server

import (
	"log/slog"

	"golang.org/x/time/rate"

	"autoshop/internal/observability"
	"autoshop/internal/registry"
)

// Options 為 Server 的可選相依；零值可用。
type Options struct {
	// Logger 為存取日誌使用的 logger；nil 時使用 slog.Default()。
	Logger *slog.Logger
	// Metrics 非 nil 時記錄請求耗時並提供 /metrics。
	Metrics *observability.Metrics
	// RateLimit 為每秒請求數上限；0 表示不限速。
	RateLimit float64
	RateBurst int
	// Tracing 為 true 時掛上 otelgin middleware。
	Tracing bool
}

// Server 為 HTTP 層核心結構。
type Server struct {
	Registry *registry.Registry

	logger  *slog.Logger
	metrics *observability.Metrics
	limiter *rate.Limiter
	tracing bool
}

// NewServer 建立新的 HTTP 伺服器。
func NewServer(r *registry.Registry, opts Options) *Server {
	s := &Server{
		Registry: r,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracing:  opts.Tracing,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}
