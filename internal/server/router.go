// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊，與 handler.go 分離：
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」與 middleware 順序

package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"autoshop/internal/observability"
)

// Router 建立並回傳整個 HTTP 處理鏈。
// 所有 API 同時掛在根路徑與 /api/v1 下；/metrics 只在根路徑。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.recovery())
	if s.tracing {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(s.accessLog(), corsMiddleware())
	if s.limiter != nil {
		r.Use(s.rateLimit())
	}

	s.mount(r)
	s.mount(r.Group("/api/v1"))

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// mount 註冊一組 API 路由：
//   - GET    /health
//   - POST   /autos                          → 建立
//   - GET    /autos                          → 列出
//   - GET    /autos/:id                      → 查詢
//   - PUT    /autos/:id                      → 部分更新
//   - DELETE /autos/:id                      → 刪除
//   - POST   /autos/:id/restore/:version     → 還原
//   - GET    /autos/:id/history              → 歷史匯出
func (s *Server) mount(g gin.IRoutes) {
	g.GET("/health", s.health)
	g.POST("/autos", s.createAuto)
	g.GET("/autos", s.listAutos)
	g.GET("/autos/:id", s.getAuto)
	g.PUT("/autos/:id", s.updateAuto)
	g.DELETE("/autos/:id", s.deleteAuto)
	g.POST("/autos/:id/restore/:version", s.restoreAuto)
	g.GET("/autos/:id/history", s.autoHistory)
}
