// internal/server/middleware.go
//
// 本檔集中定義 gin middleware：request id、panic 復原、存取日誌與指標、CORS、限速。

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 為請求追蹤 ID 的標頭名稱。
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

var (
	errRateLimited = errors.New("rate limit exceeded")
	errInternal    = errors.New("internal server error")
)

// maxRequestIDLen 為沿用呼叫端 request id 的長度上限。
const maxRequestIDLen = 64

// validRequestID 限制可沿用的 request id 為短的可列印 token。
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// requestID 沿用呼叫端提供的 X-Request-ID，否則產生新的 UUID，並回寫到回應標頭。
// 過長或含有 token 以外字元的值不會被沿用。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if len(id) > maxRequestIDLen || !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// recovery 攔截 handler 的 panic，透過 slog 記錄（含 request id 與路由）並回傳 500。
// gin 內建的 stderr 輸出關閉，避免同一個 panic 出現在兩個地方。
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		s.logger.Error("panic recovered",
			"panic", fmt.Sprint(rec),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
		writeErr(c, errInternal, http.StatusInternalServerError)
	})
}

// accessLog 於請求結束後輸出一行結構化日誌，並記錄耗時指標。
// route 使用 gin 的路由樣板（例如 /autos/:id），未匹配時為 "unmatched"。
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if s.metrics != nil {
			s.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)
		}

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request failed", attrs...)
		case status >= http.StatusBadRequest:
			s.logger.Warn("request rejected", attrs...)
		default:
			s.logger.Info("request handled", attrs...)
		}
	}
}

// corsMiddleware 允許任何來源存取（前端開發伺服器與 API 不同源）。
// 只有帶 Origin 的請求會加上 CORS 標頭；預檢請求以 204 結束。
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		MaxAge:           12 * time.Hour,
	})
}

// rateLimit 以全域 token bucket 限速；超過時回傳 429。
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			writeErr(c, errRateLimited, http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
