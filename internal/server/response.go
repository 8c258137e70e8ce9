// internal/server/response.go
//
// 統一錯誤回應格式與「領域錯誤 → HTTP 狀態碼」的對應。
// 所有錯誤皆以 {"error": "..."} 輸出。

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoshop/internal/archive"
	"autoshop/internal/registry"
	"autoshop/internal/vehicle"
)

// statusFor 將錯誤對應到 HTTP 狀態碼；未列出的錯誤視為 500。
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, vehicle.ErrUnsupportedVariant):
		return http.StatusUnprocessableEntity
	case errors.Is(err, archive.ErrUnknownFormat), errors.Is(err, errBadParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeErr 輸出錯誤並中止後續 handler。code 為 0 時依 statusFor 決定。
func writeErr(c *gin.Context, err error, code int) {
	if code == 0 {
		code = statusFor(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
