// internal/registry/errors.go
//
// 本檔集中定義 registry 層的領域錯誤。
// 不存在的 ID 屬於「可預期的負面結果」，不是系統錯誤；由上層決定如何呈現（例如 404）。

package registry

import "errors"

var (
	// ErrNotFound 代表車輛 ID 不存在（從未建立或已刪除）。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrNotFound = errors.New("vehicle not found")
)
