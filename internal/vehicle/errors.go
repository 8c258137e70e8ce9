// internal/vehicle/errors.go
//
// 本檔集中定義 vehicle 套件的領域錯誤。
// 由 registry 原樣往上傳遞，最後由 HTTP handler 轉換成狀態碼。

package vehicle

import "errors"

var (
	// ErrUnsupportedVariant 代表建構時指定了不認得的車型（例如 "truck"）。
	// 對應 HTTP 狀態碼 422 Unprocessable Entity。
	ErrUnsupportedVariant = errors.New("unsupported vehicle variant")
)
