// internal/server/request.go
//
// 定義 HTTP 請求結構與其驗證規則（go-playground/validator）。
// 驗證只處理傳輸層的形狀與大小限制；車型合法性由 vehicle 建構器判斷，
// 不認得的配備名稱與多餘的 JSON 欄位一律忽略。

package server

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"autoshop/internal/registry"
)

// maxFieldBytes 為單一字串欄位的大小上限。
const maxFieldBytes = 256

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes 以位元組（非字元數）檢查字串長度。
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxFieldBytes
}

// createRequest 對應 POST /autos。
// brand/model/color 必須出現（可為空字串）；variant 省略時為 sedan，明確給空字串則不合法；
// features 省略時為空。
type createRequest struct {
	Brand    *string  `json:"brand" validate:"required,maxbytes"`
	Model    *string  `json:"model" validate:"required,maxbytes"`
	Color    *string  `json:"color" validate:"required,maxbytes"`
	Variant  *string  `json:"variant" validate:"omitempty,maxbytes"`
	Features []string `json:"features" validate:"max=64,dive,maxbytes"`
}

func (r *createRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid create request: %w", err)
	}
	return nil
}

func (r *createRequest) fields() registry.Fields {
	return registry.Fields{
		Brand:    *r.Brand,
		Model:    *r.Model,
		Color:    *r.Color,
		Variant:  r.Variant,
		Features: r.Features,
	}
}

// updateRequest 對應 PUT /autos/{id}；只有出現的欄位會被寫入。
type updateRequest struct {
	Brand *string `json:"brand" validate:"omitempty,maxbytes"`
	Model *string `json:"model" validate:"omitempty,maxbytes"`
	Color *string `json:"color" validate:"omitempty,maxbytes"`
}

func (r *updateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid update request: %w", err)
	}
	return nil
}

func (r *updateRequest) patch() registry.Patch {
	return registry.Patch{Brand: r.Brand, Model: r.Model, Color: r.Color}
}
