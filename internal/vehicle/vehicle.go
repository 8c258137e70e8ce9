// internal/vehicle/vehicle.go

// Package vehicle 定義核心領域模型：車型、加裝配備、建構器與狀態快照 (Memento)。
// 不含任何 HTTP 或儲存細節；並行保護由持有者（registry）負責。
//
// 配備鏈不以執行期包裝 (wrapping) 實作，而是以「車型標籤 + 有序配備清單」保存，
// Describe/Price 依清單順序折疊計算，輸出與逐層包裝完全一致。
package vehicle

import (
	"fmt"
	"slices"
	"strings"
)

// Vehicle 為已組裝完成的車輛。
// Brand/Model/Color 為可變的識別欄位；車型與配備在建立後不可變。
type Vehicle struct {
	Brand string
	Model string
	Color string

	variant  Variant
	features []Feature
}

// Variant 回傳基本車型。
func (v *Vehicle) Variant() Variant { return v.variant }

// Features 回傳已套用配備（依套用順序）的拷貝。
func (v *Vehicle) Features() []Feature { return slices.Clone(v.features) }

// Describe 回傳 "<brand> <model> (<color>)"，再依套用順序附加各配備後綴。
func (v *Vehicle) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%s)", v.Brand, v.Model, v.Color)
	for _, f := range v.features {
		sb.WriteString(f.Suffix())
	}
	return sb.String()
}

// Price 回傳基本價格加上所有配備加價。
func (v *Vehicle) Price() float64 {
	p := v.variant.BasePrice()
	for _, f := range v.features {
		p += f.Surcharge()
	}
	return p
}
