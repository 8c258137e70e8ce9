// internal/registry/model.go
//
// 定義 registry 對外交換的資料結構：建立參數、部分更新與讀取視圖。

package registry

import "autoshop/internal/vehicle"

// Fields 為建立車輛所需的參數。
// Variant 為 nil 視為未提供，套用預設 sedan；有提供時（含空字串）原樣交給建構器檢查。
// Features 為 nil 視為無配備。
type Fields struct {
	Brand    string
	Model    string
	Color    string
	Variant  *string
	Features []string
}

// Patch 為部分更新：僅非 nil 的欄位會被寫入。
// 只列出可變欄位；車型與配備在建立後不可更改。
type Patch struct {
	Brand *string
	Model *string
	Color *string
}

// Empty 判斷此 Patch 是否未包含任何欄位。
func (p Patch) Empty() bool {
	return p.Brand == nil && p.Model == nil && p.Color == nil
}

func (p Patch) apply(v *vehicle.Vehicle) {
	if p.Brand != nil {
		v.Brand = *p.Brand
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
}

// View 為單台車輛的讀取視圖；Description 與 Price 於讀取當下計算。
type View struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Color       string  `json:"color"`
}

func viewOf(id int, v *vehicle.Vehicle) View {
	return View{
		ID:          id,
		Description: v.Describe(),
		Price:       v.Price(),
		Brand:       v.Brand,
		Model:       v.Model,
		Color:       v.Color,
	}
}

// entry 為 registry 內部的一筆紀錄：現存車輛與其快照歷史。
// history 在車輛存在期間永不為空（index 0 = 建立時狀態）。
type entry struct {
	vehicle *vehicle.Vehicle
	history []vehicle.Snapshot
}
