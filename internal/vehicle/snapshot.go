// internal/vehicle/snapshot.go
//
// Memento：以明確的結構拷貝保存車輛完整欄位，而非泛用的淺拷貝。

package vehicle

import (
	"slices"
	"time"
)

// Snapshot 為某一時刻車輛狀態的不可變拷貝。
// 欄位皆不匯出，只能透過 Vehicle.Snapshot 產生。
type Snapshot struct {
	brand    string
	model    string
	color    string
	variant  Variant
	features []Feature
	taken    time.Time
}

// Snapshot 擷取目前完整狀態（含車型與配備組成）。
func (v *Vehicle) Snapshot() Snapshot {
	return Snapshot{
		brand:    v.Brand,
		model:    v.Model,
		color:    v.Color,
		variant:  v.variant,
		features: slices.Clone(v.features),
		taken:    time.Now(),
	}
}

// Restore 以快照覆寫車輛的全部欄位。
func (v *Vehicle) Restore(s Snapshot) {
	v.Brand = s.brand
	v.Model = s.model
	v.Color = s.color
	v.variant = s.variant
	v.features = slices.Clone(s.features)
}

func (s Snapshot) Brand() string       { return s.brand }
func (s Snapshot) Model() string       { return s.model }
func (s Snapshot) Color() string       { return s.color }
func (s Snapshot) Variant() Variant    { return s.variant }
func (s Snapshot) Features() []Feature { return slices.Clone(s.features) }
func (s Snapshot) TakenAt() time.Time  { return s.taken }

// Vehicle 由快照重建一台獨立的車輛，用於計算該版本的描述與價格。
func (s Snapshot) Vehicle() *Vehicle {
	v := &Vehicle{}
	v.Restore(s)
	return v
}
