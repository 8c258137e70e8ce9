// internal/archive/model.go
//
// 定義車輛歷史匯出文件的結構模型。
// 本層只描述資料格式，不涉入商業邏輯；registry 的快照在此轉為可序列化的純資料。

package archive

import (
	"time"

	"autoshop/internal/vehicle"
)

// Meta 為匯出文件的中繼資料。
type Meta struct {
	Format      string    `json:"format" yaml:"format"`                 // "json" 或 "yaml"
	Version     int       `json:"version" yaml:"version"`               // 文件結構版本
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`     // 匯出時間
	Note        string    `json:"note,omitempty" yaml:"note,omitempty"` // 備註
}

// Entry 為單一版本的內容；Description 與 Price 依該版本欄位重新計算。
type Entry struct {
	Version     int       `json:"version" yaml:"version"`
	TakenAt     time.Time `json:"taken_at" yaml:"taken_at"`
	Brand       string    `json:"brand" yaml:"brand"`
	Model       string    `json:"model" yaml:"model"`
	Color       string    `json:"color" yaml:"color"`
	Variant     string    `json:"variant" yaml:"variant"`
	Features    []string  `json:"features" yaml:"features"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
}

// Document 為單台車輛完整歷史的匯出文件。
type Document struct {
	Meta      Meta    `json:"_meta" yaml:"_meta"`
	VehicleID int     `json:"vehicle_id" yaml:"vehicle_id"`
	Versions  []Entry `json:"versions" yaml:"versions"`
}

// documentVersion 為目前的文件結構版本。
const documentVersion = 1

// NewDocument 將快照歷史轉為匯出文件；index 即可供還原的版本號。
func NewDocument(id int, history []vehicle.Snapshot) Document {
	doc := Document{
		Meta:      Meta{Version: documentVersion},
		VehicleID: id,
		Versions:  make([]Entry, 0, len(history)),
	}
	for i, s := range history {
		v := s.Vehicle()
		fs := s.Features()
		names := make([]string, len(fs))
		for j, f := range fs {
			names[j] = string(f)
		}
		doc.Versions = append(doc.Versions, Entry{
			Version:     i,
			TakenAt:     s.TakenAt(),
			Brand:       s.Brand(),
			Model:       s.Model(),
			Color:       s.Color(),
			Variant:     string(s.Variant()),
			Features:    names,
			Description: v.Describe(),
			Price:       v.Price(),
		})
	}
	return doc
}
