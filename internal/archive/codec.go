// internal/archive/codec.go
//
// 提供歷史文件的序列化：JSON（json-iterator，縮排輸出）與 YAML（yaml.v3）。
// 僅供唯讀匯出；系統狀態不落地保存。

package archive

import (
	"errors"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// 支援的輸出格式。
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat 代表要求了不支援的輸出格式。
var ErrUnknownFormat = errors.New("unknown archive format")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ContentType 回傳格式對應的 MIME 類型。
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode 將文件以指定格式寫入 w；空字串視為 JSON。
// 會設定 Meta.Format 與 Meta.GeneratedAt。
func Encode(w io.Writer, doc Document, format string) error {
	if format == "" {
		format = FormatJSON
	}
	doc.Meta.Format = format
	doc.Meta.GeneratedAt = time.Now().UTC()

	switch format {
	case FormatJSON:
		enc := jsonAPI.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode 由 r 讀回文件，主要供測試與離線工具檢視匯出內容。
func Decode(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case "", FormatJSON:
		if err := jsonAPI.NewDecoder(r).Decode(&doc); err != nil {
			return doc, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return doc, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc, nil
}
