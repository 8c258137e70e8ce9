// internal/vehicle/builder.go
//
// Builder 累積建構參數，Build() 時先決定車型，再依序疊加配備。

package vehicle

// Builder 為車輛建構器。請以 NewBuilder 建立：車型預設為 sedan。
// 零值的車型為空字串，Build 時會回傳 ErrUnsupportedVariant。
// 預期用法為單次使用（Build 後丟棄），但不強制。
type Builder struct {
	brand    string
	model    string
	color    string
	variant  string
	features []string
}

// NewBuilder 建立空白建構器。
func NewBuilder() *Builder {
	return &Builder{variant: string(DefaultVariant)}
}

func (b *Builder) Brand(s string) *Builder {
	b.brand = s
	return b
}

func (b *Builder) Model(s string) *Builder {
	b.model = s
	return b
}

func (b *Builder) Color(s string) *Builder {
	b.color = s
	return b
}

// Variant 設定車型名稱；合法性延後到 Build 檢查（空字串同樣不合法）。
func (b *Builder) Variant(s string) *Builder {
	b.variant = s
	return b
}

// AddFeature 追加一項配備。重複與未知名稱都會被接受。
func (b *Builder) AddFeature(name string) *Builder {
	b.features = append(b.features, name)
	return b
}

// Build 組裝車輛：
//  1. 車型不在集合內 → ErrUnsupportedVariant，不產生任何車輛。
//  2. 依加入順序套用配備；不認得的配備名稱直接略過。
func (b *Builder) Build() (*Vehicle, error) {
	variant, err := ParseVariant(b.variant)
	if err != nil {
		return nil, err
	}
	v := &Vehicle{Brand: b.brand, Model: b.model, Color: b.color, variant: variant}
	for _, name := range b.features {
		// TODO: reject unknown feature names in a /api/v2 create endpoint instead of skipping them.
		if f, ok := LookupFeature(name); ok {
			v.features = append(v.features, f)
		}
	}
	return v, nil
}
