// internal/vehicle/variant.go
//
// 定義車型 (Variant) 與加裝配備 (Feature) 的封閉集合。
// 車型決定基本價格；配備以固定後綴與固定加價疊加在描述與價格上。

package vehicle

import "fmt"

// Variant 為基本車型標籤。
type Variant string

const (
	Sedan Variant = "sedan"
	SUV   Variant = "suv"
)

// DefaultVariant 為未指定車型時的預設值。
const DefaultVariant = Sedan

// basePrices 為各車型的固定基本價格。
var basePrices = map[Variant]float64{
	Sedan: 20000.0,
	SUV:   30000.0,
}

// ParseVariant 將字串轉為 Variant；不在集合內則回傳 ErrUnsupportedVariant。
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if _, ok := basePrices[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVariant, s)
	}
	return v, nil
}

// BasePrice 回傳車型的基本價格；未知車型回傳 0。
func (v Variant) BasePrice() float64 {
	return basePrices[v]
}

// Variants 回傳所有支援的車型（固定順序），供驗證訊息與文件使用。
func Variants() []Variant {
	return []Variant{Sedan, SUV}
}

// Feature 為加裝配備標籤。
type Feature string

const (
	Sunroof Feature = "sunroof"
	Sport   Feature = "sport"
)

// featureSpec 描述一項配備對描述與價格的影響。
type featureSpec struct {
	suffix    string
	surcharge float64
}

var features = map[Feature]featureSpec{
	Sunroof: {suffix: " + Sunroof", surcharge: 1200.0},
	Sport:   {suffix: " + Sport Package", surcharge: 2500.0},
}

// LookupFeature 判斷名稱是否為已知配備。
func LookupFeature(name string) (Feature, bool) {
	f := Feature(name)
	_, ok := features[f]
	return f, ok
}

// Suffix 回傳配備附加於描述的固定後綴。
func (f Feature) Suffix() string { return features[f].suffix }

// Surcharge 回傳配備的固定加價。
func (f Feature) Surcharge() float64 { return features[f].surcharge }
