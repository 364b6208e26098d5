package domain

import "strings"

type Product struct {
	ProductID    string `gorm:"size:32;primaryKey"`
	CategoryName string `gorm:"size:100;index"`
	PhotosQty    int
	WeightG      int
}

// CategoryTranslation maps a source-language category name to English. The
// lookup is not guaranteed complete.
type CategoryTranslation struct {
	CategoryName        string `gorm:"size:100;primaryKey"`
	CategoryNameEnglish string `gorm:"size:100"`
}

// UnknownCategory buckets fact rows whose product has no category at all.
const UnknownCategory = "unknown"

// CategoryLabel resolves the reporting label: prefer the English translation,
// fall back to the original name, else the unknown bucket.
func CategoryLabel(english, original string) string {
	if s := strings.TrimSpace(english); s != "" {
		return s
	}
	if s := strings.TrimSpace(original); s != "" {
		return s
	}
	return UnknownCategory
}
