package model

import "time"

// Variant types accepted for a word variant.
var WordVariantTypes = []string{"dialectal", "phonetic", "morphological", "orthographic"}

// WordVariant is a dialectal, phonetic, morphological or orthographic
// alternative of a word. Variants are owned by their parent word and
// disappear with it.
type WordVariant struct {
	ID     string `gorm:"primaryKey" json:"id"`
	WordID string `gorm:"not null;uniqueIndex:uq_word_variants;index" json:"word_id"`

	VariantText     string  `gorm:"not null;uniqueIndex:uq_word_variants" json:"variant_text"`
	VariantType     string  `gorm:"not null;uniqueIndex:uq_word_variants" json:"variant_type"`
	FrequencyWeight float64 `json:"frequency_weight"` // [0,1] relative to the canonical form
	Verified        bool    `json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WordVariant) TableName() string {
	return "word_variants"
}
