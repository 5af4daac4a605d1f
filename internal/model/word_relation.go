package model

import "time"

// Relation types accepted between two words.
var WordRelationTypes = []string{"synonym", "antonym", "derivation", "compound", "lexical_family"}

// WordRelation links two distinct words. Directional relations read
// origin → related; symmetric relations hold in both directions.
type WordRelation struct {
	ID            string `gorm:"primaryKey" json:"id"`
	OriginWordID  string `gorm:"not null;uniqueIndex:uq_word_relations;index" json:"origin_word_id"`
	RelatedWordID string `gorm:"not null;uniqueIndex:uq_word_relations;index" json:"related_word_id"`
	RelationType  string `gorm:"not null;uniqueIndex:uq_word_relations" json:"relation_type"`

	Strength    float64 `json:"strength"` // [0,1]
	Directional bool    `json:"directional"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Origin  *Word `gorm:"foreignKey:OriginWordID;constraint:OnDelete:CASCADE" json:"-"`
	Related *Word `gorm:"foreignKey:RelatedWordID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WordRelation) TableName() string {
	return "word_relations"
}
