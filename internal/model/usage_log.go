package model

import "time"

// UsageLog is an immutable record of one translation lookup. Rows are only
// ever inserted by the application; pruning is the retention job's business.
type UsageLog struct {
	ID            string `gorm:"primaryKey" json:"id"`
	TranslationID string `gorm:"not null;index" json:"translation_id"`

	UserID           *string `gorm:"index" json:"user_id,omitempty"`
	QueryText        string  `json:"query_text"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
	UserAgent        string  `json:"user_agent,omitempty"`
	IPAddress        string  `json:"ip_address,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Translation *Translation `gorm:"foreignKey:TranslationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
