package model

import "time"

const (
	LanguageShuar   = "shuar"
	LanguageSpanish = "spanish"
)

const (
	TranslationStatusPending     = "pending"
	TranslationStatusApproved    = "approved"
	TranslationStatusRejected    = "rejected"
	TranslationStatusNeedsReview = "needs_review"
)

// MaxTranslationTextLen caps source and target text length.
const MaxTranslationTextLen = 500

// SupportedLanguage reports whether lang is one of the closed set of
// languages the service translates between.
func SupportedLanguage(lang string) bool {
	return lang == LanguageShuar || lang == LanguageSpanish
}

// Translation is a source/target text pair with a review workflow and
// derived quality metrics. AverageRating and TotalRatings are recomputed
// from the feedback rows and never written directly by callers; UsageCount
// is incremented in the same transaction as the usage log insert.
type Translation struct {
	ID string `gorm:"primaryKey" json:"id"`

	SourceText     string `gorm:"not null;index" json:"source_text"`
	TargetText     string `gorm:"not null;index" json:"target_text"`
	SourceLanguage string `gorm:"not null" json:"source_language"`
	TargetLanguage string `gorm:"not null" json:"target_language"`

	ConfidenceScore float64 `gorm:"default:0.5" json:"confidence_score"` // [0,1], algorithmic

	// Context metadata
	Domain        string `json:"domain,omitempty"`   // ceremonial, daily, hunting, ...
	Register      string `json:"register,omitempty"` // formal, informal, archaic
	Dialect       string `json:"dialect,omitempty"`
	CulturalNotes string `json:"cultural_notes,omitempty"`

	WordReferences IDList `json:"word_references,omitempty"`

	UsageCount    int64   `gorm:"not null;default:0" json:"usage_count"`
	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"` // [0,5], derived
	TotalRatings  int64   `gorm:"not null;default:0" json:"total_ratings"`

	Status     string     `gorm:"not null;default:pending;index" json:"status"`
	CreatedBy  string     `gorm:"index" json:"created_by,omitempty"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Translation) TableName() string {
	return "translations"
}

// Reviewable reports whether the translation can still be approved or
// rejected.
func (t *Translation) Reviewable() bool {
	return t.Status == TranslationStatusPending || t.Status == TranslationStatusNeedsReview
}

// PairLabel labels the language pair for statistics breakdowns.
func (t *Translation) PairLabel() string {
	return t.SourceLanguage + "→" + t.TargetLanguage
}
