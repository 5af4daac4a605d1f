package model

import (
	"time"
)

const (
	WordStatusActive      = "active"
	WordStatusDeprecated  = "deprecated"
	WordStatusUnderReview = "under_review"
	WordStatusArchived    = "archived"
)

// WordTypes are the grammatical categories accepted for a dictionary entry.
var WordTypes = []string{
	"noun", "verb", "adjective", "adverb",
	"pronoun", "conjunction", "preposition", "interjection",
}

// Word is a canonical dictionary entry with its phonological, morphological
// and semantic attributes. Words are never hard-deleted; retirement is a
// status transition to archived or deprecated.
type Word struct {
	ID string `gorm:"primaryKey" json:"id"`

	ShuarText          string `gorm:"not null;uniqueIndex:uq_words_text_gloss_type" json:"shuar_text"`
	SpanishTranslation string `gorm:"not null;uniqueIndex:uq_words_text_gloss_type" json:"spanish_translation"`
	WordType           string `gorm:"not null;uniqueIndex:uq_words_text_gloss_type" json:"word_type"`

	// Phonology
	IPATranscription     string     `json:"ipa_transcription,omitempty"`
	SyllableBreakdown    string     `json:"syllable_breakdown,omitempty"`
	StressPosition       int        `json:"stress_position,omitempty"`
	VocalTypes           StringList `json:"vocal_types,omitempty"` // oral, nasal, laryngealized
	SyllablePattern      string     `json:"syllable_pattern,omitempty"`
	PhonologicalAnalysis JSONMap    `json:"phonological_analysis,omitempty"`

	// Morphology
	RootWord          string     `json:"root_word,omitempty"`
	Prefixes          StringList `json:"prefixes,omitempty"`
	Suffixes          StringList `json:"suffixes,omitempty"`
	MorphemeBreakdown JSONMap    `json:"morpheme_breakdown,omitempty"`

	// Semantics
	ExtendedDefinition string     `json:"extended_definition,omitempty"`
	Synonyms           StringList `json:"synonyms,omitempty"`
	Antonyms           StringList `json:"antonyms,omitempty"`
	SemanticField      string     `json:"semantic_field,omitempty"`

	// Usage metadata
	Formality     string   `json:"formality,omitempty"`
	Register      string   `json:"register,omitempty"`
	Dialect       string   `json:"dialect,omitempty"`
	Region        string   `json:"region,omitempty"`
	UsageExamples JSONList `json:"usage_examples,omitempty"`

	FrequencyScore   int     `json:"frequency_score"`
	DifficultyLevel  int     `json:"difficulty_level"`
	ReliabilityScore float64 `json:"reliability_score"` // [0,1]
	NativeVerified   bool    `json:"native_verified"`
	ExpertVerified   bool    `json:"expert_verified"`

	Status    string `gorm:"not null;default:active;index" json:"status"`
	CreatedBy string `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variants []WordVariant `gorm:"foreignKey:WordID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Word) TableName() string {
	return "words"
}

// Active reports whether the word is visible to unprivileged readers.
func (w *Word) Active() bool {
	return w.Status == WordStatusActive
}
