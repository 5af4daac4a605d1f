package model

import "time"

const (
	FeedbackStatusPending     = "pending"
	FeedbackStatusReviewed    = "reviewed"
	FeedbackStatusApproved    = "approved"
	FeedbackStatusRejected    = "rejected"
	FeedbackStatusImplemented = "implemented"
)

const (
	FeedbackTypeRating        = "rating"
	FeedbackTypeCorrection    = "correction"
	FeedbackTypeSuggestion    = "suggestion"
	FeedbackTypeCulturalNote  = "cultural_note"
	FeedbackTypePronunciation = "pronunciation"
)

// Length caps on feedback text fields.
const (
	MaxCommentLen       = 1000
	MaxSuggestionLen    = 500
	MaxCulturalLen      = 1000
	MaxPronunciationLen = 500
	MaxExpertNotesLen   = 1000
)

// Feedback is one user's input on one translation: a rating, a comment, a
// suggested alternative, a cultural-context note, a pronunciation note, or
// any combination — at least one must be present. UserRole is a snapshot of
// the submitter's role at submission time and is never re-derived.
type Feedback struct {
	ID            string `gorm:"primaryKey" json:"id"`
	TranslationID string `gorm:"not null;index" json:"translation_id"`

	UserID              *string `gorm:"index" json:"user_id,omitempty"`
	UserRole            string  `gorm:"not null;default:visitor" json:"user_role"`
	FeedbackType        string  `gorm:"not null" json:"feedback_type"`
	Rating              *int    `json:"rating,omitempty"` // 1..5
	Comment             string  `json:"comment,omitempty"`
	SuggestedText       string  `json:"suggested_translation,omitempty"`
	CulturalContext     string  `json:"cultural_context,omitempty"`
	PronunciationNotes  string  `json:"pronunciation_notes,omitempty"`
	IsFromNativeSpeaker bool    `json:"is_from_native_speaker"`

	Status      string     `gorm:"not null;default:pending;index" json:"status"`
	ExpertNotes string     `json:"expert_notes,omitempty"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Translation *Translation `gorm:"foreignKey:TranslationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// HasContent reports whether at least one content field is populated.
func (f *Feedback) HasContent() bool {
	return f.Rating != nil ||
		f.Comment != "" ||
		f.SuggestedText != "" ||
		f.CulturalContext != "" ||
		f.PronunciationNotes != ""
}

// Reviewed reports whether an expert has already acted on the feedback.
func (f *Feedback) Reviewed() bool {
	return f.Status != FeedbackStatusPending
}
