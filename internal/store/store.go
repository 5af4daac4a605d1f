package store

import (
	"context"
	"errors"
	"time"

	"github.com/chichamlab/chicham/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// RatingAggregate is the full recomputation of a translation's rating
// metrics over its rating-bearing feedback rows.
type RatingAggregate struct {
	Count   int64
	Average float64
}

// GlobalStats is the read-only reporting snapshot for the whole corpus.
type GlobalStats struct {
	TotalTranslations     int64            `json:"total_translations"`
	ApprovedTranslations  int64            `json:"approved_translations"`
	PendingTranslations   int64            `json:"pending_translations"`
	TotalFeedback         int64            `json:"total_feedback"`
	GlobalAverageRating   float64          `json:"global_average_rating"`
	TotalUsage            int64            `json:"total_usage"`
	NativeSpeakerFeedback int64            `json:"native_speaker_feedback"`
	LanguagePairs         map[string]int64 `json:"language_pairs"`
}

type Store interface {
	WordStore
	TranslationStore
	FeedbackStore
	UsageStore
	StatsStore
	// Transaction runs f against a store bound to one database
	// transaction; any error rolls the whole unit back.
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type WordStore interface {
	// CreateWord inserts a new dictionary entry.
	CreateWord(ctx context.Context, word *model.Word) error
	// GetWord retrieves a word by ID.
	GetWord(ctx context.Context, id string) (*model.Word, error)
	// UpdateWord persists changes to a word.
	UpdateWord(ctx context.Context, word *model.Word) error
	// ListActiveWords retrieves all active words.
	ListActiveWords(ctx context.Context) ([]*model.Word, error)
	// FindWordsByPrefix retrieves active words whose shuar text or gloss
	// starts with the given prefix, per scope.
	FindWordsByPrefix(ctx context.Context, prefix, scope string, limit int) ([]*model.Word, error)
	// CreateWordVariant inserts a variant of a word.
	CreateWordVariant(ctx context.Context, variant *model.WordVariant) error
	// ListWordVariants retrieves the variants of a word.
	ListWordVariants(ctx context.Context, wordID string) ([]*model.WordVariant, error)
	// CreateWordRelation inserts a relation between two words.
	CreateWordRelation(ctx context.Context, relation *model.WordRelation) error
	// ListWordRelations retrieves the relations originating from a word.
	ListWordRelations(ctx context.Context, wordID string) ([]*model.WordRelation, error)
}

type TranslationStore interface {
	// CreateTranslation inserts a new translation pair.
	CreateTranslation(ctx context.Context, tr *model.Translation) error
	// GetTranslation retrieves a translation by ID.
	GetTranslation(ctx context.Context, id string) (*model.Translation, error)
	// UpdateTranslation persists changes to a translation.
	UpdateTranslation(ctx context.Context, tr *model.Translation) error
	// DeleteTranslation removes a translation; feedback and usage rows go
	// with it. Admin-initiated only.
	DeleteTranslation(ctx context.Context, id string) error
	// FindTranslationsByText retrieves translations whose source or target
	// text matches exactly.
	FindTranslationsByText(ctx context.Context, text string, limit int) ([]*model.Translation, error)
	// ListTranslationsByStatus retrieves translations in a given workflow
	// state, oldest first.
	ListTranslationsByStatus(ctx context.Context, status string) ([]*model.Translation, error)
	// IncrementUsage bumps the usage counter by one, atomically in the
	// database.
	IncrementUsage(ctx context.Context, id string) error
	// SetRatingAggregate overwrites the derived rating fields.
	SetRatingAggregate(ctx context.Context, id string, agg RatingAggregate) error
}

type FeedbackStore interface {
	// CreateFeedback inserts a feedback row.
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	// GetFeedback retrieves a feedback row by ID.
	GetFeedback(ctx context.Context, id string) (*model.Feedback, error)
	// UpdateFeedback persists changes to a feedback row.
	UpdateFeedback(ctx context.Context, fb *model.Feedback) error
	// ListFeedbackForTranslation retrieves all feedback on a translation,
	// oldest first.
	ListFeedbackForTranslation(ctx context.Context, translationID string) ([]*model.Feedback, error)
	// UserHasFeedback reports whether the user already submitted feedback
	// on the translation.
	UserHasFeedback(ctx context.Context, userID, translationID string) (bool, error)
	// FeedbackRatingAggregate recomputes COUNT and AVG over the
	// rating-bearing feedback rows of a translation.
	FeedbackRatingAggregate(ctx context.Context, translationID string) (RatingAggregate, error)
}

type UsageStore interface {
	// CreateUsageLog appends a usage log entry.
	CreateUsageLog(ctx context.Context, entry *model.UsageLog) error
	// ListUsageForTranslation retrieves the usage entries of a
	// translation, newest first.
	ListUsageForTranslation(ctx context.Context, translationID string, limit int) ([]*model.UsageLog, error)
	// DeleteUsageBefore prunes usage entries older than cutoff and reports
	// how many went.
	DeleteUsageBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type StatsStore interface {
	// GlobalStats computes the corpus-wide reporting snapshot.
	GlobalStats(ctx context.Context) (*GlobalStats, error)
}
