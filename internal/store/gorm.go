package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chichamlab/chicham/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// wrap maps gorm's errors onto the store sentinels so callers never see
// driver-specific failures.
func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (g *GormStore) CreateWord(ctx context.Context, word *model.Word) error {
	return wrap(g.db.WithContext(ctx).Create(word).Error)
}

func (g *GormStore) GetWord(ctx context.Context, id string) (*model.Word, error) {
	var word model.Word
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&word).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &word, nil
}

func (g *GormStore) UpdateWord(ctx context.Context, word *model.Word) error {
	return wrap(g.db.WithContext(ctx).Save(word).Error)
}

func (g *GormStore) ListActiveWords(ctx context.Context) ([]*model.Word, error) {
	var words []*model.Word
	err := g.db.WithContext(ctx).
		Where("status = ?", model.WordStatusActive).
		Order("created_at").
		Find(&words).Error
	return words, wrap(err)
}

func (g *GormStore) FindWordsByPrefix(ctx context.Context, prefix, scope string, limit int) ([]*model.Word, error) {
	q := g.db.WithContext(ctx).Where("status = ?", model.WordStatusActive)
	pattern := prefix + "%"
	switch scope {
	case "source":
		q = q.Where("shuar_text LIKE ?", pattern)
	case "target":
		q = q.Where("spanish_translation LIKE ?", pattern)
	default:
		q = q.Where("shuar_text LIKE ? OR spanish_translation LIKE ?", pattern, pattern)
	}

	var words []*model.Word
	err := q.Order("shuar_text").Limit(limit).Find(&words).Error
	return words, wrap(err)
}

func (g *GormStore) CreateWordVariant(ctx context.Context, variant *model.WordVariant) error {
	return wrap(g.db.WithContext(ctx).Create(variant).Error)
}

func (g *GormStore) ListWordVariants(ctx context.Context, wordID string) ([]*model.WordVariant, error) {
	var variants []*model.WordVariant
	err := g.db.WithContext(ctx).Where("word_id = ?", wordID).Order("created_at").Find(&variants).Error
	return variants, wrap(err)
}

func (g *GormStore) CreateWordRelation(ctx context.Context, relation *model.WordRelation) error {
	return wrap(g.db.WithContext(ctx).Create(relation).Error)
}

func (g *GormStore) ListWordRelations(ctx context.Context, wordID string) ([]*model.WordRelation, error) {
	var relations []*model.WordRelation
	err := g.db.WithContext(ctx).Where("origin_word_id = ?", wordID).Order("created_at").Find(&relations).Error
	return relations, wrap(err)
}

func (g *GormStore) CreateTranslation(ctx context.Context, tr *model.Translation) error {
	return wrap(g.db.WithContext(ctx).Create(tr).Error)
}

func (g *GormStore) GetTranslation(ctx context.Context, id string) (*model.Translation, error) {
	var tr model.Translation
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&tr).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &tr, nil
}

func (g *GormStore) UpdateTranslation(ctx context.Context, tr *model.Translation) error {
	return wrap(g.db.WithContext(ctx).Save(tr).Error)
}

func (g *GormStore) DeleteTranslation(ctx context.Context, id string) error {
	// feedback and usage rows cascade with the translation
	err := g.db.WithContext(ctx).Where("translation_id = ?", id).Delete(&model.Feedback{}).Error
	if err != nil {
		return wrap(err)
	}
	err = g.db.WithContext(ctx).Where("translation_id = ?", id).Delete(&model.UsageLog{}).Error
	if err != nil {
		return wrap(err)
	}
	return wrap(g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Translation{}).Error)
}

func (g *GormStore) FindTranslationsByText(ctx context.Context, text string, limit int) ([]*model.Translation, error) {
	var trs []*model.Translation
	err := g.db.WithContext(ctx).
		Where("source_text = ? OR target_text = ?", text, text).
		Order("confidence_score desc").
		Limit(limit).
		Find(&trs).Error
	return trs, wrap(err)
}

func (g *GormStore) ListTranslationsByStatus(ctx context.Context, status string) ([]*model.Translation, error) {
	var trs []*model.Translation
	err := g.db.WithContext(ctx).Where("status = ?", status).Order("created_at").Find(&trs).Error
	return trs, wrap(err)
}

func (g *GormStore) IncrementUsage(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).
		Model(&model.Translation{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) SetRatingAggregate(ctx context.Context, id string, agg RatingAggregate) error {
	res := g.db.WithContext(ctx).
		Model(&model.Translation{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"total_ratings":  agg.Count,
			"average_rating": agg.Average,
		})
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	return wrap(g.db.WithContext(ctx).Create(fb).Error)
}

func (g *GormStore) GetFeedback(ctx context.Context, id string) (*model.Feedback, error) {
	var fb model.Feedback
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&fb).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &fb, nil
}

func (g *GormStore) UpdateFeedback(ctx context.Context, fb *model.Feedback) error {
	return wrap(g.db.WithContext(ctx).Save(fb).Error)
}

func (g *GormStore) ListFeedbackForTranslation(ctx context.Context, translationID string) ([]*model.Feedback, error) {
	var fbs []*model.Feedback
	err := g.db.WithContext(ctx).
		Where("translation_id = ?", translationID).
		Order("created_at").
		Find(&fbs).Error
	return fbs, wrap(err)
}

func (g *GormStore) UserHasFeedback(ctx context.Context, userID, translationID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("user_id = ? AND translation_id = ?", userID, translationID).
		Count(&count).Error
	return count > 0, wrap(err)
}

func (g *GormStore) FeedbackRatingAggregate(ctx context.Context, translationID string) (RatingAggregate, error) {
	var agg struct {
		Count   int64
		Average sql.NullFloat64
	}
	err := g.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select("COUNT(rating) as count, AVG(rating) as average").
		Where("translation_id = ? AND rating IS NOT NULL", translationID).
		Scan(&agg).Error
	if err != nil {
		return RatingAggregate{}, wrap(err)
	}

	out := RatingAggregate{Count: agg.Count}
	if agg.Average.Valid {
		out.Average = agg.Average.Float64
	}
	return out, nil
}

func (g *GormStore) CreateUsageLog(ctx context.Context, entry *model.UsageLog) error {
	return wrap(g.db.WithContext(ctx).Create(entry).Error)
}

func (g *GormStore) ListUsageForTranslation(ctx context.Context, translationID string, limit int) ([]*model.UsageLog, error) {
	var entries []*model.UsageLog
	err := g.db.WithContext(ctx).
		Where("translation_id = ?", translationID).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error
	return entries, wrap(err)
}

func (g *GormStore) DeleteUsageBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.UsageLog{})
	return res.RowsAffected, wrap(res.Error)
}

func (g *GormStore) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	db := g.db.WithContext(ctx)
	stats := &GlobalStats{LanguagePairs: make(map[string]int64)}

	if err := db.Model(&model.Translation{}).Count(&stats.TotalTranslations).Error; err != nil {
		return nil, wrap(err)
	}
	if err := db.Model(&model.Translation{}).
		Where("status = ?", model.TranslationStatusApproved).
		Count(&stats.ApprovedTranslations).Error; err != nil {
		return nil, wrap(err)
	}
	if err := db.Model(&model.Translation{}).
		Where("status = ?", model.TranslationStatusPending).
		Count(&stats.PendingTranslations).Error; err != nil {
		return nil, wrap(err)
	}
	if err := db.Model(&model.Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		return nil, wrap(err)
	}
	if err := db.Model(&model.Feedback{}).
		Where("is_from_native_speaker = ?", true).
		Count(&stats.NativeSpeakerFeedback).Error; err != nil {
		return nil, wrap(err)
	}

	var avg sql.NullFloat64
	err := db.Model(&model.Feedback{}).
		Select("AVG(rating)").
		Where("rating IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return nil, wrap(err)
	}
	if avg.Valid {
		stats.GlobalAverageRating = avg.Float64
	}

	var usage sql.NullInt64
	err = db.Model(&model.Translation{}).Select("SUM(usage_count)").Scan(&usage).Error
	if err != nil {
		return nil, wrap(err)
	}
	if usage.Valid {
		stats.TotalUsage = usage.Int64
	}

	var pairs []struct {
		SourceLanguage string
		TargetLanguage string
		Count          int64
	}
	err = db.Model(&model.Translation{}).
		Select("source_language, target_language, COUNT(*) as count").
		Group("source_language, target_language").
		Scan(&pairs).Error
	if err != nil {
		return nil, wrap(err)
	}
	for _, p := range pairs {
		stats.LanguagePairs[p.SourceLanguage+"→"+p.TargetLanguage] = p.Count
	}

	return stats, nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
