package service

import (
	"context"
	"time"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/cache"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	globalStatsKey = "stats:global"
	globalStatsTTL = 5 * time.Minute
)

// NewStatsService creates a new StatsService.
func NewStatsService(store store.Store, kv cache.KV) *StatsService {
	return &StatsService{store: store, cache: kv}
}

// StatsService is the read-only reporting surface. Global stats are cached
// briefly; a cache failure falls through to the database.
type StatsService struct {
	store store.Store
	cache cache.KV
}

// Global returns the corpus-wide snapshot: translation counts by status,
// feedback volume, global average rating, usage sum and the per
// language-pair breakdown.
func (s *StatsService) Global(ctx context.Context) (*store.GlobalStats, error) {
	if s.cache != nil {
		var cached store.GlobalStats
		hit, err := s.cache.Get(ctx, globalStatsKey, &cached)
		if err != nil {
			logrus.Warnf("stats cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.store.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, globalStatsKey, stats, globalStatsTTL); err != nil {
			logrus.Warnf("stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

// TranslationSummary is the per-translation feedback breakdown.
type TranslationSummary struct {
	TranslationID   string           `json:"translation_id"`
	TotalFeedback   int64            `json:"total_feedback"`
	TotalRatings    int64            `json:"total_ratings"`
	AverageRating   float64          `json:"average_rating"`
	UsageCount      int64            `json:"usage_count"`
	ByType          map[string]int64 `json:"by_type"`
	ByStatus        map[string]int64 `json:"by_status"`
	RatingHistogram map[int]int64    `json:"rating_histogram"`
	NativeSpeakers  int64            `json:"native_speaker_feedback"`
}

// Summary aggregates the feedback on one translation for callers allowed
// to see it.
func (s *StatsService) Summary(ctx context.Context, p auth.Principal, translationID string) (*TranslationSummary, error) {
	tr, err := s.store.GetTranslation(ctx, translationID)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	if !auth.CanReadTranslation(p, tr) {
		return nil, notFoundf("translation not found")
	}

	rows, err := s.store.ListFeedbackForTranslation(ctx, translationID)
	if err != nil {
		return nil, storeErr(err, "feedback")
	}

	summary := &TranslationSummary{
		TranslationID:   tr.ID,
		TotalFeedback:   int64(len(rows)),
		TotalRatings:    tr.TotalRatings,
		AverageRating:   tr.AverageRating,
		UsageCount:      tr.UsageCount,
		ByType:          make(map[string]int64),
		ByStatus:        make(map[string]int64),
		RatingHistogram: make(map[int]int64),
	}
	for _, fb := range rows {
		summary.ByType[fb.FeedbackType]++
		summary.ByStatus[fb.Status]++
		if fb.Rating != nil {
			summary.RatingHistogram[*fb.Rating]++
		}
		if fb.IsFromNativeSpeaker {
			summary.NativeSpeakers++
		}
	}
	return summary, nil
}
