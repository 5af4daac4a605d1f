package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/search"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultConfidence is assigned to a new translation when the submitter
// supplies no algorithmic score.
const DefaultConfidence = 0.5

// NewTranslationService creates a new TranslationService.
func NewTranslationService(store store.Store) *TranslationService {
	return &TranslationService{store: store, words: NewWordService(store)}
}

// TranslationService owns the translation workflow: submission, expert
// review, lookups and usage accounting.
type TranslationService struct {
	store store.Store
	words *WordService
}

type CreateTranslationInput struct {
	SourceText     string
	TargetText     string
	SourceLanguage string
	TargetLanguage string
	Confidence     *float64
	Domain         string
	Register       string
	Dialect        string
	CulturalNotes  string
	WordReferences []string
}

// Create submits a new translation pair. The result is owned by the caller
// and enters the workflow as pending.
func (s *TranslationService) Create(ctx context.Context, p auth.Principal, in CreateTranslationInput) (*model.Translation, error) {
	if !auth.CanCreateTranslation(p) {
		return nil, authorizationf("translations can only be submitted by authenticated users")
	}

	source := strings.TrimSpace(in.SourceText)
	target := strings.TrimSpace(in.TargetText)
	if source == "" {
		return nil, validationf("source text is required")
	}
	if target == "" {
		return nil, validationf("target text is required")
	}
	if utf8.RuneCountInString(source) > model.MaxTranslationTextLen || utf8.RuneCountInString(target) > model.MaxTranslationTextLen {
		return nil, validationf("text exceeds maximum length of %d characters", model.MaxTranslationTextLen)
	}
	if !model.SupportedLanguage(in.SourceLanguage) || !model.SupportedLanguage(in.TargetLanguage) {
		return nil, validationf("unsupported language pair %q→%q", in.SourceLanguage, in.TargetLanguage)
	}
	if in.SourceLanguage == in.TargetLanguage {
		return nil, validationf("source and target languages must be different")
	}

	confidence := DefaultConfidence
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return nil, validationf("confidence score must be between 0.0 and 1.0")
	}

	tr := &model.Translation{
		ID:              uuid.New().String(),
		SourceText:      source,
		TargetText:      target,
		SourceLanguage:  in.SourceLanguage,
		TargetLanguage:  in.TargetLanguage,
		ConfidenceScore: confidence,
		Domain:          in.Domain,
		Register:        in.Register,
		Dialect:         in.Dialect,
		CulturalNotes:   in.CulturalNotes,
		WordReferences:  dedupe(in.WordReferences),
		Status:          model.TranslationStatusPending,
		CreatedBy:       p.ID,
	}

	if err := s.store.CreateTranslation(ctx, tr); err != nil {
		return nil, storeErr(err, "translation")
	}

	return tr, nil
}

// Get retrieves a translation the caller is allowed to see. Rows invisible
// under the caller's read policy report as not found.
func (s *TranslationService) Get(ctx context.Context, p auth.Principal, id string) (*model.Translation, error) {
	tr, err := s.store.GetTranslation(ctx, id)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	if !auth.CanReadTranslation(p, tr) {
		return nil, notFoundf("translation not found")
	}
	return tr, nil
}

// Approve transitions a pending or needs_review translation to approved
// and records the approver.
func (s *TranslationService) Approve(ctx context.Context, p auth.Principal, id string) (*model.Translation, error) {
	return s.review(ctx, p, id, model.TranslationStatusApproved)
}

// Reject transitions a pending or needs_review translation to rejected.
func (s *TranslationService) Reject(ctx context.Context, p auth.Principal, id string) (*model.Translation, error) {
	return s.review(ctx, p, id, model.TranslationStatusRejected)
}

func (s *TranslationService) review(ctx context.Context, p auth.Principal, id, status string) (*model.Translation, error) {
	if !auth.CanManageTranslation(p) {
		return nil, authorizationf("only experts can review translations")
	}

	tr, err := s.store.GetTranslation(ctx, id)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	if !tr.Reviewable() {
		return nil, invalidStatef("translation is %s and cannot be reviewed", tr.Status)
	}

	tr.Status = status
	if status == model.TranslationStatusApproved {
		now := nowFn()
		tr.ApprovedBy = &p.ID
		tr.ApprovedAt = &now
	} else {
		tr.ApprovedBy = nil
		tr.ApprovedAt = nil
	}

	if err := s.store.UpdateTranslation(ctx, tr); err != nil {
		return nil, storeErr(err, "translation")
	}
	return tr, nil
}

// Update replaces the target text. The translation loses its approval and
// goes back through review.
func (s *TranslationService) Update(ctx context.Context, p auth.Principal, id, targetText string) (*model.Translation, error) {
	target := strings.TrimSpace(targetText)
	if target == "" {
		return nil, validationf("target text is required")
	}
	if utf8.RuneCountInString(target) > model.MaxTranslationTextLen {
		return nil, validationf("text exceeds maximum length of %d characters", model.MaxTranslationTextLen)
	}

	tr, err := s.store.GetTranslation(ctx, id)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	if !auth.CanReadTranslation(p, tr) {
		return nil, notFoundf("translation not found")
	}
	if !auth.CanUpdateTranslation(p, tr) {
		return nil, authorizationf("only the creator or an expert can update a translation")
	}

	tr.TargetText = target
	tr.Status = model.TranslationStatusNeedsReview
	tr.ApprovedBy = nil
	tr.ApprovedAt = nil

	if err := s.store.UpdateTranslation(ctx, tr); err != nil {
		return nil, storeErr(err, "translation")
	}
	return tr, nil
}

// ListPending returns the expert review queue: pending first, then
// needs_review, oldest first within each.
func (s *TranslationService) ListPending(ctx context.Context, p auth.Principal) ([]*model.Translation, error) {
	if !auth.CanManageTranslation(p) {
		return nil, authorizationf("only experts can list the review queue")
	}

	pending, err := s.store.ListTranslationsByStatus(ctx, model.TranslationStatusPending)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	needsReview, err := s.store.ListTranslationsByStatus(ctx, model.TranslationStatusNeedsReview)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	return append(pending, needsReview...), nil
}

// Delete removes a translation together with its feedback and usage rows.
// Admin only; everything else in the system archives instead of deleting.
func (s *TranslationService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if p.Role != auth.RoleAdmin {
		return authorizationf("only admins can delete translations")
	}
	if _, err := s.store.GetTranslation(ctx, id); err != nil {
		return storeErr(err, "translation")
	}
	return storeErr(s.store.DeleteTranslation(ctx, id), "translation")
}

// UsageContext carries request metadata into the usage log.
type UsageContext struct {
	UserID           *string
	QueryText        string
	DetectedLanguage string
	UserAgent        string
	IPAddress        string
}

// RecordUsage appends a usage log entry and increments the translation's
// usage counter in one transaction. Concurrent calls for the same
// translation are safe: the increment happens in the database, not
// read-modify-write in the application.
func (s *TranslationService) RecordUsage(ctx context.Context, translationID string, usage UsageContext) error {
	entry := &model.UsageLog{
		ID:               uuid.New().String(),
		TranslationID:    translationID,
		UserID:           usage.UserID,
		QueryText:        usage.QueryText,
		DetectedLanguage: usage.DetectedLanguage,
		UserAgent:        usage.UserAgent,
		IPAddress:        usage.IPAddress,
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.IncrementUsage(ctx, translationID); err != nil {
			return err
		}
		return tx.CreateUsageLog(ctx, entry)
	})
	return storeErr(err, "translation")
}

// LookupResult is the outcome of a translation lookup. SimilarWords is
// only populated when no translation matched: dictionary words close to
// the query, as suggestions for what the caller may have meant.
type LookupResult struct {
	QueryText        string               `json:"query_text"`
	DetectedLanguage string               `json:"detected_language"`
	DetectionScore   float64              `json:"detection_score"`
	Matches          []*model.Translation `json:"matches"`
	SimilarWords     []WordMatch          `json:"similar_words,omitempty"`
}

// Lookup finds translations whose source or target text matches the query
// exactly, filtered to what the caller may see. Each served translation
// gets a usage record; a failed usage write is logged and never fails the
// lookup. When nothing matches, the dictionary is searched for similar
// words instead.
func (s *TranslationService) Lookup(ctx context.Context, p auth.Principal, text string, usage UsageContext) (*LookupResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("text is required")
	}
	if utf8.RuneCountInString(text) > model.MaxTranslationTextLen {
		return nil, validationf("text exceeds maximum length of %d characters", model.MaxTranslationTextLen)
	}

	detection := search.DetectLanguage(text)

	rows, err := s.store.FindTranslationsByText(ctx, text, 50)
	if err != nil {
		return nil, storeErr(err, "translation")
	}

	matches := make([]*model.Translation, 0, len(rows))
	for _, tr := range rows {
		if !auth.CanReadTranslation(p, tr) {
			continue
		}
		matches = append(matches, tr)
	}

	usage.QueryText = text
	usage.DetectedLanguage = detection.Language
	for _, tr := range matches {
		// best-effort relative to serving the result
		if err := s.RecordUsage(ctx, tr.ID, usage); err != nil {
			logrus.Warnf("usage record failed for translation %s: %v", tr.ID, err)
		}
	}

	var similar []WordMatch
	if len(matches) == 0 {
		scope := ScopeSource
		if detection.Language == model.LanguageSpanish {
			scope = ScopeTarget
		}
		similar, err = s.words.FuzzySearch(ctx, text, scope, DefaultSearchLimit)
		if err != nil {
			return nil, err
		}
	}

	return &LookupResult{
		QueryText:        text,
		DetectedLanguage: detection.Language,
		DetectionScore:   detection.Confidence,
		Matches:          matches,
		SimilarWords:     similar,
	}, nil
}

// ListUsage returns the usage entries visible to the caller.
func (s *TranslationService) ListUsage(ctx context.Context, p auth.Principal, translationID string, limit int) ([]*model.UsageLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if _, err := s.Get(ctx, p, translationID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListUsageForTranslation(ctx, translationID, limit)
	if err != nil {
		return nil, storeErr(err, "usage log")
	}

	visible := make([]*model.UsageLog, 0, len(entries))
	for _, entry := range entries {
		if auth.CanReadUsageLog(p, entry) {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

func dedupe(ids []string) model.IDList {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make(model.IDList, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
