package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/google/uuid"
)

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(store store.Store) *FeedbackService {
	return &FeedbackService{store: store}
}

// FeedbackService owns community feedback and the translation's derived
// rating fields. Every write that can carry a rating recomputes the owning
// translation's aggregate inside the same transaction: the aggregate is a
// full COUNT/AVG over the rating-bearing rows, never an incremental
// adjustment, so concurrent submissions converge to the exact mean.
type FeedbackService struct {
	store store.Store
}

type SubmitFeedbackInput struct {
	TranslationID       string
	Rating              *int
	Comment             string
	SuggestedText       string
	CulturalContext     string
	PronunciationNotes  string
	IsFromNativeSpeaker bool
}

// Submit stores one user's feedback on a translation. At least one content
// field must be present; a numeric rating must be in [1,5]. The submitter's
// role is stored as a snapshot taken now, not re-derived later.
func (s *FeedbackService) Submit(ctx context.Context, p auth.Principal, in SubmitFeedbackInput) (*model.Feedback, error) {
	if !auth.CanSubmitFeedback(p) {
		return nil, authorizationf("feedback submission is not allowed")
	}

	tr, err := s.store.GetTranslation(ctx, in.TranslationID)
	if err != nil {
		return nil, storeErr(err, "translation")
	}
	if !auth.CanReadTranslation(p, tr) {
		return nil, notFoundf("translation not found")
	}

	fb := &model.Feedback{
		ID:                  uuid.New().String(),
		TranslationID:       in.TranslationID,
		UserRole:            string(roleOrVisitor(p)),
		Rating:              in.Rating,
		Comment:             strings.TrimSpace(in.Comment),
		SuggestedText:       strings.TrimSpace(in.SuggestedText),
		CulturalContext:     strings.TrimSpace(in.CulturalContext),
		PronunciationNotes:  strings.TrimSpace(in.PronunciationNotes),
		IsFromNativeSpeaker: in.IsFromNativeSpeaker,
		Status:              model.FeedbackStatusPending,
	}
	if p.Authenticated() {
		fb.UserID = &p.ID
	}

	if err := validateFeedbackContent(fb); err != nil {
		return nil, err
	}
	fb.FeedbackType = classifyFeedback(fb)

	// the one-feedback-per-user check rides in the same transaction as the
	// insert so a concurrent submit cannot slip between check and write
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if p.Authenticated() {
			already, err := tx.UserHasFeedback(ctx, p.ID, in.TranslationID)
			if err != nil {
				return err
			}
			if already {
				return conflictf("user has already provided feedback for this translation")
			}
		}
		if err := tx.CreateFeedback(ctx, fb); err != nil {
			return err
		}
		return recomputeAggregate(ctx, tx, in.TranslationID)
	})
	if err != nil {
		return nil, storeErr(err, "feedback")
	}

	return fb, nil
}

type UpdateFeedbackInput struct {
	Rating             *int
	Comment            *string
	SuggestedText      *string
	CulturalContext    *string
	PronunciationNotes *string
}

// Update amends the caller's own feedback before review (experts may amend
// any time). Nil fields are left untouched. The aggregate is recomputed in
// the same transaction since the rating may have changed.
func (s *FeedbackService) Update(ctx context.Context, p auth.Principal, id string, in UpdateFeedbackInput) (*model.Feedback, error) {
	fb, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		return nil, storeErr(err, "feedback")
	}
	if !auth.CanUpdateFeedback(p, fb) {
		return nil, authorizationf("feedback can only be amended by its author before review")
	}

	if in.Rating != nil {
		fb.Rating = in.Rating
	}
	if in.Comment != nil {
		fb.Comment = strings.TrimSpace(*in.Comment)
	}
	if in.SuggestedText != nil {
		fb.SuggestedText = strings.TrimSpace(*in.SuggestedText)
	}
	if in.CulturalContext != nil {
		fb.CulturalContext = strings.TrimSpace(*in.CulturalContext)
	}
	if in.PronunciationNotes != nil {
		fb.PronunciationNotes = strings.TrimSpace(*in.PronunciationNotes)
	}

	if err := validateFeedbackContent(fb); err != nil {
		return nil, err
	}
	fb.FeedbackType = classifyFeedback(fb)

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.UpdateFeedback(ctx, fb); err != nil {
			return err
		}
		return recomputeAggregate(ctx, tx, fb.TranslationID)
	})
	if err != nil {
		return nil, storeErr(err, "feedback")
	}

	return fb, nil
}

// Review actions an expert can take on a feedback row.
const (
	ReviewActionApprove   = "approve"
	ReviewActionReject    = "reject"
	ReviewActionImplement = "implement"
)

// Review records an expert's verdict on a feedback row. Rejection requires
// notes; implement is only valid on approved feedback. Review status never
// touches the rating aggregate.
func (s *FeedbackService) Review(ctx context.Context, p auth.Principal, id, action, notes string) (*model.Feedback, error) {
	if !auth.CanReviewFeedback(p) {
		return nil, authorizationf("only experts can review feedback")
	}

	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > model.MaxExpertNotesLen {
		return nil, validationf("expert notes exceed maximum length of %d characters", model.MaxExpertNotesLen)
	}

	fb, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		return nil, storeErr(err, "feedback")
	}

	switch action {
	case ReviewActionApprove:
		fb.Status = model.FeedbackStatusApproved
	case ReviewActionReject:
		if notes == "" {
			return nil, validationf("expert notes are required when rejecting feedback")
		}
		fb.Status = model.FeedbackStatusRejected
	case ReviewActionImplement:
		if fb.Status != model.FeedbackStatusApproved {
			return nil, invalidStatef("only approved feedback can be marked as implemented")
		}
		fb.Status = model.FeedbackStatusImplemented
	default:
		return nil, validationf("invalid review action %q", action)
	}

	now := nowFn()
	fb.ReviewedBy = &p.ID
	fb.ReviewedAt = &now
	if notes != "" {
		fb.ExpertNotes = notes
	}

	if err := s.store.UpdateFeedback(ctx, fb); err != nil {
		return nil, storeErr(err, "feedback")
	}
	return fb, nil
}

// ListForTranslation returns the feedback rows on a translation that the
// caller may see.
func (s *FeedbackService) ListForTranslation(ctx context.Context, p auth.Principal, translationID string) ([]*model.Feedback, error) {
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

	visible := make([]*model.Feedback, 0, len(rows))
	for _, fb := range rows {
		if auth.CanReadFeedback(p, fb, tr.CreatedBy) {
			visible = append(visible, fb)
		}
	}
	return visible, nil
}

// Recompute re-derives a translation's rating aggregate from scratch.
// Running it twice with no intervening feedback change is a fixed point.
func (s *FeedbackService) Recompute(ctx context.Context, translationID string) error {
	if _, err := s.store.GetTranslation(ctx, translationID); err != nil {
		return storeErr(err, "translation")
	}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		return recomputeAggregate(ctx, tx, translationID)
	})
	return storeErr(err, "translation")
}

func recomputeAggregate(ctx context.Context, tx store.Store, translationID string) error {
	agg, err := tx.FeedbackRatingAggregate(ctx, translationID)
	if err != nil {
		return err
	}
	return tx.SetRatingAggregate(ctx, translationID, agg)
}

func validateFeedbackContent(fb *model.Feedback) error {
	if !fb.HasContent() {
		return validationf("feedback must contain at least one form of content")
	}
	if fb.Rating != nil && (*fb.Rating < 1 || *fb.Rating > 5) {
		return validationf("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(fb.Comment) > model.MaxCommentLen {
		return validationf("comment exceeds maximum length of %d characters", model.MaxCommentLen)
	}
	if utf8.RuneCountInString(fb.SuggestedText) > model.MaxSuggestionLen {
		return validationf("suggested translation exceeds maximum length of %d characters", model.MaxSuggestionLen)
	}
	if utf8.RuneCountInString(fb.CulturalContext) > model.MaxCulturalLen {
		return validationf("cultural context exceeds maximum length of %d characters", model.MaxCulturalLen)
	}
	if utf8.RuneCountInString(fb.PronunciationNotes) > model.MaxPronunciationLen {
		return validationf("pronunciation notes exceed maximum length of %d characters", model.MaxPronunciationLen)
	}
	return nil
}

// classifyFeedback tags the row by its dominant content, mirroring how the
// feedback queue is triaged: a rating trumps everything, then a suggested
// alternative, cultural context, pronunciation, and finally a bare comment
// is treated as a correction.
func classifyFeedback(fb *model.Feedback) string {
	switch {
	case fb.Rating != nil:
		return model.FeedbackTypeRating
	case fb.SuggestedText != "":
		return model.FeedbackTypeSuggestion
	case fb.CulturalContext != "":
		return model.FeedbackTypeCulturalNote
	case fb.PronunciationNotes != "":
		return model.FeedbackTypePronunciation
	default:
		return model.FeedbackTypeCorrection
	}
}

func roleOrVisitor(p auth.Principal) auth.Role {
	if p.Role == "" {
		return auth.RoleVisitor
	}
	return p.Role
}
