package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/chichamlab/chicham/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member() auth.Principal {
	return auth.Principal{ID: uuid.New().String(), Role: auth.RoleCommunityMember}
}

func expert() auth.Principal {
	return auth.Principal{ID: uuid.New().String(), Role: auth.RoleExpert}
}

func admin() auth.Principal {
	return auth.Principal{ID: uuid.New().String(), Role: auth.RoleAdmin}
}

func TestTranslationService_Create(t *testing.T) {
	svc := NewTranslationService(store.NewGormStore(tester.TestDB()))
	creator := member()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "yawa",
		TargetText:     "perro",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TranslationStatusPending, tr.Status)
	assert.Equal(t, creator.ID, tr.CreatedBy)
	assert.Equal(t, DefaultConfidence, tr.ConfidenceScore)
	assert.Nil(t, tr.ApprovedBy)
}

func TestTranslationService_CreateValidation(t *testing.T) {
	svc := NewTranslationService(store.NewGormStore(tester.TestDB()))

	tests := []struct {
		name string
		p    auth.Principal
		in   CreateTranslationInput
		kind Kind
	}{
		{
			name: "anonymous caller",
			p:    auth.Anonymous(),
			in: CreateTranslationInput{
				SourceText: "yawa", TargetText: "perro",
				SourceLanguage: model.LanguageShuar, TargetLanguage: model.LanguageSpanish,
			},
			kind: KindAuthorization,
		},
		{
			name: "empty source",
			p:    member(),
			in: CreateTranslationInput{
				SourceText: "  ", TargetText: "perro",
				SourceLanguage: model.LanguageShuar, TargetLanguage: model.LanguageSpanish,
			},
			kind: KindValidation,
		},
		{
			name: "unsupported language",
			p:    member(),
			in: CreateTranslationInput{
				SourceText: "yawa", TargetText: "dog",
				SourceLanguage: model.LanguageShuar, TargetLanguage: "english",
			},
			kind: KindValidation,
		},
		{
			name: "same language pair",
			p:    member(),
			in: CreateTranslationInput{
				SourceText: "yawa", TargetText: "yawa",
				SourceLanguage: model.LanguageShuar, TargetLanguage: model.LanguageShuar,
			},
			kind: KindValidation,
		},
		{
			name: "confidence out of range",
			p:    member(),
			in: CreateTranslationInput{
				SourceText: "yawa", TargetText: "perro",
				SourceLanguage: model.LanguageShuar, TargetLanguage: model.LanguageSpanish,
				Confidence: ptrFloat(1.5),
			},
			kind: KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.TODO(), tt.p, tt.in)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestTranslationService_ApproveFlow(t *testing.T) {
	svc := NewTranslationService(store.NewGormStore(tester.TestDB()))
	creator := member()
	reviewer := expert()

	reviewedAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	nowFn = func() time.Time { return reviewedAt }
	defer func() { nowFn = time.Now }()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "entsa",
		TargetText:     "agua",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	// pending rows are invisible to everyone but the creator and experts
	_, err = svc.Get(context.TODO(), auth.Anonymous(), tr.ID)
	assert.True(t, IsKind(err, KindNotFound))

	got, err := svc.Get(context.TODO(), creator, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	// community members cannot approve
	_, err = svc.Approve(context.TODO(), creator, tr.ID)
	assert.True(t, IsKind(err, KindAuthorization))

	approved, err := svc.Approve(context.TODO(), reviewer, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TranslationStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, reviewer.ID, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, approved.ApprovedAt.Equal(reviewedAt))

	// approved rows are public
	got, err = svc.Get(context.TODO(), auth.Anonymous(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TranslationStatusApproved, got.Status)

	// a settled translation cannot be re-reviewed
	_, err = svc.Reject(context.TODO(), reviewer, tr.ID)
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestTranslationService_UpdateResetsApproval(t *testing.T) {
	svc := NewTranslationService(store.NewGormStore(tester.TestDB()))
	creator := member()
	reviewer := expert()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "jea",
		TargetText:     "cassa",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.TODO(), reviewer, tr.ID)
	require.NoError(t, err)

	updated, err := svc.Update(context.TODO(), creator, tr.ID, "casa")
	require.NoError(t, err)

	assert.Equal(t, "casa", updated.TargetText)
	assert.Equal(t, model.TranslationStatusNeedsReview, updated.Status)
	assert.Nil(t, updated.ApprovedBy)
	assert.Nil(t, updated.ApprovedAt)

	// back in the review queue
	queue, err := svc.ListPending(context.TODO(), reviewer)
	require.NoError(t, err)
	found := false
	for _, row := range queue {
		if row.ID == tr.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTranslationService_RecordUsage(t *testing.T) {
	st := store.NewGormStore(tester.TestDB())
	svc := NewTranslationService(st)
	creator := member()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "nuka",
		TargetText:     "hoja",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		err = svc.RecordUsage(context.TODO(), tr.ID, UsageContext{QueryText: "nuka"})
		require.NoError(t, err)
	}

	got, err := st.GetTranslation(context.TODO(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.UsageCount)

	entries, err := svc.ListUsage(context.TODO(), creator, tr.ID, 10)
	require.NoError(t, err)
	// creator sees no entries: the lookups were anonymous
	assert.Len(t, entries, 0)

	entries, err = svc.ListUsage(context.TODO(), expert(), tr.ID, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// unknown translation
	err = svc.RecordUsage(context.TODO(), uuid.New().String(), UsageContext{})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestTranslationService_Lookup(t *testing.T) {
	st := store.NewGormStore(tester.TestDB())
	svc := NewTranslationService(st)
	creator := member()
	reviewer := expert()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "tsaa",
		TargetText:     "sol",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	// pending rows never surface in anonymous lookups
	res, err := svc.Lookup(context.TODO(), auth.Anonymous(), "tsaa", UsageContext{})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 0)

	_, err = svc.Approve(context.TODO(), reviewer, tr.ID)
	require.NoError(t, err)

	res, err = svc.Lookup(context.TODO(), auth.Anonymous(), "tsaa", UsageContext{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, tr.ID, res.Matches[0].ID)
	assert.Equal(t, model.LanguageShuar, res.DetectedLanguage)

	// target-side lookup finds the same row
	res, err = svc.Lookup(context.TODO(), auth.Anonymous(), "sol", UsageContext{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, model.LanguageSpanish, res.DetectedLanguage)

	// each served match was counted
	got, err := st.GetTranslation(context.TODO(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.UsageCount)

	_, err = svc.Lookup(context.TODO(), auth.Anonymous(), "  ", UsageContext{})
	assert.True(t, IsKind(err, KindValidation))
}

func TestTranslationService_MultibyteTextLength(t *testing.T) {
	svc := NewTranslationService(store.NewGormStore(tester.TestDB()))

	// length caps count characters, not bytes: laryngealized vowels take
	// two bytes each and must not halve the budget
	source := strings.Repeat("ä", 300)
	tr, err := svc.Create(context.TODO(), member(), CreateTranslationInput{
		SourceText:     source,
		TargetText:     "prueba",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)
	assert.Equal(t, source, tr.SourceText)

	_, err = svc.Create(context.TODO(), member(), CreateTranslationInput{
		SourceText:     strings.Repeat("ä", model.MaxTranslationTextLen+1),
		TargetText:     "prueba",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	assert.True(t, IsKind(err, KindValidation), "got %v", err)

	_, err = svc.Update(context.TODO(), member(), tr.ID, strings.Repeat("ü", model.MaxTranslationTextLen+1))
	assert.True(t, IsKind(err, KindValidation), "got %v", err)
}

func TestTranslationService_LookupSimilarWords(t *testing.T) {
	st := store.NewGormStore(tester.TestDB())
	svc := NewTranslationService(st)
	words := NewWordService(st)

	_, err := words.Create(context.TODO(), expert(), WordInput{
		ShuarText:          "tsaank",
		SpanishTranslation: "tabaco",
		WordType:           "noun",
	})
	require.NoError(t, err)

	// no translation matches: the dictionary supplies suggestions
	res, err := svc.Lookup(context.TODO(), auth.Anonymous(), "tsaak", UsageContext{})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 0)
	require.NotEmpty(t, res.SimilarWords)
	assert.Equal(t, "tsaank", res.SimilarWords[0].Word.ShuarText)

	// an exact hit suppresses the suggestions
	tr, err := svc.Create(context.TODO(), member(), CreateTranslationInput{
		SourceText:     "tsaak",
		TargetText:     "tabaco silvestre",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)
	_, err = svc.Approve(context.TODO(), expert(), tr.ID)
	require.NoError(t, err)

	res, err = svc.Lookup(context.TODO(), auth.Anonymous(), "tsaak", UsageContext{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Empty(t, res.SimilarWords)
}

func TestTranslationService_Delete(t *testing.T) {
	st := store.NewGormStore(tester.TestDB())
	svc := NewTranslationService(st)
	creator := member()

	tr, err := svc.Create(context.TODO(), creator, CreateTranslationInput{
		SourceText:     "uunt",
		TargetText:     "grande",
		SourceLanguage: model.LanguageShuar,
		TargetLanguage: model.LanguageSpanish,
	})
	require.NoError(t, err)

	err = svc.Delete(context.TODO(), expert(), tr.ID)
	assert.True(t, IsKind(err, KindAuthorization))

	err = svc.Delete(context.TODO(), admin(), tr.ID)
	require.NoError(t, err)

	_, err = st.GetTranslation(context.TODO(), tr.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func ptrFloat(f float64) *float64 {
	return &f
}
