package service

import (
	"context"
	"testing"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/chichamlab/chicham/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordService_Create(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))
	editor := expert()

	word, err := svc.Create(context.TODO(), editor, WordInput{
		ShuarText:          "yawá",
		SpanishTranslation: "perro",
		WordType:           "noun",
		VocalTypes:         []string{"oral", "nasal"},
		SemanticField:      "animales",
	})
	require.NoError(t, err)

	assert.Equal(t, model.WordStatusActive, word.Status)
	assert.Equal(t, editor.ID, word.CreatedBy)

	// same triple again
	_, err = svc.Create(context.TODO(), editor, WordInput{
		ShuarText:          "yawá",
		SpanishTranslation: "perro",
		WordType:           "noun",
	})
	assert.True(t, IsKind(err, KindConflict), "got %v", err)

	// same text, different category is a distinct entry
	_, err = svc.Create(context.TODO(), editor, WordInput{
		ShuarText:          "yawá",
		SpanishTranslation: "perro",
		WordType:           "adjective",
	})
	assert.NoError(t, err)
}

func TestWordService_CreateValidation(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))

	tests := []struct {
		name string
		p    auth.Principal
		in   WordInput
		kind Kind
	}{
		{
			name: "non-expert",
			p:    member(),
			in:   WordInput{ShuarText: "jea", SpanishTranslation: "casa", WordType: "noun"},
			kind: KindAuthorization,
		},
		{
			name: "missing shuar text",
			p:    expert(),
			in:   WordInput{SpanishTranslation: "casa", WordType: "noun"},
			kind: KindValidation,
		},
		{
			name: "bad word type",
			p:    expert(),
			in:   WordInput{ShuarText: "jea", SpanishTranslation: "casa", WordType: "particle"},
			kind: KindValidation,
		},
		{
			name: "bad vocal type",
			p:    expert(),
			in: WordInput{
				ShuarText: "jea", SpanishTranslation: "casa", WordType: "noun",
				VocalTypes: []string{"glottal"},
			},
			kind: KindValidation,
		},
		{
			name: "reliability out of range",
			p:    expert(),
			in: WordInput{
				ShuarText: "jea", SpanishTranslation: "casa", WordType: "noun",
				ReliabilityScore: 1.2,
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

func TestWordService_BulkImport(t *testing.T) {
	st := store.NewGormStore(tester.TestDB())
	svc := NewWordService(st)
	editor := expert()

	// in-batch duplicate triple aborts before any insert
	_, err := svc.BulkImport(context.TODO(), editor, []WordInput{
		{ShuarText: "pinink", SpanishTranslation: "plato", WordType: "noun"},
		{ShuarText: "Pinink", SpanishTranslation: "Plato", WordType: "noun"},
	})
	assert.True(t, IsKind(err, KindConflict))

	words, err := st.FindWordsByPrefix(context.TODO(), "pinink", ScopeSource, 10)
	require.NoError(t, err)
	assert.Len(t, words, 0)

	// a duplicate against the table rolls the whole batch back
	_, err = svc.Create(context.TODO(), editor, WordInput{
		ShuarText: "washi", SpanishTranslation: "mono", WordType: "noun",
	})
	require.NoError(t, err)

	_, err = svc.BulkImport(context.TODO(), editor, []WordInput{
		{ShuarText: "paki", SpanishTranslation: "sajino", WordType: "noun"},
		{ShuarText: "washi", SpanishTranslation: "mono", WordType: "noun"},
	})
	assert.True(t, IsKind(err, KindConflict), "got %v", err)

	words, err = st.FindWordsByPrefix(context.TODO(), "paki", ScopeSource, 10)
	require.NoError(t, err)
	assert.Len(t, words, 0)

	// clean batch
	imported, err := svc.BulkImport(context.TODO(), editor, []WordInput{
		{ShuarText: "paki", SpanishTranslation: "sajino", WordType: "noun"},
		{ShuarText: "kashai", SpanishTranslation: "guanta", WordType: "noun"},
	})
	require.NoError(t, err)
	assert.Len(t, imported, 2)

	_, err = svc.BulkImport(context.TODO(), editor, nil)
	assert.True(t, IsKind(err, KindValidation))
}

func TestWordService_FuzzySearch(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))
	editor := expert()

	seed := []WordInput{
		{ShuarText: "yumi", SpanishTranslation: "lluvia", WordType: "noun"},
		{ShuarText: "yumik", SpanishTranslation: "rocío", WordType: "noun"},
		{ShuarText: "nantu", SpanishTranslation: "luna", WordType: "noun"},
	}
	_, err := svc.BulkImport(context.TODO(), editor, seed)
	require.NoError(t, err)

	matches, err := svc.FuzzySearch(context.TODO(), "yumi", ScopeSource, 0)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// exact match ranks first with perfect similarity
	assert.Equal(t, "yumi", matches[0].Word.ShuarText)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Similarity, matches[i-1].Similarity)
	}

	// nothing resembles the term
	matches, err = svc.FuzzySearch(context.TODO(), "zzzzqq", ScopeBoth, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 0)

	// scope targets the spanish gloss
	matches, err = svc.FuzzySearch(context.TODO(), "lluvia", ScopeTarget, 0)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "lluvia", matches[0].Word.SpanishTranslation)

	_, err = svc.FuzzySearch(context.TODO(), "", ScopeBoth, 0)
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.FuzzySearch(context.TODO(), "yumi", "everywhere", 0)
	assert.True(t, IsKind(err, KindValidation))
}

func TestWordService_ExactOrPrefixLookup(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))
	editor := expert()

	_, err := svc.BulkImport(context.TODO(), editor, []WordInput{
		{ShuarText: "kaya", SpanishTranslation: "piedra", WordType: "noun"},
		{ShuarText: "kayamas", SpanishTranslation: "pedregal", WordType: "noun"},
	})
	require.NoError(t, err)

	words, err := svc.ExactOrPrefixLookup(context.TODO(), "kaya", ScopeSource, 0)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "kaya", words[0].ShuarText)
	assert.Equal(t, "kayamas", words[1].ShuarText)
}

func TestWordService_StatusAndVisibility(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))
	editor := expert()

	word, err := svc.Create(context.TODO(), editor, WordInput{
		ShuarText: "penke", SpanishTranslation: "bueno", WordType: "adjective",
	})
	require.NoError(t, err)

	// active entries are public
	_, err = svc.Get(context.TODO(), auth.Anonymous(), word.ID)
	require.NoError(t, err)

	archived, err := svc.SetStatus(context.TODO(), editor, word.ID, model.WordStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, model.WordStatusArchived, archived.Status)

	// archived entries disappear for unprivileged readers
	_, err = svc.Get(context.TODO(), auth.Anonymous(), word.ID)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.Get(context.TODO(), editor, word.ID)
	assert.NoError(t, err)

	// archived words drop out of fuzzy search
	matches, err := svc.FuzzySearch(context.TODO(), "penke", ScopeSource, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 0)

	_, err = svc.SetStatus(context.TODO(), editor, word.ID, "retired")
	assert.True(t, IsKind(err, KindValidation))
}

func TestWordService_VariantsAndRelations(t *testing.T) {
	svc := NewWordService(store.NewGormStore(tester.TestDB()))
	editor := expert()

	origin, err := svc.Create(context.TODO(), editor, WordInput{
		ShuarText: "nukap", SpanishTranslation: "mucho", WordType: "adverb",
	})
	require.NoError(t, err)
	related, err := svc.Create(context.TODO(), editor, WordInput{
		ShuarText: "ishichik", SpanishTranslation: "poco", WordType: "adverb",
	})
	require.NoError(t, err)

	variant, err := svc.AddVariant(context.TODO(), editor, origin.ID, VariantInput{
		VariantText:     "núkap",
		VariantType:     "orthographic",
		FrequencyWeight: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, origin.ID, variant.WordID)

	// duplicate variant on the same word
	_, err = svc.AddVariant(context.TODO(), editor, origin.ID, VariantInput{
		VariantText: "núkap",
		VariantType: "orthographic",
	})
	assert.True(t, IsKind(err, KindConflict), "got %v", err)

	_, err = svc.AddVariant(context.TODO(), editor, origin.ID, VariantInput{
		VariantText: "nukapa",
		VariantType: "whispered",
	})
	assert.True(t, IsKind(err, KindValidation))

	variants, err := svc.ListVariants(context.TODO(), auth.Anonymous(), origin.ID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)

	rel, err := svc.AddRelation(context.TODO(), editor, RelationInput{
		OriginWordID:  origin.ID,
		RelatedWordID: related.ID,
		RelationType:  "antonym",
		Strength:      0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "antonym", rel.RelationType)

	// a word cannot relate to itself
	_, err = svc.AddRelation(context.TODO(), editor, RelationInput{
		OriginWordID:  origin.ID,
		RelatedWordID: origin.ID,
		RelationType:  "synonym",
	})
	assert.True(t, IsKind(err, KindValidation))

	relations, err := svc.ListRelations(context.TODO(), auth.Anonymous(), origin.ID)
	require.NoError(t, err)
	assert.Len(t, relations, 1)

	// non-experts cannot touch the dictionary
	_, err = svc.AddVariant(context.TODO(), member(), origin.ID, VariantInput{
		VariantText: "x", VariantType: "phonetic",
	})
	assert.True(t, IsKind(err, KindAuthorization))
}
