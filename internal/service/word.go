package service

import (
	"context"
	"sort"
	"strings"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/search"
	"github.com/chichamlab/chicham/internal/store"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// Search scopes for dictionary lookups.
const (
	ScopeSource = "source" // shuar text
	ScopeTarget = "target" // spanish gloss
	ScopeBoth   = "both"
)

// DefaultSearchLimit caps fuzzy search results when the caller gives none.
const DefaultSearchLimit = 20

// NewWordService creates a new WordService.
func NewWordService(store store.Store) *WordService {
	return &WordService{store: store}
}

// WordService owns the dictionary: words, variants, relations, bulk import
// and search.
type WordService struct {
	store store.Store
}

type WordInput struct {
	ShuarText          string
	SpanishTranslation string
	WordType           string

	IPATranscription     string
	SyllableBreakdown    string
	StressPosition       int
	VocalTypes           []string
	SyllablePattern      string
	PhonologicalAnalysis map[string]any

	RootWord          string
	Prefixes          []string
	Suffixes          []string
	MorphemeBreakdown map[string]any

	ExtendedDefinition string
	Synonyms           []string
	Antonyms           []string
	SemanticField      string

	Formality     string
	Register      string
	Dialect       string
	Region        string
	UsageExamples []map[string]any

	FrequencyScore   int
	DifficultyLevel  int
	ReliabilityScore float64
}

// Create inserts a new dictionary entry. The (shuar text, gloss,
// grammatical category) triple must be unique across all statuses.
func (s *WordService) Create(ctx context.Context, p auth.Principal, in WordInput) (*model.Word, error) {
	if !auth.CanWriteWord(p) {
		return nil, authorizationf("only experts can edit the dictionary")
	}
	if err := validateWordInput(&in); err != nil {
		return nil, err
	}

	word := wordFromInput(&in)
	word.ID = uuid.New().String()
	word.Status = model.WordStatusActive
	word.CreatedBy = p.ID

	if err := s.store.CreateWord(ctx, word); err != nil {
		return nil, storeErr(err, "word")
	}
	return word, nil
}

// Get retrieves a word visible to the caller.
func (s *WordService) Get(ctx context.Context, p auth.Principal, id string) (*model.Word, error) {
	word, err := s.store.GetWord(ctx, id)
	if err != nil {
		return nil, storeErr(err, "word")
	}
	if !auth.CanReadWord(p, word) {
		return nil, notFoundf("word not found")
	}
	return word, nil
}

// UpdateGloss amends the Spanish translation of an entry.
func (s *WordService) UpdateGloss(ctx context.Context, p auth.Principal, id, gloss string) (*model.Word, error) {
	gloss = strings.TrimSpace(gloss)
	if gloss == "" {
		return nil, validationf("spanish translation is required")
	}

	word, err := s.store.GetWord(ctx, id)
	if err != nil {
		return nil, storeErr(err, "word")
	}
	if !auth.CanUpdateWord(p, word) {
		return nil, authorizationf("only the creator or an expert can update a word")
	}

	word.SpanishTranslation = gloss
	word.UpdatedBy = p.ID

	if err := s.store.UpdateWord(ctx, word); err != nil {
		return nil, storeErr(err, "word")
	}
	return word, nil
}

// SetStatus retires or revives an entry. Words never leave the table;
// archived and deprecated are the only ways out.
func (s *WordService) SetStatus(ctx context.Context, p auth.Principal, id, status string) (*model.Word, error) {
	switch status {
	case model.WordStatusActive, model.WordStatusDeprecated,
		model.WordStatusUnderReview, model.WordStatusArchived:
	default:
		return nil, validationf("invalid word status %q", status)
	}

	word, err := s.store.GetWord(ctx, id)
	if err != nil {
		return nil, storeErr(err, "word")
	}
	if !auth.CanUpdateWord(p, word) {
		return nil, authorizationf("only the creator or an expert can update a word")
	}

	word.Status = status
	word.UpdatedBy = p.ID

	if err := s.store.UpdateWord(ctx, word); err != nil {
		return nil, storeErr(err, "word")
	}
	return word, nil
}

// BulkImport inserts a batch of words in a single transaction: the first
// invalid or duplicate row aborts the whole batch. In-batch duplicate
// triples are rejected before touching the database.
func (s *WordService) BulkImport(ctx context.Context, p auth.Principal, inputs []WordInput) ([]*model.Word, error) {
	if !auth.CanWriteWord(p) {
		return nil, authorizationf("only experts can edit the dictionary")
	}
	if len(inputs) == 0 {
		return nil, validationf("import batch is empty")
	}

	seen := mapset.NewSet[string]()
	words := make([]*model.Word, 0, len(inputs))
	for i := range inputs {
		in := &inputs[i]
		if err := validateWordInput(in); err != nil {
			return nil, validationf("row %d: %v", i, err)
		}

		key := strings.ToLower(in.ShuarText) + "|" + strings.ToLower(in.SpanishTranslation) + "|" + in.WordType
		if !seen.Add(key) {
			return nil, conflictf("row %d duplicates an earlier row in the batch", i)
		}

		word := wordFromInput(in)
		word.ID = uuid.New().String()
		word.Status = model.WordStatusActive
		word.CreatedBy = p.ID
		words = append(words, word)
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		for _, word := range words {
			if err := tx.CreateWord(ctx, word); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "word")
	}

	return words, nil
}

// WordMatch is one fuzzy-search hit with its similarity score.
type WordMatch struct {
	Word       *model.Word `json:"word"`
	Similarity float64     `json:"similarity"`
}

// FuzzySearch ranks active words by trigram similarity against the chosen
// text column, or the greater of both. Results below the similarity
// threshold are dropped; no hits is an empty result, not an error. Ties
// keep insertion order.
func (s *WordService) FuzzySearch(ctx context.Context, term, scope string, limit int) ([]WordMatch, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationf("search term is required")
	}
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	words, err := s.store.ListActiveWords(ctx)
	if err != nil {
		return nil, storeErr(err, "word")
	}

	matches := make([]WordMatch, 0, len(words))
	for _, word := range words {
		var score float64
		switch scope {
		case ScopeSource:
			score = search.Similarity(term, word.ShuarText)
		case ScopeTarget:
			score = search.Similarity(term, word.SpanishTranslation)
		default:
			score = max(search.Similarity(term, word.ShuarText),
				search.Similarity(term, word.SpanishTranslation))
		}
		if score >= search.DefaultThreshold {
			matches = append(matches, WordMatch{Word: word, Similarity: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// ExactOrPrefixLookup serves the translation path before it falls back to
// fuzzy search: exact matches first, then prefix matches.
func (s *WordService) ExactOrPrefixLookup(ctx context.Context, term, scope string, limit int) ([]*model.Word, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationf("search term is required")
	}
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	words, err := s.store.FindWordsByPrefix(ctx, term, scope, limit)
	if err != nil {
		return nil, storeErr(err, "word")
	}

	exact := make([]*model.Word, 0, len(words))
	prefix := make([]*model.Word, 0, len(words))
	for _, word := range words {
		if strings.EqualFold(word.ShuarText, term) || strings.EqualFold(word.SpanishTranslation, term) {
			exact = append(exact, word)
		} else {
			prefix = append(prefix, word)
		}
	}
	return append(exact, prefix...), nil
}

type VariantInput struct {
	VariantText     string
	VariantType     string
	FrequencyWeight float64
	Verified        bool
}

// AddVariant attaches a dialectal/phonetic/morphological/orthographic
// alternative to a word.
func (s *WordService) AddVariant(ctx context.Context, p auth.Principal, wordID string, in VariantInput) (*model.WordVariant, error) {
	if !auth.CanWriteWord(p) {
		return nil, authorizationf("only experts can edit the dictionary")
	}

	in.VariantText = strings.TrimSpace(in.VariantText)
	if in.VariantText == "" {
		return nil, validationf("variant text is required")
	}
	if !contains(model.WordVariantTypes, in.VariantType) {
		return nil, validationf("invalid variant type %q", in.VariantType)
	}
	if in.FrequencyWeight < 0 || in.FrequencyWeight > 1 {
		return nil, validationf("frequency weight must be between 0.0 and 1.0")
	}

	if _, err := s.store.GetWord(ctx, wordID); err != nil {
		return nil, storeErr(err, "word")
	}

	variant := &model.WordVariant{
		ID:              uuid.New().String(),
		WordID:          wordID,
		VariantText:     in.VariantText,
		VariantType:     in.VariantType,
		FrequencyWeight: in.FrequencyWeight,
		Verified:        in.Verified,
	}
	if err := s.store.CreateWordVariant(ctx, variant); err != nil {
		return nil, storeErr(err, "word variant")
	}
	return variant, nil
}

type RelationInput struct {
	OriginWordID  string
	RelatedWordID string
	RelationType  string
	Strength      float64
	Directional   bool
}

// AddRelation links two distinct words.
func (s *WordService) AddRelation(ctx context.Context, p auth.Principal, in RelationInput) (*model.WordRelation, error) {
	if !auth.CanWriteWord(p) {
		return nil, authorizationf("only experts can edit the dictionary")
	}
	if in.OriginWordID == in.RelatedWordID {
		return nil, validationf("a word cannot relate to itself")
	}
	if !contains(model.WordRelationTypes, in.RelationType) {
		return nil, validationf("invalid relation type %q", in.RelationType)
	}
	if in.Strength < 0 || in.Strength > 1 {
		return nil, validationf("relation strength must be between 0.0 and 1.0")
	}

	if _, err := s.store.GetWord(ctx, in.OriginWordID); err != nil {
		return nil, storeErr(err, "word")
	}
	if _, err := s.store.GetWord(ctx, in.RelatedWordID); err != nil {
		return nil, storeErr(err, "word")
	}

	relation := &model.WordRelation{
		ID:            uuid.New().String(),
		OriginWordID:  in.OriginWordID,
		RelatedWordID: in.RelatedWordID,
		RelationType:  in.RelationType,
		Strength:      in.Strength,
		Directional:   in.Directional,
	}
	if err := s.store.CreateWordRelation(ctx, relation); err != nil {
		return nil, storeErr(err, "word relation")
	}
	return relation, nil
}

// ListVariants returns the variants of a word visible to the caller.
func (s *WordService) ListVariants(ctx context.Context, p auth.Principal, wordID string) ([]*model.WordVariant, error) {
	if _, err := s.Get(ctx, p, wordID); err != nil {
		return nil, err
	}
	variants, err := s.store.ListWordVariants(ctx, wordID)
	if err != nil {
		return nil, storeErr(err, "word variant")
	}
	return variants, nil
}

// ListRelations returns the relations originating from a word.
func (s *WordService) ListRelations(ctx context.Context, p auth.Principal, wordID string) ([]*model.WordRelation, error) {
	if _, err := s.Get(ctx, p, wordID); err != nil {
		return nil, err
	}
	relations, err := s.store.ListWordRelations(ctx, wordID)
	if err != nil {
		return nil, storeErr(err, "word relation")
	}
	return relations, nil
}

func validateScope(scope string) error {
	switch scope {
	case ScopeSource, ScopeTarget, ScopeBoth:
		return nil
	default:
		return validationf("invalid search scope %q", scope)
	}
}

func validateWordInput(in *WordInput) error {
	in.ShuarText = strings.TrimSpace(in.ShuarText)
	in.SpanishTranslation = strings.TrimSpace(in.SpanishTranslation)

	if in.ShuarText == "" {
		return validationf("shuar text is required")
	}
	if in.SpanishTranslation == "" {
		return validationf("spanish translation is required")
	}
	if !contains(model.WordTypes, in.WordType) {
		return validationf("invalid word type %q", in.WordType)
	}
	if in.ReliabilityScore < 0 || in.ReliabilityScore > 1 {
		return validationf("reliability score must be between 0.0 and 1.0")
	}
	if in.FrequencyScore < 0 {
		return validationf("frequency score cannot be negative")
	}
	for _, vt := range in.VocalTypes {
		switch vt {
		case "oral", "nasal", "laryngealized":
		default:
			return validationf("invalid vocal type %q", vt)
		}
	}
	return nil
}

func wordFromInput(in *WordInput) *model.Word {
	return &model.Word{
		ShuarText:          in.ShuarText,
		SpanishTranslation: in.SpanishTranslation,
		WordType:           in.WordType,

		IPATranscription:     in.IPATranscription,
		SyllableBreakdown:    in.SyllableBreakdown,
		StressPosition:       in.StressPosition,
		VocalTypes:           in.VocalTypes,
		SyllablePattern:      in.SyllablePattern,
		PhonologicalAnalysis: in.PhonologicalAnalysis,

		RootWord:          in.RootWord,
		Prefixes:          in.Prefixes,
		Suffixes:          in.Suffixes,
		MorphemeBreakdown: in.MorphemeBreakdown,

		ExtendedDefinition: in.ExtendedDefinition,
		Synonyms:           in.Synonyms,
		Antonyms:           in.Antonyms,
		SemanticField:      in.SemanticField,

		Formality:     in.Formality,
		Register:      in.Register,
		Dialect:       in.Dialect,
		Region:        in.Region,
		UsageExamples: in.UsageExamples,

		FrequencyScore:   in.FrequencyScore,
		DifficultyLevel:  in.DifficultyLevel,
		ReliabilityScore: in.ReliabilityScore,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
