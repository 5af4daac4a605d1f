package server

import (
	"net/http"
	"strconv"

	"github.com/chichamlab/chicham/internal/service"
	"github.com/go-chi/chi/v5"
)

func mountWords(r chi.Router, words *service.WordService) {
	h := &wordHandler{words: words}

	r.Route("/words", func(r chi.Router) {
		r.Post("/", h.create)
		r.Post("/import", h.bulkImport)
		r.Get("/search", h.search)
		r.Get("/lookup", h.lookup)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Patch("/gloss", h.updateGloss)
			r.Patch("/status", h.setStatus)
			r.Post("/variants", h.addVariant)
			r.Get("/variants", h.listVariants)
			r.Post("/relations", h.addRelation)
			r.Get("/relations", h.listRelations)
		})
	})
}

type wordHandler struct {
	words *service.WordService
}

type wordRequest struct {
	ShuarText          string `json:"shuar_text" validate:"required"`
	SpanishTranslation string `json:"spanish_translation" validate:"required"`
	WordType           string `json:"word_type" validate:"required"`

	IPATranscription     string         `json:"ipa_transcription,omitempty"`
	SyllableBreakdown    string         `json:"syllable_breakdown,omitempty"`
	StressPosition       int            `json:"stress_position,omitempty"`
	VocalTypes           []string       `json:"vocal_types,omitempty"`
	SyllablePattern      string         `json:"syllable_pattern,omitempty"`
	PhonologicalAnalysis map[string]any `json:"phonological_analysis,omitempty"`

	RootWord          string         `json:"root_word,omitempty"`
	Prefixes          []string       `json:"prefixes,omitempty"`
	Suffixes          []string       `json:"suffixes,omitempty"`
	MorphemeBreakdown map[string]any `json:"morpheme_breakdown,omitempty"`

	ExtendedDefinition string   `json:"extended_definition,omitempty"`
	Synonyms           []string `json:"synonyms,omitempty"`
	Antonyms           []string `json:"antonyms,omitempty"`
	SemanticField      string   `json:"semantic_field,omitempty"`

	Formality     string           `json:"formality,omitempty"`
	Register      string           `json:"register,omitempty"`
	Dialect       string           `json:"dialect,omitempty"`
	Region        string           `json:"region,omitempty"`
	UsageExamples []map[string]any `json:"usage_examples,omitempty"`

	FrequencyScore   int     `json:"frequency_score,omitempty"`
	DifficultyLevel  int     `json:"difficulty_level,omitempty"`
	ReliabilityScore float64 `json:"reliability_score,omitempty" validate:"min=0,max=1"`
}

func (req *wordRequest) input() service.WordInput {
	return service.WordInput{
		ShuarText:          req.ShuarText,
		SpanishTranslation: req.SpanishTranslation,
		WordType:           req.WordType,

		IPATranscription:     req.IPATranscription,
		SyllableBreakdown:    req.SyllableBreakdown,
		StressPosition:       req.StressPosition,
		VocalTypes:           req.VocalTypes,
		SyllablePattern:      req.SyllablePattern,
		PhonologicalAnalysis: req.PhonologicalAnalysis,

		RootWord:          req.RootWord,
		Prefixes:          req.Prefixes,
		Suffixes:          req.Suffixes,
		MorphemeBreakdown: req.MorphemeBreakdown,

		ExtendedDefinition: req.ExtendedDefinition,
		Synonyms:           req.Synonyms,
		Antonyms:           req.Antonyms,
		SemanticField:      req.SemanticField,

		Formality:     req.Formality,
		Register:      req.Register,
		Dialect:       req.Dialect,
		Region:        req.Region,
		UsageExamples: req.UsageExamples,

		FrequencyScore:   req.FrequencyScore,
		DifficultyLevel:  req.DifficultyLevel,
		ReliabilityScore: req.ReliabilityScore,
	}
}

func (h *wordHandler) create(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	word, err := h.words.Create(r.Context(), principalFrom(r), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, word)
}

type bulkImportRequest struct {
	Words []wordRequest `json:"words" validate:"required,min=1,dive"`
}

func (h *wordHandler) bulkImport(w http.ResponseWriter, r *http.Request) {
	var req bulkImportRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inputs := make([]service.WordInput, 0, len(req.Words))
	for i := range req.Words {
		inputs = append(inputs, req.Words[i].input())
	}

	words, err := h.words.BulkImport(r.Context(), principalFrom(r), inputs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, words)
}

func (h *wordHandler) get(w http.ResponseWriter, r *http.Request) {
	word, err := h.words.Get(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func (h *wordHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := q.Get("scope")
	if scope == "" {
		scope = service.ScopeBoth
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	matches, err := h.words.FuzzySearch(r.Context(), q.Get("term"), scope, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *wordHandler) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := q.Get("scope")
	if scope == "" {
		scope = service.ScopeBoth
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	words, err := h.words.ExactOrPrefixLookup(r.Context(), q.Get("term"), scope, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

type updateGlossRequest struct {
	SpanishTranslation string `json:"spanish_translation" validate:"required"`
}

func (h *wordHandler) updateGloss(w http.ResponseWriter, r *http.Request) {
	var req updateGlossRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	word, err := h.words.UpdateGloss(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.SpanishTranslation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *wordHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	word, err := h.words.SetStatus(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

type variantRequest struct {
	VariantText     string  `json:"variant_text" validate:"required"`
	VariantType     string  `json:"variant_type" validate:"required"`
	FrequencyWeight float64 `json:"frequency_weight" validate:"min=0,max=1"`
	Verified        bool    `json:"verified,omitempty"`
}

func (h *wordHandler) addVariant(w http.ResponseWriter, r *http.Request) {
	var req variantRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	variant, err := h.words.AddVariant(r.Context(), principalFrom(r), chi.URLParam(r, "id"), service.VariantInput{
		VariantText:     req.VariantText,
		VariantType:     req.VariantType,
		FrequencyWeight: req.FrequencyWeight,
		Verified:        req.Verified,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, variant)
}

func (h *wordHandler) listVariants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.words.ListVariants(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, variants)
}

type relationRequest struct {
	RelatedWordID string  `json:"related_word_id" validate:"required"`
	RelationType  string  `json:"relation_type" validate:"required"`
	Strength      float64 `json:"strength" validate:"min=0,max=1"`
	Directional   bool    `json:"directional,omitempty"`
}

func (h *wordHandler) addRelation(w http.ResponseWriter, r *http.Request) {
	var req relationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	relation, err := h.words.AddRelation(r.Context(), principalFrom(r), service.RelationInput{
		OriginWordID:  chi.URLParam(r, "id"),
		RelatedWordID: req.RelatedWordID,
		RelationType:  req.RelationType,
		Strength:      req.Strength,
		Directional:   req.Directional,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, relation)
}

func (h *wordHandler) listRelations(w http.ResponseWriter, r *http.Request) {
	relations, err := h.words.ListRelations(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, relations)
}
