package server

import (
	"net/http"

	"github.com/chichamlab/chicham/internal/service"
	"github.com/go-chi/chi/v5"
)

func mountTranslations(r chi.Router, translations *service.TranslationService, feedback *service.FeedbackService) {
	h := &translationHandler{translations: translations, feedback: feedback}

	r.Route("/translations", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/lookup", h.lookup)
		r.Get("/pending", h.listPending)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/approve", h.approve)
			r.Post("/reject", h.reject)
			r.Get("/usage", h.listUsage)
			r.Post("/feedback", h.submitFeedback)
			r.Get("/feedback", h.listFeedback)
		})
	})

	r.Post("/feedback/{id}/review", h.reviewFeedback)
	r.Patch("/feedback/{id}", h.updateFeedback)
}

type translationHandler struct {
	translations *service.TranslationService
	feedback     *service.FeedbackService
}

type createTranslationRequest struct {
	SourceText     string   `json:"source_text" validate:"required,max=500"`
	TargetText     string   `json:"target_text" validate:"required,max=500"`
	SourceLanguage string   `json:"source_language" validate:"required"`
	TargetLanguage string   `json:"target_language" validate:"required"`
	Confidence     *float64 `json:"confidence_score,omitempty"`
	Domain         string   `json:"domain,omitempty"`
	Register       string   `json:"register,omitempty"`
	Dialect        string   `json:"dialect,omitempty"`
	CulturalNotes  string   `json:"cultural_notes,omitempty"`
	WordReferences []string `json:"word_references,omitempty"`
}

func (h *translationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTranslationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tr, err := h.translations.Create(r.Context(), principalFrom(r), service.CreateTranslationInput{
		SourceText:     req.SourceText,
		TargetText:     req.TargetText,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Confidence:     req.Confidence,
		Domain:         req.Domain,
		Register:       req.Register,
		Dialect:        req.Dialect,
		CulturalNotes:  req.CulturalNotes,
		WordReferences: req.WordReferences,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tr)
}

func (h *translationHandler) get(w http.ResponseWriter, r *http.Request) {
	tr, err := h.translations.Get(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *translationHandler) lookup(w http.ResponseWriter, r *http.Request) {
	usage := service.UsageContext{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
	if p := principalFrom(r); p.Authenticated() {
		usage.UserID = &p.ID
	}

	result, err := h.translations.Lookup(r.Context(), principalFrom(r), r.URL.Query().Get("text"), usage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *translationHandler) listPending(w http.ResponseWriter, r *http.Request) {
	rows, err := h.translations.ListPending(r.Context(), principalFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type updateTranslationRequest struct {
	TargetText string `json:"target_text" validate:"required,max=500"`
}

func (h *translationHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTranslationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tr, err := h.translations.Update(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.TargetText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *translationHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.translations.Delete(r.Context(), principalFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *translationHandler) approve(w http.ResponseWriter, r *http.Request) {
	tr, err := h.translations.Approve(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *translationHandler) reject(w http.ResponseWriter, r *http.Request) {
	tr, err := h.translations.Reject(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *translationHandler) listUsage(w http.ResponseWriter, r *http.Request) {
	entries, err := h.translations.ListUsage(r.Context(), principalFrom(r), chi.URLParam(r, "id"), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type submitFeedbackRequest struct {
	Rating              *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment             string `json:"comment,omitempty" validate:"max=1000"`
	SuggestedText       string `json:"suggested_translation,omitempty" validate:"max=500"`
	CulturalContext     string `json:"cultural_context,omitempty" validate:"max=1000"`
	PronunciationNotes  string `json:"pronunciation_notes,omitempty" validate:"max=500"`
	IsFromNativeSpeaker bool   `json:"is_from_native_speaker,omitempty"`
}

func (h *translationHandler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req submitFeedbackRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	fb, err := h.feedback.Submit(r.Context(), principalFrom(r), service.SubmitFeedbackInput{
		TranslationID:       chi.URLParam(r, "id"),
		Rating:              req.Rating,
		Comment:             req.Comment,
		SuggestedText:       req.SuggestedText,
		CulturalContext:     req.CulturalContext,
		PronunciationNotes:  req.PronunciationNotes,
		IsFromNativeSpeaker: req.IsFromNativeSpeaker,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *translationHandler) listFeedback(w http.ResponseWriter, r *http.Request) {
	rows, err := h.feedback.ListForTranslation(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type reviewFeedbackRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject implement"`
	Notes  string `json:"notes,omitempty" validate:"max=1000"`
}

func (h *translationHandler) reviewFeedback(w http.ResponseWriter, r *http.Request) {
	var req reviewFeedbackRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	fb, err := h.feedback.Review(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.Action, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

type updateFeedbackRequest struct {
	Rating             *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment            *string `json:"comment,omitempty"`
	SuggestedText      *string `json:"suggested_translation,omitempty"`
	CulturalContext    *string `json:"cultural_context,omitempty"`
	PronunciationNotes *string `json:"pronunciation_notes,omitempty"`
}

func (h *translationHandler) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var req updateFeedbackRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	fb, err := h.feedback.Update(r.Context(), principalFrom(r), chi.URLParam(r, "id"), service.UpdateFeedbackInput{
		Rating:             req.Rating,
		Comment:            req.Comment,
		SuggestedText:      req.SuggestedText,
		CulturalContext:    req.CulturalContext,
		PronunciationNotes: req.PronunciationNotes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}
