package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chichamlab/chicham/internal/auth"
	"github.com/chichamlab/chicham/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Identity headers set by the gateway in front of this service. The
// service trusts them; token validation is the identity provider's job.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

var validate = validator.New()

// principalFrom builds the caller's principal from the identity headers.
// Missing or unknown values degrade to an anonymous visitor.
func principalFrom(r *http.Request) auth.Principal {
	p := auth.Anonymous()
	p.ID = r.Header.Get(headerUserID)
	if role, ok := auth.ParseRole(r.Header.Get(headerUserRole)); ok {
		p.Role = role
	}
	return p
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.Error{Kind: service.KindValidation, Msg: "malformed request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return &service.Error{Kind: service.KindValidation, Msg: err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps the service error taxonomy onto HTTP statuses.
// Unclassified errors become opaque 500s; their detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeJSON(w, statusFor(svcErr.Kind), errorBody{Error: svcErr.Msg})
		return
	}

	logrus.Errorf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidState:
		return http.StatusConflict
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
