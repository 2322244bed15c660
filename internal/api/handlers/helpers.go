package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fundcraft/backstage/internal/api/middleware"
	"github.com/fundcraft/backstage/internal/api/types"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{
		Success: true,
		Data:    data,
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(types.StatusFor(err))
	_ = json.NewEncoder(w).Encode(types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeErrorStr(w http.ResponseWriter, r *http.Request, code appErr.Code, msg string) {
	writeError(w, r, appErr.New(code, msg))
}

// decodeBody unmarshals and validates the request payload.
func decodeBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return appErr.New(appErr.CodeInvalid, "malformed request body")
	}
	if err := validate.Struct(dest); err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, "validation failed")
	}
	return nil
}

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid "+name)
	}
	return id, nil
}

// currentUser returns the authenticated user id; the auth middleware
// guarantees it exists on protected routes.
func currentUser(r *http.Request) (uuid.UUID, error) {
	uid, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, appErr.New(appErr.CodeUnauthorized, "authentication required")
	}
	return uid, nil
}
