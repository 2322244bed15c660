package handlers

import (
	"net/http"

	appErr "github.com/fundcraft/backstage/pkg/errors"

	"github.com/fundcraft/backstage/internal/services"
	"github.com/go-chi/chi/v5"
)

// SharedHandler serves the read-only project bundle behind a share token. No
// authentication: possession of the token is the credential.
type SharedHandler struct {
	projects *services.ProjectService
}

func NewSharedHandler(projects *services.ProjectService) *SharedHandler {
	return &SharedHandler{projects: projects}
}

func (h *SharedHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErrorStr(w, r, appErr.CodeInvalid, "missing share token")
		return
	}
	view, err := h.projects.SharedView(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
