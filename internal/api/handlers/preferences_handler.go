package handlers

import (
	"net/http"

	"github.com/fundcraft/backstage/internal/api/middleware"
	"github.com/fundcraft/backstage/internal/services"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// PreferencesHandler stores per-subject section expand/collapse state and
// schedule cell values.
type PreferencesHandler struct {
	prefs *services.PreferenceService
	cells *services.ScheduleCellService
}

func NewPreferencesHandler(prefs *services.PreferenceService, cells *services.ScheduleCellService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, cells: cells}
}

type setPreferenceRequest struct {
	Expanded bool `json:"expanded"`
}

func (h *PreferencesHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.prefs.List(r.Context(), projectID, middleware.GetSubjectID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Set upserts the expanded flag for one section, keyed to the request's
// session subject.
func (h *PreferencesHandler) Set(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	section := chi.URLParam(r, "section")
	if section == "" {
		writeErrorStr(w, r, appErr.CodeInvalid, "missing section")
		return
	}
	var req setPreferenceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pref, err := h.prefs.Set(r.Context(), projectID, section, middleware.GetSubjectID(r.Context()), req.Expanded)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, pref)
}

type setCellRequest struct {
	FieldKey string `json:"field_key" validate:"required"`
	Value    string `json:"value"`
}

func (h *PreferencesHandler) ListCells(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	scheduleID, err := uuidParam(r, "scheduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.cells.List(r.Context(), uid, scheduleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// SetCell upserts one cell on (schedule_id, field_key).
func (h *PreferencesHandler) SetCell(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	scheduleID, err := uuidParam(r, "scheduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setCellRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cell, err := h.cells.Set(r.Context(), uid, scheduleID, req.FieldKey, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cell)
}
