package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/services"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/google/uuid"
)

// orderablePtr binds URL params onto a reorderable row.
type orderablePtr[T any] interface {
	*T
	SetOrderIndex(int)
	SetID(uuid.UUID)
	SetProjectID(uuid.UUID)
}

// recordPtr binds URL params onto a creation-ordered row.
type recordPtr[T any] interface {
	*T
	SetID(uuid.UUID)
	SetProjectID(uuid.UUID)
}

// decodeRow unmarshals the body, applies the URL-derived ids, then validates.
// IDs come from the route, never from the payload.
func decodeRow[T any, PT interface {
	*T
	SetID(uuid.UUID)
	SetProjectID(uuid.UUID)
}](r *http.Request, projectID, id uuid.UUID) (PT, error) {
	row := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(row); err != nil {
		return nil, appErr.New(appErr.CodeInvalid, "malformed request body")
	}
	row.SetProjectID(projectID)
	row.SetID(id)
	if err := validate.Struct(row); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "validation failed")
	}
	return row, nil
}

// decodeOver unmarshals the body on top of the current row so fields the
// payload omits keep their stored values, then re-applies the URL ids.
func decodeOver[T any, PT interface {
	*T
	SetID(uuid.UUID)
	SetProjectID(uuid.UUID)
}](r *http.Request, current *T, projectID, id uuid.UUID) (PT, error) {
	row := *current
	p := PT(&row)
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		return nil, appErr.New(appErr.CodeInvalid, "malformed request body")
	}
	p.SetProjectID(projectID)
	p.SetID(id)
	if err := validate.Struct(p); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "validation failed")
	}
	return p, nil
}

// CollectionHandler serves one manually reorderable collection nested under a
// project. Routes provide {projectID} and, for item routes, {itemID}.
type CollectionHandler[T models.Sequenced, PT orderablePtr[T]] struct {
	svc *services.CollectionService[T, PT]
}

func NewCollectionHandler[T models.Sequenced, PT orderablePtr[T]](svc *services.CollectionService[T, PT]) *CollectionHandler[T, PT] {
	return &CollectionHandler[T, PT]{svc: svc}
}

func (h *CollectionHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.List(r.Context(), uid, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *CollectionHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := decodeRow[T, PT](r, projectID, uuid.Nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Create(r.Context(), uid, row); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, row)
}

func (h *CollectionHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := h.svc.Get(r.Context(), uid, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := decodeOver[T, PT](r, current, projectID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Update(r.Context(), uid, row); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, row)
}

func (h *CollectionHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), uid, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

// MoveUp swaps the row with its predecessor and returns the refreshed list.
// Moving the first row up is a no-op that still returns the list.
func (h *CollectionHandler[T, PT]) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.MoveUp)
}

// MoveDown is the symmetric operation.
func (h *CollectionHandler[T, PT]) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.MoveDown)
}

func (h *CollectionHandler[T, PT]) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, itemID uuid.UUID) ([]T, error)) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := op(r.Context(), uid, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// RecordHandler serves one creation-ordered collection nested under a project.
type RecordHandler[T models.ProjectScoped, PT recordPtr[T]] struct {
	svc *services.RecordService[T, PT]
}

func NewRecordHandler[T models.ProjectScoped, PT recordPtr[T]](svc *services.RecordService[T, PT]) *RecordHandler[T, PT] {
	return &RecordHandler[T, PT]{svc: svc}
}

func (h *RecordHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.List(r.Context(), uid, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *RecordHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := decodeRow[T, PT](r, projectID, uuid.Nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Create(r.Context(), uid, row); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, row)
}

func (h *RecordHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := h.svc.Get(r.Context(), uid, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := decodeOver[T, PT](r, current, projectID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Update(r.Context(), uid, row); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, row)
}

func (h *RecordHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), uid, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
