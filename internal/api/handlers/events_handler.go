package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/services"
	appErr "github.com/fundcraft/backstage/pkg/errors"
)

// EventsHandler streams row-change events over SSE. Clients subscribe per
// project with optional ?table= filtering; a dropped event is recovered by
// re-fetching the affected list.
type EventsHandler struct {
	hub      *realtime.Hub
	projects *services.ProjectService
}

func NewEventsHandler(hub *realtime.Hub, projects *services.ProjectService) *EventsHandler {
	return &EventsHandler{hub: hub, projects: projects}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
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
	if _, err := h.projects.Get(r.Context(), projectID, uid); err != nil {
		writeError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, appErr.New(appErr.CodeInternal, "streaming unsupported"))
		return
	}

	sub := h.hub.Subscribe(r.URL.Query().Get("table"), projectID, 64)
	defer h.hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: ready\ndata: {\"project_id\":%q}\n\n", projectID)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
