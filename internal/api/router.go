package api

import (
	"net/http"

	"github.com/fundcraft/backstage/internal/api/handlers"
	mw "github.com/fundcraft/backstage/internal/api/middleware"
	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/pkg/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Projects    *handlers.ProjectsHandler
	Tasks       *handlers.TasksHandler
	Preferences *handlers.PreferencesHandler
	Shared      *handlers.SharedHandler
	Events      *handlers.EventsHandler

	Schedules          *handlers.CollectionHandler[models.Schedule, *models.Schedule]
	Meetings           *handlers.CollectionHandler[models.Meeting, *models.Meeting]
	Returns            *handlers.CollectionHandler[models.Return, *models.Return]
	DesignRequirements *handlers.CollectionHandler[models.DesignRequirement, *models.DesignRequirement]
	ImageAssets        *handlers.CollectionHandler[models.ImageAsset, *models.ImageAsset]

	Documents         *handlers.RecordHandler[models.Document, *models.Document]
	TextRequirements  *handlers.RecordHandler[models.TextRequirement, *models.TextRequirement]
	VideoRequirements *handlers.RecordHandler[models.VideoRequirement, *models.VideoRequirement]
	ProjectNotes      *handlers.RecordHandler[models.ProjectNote, *models.ProjectNote]
}

// NewRouter wires the HTTP surface. Share-token reads and auth are public;
// everything else requires a bearer token.
func NewRouter(cfg *config.Config, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(chimw.Compress(5))
	r.Use(mw.RateLimit(50, 100))

	r.Get("/healthz", h.Health.Live)
	r.Get("/readyz", h.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		// Read-only share link, no auth
		r.With(mw.Session).Get("/shared/{token}", h.Shared.Get)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))
			r.Use(mw.Session)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Projects.List)
				r.Post("/", h.Projects.Create)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", h.Projects.Get)
					r.Put("/", h.Projects.Update)
					r.Delete("/", h.Projects.Delete)
					r.Post("/duplicate", h.Projects.Duplicate)
					r.Post("/share", h.Projects.Share)
					r.Delete("/share", h.Projects.Unshare)
					r.Get("/events", h.Events.Stream)

					r.Get("/tasks", h.Tasks.List)
					r.Get("/tasks/tree", h.Tasks.Tree)
					r.Post("/tasks", h.Tasks.Create)

					r.Get("/preferences", h.Preferences.List)
					r.Put("/preferences/{section}", h.Preferences.Set)

					mountCollection(r, "/schedules", h.Schedules)
					mountCollection(r, "/meetings", h.Meetings)
					mountCollection(r, "/returns", h.Returns)
					mountCollection(r, "/design-requirements", h.DesignRequirements)
					mountCollection(r, "/image-assets", h.ImageAssets)

					mountRecords(r, "/documents", h.Documents)
					mountRecords(r, "/text-requirements", h.TextRequirements)
					mountRecords(r, "/video-requirements", h.VideoRequirements)
					mountRecords(r, "/notes", h.ProjectNotes)
				})
			})

			r.Route("/tasks/{taskID}", func(r chi.Router) {
				r.Get("/", h.Tasks.Get)
				r.Put("/", h.Tasks.Update)
				r.Delete("/", h.Tasks.Delete)
				r.Post("/move-up", h.Tasks.MoveUp)
				r.Post("/move-down", h.Tasks.MoveDown)

				r.Get("/subtasks", h.Tasks.ListSubtasks)
				r.Post("/subtasks", h.Tasks.CreateSubtask)
				r.Get("/notes", h.Tasks.ListNotes)
				r.Post("/notes", h.Tasks.CreateNote)
			})
			r.Put("/subtasks/{subtaskID}", h.Tasks.UpdateSubtask)
			r.Delete("/subtasks/{subtaskID}", h.Tasks.DeleteSubtask)
			r.Delete("/task-notes/{noteID}", h.Tasks.DeleteNote)

			r.Get("/schedules/{scheduleID}/cells", h.Preferences.ListCells)
			r.Put("/schedules/{scheduleID}/cells", h.Preferences.SetCell)
		})
	})

	return r
}

type collectionRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
	MoveUp(http.ResponseWriter, *http.Request)
	MoveDown(http.ResponseWriter, *http.Request)
}

type recordRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCollection(r chi.Router, path string, h collectionRoutes) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{itemID}", h.Update)
		r.Delete("/{itemID}", h.Delete)
		r.Post("/{itemID}/move-up", h.MoveUp)
		r.Post("/{itemID}/move-down", h.MoveDown)
	})
}

func mountRecords(r chi.Router, path string, h recordRoutes) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{itemID}", h.Update)
		r.Delete("/{itemID}", h.Delete)
	})
}
