package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/services"
	"github.com/google/uuid"
)

// TasksHandler exposes the task hierarchy plus subtasks and task notes.
type TasksHandler struct {
	tasks *services.TaskService
}

func NewTasksHandler(tasks *services.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

type createTaskRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=not_started in_progress done"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"required,oneof=not_started in_progress done"`
	DueDate     *time.Time `json:"due_date"`
}

// List returns the project's tasks flat; `?tree=1` returns the forest instead.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("tree"); q == "1" || q == "true" {
		h.Tree(w, r)
		return
	}
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
	out, err := h.tasks.ListTasks(r.Context(), uid, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Tree returns the project's tasks nested by parent_id.
func (h *TasksHandler) Tree(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.tasks.TaskTree(r.Context(), uid, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status := req.Status
	if status == "" {
		status = models.TaskStatusNotStarted
	}
	task := &models.Task{
		ProjectID:   projectID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
	}
	if err := h.tasks.CreateTask(r.Context(), uid, task); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, task)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.tasks.GetTask(r.Context(), uid, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, task)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := h.tasks.GetTask(r.Context(), uid, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	task := *current
	task.ParentID = req.ParentID
	task.Title = req.Title
	task.Description = req.Description
	task.Status = req.Status
	task.DueDate = req.DueDate
	if err := h.tasks.UpdateTask(r.Context(), uid, &task); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, task)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), uid, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

// MoveUp swaps the task with its previous sibling and returns the refreshed
// sibling group. Moving the first sibling up is a no-op.
func (h *TasksHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.tasks.MoveTaskUp)
}

// MoveDown is the symmetric operation.
func (h *TasksHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.tasks.MoveTaskDown)
}

func (h *TasksHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, taskID uuid.UUID) ([]models.Task, error)) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	siblings, err := op(r.Context(), uid, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, siblings)
}

// --- subtasks ---

type subtaskRequest struct {
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

func (h *TasksHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.tasks.ListSubtasks(r.Context(), uid, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *TasksHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req subtaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub := &models.Subtask{TaskID: taskID, Title: req.Title, Completed: req.Completed}
	if err := h.tasks.CreateSubtask(r.Context(), uid, sub); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sub)
}

func (h *TasksHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subtaskID, err := uuidParam(r, "subtaskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req subtaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub := &models.Subtask{ID: subtaskID, Title: req.Title, Completed: req.Completed}
	if err := h.tasks.UpdateSubtask(r.Context(), uid, sub); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sub)
}

func (h *TasksHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subtaskID, err := uuidParam(r, "subtaskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.tasks.DeleteSubtask(r.Context(), uid, subtaskID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

// --- task notes ---

type taskNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *TasksHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.tasks.ListTaskNotes(r.Context(), uid, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *TasksHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := uuidParam(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req taskNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	note := &models.TaskNote{TaskID: taskID, Content: req.Content}
	if err := h.tasks.CreateTaskNote(r.Context(), uid, note); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, note)
}

func (h *TasksHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	noteID, err := uuidParam(r, "noteID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.tasks.DeleteTaskNote(r.Context(), uid, noteID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
