package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/middlewares"
	"github.com/sbilibin2017/smart-todo/internal/models"
	"github.com/sbilibin2017/smart-todo/internal/services"
)

//go:generate mockgen -source=tasks.go -destination=mock_tasks_test.go -package=handlers

// TaskCreator creates tasks for an owner.
type TaskCreator interface {
	Create(ctx context.Context, owner, title string, description *string, completed bool) (*models.TaskDB, error)
}

// TaskLister lists the tasks of an owner.
type TaskLister interface {
	List(ctx context.Context, owner string) ([]models.TaskDB, error)
}

// TaskUpdater replaces a task of an owner.
type TaskUpdater interface {
	Update(ctx context.Context, taskID, owner, title string, description *string, completed bool) error
}

// TaskDeleter deletes a task of an owner.
type TaskDeleter interface {
	Delete(ctx context.Context, taskID, owner string) error
}

// TaskRequest represents the JSON body for creating or replacing a task
// swagger:model TaskRequest
type TaskRequest struct {
	// Title
	// required: true
	// default: Buy milk
	Title string `json:"title" validate:"required,nonul"`

	// Optional description
	Description *string `json:"description" validate:"omitempty,nonul"`

	// Completion flag
	// default: false
	Completed bool `json:"completed"`
}

// TaskResponse represents a task returned to its owner
// swagger:model TaskResponse
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func toTaskResponse(t models.TaskDB) TaskResponse {
	return TaskResponse{
		ID:          t.TaskID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
}

// ownerFromRequest returns the authenticated username or writes 401.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := middlewares.GetUsernameFromContext(r.Context())
	if owner == "" {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
		return "", false
	}
	return owner, true
}

// NewCreateTaskHandler returns an HTTP handler that creates a task for the caller.
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskRequest body handlers.TaskRequest true "Task"
// @Success 200 {object} handlers.TaskResponse "Created task"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 422 {object} handlers.ErrorResponse "Validation failed"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tasks [post]
// @Security BearerAuth
func NewCreateTaskHandler(svc TaskCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req TaskRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		task, err := svc.Create(r.Context(), owner, req.Title, req.Description, req.Completed)
		if err != nil {
			logger.Log.Errorw("failed to create task", "owner", owner, "error", err)
			writeDetail(w, http.StatusInternalServerError, detailInternalError)
			return
		}

		writeJSON(w, http.StatusOK, toTaskResponse(*task))
	}
}

// NewListTasksHandler returns an HTTP handler that lists the caller's tasks.
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} handlers.TaskResponse "Caller's tasks"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tasks [get]
// @Security BearerAuth
func NewListTasksHandler(svc TaskLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		tasks, err := svc.List(r.Context(), owner)
		if err != nil {
			logger.Log.Errorw("failed to list tasks", "owner", owner, "error", err)
			writeDetail(w, http.StatusInternalServerError, detailInternalError)
			return
		}

		resp := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			resp = append(resp, toTaskResponse(t))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewUpdateTaskHandler returns an HTTP handler that replaces one of the caller's tasks.
// @Summary Update task
// @Description Replaces title, description and completed. Tasks of other users are reported as not found.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param taskRequest body handlers.TaskRequest true "Task"
// @Success 200 {object} handlers.MessageResponse "Task updated successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 404 {object} handlers.ErrorResponse "Task not found"
// @Failure 422 {object} handlers.ErrorResponse "Validation failed"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tasks/{id} [put]
// @Security BearerAuth
func NewUpdateTaskHandler(svc TaskUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req TaskRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		taskID := chi.URLParam(r, "id")
		err := svc.Update(r.Context(), taskID, owner, req.Title, req.Description, req.Completed)
		if err != nil {
			writeTaskError(w, err, taskID, owner)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Task updated successfully"})
	}
}

// NewDeleteTaskHandler returns an HTTP handler that deletes one of the caller's tasks.
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} handlers.MessageResponse "Task deleted successfully"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 404 {object} handlers.ErrorResponse "Task not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /tasks/{id} [delete]
// @Security BearerAuth
func NewDeleteTaskHandler(svc TaskDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		taskID := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), taskID, owner); err != nil {
			writeTaskError(w, err, taskID, owner)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
	}
}

func writeTaskError(w http.ResponseWriter, err error, taskID, owner string) {
	if errors.Is(err, services.ErrTaskNotFound) {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	logger.Log.Errorw("task operation failed", "task_id", taskID, "owner", owner, "error", err)
	writeDetail(w, http.StatusInternalServerError, detailInternalError)
}
