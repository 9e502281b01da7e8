package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/veranemoloko/pov-video-generator/internal/domain"
	errpkg "github.com/veranemoloko/pov-video-generator/internal/errors"
)

// TaskServiceI defines the interface for task-related business logic.
type TaskServiceI interface {
	CreateTask(ctx context.Context, sceneDescription string) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context) []*domain.Task
	CredentialsStatus() domain.CredentialsStatus
}

// TaskHandler handles HTTP requests for generation tasks.
type TaskHandler struct {
	taskService TaskServiceI
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the provided service and logger.
func NewTaskHandler(taskService TaskServiceI, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Generate handles POST /api/generate-pov. The task is accepted and run
// asynchronously; clients poll the task endpoints for progress.
func (h *TaskHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "Scene description is required")
		return
	}

	task, err := h.taskService.CreateTask(ctx, req.SceneDescription)
	if err != nil {
		h.logger.Error("failed to create task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("generation accepted", "task_id", task.ID)

	writeJSON(w, http.StatusAccepted, domain.GenerateResponse{
		Message: "POV generation started",
		TaskID:  task.ID,
	})
}

// GetTask handles GET /api/tasks/{taskID}, returning the full task record
// including its step history.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, errpkg.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to get task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /api/tasks, returning all tasks in creation order.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.taskService.ListTasks(r.Context()))
}

// Credentials handles GET /api/credentials, reporting which credentials
// are configured. Values are never returned.
func (h *TaskHandler) Credentials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.taskService.CredentialsStatus())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
