// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Handler is the shared dependency container for the tasks feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// loadReadable fetches the task in the {id} route param together with its
// project, and verifies the current user may read that project. A task
// whose project the user cannot read looks exactly like a missing task.
// The bool result reports success; on false the response has already been
// written.
func (h *Handler) loadReadable(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Task, models.Project, models.User, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return models.Task{}, models.Project{}, models.User{}, false
	}

	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "task not found")
		return models.Task{}, models.Project{}, models.User{}, false
	}

	task, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return models.Task{}, models.Project{}, models.User{}, false
		}
		h.Log.Warn("load task", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return models.Task{}, models.Project{}, models.User{}, false
	}

	project, err := projectstore.New(h.DB).GetByID(ctx, task.Project)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			// Orphaned task; treat as missing.
			httpjson.Error(w, http.StatusNotFound, "task not found")
			return models.Task{}, models.Project{}, models.User{}, false
		}
		h.Log.Warn("load task project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return models.Task{}, models.Project{}, models.User{}, false
	}

	if !projectpolicy.CanRead(user.ID, project) {
		httpjson.Error(w, http.StatusNotFound, "task not found")
		return models.Task{}, models.Project{}, models.User{}, false
	}
	return task, project, user, true
}
