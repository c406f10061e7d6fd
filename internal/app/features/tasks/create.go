// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/txn"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleCreateTask creates a task under a project and appends it to the
// project's ordered task list. Creator only.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return
	}

	var payload createPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}
	// A malformed project id gets the same answer as a missing project.
	projectID, err := primitive.ObjectIDFromHex(payload.Project)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects := projectstore.New(h.DB)
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "project not found")
			return
		}
		h.Log.Warn("load project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}
	if !projectpolicy.CanRead(user.ID, project) {
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	t := models.Task{
		Name:        htmlsanitize.StripTags(payload.Name),
		Description: htmlsanitize.Sanitize(payload.Description),
		Priority:    payload.Priority,
		Project:     project.ID,
	}
	if payload.DueDate != nil {
		t.DueDate = *payload.DueDate
	}

	var created models.Task
	err = txn.WithTransaction(ctx, h.DB.Client(), func(tctx context.Context) error {
		var terr error
		created, terr = taskstore.New(h.DB).Create(tctx, t)
		if terr != nil {
			return terr
		}
		return projects.AttachTask(tctx, project.ID, created.ID)
	})
	if err != nil {
		if errors.Is(err, taskstore.ErrBadPriority) {
			httpjson.Error(w, http.StatusBadRequest, "Priority must be low, medium, or high.")
			return
		}
		h.Log.Warn("create task", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusCreated, created)
}
