// internal/app/features/tasks/edit.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleEditTask applies a partial update to a task. Creator only; the
// task keeps its project.
func (h *Handler) HandleEditTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	var payload editPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}

	changes := models.Task{
		Name:        htmlsanitize.StripTags(payload.Name),
		Description: htmlsanitize.Sanitize(payload.Description),
		Priority:    payload.Priority,
	}
	if payload.DueDate != nil {
		changes.DueDate = *payload.DueDate
	}

	store := taskstore.New(h.DB)
	if err := store.Update(ctx, task.ID, changes); err != nil {
		if errors.Is(err, taskstore.ErrBadPriority) {
			httpjson.Error(w, http.StatusBadRequest, "Priority must be low, medium, or high.")
			return
		}
		h.Log.Warn("update task", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, task.ID)
	if err != nil {
		h.Log.Warn("reload task", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	resp, err := h.withCompleter(ctx, updated)
	if err != nil {
		h.Log.Warn("resolve completer", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, resp)
}
