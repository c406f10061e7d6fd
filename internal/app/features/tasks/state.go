// internal/app/features/tasks/state.go
package tasks

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
)

// HandleToggleTaskState flips a task's done flag. Creator or collaborator.
// The acting user is stamped as the completer on every toggle, both
// directions, and the response carries the completer projection.
func (h *Handler) HandleToggleTaskState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanToggleTask(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	store := taskstore.New(h.DB)
	if err := store.SetState(ctx, task.ID, !task.Done, user.ID); err != nil {
		h.Log.Warn("toggle task state", zap.Error(err))
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
