// internal/app/features/tasks/view.go
package tasks

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleViewTask returns a single task with its completer resolved.
// Readable by the project's creator and collaborators.
func (h *Handler) HandleViewTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, _, _, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}

	resp, err := h.withCompleter(ctx, task)
	if err != nil {
		h.Log.Warn("resolve completer", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, resp)
}

// withCompleter attaches the completer's safe projection when the task has
// ever been toggled. A completer whose user record is gone is left nil.
func (h *Handler) withCompleter(ctx context.Context, task models.Task) (taskResponse, error) {
	resp := taskResponse{Task: task}
	if task.CompletedBy.IsZero() {
		return resp, nil
	}

	refs, err := userstore.New(h.DB).Refs(ctx, []primitive.ObjectID{task.CompletedBy})
	if err != nil {
		return resp, err
	}
	if len(refs) > 0 {
		resp.CompletedBy = &refs[0]
	}
	return resp, nil
}
