// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/txn"
)

// HandleDeleteTask removes a task and detaches it from its project's task
// list. Creator only.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	task, project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	err := txn.WithTransaction(ctx, h.DB.Client(), func(tctx context.Context) error {
		if err := projectstore.New(h.DB).DetachTask(tctx, project.ID, task.ID); err != nil {
			return err
		}
		return taskstore.New(h.DB).Delete(tctx, task.ID)
	})
	if err != nil {
		h.Log.Warn("delete task", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"msg": "task deleted"})
}
