// internal/app/features/projects/delete.go
package projects

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

// HandleDeleteProject deletes a project and all of its tasks. Creator only.
func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	// Cascade inside a transaction where the deployment supports one, so a
	// failed project delete cannot leave the tasks half gone.
	err := txn.WithTransaction(ctx, h.DB.Client(), func(tctx context.Context) error {
		if _, err := taskstore.New(h.DB).DeleteByProject(tctx, project.ID); err != nil {
			return err
		}
		return projectstore.New(h.DB).Delete(tctx, project.ID)
	})
	if err != nil {
		h.Log.Warn("delete project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"msg": "project deleted"})
}
