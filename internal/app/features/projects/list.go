// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
)

// HandleListProjects returns every project the current user created or
// collaborates on, newest first, with the task id list omitted.
func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := projectstore.New(h.DB).ListForActor(ctx, user.ID)
	if err != nil {
		h.Log.Warn("list projects", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, list)
}
