// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleEditProject applies a partial update to a project. Creator only;
// a collaborator who can read the project gets 403.
func (h *Handler) HandleEditProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	var payload projectPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}

	// Empty fields keep their prior value; the store skips zero values.
	changes := models.Project{
		Name:        htmlsanitize.StripTags(payload.Name),
		Description: htmlsanitize.Sanitize(payload.Description),
		Client:      htmlsanitize.StripTags(payload.Client),
	}
	if payload.DueDate != nil {
		changes.DueDate = *payload.DueDate
	}

	store := projectstore.New(h.DB)
	if err := store.Update(ctx, project.ID, changes); err != nil {
		h.Log.Warn("update project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, project.ID)
	if err != nil {
		h.Log.Warn("reload project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, updated)
}
