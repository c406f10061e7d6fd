// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleCreateProject creates a project with the current user as creator.
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return
	}

	var payload projectPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		httpjson.Error(w, http.StatusBadRequest, "project name is required")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}

	p := models.Project{
		Name:        htmlsanitize.StripTags(payload.Name),
		Description: htmlsanitize.Sanitize(payload.Description),
		Client:      htmlsanitize.StripTags(payload.Client),
	}
	if payload.DueDate != nil {
		p.DueDate = *payload.DueDate
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := projectstore.New(h.DB).Create(ctx, p, user.ID)
	if err != nil {
		h.Log.Warn("create project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusCreated, created)
}
