// internal/app/features/projects/view.go
package projects

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// HandleViewProject returns a project with its collaborators resolved to
// user projections and its tasks populated, each task carrying its
// completer's projection.
func (h *Handler) HandleViewProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, _, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}

	users := userstore.New(h.DB)

	collaborators, err := users.Refs(ctx, project.Collaborators)
	if err != nil {
		h.Log.Warn("resolve collaborators", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	taskList, err := taskstore.New(h.DB).ListByProject(ctx, project.ID)
	if err != nil {
		h.Log.Warn("list project tasks", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	// Resolve every distinct completer in one query.
	var completerIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, t := range taskList {
		if t.CompletedBy.IsZero() || seen[t.CompletedBy] {
			continue
		}
		seen[t.CompletedBy] = true
		completerIDs = append(completerIDs, t.CompletedBy)
	}
	completers := make(map[primitive.ObjectID]models.UserRef, len(completerIDs))
	if len(completerIDs) > 0 {
		refs, err := users.Refs(ctx, completerIDs)
		if err != nil {
			h.Log.Warn("resolve completers", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
			return
		}
		for _, ref := range refs {
			completers[ref.ID] = ref
		}
	}

	views := make([]taskView, len(taskList))
	for i, t := range taskList {
		views[i] = taskView{Task: t}
		if ref, ok := completers[t.CompletedBy]; ok {
			views[i].CompletedBy = &ref
		}
	}

	httpjson.Respond(w, http.StatusOK, projectView{
		Project:       project,
		Collaborators: collaborators,
		Tasks:         views,
	})
}
