// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Handler is the shared dependency container for the projects feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// loadReadable fetches the project in the {id} route param and verifies the
// current user may read it. Absent, malformed, and not-a-member all come
// back as 404 so strangers cannot probe for project existence. The bool
// result reports success; on false the response has already been written.
func (h *Handler) loadReadable(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Project, models.User, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return models.Project{}, models.User{}, false
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return models.Project{}, models.User{}, false
	}

	project, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "project not found")
			return models.Project{}, models.User{}, false
		}
		h.Log.Warn("load project", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return models.Project{}, models.User{}, false
	}

	if !projectpolicy.CanRead(user.ID, project) {
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return models.Project{}, models.User{}, false
	}
	return project, user, true
}
