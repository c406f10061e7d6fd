// internal/app/features/projects/collaborators.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
)

// HandleSearchCollaborator looks a user up by email and returns the safe
// projection, so the client can confirm who it is about to add.
func (h *Handler) HandleSearchCollaborator(w http.ResponseWriter, r *http.Request) {
	var payload searchPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	found, err := userstore.New(h.DB).GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Warn("search collaborator", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, found.Ref())
}

// HandleAddCollaborator adds a user, identified by email, to the project's
// collaborator set. Creator only. The checks run in a fixed order so the
// client always gets the most specific error: unknown user, then
// creator-as-candidate, then existing membership.
func (h *Handler) HandleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, user, ok := h.loadReadable(ctx, w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManage(user.ID, project) {
		httpjson.Error(w, http.StatusForbidden, "invalid action")
		return
	}

	var payload collaboratorAddPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}

	candidate, err := userstore.New(h.DB).GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Warn("lookup collaborator", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	switch err := projectpolicy.ResolveCollaborator(project, candidate.ID); {
	case errors.Is(err, projectpolicy.ErrCandidateIsCreator):
		httpjson.Error(w, http.StatusConflict, "the project creator cannot be a collaborator")
		return
	case errors.Is(err, projectpolicy.ErrAlreadyCollaborator):
		httpjson.Error(w, http.StatusConflict, "user is already a collaborator")
		return
	case err != nil:
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	if err := projectstore.New(h.DB).AddCollaborator(ctx, project.ID, candidate.ID); err != nil {
		h.Log.Warn("add collaborator", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"msg": "collaborator added"})
}

// HandleRemoveCollaborator removes a collaborator by user id. Creator only.
// Removing a user who is not in the set succeeds; the end state is the
// same either way.
func (h *Handler) HandleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
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

	var payload collaboratorRemovePayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if result := inputval.Validate(payload); result.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, result.First())
		return
	}
	// A malformed user id gets the same answer as an unknown user.
	collaboratorID, err := primitive.ObjectIDFromHex(payload.ID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}

	if err := projectstore.New(h.DB).RemoveCollaborator(ctx, project.ID, collaboratorID); err != nil {
		h.Log.Warn("remove collaborator", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"msg": "collaborator removed"})
}
