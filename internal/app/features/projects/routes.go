// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.HandleListProjects)
		pr.Post("/", h.HandleCreateProject)

		// COLLABORATOR SEARCH (not project-scoped)
		pr.Post("/collaborators", h.HandleSearchCollaborator)

		// VIEW / EDIT / DELETE
		pr.Get("/{id}", h.HandleViewProject)
		pr.Put("/{id}", h.HandleEditProject)
		pr.Delete("/{id}", h.HandleDeleteProject)

		// COLLABORATORS
		pr.Post("/{id}/collaborators", h.HandleAddCollaborator)
		pr.Delete("/{id}/collaborators", h.HandleRemoveCollaborator)
	})

	return r
}
