// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// CREATE
		pr.Post("/", h.HandleCreateTask)

		// VIEW / EDIT / DELETE
		pr.Get("/{id}", h.HandleViewTask)
		pr.Put("/{id}", h.HandleEditTask)
		pr.Delete("/{id}", h.HandleDeleteTask)

		// STATE TOGGLE
		pr.Post("/{id}/state", h.HandleToggleTaskState)
	})

	return r
}
