// internal/app/features/projects/types.go
package projects

import (
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

// projectPayload is the request body for create and edit. On edit, omitted
// or empty fields keep their prior value.
type projectPayload struct {
	Name        string     `json:"name" validate:"max=200" label:"Project name"`
	Description string     `json:"description"`
	Client      string     `json:"client" validate:"max=200" label:"Client"`
	DueDate     *time.Time `json:"due_date"`
}

// searchPayload is the request body for the collaborator search endpoint.
type searchPayload struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

// collaboratorAddPayload identifies the user to add by email, matching the
// search-then-add flow of the client.
type collaboratorAddPayload struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

// collaboratorRemovePayload identifies the collaborator to remove by id.
type collaboratorRemovePayload struct {
	ID string `json:"id" validate:"required" label:"User id"`
}

// taskView is a task with its completer resolved to the safe user
// projection. The embedded Task's completed_by id is shadowed.
type taskView struct {
	models.Task
	CompletedBy *models.UserRef `json:"completed_by,omitempty"`
}

// projectView is the detail response: collaborator ids and task ids are
// shadowed by their populated forms.
type projectView struct {
	models.Project
	Collaborators []models.UserRef `json:"collaborators"`
	Tasks         []taskView       `json:"tasks"`
}
