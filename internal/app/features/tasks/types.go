// internal/app/features/tasks/types.go
package tasks

import (
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

// createPayload is the request body for task creation. Project identifies
// the owning project and is immutable afterwards.
type createPayload struct {
	Name        string     `json:"name" validate:"required,max=200" label:"Task name"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"priority" label:"Priority"`
	DueDate     *time.Time `json:"due_date"`
	Project     string     `json:"project" validate:"required" label:"Project id"`
}

// editPayload is the request body for partial task updates. Omitted or
// empty fields keep their prior value; the project reference cannot change.
type editPayload struct {
	Name        string     `json:"name" validate:"max=200" label:"Task name"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"priority" label:"Priority"`
	DueDate     *time.Time `json:"due_date"`
}

// taskResponse carries a task plus its completer's safe projection, the
// shape the detail and toggle endpoints return.
type taskResponse struct {
	models.Task
	CompletedBy *models.UserRef `json:"completed_by,omitempty"`
}
