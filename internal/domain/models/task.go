// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities accepted at create/update time.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// IsValidPriority checks a priority value against the accepted set.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a unit of work belonging to exactly one project.
//
// Project is set at creation and never reassigned; it is the back-reference
// the policy layer uses to authorize task operations. Done flips through
// SetState only, which also stamps CompletedBy with the acting user on every
// toggle, both directions. That mirrors the authoritative behavior of the
// task state endpoint: un-completing does not clear attribution.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Priority    string             `bson:"priority" json:"priority"`
	DueDate     time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Project     primitive.ObjectID `bson:"project" json:"project"`
	Done        bool               `bson:"done" json:"done"`
	CompletedBy primitive.ObjectID `bson:"completed_by,omitempty" json:"completed_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
