// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is the shared unit of collaboration: one creator, a set of
// collaborators, and an insertion-ordered list of task ids.
//
// Invariants maintained by the stores and policy layer:
//   - Creator never appears in Collaborators.
//   - Collaborators holds no duplicates.
//   - Every id in Tasks belongs to a task whose Project field is this
//     project's id.
type Project struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	NameCI        string               `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Description   string               `bson:"description" json:"description"`
	Client        string               `bson:"client" json:"client"`
	DueDate       time.Time            `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Creator       primitive.ObjectID   `bson:"creator" json:"creator"`
	Collaborators []primitive.ObjectID `bson:"collaborators" json:"collaborators"`
	Tasks         []primitive.ObjectID `bson:"tasks" json:"tasks"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasCollaborator reports whether userID is in the collaborator set.
func (p Project) HasCollaborator(userID primitive.ObjectID) bool {
	for _, id := range p.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}
