// internal/app/policy/projectpolicy.go
package projectpolicy

import (
	"errors"

	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decision functions for project access. Every rule reduces to a membership
// test over the loaded aggregate: the creator holds full rights, a
// collaborator holds read and task-toggle rights, anyone else holds none.
// Handlers load the project, call one of these, and short-circuit before
// touching storage on a deny.

var (
	// ErrCandidateIsCreator is returned when adding the project creator as a collaborator.
	ErrCandidateIsCreator = errors.New("the project creator cannot be a collaborator")
	// ErrAlreadyCollaborator is returned when the candidate already belongs to the project.
	ErrAlreadyCollaborator = errors.New("the user already belongs to this project")
)

// CanRead reports whether the actor may view the project and its tasks:
// the creator or any collaborator.
func CanRead(actorID primitive.ObjectID, p models.Project) bool {
	return actorID == p.Creator || p.HasCollaborator(actorID)
}

// CanManage reports whether the actor may administer the project: rename,
// delete, manage collaborators, and create/edit/delete tasks. Creator only.
func CanManage(actorID primitive.ObjectID, p models.Project) bool {
	return actorID == p.Creator
}

// CanToggleTask reports whether the actor may flip a task's completion
// state. Same membership as CanRead; toggling is the one mutation
// collaborators are granted.
func CanToggleTask(actorID primitive.ObjectID, p models.Project) bool {
	return CanRead(actorID, p)
}

// ResolveCollaborator runs the ordered admission checks for adding a
// candidate user to the project. The candidate's existence is the first
// check of the sequence and is performed upstream by the user lookup, so
// the remaining checks run in order here: not the creator, then not already
// a member. Each failure is distinct and user-facing.
func ResolveCollaborator(p models.Project, candidateID primitive.ObjectID) error {
	if candidateID == p.Creator {
		return ErrCandidateIsCreator
	}
	if p.HasCollaborator(candidateID) {
		return ErrAlreadyCollaborator
	}
	return nil
}
