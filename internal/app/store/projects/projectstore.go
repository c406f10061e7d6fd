// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("project not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a new project with the given actor as creator.
func (s *Store) Create(ctx context.Context, p models.Project, creator primitive.ObjectID) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.Creator = creator
	p.Collaborators = []primitive.ObjectID{}
	p.Tasks = []primitive.ObjectID{}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID retrieves a project by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}

// ListForActor returns every project the actor created or collaborates on,
// newest first. The task id list is omitted from the projection since list
// views never need it.
func (s *Store) ListForActor(ctx context.Context, actorID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"creator": actorID},
			{"collaborators": actorID},
		},
	}
	opts := options.Find().
		SetProjection(bson.M{"tasks": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update modifies a project's mutable fields. Zero values leave the stored
// value unchanged, mirroring the partial-update contract of the API.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Project) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != "" {
		set["name"] = p.Name
		set["name_ci"] = text.Fold(p.Name)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.Client != "" {
		set["client"] = p.Client
	}
	if !p.DueDate.IsZero() {
		set["due_date"] = p.DueDate
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project by ID. Cascading task deletion is the caller's
// responsibility (see the projects feature handler).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCollaborator appends userID to the collaborator set. The handler runs
// the policy's ordered checks first; $addToSet keeps the no-duplicates
// invariant even if a concurrent add slips past them.
func (s *Store) AddCollaborator(ctx context.Context, projectID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$addToSet": bson.M{"collaborators": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveCollaborator pulls userID from the collaborator set. Removing a
// non-member is not an error; the pull simply matches nothing.
func (s *Store) RemoveCollaborator(ctx context.Context, projectID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"collaborators": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachTask appends a task id to the project's ordered task list. Called
// exactly once, at task creation.
func (s *Store) AttachTask(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$push": bson.M{"tasks": taskID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DetachTask pulls a task id from the project's ordered task list. Called
// exactly once, at task deletion.
func (s *Store) DetachTask(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"tasks": taskID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates indexes for the projects collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creator", Value: 1}},
			Options: options.Index().SetName("idx_project_creator"),
		},
		{
			Keys:    bson.D{{Key: "collaborators", Value: 1}},
			Options: options.Index().SetName("idx_project_collaborators"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_project_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
