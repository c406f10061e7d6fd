// internal/app/store/tasks/taskstore.go
package taskstore

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

var (
	ErrNotFound    = errors.New("task not found")
	ErrBadPriority = errors.New(`priority must be "low", "medium", or "high"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a new task under its project. The caller attaches the
// returned id to the project's task list via projectstore.AttachTask.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.Priority == "" {
		t.Priority = models.PriorityLow
	}
	if !models.IsValidPriority(t.Priority) {
		return models.Task{}, ErrBadPriority
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.Done = false
	t.CompletedBy = primitive.NilObjectID
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID retrieves a task by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

// ListByProject returns a project's tasks in creation order.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update modifies a task's mutable fields. Zero values leave the stored
// value unchanged; the project back-reference is never reassigned.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, t models.Task) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if t.Name != "" {
		set["name"] = t.Name
		set["name_ci"] = text.Fold(t.Name)
	}
	if t.Description != "" {
		set["description"] = t.Description
	}
	if t.Priority != "" {
		if !models.IsValidPriority(t.Priority) {
			return ErrBadPriority
		}
		set["priority"] = t.Priority
	}
	if !t.DueDate.IsZero() {
		set["due_date"] = t.DueDate
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

// SetState writes the toggled done flag and stamps the acting user as the
// completer. The stamp happens on both directions of the toggle; the
// authoritative state endpoint has always attributed the last actor to
// touch the flag, and un-completing does not clear it.
func (s *Store) SetState(ctx context.Context, id primitive.ObjectID, done bool, actorID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"done":         done,
			"completed_by": actorID,
			"updated_at":   time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID.
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

// DeleteByProject removes every task belonging to projectID. Used by the
// project-delete cascade.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the tasks collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_task_project_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
