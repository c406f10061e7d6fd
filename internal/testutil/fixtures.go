package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email. It goes
// through the user store so fixtures carry the same normalization and
// duplicate handling as production writes.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	user, err := userstore.New(f.db).Create(ctx, models.User{Name: name, Email: email})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProject creates a test project owned by creator, with the given
// collaborators and no tasks.
func (f *Fixtures) CreateProject(ctx context.Context, name string, creator primitive.ObjectID, collaborators ...primitive.ObjectID) models.Project {
	f.t.Helper()

	if collaborators == nil {
		collaborators = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	project := models.Project{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Description:   "Test project",
		Client:        "Test Client",
		Creator:       creator,
		Collaborators: collaborators,
		Tasks:         []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTask creates a test task under projectID and appends it to the
// project's task list, keeping the attach invariant the stores maintain.
func (f *Fixtures) CreateTask(ctx context.Context, name string, projectID primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Priority:  models.PriorityLow,
		Project:   projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}

	_, err := f.db.Collection("projects").UpdateByID(ctx, projectID,
		bson.M{"$push": bson.M{"tasks": task.ID}})
	if err != nil {
		f.t.Fatalf("failed to attach test task: %v", err)
	}
	return task
}
