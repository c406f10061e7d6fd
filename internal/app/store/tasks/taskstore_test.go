package taskstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Task{
		Name:     "Write copy",
		Priority: models.PriorityHigh,
		Project:  project,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Priority != models.PriorityHigh {
		t.Errorf("Priority: got %q, want high", created.Priority)
	}
	if created.Done {
		t.Error("new tasks must start not done")
	}
	if created.CompletedBy != primitive.NilObjectID {
		t.Errorf("CompletedBy: got %s, want nil", created.CompletedBy.Hex())
	}
	if created.Project != project {
		t.Errorf("Project: got %s, want %s", created.Project.Hex(), project.Hex())
	}
}

func TestStore_Create_DefaultPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{
		Name:    "No priority given",
		Project: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Priority != models.PriorityLow {
		t.Errorf("Priority: got %q, want low", created.Priority)
	}
}

func TestStore_Create_BadPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Task{
		Name:     "Impossible",
		Priority: "urgent",
		Project:  primitive.NewObjectID(),
	})
	if !errors.Is(err, taskstore.ErrBadPriority) {
		t.Errorf("expected ErrBadPriority, got %v", err)
	}
}

func TestStore_ListByProject_CreationOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := primitive.NewObjectID()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := store.Create(ctx, models.Task{Name: name, Project: project}); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}
	if _, err := store.Create(ctx, models.Task{Name: "elsewhere", Project: primitive.NewObjectID()}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tasks, err := store.ListByProject(ctx, project)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, name := range names {
		if tasks[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, tasks[i].Name, name)
		}
	}
}

func TestStore_Update_Partial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{
		Name:        "Original",
		Description: "Keep me",
		Project:     primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, created.ID, models.Task{Priority: models.PriorityMedium}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %q, want medium", updated.Priority)
	}
	if updated.Name != "Original" || updated.Description != "Keep me" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestStore_Update_BadPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{Name: "Task", Project: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, models.Task{Priority: "critical"})
	if !errors.Is(err, taskstore.ErrBadPriority) {
		t.Errorf("expected ErrBadPriority, got %v", err)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Update(ctx, primitive.NewObjectID(), models.Task{Name: "Ghost"})
	if !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetState_StampsCompleter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{Name: "Toggle me", Project: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	completer := primitive.NewObjectID()
	if err := store.SetState(ctx, created.ID, true, completer); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	done, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !done.Done {
		t.Error("expected task to be done")
	}
	if done.CompletedBy != completer {
		t.Errorf("CompletedBy: got %s, want %s", done.CompletedBy.Hex(), completer.Hex())
	}

	// Un-completing re-stamps the acting user rather than clearing it.
	reopener := primitive.NewObjectID()
	if err := store.SetState(ctx, created.ID, false, reopener); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	reopened, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reopened.Done {
		t.Error("expected task to be not done")
	}
	if reopened.CompletedBy != reopener {
		t.Errorf("CompletedBy: got %s, want %s", reopened.CompletedBy.Hex(), reopener.Hex())
	}
}

func TestStore_SetState_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.SetState(ctx, primitive.NewObjectID(), true, primitive.NewObjectID())
	if !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{Name: "Doomed", Project: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_DeleteByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Task{Name: "doomed", Project: project}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	survivor, err := store.Create(ctx, models.Task{Name: "survivor", Project: other})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.DeleteByProject(ctx, project)
	if err != nil {
		t.Fatalf("DeleteByProject failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted: got %d, want 3", deleted)
	}

	if _, err := store.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("task in another project should survive: %v", err)
	}
}
