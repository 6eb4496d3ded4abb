package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloGalante/helper-kust/internal/adapters/storage/memory"
	"github.com/PabloGalante/helper-kust/internal/domain"
)

var (
	_ domain.TaskStore       = (*memory.TaskStore)(nil)
	_ domain.PreferenceStore = (*memory.PreferenceStore)(nil)
)

func TestTaskStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTaskStore()

	for _, id := range []domain.TaskID{"a", "b", "c"} {
		if err := store.CreateTask(ctx, &domain.Task{ID: id, Title: string(id), Status: domain.TaskStatusPending}); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", id, err)
		}
	}
	if err := store.CreateTask(ctx, &domain.Task{ID: "a"}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}

	if err := store.UpdateTaskStatus(ctx, "b", domain.TaskStatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if err := store.DeleteTask(ctx, "c"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := store.DeleteTask(ctx, "c"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	list, _ := store.ListTasks(ctx)
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("expected [b a], got %+v", list)
	}
	if list[0].Status != domain.TaskStatusCompleted {
		t.Fatalf("expected b COMPLETED, got %s", list[0].Status)
	}

	list[0].Title = "mutated"
	again, _ := store.ListTasks(ctx)
	if again[0].Title != "b" {
		t.Fatalf("ListTasks must return copies")
	}
}
