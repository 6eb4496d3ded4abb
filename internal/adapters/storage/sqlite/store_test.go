package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PabloGalante/helper-kust/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/helper-kust/internal/domain"
)

func openMemory(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	older := &domain.Task{ID: "a", Title: "Algebra", Status: domain.TaskStatusPending, CreatedAt: base}
	newer := &domain.Task{ID: "b", Title: "Biology", Description: "cells", Status: domain.TaskStatusPending, CreatedAt: base.Add(time.Minute)}

	for _, task := range []*domain.Task{older, newer} {
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", task.ID, err)
		}
	}
	if err := store.CreateTask(ctx, older); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}

	if err := store.UpdateTaskStatus(ctx, "a", domain.TaskStatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}

	got, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	want := []*domain.Task{
		{ID: "b", Title: "Biology", Description: "cells", Status: domain.TaskStatusPending, CreatedAt: base.Add(time.Minute)},
		{ID: "a", Title: "Algebra", Status: domain.TaskStatusCompleted, CreatedAt: base},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(x, y time.Time) bool { return x.Equal(y) })); diff != "" {
		t.Fatalf("ListTasks mismatch (-want +got):\n%s", diff)
	}

	if err := store.DeleteTask(ctx, "b"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := store.DeleteTask(ctx, "b"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := store.UpdateTaskStatus(ctx, "zzz", domain.TaskStatusCompleted); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestReopenKeepsTasks(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "helperkust.db")

	store, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.CreateTask(ctx, &domain.Task{ID: "x", Title: "X", Status: domain.TaskStatusPending, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	store.Close()

	reopened, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected task x after reopen, got %+v", got)
	}
}
