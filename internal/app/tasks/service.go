package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

// Service owns the task list. The in-memory list is authoritative; the
// underlying TaskStore is written through on a best-effort basis.
type Service struct {
	mu    sync.RWMutex
	tasks []*domain.Task // newest first

	store domain.TaskStore
	now   func() time.Time
	newID func() string
}

// NewService creates a task service backed by store. store may be nil, in
// which case tasks live only in memory.
func NewService(store domain.TaskStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Load replaces the in-memory list with the persisted one. A failing store
// leaves the list empty; Load never returns an error.
func (s *Service) Load(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)
	if s.store == nil {
		return
	}

	loaded, err := s.store.ListTasks(ctx)
	if err != nil {
		log.Warn("loading tasks failed, starting empty",
			"error", fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err))
		loaded = nil
	}

	tasks := make([]*domain.Task, 0, len(loaded))
	seen := make(map[domain.TaskID]bool, len(loaded))
	for _, t := range loaded {
		if t == nil || t.ID == "" || seen[t.ID] {
			continue
		}
		if !t.Status.Valid() {
			t.Status = domain.TaskStatusPending
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	log.Info("tasks loaded", "count", len(tasks))
}

// Create adds a task at the head of the list.
func (s *Service) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidTask
	}

	task := &domain.Task{
		ID:          domain.TaskID(s.newID()),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      domain.TaskStatusPending,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.tasks = append([]*domain.Task{task}, s.tasks...)
	s.mu.Unlock()

	s.persist(ctx, "create", task.ID, func(st domain.TaskStore) error {
		return st.CreateTask(ctx, clone(task))
	})

	observability.LoggerFromContext(ctx).Info("task created", "task_id", task.ID)
	return clone(task), nil
}

// List returns copies of all tasks, newest first.
func (s *Service) List() []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = clone(t)
	}
	return out
}

func (s *Service) Get(id domain.TaskID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return clone(s.tasks[i]), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// Toggle flips a task between COMPLETED and PENDING. Any status other than
// COMPLETED becomes COMPLETED.
func (s *Service) Toggle(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return s.update(ctx, id, func(cur domain.TaskStatus) domain.TaskStatus {
		if cur == domain.TaskStatusCompleted {
			return domain.TaskStatusPending
		}
		return domain.TaskStatusCompleted
	})
}

func (s *Service) SetStatus(ctx context.Context, id domain.TaskID, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid task status %q", status)
	}
	return s.update(ctx, id, func(domain.TaskStatus) domain.TaskStatus { return status })
}

func (s *Service) Delete(ctx context.Context, id domain.TaskID) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	s.persist(ctx, "delete", id, func(st domain.TaskStore) error {
		return st.DeleteTask(ctx, id)
	})

	observability.LoggerFromContext(ctx).Info("task deleted", "task_id", id)
	return nil
}

func (s *Service) update(ctx context.Context, id domain.TaskID, next func(domain.TaskStatus) domain.TaskStatus) (*domain.Task, error) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	s.tasks[i].Status = next(s.tasks[i].Status)
	task := clone(s.tasks[i])
	s.mu.Unlock()

	s.persist(ctx, "update", id, func(st domain.TaskStore) error {
		return st.UpdateTaskStatus(ctx, id, task.Status)
	})

	observability.LoggerFromContext(ctx).Info("task status changed", "task_id", id, "status", task.Status)
	return task, nil
}

// persist runs op against the store. Failures are logged, not returned.
func (s *Service) persist(ctx context.Context, op string, id domain.TaskID, fn func(domain.TaskStore) error) {
	if s.store == nil {
		return
	}
	if err := fn(s.store); err != nil {
		observability.LoggerFromContext(ctx).Warn("task persistence failed",
			"op", op,
			"task_id", id,
			"error", fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err),
		)
	}
}

// index must be called with mu held.
func (s *Service) index(id domain.TaskID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
