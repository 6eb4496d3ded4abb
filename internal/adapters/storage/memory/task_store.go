package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]*domain.Task
	order []domain.TaskID // newest first
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[domain.TaskID]*domain.Task),
	}
}

func (s *TaskStore) CreateTask(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return errors.New("task already exists")
	}

	c := *task
	s.tasks[task.ID] = &c
	s.order = append([]domain.TaskID{task.ID}, s.order...)
	return nil
}

func (s *TaskStore) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		c := *s.tasks[id]
		result = append(result, &c)
	}
	return result, nil
}

func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id domain.TaskID, status domain.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
