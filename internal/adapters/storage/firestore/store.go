package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

const (
	tasksCollection    = "tasks"
	settingsCollection = "settings"
	preferencesDocID   = "preferences"
)

// Store implements TaskStore and PreferenceStore on Firestore.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for projectID (HELPERKUST_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) tasksCol() *firestore.CollectionRef {
	return s.client.Collection(tasksCollection)
}

func (s *Store) taskDoc(id domain.TaskID) *firestore.DocumentRef {
	return s.tasksCol().Doc(string(id))
}

func (s *Store) preferencesDoc() *firestore.DocumentRef {
	return s.client.Collection(settingsCollection).Doc(preferencesDocID)
}

type taskDoc struct {
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type preferencesDoc struct {
	Theme    string `firestore:"theme"`
	Language string `firestore:"language"`
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	doc := taskDoc{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
	}

	if _, err := s.taskDoc(task.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateTask: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	iter := s.tasksCol().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListTasks: %w", err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}

		out = append(out, &domain.Task{
			ID:          domain.TaskID(snap.Ref.ID),
			Title:       doc.Title,
			Description: doc.Description,
			Status:      domain.TaskStatus(doc.Status),
			CreatedAt:   doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id domain.TaskID, taskStatus domain.TaskStatus) error {
	_, err := s.taskDoc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(taskStatus)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return fmt.Errorf("firestore UpdateTaskStatus: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id domain.TaskID) error {
	if _, err := s.taskDoc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteTask: %w", err)
	}
	return nil
}

func (s *Store) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	snap, err := s.preferencesDoc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return prefs, nil
		}
		return prefs, fmt.Errorf("%w: firestore LoadPreferences: %w", domain.ErrPersistenceUnavailable, err)
	}

	var doc preferencesDoc
	if err := snap.DataTo(&doc); err != nil {
		return prefs, fmt.Errorf("%w: decode preferencesDoc: %w", domain.ErrPersistenceUnavailable, err)
	}

	if theme := domain.Theme(doc.Theme); theme.Valid() {
		prefs.Theme = theme
	}
	prefs.Language = domain.Language(doc.Language)
	return prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	doc := preferencesDoc{
		Theme:    string(prefs.Theme),
		Language: string(prefs.Language),
	}
	if _, err := s.preferencesDoc().Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SavePreferences: %w", err)
	}
	return nil
}
