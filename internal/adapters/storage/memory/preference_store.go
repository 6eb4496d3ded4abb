package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

type PreferenceStore struct {
	mu    sync.RWMutex
	prefs domain.Preferences
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{prefs: domain.DefaultPreferences()}
}

func (s *PreferenceStore) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs, nil
}

func (s *PreferenceStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	return nil
}
