package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

const preferencesFile = "preferences.yaml"

type preferencesDoc struct {
	Theme    string `yaml:"theme"`
	Language string `yaml:"language,omitempty"`
}

// PreferenceStore keeps preferences in a YAML file under dir.
type PreferenceStore struct {
	fs  *afero.Afero
	dir string
}

func NewPreferenceStore(fs afero.Fs, dir string) *PreferenceStore {
	return &PreferenceStore{
		fs:  &afero.Afero{Fs: fs},
		dir: dir,
	}
}

func (s *PreferenceStore) path() string {
	return filepath.Join(s.dir, preferencesFile)
}

// LoadPreferences returns the stored preferences. A missing file yields the
// defaults with no error; an unreadable or corrupt file yields the defaults
// together with an error wrapping domain.ErrPersistenceUnavailable.
func (s *PreferenceStore) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	exists, err := s.fs.Exists(s.path())
	if err != nil {
		return prefs, fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !exists {
		return prefs, nil
	}

	content, err := s.fs.ReadFile(s.path())
	if err != nil {
		return prefs, fmt.Errorf("%w: reading preferences: %w", domain.ErrPersistenceUnavailable, err)
	}

	var doc preferencesDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return prefs, fmt.Errorf("%w: decoding preferences: %w", domain.ErrPersistenceUnavailable, err)
	}

	if theme := domain.Theme(doc.Theme); theme.Valid() {
		prefs.Theme = theme
	}
	prefs.Language = domain.Language(doc.Language)
	return prefs, nil
}

func (s *PreferenceStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	content, err := yaml.Marshal(preferencesDoc{
		Theme:    string(prefs.Theme),
		Language: string(prefs.Language),
	})
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if err := s.fs.WriteFile(s.path(), content, 0o600); err != nil {
		return fmt.Errorf("%w: writing preferences: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}
