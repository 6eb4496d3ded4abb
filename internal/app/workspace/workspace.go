// Package workspace binds the single live session to the active task and
// exposes the operations the outer surfaces (HTTP, CLI) drive.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/helper-kust/internal/app/conversation"
	"github.com/PabloGalante/helper-kust/internal/app/session"
	"github.com/PabloGalante/helper-kust/internal/app/tasks"
	"github.com/PabloGalante/helper-kust/internal/attachment"
	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/i18n"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

type Workspace struct {
	tasks    *tasks.Service
	executor *conversation.Service
	prefs    domain.PreferenceStore
	session  *session.Session

	mu       sync.RWMutex
	language domain.Language
	theme    domain.Theme
}

// New creates a workspace with no active task. prefs may be nil.
func New(taskSvc *tasks.Service, executor *conversation.Service, prefs domain.PreferenceStore, defaultLang domain.Language) *Workspace {
	defaultLang = i18n.ParseOr(string(defaultLang), domain.LanguageRussian)
	return &Workspace{
		tasks:    taskSvc,
		executor: executor,
		prefs:    prefs,
		session:  session.New(),
		language: defaultLang,
		theme:    domain.ThemeLight,
	}
}

// Load restores the task list and preferences. Failures fall back to an
// empty list and default preferences.
func (w *Workspace) Load(ctx context.Context) {
	w.tasks.Load(ctx)

	if w.prefs == nil {
		return
	}
	prefs, err := w.prefs.LoadPreferences(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("loading preferences failed, using defaults", "error", err)
		prefs = domain.DefaultPreferences()
	}
	w.applyPreferences(prefs)
}

func (w *Workspace) Tasks() *tasks.Service {
	return w.tasks
}

// SelectTask makes id the active task. Selecting the active task again
// changes nothing.
func (w *Workspace) SelectTask(ctx context.Context, id domain.TaskID) error {
	if id == "" {
		w.ClearTask(ctx)
		return nil
	}
	if _, err := w.tasks.Get(id); err != nil {
		return err
	}
	if w.session.TaskID() == id {
		return nil
	}

	w.session.SwitchTask(id)
	observability.LoggerFromContext(ctx).Info("active task switched", "task_id", id)
	return nil
}

func (w *Workspace) ClearTask(ctx context.Context) {
	if w.session.TaskID() == "" {
		return
	}
	w.session.SwitchTask("")
	observability.LoggerFromContext(ctx).Info("active task cleared")
}

// CreateTask adds a task and makes it active.
func (w *Workspace) CreateTask(ctx context.Context, title, description string) (*domain.Task, error) {
	task, err := w.tasks.Create(ctx, title, description)
	if err != nil {
		return nil, err
	}
	w.session.SwitchTask(task.ID)
	return task, nil
}

// DeleteTask removes a task; deleting the active task leaves no task active.
func (w *Workspace) DeleteTask(ctx context.Context, id domain.TaskID) error {
	if err := w.tasks.Delete(ctx, id); err != nil {
		return err
	}
	if w.session.TaskID() == id {
		w.ClearTask(ctx)
	}
	return nil
}

func (w *Workspace) ToggleTask(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return w.tasks.Toggle(ctx, id)
}

func (w *Workspace) SetTaskStatus(ctx context.Context, id domain.TaskID, status domain.TaskStatus) (*domain.Task, error) {
	return w.tasks.SetStatus(ctx, id, status)
}

// UpdateActiveStatus sets the status of the active task.
func (w *Workspace) UpdateActiveStatus(ctx context.Context, status domain.TaskStatus) (*domain.Task, error) {
	id := w.session.TaskID()
	if id == "" {
		return nil, fmt.Errorf("%w: no active task", domain.ErrTaskNotFound)
	}
	return w.tasks.SetStatus(ctx, id, status)
}

// SelectMode reports whether the mode was applied.
func (w *Workspace) SelectMode(mode domain.AssistanceMode) bool {
	return w.session.SelectMode(mode)
}

func (w *Workspace) Reset(ctx context.Context) {
	w.session.Reset()
	observability.LoggerFromContext(ctx).Info("session reset", "task_id", w.session.TaskID())
}

// SetDraft stores unsent input. A malformed image is dropped.
func (w *Workspace) SetDraft(ctx context.Context, text, imageDataURL string) {
	w.session.SetDraft(session.Draft{Text: text, Image: w.parseImage(ctx, imageDataURL)})
}

// Submit sends one turn for the active task. The gateway call is detached
// from ctx cancellation so an abandoned caller still completes the turn; the
// executor bounds it by its own timeout. Rejected submissions return an
// error wrapping domain.ErrRejected and change nothing.
func (w *Workspace) Submit(ctx context.Context, text, imageDataURL string, mode domain.AssistanceMode) (*conversation.TurnOutput, error) {
	in := conversation.TurnInput{
		Text:     text,
		Image:    w.parseImage(ctx, imageDataURL),
		Mode:     mode,
		Language: w.Language(),
	}
	return w.executor.Execute(context.WithoutCancel(ctx), w.session, in)
}

func (w *Workspace) parseImage(ctx context.Context, dataURL string) *domain.Attachment {
	if strings.TrimSpace(dataURL) == "" {
		return nil
	}
	img, err := attachment.Parse(dataURL)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("dropping malformed attachment", "error", err)
		return nil
	}
	return img
}

func (w *Workspace) Language() domain.Language {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.language
}

// SetLanguage changes the language used for later turns.
func (w *Workspace) SetLanguage(ctx context.Context, lang domain.Language) error {
	if _, ok := i18n.Parse(string(lang)); !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}
	prefs := w.Preferences()
	prefs.Language = lang
	return w.UpdatePreferences(ctx, prefs)
}

func (w *Workspace) Preferences() domain.Preferences {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return domain.Preferences{Theme: w.theme, Language: w.language}
}

// UpdatePreferences applies prefs in memory and persists them. Empty fields
// keep their current value. A persistence failure is logged; the new
// preferences stay in effect.
func (w *Workspace) UpdatePreferences(ctx context.Context, prefs domain.Preferences) error {
	if prefs.Theme != "" && !prefs.Theme.Valid() {
		return fmt.Errorf("unsupported theme %q", prefs.Theme)
	}
	if prefs.Language != "" {
		if _, ok := i18n.Parse(string(prefs.Language)); !ok {
			return fmt.Errorf("unsupported language %q", prefs.Language)
		}
	}

	w.applyPreferences(prefs)
	if w.prefs == nil {
		return nil
	}

	if err := w.prefs.SavePreferences(ctx, w.Preferences()); err != nil {
		if !errors.Is(err, domain.ErrPersistenceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
		}
		observability.LoggerFromContext(ctx).Warn("saving preferences failed", "error", err)
	}
	return nil
}

func (w *Workspace) applyPreferences(prefs domain.Preferences) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prefs.Theme.Valid() {
		w.theme = prefs.Theme
	}
	if prefs.Language != "" {
		if lang, ok := i18n.Parse(string(prefs.Language)); ok {
			w.language = lang
		}
	}
}

// View is a point-in-time copy of everything a presentation layer renders.
type View struct {
	Task      *domain.Task
	Session   session.Snapshot
	ModeLabel string
	Language  domain.Language
	Theme     domain.Theme
}

func (w *Workspace) Snapshot() View {
	snap := w.session.Snapshot()
	prefs := w.Preferences()

	v := View{
		Session:   snap,
		ModeLabel: i18n.ModeLabel(prefs.Language, snap.Mode),
		Language:  prefs.Language,
		Theme:     prefs.Theme,
	}
	if snap.TaskID != "" {
		if task, err := w.tasks.Get(snap.TaskID); err == nil {
			v.Task = task
		}
	}
	return v
}
