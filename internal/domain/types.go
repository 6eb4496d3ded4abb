package domain

import (
	"strings"
	"time"
)

type TaskID string
type MessageID string

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// AssistanceMode is the strategy the assistant follows for a session.
type AssistanceMode string

const (
	ModeUnset AssistanceMode = ""
	ModeHelp  AssistanceMode = "HELP"  // Socratic guidance
	ModeSolve AssistanceMode = "SOLVE" // Direct solution
)

func (m AssistanceMode) Valid() bool {
	return m == ModeHelp || m == ModeSolve
}

// ParseAssistanceMode accepts "help"/"solve" in any case.
func ParseAssistanceMode(s string) (AssistanceMode, bool) {
	m := AssistanceMode(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus accepts "pending", "in_progress", "in-progress" and
// "completed" in any case.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	st := TaskStatus(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	return st, st.Valid()
}

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageRussian Language = "ru"
	LanguageSpanish Language = "es"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

type Timestamp = time.Time
