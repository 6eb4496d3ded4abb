// Package session holds the conversation state of the task currently in view.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

type State string

const (
	StateNoTask         State = "no_task"
	StateModeUnselected State = "mode_unselected"
	StateModeLocked     State = "mode_locked"
)

// Draft is the unsent input buffer of a session.
type Draft struct {
	Text  string
	Image *domain.Attachment
}

// Ticket identifies the turn started by Begin. A reply is only applied when
// its ticket still matches the session; switching task or resetting
// invalidates every outstanding ticket.
type Ticket struct {
	TaskID domain.TaskID
	Mode   domain.AssistanceMode
	epoch  uint64
}

// Snapshot is a copy of the session state, safe to hand out.
type Snapshot struct {
	TaskID   domain.TaskID
	State    State
	Mode     domain.AssistanceMode
	Pending  bool
	Draft    Draft
	Messages []domain.ChatMessage
}

// Session is the state machine for one task view. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	taskID  domain.TaskID
	mode    domain.AssistanceMode
	log     []domain.ChatMessage
	pending bool
	draft   Draft
	epoch   uint64
}

func New() *Session {
	return &Session{}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	switch {
	case s.taskID == "":
		return StateNoTask
	case s.mode == domain.ModeUnset:
		return StateModeUnselected
	default:
		return StateModeLocked
	}
}

// SwitchTask binds the session to id, discarding everything about the
// previous task. An empty id leaves the session with no task.
func (s *Session) SwitchTask(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskID = id
	s.clear()
	s.draft = Draft{}
}

// Reset clears the log and mode but keeps the task.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Session) clear() {
	s.mode = domain.ModeUnset
	s.log = nil
	s.pending = false
	s.epoch++
}

// SelectMode sets the mode while no turn has been sent. It reports whether
// the mode was applied; an illegal call changes nothing.
func (s *Session) SelectMode(m domain.AssistanceMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !m.Valid() || s.taskID == "" || s.pending || len(s.log) > 0 {
		return false
	}
	s.mode = m
	return true
}

func (s *Session) SetDraft(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taskID == "" {
		return
	}
	s.draft = d
}

// Begin accepts a user message: it locks the mode (the session's own, or
// fallback when none is set), appends msg optimistically and marks the
// session pending. It returns the log as it was before msg was appended.
func (s *Session) Begin(msg domain.ChatMessage, fallback domain.AssistanceMode) (Ticket, []domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.taskID == "":
		return Ticket{}, nil, fmt.Errorf("%w: no active task", domain.ErrRejected)
	case s.pending:
		return Ticket{}, nil, fmt.Errorf("%w: a turn is already in flight", domain.ErrRejected)
	case strings.TrimSpace(msg.Text) == "" && !msg.Image.Present():
		return Ticket{}, nil, fmt.Errorf("%w: empty submission", domain.ErrRejected)
	}

	mode := s.mode
	if mode == domain.ModeUnset {
		mode = fallback
	}
	if !mode.Valid() {
		return Ticket{}, nil, fmt.Errorf("%w: no assistance mode selected", domain.ErrRejected)
	}

	prior := make([]domain.ChatMessage, len(s.log))
	copy(prior, s.log)

	s.mode = mode
	s.log = append(s.log, msg)
	s.pending = true
	s.draft = Draft{}

	return Ticket{TaskID: s.taskID, Mode: mode, epoch: s.epoch}, prior, nil
}

// Complete appends the reply for the turn identified by t and clears the
// pending flag. It reports false, changing nothing, when t is stale.
func (s *Session) Complete(t Ticket, reply domain.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch || t.TaskID != s.taskID || !s.pending {
		return false
	}
	s.log = append(s.log, reply)
	s.pending = false
	return true
}

func (s *Session) TaskID() domain.TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

func (s *Session) Mode() domain.AssistanceMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Locked reports whether the mode can no longer change until Reset.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode != domain.ModeUnset && len(s.log) > 0
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]domain.ChatMessage, len(s.log))
	copy(msgs, s.log)
	return Snapshot{
		TaskID:   s.taskID,
		State:    s.state(),
		Mode:     s.mode,
		Pending:  s.pending,
		Draft:    s.draft,
		Messages: msgs,
	}
}
