package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/helper-kust/internal/app/conversation"
	"github.com/PabloGalante/helper-kust/internal/app/workspace"
	"github.com/PabloGalante/helper-kust/internal/attachment"
	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

type Server struct {
	ws *workspace.Workspace
}

// NewServer builds the API handler. metrics may be nil, in which case
// /metrics is not served.
func NewServer(ws *workspace.Workspace, metrics *observability.Metrics) http.Handler {
	s := &Server{ws: ws}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	// /tasks → list (GET), create (POST)
	mux.HandleFunc("/tasks", s.handleTasks)

	// /tasks/{id}        → PATCH: set status, DELETE: remove
	// /tasks/{id}/toggle → POST
	mux.HandleFunc("/tasks/", s.handleTaskWithID)

	// /workspace         → GET: snapshot
	// /workspace/{action} → POST
	mux.HandleFunc("/workspace", s.handleWorkspace)
	mux.HandleFunc("/workspace/", s.handleWorkspaceAction)

	mux.HandleFunc("/preferences", s.handlePreferences)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type selectTaskRequest struct {
	TaskID string `json:"task_id"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type turnRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"` // data URL
	Mode  string `json:"mode,omitempty"`
}

type draftRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type preferencesRequest struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type draftResponse struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type workspaceResponse struct {
	Task      *taskResponse     `json:"task"`
	State     string            `json:"state"`
	Mode      string            `json:"mode,omitempty"`
	ModeLabel string            `json:"mode_label,omitempty"`
	Pending   bool              `json:"pending"`
	Draft     draftResponse     `json:"draft"`
	Messages  []messageResponse `json:"messages"`
	Language  string            `json:"language"`
	Theme     string            `json:"theme"`
}

type turnResponse struct {
	UserMessage  messageResponse `json:"user_message"`
	ReplyMessage messageResponse `json:"reply_message"`
	Failed       bool            `json:"failed"`
	Discarded    bool            `json:"discarded"`
}

type preferencesResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTasks(w, r)
	case http.MethodPost:
		s.handleCreateTask(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /tasks/{id} or /tasks/{id}/toggle
func (s *Server) handleTaskWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/tasks/")
	parts := strings.Split(path, "/")
	id := domain.TaskID(parts[0])

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPatch:
			s.handleSetTaskStatus(w, r, id)
		case http.MethodDelete:
			s.handleDeleteTask(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleToggleTask(w, r, id)
		return
	}

	http.NotFound(w, r)
}

// /workspace
func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, toWorkspaceResponse(s.ws.Snapshot()))
}

// /workspace/{task|mode|turns|draft|reset|status}
func (s *Server) handleWorkspaceAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch strings.TrimPrefix(r.URL.Path, "/workspace/") {
	case "task":
		s.handleSelectTask(w, r)
	case "mode":
		s.handleSelectMode(w, r)
	case "turns":
		s.handleSubmitTurn(w, r)
	case "draft":
		s.handleSetDraft(w, r)
	case "reset":
		s.ws.Reset(r.Context())
		writeJSON(w, http.StatusOK, toWorkspaceResponse(s.ws.Snapshot()))
	case "status":
		s.handleActiveStatus(w, r)
	default:
		http.NotFound(w, r)
	}
}

// /preferences
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toPreferencesResponse(s.ws.Preferences()))
	case http.MethodPut:
		s.handleUpdatePreferences(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.ws.Tasks().List()
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	task, err := s.ws.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleSetTaskStatus(w http.ResponseWriter, r *http.Request, id domain.TaskID) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	status, ok := domain.ParseTaskStatus(req.Status)
	if !ok {
		badRequest(w, "status must be one of PENDING, IN_PROGRESS, COMPLETED")
		return
	}

	task, err := s.ws.SetTaskStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, id domain.TaskID) {
	task, err := s.ws.ToggleTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, id domain.TaskID) {
	if err := s.ws.DeleteTask(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectTask(w http.ResponseWriter, r *http.Request) {
	var req selectTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := s.ws.SelectTask(r.Context(), domain.TaskID(req.TaskID)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkspaceResponse(s.ws.Snapshot()))
}

func (s *Server) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	mode, ok := domain.ParseAssistanceMode(req.Mode)
	if !ok {
		badRequest(w, "mode must be HELP or SOLVE")
		return
	}

	// Selecting a mode after the first turn is ignored.
	if !s.ws.SelectMode(mode) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toWorkspaceResponse(s.ws.Snapshot()))
}

func (s *Server) handleSubmitTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	var mode domain.AssistanceMode
	if req.Mode != "" {
		m, ok := domain.ParseAssistanceMode(req.Mode)
		if !ok {
			badRequest(w, "mode must be HELP or SOLVE")
			return
		}
		mode = m
	}

	out, err := s.ws.Submit(r.Context(), req.Text, req.Image, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTurnResponse(out))
}

func (s *Server) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	s.ws.SetDraft(r.Context(), req.Text, req.Image)
	writeJSON(w, http.StatusOK, toWorkspaceResponse(s.ws.Snapshot()))
}

func (s *Server) handleActiveStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	status, ok := domain.ParseTaskStatus(req.Status)
	if !ok {
		badRequest(w, "status must be one of PENDING, IN_PROGRESS, COMPLETED")
		return
	}

	task, err := s.ws.UpdateActiveStatus(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	prefs := domain.Preferences{
		Theme:    domain.Theme(strings.ToLower(req.Theme)),
		Language: domain.Language(req.Language),
	}
	if err := s.ws.UpdatePreferences(r.Context(), prefs); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(s.ws.Preferences()))
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          string(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Text:      m.Text,
		Image:     attachment.String(m.Image),
		CreatedAt: m.CreatedAt,
	}
}

func toWorkspaceResponse(v workspace.View) workspaceResponse {
	msgs := make([]messageResponse, 0, len(v.Session.Messages))
	for _, m := range v.Session.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}

	resp := workspaceResponse{
		State:     string(v.Session.State),
		Mode:      string(v.Session.Mode),
		ModeLabel: v.ModeLabel,
		Pending:   v.Session.Pending,
		Draft: draftResponse{
			Text:  v.Session.Draft.Text,
			Image: attachment.String(v.Session.Draft.Image),
		},
		Messages: msgs,
		Language: string(v.Language),
		Theme:    string(v.Theme),
	}
	if v.Task != nil {
		t := toTaskResponse(v.Task)
		resp.Task = &t
	}
	return resp
}

func toTurnResponse(out *conversation.TurnOutput) turnResponse {
	return turnResponse{
		UserMessage:  toMessageResponse(out.UserMessage),
		ReplyMessage: toMessageResponse(out.ReplyMessage),
		Failed:       out.Failure != nil,
		Discarded:    out.Discarded,
	}
}

func toPreferencesResponse(p domain.Preferences) preferencesResponse {
	return preferencesResponse{
		Theme:    string(p.Theme),
		Language: string(p.Language),
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Rejected submissions are
// answered with 204 and no body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRejected):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
	case errors.Is(err, domain.ErrInvalidTask):
		badRequest(w, "title is required")
	default:
		internalError(w, r, err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
