package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/helper-kust/internal/app/history"
	"github.com/PabloGalante/helper-kust/internal/app/session"
	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/i18n"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

const DefaultModel = "gemini-3-flash-preview"

// Service runs one request/response cycle against the gateway.
type Service struct {
	gateway domain.Gateway
	model   string
	timeout time.Duration
	metrics *observability.Metrics

	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTimeout bounds a single gateway call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(gateway domain.Gateway, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		model:   DefaultModel,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type TurnInput struct {
	Text     string
	Image    *domain.Attachment
	Mode     domain.AssistanceMode // used only when the session has no mode yet
	Language domain.Language
}

type TurnOutput struct {
	UserMessage  domain.ChatMessage
	ReplyMessage domain.ChatMessage

	// Failure is the gateway error the reply stands in for, if any.
	Failure error

	// Discarded is set when the session moved on (task switch or reset)
	// before the reply arrived; the reply was not applied.
	Discarded bool
}

// Execute submits one user turn. It returns an error wrapping
// domain.ErrRejected, with the session untouched, when the submission is not
// accepted. Gateway failures never surface as errors: they become a
// model-role message in the log.
func (s *Service) Execute(ctx context.Context, sess *session.Session, in TurnInput) (*TurnOutput, error) {
	userMsg := domain.ChatMessage{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleUser,
		Text:      in.Text,
		Image:     in.Image,
		CreatedAt: s.now(),
	}

	ticket, prior, err := sess.Begin(userMsg, in.Mode)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug("turn rejected", "error", err)
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"task_id", ticket.TaskID,
		"mode", ticket.Mode,
		"language", in.Language,
	)
	log.Info("sending turn", "history_len", len(prior)+1, "has_image", userMsg.Image.Present())

	profile := ProfileFor(ticket.Mode, in.Language)
	req := domain.GenerationRequest{
		Model:             s.model,
		Contents:          history.Build(prior, userMsg),
		SystemInstruction: profile.SystemInstruction,
		Temperature:       profile.Temperature,
	}

	start := s.now()
	text, genErr := s.generate(ctx, req)
	elapsed := s.now().Sub(start)

	reply := domain.ChatMessage{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleModel,
		Text:      text,
		CreatedAt: s.now(),
	}
	outcome := "ok"
	if genErr != nil {
		reply.Text = i18n.GatewayFailure(in.Language, genErr)
		outcome = string(domain.GatewayErrorKindOf(genErr))
		log.Warn("gateway call failed", "error", genErr, "kind", outcome)
	}

	applied := sess.Complete(ticket, reply)
	if !applied {
		outcome = "discarded"
		log.Info("discarding reply for a session that moved on")
	}
	s.metrics.ObserveTurn(string(ticket.Mode), outcome, elapsed)

	log.Info("turn completed", "outcome", outcome, "elapsed_ms", elapsed.Milliseconds())

	return &TurnOutput{
		UserMessage:  userMsg,
		ReplyMessage: reply,
		Failure:      genErr,
		Discarded:    !applied,
	}, nil
}

func (s *Service) generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gateway.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}
