package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// GeminiConfig selects between the Gemini API (API key) and Vertex AI (project + location).
type GeminiConfig struct {
	Backend  string
	APIKey   string
	Project  string
	Location string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements domain.Gateway on top of google.golang.org/genai.
type GeminiClient struct {
	models contentGenerator

	// setupErr is returned by every call when the client could not be built,
	// so a missing credential shows up in the conversation instead of at startup.
	setupErr error
}

// NewGeminiClient never fails: configuration problems are reported by Generate.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) *GeminiClient {
	clientCfg := &genai.ClientConfig{}

	switch cfg.Backend {
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return &GeminiClient{setupErr: &domain.GatewayError{
				Kind: domain.GatewayErrorCredential,
				Err:  errors.New("vertex backend needs a project and a location"),
			}}
		}
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
	default:
		if cfg.APIKey == "" {
			return &GeminiClient{setupErr: &domain.GatewayError{
				Kind: domain.GatewayErrorCredential,
				Err:  errors.New("no API key configured"),
			}}
		}
		clientCfg.Backend = genai.BackendGeminiAPI
		clientCfg.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return &GeminiClient{setupErr: &domain.GatewayError{
			Kind: domain.GatewayErrorCredential,
			Err:  fmt.Errorf("creating genai client: %w", err),
		}}
	}

	return &GeminiClient{models: client.Models}
}

func newGeminiClientWithModels(models contentGenerator) *GeminiClient {
	return &GeminiClient{models: models}
}

// Generate implements domain.Gateway.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if g.setupErr != nil {
		return "", g.setupErr
	}

	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	res, err := g.models.GenerateContent(ctx, req.Model, toContents(req.Contents), cfg)
	if err != nil {
		return "", classify(err)
	}

	// Missing candidates or text are an empty reply, not a failure of the call.
	if res == nil {
		return "", nil
	}
	return res.Text(), nil
}

func toContents(turns []domain.ProtocolTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			switch v := p.(type) {
			case domain.InlineBinaryPart:
				parts = append(parts, genai.NewPartFromBytes(v.Data, v.MIMEType))
			case domain.TextPart:
				parts = append(parts, genai.NewPartFromText(v.Text))
			}
		}

		var role genai.Role = genai.RoleUser
		if turn.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.GatewayError{Kind: domain.GatewayErrorTransport, Err: err}
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return &domain.GatewayError{Kind: domain.GatewayErrorTransport, Err: err}
	}

	code := statusCode(apiErr)
	msg := strings.ToLower(apiErr.Message)

	switch {
	case isLocationRejection(code, msg):
		return &domain.GatewayError{Kind: domain.GatewayErrorPolicy, Err: err}
	case code == codes.Unauthenticated,
		code == codes.PermissionDenied,
		strings.Contains(msg, "api key"):
		return &domain.GatewayError{Kind: domain.GatewayErrorCredential, Err: err}
	default:
		return &domain.GatewayError{Kind: domain.GatewayErrorTransport, Err: err}
	}
}

// isLocationRejection reports the backend refusing the caller's region.
// msg must already be lower-cased.
func isLocationRejection(code codes.Code, msg string) bool {
	if strings.Contains(msg, "location is not supported") ||
		strings.Contains(msg, "not available in your country") {
		return true
	}
	return code == codes.FailedPrecondition &&
		(strings.Contains(msg, "location") || strings.Contains(msg, "region"))
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// statusCode maps the canonical status name ("PERMISSION_DENIED") to a gRPC
// code, falling back to the HTTP status.
func statusCode(apiErr genai.APIError) codes.Code {
	var code codes.Code
	if apiErr.Status != "" {
		if err := code.UnmarshalJSON([]byte(strconv.Quote(apiErr.Status))); err == nil {
			return code
		}
	}
	switch apiErr.Code {
	case 401:
		return codes.Unauthenticated
	case 403:
		return codes.PermissionDenied
	case 400:
		return codes.InvalidArgument
	default:
		return codes.Unknown
	}
}
