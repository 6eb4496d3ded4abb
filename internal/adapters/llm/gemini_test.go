package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	res *genai.GenerateContentResponse
	err error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.res, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGenerateSendsMultiPartHistory(t *testing.T) {
	fake := &fakeModels{res: textResponse("4")}
	client := newGeminiClientWithModels(fake)

	req := domain.GenerationRequest{
		Model:             "gemini-3-flash-preview",
		SystemInstruction: "You are a homework solver.",
		Temperature:       0.3,
		Contents: []domain.ProtocolTurn{
			{Role: domain.RoleUser, Parts: []domain.Part{
				domain.InlineBinaryPart{MIMEType: "image/png", Data: []byte{1, 2, 3}},
				domain.TextPart{Text: "what is this?"},
			}},
			{Role: domain.RoleModel, Parts: []domain.Part{domain.TextPart{Text: "a sum"}}},
			{Role: domain.RoleUser, Parts: []domain.Part{domain.TextPart{Text: "2+2?"}}},
		},
	}

	got, err := client.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "4" {
		t.Fatalf("expected reply %q, got %q", "4", got)
	}

	if fake.model != req.Model {
		t.Errorf("expected model %q, got %q", req.Model, fake.model)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", fake.config.Temperature)
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != req.SystemInstruction {
		t.Errorf("system instruction not forwarded: %+v", fake.config.SystemInstruction)
	}

	want := []flatPart{
		{Role: "user", MIMEType: "image/png", Data: []byte{1, 2, 3}},
		{Role: "user", Text: "what is this?"},
		{Role: "model", Text: "a sum"},
		{Role: "user", Text: "2+2?"},
	}
	if diff := cmp.Diff(want, flatten(fake.contents)); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if len(fake.contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(fake.contents))
	}
}

func TestToContentsRoles(t *testing.T) {
	got := toContents([]domain.ProtocolTurn{
		{Role: domain.RoleUser, Parts: []domain.Part{domain.TextPart{Text: "q"}}},
		{Role: domain.RoleModel, Parts: []domain.Part{domain.TextPart{Text: "a"}}},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(got))
	}
	if got[0].Role != genai.RoleUser || got[1].Role != genai.RoleModel {
		t.Fatalf("unexpected roles %q, %q", got[0].Role, got[1].Role)
	}
}

type flatPart struct {
	Role     string
	Text     string
	MIMEType string
	Data     []byte
}

func flatten(contents []*genai.Content) []flatPart {
	var out []flatPart
	for _, c := range contents {
		for _, p := range c.Parts {
			fp := flatPart{Role: c.Role, Text: p.Text}
			if p.InlineData != nil {
				fp.MIMEType = p.InlineData.MIMEType
				fp.Data = p.InlineData.Data
			}
			out = append(out, fp)
		}
	}
	return out
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client := newGeminiClientWithModels(&fakeModels{res: &genai.GenerateContentResponse{}})

	got, err := client.Generate(context.Background(), domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("expected no error for empty response, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestMissingCredential(t *testing.T) {
	client := NewGeminiClient(context.Background(), GeminiConfig{Backend: BackendGemini})

	_, err := client.Generate(context.Background(), domain.GenerationRequest{})
	if kind := domain.GatewayErrorKindOf(err); kind != domain.GatewayErrorCredential {
		t.Fatalf("expected credential error, got %q (%v)", kind, err)
	}

	vertex := NewGeminiClient(context.Background(), GeminiConfig{Backend: BackendVertex})
	_, err = vertex.Generate(context.Background(), domain.GenerationRequest{})
	if kind := domain.GatewayErrorKindOf(err); kind != domain.GatewayErrorCredential {
		t.Fatalf("expected credential error for vertex, got %q (%v)", kind, err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.GatewayErrorKind
	}{
		{
			name: "region",
			err:  genai.APIError{Code: 400, Status: "FAILED_PRECONDITION", Message: "User location is not supported for the API use."},
			want: domain.GatewayErrorPolicy,
		},
		{
			name: "unsupported country",
			err:  genai.APIError{Code: 403, Message: "Gemini API is not available in your country."},
			want: domain.GatewayErrorPolicy,
		},
		{
			name: "failed precondition mentioning region",
			err:  genai.APIError{Code: 400, Status: "FAILED_PRECONDITION", Message: "Model is not served in this region."},
			want: domain.GatewayErrorPolicy,
		},
		{
			name: "quota mentioning region",
			err:  genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded for quota metric in region us-central1."},
			want: domain.GatewayErrorTransport,
		},
		{
			name: "failed precondition without location",
			err:  genai.APIError{Code: 400, Status: "FAILED_PRECONDITION", Message: "Billing is not enabled."},
			want: domain.GatewayErrorTransport,
		},
		{
			name: "bad key",
			err:  genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "API key not valid. Please pass a valid API key."},
			want: domain.GatewayErrorCredential,
		},
		{
			name: "permission denied",
			err:  fmt.Errorf("wrapped: %w", genai.APIError{Code: 403, Status: "PERMISSION_DENIED", Message: "denied"}),
			want: domain.GatewayErrorCredential,
		},
		{
			name: "http code only",
			err:  genai.APIError{Code: 401, Message: "unauthorized"},
			want: domain.GatewayErrorCredential,
		},
		{
			name: "server error",
			err:  genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"},
			want: domain.GatewayErrorTransport,
		},
		{
			name: "network",
			err:  errors.New("dial tcp: connection refused"),
			want: domain.GatewayErrorTransport,
		},
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: domain.GatewayErrorTransport,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client := newGeminiClientWithModels(&fakeModels{err: c.err})
			_, err := client.Generate(context.Background(), domain.GenerationRequest{})
			if got := domain.GatewayErrorKindOf(err); got != c.want {
				t.Fatalf("expected %q, got %q (%v)", c.want, got, err)
			}
			if !errors.Is(err, c.err) && !errors.As(err, new(genai.APIError)) {
				t.Fatalf("classified error must wrap the original, got %v", err)
			}
		})
	}
}

func TestMockLLM(t *testing.T) {
	m := NewMockLLM()
	got, err := m.Generate(context.Background(), domain.GenerationRequest{
		Contents: []domain.ProtocolTurn{{Role: domain.RoleUser, Parts: []domain.Part{
			domain.InlineBinaryPart{MIMEType: "image/png"},
			domain.TextPart{Text: "hello"},
		}}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "(mock, 1 turns, 1 images) hello" {
		t.Fatalf("unexpected mock reply %q", got)
	}
}
