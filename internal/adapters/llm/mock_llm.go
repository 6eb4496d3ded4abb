package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

// MockLLM answers locally so the app runs without a backend.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if len(req.Contents) == 0 {
		return "", nil
	}

	last := req.Contents[len(req.Contents)-1]
	var text []string
	images := 0
	for _, p := range last.Parts {
		switch v := p.(type) {
		case domain.TextPart:
			text = append(text, v.Text)
		case domain.InlineBinaryPart:
			images++
		}
	}

	return fmt.Sprintf("(mock, %d turns, %d images) %s", len(req.Contents), images, strings.Join(text, " ")), nil
}
