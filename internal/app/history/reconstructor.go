// Package history rebuilds the protocol history replayed to the gateway on every turn.
package history

import (
	"github.com/PabloGalante/helper-kust/internal/attachment"
	"github.com/PabloGalante/helper-kust/internal/domain"
)

// Build maps the prior log plus the pending turn to protocol turns, one per
// message and in the same order. The pending turn is always last.
// Messages that end up with no parts are skipped; an attachment that fails
// to decode is dropped and the message degrades to text-only.
func Build(prior []domain.ChatMessage, pending domain.ChatMessage) []domain.ProtocolTurn {
	turns := make([]domain.ProtocolTurn, 0, len(prior)+1)
	for _, m := range prior {
		if turn, ok := turnFor(m); ok {
			turns = append(turns, turn)
		}
	}
	if turn, ok := turnFor(pending); ok {
		turns = append(turns, turn)
	}
	return turns
}

func turnFor(m domain.ChatMessage) (domain.ProtocolTurn, bool) {
	parts := Parts(m)
	if len(parts) == 0 {
		return domain.ProtocolTurn{}, false
	}
	return domain.ProtocolTurn{Role: m.Role, Parts: parts}, true
}

// Parts returns the inline image part (if any) followed by the text part (if any).
func Parts(m domain.ChatMessage) []domain.Part {
	var parts []domain.Part
	if m.Image.Present() {
		if mediaType, raw, err := attachment.Bytes(m.Image); err == nil {
			parts = append(parts, domain.InlineBinaryPart{MIMEType: mediaType, Data: raw})
		}
	}
	if m.Text != "" {
		parts = append(parts, domain.TextPart{Text: m.Text})
	}
	return parts
}
