package conversation

import (
	"fmt"

	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/i18n"
)

const helpInstructions = `You are a helpful tutor. %s
Your goal is to help the user LEARN.
Never give the direct answer immediately.
Use the Socratic method: ask guiding questions, explain concepts, and lead the user to the solution.
If the user sends an image, analyze it and explain what is shown, then guide them.
Format math using LaTeX.`

const solveInstructions = `You are a homework solver. %s
Your goal is to SOLVE the task efficiently.
Provide the correct answer and a clear, step-by-step derivation.
Do not ask questions unless the input is ambiguous.
If the user sends an image, solve the problem shown in the image.
Format math using LaTeX.`

const (
	helpTemperature  float32 = 0.7
	solveTemperature float32 = 0.3
)

// Profile is the fixed generation setup for a mode and language.
type Profile struct {
	SystemInstruction string
	Temperature       float32
}

// ProfileFor depends only on mode and language, never on message content.
func ProfileFor(mode domain.AssistanceMode, lang domain.Language) Profile {
	answerIn := i18n.Text(lang, i18n.KeyAnswerOnly)
	if mode == domain.ModeSolve {
		return Profile{
			SystemInstruction: fmt.Sprintf(solveInstructions, answerIn),
			Temperature:       solveTemperature,
		}
	}
	return Profile{
		SystemInstruction: fmt.Sprintf(helpInstructions, answerIn),
		Temperature:       helpTemperature,
	}
}
