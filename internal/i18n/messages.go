package i18n

import (
	"github.com/PabloGalante/helper-kust/internal/domain"
)

type Key string

const (
	KeyGatewayError   Key = "gateway_error"
	KeyNoResponse     Key = "no_response"
	KeyNoCredential   Key = "no_credential"
	KeyRegionRejected Key = "region_rejected"
	KeyModeHelp       Key = "mode_help"
	KeyModeSolve      Key = "mode_solve"
	KeyAnswerOnly     Key = "answer_only"
)

var catalog = map[domain.Language]map[Key]string{
	domain.LanguageEnglish: {
		KeyGatewayError:   "Sorry, I encountered an error connecting to the AI.",
		KeyNoResponse:     "No response generated.",
		KeyNoCredential:   "The AI service is not configured: no API key was found.",
		KeyRegionRejected: "The AI service is not available in your region.",
		KeyModeHelp:       "Learning Mode",
		KeyModeSolve:      "Solver Mode",
		KeyAnswerOnly:     "Respond in English.",
	},
	domain.LanguageRussian: {
		KeyGatewayError:   "Произошла ошибка при обращении к ИИ.",
		KeyNoResponse:     "Не удалось получить ответ.",
		KeyNoCredential:   "Сервис ИИ не настроен: ключ API не найден.",
		KeyRegionRejected: "Сервис ИИ недоступен в вашем регионе.",
		KeyModeHelp:       "Режим обучения",
		KeyModeSolve:      "Режим решения",
		KeyAnswerOnly:     "Отвечай на русском языке.",
	},
	domain.LanguageSpanish: {
		KeyGatewayError:   "Lo siento, se produjo un error al conectar con la IA.",
		KeyNoResponse:     "No se generó ninguna respuesta.",
		KeyNoCredential:   "El servicio de IA no está configurado: no se encontró la clave de API.",
		KeyRegionRejected: "El servicio de IA no está disponible en tu región.",
		KeyModeHelp:       "Modo aprendizaje",
		KeyModeSolve:      "Modo resolución",
		KeyAnswerOnly:     "Responde en español.",
	},
}

// Text returns the string for key in lang, falling back to English.
func Text(lang domain.Language, key Key) string {
	if s, ok := catalog[lang][key]; ok {
		return s
	}
	return catalog[domain.LanguageEnglish][key]
}

// ModeLabel names a mode for display; unset modes have no label.
func ModeLabel(lang domain.Language, mode domain.AssistanceMode) string {
	switch mode {
	case domain.ModeHelp:
		return Text(lang, KeyModeHelp)
	case domain.ModeSolve:
		return Text(lang, KeyModeSolve)
	}
	return ""
}

// GatewayFailure describes a failed generation in lang.
func GatewayFailure(lang domain.Language, err error) string {
	switch domain.GatewayErrorKindOf(err) {
	case domain.GatewayErrorCredential:
		return Text(lang, KeyNoCredential)
	case domain.GatewayErrorPolicy:
		return Text(lang, KeyRegionRejected)
	case domain.GatewayErrorEmpty:
		return Text(lang, KeyNoResponse)
	default:
		return Text(lang, KeyGatewayError)
	}
}
