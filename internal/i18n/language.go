// Package i18n resolves the interface language and its fixed strings.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

// Supported lists the selectable languages.
var Supported = []domain.Language{
	domain.LanguageEnglish,
	domain.LanguageRussian,
	domain.LanguageSpanish,
}

var supportedBases = []language.Base{
	language.MustParseBase("en"),
	language.MustParseBase("ru"),
	language.MustParseBase("es"),
}

// Parse matches user input ("ru", "es-AR", "en-US,en;q=0.9") to a supported
// language by base language, honouring q-weights. ok is false when no
// listed language is supported.
func Parse(s string) (domain.Language, bool) {
	if s == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil {
		return "", false
	}
	for _, tag := range tags {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		for i, b := range supportedBases {
			if b == base {
				return Supported[i], true
			}
		}
	}
	return "", false
}

// ParseOr is Parse with a fallback.
func ParseOr(s string, def domain.Language) domain.Language {
	if l, ok := Parse(s); ok {
		return l
	}
	return def
}
