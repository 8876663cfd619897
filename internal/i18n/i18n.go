// Package i18n resolves the visitor's language and looks up UI strings.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"

	// English is the default language code
	English = "en"
	// French language code
	French = "fr"
)

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
	messages  = catalog.NewBuilder(catalog.Fallback(language.English))
)

func set(tag language.Tag, entries map[string]string) {
	for key, value := range entries {
		// catalog entries are format strings; a literal percent must survive
		if err := messages.SetString(tag, key, strings.ReplaceAll(value, "%", "%%")); err != nil {
			panic("i18n: invalid message " + key + ": " + err.Error())
		}
	}
}

func init() {
	set(language.English, messagesEN)
	set(language.French, messagesFR)
}

// Supported returns the supported language codes, default first
func Supported() []string {
	return []string{English, French}
}

// Parse maps a language code to a supported one
func Parse(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case English:
		return English, true
	case French:
		return French, true
	default:
		return "", false
	}
}

// Normalize coerces unknown codes to the default language
func Normalize(value string) string {
	if lang, ok := Parse(value); ok {
		return lang
	}
	return English
}

// Resolve picks the language for a request: the lang query parameter, then the
// stored preference, then Accept-Language, then English.
func Resolve(r *http.Request, preference string) string {
	if r == nil {
		return English
	}

	if lang, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return lang
	}

	if lang, ok := Parse(preference); ok {
		return lang
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return codeFor(supported[index])
			}
		}
	}

	return English
}

func codeFor(tag language.Tag) string {
	if tag == language.French {
		return French
	}
	return English
}

// Printer returns a message printer for lang
func Printer(lang string) *message.Printer {
	tag := language.English
	if Normalize(lang) == French {
		tag = language.French
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

// T translates key into lang. Unknown keys are returned as is.
func T(lang, key string) string {
	return Printer(lang).Sprintf(key)
}

// Toggle returns the other language
func Toggle(lang string) string {
	if Normalize(lang) == French {
		return English
	}
	return French
}
